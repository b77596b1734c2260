package earthwork

import (
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/nivela/internal/model"
)

// Normalize computes the cut depths and lane cut areas of one station and
// rounds every numeric field. All numeric fields of raw must be finite.
func Normalize(raw model.RawRow) model.NormalizedRow {
	diffLeft := cutDepth(raw.SubgradeLeft, raw.BlackLeft)
	diffCenter := cutDepth(raw.SubgradeCenter, raw.BlackCenter)
	diffRight := cutDepth(raw.SubgradeRight, raw.BlackRight)

	return model.NormalizedRow{
		RawRow: model.RawRow{
			Category:       raw.Category,
			Abscissa:       Round2(raw.Abscissa),
			BlackLeft:      Round2(raw.BlackLeft),
			BlackCenter:    Round2(raw.BlackCenter),
			BlackRight:     Round2(raw.BlackRight),
			SubgradeLeft:   Round2(raw.SubgradeLeft),
			SubgradeCenter: Round2(raw.SubgradeCenter),
			SubgradeRight:  Round2(raw.SubgradeRight),
			ACLeft:         Round2(raw.ACLeft),
			ACRight:        Round2(raw.ACRight),
		},
		DiffLeft:   toFloat(diffLeft),
		DiffCenter: toFloat(diffCenter),
		DiffRight:  toFloat(diffRight),
		AreaLeft:   toFloat(laneArea(raw.ACLeft, diffCenter, diffLeft)),
		AreaRight:  toFloat(laneArea(raw.ACRight, diffRight, diffCenter)),
	}
}

func cutDepth(subgrade, black float64) decimal.Decimal {
	return dec(subgrade).Sub(dec(black)).Round(precision)
}

// laneArea is the trapezoid between two rounded cut depths scaled by the
// surveyed lane half-width. Only the product is rounded.
func laneArea(halfWidth float64, a, b decimal.Decimal) decimal.Decimal {
	return dec(halfWidth).Mul(a.Add(b).Abs()).Div(two).Round(precision)
}
