package earthwork

import (
	"github.com/shopspring/decimal"

	"github.com/verte-zerg/nivela/internal/model"
)

// Integrate applies the trapezoidal rule to the lane cut areas along rows.
// Row i takes its volume from the span between rows i-1 and i, so the first
// row always carries zero. Rows are integrated in the order given; a
// decreasing abscissa yields a negative volume.
func Integrate(rows []model.NormalizedRow) ([]model.VolumeRow, model.Totals) {
	out := make([]model.VolumeRow, len(rows))
	sumLeft := decimal.Zero
	sumRight := decimal.Zero
	for i, row := range rows {
		out[i] = model.VolumeRow{NormalizedRow: row}
		if i == 0 {
			continue
		}
		prev := rows[i-1]
		span := dec(row.Abscissa).Sub(dec(prev.Abscissa))
		left := trapezoid(span, row.AreaLeft, prev.AreaLeft)
		right := trapezoid(span, row.AreaRight, prev.AreaRight)
		out[i].VolumeLeft = toFloat(left)
		out[i].VolumeRight = toFloat(right)
		sumLeft = sumLeft.Add(left)
		sumRight = sumRight.Add(right)
	}
	totals := model.Totals{
		Left:  toFloat(sumLeft.Round(precision)),
		Right: toFloat(sumRight.Round(precision)),
	}
	return out, totals
}

func trapezoid(span decimal.Decimal, area, prevArea float64) decimal.Decimal {
	return span.Mul(dec(area).Add(dec(prevArea))).Div(two).Round(precision)
}
