// Package earthwork derives cut depths, lane cut areas and cut volumes from
// surveyed cross-sections.
package earthwork

import "github.com/shopspring/decimal"

// precision is the number of decimals kept on every derived and copied field.
const precision = 2

var two = decimal.NewFromInt(2)

// Round2 rounds v to two decimals, ties away from zero. v is read as the
// shortest decimal that round-trips to it, so 2.275 rounds to 2.28 even
// though its binary value is slightly below the tie.
func Round2(v float64) float64 {
	return toFloat(dec(v).Round(precision))
}

func dec(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

func toFloat(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}
