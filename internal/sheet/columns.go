// Package sheet decodes leveling survey workbooks into raw rows.
package sheet

// Column labels of the survey workbook.
const (
	ColCategory       = "DESCRIPCION"
	ColAbscissa       = "Abscisa (m)"
	ColBlackLeft      = "BI Cota_Negra (m)"
	ColBlackCenter    = "Eje Cota_Negra (m)"
	ColBlackRight     = "BD Cota_Negra (m)"
	ColSubgradeLeft   = "BI Cota_Subrasante (m)"
	ColSubgradeCenter = "Eje Cota_Subrasante (m)"
	ColSubgradeRight  = "BD Cota_Subrasante (m)"
	ColACLeft         = "AC Izquierda (m)"
	ColACRight        = "AC Derecha (m)"
)

// Columns lists every required label in workbook order.
var Columns = []string{
	ColCategory,
	ColAbscissa,
	ColBlackLeft,
	ColBlackCenter,
	ColBlackRight,
	ColSubgradeLeft,
	ColSubgradeCenter,
	ColSubgradeRight,
	ColACLeft,
	ColACRight,
}
