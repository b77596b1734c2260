// Package profile renders lane cut areas along the route as braille plots.
package profile

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/verte-zerg/nivela/internal/model"
)

// Series is a polyline of (abscissa, value) points drawn in order.
type Series struct {
	Name string
	X    []float64
	Y    []float64
}

const (
	defaultHeight       = 10
	minWidth            = 10
	axisSeparator       = " │ "
	colorReset          = "\x1b[0m"
	terminalWidthBackup = 80
)

var dashPeriods = []struct {
	name   string
	period int
	on     int
}{
	{name: "solid", period: 1, on: 1},
	{name: "dashed", period: 6, on: 3},
	{name: "dotted", period: 4, on: 1},
}

var colors = []string{"\x1b[36m", "\x1b[33m", "\x1b[35m"}

// brailleDots maps a dot position inside a 2x4 cell to its bit.
var brailleDots = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// Areas builds the left and right lane cut area series of rows, in row order.
func Areas(rows []model.NormalizedRow) []Series {
	left := Series{Name: "Área izquierda (m²)"}
	right := Series{Name: "Área derecha (m²)"}
	for _, row := range rows {
		left.X = append(left.X, row.Abscissa)
		left.Y = append(left.Y, row.AreaLeft)
		right.X = append(right.X, row.Abscissa)
		right.Y = append(right.Y, row.AreaRight)
	}
	return []Series{left, right}
}

// Render draws all series on one shared scale. width and height are in
// character cells; width <= 0 fits the terminal.
func Render(w io.Writer, title string, series []Series, width, height int, forceColor bool) error {
	series = nonEmpty(series)
	if len(series) == 0 {
		return nil
	}
	if height <= 0 {
		height = defaultHeight
	}
	if width <= 0 {
		width = WidthFor(terminalWidth(), series)
	}
	if width < minWidth {
		width = minWidth
	}

	xMin, xMax, yMin, yMax := bounds(series)
	dotsW, dotsH := width*2, height*4
	layers := make([][][]uint8, len(series))
	for si, s := range series {
		cells := makeCells(height, width)
		dash := dashPeriods[si%len(dashPeriods)]
		plot := func(x, y int) {
			if dash.period <= 1 || x%dash.period < dash.on {
				setDot(cells, x, y)
			}
		}
		prevX, prevY := -1, -1
		for i := range s.X {
			px := scale(s.X[i], xMin, xMax, dotsW)
			py := dotsH - 1 - scale(s.Y[i], yMin, yMax, dotsH)
			if prevX >= 0 {
				drawLine(prevX, prevY, px, py, plot)
			} else {
				setDot(cells, px, py)
			}
			prevX, prevY = px, py
		}
		layers[si] = cells
	}

	useColor := shouldUseColor(w, forceColor)
	labels := axisLabels(height, yMin, yMax)
	labelWidth := 0
	for _, l := range labels {
		labelWidth = max(labelWidth, runewidth.StringWidth(l))
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title + "\n")
	}
	for y := 0; y < height; y++ {
		b.WriteString(runewidth.FillLeft(labels[y], labelWidth))
		b.WriteString(axisSeparator)
		for x := 0; x < width; x++ {
			mask, layer := compose(layers, x, y)
			ch := rune(0x2800 + int(mask))
			if useColor && layer >= 0 {
				b.WriteString(colors[layer%len(colors)])
				b.WriteRune(ch)
				b.WriteString(colorReset)
				continue
			}
			b.WriteRune(ch)
		}
		b.WriteString("\n")
	}
	b.WriteString(xAxis(labelWidth, width, xMin, xMax) + "\n")
	b.WriteString(legend(series, useColor) + "\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// WidthFor returns the plot width that fits totalWidth beside the y axis.
func WidthFor(totalWidth int, series []Series) int {
	if totalWidth <= 0 {
		return minWidth
	}
	_, _, yMin, yMax := bounds(nonEmpty(series))
	labelWidth := max(len(formatValue(yMin)), len(formatValue(yMax)))
	return max(minWidth, totalWidth-labelWidth-runewidth.StringWidth(axisSeparator))
}

func nonEmpty(series []Series) []Series {
	out := make([]Series, 0, len(series))
	for _, s := range series {
		n := min(len(s.X), len(s.Y))
		if n == 0 {
			continue
		}
		out = append(out, Series{Name: s.Name, X: s.X[:n], Y: s.Y[:n]})
	}
	return out
}

// bounds returns the shared ranges; the value axis always includes zero.
func bounds(series []Series) (xMin, xMax, yMin, yMax float64) {
	xMin, xMax = math.Inf(1), math.Inf(-1)
	for _, s := range series {
		for i := range s.X {
			xMin = math.Min(xMin, s.X[i])
			xMax = math.Max(xMax, s.X[i])
			yMin = math.Min(yMin, s.Y[i])
			yMax = math.Max(yMax, s.Y[i])
		}
	}
	if math.IsInf(xMin, 1) {
		xMin, xMax = 0, 0
	}
	if yMax-yMin < 1e-9 {
		yMax = yMin + 1
	}
	return xMin, xMax, yMin, yMax
}

// scale maps v in [lo, hi] onto [0, steps-1].
func scale(v, lo, hi float64, steps int) int {
	if steps <= 1 || hi-lo < 1e-9 {
		return 0
	}
	pos := int(math.Round((v - lo) / (hi - lo) * float64(steps-1)))
	return min(max(pos, 0), steps-1)
}

func axisLabels(height int, yMin, yMax float64) []string {
	labels := make([]string, height)
	labels[0] = formatValue(yMax)
	if height > 2 {
		labels[height/2] = formatValue((yMin + yMax) / 2)
	}
	if height > 1 {
		labels[height-1] = formatValue(yMin)
	}
	return labels
}

func xAxis(labelWidth, width int, xMin, xMax float64) string {
	left := formatValue(xMin)
	right := formatValue(xMax) + " m"
	gap := width - runewidth.StringWidth(left) - runewidth.StringWidth(right)
	if gap < 1 {
		gap = 1
	}
	return strings.Repeat(" ", labelWidth+runewidth.StringWidth(axisSeparator)) + left + strings.Repeat(" ", gap) + right
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func legend(series []Series, useColor bool) string {
	parts := make([]string, 0, len(series))
	for i, s := range series {
		label := fmt.Sprintf("⣿ %s (%s)", s.Name, dashPeriods[i%len(dashPeriods)].name)
		if useColor {
			label = colors[i%len(colors)] + label + colorReset
		}
		parts = append(parts, label)
	}
	return strings.Join(parts, "  ")
}

func makeCells(height, width int) [][]uint8 {
	cells := make([][]uint8, height)
	for y := range cells {
		cells[y] = make([]uint8, width)
	}
	return cells
}

func setDot(cells [][]uint8, x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(cells) || cx >= len(cells[cy]) {
		return
	}
	cells[cy][cx] |= brailleDots[x%2][y%4]
}

// compose merges the layers of one cell; the lowest layer with a dot picks
// the color.
func compose(layers [][][]uint8, x, y int) (uint8, int) {
	var mask uint8
	first := -1
	for i, cells := range layers {
		if m := cells[y][x]; m != 0 {
			mask |= m
			if first < 0 {
				first = i
			}
		}
	}
	return mask, first
}

// drawLine plots a Bresenham line between two dot coordinates.
func drawLine(x0, y0, x1, y1 int, plot func(x, y int)) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		plot(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}

func terminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
