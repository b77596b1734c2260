package profile

import (
	"bytes"
	"strings"
	"testing"

	"github.com/verte-zerg/nivela/internal/model"
)

func rowsWithAreas(points ...[3]float64) []model.NormalizedRow {
	rows := make([]model.NormalizedRow, 0, len(points))
	for _, p := range points {
		row := model.NormalizedRow{AreaLeft: p[1], AreaRight: p[2]}
		row.Abscissa = p[0]
		rows = append(rows, row)
	}
	return rows
}

func TestAreas(t *testing.T) {
	series := Areas(rowsWithAreas([3]float64{0, 1.93, 2.28}, [3]float64{10, 2.5, 1.1}))
	if len(series) != 2 {
		t.Fatalf("expected 2 series, got %d", len(series))
	}
	if series[0].Y[1] != 2.5 || series[1].Y[1] != 1.1 || series[1].X[1] != 10 {
		t.Fatalf("unexpected series: %+v", series)
	}
}

func TestRender(t *testing.T) {
	var buf bytes.Buffer
	series := Areas(rowsWithAreas(
		[3]float64{0, 1, 2},
		[3]float64{10, 3, 2},
		[3]float64{30, 2, 4},
	))
	if err := Render(&buf, "Perfil", series, 20, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// title + 4 plot rows + x axis + legend
	if len(lines) != 7 {
		t.Fatalf("expected 7 lines, got %d:\n%s", len(lines), out)
	}
	if lines[0] != "Perfil" {
		t.Fatalf("unexpected title %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "4.00 │ ") || !strings.HasPrefix(lines[4], "0.00 │ ") {
		t.Fatalf("unexpected y axis:\n%s", out)
	}
	if !strings.Contains(lines[5], "0.00") || !strings.HasSuffix(lines[5], "30.00 m") {
		t.Fatalf("unexpected x axis %q", lines[5])
	}
	if !strings.Contains(lines[6], "Área izquierda (m²) (solid)") || !strings.Contains(lines[6], "(dashed)") {
		t.Fatalf("unexpected legend %q", lines[6])
	}
	if strings.Contains(out, "\x1b[") {
		t.Fatalf("expected no color codes when writing to a buffer")
	}
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := Render(&buf, "Perfil", Areas(nil), 20, 4, false); err != nil {
		t.Fatalf("render: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no output, got %q", buf.String())
	}
}

func TestDrawLineReachesEnd(t *testing.T) {
	var last [2]int
	count := 0
	drawLine(0, 7, 9, 2, func(x, y int) {
		last = [2]int{x, y}
		count++
	})
	if last != [2]int{9, 2} {
		t.Fatalf("line ended at %v", last)
	}
	if count != 10 {
		t.Fatalf("expected 10 dots, got %d", count)
	}
}

func TestWidthFor(t *testing.T) {
	series := Areas(rowsWithAreas([3]float64{0, 12.5, 1}))
	if got := WidthFor(80, series); got != 80-5-3 {
		t.Fatalf("unexpected width %d", got)
	}
	if got := WidthFor(0, series); got != minWidth {
		t.Fatalf("unexpected width %d", got)
	}
}
