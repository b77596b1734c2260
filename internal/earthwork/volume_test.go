package earthwork

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/nivela/internal/model"
)

func areaRow(abscissa, left, right float64) model.NormalizedRow {
	row := model.NormalizedRow{AreaLeft: left, AreaRight: right}
	row.Abscissa = abscissa
	return row
}

func TestIntegrateTwoStations(t *testing.T) {
	rows := []model.NormalizedRow{
		areaRow(0, 2.0, 1.0),
		areaRow(10, 4.0, 1.5),
	}
	out, totals := Integrate(rows)
	require.Len(t, out, 2)
	assert.Zero(t, out[0].VolumeLeft)
	assert.Zero(t, out[0].VolumeRight)
	assert.Equal(t, 30.0, out[1].VolumeLeft)
	assert.Equal(t, 12.5, out[1].VolumeRight)
	assert.Equal(t, model.Totals{Left: 30, Right: 12.5}, totals)
}

func TestIntegrateTotalsAreSumOfIncrements(t *testing.T) {
	rows := []model.NormalizedRow{
		areaRow(0, 1.93, 2.28),
		areaRow(12.5, 2.11, 2.4),
		areaRow(20, 0.35, 1.07),
		areaRow(33.3, 1.01, 0.99),
	}
	out, totals := Integrate(rows)

	// 12.5*4.04/2=25.25, 7.5*2.46/2=9.225->9.23, 13.3*1.36/2=9.044->9.04
	assert.Equal(t, []float64{0, 25.25, 9.23, 9.04}, []float64{out[0].VolumeLeft, out[1].VolumeLeft, out[2].VolumeLeft, out[3].VolumeLeft})
	assert.Equal(t, 43.52, totals.Left)

	// 12.5*4.68/2=29.25, 7.5*3.47/2=13.0125->13.01, 13.3*2.06/2=13.699->13.7
	assert.Equal(t, []float64{0, 29.25, 13.01, 13.7}, []float64{out[0].VolumeRight, out[1].VolumeRight, out[2].VolumeRight, out[3].VolumeRight})
	assert.Equal(t, 55.96, totals.Right)
}

func TestIntegrateSingleAndEmpty(t *testing.T) {
	out, totals := Integrate([]model.NormalizedRow{areaRow(5, 3, 3)})
	require.Len(t, out, 1)
	assert.Equal(t, model.Totals{}, totals)

	out, totals = Integrate(nil)
	assert.Empty(t, out)
	assert.Equal(t, model.Totals{}, totals)
}

func TestIntegrateDescendingAbscissaGoesNegative(t *testing.T) {
	out, totals := Integrate([]model.NormalizedRow{
		areaRow(10, 2, 2),
		areaRow(0, 4, 4),
	})
	assert.Equal(t, -30.0, out[1].VolumeLeft)
	assert.Equal(t, -30.0, totals.Right)
}
