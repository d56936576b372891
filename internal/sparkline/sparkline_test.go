package sparkline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender_TooShort(t *testing.T) {
	assert.Nil(t, Render(nil, 100, 30))
	assert.Nil(t, Render([]float64{}, 100, 30))
	assert.Nil(t, Render([]float64{42}, 100, 30))
}

func TestRender_AllZeroUsesUnitRange(t *testing.T) {
	points := Render([]float64{0, 0, 0}, 100, 30)

	require.Len(t, points, 3)
	for _, p := range points {
		assert.InDelta(t, 30.0, p.Y, 1e-9)
	}
}

func TestRender_AllEqualShareY(t *testing.T) {
	points := Render([]float64{5, 5, 5, 5}, 90, 40)

	require.Len(t, points, 4)
	for _, p := range points {
		assert.InDelta(t, points[0].Y, p.Y, 1e-9)
	}
}

func TestRender_Coordinates(t *testing.T) {
	points := Render([]float64{10, 20}, 100, 50)

	require.Len(t, points, 2)
	// lo = 9, hi = 22, span = 13.
	assert.InDelta(t, 0.0, points[0].X, 1e-9)
	assert.InDelta(t, 100.0, points[1].X, 1e-9)
	assert.InDelta(t, 50-(1.0/13.0)*50, points[0].Y, 1e-9)
	assert.InDelta(t, 50-(11.0/13.0)*50, points[1].Y, 1e-9)
	assert.Less(t, points[1].Y, points[0].Y, "higher value renders higher")
}

func TestRender_StaysInsideBox(t *testing.T) {
	data := []float64{3, 9, 1, 14, 7, 7, 2}
	points := Render(data, 120, 24)

	require.Len(t, points, len(data))
	for _, p := range points {
		assert.GreaterOrEqual(t, p.X, 0.0)
		assert.LessOrEqual(t, p.X, 120.0)
		assert.Greater(t, p.Y, 0.0)
		assert.Less(t, p.Y, 24.0)
	}
}

func TestPath(t *testing.T) {
	assert.Equal(t, "", Path(nil))
	assert.Equal(t, "0,30 50,15.5 100,0", Path([]Point{{0, 30}, {50, 15.5}, {100, 0}}))
}
