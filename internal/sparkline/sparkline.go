// Package sparkline turns a numeric series into polyline coordinates.
package sparkline

import (
	"slices"
	"strconv"
	"strings"
)

const (
	padBelow = 0.9
	padAbove = 1.1
)

// Point is one vertex of the polyline in chart coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Render maps data onto a width x height box. Higher values sit closer to
// y=0. Fewer than two samples produce nil.
func Render(data []float64, width, height float64) []Point {
	if len(data) < 2 {
		return nil
	}

	lo := slices.Min(data) * padBelow
	hi := slices.Max(data) * padAbove
	span := hi - lo
	if span == 0 {
		span = 1
	}

	last := float64(len(data) - 1)
	points := make([]Point, len(data))
	for i, v := range data {
		points[i] = Point{
			X: float64(i) / last * width,
			Y: height - (v-lo)/span*height,
		}
	}
	return points
}

// Path formats points for an SVG polyline: "x,y x,y ...".
func Path(points []Point) string {
	var b strings.Builder
	for i, p := range points {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(formatCoord(p.X))
		b.WriteByte(',')
		b.WriteString(formatCoord(p.Y))
	}
	return b.String()
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
