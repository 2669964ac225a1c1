package viz

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/vec"
)

// Plane selects the two coordinates a 3D path is projected onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

var planeNames = [...]string{"xy", "xz", "yz"}

func (p Plane) String() string { return planeNames[p%3] }

func (p Plane) Next() Plane { return (p + 1) % 3 }

func ParsePlane(name string) (Plane, error) {
	for i, n := range planeNames {
		if strings.EqualFold(n, name) {
			return Plane(i), nil
		}
	}
	return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", name)
}

func (p Plane) Project(v vec.Vector3) [2]float64 {
	switch p % 3 {
	case PlaneXZ:
		return [2]float64{v.X, v.Z}
	case PlaneYZ:
		return [2]float64{v.Y, v.Z}
	default:
		return [2]float64{v.X, v.Y}
	}
}

func Project(points []vec.Vector3, p Plane) [][2]float64 {
	out := make([][2]float64, len(points))
	for i, v := range points {
		out[i] = p.Project(v)
	}
	return out
}

// PlotPath draws the projected trajectory on a w×h braille canvas.
func PlotPath(samples []sim.Sample, p Plane, w, h int) string {
	pts := make([]vec.Vector3, len(samples))
	for i, s := range samples {
		pts[i] = s.Position
	}
	c := NewCanvas(w, h)
	c.DrawPath(Project(pts, p))
	return c.String()
}

// PlotComponents renders one asciigraph per position component.
func PlotComponents(samples []sim.Sample, width, height int) string {
	if len(samples) < 2 {
		return ""
	}
	xs := make([]float64, len(samples))
	ys := make([]float64, len(samples))
	zs := make([]float64, len(samples))
	for i, s := range samples {
		xs[i], ys[i], zs[i] = s.Position.X, s.Position.Y, s.Position.Z
	}

	var b strings.Builder
	for _, series := range []struct {
		name string
		data []float64
	}{{"x", xs}, {"y", ys}, {"z", zs}} {
		b.WriteString(PlotSeries(series.data, series.name, width, height))
		b.WriteString("\n\n")
	}
	return b.String()
}

// PlotSeries renders a single asciigraph with a caption.
func PlotSeries(data []float64, caption string, width, height int) string {
	if len(data) == 0 {
		return ""
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// Speeds returns |v| of each sample.
func Speeds(samples []sim.Sample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Velocity.Magnitude()
	}
	return out
}
