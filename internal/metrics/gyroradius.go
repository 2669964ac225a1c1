package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/vec"
)

// Gyroradius estimates the Larmor radius as half the extent of the
// trajectory in the plane perpendicular to axis, taking the larger of the
// two in-plane extents. It is only meaningful once at least one full
// gyration has been observed.
type Gyroradius struct {
	name   string
	e1, e2 vec.Vector3
	a, b   []float64
}

func NewGyroradius(axis vec.Vector3) *Gyroradius {
	n := axis.Normalized()
	if n.IsZero() {
		n = vec.New(0, 0, 1)
	}
	helper := vec.New(1, 0, 0)
	if vec.Cross(n, helper).Magnitude() < 1e-6 {
		helper = vec.New(0, 1, 0)
	}
	e1 := vec.Cross(n, helper).Normalized()
	e2 := vec.Cross(n, e1)
	return &Gyroradius{name: "gyroradius", e1: e1, e2: e2}
}

func (g *Gyroradius) Name() string { return g.name }

func (g *Gyroradius) Observe(s sim.Sample) {
	g.a = append(g.a, vec.Dot(s.Position, g.e1))
	g.b = append(g.b, vec.Dot(s.Position, g.e2))
}

func (g *Gyroradius) Value() float64 {
	if len(g.a) < 2 {
		return 0
	}
	ra := (floats.Max(g.a) - floats.Min(g.a)) / 2
	rb := (floats.Max(g.b) - floats.Min(g.b)) / 2
	if ra > rb {
		return ra
	}
	return rb
}

func (g *Gyroradius) Reset() {
	g.a = g.a[:0]
	g.b = g.b[:0]
}
