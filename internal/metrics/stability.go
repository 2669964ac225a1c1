package metrics

import (
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/borisim/internal/sim"
	"github.com/san-kum/borisim/internal/vec"
)

// Confinement is the fraction of samples that stay within radius of the
// first observed position.
type Confinement struct {
	name       string
	radius     float64
	origin     []float64
	violations int
	samples    int
}

func NewConfinement(radius float64) *Confinement {
	return &Confinement{
		name:   "confinement",
		radius: radius,
	}
}

func (c *Confinement) Name() string { return c.name }

func (c *Confinement) Observe(s sim.Sample) {
	p := s.Position.Slice()
	if c.samples == 0 {
		c.origin = p
	}
	c.samples++
	if floats.Distance(p, c.origin, 2) > c.radius {
		c.violations++
	}
}

func (c *Confinement) Value() float64 {
	if c.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(c.violations)/float64(c.samples)
}

func (c *Confinement) Reset() {
	c.origin = nil
	c.violations = 0
	c.samples = 0
}

// Displacement is the distance between the first and last observed positions.
type Displacement struct {
	name        string
	first, last vec.Vector3
	samples     int
}

func NewDisplacement() *Displacement {
	return &Displacement{name: "displacement"}
}

func (d *Displacement) Name() string { return d.name }

func (d *Displacement) Observe(s sim.Sample) {
	if d.samples == 0 {
		d.first = s.Position
	}
	d.last = s.Position
	d.samples++
}

func (d *Displacement) Value() float64 {
	return floats.Distance(d.last.Slice(), d.first.Slice(), 2)
}

func (d *Displacement) Reset() {
	d.first, d.last = vec.Zero, vec.Zero
	d.samples = 0
}
