package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/borisim/internal/sim"
)

// SpeedDrift reports the largest relative change of |U| from the first
// observed sample. A pure magnetic field leaves it at rounding level.
type SpeedDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewSpeedDrift() *SpeedDrift {
	return &SpeedDrift{name: "speed_drift"}
}

func (d *SpeedDrift) Name() string { return d.name }

func (d *SpeedDrift) Observe(s sim.Sample) {
	u := s.ProperVelocity.Magnitude()
	if d.samples == 0 {
		d.initial = u
	}
	d.samples++

	if d.initial != 0 {
		drift := math.Abs(u-d.initial) / d.initial
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *SpeedDrift) Value() float64 { return d.maxDrift }

func (d *SpeedDrift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}

// KineticEnergy reports the mean kinetic energy per unit mass,
// (γ-1)c², over all observed samples.
type KineticEnergy struct {
	name   string
	c      float64
	values []float64
}

func NewKineticEnergy(c float64) *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy", c: c}
}

func (k *KineticEnergy) Name() string { return k.name }

func (k *KineticEnergy) Observe(s sim.Sample) {
	// (γ-1)c² = |U|²/(γ+1) avoids cancellation for slow particles
	k.values = append(k.values, s.ProperVelocity.MagnitudeSq()/(s.Gamma+1))
}

func (k *KineticEnergy) Value() float64 {
	if len(k.values) == 0 {
		return 0
	}
	return stat.Mean(k.values, nil)
}

func (k *KineticEnergy) Reset() { k.values = k.values[:0] }

// GammaStats reports the mean Lorentz factor.
type GammaStats struct {
	name   string
	gammas []float64
}

func NewGammaStats() *GammaStats {
	return &GammaStats{name: "mean_gamma"}
}

func (g *GammaStats) Name() string { return g.name }

func (g *GammaStats) Observe(s sim.Sample) { g.gammas = append(g.gammas, s.Gamma) }

func (g *GammaStats) Value() float64 {
	if len(g.gammas) == 0 {
		return 0
	}
	return stat.Mean(g.gammas, nil)
}

// StdDev is the spread of γ over the run.
func (g *GammaStats) StdDev() float64 {
	if len(g.gammas) < 2 {
		return 0
	}
	return stat.StdDev(g.gammas, nil)
}

func (g *GammaStats) Reset() { g.gammas = g.gammas[:0] }
