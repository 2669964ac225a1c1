package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/borisim/internal/vec"
)

var (
	// ErrInvalidState indicates a position or velocity with NaN or Inf components.
	ErrInvalidState = errors.New("sim: invalid state (NaN or Inf detected)")

	// ErrInvalidConfig indicates a run configuration that cannot be executed.
	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)

// SimulationError wraps an error with the step at which it occurred.
type SimulationError struct {
	Step     int
	Time     float64
	Position vec.Vector3
	Wrapped  error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}

// Sample is one recorded point of a trajectory. Position is the X stream,
// half a step ahead of Velocity.
type Sample struct {
	Step           int         `json:"step"`
	Time           float64     `json:"time"`
	Position       vec.Vector3 `json:"position"`
	Velocity       vec.Vector3 `json:"velocity"`
	ProperVelocity vec.Vector3 `json:"proper_velocity"`
	Gamma          float64     `json:"gamma"`
}

func (s Sample) IsValid() bool {
	return s.Position.IsFinite() && s.ProperVelocity.IsFinite()
}

// Stepper is the integrator the run loop drives.
type Stepper interface {
	Step() vec.Vector3
	XAfter() vec.Vector3
	UAfter() vec.Vector3
	Velocity() vec.Vector3
	Gamma() float64
	Time() float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample)
}

type Config struct {
	Steps int
	// Every records one sample per Every steps; 0 or 1 records all.
	Every         int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{Steps: 1000, Every: 1, ValidateState: true}
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
}

func (r *Result) Last() (Sample, bool) {
	if len(r.Samples) == 0 {
		return Sample{}, false
	}
	return r.Samples[len(r.Samples)-1], true
}

// Positions returns the recorded positions in order.
func (r *Result) Positions() []vec.Vector3 {
	out := make([]vec.Vector3, len(r.Samples))
	for i, s := range r.Samples {
		out[i] = s.Position
	}
	return out
}
