package sim

import (
	"context"
	"fmt"
)

type Simulator struct {
	stepper   Stepper
	metrics   []Metric
	observers []Observer
}

func New(stepper Stepper) *Simulator {
	return &Simulator{
		stepper:   stepper,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run advances the stepper cfg.Steps times. On cancellation the samples
// recorded so far are returned together with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	every := cfg.Every
	if every < 1 {
		every = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, cfg.Steps/every+1),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	current := s.sample(0)
	result.Samples = append(result.Samples, current)

	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			s.collect(result)
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(current)
		}
		for _, obs := range s.observers {
			obs.OnStep(current)
		}

		s.stepper.Step()
		next := s.sample(i + 1)

		if cfg.ValidateState && !next.IsValid() {
			s.collect(result)
			return result, &SimulationError{Step: i + 1, Time: next.Time, Position: next.Position, Wrapped: ErrInvalidState}
		}

		current = next
		result.StepsTaken++
		if (i+1)%every == 0 || i+1 == cfg.Steps {
			result.Samples = append(result.Samples, current)
		}
	}

	for _, m := range s.metrics {
		m.Observe(current)
	}
	s.collect(result)
	return result, nil
}

// RunWithCallback streams samples to callback until it returns false or
// cfg.Steps is reached. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	current := s.sample(0)
	for i := 0; i < cfg.Steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(current) {
			return nil
		}

		s.stepper.Step()
		current = s.sample(i + 1)

		if cfg.ValidateState && !current.IsValid() {
			return &SimulationError{Step: i + 1, Time: current.Time, Position: current.Position, Wrapped: ErrInvalidState}
		}
	}
	callback(current)
	return nil
}

func (s *Simulator) sample(step int) Sample {
	return Sample{
		Step:           step,
		Time:           s.stepper.Time(),
		Position:       s.stepper.XAfter(),
		Velocity:       s.stepper.Velocity(),
		ProperVelocity: s.stepper.UAfter(),
		Gamma:          s.stepper.Gamma(),
	}
}

func (s *Simulator) collect(result *Result) {
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func validateConfig(cfg Config) error {
	if cfg.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidConfig, cfg.Steps)
	}
	if cfg.Every < 0 {
		return fmt.Errorf("%w: sample interval must not be negative, got %d", ErrInvalidConfig, cfg.Every)
	}
	return nil
}
