// Package boris implements the relativistic Boris leapfrog push for a
// single charged particle.
//
// The solver tracks proper velocity U = γV and position X, with X held
// half a timestep ahead of U. Each Step applies a half electric impulse,
// an exact magnetic rotation and a second half electric impulse to U,
// then drifts X with the resulting ordinary velocity.
package boris

import (
	"errors"
	"fmt"

	"github.com/san-kum/borisim/internal/field"
	"github.com/san-kum/borisim/internal/vec"
)

// ErrInvalidParameter indicates a non-physical solver parameter.
var ErrInvalidParameter = errors.New("boris: invalid parameter")

type Option func(*Solver)

// WithSpeedOfLight overrides c (default vec.SpeedOfLight).
func WithSpeedOfLight(c float64) Option {
	return func(s *Solver) { s.c = c }
}

// Solver is not safe for concurrent use. The fields it reads from may be
// shared between solvers.
type Solver struct {
	q, m, dt, c float64
	e, b        field.Field

	uBefore, uAfter vec.Vector3
	xBefore, xAfter vec.Vector3
	uStep, xStep    float64
}

// New builds a solver for a particle with charge q and mass m starting at
// x0 with ordinary velocity v0. Position is advanced by v0*dt/2 so that it
// leads the velocity stream by half a step.
func New(q, m, dt float64, e, b field.Field, v0, x0 vec.Vector3, opts ...Option) (*Solver, error) {
	s := &Solver{q: q, m: m, dt: dt, c: vec.SpeedOfLight, e: e, b: b}
	for _, opt := range opts {
		opt(s)
	}

	switch {
	case m <= 0:
		return nil, fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidParameter, m)
	case dt <= 0:
		return nil, fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidParameter, dt)
	case s.c <= 0:
		return nil, fmt.Errorf("%w: speed of light must be positive, got %g", ErrInvalidParameter, s.c)
	}

	gamma, err := v0.GammaFromVelocity(s.c)
	if err != nil {
		return nil, fmt.Errorf("boris: initial velocity: %w", err)
	}

	s.uBefore = v0.Scale(gamma)
	s.uAfter = s.uBefore
	s.xBefore = x0
	s.xAfter = x0.Add(v0.Scale(dt / 2))
	s.uStep = 0
	s.xStep = 0.5
	return s, nil
}

// Step advances U and X by one timestep and returns the new position.
func (s *Solver) Step() vec.Vector3 {
	s.UpdateU()
	s.UpdateX()
	return s.xAfter
}

// UpdateU advances the proper velocity using the fields at the current
// position estimate.
func (s *Solver) UpdateU() {
	uBefore := s.uAfter

	eps := s.e.At(s.xAfter).Scale(s.q / (2 * s.m))
	uMinus := uBefore.Add(eps.Scale(s.dt))

	bVec := s.b.At(s.xAfter)
	theta := s.q * s.dt * bVec.Magnitude() / (s.m * uMinus.GammaFromProper(s.c))
	t := bVec.Normalized().Scale(theta / 2)

	uPrime := uMinus.Add(vec.Cross(uMinus, t))
	uPlus := uMinus.Add(vec.Cross(uPrime, t).Scale(2 / (1 + t.MagnitudeSq())))

	s.uBefore = uBefore
	s.uAfter = uPlus.Add(eps.Scale(s.dt))
	s.uStep++
}

// UpdateX drifts the position with the ordinary velocity of the latest U.
func (s *Solver) UpdateX() {
	xBefore := s.xAfter
	v := s.uAfter.Div(s.uAfter.GammaFromProper(s.c))

	s.xBefore = xBefore
	s.xAfter = xBefore.Add(v.Scale(s.dt))
	s.xStep++
}

func (s *Solver) EField(pos vec.Vector3) vec.Vector3 { return s.e.At(pos) }
func (s *Solver) BField(pos vec.Vector3) vec.Vector3 { return s.b.At(pos) }

func (s *Solver) UStep() float64 { return s.uStep }
func (s *Solver) XStep() float64 { return s.xStep }

func (s *Solver) UBefore() vec.Vector3 { return s.uBefore }
func (s *Solver) UAfter() vec.Vector3  { return s.uAfter }
func (s *Solver) XBefore() vec.Vector3 { return s.xBefore }
func (s *Solver) XAfter() vec.Vector3  { return s.xAfter }

// Velocity is the ordinary velocity corresponding to UAfter.
func (s *Solver) Velocity() vec.Vector3 {
	return vec.VelocityFromProper(s.uAfter, s.c)
}

// Gamma is the Lorentz factor of UAfter.
func (s *Solver) Gamma() float64 {
	return s.uAfter.GammaFromProper(s.c)
}

// Time is the simulation time of the velocity stream.
func (s *Solver) Time() float64 {
	return s.uStep * s.dt
}

func (s *Solver) Dt() float64           { return s.dt }
func (s *Solver) Charge() float64       { return s.q }
func (s *Solver) Mass() float64         { return s.m }
func (s *Solver) SpeedOfLight() float64 { return s.c }
