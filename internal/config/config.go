package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/borisim/internal/boris"
	"github.com/san-kum/borisim/internal/field"
	"github.com/san-kum/borisim/internal/vec"
)

const (
	DefaultCharge = 1.0
	DefaultMass   = 1.0
	DefaultDt     = 0.01
	DefaultSteps  = 1000
	DefaultEvery  = 1
)

var (
	ErrUnknownPreset   = errors.New("config: unknown preset")
	ErrInvalidScenario = errors.New("config: invalid scenario")
)

// Vec3 is a vector written as a three element YAML sequence.
type Vec3 [3]float64

func (v Vec3) Vector() vec.Vector3 { return vec.New(v[0], v[1], v[2]) }

func FromVector(v vec.Vector3) Vec3 { return Vec3{v.X, v.Y, v.Z} }

// IsZero lets yaml omit unset vectors.
func (v Vec3) IsZero() bool { return v == Vec3{} }

type SourceConfig struct {
	Shape     string  `yaml:"shape"`
	Origin    Vec3    `yaml:"origin,omitempty"`
	Direction Vec3    `yaml:"direction,omitempty"`
	Magnitude float64 `yaml:"magnitude"`
}

type InitConfig struct {
	Velocity Vec3 `yaml:"velocity"`
	Position Vec3 `yaml:"position"`
}

// Scenario describes one particle, its fields and how long to run it.
type Scenario struct {
	Name         string         `yaml:"name"`
	Description  string         `yaml:"description,omitempty"`
	Charge       float64        `yaml:"charge"`
	Mass         float64        `yaml:"mass"`
	Dt           float64        `yaml:"dt"`
	Steps        int            `yaml:"steps"`
	Every        int            `yaml:"every,omitempty"`
	SpeedOfLight float64        `yaml:"speed_of_light,omitempty"`
	Init         InitConfig     `yaml:"init"`
	Electric     []SourceConfig `yaml:"electric"`
	Magnetic     []SourceConfig `yaml:"magnetic"`
}

func DefaultScenario() *Scenario {
	return &Scenario{
		Name:         "default",
		Charge:       DefaultCharge,
		Mass:         DefaultMass,
		Dt:           DefaultDt,
		Steps:        DefaultSteps,
		Every:        DefaultEvery,
		SpeedOfLight: vec.SpeedOfLight,
	}
}

func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML on top of DefaultScenario and validates the result.
func Parse(data []byte) (*Scenario, error) {
	s := DefaultScenario()
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func Save(path string, s *Scenario) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (s *Scenario) C() float64 {
	if s.SpeedOfLight <= 0 {
		return vec.SpeedOfLight
	}
	return s.SpeedOfLight
}

func (s *Scenario) Validate() error {
	if s.Mass <= 0 {
		return fmt.Errorf("%w: mass must be positive, got %g", ErrInvalidScenario, s.Mass)
	}
	if s.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidScenario, s.Dt)
	}
	if s.Steps <= 0 {
		return fmt.Errorf("%w: steps must be positive, got %d", ErrInvalidScenario, s.Steps)
	}
	if s.Every < 0 {
		return fmt.Errorf("%w: every must not be negative, got %d", ErrInvalidScenario, s.Every)
	}
	if _, _, err := s.Fields(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidScenario, err)
	}
	return nil
}

// Fields builds the electric and magnetic fields of the scenario.
func (s *Scenario) Fields() (field.Field, field.Field, error) {
	e, err := buildField(field.Electric, s.Electric)
	if err != nil {
		return field.Field{}, field.Field{}, fmt.Errorf("electric: %w", err)
	}
	b, err := buildField(field.Magnetic, s.Magnetic)
	if err != nil {
		return field.Field{}, field.Field{}, fmt.Errorf("magnetic: %w", err)
	}
	return e, b, nil
}

// Solver builds a fresh solver at the scenario's initial conditions.
func (s *Scenario) Solver() (*boris.Solver, error) {
	e, b, err := s.Fields()
	if err != nil {
		return nil, err
	}
	return boris.New(s.Charge, s.Mass, s.Dt, e, b,
		s.Init.Velocity.Vector(), s.Init.Position.Vector(),
		boris.WithSpeedOfLight(s.C()))
}

func buildField(kind field.Kind, cfgs []SourceConfig) (field.Field, error) {
	sources := make([]field.Source, 0, len(cfgs))
	for i, c := range cfgs {
		src, err := c.Source()
		if err != nil {
			return field.Field{}, fmt.Errorf("source %d: %w", i, err)
		}
		sources = append(sources, src)
	}
	return field.New(kind, sources...), nil
}

func (c SourceConfig) Source() (field.Source, error) {
	shape, err := field.ParseShape(c.Shape)
	if err != nil {
		return field.Source{}, err
	}
	origin, dir := c.Origin.Vector(), c.Direction.Vector()
	switch shape {
	case field.PointShape:
		return field.Point(origin, c.Magnitude), nil
	case field.UniformShape:
		return field.Uniform(dir, c.Magnitude), nil
	case field.LineShape:
		if dir.IsZero() {
			return field.Source{}, fmt.Errorf("line source needs a direction")
		}
		return field.Line(origin, dir, c.Magnitude), nil
	default:
		return field.Dipole(origin, dir, c.Magnitude), nil
	}
}
