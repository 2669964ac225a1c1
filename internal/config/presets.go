package config

import (
	"fmt"
	"sort"

	"github.com/san-kum/borisim/internal/vec"
)

var Presets = map[string]*Scenario{
	"cyclotron": {
		Name: "cyclotron", Description: "gyration in a uniform magnetic field",
		Charge: 1, Mass: 1, Dt: 0.01, Steps: 629, Every: 1,
		Init:     InitConfig{Velocity: Vec3{1, 0, 0}},
		Magnetic: []SourceConfig{{Shape: "uniform", Direction: Vec3{0, 0, 1}, Magnitude: 1}},
	},
	"free": {
		Name: "free", Description: "straight line motion with no fields",
		Charge: 1, Mass: 1, Dt: 0.1, Steps: 100, Every: 1,
		Init: InitConfig{Velocity: Vec3{1, 0.5, 0}},
	},
	"drift": {
		Name: "drift", Description: "E×B drift in crossed uniform fields",
		Charge: 1, Mass: 1, Dt: 0.01, Steps: 3000, Every: 5,
		Init:     InitConfig{Velocity: Vec3{0, 1, 0}},
		Electric: []SourceConfig{{Shape: "uniform", Direction: Vec3{0, 1, 0}, Magnitude: 0.2}},
		Magnetic: []SourceConfig{{Shape: "uniform", Direction: Vec3{0, 0, 1}, Magnitude: 1}},
	},
	"helix": {
		Name: "helix", Description: "helical motion along a uniform magnetic field",
		Charge: 1, Mass: 1, Dt: 0.01, Steps: 2000, Every: 2,
		Init:     InitConfig{Velocity: Vec3{1, 0, 0.2}},
		Magnetic: []SourceConfig{{Shape: "uniform", Direction: Vec3{0, 0, 1}, Magnitude: 1}},
	},
	"line_current": {
		Name: "line_current", Description: "orbit around an infinite current-carrying wire",
		Charge: 1, Mass: 1, Dt: 0.005, Steps: 4000, Every: 4,
		Init:     InitConfig{Velocity: Vec3{0, 0, 0.5}, Position: Vec3{1, 0, 0}},
		Magnetic: []SourceConfig{{Shape: "line", Direction: Vec3{0, 0, 1}, Magnitude: 2}},
	},
	"coulomb": {
		Name: "coulomb", Description: "bound orbit around an attracting point charge",
		Charge: -1, Mass: 1, Dt: 0.001, Steps: 8000, Every: 8,
		Init:     InitConfig{Velocity: Vec3{0, 1, 0}, Position: Vec3{1, 0, 0}},
		Electric: []SourceConfig{{Shape: "point", Magnitude: 1}},
	},
	"dipole": {
		Name: "dipole", Description: "bounce and drift in a magnetic dipole",
		Charge: 1, Mass: 1, Dt: 0.001, Steps: 20000, Every: 20,
		Init:     InitConfig{Velocity: Vec3{0, 0.05, 0.05}, Position: Vec3{2, 0, 0}},
		Magnetic: []SourceConfig{{Shape: "dipole", Direction: Vec3{0, 0, -1}, Magnitude: 50}},
	},
	"relativistic": {
		Name: "relativistic", Description: "gyration at 0.9c with c = 1",
		Charge: 1, Mass: 1, Dt: 0.01, Steps: 1500, Every: 2, SpeedOfLight: 1,
		Init:     InitConfig{Velocity: Vec3{0.9, 0, 0}},
		Magnetic: []SourceConfig{{Shape: "uniform", Direction: Vec3{0, 0, 1}, Magnitude: 1}},
	},
}

// GetPreset returns a copy of the named preset so callers may modify it.
func GetPreset(name string) (*Scenario, error) {
	p, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	s := *p
	s.Electric = append([]SourceConfig(nil), p.Electric...)
	s.Magnetic = append([]SourceConfig(nil), p.Magnetic...)
	if s.SpeedOfLight == 0 {
		s.SpeedOfLight = vec.SpeedOfLight
	}
	return &s, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
