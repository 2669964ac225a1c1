package field

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/borisim/internal/vec"
)

var (
	ErrUnknownShape = errors.New("field: unknown source shape")
	ErrUnknownKind  = errors.New("field: unknown field kind")
)

// Kind is the physical kind of a field.
type Kind int

const (
	Electric Kind = iota
	Magnetic
)

func (k Kind) String() string {
	switch k {
	case Electric:
		return "electric"
	case Magnetic:
		return "magnetic"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(name) {
	case "electric", "e":
		return Electric, nil
	case "magnetic", "b":
		return Magnetic, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, name)
}

// Shape selects the geometry of a Source.
type Shape int

const (
	PointShape Shape = iota
	UniformShape
	LineShape
	DipoleShape
)

var shapeNames = [...]string{"point", "uniform", "line", "dipole"}

func (s Shape) String() string {
	if s < 0 || int(s) >= len(shapeNames) {
		return fmt.Sprintf("shape(%d)", int(s))
	}
	return shapeNames[s]
}

func ParseShape(name string) (Shape, error) {
	for i, n := range shapeNames {
		if strings.EqualFold(name, n) {
			return Shape(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownShape, name)
}

// Source is a single contributor to a field. Origin is unused for
// uniform sources and Direction is unused for point sources.
type Source struct {
	Shape     Shape
	Origin    vec.Vector3
	Direction vec.Vector3
	Magnitude float64
}

// Point is an inverse-square radial source centred on origin.
func Point(origin vec.Vector3, magnitude float64) Source {
	return Source{Shape: PointShape, Origin: origin, Magnitude: magnitude}
}

// Uniform is constant everywhere. The direction is scaled as given, not
// normalized.
func Uniform(direction vec.Vector3, magnitude float64) Source {
	return Source{Shape: UniformShape, Direction: direction, Magnitude: magnitude}
}

// Line is an infinite line through origin along direction, falling off
// as 1/distance.
func Line(origin, direction vec.Vector3, magnitude float64) Source {
	return Source{Shape: LineShape, Origin: origin, Direction: direction, Magnitude: magnitude}
}

// Dipole falls off as 1/distance³ around origin with moment along direction.
func Dipole(origin, direction vec.Vector3, magnitude float64) Source {
	return Source{Shape: DipoleShape, Origin: origin, Direction: direction, Magnitude: magnitude}
}

// At evaluates the source at pos. Only LineShape depends on kind: electric
// line fields point radially away from the line, magnetic ones circle it.
// Evaluating exactly at a singularity is not guarded.
func (s Source) At(kind Kind, pos vec.Vector3) vec.Vector3 {
	switch s.Shape {
	case PointShape:
		r := pos.Sub(s.Origin)
		return r.Normalized().Scale(s.Magnitude / r.MagnitudeSq())
	case UniformShape:
		return s.Direction.Scale(s.Magnitude)
	case LineShape:
		return s.lineAt(kind, pos)
	case DipoleShape:
		r := pos.Sub(s.Origin)
		l := r.Magnitude()
		d := s.Direction.Normalized()
		p := r.Normalized()
		return p.Scale(vec.Dot(d, p)).Sub(d).Scale(s.Magnitude / (l * l * l))
	}
	return vec.Vector3{X: math.NaN(), Y: math.NaN(), Z: math.NaN()}
}

func (s Source) lineAt(kind Kind, pos vec.Vector3) vec.Vector3 {
	d := s.Direction
	t := (vec.Dot(pos, d) - vec.Dot(d, s.Origin)) / vec.Dot(d, d)
	closest := s.Origin.Add(d.Scale(t))
	r := pos.Sub(closest)
	dist := r.Magnitude()
	if kind == Magnetic {
		return vec.Cross(d, r).Normalized().Scale(s.Magnitude / dist)
	}
	return r.Normalized().Scale(s.Magnitude / dist)
}

func (s Source) String() string {
	switch s.Shape {
	case PointShape:
		return fmt.Sprintf("point(origin=%v, magnitude=%g)", s.Origin, s.Magnitude)
	case UniformShape:
		return fmt.Sprintf("uniform(direction=%v, magnitude=%g)", s.Direction, s.Magnitude)
	default:
		return fmt.Sprintf("%s(origin=%v, direction=%v, magnitude=%g)", s.Shape, s.Origin, s.Direction, s.Magnitude)
	}
}
