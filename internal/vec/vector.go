package vec

import (
	"errors"
	"fmt"
	"math"
)

// SpeedOfLight is the default value of c in distance units per time unit.
const SpeedOfLight = 299792458.0

// ErrSuperluminal indicates an ordinary velocity at or above c.
var ErrSuperluminal = errors.New("vec: velocity at or above the speed of light")

// Vector3 is a 3D vector. Methods never modify the receiver.
type Vector3 struct {
	X, Y, Z float64
}

var Zero = Vector3{}

func New(x, y, z float64) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vector3) Neg() Vector3 {
	return Vector3{-v.X, -v.Y, -v.Z}
}

func (v Vector3) Scale(a float64) Vector3 {
	return Vector3{v.X * a, v.Y * a, v.Z * a}
}

func (v Vector3) Div(a float64) Vector3 {
	return Vector3{v.X / a, v.Y / a, v.Z / a}
}

func Dot(a, b Vector3) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z
}

// Cross returns the right-handed cross product a × b.
func Cross(a, b Vector3) Vector3 {
	x := a.Y*b.Z - a.Z*b.Y
	y := -(a.X*b.Z - a.Z*b.X)
	z := a.X*b.Y - a.Y*b.X
	return Vector3{x, y, z}
}

func (v Vector3) MagnitudeSq() float64 {
	return Dot(v, v)
}

func (v Vector3) Magnitude() float64 {
	return math.Sqrt(v.MagnitudeSq())
}

// Normalized returns v scaled to unit length. A vector with non-positive
// magnitude normalizes to the zero vector.
func (v Vector3) Normalized() Vector3 {
	l := v.Magnitude()
	if l <= 0 {
		return Zero
	}
	return v.Div(l)
}

func (v Vector3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

func (v Vector3) IsFinite() bool {
	for _, c := range [3]float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// Slice returns the components as []float64{x, y, z}.
func (v Vector3) Slice() []float64 {
	return []float64{v.X, v.Y, v.Z}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%g, %g, %g)", v.X, v.Y, v.Z)
}

// GammaFromProper treats v as a proper velocity U and returns
// sqrt(1 + |U|²/c²).
func (v Vector3) GammaFromProper(c float64) float64 {
	return math.Sqrt(1 + v.MagnitudeSq()/(c*c))
}

// GammaFromVelocity treats v as an ordinary velocity V and returns
// 1/sqrt(1 - |V|²/c²). It fails with ErrSuperluminal when |V| >= c.
func (v Vector3) GammaFromVelocity(c float64) (float64, error) {
	oneMinusBeta2 := 1 - v.MagnitudeSq()/(c*c)
	if oneMinusBeta2 <= 0 {
		return 0, fmt.Errorf("%w: |v|=%g, c=%g", ErrSuperluminal, v.Magnitude(), c)
	}
	return 1 / math.Sqrt(oneMinusBeta2), nil
}

// ProperFromVelocity converts an ordinary velocity to proper velocity γV.
func ProperFromVelocity(v Vector3, c float64) (Vector3, error) {
	g, err := v.GammaFromVelocity(c)
	if err != nil {
		return Zero, err
	}
	return v.Scale(g), nil
}

// VelocityFromProper converts a proper velocity back to U/γ.
func VelocityFromProper(u Vector3, c float64) Vector3 {
	return u.Div(u.GammaFromProper(c))
}
