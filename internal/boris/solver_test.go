package boris_test

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/types"

	"github.com/san-kum/borisim/internal/boris"
	"github.com/san-kum/borisim/internal/field"
	"github.com/san-kum/borisim/internal/vec"
)

func beNear(want vec.Vector3, tol float64) types.GomegaMatcher {
	return SatisfyAll(
		WithTransform(func(v vec.Vector3) float64 { return v.X }, BeNumerically("~", want.X, tol)),
		WithTransform(func(v vec.Vector3) float64 { return v.Y }, BeNumerically("~", want.Y, tol)),
		WithTransform(func(v vec.Vector3) float64 { return v.Z }, BeNumerically("~", want.Z, tol)),
	)
}

var _ = Describe("Solver", func() {
	var (
		noE, noB field.Field
	)

	BeforeEach(func() {
		noE = field.NewElectric()
		noB = field.NewMagnetic()
	})

	Describe("construction", func() {
		It("staggers position half a step ahead of velocity", func() {
			s, err := boris.New(1, 1, 0.2, noE, noB, vec.New(1, 2, 0), vec.New(1, 1, 1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.XAfter()).To(beNear(vec.New(1.1, 1.2, 1), 1e-12))
			Expect(s.UStep()).To(Equal(0.0))
			Expect(s.XStep()).To(Equal(0.5))
		})

		It("stores proper velocity rather than ordinary velocity", func() {
			s, err := boris.New(1, 1, 0.1, noE, noB, vec.New(0.6, 0, 0), vec.Zero, boris.WithSpeedOfLight(1))
			Expect(err).NotTo(HaveOccurred())
			Expect(s.UAfter()).To(beNear(vec.New(0.75, 0, 0), 1e-12))
			Expect(s.Gamma()).To(BeNumerically("~", 1.25, 1e-12))
			Expect(s.Velocity()).To(beNear(vec.New(0.6, 0, 0), 1e-12))
		})

		It("rejects a superluminal initial velocity", func() {
			_, err := boris.New(1, 1, 0.1, noE, noB, vec.New(0, 0, 2), vec.Zero, boris.WithSpeedOfLight(2))
			Expect(err).To(MatchError(vec.ErrSuperluminal))
		})

		DescribeTable("rejects non-physical parameters",
			func(m, dt float64) {
				_, err := boris.New(1, m, dt, noE, noB, vec.Zero, vec.Zero)
				Expect(err).To(MatchError(boris.ErrInvalidParameter))
			},
			Entry("zero mass", 0.0, 0.1),
			Entry("negative mass", -1.0, 0.1),
			Entry("zero dt", 1.0, 0.0),
			Entry("negative dt", 1.0, -0.5),
		)
	})

	Describe("field-free motion", func() {
		It("returns (1.5, 0, 0) after one unit step", func() {
			s, err := boris.New(0, 1, 1, noE, noB, vec.New(1, 0, 0), vec.Zero)
			Expect(err).NotTo(HaveOccurred())
			Expect(s.Step()).To(Equal(vec.New(1.5, 0, 0)))
			Expect(s.UStep()).To(Equal(1.0))
			Expect(s.XStep()).To(Equal(1.5))
		})

		It("moves in a straight line", func() {
			v0 := vec.New(0.3, -1.2, 2)
			x0 := vec.New(5, 5, -5)
			dt := 0.05
			s, err := boris.New(1, 1, dt, noE, noB, v0, x0)
			Expect(err).NotTo(HaveOccurred())

			const n = 200
			var x vec.Vector3
			for i := 0; i < n; i++ {
				x = s.Step()
			}
			Expect(x).To(beNear(x0.Add(v0.Scale((n+0.5)*dt)), 1e-9))
		})

		It("keeps before/after pairs one step apart", func() {
			s, err := boris.New(1, 1, 0.5, noE, noB, vec.New(2, 0, 0), vec.Zero)
			Expect(err).NotTo(HaveOccurred())
			prev := s.XAfter()
			s.Step()
			Expect(s.XBefore()).To(Equal(prev))
			Expect(s.XAfter()).To(beNear(prev.Add(vec.New(1, 0, 0)), 1e-12))
			Expect(s.UBefore()).To(beNear(s.UAfter(), 1e-12))
		})
	})

	Describe("uniform magnetic field", func() {
		var (
			s  *boris.Solver
			dt = 0.01
		)

		BeforeEach(func() {
			b := field.NewMagnetic(field.Uniform(vec.New(0, 0, 1), 1))
			var err error
			s, err = boris.New(1, 1, dt, noE, b, vec.New(1, 0, 0), vec.Zero)
			Expect(err).NotTo(HaveOccurred())
		})

		It("preserves the magnitude of U", func() {
			u0 := s.UAfter().Magnitude()
			for i := 0; i < 5000; i++ {
				s.Step()
				Expect(s.UAfter().Magnitude()).To(BeNumerically("~", u0, 1e-12))
			}
		})

		It("traces a closed circle in the xy-plane", func() {
			start := s.XAfter()
			steps := int(math.Round(2 * math.Pi / dt))
			var x vec.Vector3
			for i := 0; i < steps; i++ {
				x = s.Step()
				Expect(x.Z).To(Equal(0.0))
				// gyration centre sits at (0, -1, 0) with unit radius
				Expect(x.Sub(vec.New(0, -1, 0)).Magnitude()).To(BeNumerically("~", 1, 0.01))
			}
			Expect(x).To(beNear(start, 0.05))
		})

		It("samples fields for diagnostics", func() {
			Expect(s.BField(vec.New(9, 9, 9))).To(Equal(vec.New(0, 0, 1)))
			Expect(s.EField(vec.New(9, 9, 9))).To(Equal(vec.Zero))
		})
	})

	Describe("uniform electric field", func() {
		It("accelerates without exceeding c", func() {
			c := 1.0
			e := field.NewElectric(field.Uniform(vec.New(1, 0, 0), 10))
			s, err := boris.New(1, 1, 0.01, e, noB, vec.Zero, vec.Zero, boris.WithSpeedOfLight(c))
			Expect(err).NotTo(HaveOccurred())

			for i := 0; i < 1000; i++ {
				s.Step()
				Expect(s.Velocity().Magnitude()).To(BeNumerically("<", c))
			}
			// U grows linearly: qE/m * t
			Expect(s.UAfter().X).To(BeNumerically("~", 10*s.Time(), 1e-9))
		})
	})

	Describe("crossed fields", func() {
		It("drifts along E×B at |E|/|B|", func() {
			e := field.NewElectric(field.Uniform(vec.New(0, 1, 0), 0.1))
			b := field.NewMagnetic(field.Uniform(vec.New(0, 0, 1), 1))
			s, err := boris.New(1, 1, 0.01, e, b, vec.New(0.1, 0, 0), vec.Zero)
			Expect(err).NotTo(HaveOccurred())

			// starting at the drift velocity the particle does not gyrate
			for i := 0; i < 1000; i++ {
				s.Step()
			}
			Expect(s.Velocity()).To(beNear(vec.New(0.1, 0, 0), 1e-9))
		})
	})

	Describe("singular sources", func() {
		It("propagates non-finite values without panicking", func() {
			e := field.NewElectric(field.Point(vec.New(0.5, 0, 0), 1))
			s, err := boris.New(1, 1, 1, e, noB, vec.New(1, 0, 0), vec.Zero)
			Expect(err).NotTo(HaveOccurred())
			Expect(func() { s.Step() }).NotTo(Panic())
			Expect(s.UAfter().IsFinite()).To(BeFalse())
		})
	})
})
