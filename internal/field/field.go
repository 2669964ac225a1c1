package field

import "github.com/san-kum/borisim/internal/vec"

// Field is an ordered superposition of sources of one kind. The zero
// value is an empty electric field and evaluates to zero everywhere.
// A Field is read-only after construction and safe to share.
type Field struct {
	kind    Kind
	sources []Source
}

func New(kind Kind, sources ...Source) Field {
	s := make([]Source, len(sources))
	copy(s, sources)
	return Field{kind: kind, sources: s}
}

func NewElectric(sources ...Source) Field { return New(Electric, sources...) }
func NewMagnetic(sources ...Source) Field { return New(Magnetic, sources...) }

func (f Field) Kind() Kind { return f.kind }
func (f Field) Len() int   { return len(f.sources) }

// Sources returns a copy of the sources in evaluation order.
func (f Field) Sources() []Source {
	s := make([]Source, len(f.sources))
	copy(s, f.sources)
	return s
}

// At sums every source at pos, in order, starting from zero.
func (f Field) At(pos vec.Vector3) vec.Vector3 {
	sum := vec.Zero
	for _, s := range f.sources {
		sum = sum.Add(s.At(f.kind, pos))
	}
	return sum
}
