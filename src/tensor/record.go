package tensor

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"gwrTimetable/src/onnx"
)

// Source tells which tier of the resolution created a record.
type Source int

const (
	SourceDeclared Source = iota
	SourceInitializer
	SourcePlaceholder
)

func (s Source) String() string {
	switch s {
	case SourceDeclared:
		return "declared"
	case SourceInitializer:
		return "initializer"
	case SourcePlaceholder:
		return "placeholder"
	default:
		return "source_" + strconv.Itoa(int(s))
	}
}

// Dim is one shape dimension. Unresolved dimensions and resolved ones that
// are not positive count as 1 when sizing.
type Dim struct {
	Value    int64
	Resolved bool
}

func (d Dim) extent() uint64 {
	if !d.Resolved || d.Value <= 0 {
		return 1
	}
	return uint64(d.Value)
}

func (d Dim) String() string {
	if !d.Resolved {
		return "?"
	}
	return strconv.FormatInt(d.Value, 10)
}

// Record is the resolved metadata of one named tensor.
type Record struct {
	Name      string
	Shape     []Dim
	DataType  onnx.DataType
	SizeBytes uint64
	Source    Source
}

// Overflows reports whether the byte size of the record does not fit in 64
// bits. SizeBytes is then math.MaxUint64.
func (r Record) Overflows() bool {
	n, overflow := r.elementCount()
	if overflow {
		return true
	}
	hi, _ := bits.Mul64(n, ElementBytes(r.DataType))
	return hi != 0
}

func newRecord(name string, shape []Dim, dt onnx.DataType, source Source) Record {
	r := Record{Name: name, Shape: shape, DataType: dt, Source: source}
	r.SizeBytes = saturatingMul(r.NumElements(), ElementBytes(dt))
	return r
}

func placeholderRecord(name string) Record {
	return newRecord(name, []Dim{{Value: 1, Resolved: true}}, DefaultDataType, SourcePlaceholder)
}

// NumElements is the product of the sizing extents of Shape. A scalar has
// one element. Products that do not fit in 64 bits saturate at
// math.MaxUint64.
func (r Record) NumElements() uint64 {
	n, overflow := r.elementCount()
	if overflow {
		return math.MaxUint64
	}
	return n
}

func (r Record) elementCount() (uint64, bool) {
	n := uint64(1)
	for _, d := range r.Shape {
		hi, lo := bits.Mul64(n, d.extent())
		if hi != 0 {
			return 0, true
		}
		n = lo
	}
	return n, false
}

func saturatingMul(a, b uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return math.MaxUint64
	}
	return lo
}

// DType returns the dtype label of the record.
func (r Record) DType() string {
	return DTypeName(r.DataType)
}

// ShapeString renders the shape as "[2,?,8]".
func (r Record) ShapeString() string {
	parts := make([]string, len(r.Shape))
	for i, d := range r.Shape {
		parts[i] = d.String()
	}
	return "[" + strings.Join(parts, ",") + "]"
}
