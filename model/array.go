package model

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Array is a dense row-major array of float64 values. Rank 0 is a scalar.
// Arrays built by view() alias an external slice, so writes through At/Set
// and Data are visible to the owner of that slice; all other constructors
// allocate fresh backing storage.
type Array struct {
	shape []int
	data  []float64
}

// Scalar returns a rank-0 array holding v.
func Scalar(v float64) *Array {
	return &Array{shape: nil, data: []float64{v}}
}

// Vector returns a 1-d array holding vals.
func Vector(vals ...float64) *Array {
	data := make([]float64, len(vals))
	copy(data, vals)
	return &Array{shape: []int{len(vals)}, data: data}
}

// NewArray builds an array with the given shape over a copy of data.
// The product of shape dimensions must equal len(data).
func NewArray(shape []int, data []float64) (*Array, error) {
	if n := sizeOf(shape); n != len(data) {
		return nil, fmt.Errorf("%w: shape %v needs %d elements, got %d",
			ErrInputParameter, shape, n, len(data))
	}
	d := make([]float64, len(data))
	copy(d, data)
	return &Array{shape: copyShape(shape), data: d}, nil
}

// MustArray is NewArray panicking on error. Intended for static literals.
func MustArray(shape []int, data []float64) *Array {
	a, err := NewArray(shape, data)
	if err != nil {
		panic(err)
	}
	return a
}

// Zeros returns a zero-filled array of the given shape.
func Zeros(shape ...int) *Array {
	return &Array{shape: copyShape(shape), data: make([]float64, sizeOf(shape))}
}

// ZerosLike returns a zero-filled array with the same shape as a.
func ZerosLike(a *Array) *Array {
	return Zeros(a.shape...)
}

// FromNested converts a scalar or (arbitrarily nested) slice of numeric values
// into an Array. Nested slices must be rectangular.
func FromNested(v any) (*Array, error) {
	shape, data, err := flattenNested(v, nil)
	if err != nil {
		return nil, err
	}
	return &Array{shape: shape, data: data}, nil
}

func flattenNested(v any, path []int) ([]int, []float64, error) {
	switch x := v.(type) {
	case float64:
		return nil, []float64{x}, nil
	case float32:
		return nil, []float64{float64(x)}, nil
	case int:
		return nil, []float64{float64(x)}, nil
	case int64:
		return nil, []float64{float64(x)}, nil
	case []float64:
		d := make([]float64, len(x))
		copy(d, x)
		return []int{len(x)}, d, nil
	case []any:
		if len(x) == 0 {
			return []int{0}, nil, nil
		}
		var innerShape []int
		var data []float64
		for i, elem := range x {
			s, d, err := flattenNested(elem, append(path, i))
			if err != nil {
				return nil, nil, err
			}
			if i == 0 {
				innerShape = s
			} else if !shapeEqual(innerShape, s) {
				return nil, nil, fmt.Errorf("%w: ragged nested value at index %v: %v vs %v",
					ErrInputParameter, append(path, i), innerShape, s)
			}
			data = append(data, d...)
		}
		return append([]int{len(x)}, innerShape...), data, nil
	default:
		return nil, nil, fmt.Errorf("%w: cannot convert %T to a numeric array", ErrInputParameter, v)
	}
}

// view aliases data without copying. Used by ParameterStore so that named
// parameter views write through to the flat buffer.
func view(data []float64, shape []int) *Array {
	return &Array{shape: copyShape(shape), data: data}
}

// NDim returns the rank of the array.
func (a *Array) NDim() int { return len(a.shape) }

// Shape returns a copy of the array's dimensions. Empty for scalars.
func (a *Array) Shape() []int { return copyShape(a.shape) }

// Size returns the total number of elements.
func (a *Array) Size() int { return len(a.data) }

// IsScalar reports whether the array has rank 0.
func (a *Array) IsScalar() bool { return len(a.shape) == 0 }

// Scalar returns the single element of a 1-element array. ok is false when the
// array holds more than one element.
func (a *Array) Scalar() (float64, bool) {
	if len(a.data) != 1 {
		return 0, false
	}
	return a.data[0], true
}

// Data returns the live backing slice in row-major order.
func (a *Array) Data() []float64 { return a.data }

// At returns the element at the given multi-index.
func (a *Array) At(idx ...int) float64 {
	return a.data[a.offset(idx)]
}

// Set writes v at the given multi-index.
func (a *Array) Set(v float64, idx ...int) {
	a.data[a.offset(idx)] = v
}

func (a *Array) offset(idx []int) int {
	if len(idx) != len(a.shape) {
		panic(fmt.Sprintf("model: index rank %d does not match array rank %d", len(idx), len(a.shape)))
	}
	st := strides(a.shape)
	off := 0
	for i, x := range idx {
		if x < 0 || x >= a.shape[i] {
			panic(fmt.Sprintf("model: index %d out of range for axis %d with size %d", x, i, a.shape[i]))
		}
		off += x * st[i]
	}
	return off
}

// Copy returns a deep copy of the array.
func (a *Array) Copy() *Array {
	d := make([]float64, len(a.data))
	copy(d, a.data)
	return &Array{shape: copyShape(a.shape), data: d}
}

// Reshape returns a view with the given shape over the same backing data.
// The total size must be preserved.
func (a *Array) Reshape(shape ...int) (*Array, error) {
	if n := sizeOf(shape); n != len(a.data) {
		return nil, fmt.Errorf("%w: cannot reshape %d elements to shape %v",
			ErrInputParameter, len(a.data), shape)
	}
	return &Array{shape: copyShape(shape), data: a.data}, nil
}

// Transpose returns a copy with all axes reversed. Arrays of rank < 2 are
// returned as plain copies, matching the usual transpose convention.
func (a *Array) Transpose() *Array {
	n := len(a.shape)
	if n < 2 {
		return a.Copy()
	}
	rev := make([]int, n)
	for i := range rev {
		rev[i] = a.shape[n-1-i]
	}
	out := &Array{shape: rev, data: make([]float64, len(a.data))}
	srcStrides := strides(a.shape)
	idx := make([]int, n)
	for pos := range out.data {
		off := 0
		for i := 0; i < n; i++ {
			off += idx[i] * srcStrides[n-1-i]
		}
		out.data[pos] = a.data[off]
		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < rev[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out
}

// Apply returns a new array with f applied to every element.
func (a *Array) Apply(f func(float64) float64) *Array {
	out := a.Copy()
	for i, v := range out.data {
		out.data[i] = f(v)
	}
	return out
}

// Add returns the elementwise sum of a and b under broadcasting.
func (a *Array) Add(b *Array) (*Array, error) {
	return a.zip(b, floats.Add, func(x, y float64) float64 { return x + y })
}

// Sub returns the elementwise difference of a and b under broadcasting.
func (a *Array) Sub(b *Array) (*Array, error) {
	return a.zip(b, floats.Sub, func(x, y float64) float64 { return x - y })
}

// Mul returns the elementwise product of a and b under broadcasting.
func (a *Array) Mul(b *Array) (*Array, error) {
	return a.zip(b, floats.Mul, func(x, y float64) float64 { return x * y })
}

// Div returns the elementwise quotient of a and b under broadcasting.
func (a *Array) Div(b *Array) (*Array, error) {
	return a.zip(b, floats.Div, func(x, y float64) float64 { return x / y })
}

// zip applies a binary operation elementwise with trailing-axis broadcasting:
// shapes are aligned at the trailing dimension and each aligned pair must be
// equal or 1. Equal shapes take the contiguous gonum fast path.
func (a *Array) zip(b *Array, fast func(dst, s []float64), op func(x, y float64) float64) (*Array, error) {
	if shapeEqual(a.shape, b.shape) {
		out := a.Copy()
		fast(out.data, b.data)
		return out, nil
	}
	outShape, aStrides, bStrides, err := broadcastShapes(a.shape, b.shape)
	if err != nil {
		return nil, err
	}
	out := Zeros(outShape...)
	n := len(outShape)
	idx := make([]int, n)
	for pos := range out.data {
		aOff, bOff := 0, 0
		for i := 0; i < n; i++ {
			aOff += idx[i] * aStrides[i]
			bOff += idx[i] * bStrides[i]
		}
		out.data[pos] = op(a.data[aOff], b.data[bOff])
		for i := n - 1; i >= 0; i-- {
			idx[i]++
			if idx[i] < outShape[i] {
				break
			}
			idx[i] = 0
		}
	}
	return out, nil
}

// broadcastShapes computes the broadcast result shape of sa and sb along with
// per-operand strides into the result index space (stride 0 on broadcast axes).
func broadcastShapes(sa, sb []int) (outShape, aStrides, bStrides []int, err error) {
	n := len(sa)
	if len(sb) > n {
		n = len(sb)
	}
	outShape = make([]int, n)
	padA := make([]int, n)
	padB := make([]int, n)
	for i := 0; i < n; i++ {
		padA[i], padB[i] = 1, 1
	}
	copy(padA[n-len(sa):], sa)
	copy(padB[n-len(sb):], sb)
	for i := 0; i < n; i++ {
		switch {
		case padA[i] == padB[i]:
			outShape[i] = padA[i]
		case padA[i] == 1:
			outShape[i] = padB[i]
		case padB[i] == 1:
			outShape[i] = padA[i]
		default:
			return nil, nil, nil, fmt.Errorf("%w: cannot broadcast shapes %v and %v", ErrShapeMismatch, sa, sb)
		}
	}
	aStrides = broadcastStrides(padA)
	bStrides = broadcastStrides(padB)
	return outShape, aStrides, bStrides, nil
}

func broadcastStrides(padded []int) []int {
	st := strides(padded)
	for i, d := range padded {
		if d == 1 {
			st[i] = 0
		}
	}
	return st
}

func strides(shape []int) []int {
	st := make([]int, len(shape))
	acc := 1
	for i := len(shape) - 1; i >= 0; i-- {
		st[i] = acc
		acc *= shape[i]
	}
	return st
}

func sizeOf(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}

func copyShape(shape []int) []int {
	if len(shape) == 0 {
		return nil
	}
	out := make([]int, len(shape))
	copy(out, shape)
	return out
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (a *Array) String() string {
	if a.IsScalar() {
		return fmt.Sprintf("%g", a.data[0])
	}
	return fmt.Sprintf("array%v%v", a.shape, a.data)
}
