// Package reedsolomon implements Reed-Solomon error correction over the
// Galois Fields used by Aztec codes.
package reedsolomon

import "fmt"

// Field is a Galois Field GF(2^n) defined by a primitive polynomial.
type Field struct {
	expTable      []int
	logTable      []int
	zero          *poly
	one           *poly
	size          int
	primitive     int
	generatorBase int
}

// The Galois Fields of the Aztec symbology. Param is the GF(16) field of the
// mode message; the Data fields correspond to the codeword sizes used by the
// data layers.
var (
	Param  = NewField(0x13, 16, 1)
	Data6  = NewField(0x43, 64, 1)
	Data8  = NewField(0x12D, 256, 1)
	Data10 = NewField(0x409, 1024, 1)
	Data12 = NewField(0x1069, 4096, 1)
)

// NewField creates GF(size) from the given primitive polynomial. The
// generator base is the exponent of the first root of the generator
// polynomial (1 for all Aztec fields).
func NewField(primitive, size, generatorBase int) *Field {
	f := &Field{
		primitive:     primitive,
		size:          size,
		generatorBase: generatorBase,
		expTable:      make([]int, size),
		logTable:      make([]int, size),
	}

	x := 1
	for i := 0; i < size; i++ {
		f.expTable[i] = x
		x *= 2
		if x >= size {
			x ^= primitive
			x &= size - 1
		}
	}
	for i := 0; i < size-1; i++ {
		f.logTable[f.expTable[i]] = i
	}

	f.zero = newPoly(f, []int{0})
	f.one = newPoly(f, []int{1})
	return f
}

// Zero returns the zero polynomial.
func (f *Field) Zero() *poly { return f.zero }

// One returns the one polynomial.
func (f *Field) One() *poly { return f.one }

// monomial returns coefficient * x^degree.
func (f *Field) monomial(degree, coefficient int) *poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return f.zero
	}
	coefficients := make([]int, degree+1)
	coefficients[0] = coefficient
	return newPoly(f, coefficients)
}

// Exp returns 2^a in this field.
func (f *Field) Exp(a int) int { return f.expTable[a] }

// Log returns the discrete logarithm of a.
func (f *Field) Log(a int) int {
	if a == 0 {
		panic("reedsolomon: log(0)")
	}
	return f.logTable[a]
}

// Inverse returns the multiplicative inverse of a.
func (f *Field) Inverse(a int) int {
	if a == 0 {
		panic("reedsolomon: inverse(0)")
	}
	return f.expTable[f.size-f.logTable[a]-1]
}

// Multiply returns the field product a * b.
func (f *Field) Multiply(a, b int) int {
	if a == 0 || b == 0 {
		return 0
	}
	return f.expTable[(f.logTable[a]+f.logTable[b])%(f.size-1)]
}

// Size returns the number of field elements.
func (f *Field) Size() int { return f.size }

// GeneratorBase returns the generator base.
func (f *Field) GeneratorBase() int { return f.generatorBase }

// String implements fmt.Stringer.
func (f *Field) String() string {
	return fmt.Sprintf("GF(0x%x,%d)", f.primitive, f.size)
}
