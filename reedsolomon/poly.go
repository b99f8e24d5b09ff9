package reedsolomon

// poly is a polynomial with coefficients in a Galois Field, ordered from the
// highest-degree term to the lowest. Instances are immutable.
type poly struct {
	field        *Field
	coefficients []int
}

func newPoly(field *Field, coefficients []int) *poly {
	if len(coefficients) == 0 {
		panic("reedsolomon: empty coefficients")
	}
	// Strip leading zero terms.
	if len(coefficients) > 1 && coefficients[0] == 0 {
		firstNonZero := 1
		for firstNonZero < len(coefficients) && coefficients[firstNonZero] == 0 {
			firstNonZero++
		}
		if firstNonZero == len(coefficients) {
			coefficients = []int{0}
		} else {
			trimmed := make([]int, len(coefficients)-firstNonZero)
			copy(trimmed, coefficients[firstNonZero:])
			coefficients = trimmed
		}
	}
	return &poly{field: field, coefficients: coefficients}
}

func (p *poly) degree() int {
	return len(p.coefficients) - 1
}

func (p *poly) isZero() bool {
	return p.coefficients[0] == 0
}

// coefficient returns the coefficient of x^degree.
func (p *poly) coefficient(degree int) int {
	return p.coefficients[len(p.coefficients)-1-degree]
}

func (p *poly) evaluateAt(a int) int {
	if a == 0 {
		return p.coefficient(0)
	}
	if a == 1 {
		result := 0
		for _, c := range p.coefficients {
			result ^= c
		}
		return result
	}
	result := p.coefficients[0]
	for i := 1; i < len(p.coefficients); i++ {
		result = p.field.Multiply(a, result) ^ p.coefficients[i]
	}
	return result
}

// add returns p + other. Addition and subtraction coincide in GF(2^n).
func (p *poly) add(other *poly) *poly {
	if p.isZero() {
		return other
	}
	if other.isZero() {
		return p
	}

	smaller := p.coefficients
	larger := other.coefficients
	if len(smaller) > len(larger) {
		smaller, larger = larger, smaller
	}

	sum := make([]int, len(larger))
	lengthDiff := len(larger) - len(smaller)
	copy(sum, larger[:lengthDiff])
	for i := lengthDiff; i < len(larger); i++ {
		sum[i] = smaller[i-lengthDiff] ^ larger[i]
	}
	return newPoly(p.field, sum)
}

func (p *poly) multiply(other *poly) *poly {
	if p.isZero() || other.isZero() {
		return p.field.zero
	}
	product := make([]int, len(p.coefficients)+len(other.coefficients)-1)
	for i, ac := range p.coefficients {
		for j, bc := range other.coefficients {
			product[i+j] ^= p.field.Multiply(ac, bc)
		}
	}
	return newPoly(p.field, product)
}

func (p *poly) multiplyScalar(scalar int) *poly {
	if scalar == 0 {
		return p.field.zero
	}
	if scalar == 1 {
		return p
	}
	product := make([]int, len(p.coefficients))
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, scalar)
	}
	return newPoly(p.field, product)
}

func (p *poly) multiplyByMonomial(degree, coefficient int) *poly {
	if degree < 0 {
		panic("reedsolomon: negative degree")
	}
	if coefficient == 0 {
		return p.field.zero
	}
	product := make([]int, len(p.coefficients)+degree)
	for i, c := range p.coefficients {
		product[i] = p.field.Multiply(c, coefficient)
	}
	return newPoly(p.field, product)
}

// divide returns the quotient and remainder of p / other.
func (p *poly) divide(other *poly) (quotient, remainder *poly) {
	if other.isZero() {
		panic("reedsolomon: divide by zero polynomial")
	}

	quotient = p.field.zero
	remainder = p

	inverseLeading := p.field.Inverse(other.coefficient(other.degree()))
	for remainder.degree() >= other.degree() && !remainder.isZero() {
		degreeDiff := remainder.degree() - other.degree()
		scale := p.field.Multiply(remainder.coefficient(remainder.degree()), inverseLeading)
		quotient = quotient.add(p.field.monomial(degreeDiff, scale))
		remainder = remainder.add(other.multiplyByMonomial(degreeDiff, scale))
	}
	return quotient, remainder
}
