package reedsolomon

import "errors"

// ErrDecode indicates a Reed-Solomon decoding failure: the received word
// contains more errors than the code can correct.
var ErrDecode = errors.New("reedsolomon: too many errors")

// Decoder corrects errors in Reed-Solomon encoded data.
type Decoder struct {
	field *Field
}

// NewDecoder creates a Decoder for the given field.
func NewDecoder(field *Field) *Decoder {
	return &Decoder{field: field}
}

// Decode corrects errors in received in place and returns the number of
// codewords corrected. ecCount is the number of error-correction codewords
// at the end of received.
func (d *Decoder) Decode(received []int, ecCount int) (int, error) {
	p := newPoly(d.field, received)
	syndromeCoefficients := make([]int, ecCount)
	noError := true
	for i := 0; i < ecCount; i++ {
		eval := p.evaluateAt(d.field.Exp(i + d.field.generatorBase))
		syndromeCoefficients[ecCount-1-i] = eval
		if eval != 0 {
			noError = false
		}
	}
	if noError {
		return 0, nil
	}

	syndrome := newPoly(d.field, syndromeCoefficients)
	sigma, omega, err := d.runEuclideanAlgorithm(d.field.monomial(ecCount, 1), syndrome, ecCount)
	if err != nil {
		return 0, err
	}
	errorLocations, err := d.findErrorLocations(sigma)
	if err != nil {
		return 0, err
	}
	errorMagnitudes := d.findErrorMagnitudes(omega, errorLocations)
	for i := 0; i < len(errorLocations); i++ {
		position := len(received) - 1 - d.field.Log(errorLocations[i])
		if position < 0 {
			return 0, ErrDecode
		}
		received[position] ^= errorMagnitudes[i]
	}
	return len(errorLocations), nil
}

func (d *Decoder) runEuclideanAlgorithm(a, b *poly, r int) (sigma, omega *poly, err error) {
	if a.degree() < b.degree() {
		a, b = b, a
	}

	rLast := a
	rCur := b
	tLast := d.field.zero
	tCur := d.field.one

	for 2*rCur.degree() >= r {
		rLastLast := rLast
		tLastLast := tLast
		rLast = rCur
		tLast = tCur

		if rLast.isZero() {
			return nil, nil, ErrDecode
		}
		rCur = rLastLast
		q := d.field.zero
		inverseLeading := d.field.Inverse(rLast.coefficient(rLast.degree()))
		for rCur.degree() >= rLast.degree() && !rCur.isZero() {
			degreeDiff := rCur.degree() - rLast.degree()
			scale := d.field.Multiply(rCur.coefficient(rCur.degree()), inverseLeading)
			q = q.add(d.field.monomial(degreeDiff, scale))
			rCur = rCur.add(rLast.multiplyByMonomial(degreeDiff, scale))
		}

		tCur = q.multiply(tLast).add(tLastLast)

		if rCur.degree() >= rLast.degree() {
			return nil, nil, ErrDecode
		}
	}

	sigmaTildeAtZero := tCur.coefficient(0)
	if sigmaTildeAtZero == 0 {
		return nil, nil, ErrDecode
	}

	inverse := d.field.Inverse(sigmaTildeAtZero)
	return tCur.multiplyScalar(inverse), rCur.multiplyScalar(inverse), nil
}

func (d *Decoder) findErrorLocations(errorLocator *poly) ([]int, error) {
	numErrors := errorLocator.degree()
	if numErrors == 1 {
		return []int{errorLocator.coefficient(1)}, nil
	}
	result := make([]int, 0, numErrors)
	for i := 1; i < d.field.size && len(result) < numErrors; i++ {
		if errorLocator.evaluateAt(i) == 0 {
			result = append(result, d.field.Inverse(i))
		}
	}
	if len(result) != numErrors {
		return nil, ErrDecode
	}
	return result, nil
}

func (d *Decoder) findErrorMagnitudes(errorEvaluator *poly, errorLocations []int) []int {
	s := len(errorLocations)
	result := make([]int, s)
	for i := 0; i < s; i++ {
		xiInverse := d.field.Inverse(errorLocations[i])
		denominator := 1
		for j := 0; j < s; j++ {
			if i == j {
				continue
			}
			term := d.field.Multiply(errorLocations[j], xiInverse)
			termPlus1 := term | 1
			if term&1 != 0 {
				termPlus1 = term &^ 1
			}
			denominator = d.field.Multiply(denominator, termPlus1)
		}
		result[i] = d.field.Multiply(errorEvaluator.evaluateAt(xiInverse), d.field.Inverse(denominator))
		if d.field.generatorBase != 0 {
			result[i] = d.field.Multiply(result[i], xiInverse)
		}
	}
	return result
}
