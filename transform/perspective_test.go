package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuadrilateralToQuadrilateralMapsCorners(t *testing.T) {
	// The defining corner pairs must map exactly onto each other.
	pt := QuadrilateralToQuadrilateral(
		155, 137, 258, 139, 136, 228, 247, 231,
		158, 158, 202, 158, 158, 202, 202, 202)

	points := []float64{155, 137, 258, 139, 136, 228, 247, 231}
	pt.TransformPoints(points)

	want := []float64{158, 158, 202, 158, 158, 202, 202, 202}
	for i := range want {
		assert.InDelta(t, want[i], points[i], 1e-6, "coordinate %d", i)
	}
}

func TestSquareToQuadrilateralAffine(t *testing.T) {
	// A parallelogram target keeps the transform affine.
	pt := SquareToQuadrilateral(10, 10, 20, 10, 20, 20, 10, 20)
	points := []float64{0, 0, 1, 0, 0.5, 0.5}
	pt.TransformPoints(points)

	assert.InDelta(t, 10.0, points[0], 1e-9)
	assert.InDelta(t, 10.0, points[1], 1e-9)
	assert.InDelta(t, 20.0, points[2], 1e-9)
	assert.InDelta(t, 10.0, points[3], 1e-9)
	assert.InDelta(t, 15.0, points[4], 1e-9)
	assert.InDelta(t, 15.0, points[5], 1e-9)
}

func TestRoundTripThroughSquare(t *testing.T) {
	// quad -> square -> quad composes to the identity on the corners.
	forward := QuadrilateralToSquare(155, 137, 258, 139, 136, 228, 247, 231)
	backward := SquareToQuadrilateral(155, 137, 258, 139, 136, 228, 247, 231)

	points := []float64{155, 137, 258, 139, 136, 228, 247, 231, 200, 190}
	orig := make([]float64, len(points))
	copy(orig, points)

	forward.TransformPoints(points)
	backward.TransformPoints(points)

	for i := range orig {
		assert.InDelta(t, orig[i], points[i], 1e-6, "coordinate %d", i)
	}
}
