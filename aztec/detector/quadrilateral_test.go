package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwellmann/zxing/bitutil"
)

func TestQuadrilateralOfSquareRing(t *testing.T) {
	// A black square ring of width one with corners at (2, 2) and (8, 8).
	matrix := bitutil.NewBitMatrixWithSize(11, 11)
	for i := 2; i <= 8; i++ {
		matrix.Set(i, 2)
		matrix.Set(i, 8)
		matrix.Set(2, i)
		matrix.Set(8, i)
	}
	finder := findComponents(matrix)
	label := finder.Label(2, 2)
	require.True(t, finder.Components()[label].Black)

	q := NewQuadrilateralFinder(finder).Find(label)
	assert.Equal(t, Quadrilateral{
		NWX: 2, NWY: 2,
		NEX: 8, NEY: 2,
		SWX: 2, SWY: 8,
		SEX: 8, SEY: 8,
	}, q)
}

func TestQuadrilateralOfFilledRectangle(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(12, 9)
	matrix.SetRegion(3, 2, 6, 4)
	finder := findComponents(matrix)
	label := finder.Label(3, 2)

	q := NewQuadrilateralFinder(finder).Find(label)
	assert.Equal(t, Quadrilateral{
		NWX: 3, NWY: 2,
		NEX: 8, NEY: 2,
		SWX: 3, SWY: 5,
		SEX: 8, SEY: 5,
	}, q)
}

func TestQuadrilateralOfBullsEyeWhiteSquare(t *testing.T) {
	matrix := readFixture(t, "bullseye.txt")
	finder := findComponents(matrix)

	// The outermost white ring of the fixture runs from (4, 4) to (10, 10).
	label := finder.Label(4, 4)
	require.False(t, finder.Components()[label].Black)

	q := NewQuadrilateralFinder(finder).Find(label)
	assert.Equal(t, Quadrilateral{
		NWX: 4, NWY: 4,
		NEX: 10, NEY: 4,
		SWX: 4, SWY: 10,
		SEX: 10, SEY: 10,
	}, q)
}
