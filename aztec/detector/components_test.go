package detector

import (
	"os"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwellmann/zxing/bitutil"
)

func readFixture(t *testing.T, name string) *bitutil.BitMatrix {
	t.Helper()
	data, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return bitutil.ParseStringMatrix(string(data), "X", ".")
}

func findComponents(matrix *bitutil.BitMatrix) *ComponentFinder {
	finder := NewComponentFinder(matrix)
	finder.FindComponents()
	return finder
}

// checkInvariants verifies the labelling guarantees: every pixel carries a
// positive label, every component's envelope contains all its pixels, and
// the pixel counts add up to the matrix size.
func checkInvariants(t *testing.T, finder *ComponentFinder) {
	t.Helper()
	matrix := finder.BitMatrix()
	components := finder.Components()

	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			label := finder.Label(x, y)
			require.Greater(t, label, 0, "pixel (%d, %d) unlabelled", x, y)
			c := components[label]
			require.NotNil(t, c, "pixel (%d, %d) has no component record", x, y)
			assert.True(t, c.Envelope.Contains(x, y),
				"envelope %s of component %d does not contain pixel (%d, %d)",
				c.Envelope, label, x, y)
			assert.Equal(t, c.Black, matrix.Get(x, y))
		}
	}

	total := 0
	for _, c := range components {
		assert.GreaterOrEqual(t, c.NumPixels, 1)
		total += c.NumPixels
	}
	assert.Equal(t, matrix.Width()*matrix.Height(), total)
}

func TestAllWhiteSingleComponent(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(10, 8)
	finder := findComponents(matrix)

	components := finder.Components()
	require.Len(t, components, 1)
	for _, c := range components {
		assert.False(t, c.Black)
		assert.Equal(t, 80, c.NumPixels)
		assert.Equal(t, Envelope{MinX: 0, MinY: 0, MaxX: 9, MaxY: 7}, c.Envelope)
	}
	checkInvariants(t, finder)
}

func TestSingleBlackPixel(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(7, 5)
	matrix.Set(3, 2)
	finder := findComponents(matrix)

	components := finder.Components()
	require.Len(t, components, 2)

	black := components[finder.Label(3, 2)]
	require.NotNil(t, black)
	assert.True(t, black.Black)
	assert.Equal(t, 1, black.NumPixels)
	assert.Equal(t, Envelope{MinX: 3, MinY: 2, MaxX: 3, MaxY: 2}, black.Envelope)

	white := components[finder.Label(0, 0)]
	require.NotNil(t, white)
	assert.False(t, white.Black)
	assert.Equal(t, 34, white.NumPixels)
	checkInvariants(t, finder)
}

// The bull's eye fixture consists of a black centre module, four
// concentric square rings with alternating colour, and the white
// background enclosing them.
func TestBullsEyeFixtureComponents(t *testing.T) {
	matrix := readFixture(t, "bullseye.txt")
	finder := findComponents(matrix)

	components := finder.Components()
	require.Len(t, components, 6)
	checkInvariants(t, finder)

	var sizes []int
	for _, c := range components {
		sizes = append(sizes, c.NumPixels)
	}
	sort.Ints(sizes)
	assert.Equal(t, []int{1, 8, 16, 24, 32, 144}, sizes)

	centre := components[finder.Label(7, 7)]
	assert.True(t, centre.Black)
	assert.Equal(t, 1, centre.NumPixels)

	// The rings carry one label each all the way around.
	assert.Equal(t, finder.Label(3, 3), finder.Label(11, 11))
	assert.Equal(t, finder.Label(5, 5), finder.Label(9, 9))
	assert.NotEqual(t, finder.Label(3, 3), finder.Label(5, 5))
}

// Pixels touching only diagonally belong to different components.
func TestDiagonalPixelsNotConnected(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(4, 4)
	matrix.Set(1, 1)
	matrix.Set(2, 2)
	finder := findComponents(matrix)

	assert.NotEqual(t, finder.Label(1, 1), finder.Label(2, 2))
	// The white region stays connected around the diagonal pair.
	assert.Equal(t, finder.Label(0, 0), finder.Label(3, 3))
	assert.Equal(t, finder.Label(2, 1), finder.Label(1, 2))
	checkInvariants(t, finder)
}

// A U shape closed in the last row exercises the union of provisional
// labels across distant columns.
func TestUShapeMergesLabels(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(7, 5)
	for y := 0; y < 5; y++ {
		matrix.Set(1, y)
		matrix.Set(5, y)
	}
	for x := 1; x <= 5; x++ {
		matrix.Set(x, 4)
	}
	finder := findComponents(matrix)

	assert.Equal(t, finder.Label(1, 0), finder.Label(5, 0))
	u := finder.Components()[finder.Label(1, 0)]
	require.NotNil(t, u)
	assert.True(t, u.Black)
	assert.Equal(t, 13, u.NumPixels)
	assert.Equal(t, Envelope{MinX: 1, MinY: 0, MaxX: 5, MaxY: 4}, u.Envelope)
	checkInvariants(t, finder)
}
