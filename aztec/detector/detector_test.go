package detector

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/aztec/encoder"
	"github.com/hwellmann/zxing/bitutil"
)

// magnify scales each pixel of the matrix to factor x factor pixels and
// adds a white border around the result.
func magnify(matrix *bitutil.BitMatrix, factor, border int) *bitutil.BitMatrix {
	out := bitutil.NewBitMatrixWithSize(
		matrix.Width()*factor+2*border,
		matrix.Height()*factor+2*border)
	for y := 0; y < matrix.Height(); y++ {
		for x := 0; x < matrix.Width(); x++ {
			if matrix.Get(x, y) {
				out.SetRegion(border+x*factor, border+y*factor, factor, factor)
			}
		}
	}
	return out
}

// rotate90 rotates the matrix by a quarter turn clockwise.
func rotate90(matrix *bitutil.BitMatrix) *bitutil.BitMatrix {
	w := matrix.Width()
	h := matrix.Height()
	out := bitutil.NewBitMatrixWithSize(h, w)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if matrix.Get(x, y) {
				out.Set(h-1-y, x)
			}
		}
	}
	return out
}

// drawBullsEye returns a matrix holding just the concentric rings of a
// compact finder pattern, one pixel per module, with no margin.
func drawBullsEye() *bitutil.BitMatrix {
	matrix := bitutil.NewBitMatrixWithSize(9, 9)
	for y := 0; y < 9; y++ {
		for x := 0; x < 9; x++ {
			d := x - 4
			if d < 0 {
				d = -d
			}
			if dy := y - 4; dy > d {
				d = dy
			} else if -dy > d {
				d = -dy
			}
			if d%2 == 0 {
				matrix.Set(x, y)
			}
		}
	}
	return matrix
}

func TestFindBullsEyeInFixture(t *testing.T) {
	matrix := readFixture(t, "bullseye.txt")
	detector := New(findComponents(matrix))

	require.NoError(t, detector.Detect())
	assert.True(t, detector.Compact())

	ws := detector.WhiteSquare()
	require.NotNil(t, ws)
	assert.False(t, ws.Black)
	assert.Equal(t, Envelope{MinX: 4, MinY: 4, MaxX: 10, MaxY: 10}, ws.Envelope)
}

func TestDetectNothingInBlankImage(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(40, 40)
	detector := New(findComponents(matrix))
	assert.ErrorIs(t, detector.Detect(), zxing.ErrNotFound)
}

func TestDetectNothingInNoise(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(50, 50)
	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if (x*31+y*17)%5 == 0 {
				matrix.Set(x, y)
			}
		}
	}
	detector := New(findComponents(matrix))
	assert.ErrorIs(t, detector.Detect(), zxing.ErrNotFound)
}

// A bare bull's eye without the mode message ring: the finder pattern is
// detected, but sampling the mode message runs off the image.
func TestModeMessageOffImage(t *testing.T) {
	matrix := magnify(drawBullsEye(), 3, 0)
	detector := New(findComponents(matrix))

	require.NoError(t, detector.Detect())
	assert.True(t, detector.Compact())
	assert.ErrorIs(t, detector.ComputeTransform(), zxing.ErrNotFound)
}

func detectSymbol(t *testing.T, code *encoder.Code, image *bitutil.BitMatrix) *Result {
	t.Helper()
	detector := New(findComponents(image))
	require.NoError(t, detector.Detect())
	require.NoError(t, detector.ComputeTransform())

	result := detector.Result()
	assert.Equal(t, code.Compact, result.Compact)
	assert.Equal(t, code.Layers, result.NumLayers)
	assert.Equal(t, code.CodeWords, result.NumDataWords)
	assert.Len(t, result.Points, 4)
	return result
}

func TestDetectCompactSymbol(t *testing.T) {
	code, err := encoder.Encode([]byte("abc"), 33, 0)
	require.NoError(t, err)
	require.True(t, code.Compact)

	image := magnify(code.Matrix, 6, 12)
	result := detectSymbol(t, code, image)
	assert.True(t, result.Bits.Equals(code.Matrix))
}

func TestDetectFullRangeSymbol(t *testing.T) {
	code, err := encoder.Encode([]byte("CONNECTED COMPONENT AZTEC DETECTION"), 33, 5)
	require.NoError(t, err)
	require.False(t, code.Compact)
	require.Equal(t, 5, code.Layers)

	image := magnify(code.Matrix, 6, 12)
	result := detectSymbol(t, code, image)
	assert.True(t, result.Bits.Equals(code.Matrix))
}

// A quarter-turn rotation is resolved by the orientation marks: the
// refined transform maps the rotated image back to the canonical
// orientation.
func TestDetectRotatedFullRangeSymbol(t *testing.T) {
	code, err := encoder.Encode([]byte("CONNECTED COMPONENT AZTEC DETECTION"), 33, 5)
	require.NoError(t, err)

	image := rotate90(magnify(code.Matrix, 6, 12))
	result := detectSymbol(t, code, image)
	assert.True(t, result.Bits.Equals(code.Matrix))
}

// Seventeen layers put the symbol beyond the second reference grid
// distance, so the transform is refined twice.
func TestDetectSymbolWithTwoReferenceLines(t *testing.T) {
	code, err := encoder.Encode([]byte("REFERENCE GRID LINES AT 16 AND 32 MODULES"), 33, 17)
	require.NoError(t, err)
	require.Equal(t, 17, code.Layers)
	require.Equal(t, 87, code.Size)

	image := magnify(code.Matrix, 4, 8)
	result := detectSymbol(t, code, image)
	assert.True(t, result.Bits.Equals(code.Matrix))
}

func TestNormalizeMatrixMagnified(t *testing.T) {
	code, err := encoder.Encode([]byte("abc"), 33, 0)
	require.NoError(t, err)

	image := magnify(code.Matrix, 6, 12)
	detector := New(findComponents(image))
	require.NoError(t, detector.Detect())
	require.NoError(t, detector.ComputeTransform())

	normalized := detector.NormalizeMatrix(2, 4)
	want := magnify(code.Matrix, 2, 4)
	assert.True(t, normalized.Equals(want))
}
