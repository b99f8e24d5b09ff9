package aztec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/aztec/decoder"
	"github.com/hwellmann/zxing/aztec/encoder"
	"github.com/hwellmann/zxing/binarizer"
	"github.com/hwellmann/zxing/bitutil"
)

func TestEncoderDecoderRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"Hello", "Hello"},
		{"Digits", "1234567890"},
		{"Upper", "ABCDEF"},
		{"Mixed", "Hello, World!"},
		{"Lower", "abcdef"},
		{"Punctuation", "a. b, c: d"},
		{"Control", "tab\tnewline\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			code, err := encoder.Encode([]byte(tc.data), 25, 0)
			require.NoError(t, err)

			// Feed the encoder's output directly to the decoder, bypassing
			// the detector.
			dr, err := decoder.Decode(&decoder.DetectorResult{
				Bits:         code.Matrix,
				Compact:      code.Compact,
				NumDataWords: code.CodeWords,
				NumLayers:    code.Layers,
			})
			require.NoError(t, err)
			assert.Equal(t, tc.data, dr.Text)
		})
	}
}

// decodeBitmap runs the full reading pipeline on a rendered symbol:
// luminance source, hybrid binarizer, component finder, detector, payload
// decoder.
func decodeBitmap(t *testing.T, rendered *bitutil.BitMatrix) (*zxing.Result, error) {
	t.Helper()
	source := NewBitMatrixLuminanceSource(rendered)
	bitmap := zxing.NewBinaryBitmap(binarizer.NewHybrid(source))
	return NewReader().Decode(bitmap)
}

func TestReaderCompactRoundTrip(t *testing.T) {
	rendered, err := NewWriter().Encode("abc", 102, 102)
	require.NoError(t, err)

	result, err := decodeBitmap(t, rendered)
	require.NoError(t, err)
	assert.Equal(t, "abc", result.Text)
	assert.Equal(t, 0, result.ErrorsCorrected)
	require.Len(t, result.Points, 4)
	// Corners in NW, NE, SW, SE order.
	assert.Less(t, result.Points[0].X, result.Points[1].X)
	assert.Less(t, result.Points[0].Y, result.Points[2].Y)
}

func TestReaderFullRangeRoundTrip(t *testing.T) {
	text := strings.Repeat("AZTEC CONNECTED COMPONENTS ", 10)
	code, err := encoder.Encode([]byte(text), 33, 0)
	require.NoError(t, err)
	require.False(t, code.Compact)

	size := (code.Size + 2) * 6
	rendered := renderMatrix(code.Matrix, size, size)

	result, err := decodeBitmap(t, rendered)
	require.NoError(t, err)
	assert.Equal(t, text, result.Text)
}

func TestReaderTwoReferenceLineRoundTrip(t *testing.T) {
	text := "SEVENTEEN LAYERS AND TWO REFERENCE LINE DISTANCES"
	code, err := encoder.Encode([]byte(text), 33, 17)
	require.NoError(t, err)
	require.Equal(t, 17, code.Layers)

	size := (code.Size + 2) * 4
	rendered := renderMatrix(code.Matrix, size, size)

	result, err := decodeBitmap(t, rendered)
	require.NoError(t, err)
	assert.Equal(t, text, result.Text)
}

func TestReaderNotFound(t *testing.T) {
	blank := bitutil.NewBitMatrixWithSize(50, 50)
	_, err := decodeBitmap(t, blank)
	assert.ErrorIs(t, err, zxing.ErrNotFound)
}

func TestWriterRejectsEmptyContents(t *testing.T) {
	_, err := NewWriter().Encode("", 200, 200)
	assert.ErrorIs(t, err, zxing.ErrWriter)
}

func TestWriterQuietZone(t *testing.T) {
	rendered, err := NewWriter().Encode("abc", 102, 102)
	require.NoError(t, err)
	assert.Equal(t, 102, rendered.Width())
	assert.Equal(t, 102, rendered.Height())

	// The quiet zone stays white.
	for i := 0; i < 102; i++ {
		assert.False(t, rendered.Get(i, 0))
		assert.False(t, rendered.Get(0, i))
		assert.False(t, rendered.Get(i, 101))
		assert.False(t, rendered.Get(101, i))
	}
}

// The luminance adapter and the hybrid binarizer must reproduce a bit
// matrix exactly.
func TestBitMatrixLuminanceRoundTrip(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(5, 4)
	matrix.Set(2, 0)
	matrix.Set(4, 1)
	matrix.Set(1, 2)
	matrix.Set(0, 3)

	source := NewBitMatrixLuminanceSource(matrix)
	assert.Equal(t, 5, source.Width())
	assert.Equal(t, 4, source.Height())
	assert.Equal(t, []byte{0xFF, 0xFF, 0, 0xFF, 0xFF}, source.Row(0, nil))

	recovered, err := binarizer.NewHybrid(source).BlackMatrix()
	require.NoError(t, err)
	assert.True(t, recovered.Equals(matrix))
}
