package zxing_test

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/binarizer"
	"github.com/hwellmann/zxing/bitutil"
)

func TestGrayImageLuminance(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.Pix = []byte{10, 20, 30, 40, 50, 60}

	source := zxing.NewImageLuminanceSource(img)
	assert.Equal(t, 3, source.Width())
	assert.Equal(t, 2, source.Height())
	assert.Equal(t, []byte{10, 20, 30}, source.Row(0, nil))
	assert.Equal(t, []byte{40, 50, 60}, source.Row(1, nil))
	assert.Equal(t, []byte{10, 20, 30, 40, 50, 60}, source.Matrix())
	assert.Nil(t, source.Row(2, nil))
}

// Rendering a bit matrix to an image and binarizing it again must
// reproduce the matrix exactly.
func TestBitMatrixImageRoundTrip(t *testing.T) {
	matrix := bitutil.NewBitMatrixWithSize(5, 4)
	matrix.Set(2, 0)
	matrix.Set(4, 1)
	matrix.Set(1, 2)
	matrix.Set(0, 3)

	img := zxing.BitMatrixToImage(matrix)
	source := zxing.NewImageLuminanceSource(img)
	recovered, err := binarizer.NewHybrid(source).BlackMatrix()
	require.NoError(t, err)
	assert.True(t, recovered.Equals(matrix))
}
