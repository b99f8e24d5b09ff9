// Package aztec provides Aztec barcode reading and writing.
package aztec

import (
	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/aztec/decoder"
	"github.com/hwellmann/zxing/aztec/detector"
)

// Reader decodes Aztec barcodes from binary images using connected
// component analysis.
type Reader struct{}

// NewReader creates a new Aztec Reader.
func NewReader() *Reader {
	return &Reader{}
}

// Decode locates and decodes an Aztec barcode in the given image. It
// returns zxing.ErrNotFound if no code is detected, zxing.ErrChecksum if
// the payload has more errors than the code can correct, and
// zxing.ErrFormat if the corrected payload is malformed.
func (r *Reader) Decode(image *zxing.BinaryBitmap) (*zxing.Result, error) {
	matrix, err := image.BlackMatrix()
	if err != nil {
		return nil, err
	}

	finder := detector.NewComponentFinder(matrix)
	finder.FindComponents()

	det := detector.New(finder)
	if err := det.Detect(); err != nil {
		return nil, err
	}
	if err := det.ComputeTransform(); err != nil {
		return nil, err
	}
	detected := det.Result()

	decoded, err := decoder.Decode(&decoder.DetectorResult{
		Bits:         detected.Bits,
		Compact:      detected.Compact,
		NumDataWords: detected.NumDataWords,
		NumLayers:    detected.NumLayers,
	})
	if err != nil {
		return nil, err
	}

	result := zxing.NewResult(decoded.Text, decoded.RawBytes, detected.Points)
	result.ErrorsCorrected = decoded.ErrorsCorrected
	return result, nil
}
