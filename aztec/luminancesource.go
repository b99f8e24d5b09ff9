package aztec

import (
	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/bitutil"
)

// BitMatrixLuminanceSource adapts a bit matrix to the LuminanceSource
// interface: set bits read as black (0), unset bits as white (255).
type BitMatrixLuminanceSource struct {
	matrix *bitutil.BitMatrix
}

// NewBitMatrixLuminanceSource creates a luminance source backed by the
// given bit matrix.
func NewBitMatrixLuminanceSource(matrix *bitutil.BitMatrix) *BitMatrixLuminanceSource {
	return &BitMatrixLuminanceSource{matrix: matrix}
}

// Row returns a row of luminance data.
func (s *BitMatrixLuminanceSource) Row(y int, row []byte) []byte {
	width := s.matrix.Width()
	if row == nil || len(row) < width {
		row = make([]byte, width)
	}
	for x := 0; x < width; x++ {
		if s.matrix.Get(x, y) {
			row[x] = 0
		} else {
			row[x] = 0xFF
		}
	}
	return row
}

// Matrix returns the entire luminance matrix in row-major order.
func (s *BitMatrixLuminanceSource) Matrix() []byte {
	width := s.matrix.Width()
	height := s.matrix.Height()
	result := make([]byte, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if s.matrix.Get(x, y) {
				result[y*width+x] = 0
			} else {
				result[y*width+x] = 0xFF
			}
		}
	}
	return result
}

// Width returns the width of the matrix.
func (s *BitMatrixLuminanceSource) Width() int { return s.matrix.Width() }

// Height returns the height of the matrix.
func (s *BitMatrixLuminanceSource) Height() int { return s.matrix.Height() }

// Compile-time check.
var _ zxing.LuminanceSource = (*BitMatrixLuminanceSource)(nil)
