package binarizer

import (
	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/bitutil"
)

// The image is cut into blockDim x blockDim blocks. Each block is
// thresholded against the black point of its 5x5 block neighbourhood.
const (
	blockShift = 3
	blockDim   = 1 << blockShift

	// Below this edge length there are too few blocks for meaningful
	// local statistics.
	minLocalDimension = blockDim * 5

	// Blocks whose luminance range does not exceed this are treated as flat.
	minContrast = 24
)

// Hybrid binarizes with a locally adaptive threshold. It is more effective
// than GlobalHistogram for images with shadows and gradients.
type Hybrid struct {
	GlobalHistogram
	matrix *bitutil.BitMatrix
}

// NewHybrid creates a new Hybrid binarizer.
func NewHybrid(source zxing.LuminanceSource) *Hybrid {
	return &Hybrid{
		GlobalHistogram: *NewGlobalHistogram(source),
	}
}

// BlackMatrix returns the binarized matrix, computing it on first use.
// Images too small for block statistics fall back to the global
// histogram threshold.
func (h *Hybrid) BlackMatrix() (*bitutil.BitMatrix, error) {
	if h.matrix != nil {
		return h.matrix, nil
	}

	source := h.LuminanceSource()
	width := source.Width()
	height := source.Height()
	if width < minLocalDimension || height < minLocalDimension {
		m, err := h.GlobalHistogram.BlackMatrix()
		if err != nil {
			return nil, err
		}
		h.matrix = m
		return h.matrix, nil
	}

	luminances := source.Matrix()
	cols := (width + blockDim - 1) >> blockShift
	rows := (height + blockDim - 1) >> blockShift

	grid := blackPointGrid(luminances, cols, rows, width, height)
	matrix := bitutil.NewBitMatrixWithSize(width, height)
	thresholdBlocks(luminances, cols, rows, width, height, grid, matrix)

	h.matrix = matrix
	return h.matrix, nil
}

// blackPointGrid estimates a black point for every block. Blocks with
// enough contrast use their average luminance; flat blocks are assumed to
// be white space with a black level derived from their darkest pixel,
// pulled up to the neighbourhood estimate when darker blocks have already
// been seen above or to the left.
func blackPointGrid(luminances []byte, cols, rows, width, height int) [][]int {
	grid := make([][]int, rows)
	for y := range grid {
		grid[y] = make([]int, cols)
		y0 := clampOffset(y<<blockShift, height-blockDim)
		for x := 0; x < cols; x++ {
			x0 := clampOffset(x<<blockShift, width-blockDim)
			sum, lo, hi := blockStats(luminances, width, x0, y0)

			average := sum >> (2 * blockShift)
			if hi-lo <= minContrast {
				average = lo / 2
				if y > 0 && x > 0 {
					neighbour := (grid[y-1][x] + 2*grid[y][x-1] + grid[y-1][x-1]) / 4
					if lo < neighbour {
						average = neighbour
					}
				}
			}
			grid[y][x] = average
		}
	}
	return grid
}

// blockStats returns the luminance sum, minimum and maximum of one block.
func blockStats(luminances []byte, stride, x0, y0 int) (sum, lo, hi int) {
	lo = 0xFF
	for y := 0; y < blockDim; y++ {
		offset := (y0+y)*stride + x0
		for x := 0; x < blockDim; x++ {
			pixel := int(luminances[offset+x])
			sum += pixel
			if pixel < lo {
				lo = pixel
			}
			if pixel > hi {
				hi = pixel
			}
		}
	}
	return sum, lo, hi
}

// thresholdBlocks binarizes each block against the averaged black point of
// the 5x5 neighbourhood centred on it, clamped to the grid.
func thresholdBlocks(luminances []byte, cols, rows, width, height int,
	grid [][]int, matrix *bitutil.BitMatrix) {
	for y := 0; y < rows; y++ {
		y0 := clampOffset(y<<blockShift, height-blockDim)
		top := clampCentre(y, rows-3)
		for x := 0; x < cols; x++ {
			x0 := clampOffset(x<<blockShift, width-blockDim)
			left := clampCentre(x, cols-3)

			sum := 0
			for dy := -2; dy <= 2; dy++ {
				row := grid[top+dy]
				for dx := -2; dx <= 2; dx++ {
					sum += row[left+dx]
				}
			}
			threshold := sum / 25

			for dy := 0; dy < blockDim; dy++ {
				offset := (y0+dy)*width + x0
				for dx := 0; dx < blockDim; dx++ {
					if int(luminances[offset+dx]) <= threshold {
						matrix.Set(x0+dx, y0+dy)
					}
				}
			}
		}
	}
}

// clampOffset keeps a block's pixel origin inside the image so that edge
// blocks overlap their neighbours instead of running out of bounds.
func clampOffset(offset, max int) int {
	if offset > max {
		return max
	}
	return offset
}

// clampCentre keeps a 5x5 neighbourhood centre at least two blocks away
// from the grid border.
func clampCentre(value, max int) int {
	if value < 2 {
		return 2
	}
	if value > max {
		return max
	}
	return value
}
