// Package bitutil provides compact bit containers for barcode processing.
package bitutil

import "strings"

// BitMatrix is a 2D matrix of bits stored in row-major order. x is the
// column, y is the row; the origin is the top-left corner.
type BitMatrix struct {
	width   int
	height  int
	rowSize int // words per row
	words   []uint64
}

// NewBitMatrix creates a square BitMatrix with the given dimension.
func NewBitMatrix(dimension int) *BitMatrix {
	return NewBitMatrixWithSize(dimension, dimension)
}

// NewBitMatrixWithSize creates a BitMatrix with the given width and height.
func NewBitMatrixWithSize(width, height int) *BitMatrix {
	if width < 1 || height < 1 {
		panic("bitutil: matrix dimensions must be positive")
	}
	rowSize := (width + 63) / 64
	return &BitMatrix{
		width:   width,
		height:  height,
		rowSize: rowSize,
		words:   make([]uint64, rowSize*height),
	}
}

// ParseStringMatrix creates a BitMatrix from a textual representation, with
// setStr marking set bits and unsetStr marking unset bits. Rows are
// separated by newlines and must all have the same length.
func ParseStringMatrix(repr, setStr, unsetStr string) *BitMatrix {
	var rows [][]bool
	var row []bool
	pos := 0
	for pos < len(repr) {
		switch {
		case repr[pos] == '\n' || repr[pos] == '\r':
			if len(row) > 0 {
				rows = append(rows, row)
				row = nil
			}
			pos++
		case strings.HasPrefix(repr[pos:], setStr):
			row = append(row, true)
			pos += len(setStr)
		case strings.HasPrefix(repr[pos:], unsetStr):
			row = append(row, false)
			pos += len(unsetStr)
		default:
			panic("bitutil: illegal character in matrix representation")
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		panic("bitutil: empty matrix representation")
	}
	width := len(rows[0])
	m := NewBitMatrixWithSize(width, len(rows))
	for y, r := range rows {
		if len(r) != width {
			panic("bitutil: row lengths do not match")
		}
		for x, bit := range r {
			if bit {
				m.Set(x, y)
			}
		}
	}
	return m
}

// Get returns true if the bit at (x, y) is set.
func (m *BitMatrix) Get(x, y int) bool {
	return m.words[y*m.rowSize+x>>6]&(1<<uint(x&63)) != 0
}

// Set sets the bit at (x, y).
func (m *BitMatrix) Set(x, y int) {
	m.words[y*m.rowSize+x>>6] |= 1 << uint(x&63)
}

// Unset clears the bit at (x, y).
func (m *BitMatrix) Unset(x, y int) {
	m.words[y*m.rowSize+x>>6] &^= 1 << uint(x&63)
}

// Flip flips the bit at (x, y).
func (m *BitMatrix) Flip(x, y int) {
	m.words[y*m.rowSize+x>>6] ^= 1 << uint(x&63)
}

// Clear clears all bits.
func (m *BitMatrix) Clear() {
	for i := range m.words {
		m.words[i] = 0
	}
}

// SetRegion sets every bit in the rectangle of the given size whose top-left
// corner is at (left, top).
func (m *BitMatrix) SetRegion(left, top, width, height int) {
	if left < 0 || top < 0 {
		panic("bitutil: region origin must be nonnegative")
	}
	if width < 1 || height < 1 {
		panic("bitutil: region dimensions must be positive")
	}
	if left+width > m.width || top+height > m.height {
		panic("bitutil: region must fit inside the matrix")
	}
	for y := top; y < top+height; y++ {
		for x := left; x < left+width; x++ {
			m.Set(x, y)
		}
	}
}

// Width returns the width.
func (m *BitMatrix) Width() int { return m.width }

// Height returns the height.
func (m *BitMatrix) Height() int { return m.height }

// Clone returns a deep copy of the matrix.
func (m *BitMatrix) Clone() *BitMatrix {
	words := make([]uint64, len(m.words))
	copy(words, m.words)
	return &BitMatrix{width: m.width, height: m.height, rowSize: m.rowSize, words: words}
}

// Equals reports whether two matrices have identical dimensions and bits.
func (m *BitMatrix) Equals(other *BitMatrix) bool {
	if m.width != other.width || m.height != other.height {
		return false
	}
	for i := range m.words {
		if m.words[i] != other.words[i] {
			return false
		}
	}
	return true
}

// String renders the matrix using "X " for set bits and "  " for unset bits.
func (m *BitMatrix) String() string {
	return m.StringWithChars("X ", "  ")
}

// StringWithChars renders the matrix using the given set/unset strings.
func (m *BitMatrix) StringWithChars(setStr, unsetStr string) string {
	var sb strings.Builder
	sb.Grow(m.height * (m.width*len(setStr) + 1))
	for y := 0; y < m.height; y++ {
		for x := 0; x < m.width; x++ {
			if m.Get(x, y) {
				sb.WriteString(setStr)
			} else {
				sb.WriteString(unsetStr)
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
