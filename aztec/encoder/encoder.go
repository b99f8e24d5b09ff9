package encoder

import (
	"fmt"

	"github.com/hwellmann/zxing/bitutil"
	"github.com/hwellmann/zxing/reedsolomon"
)

// Code is the result of encoding data into an Aztec symbol.
type Code struct {
	Matrix    *bitutil.BitMatrix
	Compact   bool
	Size      int
	Layers    int
	CodeWords int
}

// codewordBits[layers] is the codeword width for that layer count. Index 0
// is the 4-bit mode message.
var codewordBits = [33]int{
	4, 6, 6, 8, 8, 8, 8, 8, 8, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10, 10,
	12, 12, 12, 12, 12, 12, 12, 12, 12, 12,
}

// fieldFor returns the Galois Field matching a codeword bit width.
func fieldFor(bits int) *reedsolomon.Field {
	switch bits {
	case 4:
		return reedsolomon.Param
	case 6:
		return reedsolomon.Data6
	case 8:
		return reedsolomon.Data8
	case 10:
		return reedsolomon.Data10
	case 12:
		return reedsolomon.Data12
	default:
		panic(fmt.Sprintf("aztec: unsupported codeword width %d", bits))
	}
}

// capacity returns the number of bits all data layers of a symbol hold.
func capacity(layers int, compact bool) int {
	base := 112
	if compact {
		base = 88
	}
	return (base + 16*layers) * layers
}

// symbolSpec describes the symbol chosen for a message: its variant, layer
// count, codeword width and raw bit capacity.
type symbolSpec struct {
	compact  bool
	layers   int
	wordBits int
	capacity int
}

// baseSize is the symbol width in modules, not counting reference grid
// lines.
func (s symbolSpec) baseSize() int {
	if s.compact {
		return s.layers*4 + 11
	}
	return s.layers*4 + 14
}

// Encode encodes the given data into an Aztec symbol with at least
// minECCPercent percent error correction words. A zero userSpecifiedLayers
// picks the smallest symbol that fits; a positive value forces that many
// full-range layers, a negative value that many compact layers.
func Encode(data []byte, minECCPercent int, userSpecifiedLayers int) (*Code, error) {
	bits, err := highLevelEncode(data)
	if err != nil {
		return nil, err
	}
	eccBits := bits.Size()*minECCPercent/100 + 11

	spec, stuffed, err := chooseSymbol(bits, eccBits, userSpecifiedLayers)
	if err != nil {
		return nil, err
	}

	messageBits := appendCheckWords(stuffed, spec.capacity, spec.wordBits)
	dataWords := stuffed.Size() / spec.wordBits

	baseSize := spec.baseSize()
	alignmentMap, matrixSize := buildAlignmentMap(baseSize, spec.compact)

	matrix := bitutil.NewBitMatrix(matrixSize)
	drawData(matrix, messageBits, spec.layers, spec.compact, baseSize, alignmentMap)
	drawModeMessage(matrix, spec.compact, matrixSize, modeMessage(spec.compact, spec.layers, dataWords))
	if spec.compact {
		drawFinderPattern(matrix, matrixSize/2, 5)
	} else {
		drawFinderPattern(matrix, matrixSize/2, 7)
		drawReferenceGrid(matrix, matrixSize, baseSize)
	}

	return &Code{
		Matrix:    matrix,
		Compact:   spec.compact,
		Size:      matrixSize,
		Layers:    spec.layers,
		CodeWords: dataWords,
	}, nil
}

// chooseSymbol selects the symbol variant and layer count for the message
// and returns it together with the stuffed bit stream at the matching
// codeword width.
func chooseSymbol(bits *bitutil.BitArray, eccBits, userLayers int) (symbolSpec, *bitutil.BitArray, error) {
	if userLayers != 0 {
		spec := symbolSpec{compact: userLayers < 0, layers: userLayers}
		if spec.compact {
			spec.layers = -spec.layers
		}
		maxLayers := 32
		if spec.compact {
			maxLayers = 4
		}
		if spec.layers < 1 || spec.layers > maxLayers {
			return symbolSpec{}, nil, fmt.Errorf("aztec: illegal layer value %d", userLayers)
		}
		spec.capacity = capacity(spec.layers, spec.compact)
		spec.wordBits = codewordBits[spec.layers]
		stuffed := stuff(bits, spec.wordBits)
		usable := spec.capacity - spec.capacity%spec.wordBits
		if stuffed.Size()+eccBits > usable ||
			(spec.compact && stuffed.Size() > spec.wordBits*64) {
			return symbolSpec{}, nil, fmt.Errorf("aztec: data too large for user specified layer")
		}
		return spec, stuffed, nil
	}

	// Try Compact1-4, then Normal4-32; Normal1-3 are skipped because
	// Compact(i+1) has the same size but holds more data.
	totalSizeBits := bits.Size() + eccBits
	var stuffed *bitutil.BitArray
	wordBits := 0
	for i := 0; i <= 32; i++ {
		spec := symbolSpec{compact: i <= 3, layers: i}
		if spec.compact {
			spec.layers = i + 1
		}
		spec.capacity = capacity(spec.layers, spec.compact)
		if totalSizeBits > spec.capacity {
			continue
		}
		// Stuffing depends only on the codeword width, so reuse the
		// previous result when the width is unchanged.
		if stuffed == nil || wordBits != codewordBits[spec.layers] {
			wordBits = codewordBits[spec.layers]
			stuffed = stuff(bits, wordBits)
		}
		spec.wordBits = wordBits
		usable := spec.capacity - spec.capacity%wordBits
		if spec.compact && stuffed.Size() > wordBits*64 {
			continue
		}
		if stuffed.Size()+eccBits <= usable {
			return spec, stuffed, nil
		}
	}
	return symbolSpec{}, nil, fmt.Errorf("aztec: data too large for any Aztec symbol")
}

// stuff breaks the bit stream into codewords, inserting a complementary
// stuff bit wherever the upper wordBits-1 bits of a codeword would come
// out all zero or all one. Input shorter than a codeword boundary is
// padded with ones.
func stuff(bits *bitutil.BitArray, wordBits int) *bitutil.BitArray {
	out := bitutil.NewBitArray(0)
	n := bits.Size()
	mask := (1 << uint(wordBits)) - 2

	for i := 0; i < n; {
		word := 0
		for j := 0; j < wordBits; j++ {
			if i+j >= n || bits.Get(i+j) {
				word |= 1 << uint(wordBits-1-j)
			}
		}
		switch word & mask {
		case mask:
			// Upper bits all one: force the lowest bit to zero and
			// reconsume it as the next codeword's first bit.
			out.AppendBits(uint32(word&mask), wordBits)
			i += wordBits - 1
		case 0:
			// Upper bits all zero: force the lowest bit to one.
			out.AppendBits(uint32(word|1), wordBits)
			i += wordBits - 1
		default:
			out.AppendBits(uint32(word), wordBits)
			i += wordBits
		}
	}
	return out
}

// appendCheckWords pads the stuffed bits to totalBits with Reed-Solomon
// check words and returns the complete message bit stream, including the
// leading zero padding that fills totalBits up to a codeword boundary.
func appendCheckWords(stuffed *bitutil.BitArray, totalBits, wordBits int) *bitutil.BitArray {
	dataWords := stuffed.Size() / wordBits
	totalWords := totalBits / wordBits

	words := make([]int, totalWords)
	for i := 0; i < dataWords; i++ {
		w := 0
		for j := 0; j < wordBits; j++ {
			if stuffed.Get(i*wordBits + j) {
				w |= 1 << uint(wordBits-1-j)
			}
		}
		words[i] = w
	}
	reedsolomon.NewEncoder(fieldFor(wordBits)).Encode(words, totalWords-dataWords)

	out := bitutil.NewBitArray(0)
	out.AppendBits(0, totalBits%wordBits)
	for _, w := range words {
		out.AppendBits(uint32(w), wordBits)
	}
	return out
}

// modeMessage builds the Reed-Solomon protected mode message carrying the
// layer and data word counts.
func modeMessage(compact bool, layers, dataWords int) *bitutil.BitArray {
	msg := bitutil.NewBitArray(0)
	if compact {
		msg.AppendBits(uint32(layers-1), 2)
		msg.AppendBits(uint32(dataWords-1), 6)
		return appendCheckWords(msg, 28, 4)
	}
	msg.AppendBits(uint32(layers-1), 5)
	msg.AppendBits(uint32(dataWords-1), 11)
	return appendCheckWords(msg, 40, 4)
}

// buildAlignmentMap maps abstract module coordinates, which ignore the
// reference grid, to matrix coordinates. It returns the map and the full
// matrix size including the grid lines.
func buildAlignmentMap(baseSize int, compact bool) ([]int, int) {
	alignmentMap := make([]int, baseSize)
	if compact {
		for i := range alignmentMap {
			alignmentMap[i] = i
		}
		return alignmentMap, baseSize
	}

	matrixSize := baseSize + 1 + 2*((baseSize/2-1)/15)
	origCenter := baseSize / 2
	center := matrixSize / 2
	for i := 0; i < origCenter; i++ {
		offset := i + i/15
		alignmentMap[origCenter-i-1] = center - offset - 1
		alignmentMap[origCenter+i] = center + offset + 1
	}
	return alignmentMap, matrixSize
}

// drawData places the message bits into the data layers, outermost layer
// first. Each layer contributes four sides of rowSize 2-module positions.
func drawData(matrix *bitutil.BitMatrix, messageBits *bitutil.BitArray,
	layers int, compact bool, baseSize int, alignmentMap []int) {
	rowOffset := 0
	for i := 0; i < layers; i++ {
		rowSize := (layers-i)*4 + 9
		if !compact {
			rowSize = (layers-i)*4 + 12
		}
		low := i * 2
		high := baseSize - 1 - low

		for j := 0; j < rowSize; j++ {
			columnOffset := j * 2
			for k := 0; k < 2; k++ {
				if messageBits.Get(rowOffset + columnOffset + k) {
					matrix.Set(alignmentMap[low+k], alignmentMap[low+j])
				}
				if messageBits.Get(rowOffset + rowSize*2 + columnOffset + k) {
					matrix.Set(alignmentMap[low+j], alignmentMap[high-k])
				}
				if messageBits.Get(rowOffset + rowSize*4 + columnOffset + k) {
					matrix.Set(alignmentMap[high-k], alignmentMap[high-j])
				}
				if messageBits.Get(rowOffset + rowSize*6 + columnOffset + k) {
					matrix.Set(alignmentMap[high-j], alignmentMap[low+k])
				}
			}
		}
		rowOffset += rowSize * 8
	}
}

// drawModeMessage places the mode message bits around the bull's eye,
// clockwise from the top left, skipping the grid position in the middle of
// each full-range side.
func drawModeMessage(matrix *bitutil.BitMatrix, compact bool, matrixSize int, msg *bitutil.BitArray) {
	center := matrixSize / 2
	if compact {
		for i := 0; i < 7; i++ {
			offset := center - 3 + i
			if msg.Get(i) {
				matrix.Set(offset, center-5)
			}
			if msg.Get(i + 7) {
				matrix.Set(center+5, offset)
			}
			if msg.Get(20 - i) {
				matrix.Set(offset, center+5)
			}
			if msg.Get(27 - i) {
				matrix.Set(center-5, offset)
			}
		}
		return
	}
	for i := 0; i < 10; i++ {
		offset := center - 5 + i + i/5
		if msg.Get(i) {
			matrix.Set(offset, center-7)
		}
		if msg.Get(i + 10) {
			matrix.Set(center+7, offset)
		}
		if msg.Get(29 - i) {
			matrix.Set(offset, center+7)
		}
		if msg.Get(39 - i) {
			matrix.Set(center-7, offset)
		}
	}
}

// drawFinderPattern draws the concentric rings of the bull's eye and the
// orientation marks in its corners: three modules at the north-west
// corner, two at the north-east, one at the south-east.
func drawFinderPattern(matrix *bitutil.BitMatrix, center, size int) {
	for ring := 0; ring < size; ring += 2 {
		for j := center - ring; j <= center+ring; j++ {
			matrix.Set(j, center-ring)
			matrix.Set(j, center+ring)
			matrix.Set(center-ring, j)
			matrix.Set(center+ring, j)
		}
	}
	matrix.Set(center-size, center-size)
	matrix.Set(center-size+1, center-size)
	matrix.Set(center-size, center-size+1)
	matrix.Set(center+size, center-size)
	matrix.Set(center+size, center-size+1)
	matrix.Set(center+size, center+size-1)
}

// drawReferenceGrid draws the dotted alignment lines crossing the symbol
// every 16 modules from the centre.
func drawReferenceGrid(matrix *bitutil.BitMatrix, matrixSize, baseSize int) {
	center := matrixSize / 2
	for i, j := 0, 0; i < baseSize/2-1; i, j = i+15, j+16 {
		for k := center & 1; k < matrixSize; k += 2 {
			matrix.Set(center-j, k)
			matrix.Set(center+j, k)
			matrix.Set(k, center-j)
			matrix.Set(k, center+j)
		}
	}
}
