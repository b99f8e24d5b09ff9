// Package decoder decodes the payload of a rectified Aztec symbol.
//
// It takes the normalized bit matrix produced by the detector along with
// the structural parameters from the mode message (compact flag, layer
// count, data word count) and produces the decoded text:
//  1. Extract raw bits from the concentric data layers.
//  2. Correct errors using Reed-Solomon over the appropriate Galois Field.
//  3. Unstuff the data bits from the corrected codewords.
//  4. Decode the resulting bit stream using the Aztec 5-mode encoding
//     tables.
package decoder

import (
	"strings"

	"github.com/hwellmann/zxing"
	"github.com/hwellmann/zxing/bitutil"
	"github.com/hwellmann/zxing/charset"
	"github.com/hwellmann/zxing/reedsolomon"
)

// DetectorResult carries the detector output the decoder needs: the
// normalized bit matrix and the structural parameters read from the mode
// message.
type DetectorResult struct {
	Bits         *bitutil.BitMatrix
	Compact      bool
	NumDataWords int
	NumLayers    int
}

// Result holds the decoded text, the UTF-8 bytes of that text and the
// number of codewords corrected.
type Result struct {
	Text            string
	RawBytes        []byte
	ErrorsCorrected int
}

// Encoding tables. Entries prefixed with CTRL_ are table-change commands:
// CTRL_XY where X is the table initial (U/L/M/D/P/B) and Y is S (shift)
// or L (latch).

const (
	tableUpper = iota
	tableLower
	tableMixed
	tableDigit
	tablePunct
	tableBinary
)

var upperTable = [32]string{
	"CTRL_PS", " ", "A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K", "L", "M", "N", "O", "P",
	"Q", "R", "S", "T", "U", "V", "W", "X", "Y", "Z", "CTRL_LL", "CTRL_ML", "CTRL_DL", "CTRL_BS",
}

var lowerTable = [32]string{
	"CTRL_PS", " ", "a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n", "o", "p",
	"q", "r", "s", "t", "u", "v", "w", "x", "y", "z", "CTRL_US", "CTRL_ML", "CTRL_DL", "CTRL_BS",
}

var mixedTable = [32]string{
	"CTRL_PS", " ", "\x01", "\x02", "\x03", "\x04", "\x05", "\x06", "\x07", "\b", "\t", "\n",
	"\x0b", "\f", "\r", "\x1b", "\x1c", "\x1d", "\x1e", "\x1f", "@", "\\", "^", "_",
	"`", "|", "~", "\x7f", "CTRL_LL", "CTRL_UL", "CTRL_PL", "CTRL_BS",
}

var punctTable = [32]string{
	"FLG(n)", "\r", "\r\n", ". ", ", ", ": ", "!", "\"", "#", "$", "%", "&", "'", "(", ")",
	"*", "+", ",", "-", ".", "/", ":", ";", "<", "=", ">", "?", "[", "]", "{", "}", "CTRL_UL",
}

var digitTable = [16]string{
	"CTRL_PS", " ", "0", "1", "2", "3", "4", "5", "6", "7", "8", "9", ",", ".", "CTRL_UL", "CTRL_US",
}

// Decode decodes an Aztec symbol described by the given detector result.
func Decode(detectorResult *DetectorResult) (*Result, error) {
	rawbits := extractBits(detectorResult)

	correctedBits, errorsCorrected, err := correctBits(detectorResult, rawbits)
	if err != nil {
		return nil, err
	}

	text, rawBytes, err := getEncodedData(correctedBits)
	if err != nil {
		return nil, err
	}

	return &Result{
		Text:            text,
		RawBytes:        rawBytes,
		ErrorsCorrected: errorsCorrected,
	}, nil
}

// codewordSize returns the number of bits per codeword for the symbol.
func codewordSize(numLayers int) int {
	switch {
	case numLayers <= 2:
		return 6
	case numLayers <= 8:
		return 8
	case numLayers <= 22:
		return 10
	default:
		return 12
	}
}

func totalBitsInLayer(layers int, compact bool) int {
	base := 112
	if compact {
		base = 88
	}
	return (base + 16*layers) * layers
}

// correctBits applies Reed-Solomon error correction to the raw bit stream
// and unstuffs the data codewords. Returns the corrected bits and the
// number of codewords repaired.
func correctBits(result *DetectorResult, rawbits []bool) ([]bool, int, error) {
	cwSize := codewordSize(result.NumLayers)
	numCodewords := len(rawbits) / cwSize

	if result.NumDataWords > numCodewords {
		return nil, 0, zxing.ErrFormat
	}

	offset := len(rawbits) % cwSize
	numDataCodewords := result.NumDataWords
	numECCodewords := numCodewords - numDataCodewords

	// Convert raw bits into codeword integers, MSB first.
	dataWords := make([]int, numCodewords)
	for i := 0; i < numCodewords; i++ {
		w := 0
		for j := 0; j < cwSize; j++ {
			w <<= 1
			if rawbits[offset+i*cwSize+j] {
				w |= 1
			}
		}
		dataWords[i] = w
	}

	var gf *reedsolomon.Field
	switch cwSize {
	case 6:
		gf = reedsolomon.Data6
	case 8:
		gf = reedsolomon.Data8
	case 10:
		gf = reedsolomon.Data10
	default:
		gf = reedsolomon.Data12
	}

	errorsCorrected, err := reedsolomon.NewDecoder(gf).Decode(dataWords, numECCodewords)
	if err != nil {
		return nil, 0, zxing.ErrChecksum
	}

	// Unstuff the corrected data codewords. A codeword of all zeros or all
	// ones is illegal. A codeword of value 1 contributes cwSize-1 zero
	// bits, a codeword of value mask-1 contributes cwSize-1 one bits; all
	// other codewords contribute their cwSize bits unchanged.
	mask := (1 << uint(cwSize)) - 1
	stuffedCount := 0
	for i := 0; i < numDataCodewords; i++ {
		w := dataWords[i]
		if w == 0 || w == mask {
			return nil, 0, zxing.ErrFormat
		}
		if w == 1 || w == mask-1 {
			stuffedCount++
		}
	}

	correctedBits := make([]bool, numDataCodewords*cwSize-stuffedCount)
	idx := 0
	for i := 0; i < numDataCodewords; i++ {
		w := dataWords[i]
		if w == 1 || w == mask-1 {
			fill := w > 1
			for j := 0; j < cwSize-1; j++ {
				correctedBits[idx] = fill
				idx++
			}
		} else {
			for bit := cwSize - 1; bit >= 0; bit-- {
				correctedBits[idx] = (w & (1 << uint(bit))) != 0
				idx++
			}
		}
	}

	return correctedBits, errorsCorrected, nil
}

// getTable returns the table constant for the given table initial.
func getTable(t byte) int {
	switch t {
	case 'L':
		return tableLower
	case 'P':
		return tablePunct
	case 'M':
		return tableMixed
	case 'D':
		return tableDigit
	case 'B':
		return tableBinary
	default: // 'U'
		return tableUpper
	}
}

// getCharacter returns the string entry for the given table and code.
func getCharacter(table, code int) string {
	switch table {
	case tableUpper:
		return upperTable[code]
	case tableLower:
		return lowerTable[code]
	case tableMixed:
		return mixedTable[code]
	case tablePunct:
		return punctTable[code]
	case tableDigit:
		return digitTable[code]
	default:
		return ""
	}
}

// getEncodedData decodes the corrected data-bit stream into text using the
// Aztec five-mode encoding scheme. Decoded bytes are buffered and flushed
// through the active character encoding whenever an ECI changes it; the
// default encoding is ISO-8859-1.
func getEncodedData(correctedBits []bool) (string, []byte, error) {
	endIndex := len(correctedBits)
	latchTable := tableUpper // table most recently latched to
	shiftTable := tableUpper // table to use for the next read

	var result strings.Builder
	var decodedBytes []byte
	var eci *charset.ECI

	flush := func() error {
		text, err := decodeBytes(decodedBytes, eci)
		if err != nil {
			return zxing.ErrFormat
		}
		result.WriteString(text)
		decodedBytes = decodedBytes[:0]
		return nil
	}

	index := 0
	for index < endIndex {
		if shiftTable == tableBinary {
			if endIndex-index < 5 {
				break
			}
			length := readCode(correctedBits, index, 5)
			index += 5
			if length == 0 {
				if endIndex-index < 11 {
					break
				}
				length = readCode(correctedBits, index, 11) + 31
				index += 11
			}
			for charCount := 0; charCount < length; charCount++ {
				if endIndex-index < 8 {
					index = endIndex // force the outer loop to exit
					break
				}
				code := readCode(correctedBits, index, 8)
				decodedBytes = append(decodedBytes, byte(code))
				index += 8
			}
			// Go back to whatever mode we had been in.
			shiftTable = latchTable
			continue
		}

		size := 5
		if shiftTable == tableDigit {
			size = 4
		}
		if endIndex-index < size {
			break
		}
		code := readCode(correctedBits, index, size)
		index += size
		str := getCharacter(shiftTable, code)
		switch {
		case str == "FLG(n)":
			if endIndex-index < 3 {
				index = endIndex
				break
			}
			n := readCode(correctedBits, index, 3)
			index += 3
			// The FLG changes the character encoding, so flush first.
			if err := flush(); err != nil {
				return "", nil, err
			}
			switch n {
			case 0:
				result.WriteByte(29) // FNC1 as ASCII 29
			case 7:
				return "", nil, zxing.ErrFormat // FLG(7) is reserved and illegal
			default:
				// ECI is a decimal integer encoded as 1-6 codes in DIGIT mode.
				if endIndex-index < 4*n {
					index = endIndex
					break
				}
				value := 0
				for ; n > 0; n-- {
					nextDigit := readCode(correctedBits, index, 4)
					index += 4
					if nextDigit < 2 || nextDigit > 11 {
						return "", nil, zxing.ErrFormat // not a decimal digit
					}
					value = value*10 + (nextDigit - 2)
				}
				next, err := charset.ByValue(value)
				if err != nil || next == nil {
					return "", nil, zxing.ErrFormat
				}
				eci = next
			}
			// Go back to whatever mode we had been in.
			shiftTable = latchTable
		case strings.HasPrefix(str, "CTRL_"):
			// Table changes. ISO/IEC 24778:2008 prescribes ending a shift
			// sequence in the mode from which it was invoked, including
			// when that mode is a shift.
			latchTable = shiftTable
			shiftTable = getTable(str[5])
			if str[6] == 'L' {
				latchTable = shiftTable
			}
		default:
			// Though stored as a table of strings for convenience, codes
			// actually represent one or two bytes.
			decodedBytes = append(decodedBytes, str...)
			shiftTable = latchTable
		}
	}
	if err := flush(); err != nil {
		return "", nil, err
	}

	text := result.String()
	return text, []byte(text), nil
}

// decodeBytes converts a byte buffer to a string using the given ECI's
// encoding. Without an ECI the default is ISO-8859-1, where each byte
// value is its Unicode code point.
func decodeBytes(data []byte, eci *charset.ECI) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	if eci == nil {
		runes := make([]rune, len(data))
		for i, b := range data {
			runes[i] = rune(b)
		}
		return string(runes), nil
	}
	return eci.Decode(data)
}

// readCode reads a code of the given bit length at the given index in the
// bit stream, MSB first.
func readCode(bits []bool, startIndex, length int) int {
	res := 0
	for i := startIndex; i < startIndex+length; i++ {
		res <<= 1
		if bits[i] {
			res |= 1
		}
	}
	return res
}

// extractBits reads all data modules from the symbol matrix. Layers are
// read from outermost to innermost; each layer has four sides of rowSize
// 2-module positions, mapped through the alignment map to skip reference
// grid lines.
func extractBits(result *DetectorResult) []bool {
	compact := result.Compact
	layers := result.NumLayers
	matrix := result.Bits

	baseMatrixSize := layers*4 + 11
	if !compact {
		baseMatrixSize = layers*4 + 14
	}

	// Same alignment map construction as the encoder.
	alignmentMap := make([]int, baseMatrixSize)
	if compact {
		for i := 0; i < baseMatrixSize; i++ {
			alignmentMap[i] = i
		}
	} else {
		matrixSize := baseMatrixSize + 1 + 2*((baseMatrixSize/2-1)/15)
		origCenter := baseMatrixSize / 2
		center := matrixSize / 2
		for i := 0; i < origCenter; i++ {
			newOffset := i + i/15
			alignmentMap[origCenter-i-1] = center - newOffset - 1
			alignmentMap[origCenter+i] = center + newOffset + 1
		}
	}

	rawbits := make([]bool, totalBitsInLayer(layers, compact))

	rowOffset := 0
	for i := 0; i < layers; i++ {
		rowSize := (layers-i)*4 + 9
		if !compact {
			rowSize = (layers-i)*4 + 12
		}
		low := i * 2
		high := baseMatrixSize - 1 - low

		for j := 0; j < rowSize; j++ {
			columnOffset := j * 2
			for k := 0; k < 2; k++ {
				// left column
				rawbits[rowOffset+columnOffset+k] =
					readModule(matrix, alignmentMap, low+k, low+j)
				// bottom row
				rawbits[rowOffset+2*rowSize+columnOffset+k] =
					readModule(matrix, alignmentMap, low+j, high-k)
				// right column
				rawbits[rowOffset+4*rowSize+columnOffset+k] =
					readModule(matrix, alignmentMap, high-k, high-j)
				// top row
				rawbits[rowOffset+6*rowSize+columnOffset+k] =
					readModule(matrix, alignmentMap, high-j, low+k)
			}
		}
		rowOffset += rowSize * 8
	}

	return rawbits
}

// readModule reads a single module from the matrix, mapping the abstract
// coordinates through the alignment map.
func readModule(matrix *bitutil.BitMatrix, alignmentMap []int, x, y int) bool {
	if x < 0 || x >= len(alignmentMap) || y < 0 || y >= len(alignmentMap) {
		return false
	}
	mx := alignmentMap[x]
	my := alignmentMap[y]
	if mx < 0 || mx >= matrix.Width() || my < 0 || my >= matrix.Height() {
		return false
	}
	return matrix.Get(mx, my)
}
