// Package encoder implements Aztec barcode encoding.
package encoder

import (
	"fmt"

	"github.com/hwellmann/zxing/bitutil"
)

// mode identifies one of the five Aztec character tables.
type mode int

const (
	upper mode = iota
	lower
	mixed
	digit
	punct
)

// codeBits is the width of a code in this table; digit codes are 4 bits,
// all others 5.
func (m mode) codeBits() int {
	if m == digit {
		return 4
	}
	return 5
}

// codeTables lists the byte encodable at each code point of a table. A NUL
// byte marks codes reserved for control functions or the two-byte punct
// sequences; code 0 is the punct shift (FLG(n) in punct itself), the
// trailing codes are latches and shifts.
var codeTables = [5]string{
	upper: "\x00 ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	lower: "\x00 abcdefghijklmnopqrstuvwxyz",
	mixed: "\x00 \x01\x02\x03\x04\x05\x06\x07\b\t\n\x0b\f\r\x1b\x1c\x1d\x1e\x1f@\\^_`|~\x7f",
	digit: "\x00 0123456789,.",
	punct: "\x00\r\x00\x00\x00\x00!\"#$%&'()*+,-./:;<=>?[]{}",
}

// codeOf[m][b] is the code of byte b in table m, or -1 if the table cannot
// encode it. Built by inverting codeTables.
var codeOf [5][256]int8

func init() {
	for m := range codeOf {
		for b := range codeOf[m] {
			codeOf[m][b] = -1
		}
	}
	for m, table := range codeTables {
		for code := 1; code < len(table); code++ {
			if b := table[code]; b != 0 {
				codeOf[m][b] = int8(code)
			}
		}
	}
}

// pairCodes maps the two-byte sequences that have dedicated punct codes.
var pairCodes = map[[2]byte]int{
	{'\r', '\n'}: 2,
	{'.', ' '}:   3,
	{',', ' '}:   4,
	{':', ' '}:   5,
}

// tableSwitch is one step of a latch sequence: the code to emit and the
// table whose bit width it is read in.
type tableSwitch struct {
	in   mode
	code int
}

// latchPath[from][to] is the sequence of latch codes switching the encoder
// from one table to another. Tables without a direct latch are reached
// through mixed or upper, as the symbology prescribes.
var latchPath = [5][5][]tableSwitch{
	upper: {
		lower: {{upper, 28}},
		mixed: {{upper, 29}},
		digit: {{upper, 30}},
		punct: {{upper, 29}, {mixed, 30}},
	},
	lower: {
		upper: {{lower, 29}, {mixed, 29}},
		mixed: {{lower, 29}},
		digit: {{lower, 30}},
		punct: {{lower, 29}, {mixed, 30}},
	},
	mixed: {
		upper: {{mixed, 29}},
		lower: {{mixed, 29}, {upper, 28}},
		digit: {{mixed, 29}, {upper, 30}},
		punct: {{mixed, 30}},
	},
	digit: {
		upper: {{digit, 14}},
		lower: {{digit, 14}, {upper, 28}},
		mixed: {{digit, 14}, {upper, 29}},
		punct: {{digit, 14}, {upper, 29}, {mixed, 30}},
	},
	punct: {
		upper: {{punct, 31}},
		lower: {{punct, 31}, {upper, 28}},
		mixed: {{punct, 31}, {upper, 29}},
		digit: {{punct, 31}, {upper, 30}},
	},
}

// modePreference[m] orders the other tables by how cheaply they are
// reached from m.
var modePreference = [5][4]mode{
	upper: {lower, mixed, digit, punct},
	lower: {digit, mixed, upper, punct},
	mixed: {upper, punct, lower, digit},
	digit: {upper, lower, mixed, punct},
	punct: {upper, lower, mixed, digit},
}

// bestMode picks the table to encode b from, preferring tables cheap to
// reach from the current one. Returns -1 when no character table can
// encode b and only a binary shift remains.
func bestMode(b byte, current mode) mode {
	if codeOf[current][b] >= 0 {
		return current
	}
	for _, m := range modePreference[current] {
		if codeOf[m][b] >= 0 {
			return m
		}
	}
	return -1
}

// maxBinaryRun is the longest run one binary shift can carry.
const maxBinaryRun = 2078

// highLevelEncoder accumulates the Aztec character stream, tracking the
// table the stream is currently latched to.
type highLevelEncoder struct {
	bits *bitutil.BitArray
	mode mode
}

// highLevelEncode encodes data bytes into a bit stream using the Aztec
// five-table character encoding, with a greedy table-selection strategy
// starting in upper.
func highLevelEncode(data []byte) (*bitutil.BitArray, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("aztec: empty input")
	}

	e := &highLevelEncoder{bits: bitutil.NewBitArray(0), mode: upper}
	for i := 0; i < len(data); {
		if i+1 < len(data) {
			if code, ok := pairCodes[[2]byte{data[i], data[i+1]}]; ok {
				e.latchTo(punct)
				e.emit(punct, code)
				i += 2
				continue
			}
		}

		b := data[i]
		if code := codeOf[e.mode][b]; code >= 0 {
			e.emit(e.mode, int(code))
			i++
			continue
		}

		target := bestMode(b, e.mode)
		if target < 0 {
			i = e.binaryRun(data, i)
			continue
		}

		if e.shiftWorthwhile(data, i, target) {
			e.shift(target, int(codeOf[target][b]))
		} else {
			e.latchTo(target)
			e.emit(target, int(codeOf[target][b]))
		}
		i++
	}
	return e.bits, nil
}

// emit appends one code in the bit width of the given table.
func (e *highLevelEncoder) emit(m mode, code int) {
	e.bits.AppendBits(uint32(code), m.codeBits())
}

// latchTo switches the stream to the given table. Latching to the current
// table emits nothing.
func (e *highLevelEncoder) latchTo(to mode) {
	for _, s := range latchPath[e.mode][to] {
		e.emit(s.in, s.code)
	}
	e.mode = to
}

// shiftWorthwhile reports whether a single-character shift beats a latch
// for the byte at pos. The symbology only defines a shift back to upper,
// from lower and digit; it pays off for an isolated excursion, when the
// following byte is encodable without leaving the current table.
func (e *highLevelEncoder) shiftWorthwhile(data []byte, pos int, target mode) bool {
	if target != upper || (e.mode != lower && e.mode != digit) {
		return false
	}
	return pos+1 >= len(data) || codeOf[e.mode][data[pos+1]] >= 0
}

// shift emits the upper shift followed by the shifted code; the current
// table is unchanged afterwards.
func (e *highLevelEncoder) shift(target mode, code int) {
	if e.mode == lower {
		e.emit(lower, 28)
	} else {
		e.emit(digit, 15)
	}
	e.emit(target, code)
}

// binaryRun encodes a maximal run of bytes outside every character table
// using the binary shift: the BS code, a 5-bit length (or a zero length
// followed by 11 bits of length-31), and the raw bytes. Binary shift is
// unavailable from the digit and punct tables, so those latch back to
// upper first. Returns the index of the first byte after the run.
func (e *highLevelEncoder) binaryRun(data []byte, start int) int {
	if e.mode == digit || e.mode == punct {
		e.latchTo(upper)
	}

	end := start
	for end < len(data) && bestMode(data[end], upper) < 0 {
		end++
	}
	if end-start > maxBinaryRun {
		end = start + maxBinaryRun
	}
	count := end - start

	e.emit(e.mode, 31)
	if count <= 31 {
		e.bits.AppendBits(uint32(count), 5)
	} else {
		e.bits.AppendBits(0, 5)
		e.bits.AppendBits(uint32(count-31), 11)
	}
	for _, b := range data[start:end] {
		e.bits.AppendBits(uint32(b), 8)
	}
	return end
}
