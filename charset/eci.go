// Package charset maps Extended Channel Interpretation values to text
// encodings.
package charset

import (
	"errors"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/traditionalchinese"
	"golang.org/x/text/encoding/unicode"
)

// ErrInvalidECI indicates an ECI value outside the assigned range.
var ErrInvalidECI = errors.New("charset: invalid ECI value")

// ECI is a Character Set Extended Channel Interpretation: a numeric
// designator selecting the text encoding of the bytes that follow.
type ECI struct {
	Value    int
	Name     string
	Encoding encoding.Encoding
}

// Decode converts bytes in this ECI's encoding to a UTF-8 string. A nil
// Encoding passes the bytes through unchanged.
func (e *ECI) Decode(data []byte) (string, error) {
	if e.Encoding == nil {
		return string(data), nil
	}
	decoded, err := e.Encoding.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// ECI 13 is ISO 8859-11 (Thai); Windows-874 is its superset and the
// closest encoding available.
var table = []*ECI{
	{0, "Cp437", charmap.CodePage437},
	{1, "ISO8859_1", charmap.ISO8859_1},
	{2, "Cp437", charmap.CodePage437},
	{3, "ISO8859_1", charmap.ISO8859_1},
	{4, "ISO8859_2", charmap.ISO8859_2},
	{5, "ISO8859_3", charmap.ISO8859_3},
	{6, "ISO8859_4", charmap.ISO8859_4},
	{7, "ISO8859_5", charmap.ISO8859_5},
	{8, "ISO8859_6", charmap.ISO8859_6},
	{9, "ISO8859_7", charmap.ISO8859_7},
	{10, "ISO8859_8", charmap.ISO8859_8},
	{11, "ISO8859_9", charmap.ISO8859_9},
	{12, "ISO8859_10", charmap.ISO8859_10},
	{13, "ISO8859_11", charmap.Windows874},
	{15, "ISO8859_13", charmap.ISO8859_13},
	{16, "ISO8859_14", charmap.ISO8859_14},
	{17, "ISO8859_15", charmap.ISO8859_15},
	{18, "ISO8859_16", charmap.ISO8859_16},
	{20, "SJIS", japanese.ShiftJIS},
	{21, "Cp1250", charmap.Windows1250},
	{22, "Cp1251", charmap.Windows1251},
	{23, "Cp1252", charmap.Windows1252},
	{24, "Cp1256", charmap.Windows1256},
	{25, "UnicodeBigUnmarked", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
	{26, "UTF8", unicode.UTF8},
	{27, "ASCII", nil},
	{28, "Big5", traditionalchinese.Big5},
	{29, "GB18030", simplifiedchinese.GB18030},
	{30, "EUC_KR", korean.EUCKR},
	{170, "ASCII", nil},
}

var valueToECI = make(map[int]*ECI)

func init() {
	for _, eci := range table {
		valueToECI[eci.Value] = eci
	}
}

// ByValue returns the ECI assigned to the given value, or nil if the value
// is in the assigned range but carries no character set. Values outside
// [0, 900) return ErrInvalidECI.
func ByValue(value int) (*ECI, error) {
	if value < 0 || value >= 900 {
		return nil, ErrInvalidECI
	}
	return valueToECI[value], nil
}
