package inventory

// coerce.go turns loosely typed cell values into the numeric Book fields.
//
// Spreadsheet cells arrive as strings, JSON bodies as float64 or json.Number,
// and Excel exports carry their usual artifacts: ="..." formula prefixes,
// currency symbols, thousands separators and accounting negatives. Coercion
// never fails; anything it cannot read becomes the caller's default.

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// numericRegex matches a cleaned number: integers, decimals and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE]([+-]?\d+))?$`)

// maxExponent bounds the decimal exponent of parsed text. Larger magnitudes
// overflow float64 anyway and would make decimal build enormous powers of ten.
const maxExponent = 400

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// CoerceInt converts raw to an integer, truncating toward zero. Float text
// such as "3.0" or "3.9" is accepted. Unreadable input returns def.
func CoerceInt(raw any, def int64) int64 {
	if i, ok := asInt64(raw); ok {
		return i
	}

	switch v := raw.(type) {
	case nil:
		return def
	case float32:
		return floatToInt(float64(v), def)
	case float64:
		return floatToInt(v, def)
	}

	d, ok := parseDecimal(raw)
	if !ok {
		return def
	}
	d = d.Truncate(0)
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return def
	}
	return d.IntPart()
}

// CoerceFloat converts raw to a float. Unreadable input, NaN and infinities
// return def.
func CoerceFloat(raw any, def float64) float64 {
	var f float64
	switch v := raw.(type) {
	case nil:
		return def
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case float32:
		f = float64(v)
	case float64:
		f = v
	default:
		d, ok := parseDecimal(raw)
		if !ok {
			return def
		}
		f, _ = d.Float64()
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	return f
}

func floatToInt(f float64, def int64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return def
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return def
	}
	return int64(t)
}

// parseDecimal handles the textual inputs: strings, byte slices and json.Number.
func parseDecimal(raw any) (decimal.Decimal, bool) {
	var s string
	switch v := raw.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case json.Number:
		s = v.String()
	default:
		return decimal.Decimal{}, false
	}

	s = CleanNumber(s)
	m := numericRegex.FindStringSubmatch(s)
	if m == nil {
		return decimal.Decimal{}, false
	}
	if m[4] != "" {
		exp, err := strconv.Atoi(m[4])
		if err != nil || exp > maxExponent || exp < -maxExponent {
			return decimal.Decimal{}, false
		}
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, false
	}
	if e := d.Exponent(); e > maxExponent || e < -maxExponent {
		return decimal.Decimal{}, false
	}
	return d, true
}

// CleanNumber strips cell artifacts from numeric text and normalises the
// decimal separator to a point. The result is not validated.
func CleanNumber(s string) string {
	s = CleanCell(s)
	if s == "" {
		return ""
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSpace(s[1 : len(s)-1])
	}

	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, "€", "")      // Euro
	s = strings.ReplaceAll(s, "£", "")      // Pound
	s = strings.ReplaceAll(s, "\u00a0", "") // NBSP thousands separator
	s = strings.TrimSpace(s)
	s = normaliseSeparators(s)

	if negative {
		s = "-" + s
	}
	return s
}

// normaliseSeparators decides what commas mean. When both separators appear
// the later one is the decimal mark ("1,234.5" and "1.234,5"). A lone comma
// is a decimal comma unless exactly three digits follow it ("1,234").
// Several commas are thousands separators.
func normaliseSeparators(s string) string {
	n := strings.Count(s, ",")
	switch {
	case n == 0:
		return s
	case strings.LastIndexByte(s, '.') > strings.LastIndexByte(s, ','), n > 1:
		return strings.ReplaceAll(s, ",", "")
	case strings.Contains(s, "."):
		s = strings.ReplaceAll(s, ".", "")
		return strings.Replace(s, ",", ".", 1)
	}

	i := strings.IndexByte(s, ',')
	tail := s[i+1:]
	if len(tail) == 3 && isDigits(tail) && i > 0 {
		return s[:i] + tail
	}
	return s[:i] + "." + tail
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// CleanCell removes common spreadsheet artifacts from a cell:
// surrounding whitespace, the Excel ="..." formula prefix and wrapping quotes.
func CleanCell(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") && len(s) >= 3 {
		s = s[2 : len(s)-1]
	}

	s = strings.Trim(s, "\"'")
	return strings.TrimSpace(s)
}

// CoerceText converts raw to a title string. Numbers are rendered in their
// shortest form; nil and non-scalar values become "".
func CoerceText(raw any) string {
	switch v := raw.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []byte:
		return strings.TrimSpace(string(v))
	case json.Number:
		return v.String()
	case float32:
		return FormatFloat(float64(v))
	case float64:
		return FormatFloat(v)
	case bool:
		return strconv.FormatBool(v)
	}

	if i, ok := asInt64(raw); ok {
		return strconv.FormatInt(i, 10)
	}
	return ""
}

// FormatFloat renders f in its shortest form, keeping a trailing ".0" for
// integral values ("3.0", "12.5").
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

func asInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint:
		return int64(v), uint64(v) <= math.MaxInt64
	case uint64:
		return int64(v), v <= math.MaxInt64
	}
	return 0, false
}
