package core

// convert.go turns raw workbook cells into years and quantities.
//
// Cells arrive as the raw stored value (no number format applied), but sheets
// typed by hand still carry text such as "1 250,5" or "2019 ". Quantities
// accept a French decimal comma and space or non-breaking space thousands
// separators; years must be integral.

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a valid numeric format after cleanup.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// CleanCell removes common spreadsheet artifacts from a cell value:
// surrounding whitespace, a UTF-8 BOM, an Excel formula prefix (="...")
// and surrounding quotes.
func CleanCell(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "=\"") && strings.HasSuffix(s, "\"") {
		s = s[2 : len(s)-1]
	} else if strings.HasPrefix(s, "=") {
		s = s[1:]
	}

	return strings.Trim(s, `"'`)
}

// CleanLabel trims a text cell such as an Article value. Unlike CleanCell it
// keeps "=" prefixes and quotes, which are part of the label.
func CleanLabel(s string) string {
	return strings.TrimSpace(strings.TrimPrefix(s, "\ufeff"))
}

// ParseQuantity parses a sales quantity.
func ParseQuantity(s string) (float64, error) {
	raw := s
	s = CleanCell(s)
	if s == "" {
		return 0, fmt.Errorf("invalid number %q: empty cell", raw)
	}

	s = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "").Replace(s)
	// A lone comma is a decimal separator; with a dot present it groups thousands.
	if strings.Contains(s, ",") {
		if strings.Contains(s, ".") {
			s = strings.ReplaceAll(s, ",", "")
		} else if strings.Count(s, ",") == 1 {
			s = strings.Replace(s, ",", ".", 1)
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	}

	if !numericRegex.MatchString(s) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return 0, fmt.Errorf("invalid number %q", raw)
	}
	return v, nil
}

// ParseYear parses a year. Integral floats ("2019.0") are accepted because
// numeric cells written by some tools store years that way. Years must fit in
// an int32 so that forecast years last+1..last+H never overflow.
func ParseYear(s string) (int, error) {
	raw := s
	s = CleanCell(s)
	if s == "" {
		return 0, fmt.Errorf("invalid year %q: empty cell", raw)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("invalid year %q: out of range", raw)
		}
		return int(n), nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("invalid year %q", raw)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("invalid year %q: out of range", raw)
	}
	return int(f), nil
}

// FormatQuantity renders a quantity as the raw cell text a workbook stores.
func FormatQuantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatYear renders a year as cell text.
func FormatYear(year int) string {
	return strconv.Itoa(year)
}
