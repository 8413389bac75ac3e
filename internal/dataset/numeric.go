package dataset

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	errNotNumeric = errors.New("not a number")
	errNotFinite  = errors.New("not a finite number")
)

// String formats the measure the way it would appear in a source file.
func (m Measure) String() string {
	if !m.Valid {
		return ""
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// parseMeasure converts a numeric cell. Empty cells (and the usual NA
// spellings) yield an invalid Measure without error.
func parseMeasure(s string, decimal rune) (Measure, error) {
	raw := strings.TrimSpace(s)
	switch strings.ToLower(raw) {
	case "", "na", "n/a", "nan", "null", "none", "-":
		return Measure{}, nil
	}
	x, ok := parseNumeric(raw, decimal)
	if !ok {
		return Measure{}, errNotNumeric
	}
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return Measure{}, errNotFinite
	}
	return Measure{Value: x, Valid: true}, nil
}

func parseNumeric(s string, decimal rune) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	dec := decimal
	var thou rune
	if dec == 0 {
		// auto detect: the last separator is the decimal one
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		switch {
		case cpos >= 0 && dpos >= 0 && cpos > dpos:
			dec, thou = ',', '.'
		case cpos >= 0 && dpos >= 0:
			dec, thou = '.', ','
		case cpos >= 0:
			dec = ','
		default:
			dec = '.'
		}
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var dateLayouts = []string{
	"02-01-2006", "2006-01-02", "02/01/2006", "2006/01/02", time.RFC3339,
	"2006-01-02 15:04:05", "02-01-2006 15:04",
}

func parseDate(s string) (time.Time, bool) {
	v := strings.TrimSpace(s)
	if v == "" {
		return time.Time{}, false
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l, v); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
