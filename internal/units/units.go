// Package units converts human-written size expressions such as "2MB" or
// "512K" into byte counts, and formats byte counts back for display.
package units

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// sizeExpr matches an optional-fraction decimal number followed by an
// optional unit suffix. The suffix is validated against the multiplier
// table separately so that an unknown unit produces a useful error.
var sizeExpr = regexp.MustCompile(`^((?:[0-9]*[.])?[0-9]+)([A-Za-z]*)$`)

// multipliers maps a (normalized, upper-case) unit suffix to its byte
// multiplier. An empty suffix means plain bytes.
var multipliers = map[string]int64{
	"":   1,
	"B":  1,
	"K":  1024,
	"KB": 1024,
	"M":  1024 * 1024,
	"MB": 1024 * 1024,
}

// ParseSize converts a size expression into a byte count. The expression is
// a non-negative decimal number, optionally fractional, followed by an
// optional case-insensitive unit from {B, K, KB, M, MB}. The product of
// number and multiplier is truncated to an integer, so "1.5MB" is 1572864.
//
// A string without a number (including the empty string and a bare unit) or
// with an unrecognized unit is an error; ParseSize never guesses.
func ParseSize(expr string) (int64, error) {
	m := sizeExpr.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return 0, fmt.Errorf("unparsable size expression %q", expr)
	}

	mult, ok := multipliers[strings.ToUpper(m[2])]
	if !ok {
		return 0, fmt.Errorf("unknown unit %q in size expression %q", m[2], expr)
	}

	number, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number in size expression %q: %w", expr, err)
	}

	return int64(number * float64(mult)), nil
}

// FormatMB renders a byte count as megabytes with two decimals, e.g.
// "2.00MB". Used for the human-readable partition summary.
func FormatMB(n int64) string {
	return fmt.Sprintf("%.2fMB", float64(n)/1024.0/1024.0)
}
