package importer

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// PriceColumn identifies which upload column a raw price value came from.
// Secondary-currency values are converted into the target currency using the
// session's exchange rate.
type PriceColumn int

const (
	ColumnPrimary PriceColumn = iota
	ColumnSecondary
)

var (
	glyphReplacer = strings.NewReplacer(
		"₡", "", "$", "", "€", "", "£", "", "¢", "", "¥", "",
		"CRC", "", "USD", "", "crc", "", "usd", "",
	)
	numberRunPattern = regexp.MustCompile(`\d[\d.,]*`)
)

// ParsePrice turns a locale-ambiguous numeric string, possibly prefixed with a
// currency glyph, into a decimal amount in the target currency. A non-nil
// error carries the human-readable reason the value was rejected.
func ParsePrice(raw string, column PriceColumn, exchangeRate float64) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(glyphReplacer.Replace(raw))
	cleaned = strings.Join(strings.Fields(cleaned), "")

	run := longestNumberRun(cleaned)
	if run == "" {
		return decimal.Zero, fmt.Errorf("no numeric value found in %q", raw)
	}

	normalized := normalizeSeparators(run)
	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("unreadable price %q", raw)
	}
	if value.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("price %q is not a positive amount", raw)
	}

	if column == ColumnSecondary {
		if exchangeRate <= 0 {
			return decimal.Zero, fmt.Errorf("exchange rate must be positive, got %v", exchangeRate)
		}
		value = value.Div(decimal.NewFromFloat(exchangeRate)).Round(2)
		if !value.IsPositive() {
			return decimal.Zero, fmt.Errorf("price %q rounds to zero at rate %v", raw, exchangeRate)
		}
	}

	return value, nil
}

// longestNumberRun extracts the longest contiguous run of digits and
// separators from an already glyph-stripped string.
func longestNumberRun(s string) string {
	best := ""
	for _, run := range numberRunPattern.FindAllString(s, -1) {
		run = strings.TrimRight(run, ".,")
		if len(run) > len(best) {
			best = run
		}
	}
	return best
}

// normalizeSeparators rewrites a digit run into plain decimal notation.
// When both '.' and ',' appear, the later one is the decimal point. A lone
// comma is decimal only when exactly two digits follow it. A dot followed by
// exactly three digits is a thousands separator, so "5.000" is five thousand
// while "12.5" stays a fraction.
func normalizeSeparators(run string) string {
	lastDot := strings.LastIndex(run, ".")
	lastComma := strings.LastIndex(run, ",")

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			run = strings.ReplaceAll(run, ".", "")
			i := strings.LastIndex(run, ",")
			run = strings.ReplaceAll(run[:i], ",", "") + "." + run[i+1:]
		} else {
			run = strings.ReplaceAll(run, ",", "")
			i := strings.LastIndex(run, ".")
			run = strings.ReplaceAll(run[:i], ".", "") + run[i:]
		}
	case lastComma >= 0:
		if strings.Count(run, ",") == 1 && len(run)-lastComma-1 == 2 {
			run = strings.Replace(run, ",", ".", 1)
		} else {
			run = strings.ReplaceAll(run, ",", "")
		}
	case lastDot >= 0:
		// All but the last dot are grouping separators.
		run = strings.ReplaceAll(run[:lastDot], ".", "") + run[lastDot:]
		if dot := strings.LastIndex(run, "."); len(run)-dot-1 == 3 {
			run = run[:dot] + run[dot+1:]
		}
	}

	return run
}
