package parser

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// brlAmountRe matches Brazilian currency formatting: optional sign,
// dot-separated thousands, comma decimal with two places.
var brlAmountRe = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})*,\d{2}$|^-?\d+,\d{2}$`)

// ParseBRL converts a Brazilian-formatted currency string ("1.234,56",
// "R$ 45,00", "-12,50") into a decimal rounded to 2 places. The boolean is
// false for anything that does not parse; unparsable values are field-level
// misses, never errors.
func ParseBRL(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "r$")
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	if !brlAmountRe.MatchString(s) {
		return decimal.Zero, false
	}

	s = strings.ReplaceAll(s, ".", "")
	s = strings.ReplaceAll(s, ",", ".")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d.Round(2), true
}

// ParseBRLPtr is ParseBRL for nullable header fields.
func ParseBRLPtr(s string) *decimal.Decimal {
	d, ok := ParseBRL(s)
	if !ok {
		return nil
	}
	return &d
}
