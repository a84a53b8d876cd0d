package parser

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Portuguese month abbreviations as they appear on statement rows.
// Keys are lowercase and diacritic-folded ("mar" covers "março" rows that
// were abbreviated by the template).
var ptMonths = map[string]int{
	"jan": 1, "fev": 2, "mar": 3, "abr": 4,
	"mai": 5, "jun": 6, "jul": 7, "ago": 8,
	"set": 9, "out": 10, "nov": 11, "dez": 12,
}

var diacriticFolder = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldText lowercases and strips diacritics so label matching survives the
// accent variance between templates ("Débito", "DEBITO", "débito").
func foldText(s string) string {
	folded, _, err := transform.String(diacriticFolder, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(folded)
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// collapseSpaces trims and squeezes runs of whitespace to single spaces.
func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// brDateRe matches DD/MM/YYYY (and two-digit years some templates use).
var brDateRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)

// parseBRDate converts the first DD/MM/YYYY occurrence in s to ISO
// YYYY-MM-DD. Returns "" when there is none or the values are not a
// plausible calendar date.
func parseBRDate(s string) string {
	m := brDateRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	day := atoi(m[1])
	month := atoi(m[2])
	year := atoi(m[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return ""
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func atoi(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// dateChunkRe matches a "day + 3-letter month" chunk ("15 dez", "3 jan")
// after folding.
var dateChunkRe = regexp.MustCompile(`^(\d{1,2})\s*/?\s*([a-z]{3})\.?$`)

// matchDateChunk returns (day, month) for a date-like chunk, or ok=false.
func matchDateChunk(chunk string) (day, month int, ok bool) {
	m := dateChunkRe.FindStringSubmatch(foldText(collapseSpaces(chunk)))
	if m == nil {
		return 0, 0, false
	}
	mon, known := ptMonths[m[2]]
	if !known {
		return 0, 0, false
	}
	day = atoi(m[1])
	if day < 1 || day > 31 {
		return 0, 0, false
	}
	return day, mon, true
}

// isAmountChunk reports whether a chunk is a trailing-amount candidate.
func isAmountChunk(chunk string) bool {
	s := strings.TrimSpace(chunk)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "r$")
	return brlAmountRe.MatchString(strings.TrimSpace(s))
}
