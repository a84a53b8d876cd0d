package parser

import (
	"regexp"
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
	"github.com/shopspring/decimal"
)

// Section and noise patterns run against folded row text; the marker and
// identity patterns run against the raw text so captured names keep their
// casing, tolerating the accent variants inline.
var (
	principalSectionRe  = regexp.MustCompile(`lancamentos.*cartao principal|cartao principal`)
	additionalSectionRe = regexp.MustCompile(`cart(?:ao|oes) adiciona(?:l|is)`)
	// Column header repeated at every page break; pure noise inside a block.
	noiseRowRe = regexp.MustCompile(`valores em (?:reais|r\$)`)
	// Subtotal marker: "Total do cartão 1.500,00 - JOAO A SILVA Final 1234 VISA GOLD".
	// The amount is the card's declared subtotal; the remainder carries the
	// card identity.
	subtotalMarkerRe = regexp.MustCompile(`(?i)^total(?: do cart[aã]o)?\s+(?:r\$\s*)?(-?[\d.]+,\d{2})\s*(.*)$`)
	// Identity remainder: "- JOAO A SILVA Final 1234 VISA GOLD".
	cardIdentityRe = regexp.MustCompile(`(?i)^(.*?)\s*final\s+(\d{4})\s*(.*)$`)
)

// cardSegment is one card's section before transaction detection: the
// identity and declared subtotal from the marker row, plus the rows
// accumulated until the next marker.
type cardSegment struct {
	section  models.CardSection
	label    string
	holder   string
	lastFour string
	cardType string
	declared *decimal.Decimal
	rows     []layout.Row
}

// segmentCards partitions rows into per-card segments. A segment opens at a
// subtotal-marker row and closes at the next marker or end of input; rows
// seen before the first marker have no block to attach to and are dropped.
func segmentCards(rows []layout.Row) []cardSegment {
	var segments []cardSegment
	var open *cardSegment
	section := models.SectionPrincipal

	flush := func() {
		if open != nil {
			segments = append(segments, *open)
			open = nil
		}
	}

	for _, row := range rows {
		folded := foldText(row.Text)

		if additionalSectionRe.MatchString(folded) {
			section = models.SectionAdditional
			continue
		}
		if principalSectionRe.MatchString(folded) {
			section = models.SectionPrincipal
			continue
		}

		if m := subtotalMarkerRe.FindStringSubmatch(collapseSpaces(row.Text)); m != nil {
			flush()
			seg := cardSegment{
				section:  section,
				label:    collapseSpaces(row.Text),
				declared: ParseBRLPtr(m[1]),
			}
			seg.holder, seg.lastFour, seg.cardType = parseCardIdentity(m[2])
			open = &seg
			continue
		}

		if open == nil {
			continue
		}
		if noiseRowRe.MatchString(folded) {
			continue
		}
		open.rows = append(open.rows, row)
	}
	flush()

	return segments
}

// parseCardIdentity splits "- JOAO A SILVA Final 1234 VISA GOLD" into
// holder, last-4 digits and card network. Without a "Final NNNN" anchor the
// whole remainder is taken as the holder name.
func parseCardIdentity(rest string) (holder, lastFour, cardType string) {
	rest = strings.TrimSpace(strings.TrimLeft(rest, "-– "))
	if rest == "" {
		return "", "", ""
	}
	m := cardIdentityRe.FindStringSubmatch(rest)
	if m == nil {
		return collapseSpaces(rest), "", ""
	}
	return collapseSpaces(m[1]), m[2], collapseSpaces(m[3])
}
