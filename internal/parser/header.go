package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
)

// Header label patterns. All of them run against folded row text
// (lowercase, diacritics stripped), so "Débito automático" and
// "DEBITO AUTOMATICO" hit the same pattern.
var (
	dueDateRe     = regexp.MustCompile(`vencimento:?\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
	closingDateRe = regexp.MustCompile(`(?:data de fechamento|fechamento)(?: da fatura)?:?\s*(\d{1,2}/\d{1,2}/\d{2,4})`)
	invoiceNumRe  = regexp.MustCompile(`(?:numero da fatura|fatura n[oº.]?)\s*:?\s*([0-9][0-9./-]*)`)
	totalDueRe    = regexp.MustCompile(`(?:valor da fatura|total da fatura|total a pagar|total desta fatura):?\s*(?:r\$\s*)?(-?[\d.]+,\d{2})`)
	minPaymentRe  = regexp.MustCompile(`pagamento minimo:?\s*(?:r\$\s*)?(-?[\d.]+,\d{2})`)
	creditLimitRe = regexp.MustCompile(`limite (?:total|de credito)(?: do cartao)?:?\s*(?:r\$\s*)?([\d.]+,\d{2})`)
	availLimitRe  = regexp.MustCompile(`limite disponivel:?\s*(?:r\$\s*)?([\d.]+,\d{2})`)
	annualFeeRe   = regexp.MustCompile(`anuidade:?\s*(?:r\$\s*)?([\d.]+,\d{2})`)
	bestDayRe     = regexp.MustCompile(`melhor dia (?:de|para) compra:?\s*(\d{1,2})`)
	autoDebitRe   = regexp.MustCompile(`debito automatico:?\s*(sim|nao|ativado|desativado|ativo|inativo)`)
	// Run against raw chunk text so the captured name keeps its casing.
	// The name label often shares a visual row with other labeled columns,
	// so the capture is chunk-bounded and additionally cut at the next
	// known label for templates whose columns merge into one chunk.
	holderLabelRe   = regexp.MustCompile(`(?i)^(?:nome do titular|titular|nome):?\s*(.*)$`)
	trailingLabelRe = regexp.MustCompile(`(?i)\s(?:vencimento|fechamento|n[uú]mero|fatura|valor|pagamento|limite|anuidade|melhor dia|d[eé]bito)\b.*$`)
)

// detectHeader scans rows in document order and fills a HeaderFields by
// first-match-wins: a populated field is never overwritten by a later row.
// headerRows limits how deep the labeled-field scan goes; total and minimum
// payment additionally fall back to a full-document scan because some
// templates only print them in the footer.
func detectHeader(rows []layout.Row, headerRows int) models.HeaderFields {
	var h models.HeaderFields

	limit := len(rows)
	if headerRows > 0 && headerRows < limit {
		limit = headerRows
	}

	for _, row := range rows[:limit] {
		scanHeaderRow(&h, row)
	}

	// Footer fallback for the two fields that move around between
	// templates.
	if h.TotalAmount == nil || h.MinimumPayment == nil {
		for _, row := range rows[limit:] {
			folded := foldText(row.Text)
			if h.TotalAmount == nil {
				if m := totalDueRe.FindStringSubmatch(folded); m != nil {
					h.TotalAmount = ParseBRLPtr(m[1])
				}
			}
			if h.MinimumPayment == nil {
				if m := minPaymentRe.FindStringSubmatch(folded); m != nil {
					h.MinimumPayment = ParseBRLPtr(m[1])
				}
			}
			if h.TotalAmount != nil && h.MinimumPayment != nil {
				break
			}
		}
	}

	return h
}

func scanHeaderRow(h *models.HeaderFields, row layout.Row) {
	folded := foldText(row.Text)

	if h.DueDate == "" {
		if m := dueDateRe.FindStringSubmatch(folded); m != nil {
			h.DueDate = parseBRDate(m[1])
		}
	}
	if h.ClosingDate == "" {
		if m := closingDateRe.FindStringSubmatch(folded); m != nil {
			h.ClosingDate = parseBRDate(m[1])
		}
	}
	if h.InvoiceNumber == "" {
		if m := invoiceNumRe.FindStringSubmatch(folded); m != nil {
			h.InvoiceNumber = strings.TrimRight(m[1], "./-")
		}
	}
	if h.TotalAmount == nil {
		if m := totalDueRe.FindStringSubmatch(folded); m != nil {
			h.TotalAmount = ParseBRLPtr(m[1])
		}
	}
	if h.MinimumPayment == nil {
		if m := minPaymentRe.FindStringSubmatch(folded); m != nil {
			h.MinimumPayment = ParseBRLPtr(m[1])
		}
	}
	if h.CreditLimit == nil {
		if m := creditLimitRe.FindStringSubmatch(folded); m != nil {
			h.CreditLimit = ParseBRLPtr(m[1])
		}
	}
	if h.AvailableLimit == nil {
		if m := availLimitRe.FindStringSubmatch(folded); m != nil {
			h.AvailableLimit = ParseBRLPtr(m[1])
		}
	}
	if h.AnnualFee == nil {
		if m := annualFeeRe.FindStringSubmatch(folded); m != nil {
			h.AnnualFee = ParseBRLPtr(m[1])
		}
	}
	if h.BestPurchaseDay == 0 {
		if m := bestDayRe.FindStringSubmatch(folded); m != nil {
			h.BestPurchaseDay = atoi(m[1])
		}
	}
	if h.AutoDebit == nil {
		if m := autoDebitRe.FindStringSubmatch(folded); m != nil {
			v := models.AutoDebitDisabled
			switch m[1] {
			case "sim", "ativado", "ativo":
				v = models.AutoDebitEnabled
			}
			h.AutoDebit = &v
		}
	}
	if h.CardholderName == "" {
		h.CardholderName = detectCardholder(row)
	}
}

// detectCardholder scans a row's chunks for the name label. The name may
// sit inside the label's own chunk or in the chunk to its right; either
// way the capture stops at the chunk boundary, so labels in neighboring
// columns never bleed into the name.
func detectCardholder(row layout.Row) string {
	for i, chunk := range row.Chunks {
		m := holderLabelRe.FindStringSubmatch(collapseSpaces(chunk.Text))
		if m == nil {
			continue
		}
		name := m[1]
		if name == "" && i+1 < len(row.Chunks) {
			name = collapseSpaces(row.Chunks[i+1].Text)
		}
		name = collapseSpaces(trailingLabelRe.ReplaceAllString(name, ""))
		if name != "" && !strings.ContainsAny(name, "0123456789") {
			return name
		}
	}
	return ""
}

// dateContext derives the fallback year/month from the detected closing
// date. Transactions print no year, so this is what resolves them. When no
// closing date was found, the current date is the best available anchor.
func dateContext(h models.HeaderFields, now time.Time) models.DateContext {
	if h.ClosingDate != "" {
		if t, err := time.Parse("2006-01-02", h.ClosingDate); err == nil {
			return models.DateContext{Year: t.Year(), ClosingMonth: int(t.Month())}
		}
	}
	return models.DateContext{Year: now.Year(), ClosingMonth: int(now.Month())}
}
