package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
)

const currencyBRL = "BRL"

// txnGroup is an in-progress transaction while scanning a row's chunks:
// opened by a date-like chunk, closed by an amount-like chunk.
type txnGroup struct {
	day    int
	month  int
	chunks []string
	total  int // chunk count including date and amount
}

// detectTransactions walks each row's chunks left to right. A date chunk
// starts a group (abandoning any open group that never found its amount),
// an amount chunk closes it, and everything in between becomes the
// description. A closed group needs at least date + one description chunk
// + amount to be accepted.
func detectTransactions(rows []layout.Row, ctx models.DateContext) []models.Transaction {
	var txns []models.Transaction

	for _, row := range rows {
		var open *txnGroup

		for _, chunk := range row.Chunks {
			text := collapseSpaces(chunk.Text)
			if text == "" {
				continue
			}

			if day, month, ok := matchDateChunk(text); ok {
				// A new date abandons the previous group; it never
				// produced an amount so it is not a transaction.
				open = &txnGroup{day: day, month: month, total: 1}
				continue
			}

			if open == nil {
				continue
			}

			if isAmountChunk(text) {
				open.total++
				if txn, ok := closeGroup(open, text, ctx); ok {
					txns = append(txns, txn)
				}
				open = nil
				continue
			}

			open.chunks = append(open.chunks, text)
			open.total++
		}
		// A group still open at end of row has no amount; dropped.
	}

	return txns
}

// closeGroup turns a completed chunk group into a transaction. Rows whose
// amount fails numeric parse are dropped rather than emitted with a null
// amount.
func closeGroup(g *txnGroup, amountChunk string, ctx models.DateContext) (models.Transaction, bool) {
	if g.total < 3 {
		return models.Transaction{}, false
	}
	amount, ok := ParseBRL(amountChunk)
	if !ok {
		return models.Transaction{}, false
	}

	desc := collapseSpaces(strings.Join(g.chunks, " "))
	txn := models.Transaction{
		Date:        resolveDate(g.day, g.month, ctx),
		Description: desc,
		Amount:      amount.Abs(),
		Currency:    currencyBRL,
	}
	txn.Type, txn.Installment = classify(desc)
	return txn, true
}

// resolveDate assigns a year to a day/month pair that printed none. A month
// past the statement's closing month belongs to the previous year, as with
// a December purchase on a January-closing statement.
func resolveDate(day, month int, ctx models.DateContext) string {
	year := ctx.Year
	if ctx.ClosingMonth > 0 && month > ctx.ClosingMonth {
		year--
	}
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

// installmentRe matches the "03/10" progress marker embedded in
// installment descriptions.
var installmentRe = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})\b`)

// Type keywords, tested in order against the folded description. The first
// family that hits wins.
var (
	refundKeywords     = []string{"estorno", "devolucao", "reembolso"}
	paymentKeywords    = []string{"pagamento", "pgto", "pagto"}
	adjustmentKeywords = []string{"ajuste"}
	feeKeywords        = []string{"anuidade", "tarifa", "juros", "multa", "iof", "encargo"}
	installKeywords    = []string{"parcela", "parc "}
)

// classify tags a transaction from its description and extracts installment
// progress when an N/M marker is present.
func classify(desc string) (models.TransactionType, *models.Installment) {
	folded := foldText(desc)

	inst := matchInstallment(folded)

	switch {
	case containsAny(folded, refundKeywords):
		return models.TypeRefund, inst
	case containsAny(folded, paymentKeywords):
		return models.TypePayment, inst
	case containsAny(folded, adjustmentKeywords):
		return models.TypeAdjustment, inst
	case containsAny(folded, feeKeywords):
		return models.TypeFee, inst
	case inst != nil || containsAny(folded, installKeywords):
		return models.TypeInstallment, inst
	}
	return models.TypePurchase, inst
}

func matchInstallment(folded string) *models.Installment {
	m := installmentRe.FindStringSubmatch(folded)
	if m == nil {
		return nil
	}
	current, total := atoi(m[1]), atoi(m[2])
	if current == 0 || total == 0 || current > total {
		return nil
	}
	return &models.Installment{Current: current, Total: total}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}

// detectTransactionsByPosition is the generic fallback heuristic: the
// leftmost chunk must look like a date, the rightmost like an amount, and
// whatever sits between them is the description. Brittle on multi-column
// layouts, but it needs no template knowledge.
func detectTransactionsByPosition(rows []layout.Row, ctx models.DateContext) []models.Transaction {
	var txns []models.Transaction

	for _, row := range rows {
		chunks := nonEmptyChunks(row.Chunks)
		if len(chunks) < 3 {
			continue
		}

		day, month, ok := matchDateChunk(chunks[0])
		if !ok {
			continue
		}
		last := chunks[len(chunks)-1]
		if !isAmountChunk(last) {
			continue
		}
		amount, ok := ParseBRL(last)
		if !ok {
			continue
		}

		desc := collapseSpaces(strings.Join(chunks[1:len(chunks)-1], " "))
		txn := models.Transaction{
			Date:        resolveDate(day, month, ctx),
			Description: desc,
			Amount:      amount.Abs(),
			Currency:    currencyBRL,
		}
		txn.Type, txn.Installment = classify(desc)
		txns = append(txns, txn)
	}

	return txns
}

func nonEmptyChunks(chunks []extractor.GlyphRun) []string {
	out := make([]string, 0, len(chunks))
	for _, c := range chunks {
		if t := collapseSpaces(c.Text); t != "" {
			out = append(out, t)
		}
	}
	return out
}
