package parser

import (
	"time"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
	"github.com/google/uuid"
)

const rowSampleSize = 5

// extractRows runs the two shared pipeline stages: glyph extraction and
// row normalization. Timings land in the provided StageTimings.
func extractRows(data []byte, cfg Config, timings *models.StageTimings) ([]layout.Row, error) {
	start := time.Now()
	doc, err := extractor.Extract(data)
	timings.ExtractionMs = time.Since(start).Milliseconds()
	if err != nil {
		return nil, err
	}

	start = time.Now()
	rows := layout.Normalize(doc, layout.Options{
		LineTolerance: cfg.LineTolerance,
		GapThreshold:  cfg.GapThreshold,
	})
	timings.NormalizationMs = time.Since(start).Milliseconds()
	return rows, nil
}

// buildBlock finalizes one card segment: runs its transactions through the
// signed sum and records the difference against the declared subtotal.
func buildBlock(seg cardSegment, txns []models.Transaction) models.CardBlock {
	block := models.CardBlock{
		Section:          seg.section,
		Label:            seg.label,
		Cardholder:       seg.holder,
		LastFourDigits:   seg.lastFour,
		CardType:         seg.cardType,
		IsAdditional:     seg.section == models.SectionAdditional,
		DeclaredSubtotal: seg.declared,
		Transactions:     txns,
	}
	if block.Transactions == nil {
		block.Transactions = []models.Transaction{}
	}

	for _, t := range txns {
		block.ComputedSubtotal = block.ComputedSubtotal.Add(t.SignedAmount())
	}
	if seg.declared != nil {
		diff := block.ComputedSubtotal.Abs().Sub(*seg.declared)
		block.SubtotalDiff = &diff
	}
	return block
}

// assembleResult applies the minimum-transaction gate and, when it passes,
// builds the StatementRecord with reconciliation summaries in the metadata.
// Below the gate the result carries a nil statement and the metadata alone:
// the signal the caller uses to try another parser.
func assembleResult(parserName string, header models.HeaderFields, blocks []models.CardBlock, rows []layout.Row, cfg Config, timings models.StageTimings) *models.ParseResult {
	meta := models.Metadata{
		ParseID:  uuid.NewString(),
		Parser:   parserName,
		RowCount: len(rows),
		Timings:  timings,
	}
	for i := 0; i < len(rows) && i < rowSampleSize; i++ {
		meta.RowSample = append(meta.RowSample, rows[i].Text)
	}

	total := 0
	for _, b := range blocks {
		total += len(b.Transactions)
	}
	if total < cfg.MinTransactions {
		return &models.ParseResult{Statement: nil, Metadata: meta}
	}

	for _, b := range blocks {
		meta.Reconciliations = append(meta.Reconciliations, models.CardReconciliation{
			Section:          b.Section,
			LastFourDigits:   b.LastFourDigits,
			DeclaredSubtotal: b.DeclaredSubtotal,
			ComputedSubtotal: b.ComputedSubtotal,
			Difference:       b.SubtotalDiff,
			TransactionCount: len(b.Transactions),
		})
	}

	stmt := &models.StatementRecord{
		CardholderName:  header.CardholderName,
		DueDate:         header.DueDate,
		ClosingDate:     header.ClosingDate,
		InvoiceNumber:   header.InvoiceNumber,
		TotalAmountDue:  header.TotalAmount,
		MinimumPayment:  header.MinimumPayment,
		BestPurchaseDay: header.BestPurchaseDay,
		AutoDebit:       header.AutoDebit,
		AnnualFee:       header.AnnualFee,
		CreditLimit:     header.CreditLimit,
		AvailableLimit:  header.AvailableLimit,
		Cards:           blocks,
		Metadata:        meta,
	}
	return &models.ParseResult{Statement: stmt, Metadata: meta}
}
