package models

import "github.com/shopspring/decimal"

// StageTimings records per-stage wall-clock cost in milliseconds.
type StageTimings struct {
	ExtractionMs    int64 `json:"extractionMs"`
	NormalizationMs int64 `json:"normalizationMs"`
	HeaderDetectMs  int64 `json:"headerDetectionMs"`
	TransactionMs   int64 `json:"transactionDetectionMs"`
	TotalMs         int64 `json:"totalMs"`
}

// CardReconciliation summarizes one card block's subtotal check for the
// result metadata.
type CardReconciliation struct {
	Section          CardSection      `json:"section"`
	LastFourDigits   string           `json:"lastFourDigits,omitempty"`
	DeclaredSubtotal *decimal.Decimal `json:"declaredSubtotal,omitempty"`
	ComputedSubtotal decimal.Decimal  `json:"computedSubtotal"`
	Difference       *decimal.Decimal `json:"difference,omitempty"`
	TransactionCount int              `json:"transactionCount"`
}

// Metadata describes how a statement was produced: which parser ran,
// what it saw, and what it cost.
type Metadata struct {
	ParseID         string               `json:"parseId"`
	Parser          string               `json:"parser"`
	Source          string               `json:"source,omitempty"`
	RowCount        int                  `json:"rowCount"`
	RowSample       []string             `json:"rowSample,omitempty"`
	Timings         StageTimings         `json:"timings"`
	Reconciliations []CardReconciliation `json:"reconciliations,omitempty"`
}

// ParseResult is what a parser hands back to its caller. A nil Statement
// with a nil error means the document did not yield enough transactions
// for this parser; the caller may retry with another one. Metadata is
// populated either way.
type ParseResult struct {
	Statement *StatementRecord `json:"statement"`
	Metadata  Metadata         `json:"metadata"`
}

// InsufficientData reports whether the parser declined the document.
func (r *ParseResult) InsufficientData() bool {
	return r.Statement == nil
}

// SetSource records where the parsed bytes came from. Parsers see only a
// byte buffer, so the caller supplies the origin (file path or uploaded
// filename).
func (r *ParseResult) SetSource(src string) {
	r.Metadata.Source = src
	if r.Statement != nil {
		r.Statement.Metadata.Source = src
	}
}
