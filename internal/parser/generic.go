package parser

import (
	"time"

	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
)

// GenericParser is the fallback strategy for statements no bank parser
// claims. It scans the whole document for header labels, treats every row
// as belonging to a single implicit card, and detects transactions purely
// by column position: leftmost chunk date-like, rightmost amount-like,
// everything between is the description. Known approximation: multi-column
// and reflowed layouts defeat it.
type GenericParser struct {
	cfg Config
}

// NewGeneric builds the fallback strategy.
func NewGeneric(cfg Config) Parser {
	return &GenericParser{cfg: cfg}
}

func (p *GenericParser) Name() string { return "generic" }

func (p *GenericParser) Parse(data []byte) (*models.ParseResult, error) {
	var timings models.StageTimings
	rows, err := extractRows(data, p.cfg, &timings)
	if err != nil {
		return nil, err
	}
	return p.parseRows(rows, time.Now(), timings), nil
}

func (p *GenericParser) parseRows(rows []layout.Row, now time.Time, timings models.StageTimings) *models.ParseResult {
	stageStart := time.Now()
	// No row limit: with no template knowledge, labels can be anywhere.
	header := detectHeader(rows, 0)
	ctx := dateContext(header, now)
	timings.HeaderDetectMs = time.Since(stageStart).Milliseconds()

	stageStart = time.Now()
	txns := detectTransactionsByPosition(rows, ctx)
	block := buildBlock(cardSegment{
		section: models.SectionPrincipal,
		holder:  header.CardholderName,
	}, txns)
	timings.TransactionMs = time.Since(stageStart).Milliseconds()

	timings.TotalMs = timings.ExtractionMs + timings.NormalizationMs +
		timings.HeaderDetectMs + timings.TransactionMs
	return assembleResult(p.Name(), header, []models.CardBlock{block}, rows, p.cfg, timings)
}
