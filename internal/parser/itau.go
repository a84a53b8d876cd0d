package parser

import (
	"time"

	"github.com/cartaoclaro/fatura-parser/internal/layout"
	"github.com/cartaoclaro/fatura-parser/internal/models"
)

// ItauParser handles Itaú credit-card statement ("fatura") PDFs.
//
// The layout it targets:
//
//	Nome: JOAO A SILVA                 Vencimento: 10/02/2024
//	Data de fechamento: 28/01/2024     Valor da fatura: R$ 2.000,00
//	Lançamentos: cartão principal
//	Total do cartão R$ 1.500,00 - JOAO A SILVA Final 1234 VISA GOLD
//	Valores em reais
//	05 jan  SUPERMERCADO PAGUE MENOS   600,00
//	12 jan  POSTO BR PARC 02/04        900,00
//	Cartões adicionais
//	Total do cartão R$ 500,00 - MARIA SILVA Final 5678 VISA
//	20 jan  FARMACIA SAO JOAO          500,00
type ItauParser struct {
	cfg Config
}

// NewItau builds the Itaú strategy.
func NewItau(cfg Config) Parser {
	return &ItauParser{cfg: cfg}
}

func (p *ItauParser) Name() string { return "itau" }

func (p *ItauParser) Parse(data []byte) (*models.ParseResult, error) {
	var timings models.StageTimings
	rows, err := extractRows(data, p.cfg, &timings)
	if err != nil {
		return nil, err
	}
	return p.parseRows(rows, time.Now(), timings), nil
}

// parseRows runs the template-specific stages on normalized rows. The
// clock is a parameter so date resolution is reproducible against fixed
// row sets.
func (p *ItauParser) parseRows(rows []layout.Row, now time.Time, timings models.StageTimings) *models.ParseResult {
	stageStart := time.Now()
	header := detectHeader(rows, p.cfg.HeaderRows)
	ctx := dateContext(header, now)
	timings.HeaderDetectMs = time.Since(stageStart).Milliseconds()

	stageStart = time.Now()
	segments := segmentCards(rows)
	blocks := make([]models.CardBlock, 0, len(segments))
	for _, seg := range segments {
		blocks = append(blocks, buildBlock(seg, detectTransactions(seg.rows, ctx)))
	}
	timings.TransactionMs = time.Since(stageStart).Milliseconds()

	timings.TotalMs = timings.ExtractionMs + timings.NormalizationMs +
		timings.HeaderDetectMs + timings.TransactionMs
	return assembleResult(p.Name(), header, blocks, rows, p.cfg, timings)
}
