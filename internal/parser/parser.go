// Package parser turns a raw statement PDF into a typed StatementRecord.
// Two strategies share the extraction and normalization stages: the Itaú
// parser knows that bank's labels and card sectioning; the generic parser
// applies looser column-position heuristics and a single implicit card.
// Strategies come out of a name-keyed registry with the generic parser as
// the fallback, so callers can try a bank parser and fall back when it
// declines the document.
package parser

import (
	"sort"
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/models"
)

// Parser is the per-bank parse strategy. Parse returns a result whose
// Statement is nil when the document yielded fewer transactions than the
// configured minimum, which is an expected outcome the caller uses for fallback,
// not an error. The only error it returns is a decode fault from the
// extractor.
type Parser interface {
	Parse(data []byte) (*models.ParseResult, error)
	Name() string
}

// Config holds the tunables shared by all strategies. Geometric thresholds
// are template-dependent approximations, so they are settings rather than
// constants.
type Config struct {
	// LineTolerance (PDF units) bounds vertical drift within one row.
	LineTolerance float64
	// GapThreshold (PDF units) is the space-insertion cutoff between
	// neighboring fragments.
	GapThreshold float64
	// MinTransactions gates statement assembly: fewer detected
	// transactions than this means "insufficient data".
	MinTransactions int
	// HeaderRows is how many leading rows the labeled-field scan covers.
	HeaderRows int
}

// DefaultConfig matches the statement templates the bundled parsers target.
func DefaultConfig() Config {
	return Config{
		LineTolerance:   2.0,
		GapThreshold:    1.5,
		MinTransactions: 3,
		HeaderRows:      80,
	}
}

// Factory builds a parser with the given settings.
type Factory func(Config) Parser

var registry = map[string]Factory{
	"itau":    NewItau,
	"generic": NewGeneric,
}

// ForBank returns the parser registered under the bank name, or the generic
// fallback for anything unknown. Names are matched case-insensitively.
func ForBank(name string, cfg Config) Parser {
	if f, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f(cfg)
	}
	return NewGeneric(cfg)
}

// Banks lists the registered parser names, sorted.
func Banks() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
