package parser

import (
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
	"github.com/cartaoclaro/fatura-parser/internal/layout"
)

// makeRow fabricates a normalized row from chunk texts, spacing the chunks
// far enough apart that each stays a separate column.
func makeRow(chunks ...string) layout.Row {
	row := layout.Row{Page: 1, Text: strings.Join(chunks, " ")}
	for i, c := range chunks {
		row.Chunks = append(row.Chunks, extractor.GlyphRun{
			Page:  1,
			Text:  c,
			X:     float64(i) * 120,
			Y:     700,
			Width: 100,
		})
	}
	return row
}

func makeRows(rows ...[]string) []layout.Row {
	out := make([]layout.Row, 0, len(rows))
	for _, r := range rows {
		out = append(out, makeRow(r...))
	}
	return out
}
