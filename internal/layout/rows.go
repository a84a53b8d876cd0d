// Package layout reconstructs visual lines from positioned glyph runs.
// PDF content streams emit fragments in draw order, not reading order, so
// rows are rebuilt geometrically: cluster by vertical proximity, then order
// left-to-right and rebuild spacing from horizontal gaps.
package layout

import (
	"sort"
	"strings"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
)

// Options are the clustering thresholds, in PDF user-space units. Different
// statement templates render at slightly different scales, so both are
// configurable rather than baked in.
type Options struct {
	// LineTolerance is the maximum distance from a row's running-average Y
	// for a fragment to join that row.
	LineTolerance float64
	// GapThreshold is the minimum horizontal gap between consecutive
	// fragments that renders as a visible space.
	GapThreshold float64
}

// DefaultOptions matches the templates the bundled parsers target.
func DefaultOptions() Options {
	return Options{LineTolerance: 2.0, GapThreshold: 1.5}
}

// Row is one reconstructed visual line.
type Row struct {
	Page   int
	Y      float64 // running average of member fragment Y values
	Text   string
	Chunks []extractor.GlyphRun // sorted left-to-right
}

// Normalize turns a glyph document into ordered rows: top-to-bottom within
// a page, pages in order. Empty input yields no rows.
func Normalize(doc *extractor.Document, opts Options) []Row {
	if doc == nil || len(doc.Runs) == 0 {
		return nil
	}

	runs := make([]extractor.GlyphRun, len(doc.Runs))
	copy(runs, doc.Runs)

	// Reading order: page ascending, Y descending (PDF Y grows upward),
	// X ascending for ties.
	sort.SliceStable(runs, func(i, j int) bool {
		if runs[i].Page != runs[j].Page {
			return runs[i].Page < runs[j].Page
		}
		if runs[i].Y != runs[j].Y {
			return runs[i].Y > runs[j].Y
		}
		return runs[i].X < runs[j].X
	})

	var rows []Row
	var cur *Row
	var ySum float64

	flush := func() {
		if cur == nil {
			return
		}
		finalizeRow(cur, opts)
		rows = append(rows, *cur)
		cur = nil
	}

	for _, run := range runs {
		if cur != nil {
			avg := ySum / float64(len(cur.Chunks))
			if run.Page != cur.Page || abs(avg-run.Y) > opts.LineTolerance {
				flush()
			}
		}
		if cur == nil {
			cur = &Row{Page: run.Page}
			ySum = 0
		}
		cur.Chunks = append(cur.Chunks, run)
		ySum += run.Y
		cur.Y = ySum / float64(len(cur.Chunks))
	}
	flush()

	return rows
}

// finalizeRow orders a row's fragments left-to-right and rebuilds its text,
// inserting a single space only where the horizontal gap is wide enough to
// have rendered as one. Labels split across runs with no visual gap are
// rejoined without a separator.
func finalizeRow(r *Row, opts Options) {
	sort.SliceStable(r.Chunks, func(i, j int) bool {
		return r.Chunks[i].X < r.Chunks[j].X
	})

	var b strings.Builder
	for i, c := range r.Chunks {
		if i > 0 {
			prev := r.Chunks[i-1]
			if c.X-(prev.X+prev.Width) > opts.GapThreshold {
				b.WriteByte(' ')
			}
		}
		b.WriteString(c.Text)
	}
	r.Text = b.String()
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
