package layout

import (
	"testing"

	"github.com/cartaoclaro/fatura-parser/internal/extractor"
)

func TestNormalizeGroupsByVerticalProximity(t *testing.T) {
	doc := &extractor.Document{
		Pages: 1,
		Runs: []extractor.GlyphRun{
			// Two fragments within tolerance of each other, one well below.
			{Page: 1, Text: "Vencimento:", X: 10, Y: 700.0, Width: 60},
			{Page: 1, Text: "10/02/2024", X: 80, Y: 701.2, Width: 55},
			{Page: 1, Text: "Total", X: 10, Y: 650.0, Width: 30},
		},
	}

	rows := Normalize(doc, DefaultOptions())
	if len(rows) != 2 {
		t.Fatalf("rows: got %d, want 2", len(rows))
	}
	if rows[0].Text != "Vencimento: 10/02/2024" {
		t.Errorf("rows[0].Text = %q", rows[0].Text)
	}
	if rows[1].Text != "Total" {
		t.Errorf("rows[1].Text = %q", rows[1].Text)
	}
	if len(rows[0].Chunks) != 2 {
		t.Errorf("rows[0] chunks: got %d, want 2", len(rows[0].Chunks))
	}
}

func TestNormalizeOrdersTopToBottomLeftToRight(t *testing.T) {
	// Fed out of order; PDF Y grows upward, so Y=700 is above Y=650.
	doc := &extractor.Document{
		Pages: 2,
		Runs: []extractor.GlyphRun{
			{Page: 2, Text: "page two", X: 10, Y: 700, Width: 40},
			{Page: 1, Text: "lower", X: 10, Y: 650, Width: 30},
			{Page: 1, Text: "right", X: 200, Y: 700, Width: 30},
			{Page: 1, Text: "left", X: 10, Y: 700, Width: 25},
		},
	}

	rows := Normalize(doc, DefaultOptions())
	if len(rows) != 3 {
		t.Fatalf("rows: got %d, want 3", len(rows))
	}
	if rows[0].Text != "left right" {
		t.Errorf("rows[0].Text = %q, want \"left right\"", rows[0].Text)
	}
	if rows[1].Text != "lower" {
		t.Errorf("rows[1].Text = %q, want \"lower\"", rows[1].Text)
	}
	if rows[2].Page != 2 {
		t.Errorf("rows[2].Page = %d, want 2", rows[2].Page)
	}
}

func TestNormalizeSpacingFromHorizontalGap(t *testing.T) {
	doc := &extractor.Document{
		Pages: 1,
		Runs: []extractor.GlyphRun{
			// "Venci" ends at X=35; "mento:" starts at 35.5, below the gap
			// threshold, so no space: a label split across runs.
			{Page: 1, Text: "Venci", X: 10, Y: 700, Width: 25},
			{Page: 1, Text: "mento:", X: 35.5, Y: 700, Width: 30},
			// Wide gap before the value: a real space.
			{Page: 1, Text: "10/02/2024", X: 120, Y: 700, Width: 55},
		},
	}

	rows := Normalize(doc, DefaultOptions())
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	if rows[0].Text != "Vencimento: 10/02/2024" {
		t.Errorf("rows[0].Text = %q, want \"Vencimento: 10/02/2024\"", rows[0].Text)
	}
}

func TestNormalizeRunningAverageY(t *testing.T) {
	// Fragments drifting slightly: the row's Y is the running average.
	doc := &extractor.Document{
		Pages: 1,
		Runs: []extractor.GlyphRun{
			{Page: 1, Text: "a", X: 10, Y: 700, Width: 5},
			{Page: 1, Text: "b", X: 20, Y: 701, Width: 5},
			{Page: 1, Text: "c", X: 30, Y: 699.5, Width: 5},
		},
	}
	rows := Normalize(doc, DefaultOptions())
	if len(rows) != 1 {
		t.Fatalf("rows: got %d, want 1", len(rows))
	}
	want := (700.0 + 701.0 + 699.5) / 3
	if diff := rows[0].Y - want; diff > 0.0001 || diff < -0.0001 {
		t.Errorf("rows[0].Y = %f, want %f", rows[0].Y, want)
	}
}

func TestNormalizeEmptyInput(t *testing.T) {
	if rows := Normalize(nil, DefaultOptions()); rows != nil {
		t.Errorf("Normalize(nil) = %v, want nil", rows)
	}
	if rows := Normalize(&extractor.Document{Pages: 1}, DefaultOptions()); rows != nil {
		t.Errorf("Normalize(empty doc) = %v, want nil", rows)
	}
}
