// Package extractor decodes a raw PDF byte buffer into positioned glyph
// runs, one per text fragment the PDF content stream places on a page.
// It is a thin adapter over ledongthuc/pdf; all layout reconstruction
// happens downstream in the layout package.
package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// MalformedDocumentError wraps a decoder fault. It is the only error this
// package returns: the byte stream could not be decoded into a page/glyph
// structure.
type MalformedDocumentError struct {
	Err error
}

func (e *MalformedDocumentError) Error() string {
	return fmt.Sprintf("malformed PDF document: %v", e.Err)
}

func (e *MalformedDocumentError) Unwrap() error { return e.Err }

// GlyphRun is one decoded text fragment and where the page placed it.
// Y grows bottom-to-top, as in PDF user space.
type GlyphRun struct {
	Page  int // 1-based
	Text  string
	X     float64
	Y     float64
	Width float64
	// FontSize is kept as a spacing hint; some templates space glyphs
	// proportionally to it.
	FontSize float64
}

// Document is the full set of glyph runs of a decoded PDF.
type Document struct {
	Pages int
	Runs  []GlyphRun
}

// Extract decodes a PDF byte buffer into a Document. The underlying
// library is known to panic on some malformed inputs, so the decode is
// fenced with a recover and every fault comes back as a
// *MalformedDocumentError.
func Extract(data []byte) (doc *Document, err error) {
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = &MalformedDocumentError{Err: fmt.Errorf("decoder panic: %v", r)}
		}
	}()

	reader, openErr := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if openErr != nil {
		return nil, &MalformedDocumentError{Err: openErr}
	}

	numPages := reader.NumPage()
	if numPages == 0 {
		return nil, &MalformedDocumentError{Err: fmt.Errorf("document has no pages")}
	}

	doc = &Document{Pages: numPages}
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content := page.Content()
		for _, t := range content.Text {
			if strings.TrimSpace(t.S) == "" {
				continue
			}
			doc.Runs = append(doc.Runs, GlyphRun{
				Page:     i,
				Text:     t.S,
				X:        t.X,
				Y:        t.Y,
				Width:    t.W,
				FontSize: t.FontSize,
			})
		}
	}

	return doc, nil
}
