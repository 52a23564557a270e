package document

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

// SourceDocument holds the per-page texts of one ingested PDF. Immutable
// once created; segmentation and extraction only ever read it.
type SourceDocument struct {
	ID      uuid.UUID
	PDFPath string
	pages   []string
}

// NewSourceDocument builds a document from already-extracted page texts.
func NewSourceDocument(pdfPath string, pages []string) *SourceDocument {
	return &SourceDocument{
		ID:      uuid.New(),
		PDFPath: pdfPath,
		pages:   append([]string(nil), pages...),
	}
}

// FromText builds a document from a single text blob with form-feed page
// separators, the convention pdftotext and most OCR exporters follow.
func FromText(pdfPath, raw string) *SourceDocument {
	return NewSourceDocument(pdfPath, strings.Split(raw, "\f"))
}

// FromTextFile reads a form-feed separated text file.
func FromTextFile(pdfPath, textPath string) (*SourceDocument, error) {
	raw, err := os.ReadFile(textPath)
	if err != nil {
		return nil, fmt.Errorf("read page texts: %w", err)
	}
	return FromText(pdfPath, string(raw)), nil
}

// PageCount returns the number of text pages.
func (d *SourceDocument) PageCount() int {
	return len(d.pages)
}

// Page returns the text of the 0-based page index, or "" when out of range.
func (d *SourceDocument) Page(i int) string {
	if i < 0 || i >= len(d.pages) {
		return ""
	}
	return d.pages[i]
}

// RangeText joins the texts of pages start..end inclusive (0-based). Out of
// range indices are clamped.
func (d *SourceDocument) RangeText(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end >= len(d.pages) {
		end = len(d.pages) - 1
	}
	if start > end {
		return ""
	}
	return strings.Join(d.pages[start:end+1], "\f")
}

// Text joins all pages.
func (d *SourceDocument) Text() string {
	return d.RangeText(0, len(d.pages)-1)
}

// Section is one patient's page range within a SourceDocument. Created by
// the segmenter, immutable thereafter.
type Section struct {
	ID          uuid.UUID
	Index       int // 1-based position within the document
	StartPage   int // 0-based, inclusive
	EndPage     int // 0-based, inclusive
	PatientHint string
}

// NewSection assigns a fresh ID to a page range.
func NewSection(index, start, end int, hint string) Section {
	return Section{
		ID:          uuid.New(),
		Index:       index,
		StartPage:   start,
		EndPage:     end,
		PatientHint: hint,
	}
}

// Text returns the section's page range from its parent document.
func (s Section) Text(doc *SourceDocument) string {
	return doc.RangeText(s.StartPage, s.EndPage)
}
