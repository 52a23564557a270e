package segment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/glosalabs/glosaflow/internal/document"
)

func pagesDoc(pages ...string) *document.SourceDocument {
	return document.NewSourceDocument("test.pdf", pages)
}

func TestSegment_singleVictimNoEndAnchor(t *testing.T) {
	doc := pagesDoc(
		"Víctima : CC - 123 - PEREZ JUAN",
		"continuación de la liquidación",
	)
	if sections := New(nil).Segment(doc); len(sections) != 0 {
		t.Errorf("sections = %v, want none for a single-victim document", sections)
	}
}

func TestSegment_twoVictims(t *testing.T) {
	pages := make([]string, 9)
	pages[0] = "Víctima : CC - 111 - PEREZ JUAN"
	pages[3] = "Valor de Reclamación : $100.000"
	pages[5] = "Víctima : CC - 222 - GOMEZ ANA"
	pages[8] = "Valor de Reclamación : $200.000"

	sections := New(nil).Segment(pagesDoc(pages...))
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2", len(sections))
	}
	if sections[0].StartPage != 0 || sections[0].EndPage != 3 {
		t.Errorf("sections[0] = (%d,%d), want (0,3)", sections[0].StartPage, sections[0].EndPage)
	}
	if sections[1].StartPage != 5 || sections[1].EndPage != 8 {
		t.Errorf("sections[1] = (%d,%d), want (5,8)", sections[1].StartPage, sections[1].EndPage)
	}
	if sections[0].Index != 1 || sections[1].Index != 2 {
		t.Errorf("indices = %d,%d, want 1,2", sections[0].Index, sections[1].Index)
	}
	if sections[0].PatientHint != "PEREZ JUAN" {
		t.Errorf("PatientHint = %q, want %q", sections[0].PatientHint, "PEREZ JUAN")
	}
}

func TestSegment_noAnchors(t *testing.T) {
	doc := pagesDoc("texto sin anclas", "más texto")
	if sections := New(nil).Segment(doc); sections != nil {
		t.Errorf("sections = %v, want nil", sections)
	}
}

func TestSegment_unmatchedStartSkipped(t *testing.T) {
	pages := make([]string, 7)
	pages[0] = "Víctima : CC - 111 - PEREZ JUAN"
	pages[3] = "Valor de Reclamación : $100.000"
	pages[5] = "Víctima : CC - 222 - GOMEZ ANA"
	// No end anchor after page 5.

	sections := New(nil).Segment(pagesDoc(pages...))
	if len(sections) != 1 {
		t.Fatalf("len(sections) = %d, want 1", len(sections))
	}
	if sections[0].StartPage != 0 || sections[0].EndPage != 3 {
		t.Errorf("sections[0] = (%d,%d), want (0,3)", sections[0].StartPage, sections[0].EndPage)
	}
}

func TestSegment_nonOverlapping(t *testing.T) {
	pages := make([]string, 12)
	for _, p := range []int{0, 4, 8} {
		pages[p] = fmt.Sprintf("Víctima : CC - %d - PACIENTE PRUEBA", p)
	}
	for _, p := range []int{3, 7, 11} {
		pages[p] = "Valor de Reclamación : $1.000"
	}

	sections := New(nil).Segment(pagesDoc(pages...))
	if len(sections) != 3 {
		t.Fatalf("len(sections) = %d, want 3", len(sections))
	}
	for i, sec := range sections {
		if sec.StartPage > sec.EndPage {
			t.Errorf("section %d: start %d > end %d", i, sec.StartPage, sec.EndPage)
		}
		if i > 0 && sec.StartPage <= sections[i-1].EndPage {
			t.Errorf("section %d overlaps previous: %d <= %d", i, sec.StartPage, sections[i-1].EndPage)
		}
	}
}

func TestSegmentPages_pageErrorSkipped(t *testing.T) {
	pages := []string{
		"Víctima : CC - 111 - PEREZ JUAN",
		"ilegible",
		"Valor de Reclamación : $100.000",
		"Víctima : CC - 222 - GOMEZ ANA",
		"Valor de Reclamación : $200.000",
	}
	page := func(i int) (string, error) {
		if i == 1 {
			return "", errors.New("ocr failure")
		}
		return pages[i], nil
	}

	sections := New(nil).SegmentPages(page, len(pages))
	if len(sections) != 2 {
		t.Fatalf("len(sections) = %d, want 2 despite the broken page", len(sections))
	}
}
