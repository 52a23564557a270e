package segment

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/glosalabs/glosaflow/internal/document"
)

var (
	startAnchorRE = regexp.MustCompile(`(?i)v[íi]ctima`)
	endAnchorRE   = regexp.MustCompile(`(?i)valor\s+de\s+reclamaci[óo]n\s*:`)

	// patientHintRE reads a display-only name hint off the start page. It is
	// never used as an identity key.
	patientHintRE = regexp.MustCompile(`(?i)v[íi]ctima\s*:\s*(?:[A-Z]{1,3}\s*-\s*\d+\s*-\s*)?([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+)`)
)

// Segmenter detects multi-patient boundaries in a document's page texts and
// emits per-patient page ranges.
type Segmenter struct {
	logger *slog.Logger
}

func New(logger *slog.Logger) *Segmenter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Segmenter{logger: logger}
}

// Segment scans the document for boundary anchors and pairs them into
// sections. A document with at most one start anchor is not multi-patient:
// the result is an empty list and the caller processes the whole text as one
// section. Unmatched start anchors are skipped with a warning.
func (s *Segmenter) Segment(doc *document.SourceDocument) []document.Section {
	return s.SegmentPages(func(i int) (string, error) {
		return doc.Page(i), nil
	}, doc.PageCount())
}

// SegmentPages runs the anchor scan against an arbitrary page source. A
// per-page read error skips that page without aborting the scan.
func (s *Segmenter) SegmentPages(page func(i int) (string, error), n int) []document.Section {
	var starts, ends []int
	texts := make(map[int]string, n)

	for i := 0; i < n; i++ {
		text, err := page(i)
		if err != nil {
			s.logger.Warn("page skipped", "page", i, "error", err)
			continue
		}
		texts[i] = text
		if startAnchorRE.MatchString(text) {
			starts = append(starts, i)
		}
		if endAnchorRE.MatchString(text) {
			ends = append(ends, i)
		}
	}

	if len(starts) <= 1 {
		s.logger.Debug("not a multi-patient document", "start_anchors", len(starts))
		return nil
	}

	// Greedy earliest-available pairing: each start takes the smallest
	// unused end at or after it, which keeps ranges non-overlapping.
	used := make([]bool, len(ends))
	var sections []document.Section
	for _, start := range starts {
		matched := false
		for j, end := range ends {
			if used[j] || end < start {
				continue
			}
			used[j] = true
			idx := len(sections) + 1
			sections = append(sections, document.NewSection(idx, start, end, patientHint(texts[start])))
			matched = true
			break
		}
		if !matched {
			s.logger.Warn("start anchor without a matching end", "page", start)
		}
	}

	s.logger.Info("document segmented",
		"pages", n,
		"start_anchors", len(starts),
		"end_anchors", len(ends),
		"sections", len(sections),
	)
	return sections
}

// patientHint extracts a best-effort display name from a start page.
func patientHint(text string) string {
	m := patientHintRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	hint := strings.TrimSpace(m[1])
	if i := strings.IndexByte(hint, '\n'); i >= 0 {
		hint = strings.TrimSpace(hint[:i])
	}
	return hint
}
