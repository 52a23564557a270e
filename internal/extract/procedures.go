package extract

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

const (
	// Declared row values outside (0, maxRowValue] are treated as
	// shape-matching noise, not billing data.
	maxRowValue = 10_000_000

	maxObservationLen = 300
)

var (
	// procAnchorRE locates the start of a logical row: a CUPS code (5 or 6
	// digits) bounded by whitespace. Amounts are rendered with $ or
	// separators, so contiguous short digit runs are codes in practice.
	procAnchorRE = regexp.MustCompile(`(?:^|\s)(\d{5,6})\s`)

	// procRowRE parses one row chunk. Dot-matches-newline absorbs rendering
	// wraps: code, non-greedy description run, quantity, exactly three money
	// amounts, then an optional trailing observation block.
	procRowRE = regexp.MustCompile(`(?s)^(\d{5,6})\s+(.+?)\s+(\d+(?:[.,]\d{1,2})?)\s+(\$?[\d.,]+)\s+(\$?[\d.,]+)\s+(\$?[\d.,]+)\s*(.*)$`)

	// procTableEndRE bounds the table region. Everything after the totals
	// area belongs to the financial footer, not to any row. Line-anchored so
	// the column header's "Valor Total" label cannot trigger it.
	procTableEndRE = regexp.MustCompile(`(?m)^[ \t]*(?:TOTAL\b|Total(?:es)?\b|Valor\s+de\s+Reclamaci[óo]n\s*:)`)

	// procHeaderRE locates the column-header row for the fallback scan.
	procHeaderRE = regexp.MustCompile(`(?i)c[óo]digo.*descripci[óo]n.*valor\s*total`)

	// lineAnchorRE marks a physical line that starts a new logical row.
	lineAnchorRE = regexp.MustCompile(`^\d{5,6}\s`)

	strayMoneyRE  = regexp.MustCompile(`^[\s\$\d.,]+|[\s\$\d.,]+$`)
	pureNumericRE = regexp.MustCompile(`^[\d\s.,\$]*$`)
)

// descDenylist rejects boilerplate that happens to match the row shape
// (page headers, section labels repeated mid-table by the renderer).
// Fragments are matched case-insensitively: the source text is usually
// all-caps and descriptions are title-cased during cleanup.
var descDenylist = []string{
	"liquidación de siniestro",
	"página",
	"víctima :",
	"número de reclamación",
	"póliza :",
	"dx :",
}

// ProcedureParser recovers itemized billing rows from free text whose
// rendering may wrap one logical row across several physical lines.
type ProcedureParser struct {
	logger *slog.Logger
}

// NewProcedureParser returns a parser. A nil logger falls back to the
// default slog logger.
func NewProcedureParser(logger *slog.Logger) *ProcedureParser {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProcedureParser{logger: logger}
}

// Parse extracts the procedure table from text. The composite-pattern pass
// runs first; if it yields zero valid rows, a line-oriented scan bounded by
// the column header row takes over, which recovers tables whose wrapping
// defeats the composite pattern.
func (p *ProcedureParser) Parse(text string) []ProcedureLine {
	region := p.tableRegion(text)

	rows := p.parseComposite(region)
	if len(rows) == 0 {
		rows = p.parseLineOriented(region)
	}
	return rows
}

// tableRegion truncates text at the totals area so footer lines can never
// be absorbed into the last row's observation block.
func (p *ProcedureParser) tableRegion(text string) string {
	if loc := procTableEndRE.FindStringIndex(text); loc != nil {
		return text[:loc[0]]
	}
	return text
}

// parseComposite splits the region at code anchors and applies the row
// pattern to each chunk.
func (p *ProcedureParser) parseComposite(region string) []ProcedureLine {
	anchors := procAnchorRE.FindAllStringSubmatchIndex(region, -1)
	if len(anchors) == 0 {
		return nil
	}

	var rows []ProcedureLine
	for i, a := range anchors {
		start := a[2] // start of the code capture group
		end := len(region)
		if i+1 < len(anchors) {
			end = anchors[i+1][2]
		}
		if row, ok := p.parseRow(region[start:end]); ok {
			rows = append(rows, row)
		}
	}
	return rows
}

// parseLineOriented is the fallback: scan line by line below the header row,
// buffering continuation lines into the preceding code-line before applying
// the same per-row parse.
func (p *ProcedureParser) parseLineOriented(region string) []ProcedureLine {
	lines := strings.Split(region, "\n")

	start := 0
	for i, line := range lines {
		if procHeaderRE.MatchString(line) {
			start = i + 1
			break
		}
	}

	var rows []ProcedureLine
	var buf []string
	flush := func() {
		if len(buf) == 0 {
			return
		}
		if row, ok := p.parseRow(strings.Join(buf, "\n")); ok {
			rows = append(rows, row)
		}
		buf = nil
	}

	for _, line := range lines[start:] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if lineAnchorRE.MatchString(trimmed) {
			flush()
			buf = []string{trimmed}
			continue
		}
		if len(buf) > 0 {
			buf = append(buf, trimmed)
		}
	}
	flush()

	return rows
}

// parseRow applies the composite row pattern to one chunk and validates the
// result. Invalid rows are dropped silently; that is noise rejection, not an
// extraction error.
func (p *ProcedureParser) parseRow(chunk string) (ProcedureLine, bool) {
	m := procRowRE.FindStringSubmatch(strings.TrimSpace(chunk))
	if m == nil {
		return ProcedureLine{}, false
	}

	row := ProcedureLine{
		Codigo:        m[1],
		Descripcion:   cleanDescription(m[2]),
		Cantidad:      parseQuantity(m[3]),
		ValorTotal:    ParseMoney(m[4]),
		ValorPagado:   ParseMoney(m[5]),
		ValorObjetado: ParseMoney(m[6]),
		Observacion:   cleanObservation(m[7]),
	}

	if row.Cantidad > 0 {
		row.ValorUnitario = row.ValorTotal / float64(row.Cantidad)
	}
	if row.ValorObjetado > 0 {
		row.Estado = "objetado"
	} else {
		row.Estado = "aceptado"
	}

	// Backfill thin descriptions from the known CUPS table.
	if desc := CUPSDescription(row.Codigo); desc != "" && len(row.Descripcion) < 10 {
		row.Descripcion = desc
	}

	if reason := validateRow(row); reason != "" {
		p.logger.Debug("dropping procedure row", "code", row.Codigo, "reason", reason)
		return ProcedureLine{}, false
	}
	return row, true
}

// validateRow returns a rejection reason, or "" for a valid row.
func validateRow(row ProcedureLine) string {
	if !ValidCUPSCode(row.Codigo) {
		return "bad code"
	}
	desc := strings.TrimSpace(row.Descripcion)
	if len(desc) < 3 {
		return "short description"
	}
	if pureNumericRE.MatchString(desc) {
		return "numeric description"
	}
	lower := strings.ToLower(desc)
	for _, frag := range descDenylist {
		if strings.Contains(lower, frag) {
			return "boilerplate description"
		}
	}
	if row.ValorTotal <= 0 || row.ValorTotal > maxRowValue {
		return "value out of range"
	}
	return ""
}

// parseQuantity reads a quantity that may be rendered with a decimal part
// ("1.00"). The integer part is what counts.
func parseQuantity(s string) int {
	if i := strings.IndexAny(s, ".,"); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// cleanDescription strips stray digits and money fragments that bled across
// match boundaries, then title-cases words. All-caps tokens of three letters
// or fewer are kept as-is (acronyms: IPS, UCI, RX).
func cleanDescription(desc string) string {
	desc = strings.Join(strings.Fields(desc), " ")
	desc = strayMoneyRE.ReplaceAllString(desc, "")
	desc = strings.TrimSpace(desc)
	if desc == "" {
		return ""
	}

	words := strings.Fields(desc)
	for i, w := range words {
		if len([]rune(w)) <= 3 && w == strings.ToUpper(w) {
			continue
		}
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

func titleWord(w string) string {
	r := []rune(strings.ToLower(w))
	r[0] = []rune(strings.ToUpper(string(r[0])))[0]
	return string(r)
}

// cleanObservation collapses whitespace and truncates adjuster commentary
// past the cap; the tail is renderer noise more often than prose.
func cleanObservation(obs string) string {
	obs = strings.Join(strings.Fields(obs), " ")
	if runes := []rune(obs); len(runes) > maxObservationLen {
		obs = string(runes[:maxObservationLen])
	}
	return obs
}
