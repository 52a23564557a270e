package extract

import (
	"log/slog"
	"math"
	"regexp"
)

// Footer-area label patterns, ordered most specific first per total.
var (
	totalReclamadoPats = compile(
		`(?i)valor\s+de\s+reclamaci[óo]n\s*:?\s*\$?\s*([\d.,]+)`,
		`(?i)total\s+reclamado\s*:?\s*\$?\s*([\d.,]+)`,
		`(?i)\bTOTAL\s*:\s*\$?\s*([\d.,]+)`,
		`(?im)^[ \t]*Total(?:es)?\b[ \t]*\$?[ \t]*([\d.,]+)`,
	)
	// The "valor ..." variants require the colon: the column header also
	// says "Valor Objetado", and without the colon the pattern would read
	// the first row's code as the total.
	totalObjetadoPats = compile(
		`(?i)valor\s+objetado\s*:\s*\$?\s*([\d.,]+)`,
		`(?i)total\s+objetado\s*:?\s*\$?\s*([\d.,]+)`,
	)
	totalPagadoPats = compile(
		`(?i)valor\s+a\s+pagar\s*:?\s*\$?\s*([\d.,]+)`,
		`(?i)valor\s+pagado\s*:\s*\$?\s*([\d.,]+)`,
		`(?i)total\s+pagado\s*:?\s*\$?\s*([\d.,]+)`,
	)
	totalAceptadoPats = compile(
		`(?i)valor\s+aceptado\s*:\s*\$?\s*([\d.,]+)`,
		`(?i)total\s+aceptado\s*:?\s*\$?\s*([\d.,]+)`,
	)

	// moneyTripleRE matches a bare totals row: three money amounts on one
	// line with nothing else. Used when no labeled totals are present.
	moneyTripleRE = regexp.MustCompile(`(?m)^\s*\$?\s*([\d.,]+)\s+\$?\s*([\d.,]+)\s+\$?\s*([\d.,]+)\s*$`)
)

// reconcileTolerance is one peso: renderers round, both sides are kept when
// the disagreement exceeds it.
const reconcileTolerance = 1.0

// Reconciler parses document-level totals and derives the accepted amount
// and objection percentages from them.
type Reconciler struct {
	logger *slog.Logger
}

// NewReconciler returns a reconciler. A nil logger falls back to slog.Default.
func NewReconciler(logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{logger: logger}
}

// Reconcile builds the financial summary for a section. Totals come from
// footer label patterns; when absent, the last bare money-triple line is
// read as the totals row. The derived accepted amount (claimed minus
// objected) and the separately parsed footer value are both retained; a
// disagreement beyond the tolerance only sets Inconsistent.
func (r *Reconciler) Reconcile(text string, procedures []ProcedureLine) FinancialSummary {
	fs := FinancialSummary{
		TotalReclamado: ParseMoney(totalReclamadoPats.find(text)),
		TotalObjetado:  ParseMoney(totalObjetadoPats.find(text)),
		TotalPagado:    ParseMoney(totalPagadoPats.find(text)),
		TotalAceptado:  ParseMoney(totalAceptadoPats.find(text)),
	}

	if fs.TotalReclamado == 0 {
		if m := lastMoneyTriple(text); m != nil {
			fs.TotalReclamado = ParseMoney(m[1])
			fs.TotalPagado = ParseMoney(m[2])
			fs.TotalObjetado = ParseMoney(m[3])
		}
	}

	derivedAceptado := fs.TotalReclamado - fs.TotalObjetado
	if fs.TotalAceptado == 0 {
		fs.TotalAceptado = derivedAceptado
	} else if math.Abs(fs.TotalAceptado-derivedAceptado) > reconcileTolerance {
		fs.Inconsistent = true
		r.logger.Warn("accepted amount disagreement",
			"parsed", fs.TotalAceptado,
			"derived", derivedAceptado,
		)
	}

	if fs.TotalReclamado > 0 {
		fs.PorcentajeObjetado = round2(fs.TotalObjetado / fs.TotalReclamado * 100)
		fs.PorcentajeAceptado = round2((fs.TotalReclamado - fs.TotalObjetado) / fs.TotalReclamado * 100)
	}

	// Cross-check the footer against the sum of the rows. Both values are
	// retained; the mismatch only flags the summary for the quality scorer.
	if len(procedures) > 0 && fs.TotalReclamado > 0 {
		var rowSum float64
		for _, p := range procedures {
			rowSum += p.ValorTotal
		}
		if math.Abs(rowSum-fs.TotalReclamado) > reconcileTolerance {
			fs.Inconsistent = true
			r.logger.Debug("row sum disagrees with footer total",
				"row_sum", rowSum,
				"footer", fs.TotalReclamado,
			)
		}
	}

	return fs
}

func lastMoneyTriple(text string) []string {
	matches := moneyTripleRE.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	return matches[len(matches)-1]
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
