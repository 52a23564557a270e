package extract

import (
	"context"
	"log/slog"
	"strings"
)

// AIExtractor produces a structured extraction for one section's text via a
// language model. Implementations validate their own output before returning.
type AIExtractor interface {
	Extract(ctx context.Context, text string) (*Result, error)
}

// Extractor runs the configured strategy over a section's text.
type Extractor struct {
	fields     *FieldConfig
	procedures *ProcedureParser
	reconciler *Reconciler
	ai         AIExtractor
	strategy   Strategy
	logger     *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithAI attaches a language-model extractor for the ai_only and hybrid
// strategies. Without one those strategies degrade to pattern_only.
func WithAI(ai AIExtractor) Option {
	return func(e *Extractor) { e.ai = ai }
}

// WithStrategy overrides the default hybrid strategy.
func WithStrategy(s Strategy) Option {
	return func(e *Extractor) { e.strategy = s }
}

func NewExtractor(logger *slog.Logger, opts ...Option) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		fields:     DefaultFieldConfig(),
		procedures: NewProcedureParser(logger),
		reconciler: NewReconciler(logger),
		strategy:   StrategyHybrid,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs the extraction pipeline on one section's raw text. It never
// returns an error for missing fields; gaps lower the quality score instead.
// An AI failure is recorded on the result and the strategy downgrades to
// pattern-only output.
func (e *Extractor) Extract(ctx context.Context, text string) *Result {
	normalized := normalizeText(text)
	patternResult := e.patternExtract(normalized)

	strategy := e.strategy
	if strategy != StrategyPatternOnly && e.ai == nil {
		strategy = StrategyPatternOnly
	}

	result := patternResult
	switch strategy {
	case StrategyPatternOnly:
		result.Details.Strategy = StrategyPatternOnly
	case StrategyAIOnly, StrategyHybrid:
		aiResult, err := e.ai.Extract(ctx, normalized)
		if err != nil {
			e.logger.Warn("ai extraction failed, using pattern result",
				"strategy", strategy,
				"error", err,
			)
			result.Details.Strategy = StrategyPatternOnly
			result.Details.AIError = err.Error()
			break
		}
		if strategy == StrategyAIOnly {
			result = aiResult
			result.Details.Strategy = StrategyAIOnly
			result.Details.AIUsed = true
			result.Details.TextLength = len(normalized)
			e.finishResult(result, normalized)
		} else {
			result = MergeResults(patternResult, aiResult)
		}
	}

	ScoreQuality(result)
	e.logger.Info("section extracted",
		"strategy", result.Details.Strategy,
		"procedures", len(result.Procedures),
		"quality", result.Details.QualityScore,
		"tier", result.Details.QualityTier,
	)
	return result
}

// patternExtract is the deterministic pass: label patterns, the procedure
// table, and footer totals.
func (e *Extractor) patternExtract(text string) *Result {
	r := &Result{
		PatientInfo: e.fields.extractPatient(text),
		PolicyInfo:  e.fields.extractPolicy(text),
		IPSInfo:     e.fields.extractIPS(text),
		Diagnostics: e.fields.extractDiagnostics(text),
		Procedures:  e.procedures.Parse(text),
	}
	r.Details.Strategy = StrategyPatternOnly
	r.Details.TextLength = len(text)
	e.finishResult(r, text)
	return r
}

// finishResult reconciles totals and fills the derived procedure counters.
func (e *Extractor) finishResult(r *Result, text string) {
	r.FinancialSummary = e.reconciler.Reconcile(text, r.Procedures)
	r.Details.TotalProcedimientos = len(r.Procedures)
	objetados := 0
	for _, p := range r.Procedures {
		if p.Estado == "objetado" {
			objetados++
		}
	}
	r.Details.ProcedimientosObjetados = objetados
	r.Details.ProcedimientosAceptados = len(r.Procedures) - objetados
}

// Complexity buckets drive how much of a section is handed to the model in
// one request.
const (
	ComplexityLow    = "low"
	ComplexityMedium = "medium"
	ComplexityHigh   = "high"
)

// AnalyzeComplexity classifies a section by size and table density so the
// model prompt can be tuned before sending.
func AnalyzeComplexity(text string) string {
	rows := len(procAnchorRE.FindAllStringIndex(text, -1))
	pages := strings.Count(text, "\f") + 1
	switch {
	case len(text) > 20000 || rows > 60 || pages > 6:
		return ComplexityHigh
	case len(text) > 6000 || rows > 20 || pages > 2:
		return ComplexityMedium
	default:
		return ComplexityLow
	}
}
