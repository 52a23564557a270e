package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/google/uuid"

	"github.com/glosalabs/glosaflow/internal/extract"
)

const systemPrompt = `Eres un asistente experto en liquidaciones de siniestros SOAT colombianas.
Extrae los datos estructurados de la glosa que recibas y responde ÚNICAMENTE con JSON válido,
sin markdown ni comentarios, con esta forma:
{"patient_info": {"nombre", "tipo_documento", "documento"},
 "policy_info": {"numero_liquidacion", "poliza", "numero_reclamacion", "aseguradora",
                 "fecha_siniestro", "fecha_ingreso", "fecha_egreso", "fecha_liquidacion"},
 "procedures": [{"codigo", "descripcion", "cantidad", "valor_unitario", "valor_total",
                 "valor_pagado", "valor_objetado", "observacion"}],
 "diagnostics": [{"codigo", "tipo", "descripcion"}],
 "ips_info": {"nombre", "nit", "factura"},
 "financial_summary": {"total_reclamado", "total_objetado", "total_pagado", "total_aceptado"}}
Los montos son números sin separadores. Las fechas en formato YYYY-MM-DD.
Omite los campos que no encuentres.`

// chunkTarget bounds how much text goes into one model request when the
// section is classified as high complexity.
const chunkTarget = 12000

const (
	defaultRetryAttempts = 3
	defaultRetryDelay    = 2 * time.Second
)

// Extractor turns a section's text into an extraction result through a
// language model. It implements the extraction engine's AI strategy hook.
// Transient request failures (timeouts, rate limits, connection drops) are
// retried with backoff before the failure surfaces to the caller.
type Extractor struct {
	client   LLMClient
	logger   *slog.Logger
	attempts uint
	delay    time.Duration
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithRetry overrides the transient-failure retry bounds.
func WithRetry(attempts uint, delay time.Duration) ExtractorOption {
	return func(e *Extractor) {
		e.attempts = attempts
		e.delay = delay
	}
}

// NewExtractor wraps a client.
func NewExtractor(client LLMClient, logger *slog.Logger, opts ...ExtractorOption) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{
		client:   client,
		logger:   logger,
		attempts: defaultRetryAttempts,
		delay:    defaultRetryDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract prompts the model with the section text and parses its validated
// JSON answer. High-complexity sections are split into chunks and the
// per-chunk answers merged, so oversized procedure tables never blow the
// context window.
func (e *Extractor) Extract(ctx context.Context, text string) (*extract.Result, error) {
	complexity := extract.AnalyzeComplexity(text)
	if complexity != extract.ComplexityHigh || len(text) <= chunkTarget {
		return e.extractOne(ctx, text)
	}

	chunks := splitChunks(text, chunkTarget)
	e.logger.Info("chunking large section for the model",
		"complexity", complexity,
		"chunks", len(chunks),
	)

	var merged *extract.Result
	for i, chunk := range chunks {
		r, err := e.extractOne(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
		}
		if merged == nil {
			merged = r
			continue
		}
		merged.Procedures = appendNewProcedures(merged.Procedures, r.Procedures)
		merged.Diagnostics = appendNewDiagnostics(merged.Diagnostics, r.Diagnostics)
	}
	return merged, nil
}

func (e *Extractor) extractOne(ctx context.Context, text string) (*extract.Result, error) {
	req := &ChatRequest{
		Messages: []Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		RequestID: uuid.NewString(),
	}
	res, err := retry.DoWithData(
		func() (*ChatResult, error) { return e.client.Chat(ctx, req) },
		retry.Context(ctx),
		retry.Attempts(e.attempts),
		retry.Delay(e.delay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(IsTransient),
		retry.OnRetry(func(n uint, err error) {
			e.logger.Warn("retrying model request after transient failure",
				"request", req.RequestID,
				"attempt", n+1,
				"error", err,
			)
		}),
	)
	if err != nil {
		return nil, err
	}

	raw, err := ParseStructured(res.Content)
	if err != nil {
		return nil, fmt.Errorf("model output: %w", err)
	}

	var result extract.Result
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	finishAIResult(&result)
	return &result, nil
}

// finishAIResult derives the fields the model is not trusted to compute.
func finishAIResult(r *extract.Result) {
	for i := range r.Procedures {
		p := &r.Procedures[i]
		if p.ValorObjetado > 0 {
			p.Estado = "objetado"
		} else {
			p.Estado = "aceptado"
		}
		if p.ValorUnitario == 0 && p.Cantidad > 0 {
			p.ValorUnitario = p.ValorTotal / float64(p.Cantidad)
		}
	}
	for i := range r.Diagnostics {
		d := &r.Diagnostics[i]
		d.Codigo = strings.ToUpper(d.Codigo)
		if d.Categoria == "" {
			d.Categoria = extract.CIE10Category(d.Codigo)
		}
		if d.Tipo == "" {
			if i == 0 {
				d.Tipo = "principal"
			} else {
				d.Tipo = "secundario"
			}
		}
	}
}

// splitChunks cuts text into pieces of roughly target bytes, preferring
// newline boundaries so procedure rows stay whole.
func splitChunks(text string, target int) []string {
	var chunks []string
	for len(text) > target {
		cut := strings.LastIndexByte(text[:target], '\n')
		if cut <= 0 {
			cut = target
		}
		chunks = append(chunks, text[:cut])
		text = text[cut:]
	}
	if strings.TrimSpace(text) != "" {
		chunks = append(chunks, text)
	}
	return chunks
}

func appendNewProcedures(base, extra []extract.ProcedureLine) []extract.ProcedureLine {
	seen := make(map[string]bool, len(base))
	for _, p := range base {
		seen[p.Codigo+"|"+p.Descripcion] = true
	}
	for _, p := range extra {
		if key := p.Codigo + "|" + p.Descripcion; !seen[key] {
			seen[key] = true
			base = append(base, p)
		}
	}
	return base
}

func appendNewDiagnostics(base, extra []extract.Diagnostic) []extract.Diagnostic {
	seen := make(map[string]bool, len(base))
	for _, d := range base {
		seen[d.Codigo] = true
	}
	for _, d := range extra {
		if !seen[d.Codigo] {
			seen[d.Codigo] = true
			base = append(base, d)
		}
	}
	return base
}
