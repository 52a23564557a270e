// Package extract recovers structured claim data from the text of
// Colombian SOAT glosa (claim objection) documents.
package extract

// Strategy selects how a section is extracted.
type Strategy string

const (
	StrategyPatternOnly Strategy = "pattern_only"
	StrategyAIOnly      Strategy = "ai_only"
	StrategyHybrid      Strategy = "hybrid"
)

// ParseStrategy maps a config/CLI string to a Strategy, defaulting to hybrid.
func ParseStrategy(s string) Strategy {
	switch Strategy(s) {
	case StrategyPatternOnly, StrategyAIOnly, StrategyHybrid:
		return Strategy(s)
	default:
		return StrategyHybrid
	}
}

// PatientInfo identifies the claim's victim/patient.
type PatientInfo struct {
	Nombre          string `json:"nombre,omitempty"`
	TipoDocumento   string `json:"tipo_documento,omitempty"`
	Documento       string `json:"documento,omitempty"`
	DocumentoValido bool   `json:"documento_valido,omitempty"`
}

// Empty reports whether no patient field was recovered.
func (p PatientInfo) Empty() bool {
	return p.Nombre == "" && p.TipoDocumento == "" && p.Documento == ""
}

// PolicyInfo carries policy and settlement references.
type PolicyInfo struct {
	NumeroLiquidacion string `json:"numero_liquidacion,omitempty"`
	Poliza            string `json:"poliza,omitempty"`
	NumeroReclamacion string `json:"numero_reclamacion,omitempty"`
	Aseguradora       string `json:"aseguradora,omitempty"`
	FechaSiniestro    string `json:"fecha_siniestro,omitempty"`
	FechaIngreso      string `json:"fecha_ingreso,omitempty"`
	FechaEgreso       string `json:"fecha_egreso,omitempty"`
	FechaLiquidacion  string `json:"fecha_liquidacion,omitempty"`
}

// Empty reports whether no policy field was recovered.
func (p PolicyInfo) Empty() bool {
	return p == PolicyInfo{}
}

// IPSInfo identifies the healthcare provider that billed the claim.
type IPSInfo struct {
	Nombre  string `json:"nombre,omitempty"`
	NIT     string `json:"nit,omitempty"`
	Factura string `json:"factura,omitempty"`
}

// Empty reports whether no provider field was recovered.
func (i IPSInfo) Empty() bool {
	return i == IPSInfo{}
}

// Diagnostic is one ICD-10-style diagnosis code found in the document.
type Diagnostic struct {
	Codigo      string `json:"codigo"`
	Tipo        string `json:"tipo"` // "principal" or "secundario"
	Descripcion string `json:"descripcion,omitempty"`
	Categoria   string `json:"categoria,omitempty"`
}

// ProcedureLine is one billed item of the claim.
// Estado is derived: "objetado" when ValorObjetado > 0, else "aceptado".
type ProcedureLine struct {
	Codigo        string  `json:"codigo"`
	Descripcion   string  `json:"descripcion"`
	Cantidad      int     `json:"cantidad"`
	ValorUnitario float64 `json:"valor_unitario"`
	ValorTotal    float64 `json:"valor_total"`
	ValorPagado   float64 `json:"valor_pagado"`
	ValorObjetado float64 `json:"valor_objetado"`
	Observacion   string  `json:"observacion,omitempty"`
	Estado        string  `json:"estado"`
}

// FinancialSummary carries document-level totals. Derived and parsed values
// are both retained when they disagree; Inconsistent flags the disagreement.
type FinancialSummary struct {
	TotalReclamado     float64 `json:"total_reclamado"`
	TotalObjetado      float64 `json:"total_objetado"`
	TotalPagado        float64 `json:"total_pagado"`
	TotalAceptado      float64 `json:"total_aceptado"`
	PorcentajeObjetado float64 `json:"porcentaje_objetado"`
	PorcentajeAceptado float64 `json:"porcentaje_aceptado"`
	Inconsistent       bool    `json:"inconsistent,omitempty"`
}

// Empty reports whether no totals were recovered.
func (f FinancialSummary) Empty() bool {
	return f.TotalReclamado == 0 && f.TotalObjetado == 0 && f.TotalPagado == 0 && f.TotalAceptado == 0
}

// ExtractionDetails carries per-run metadata and the quality assessment.
type ExtractionDetails struct {
	Strategy                Strategy `json:"strategy"`
	TextLength              int      `json:"text_length"`
	TotalProcedimientos     int      `json:"total_procedimientos"`
	ProcedimientosObjetados int      `json:"procedimientos_objetados"`
	ProcedimientosAceptados int      `json:"procedimientos_aceptados"`
	QualityScore            int      `json:"quality_score"`
	QualityTier             string   `json:"quality_tier"`
	Recommendations         []string `json:"recommendations,omitempty"`
	AIUsed                  bool     `json:"ai_used,omitempty"`
	AIError                 string   `json:"ai_error,omitempty"`
}

// Result is the structured output for one document section.
// A Result is owned exclusively by the job that produced it.
type Result struct {
	PatientInfo      PatientInfo       `json:"patient_info"`
	PolicyInfo       PolicyInfo        `json:"policy_info"`
	Procedures       []ProcedureLine   `json:"procedures"`
	Diagnostics      []Diagnostic      `json:"diagnostics"`
	IPSInfo          IPSInfo           `json:"ips_info"`
	FinancialSummary FinancialSummary  `json:"financial_summary"`
	Details          ExtractionDetails `json:"extraction_details"`
	Error            string            `json:"error,omitempty"`
}
