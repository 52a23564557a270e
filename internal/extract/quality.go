package extract

// Field weights for the quality score. Core identity and money fields carry
// most of the weight; the remainder splits across supporting fields.
const (
	weightPatientName   = 15
	weightPatientDoc    = 15
	weightLiquidacion   = 10
	weightPoliza        = 5
	weightIPSNombre     = 5
	weightFactura       = 5
	weightDiagnostics   = 10
	weightProcedures    = 20
	weightTotalClaimed  = 10
	weightTotalObjected = 5
)

// Quality tiers.
const (
	TierExcellent = "excellent"
	TierGood      = "good"
	TierFair      = "fair"
	TierPoor      = "poor"
)

// ScoreQuality computes a 0-100 completeness score for an extraction result
// and fills in the tier and per-gap recommendations on its details.
func ScoreQuality(r *Result) {
	score := 0
	var recs []string

	if r.PatientInfo.Nombre != "" {
		score += weightPatientName
	} else {
		recs = append(recs, "nombre del paciente no encontrado")
	}
	if r.PatientInfo.Documento != "" {
		score += weightPatientDoc
		if !r.PatientInfo.DocumentoValido {
			recs = append(recs, "documento del paciente con formato inválido")
		}
	} else {
		recs = append(recs, "documento del paciente no encontrado")
	}
	if r.PolicyInfo.NumeroLiquidacion != "" {
		score += weightLiquidacion
	} else {
		recs = append(recs, "número de liquidación no encontrado")
	}
	if r.PolicyInfo.Poliza != "" {
		score += weightPoliza
	}
	if r.IPSInfo.Nombre != "" {
		score += weightIPSNombre
	} else {
		recs = append(recs, "nombre de la IPS no encontrado")
	}
	if r.IPSInfo.Factura != "" {
		score += weightFactura
	}
	if len(r.Diagnostics) > 0 {
		score += weightDiagnostics
	} else {
		recs = append(recs, "sin diagnósticos extraídos")
	}
	if len(r.Procedures) > 0 {
		score += weightProcedures
	} else {
		recs = append(recs, "sin procedimientos extraídos, revisar tabla manualmente")
	}
	if r.FinancialSummary.TotalReclamado > 0 {
		score += weightTotalClaimed
	} else {
		recs = append(recs, "total reclamado no encontrado")
	}
	if r.FinancialSummary.TotalObjetado > 0 || len(r.Procedures) > 0 {
		score += weightTotalObjected
	}

	if r.FinancialSummary.Inconsistent {
		score -= 10
		if score < 0 {
			score = 0
		}
		recs = append(recs, "totales financieros inconsistentes, verificar montos")
	}

	r.Details.QualityScore = score
	r.Details.QualityTier = tierFor(score)
	r.Details.Recommendations = recs
}

func tierFor(score int) string {
	switch {
	case score >= 90:
		return TierExcellent
	case score >= 70:
		return TierGood
	case score >= 50:
		return TierFair
	default:
		return TierPoor
	}
}
