package extract

// MergeResults folds an AI extraction into a pattern extraction. The pattern
// result is the base: AI scalar groups overwrite only when non-empty, AI
// lists replace only when strictly larger. Totals already reconciled from
// the document text are kept over AI-reported ones unless the pattern pass
// found nothing.
func MergeResults(pattern, ai *Result) *Result {
	merged := *pattern
	merged.Details.Strategy = StrategyHybrid

	if !ai.PatientInfo.Empty() {
		merged.PatientInfo = mergePatient(pattern.PatientInfo, ai.PatientInfo)
	}
	if !ai.PolicyInfo.Empty() {
		merged.PolicyInfo = mergePolicy(pattern.PolicyInfo, ai.PolicyInfo)
	}
	if !ai.IPSInfo.Empty() {
		merged.IPSInfo = mergeIPS(pattern.IPSInfo, ai.IPSInfo)
	}
	if len(ai.Diagnostics) > len(pattern.Diagnostics) {
		merged.Diagnostics = ai.Diagnostics
	}
	if len(ai.Procedures) > len(pattern.Procedures) {
		merged.Procedures = ai.Procedures
	}
	if merged.FinancialSummary.Empty() && !ai.FinancialSummary.Empty() {
		merged.FinancialSummary = ai.FinancialSummary
	}

	merged.Details.AIUsed = true
	return &merged
}

func mergePatient(base, ai PatientInfo) PatientInfo {
	if ai.Nombre != "" {
		base.Nombre = ai.Nombre
	}
	if ai.TipoDocumento != "" {
		base.TipoDocumento = ai.TipoDocumento
	}
	if ai.Documento != "" {
		base.Documento = ai.Documento
		base.DocumentoValido = ValidColombianID(ai.Documento, ai.TipoDocumento)
	}
	return base
}

func mergePolicy(base, ai PolicyInfo) PolicyInfo {
	if ai.NumeroLiquidacion != "" {
		base.NumeroLiquidacion = ai.NumeroLiquidacion
	}
	if ai.Poliza != "" {
		base.Poliza = ai.Poliza
	}
	if ai.NumeroReclamacion != "" {
		base.NumeroReclamacion = ai.NumeroReclamacion
	}
	if ai.Aseguradora != "" {
		base.Aseguradora = ai.Aseguradora
	}
	if ai.FechaSiniestro != "" {
		base.FechaSiniestro = NormalizeDate(ai.FechaSiniestro)
	}
	if ai.FechaIngreso != "" {
		base.FechaIngreso = NormalizeDate(ai.FechaIngreso)
	}
	if ai.FechaEgreso != "" {
		base.FechaEgreso = NormalizeDate(ai.FechaEgreso)
	}
	if ai.FechaLiquidacion != "" {
		base.FechaLiquidacion = NormalizeDate(ai.FechaLiquidacion)
	}
	return base
}

func mergeIPS(base, ai IPSInfo) IPSInfo {
	if ai.Nombre != "" {
		base.Nombre = ai.Nombre
	}
	if ai.NIT != "" {
		base.NIT = ai.NIT
	}
	if ai.Factura != "" {
		base.Factura = ai.Factura
	}
	return base
}
