package extract

import (
	"regexp"
	"strings"
)

// fieldPatterns is an ordered candidate list for one logical field, most
// specific first. The first pattern whose capture group matches wins;
// no match means the field stays absent.
type fieldPatterns []*regexp.Regexp

func (fp fieldPatterns) find(text string) string {
	for _, re := range fp {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// FieldConfig holds the compiled pattern tables. Built once at startup and
// never mutated; extractor instances share it by reference.
type FieldConfig struct {
	patientName    fieldPatterns
	patientDoc     fieldPatterns
	patientDocType fieldPatterns

	liquidacion      fieldPatterns
	poliza           fieldPatterns
	reclamacion      fieldPatterns
	aseguradora      fieldPatterns
	fechaSiniestro   fieldPatterns
	fechaIngreso     fieldPatterns
	fechaEgreso      fieldPatterns
	fechaLiquidacion fieldPatterns

	ipsNombre  fieldPatterns
	ipsNIT     fieldPatterns
	ipsFactura fieldPatterns

	diagnostic *regexp.Regexp
}

// DefaultFieldConfig compiles the pattern tables for Colombian SOAT glosas.
// Labels vary across insurers and renderers; each list is ordered most
// specific first. Patterns tolerate variable whitespace and accented
// uppercase Spanish.
func DefaultFieldConfig() *FieldConfig {
	return &FieldConfig{
		patientName: compile(
			// "Víctima : CC - 12345678 - PEREZ GOMEZ JUAN" (doc-type/number/name triple)
			`(?i)v[íi]ctima\s*:\s*[A-Z]{1,3}\s*-\s*\d+\s*-\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+?)(?:\s*n[úu]mero|\s*\n|\s*$)`,
			`(?i)(?:paciente|beneficiario)\s*:\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+?)(?:\s*\n|\s*$)`,
			`(?i)nombre\s*:\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+?)(?:\s*\n|\s*$)`,
		),
		patientDoc: compile(
			`(?i)v[íi]ctima\s*:\s*[A-Z]{1,3}\s*-\s*(\d+)\s*-`,
			`(?i)(?:documento|c[ée]dula|identificaci[óo]n)\s*:?\s*(\d{6,12})`,
			`\b(?:CC|TI|CE)\s*-\s*(\d+)`,
		),
		patientDocType: compile(
			`(?i)v[íi]ctima\s*:\s*([A-Z]{1,3})\s*-`,
			`\b(CC|TI|CE|NIT)\s*-\s*\d+`,
		),

		liquidacion: compile(
			`(?i)liquidaci[óo]n\s+de\s+siniestros?\s+No\.?\s*([A-Z0-9\-]+)`,
			`\bLIQ-(\d+)`,
			`(?i)No\.\s*(\d{2}-\d{4}-\d+)`,
		),
		poliza: compile(
			`(?i)p[óo]liza\s*:?\s*(\d+)`,
		),
		reclamacion: compile(
			`(?i)n[úu]mero\s+de\s+reclamaci[óo]n\s*:?\s*([A-Z0-9\-]+)`,
			`(?i)reclamaci[óo]n\s*:?\s*([A-Z0-9\-]+)`,
		),
		aseguradora: compile(
			`(?i)aseguradora\s*:?\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s\.]+?)(?:\s*\n|\s*$)`,
			`(?i)(SEGUROS\s+[A-ZÁÉÍÓÚÑ]+(?:\s+S\.?A\.?)?)`,
		),
		fechaSiniestro: compile(
			`(?i)fecha\s+(?:de\s+)?siniestro\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`,
			`(?i)siniestro\s*:\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`,
		),
		fechaIngreso: compile(
			`(?i)fecha\s+(?:de\s+)?ingreso\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`,
		),
		fechaEgreso: compile(
			`(?i)fecha\s+(?:de\s+)?egreso\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`,
		),
		fechaLiquidacion: compile(
			`(?i)fecha\s+(?:de\s+)?liquidaci[óo]n\s*:?\s*(\d{1,2}[/\-]\d{1,2}[/\-]\d{4})`,
		),

		ipsNombre: compile(
			`(?i)\bIPS\s*:?\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s\.]+?)(?:\s*\n|\s*NIT|\s*$)`,
			`(?i)(?:instituci[óo]n|prestador)\s*:?\s*([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s\.]+?)(?:\s*\n|\s*$)`,
			`(?i)\b((?:CL[ÍI]NICA|HOSPITAL|FUNDACI[ÓO]N)\s+[A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ\s]+?)(?:\s*\n|\s*NIT|\s*$)`,
		),
		ipsNIT: compile(
			`(?i)NIT\s*:?\s*([\d\.]+-?\d?)`,
		),
		ipsFactura: compile(
			`(?i)factura\s*(?:No\.?|#)?\s*:?\s*([A-Z]{0,4}-?\d+)`,
		),

		// ICD-10-like: letter, two digits, optional .digit. First match is
		// tagged principal, the rest secundario.
		diagnostic: regexp.MustCompile(`(?i)\bDX?\s*\d?\s*:\s*([A-Z]\d{2}(?:\.\d)?)|\bdiagn[óo]stico[^:]*:\s*([A-Z]\d{2}(?:\.\d)?)`),
	}
}

func compile(patterns ...string) fieldPatterns {
	fp := make(fieldPatterns, 0, len(patterns))
	for _, p := range patterns {
		fp = append(fp, regexp.MustCompile(p))
	}
	return fp
}

// normalizeText collapses runs of spaces and tabs so label patterns match
// regardless of how the renderer padded its columns. Newlines are kept;
// several patterns anchor on them.
func normalizeText(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	space := false
	for _, r := range text {
		switch r {
		case ' ', '\t', '\r':
			space = true
		case '\n':
			space = false
			b.WriteRune('\n')
		default:
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		}
	}
	return b.String()
}

// extractPatient populates patient identity from the section header area.
func (c *FieldConfig) extractPatient(text string) PatientInfo {
	p := PatientInfo{
		Nombre:        titleCaseName(c.patientName.find(text)),
		TipoDocumento: strings.ToUpper(c.patientDocType.find(text)),
		Documento:     c.patientDoc.find(text),
	}
	if p.Documento != "" {
		p.DocumentoValido = ValidColombianID(p.Documento, p.TipoDocumento)
	}
	return p
}

// extractPolicy populates policy references; dates are normalized to
// YYYY-MM-DD when the original format is recognizable.
func (c *FieldConfig) extractPolicy(text string) PolicyInfo {
	return PolicyInfo{
		NumeroLiquidacion: c.liquidacion.find(text),
		Poliza:            c.poliza.find(text),
		NumeroReclamacion: c.reclamacion.find(text),
		Aseguradora:       c.aseguradora.find(text),
		FechaSiniestro:    NormalizeDate(c.fechaSiniestro.find(text)),
		FechaIngreso:      NormalizeDate(c.fechaIngreso.find(text)),
		FechaEgreso:       NormalizeDate(c.fechaEgreso.find(text)),
		FechaLiquidacion:  NormalizeDate(c.fechaLiquidacion.find(text)),
	}
}

func (c *FieldConfig) extractIPS(text string) IPSInfo {
	return IPSInfo{
		Nombre:  strings.TrimSpace(c.ipsNombre.find(text)),
		NIT:     c.ipsNIT.find(text),
		Factura: c.ipsFactura.find(text),
	}
}

// extractDiagnostics collects ICD-10-like codes in document order. The first
// is principal, the rest secundario; duplicates are collapsed.
func (c *FieldConfig) extractDiagnostics(text string) []Diagnostic {
	matches := c.diagnostic.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	seen := make(map[string]bool)
	var out []Diagnostic
	for _, m := range matches {
		code := m[1]
		if code == "" {
			code = m[2]
		}
		code = strings.ToUpper(code)
		if code == "" || seen[code] {
			continue
		}
		seen[code] = true

		tipo := "secundario"
		if len(out) == 0 {
			tipo = "principal"
		}
		out = append(out, Diagnostic{
			Codigo:      code,
			Tipo:        tipo,
			Descripcion: cieDescription(code),
			Categoria:   CIE10Category(code),
		})
	}
	return out
}

// titleCaseName converts an all-caps name to title case.
func titleCaseName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(name))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}
