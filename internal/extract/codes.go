package extract

import "regexp"

var (
	cupsCodeRE = regexp.MustCompile(`^\d{5,6}$`)
	cie10RE    = regexp.MustCompile(`^[A-Z]\d{2}\.?\d?$`)
	digitsRE   = regexp.MustCompile(`^\d+$`)
)

// ValidCUPSCode reports whether code looks like a Colombian CUPS procedure
// code (5 or 6 digits; the 5-digit form is what settlement letters print).
func ValidCUPSCode(code string) bool {
	return cupsCodeRE.MatchString(code)
}

// ValidCIE10Code reports whether code is an ICD-10-like diagnosis code.
func ValidCIE10Code(code string) bool {
	return cie10RE.MatchString(code)
}

// ValidColombianID validates an identity document number against the rules
// for its document type. Unknown types fall back to a length check.
func ValidColombianID(document, docType string) bool {
	if !digitsRE.MatchString(document) {
		return len(document) >= 6
	}
	switch docType {
	case "CC":
		return len(document) >= 6 && len(document) <= 10
	case "NIT":
		return len(document) >= 9 && len(document) <= 12
	case "TI":
		return len(document) >= 8 && len(document) <= 11
	default:
		return len(document) >= 6
	}
}

// knownCUPSDescriptions backfills short or missing procedure descriptions
// for codes that recur in SOAT glosas. Best-effort only.
var knownCUPSDescriptions = map[string]string{
	"474101": "Colecistectomía Laparoscópica",
	"474201": "Apendicectomía Laparoscópica",
	"474301": "Hernioplastia Laparoscópica",
	"203001": "Hospitalización En Habitación General",
	"203002": "Hospitalización En Unidad De Cuidados Intermedios",
	"203003": "Hospitalización En Unidad De Cuidados Intensivos",
	"301001": "Honorarios Médicos Cirujano",
	"301002": "Honorarios Médicos Especialista",
	"301003": "Honorarios Médicos Anestesiólogo",
	"901001": "Tomografía Axial Computarizada",
	"901002": "Resonancia Magnética Nuclear",
	"901003": "Ecografía Abdominal",
	"401001": "Medicamentos Hospitalarios",
	"401002": "Medicamentos Ambulatorios",
	"501001": "Materiales Quirúrgicos",
	"501002": "Implantes Médicos",
}

// CUPSDescription returns the known description for a CUPS code, or "".
func CUPSDescription(code string) string {
	return knownCUPSDescriptions[code]
}

// cie10Chapters maps the leading letter of an ICD-10 code to its chapter.
var cie10Chapters = map[byte]string{
	'A': "Enfermedades infecciosas y parasitarias",
	'B': "Enfermedades infecciosas y parasitarias",
	'C': "Neoplasias",
	'D': "Enfermedades de la sangre y trastornos inmunitarios",
	'E': "Enfermedades endocrinas, nutricionales y metabólicas",
	'F': "Trastornos mentales y del comportamiento",
	'G': "Enfermedades del sistema nervioso",
	'H': "Enfermedades del ojo y anexos / oído",
	'I': "Enfermedades del sistema circulatorio",
	'J': "Enfermedades del sistema respiratorio",
	'K': "Enfermedades del sistema digestivo",
	'L': "Enfermedades de la piel y tejido subcutáneo",
	'M': "Enfermedades del sistema musculoesquelético",
	'N': "Enfermedades del sistema genitourinario",
	'O': "Embarazo, parto y puerperio",
	'P': "Afecciones originadas en el período perinatal",
	'Q': "Malformaciones congénitas",
	'R': "Síntomas y signos no clasificados",
	'S': "Traumatismos y envenenamientos",
	'T': "Traumatismos y envenenamientos",
	'V': "Causas externas de morbilidad y mortalidad",
	'W': "Causas externas de morbilidad y mortalidad",
	'X': "Causas externas de morbilidad y mortalidad",
	'Y': "Causas externas de morbilidad y mortalidad",
	'Z': "Factores que influyen en el estado de salud",
}

// CIE10Category returns the chapter name for an ICD-10-like code, or
// "Desconocido" when the code is malformed or unmapped.
func CIE10Category(code string) string {
	if len(code) < 3 {
		return "Desconocido"
	}
	if c, ok := cie10Chapters[code[0]]; ok {
		return c
	}
	return "Desconocido"
}

// cieDescriptions is a small best-effort code-to-description table for codes
// common in traffic-accident claims.
var cieDescriptions = map[string]string{
	"S02.0": "Fractura de la bóveda del cráneo",
	"S42.0": "Fractura de la clavícula",
	"S52.5": "Fractura de la epífisis inferior del radio",
	"S72.0": "Fractura del cuello del fémur",
	"S82.8": "Fracturas de otras partes de la pierna",
	"S06.0": "Concusión",
	"T07":   "Traumatismos múltiples no especificados",
	"K80.2": "Cálculo de la vesícula biliar sin colecistitis",
}

func cieDescription(code string) string {
	return cieDescriptions[code]
}
