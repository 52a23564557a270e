// Package export flattens extraction results into a fixed row shape for
// downstream consumers. The column set and its order are a contract:
// reporting pipelines index rows positionally, so columns are never
// reordered or removed, only appended after the existing twenty.
package export

import (
	"strconv"

	"github.com/glosalabs/glosaflow/internal/extract"
)

// Columns is the fixed header, one row per procedure line. Header fields
// (patient, policy, provider, dates) repeat on every row of the same
// section.
var Columns = []string{
	"numero_liquidacion",
	"paciente_nombre",
	"paciente_documento",
	"poliza",
	"numero_reclamacion",
	"aseguradora",
	"ips_nombre",
	"ips_nit",
	"factura",
	"fecha_siniestro",
	"fecha_ingreso",
	"fecha_liquidacion",
	"diagnostico_principal",
	"codigo_cups",
	"descripcion",
	"cantidad",
	"valor_total",
	"valor_objetado",
	"estado",
	"observacion",
}

// Flatten converts a section result into rows matching Columns. A result
// with no procedure lines still yields one row so the header fields are
// not lost; the per-line cells stay empty.
func Flatten(r *extract.Result) [][]string {
	if r == nil {
		return nil
	}

	head := []string{
		r.PolicyInfo.NumeroLiquidacion,
		r.PatientInfo.Nombre,
		r.PatientInfo.Documento,
		r.PolicyInfo.Poliza,
		r.PolicyInfo.NumeroReclamacion,
		r.PolicyInfo.Aseguradora,
		r.IPSInfo.Nombre,
		r.IPSInfo.NIT,
		r.IPSInfo.Factura,
		r.PolicyInfo.FechaSiniestro,
		r.PolicyInfo.FechaIngreso,
		r.PolicyInfo.FechaLiquidacion,
		principalDiagnosis(r.Diagnostics),
	}

	if len(r.Procedures) == 0 {
		row := make([]string, 0, len(Columns))
		row = append(row, head...)
		for i := len(head); i < len(Columns); i++ {
			row = append(row, "")
		}
		return [][]string{row}
	}

	rows := make([][]string, 0, len(r.Procedures))
	for _, p := range r.Procedures {
		row := make([]string, 0, len(Columns))
		row = append(row, head...)
		row = append(row,
			p.Codigo,
			p.Descripcion,
			strconv.Itoa(p.Cantidad),
			money(p.ValorTotal),
			money(p.ValorObjetado),
			p.Estado,
			p.Observacion,
		)
		rows = append(rows, row)
	}
	return rows
}

func principalDiagnosis(dxs []extract.Diagnostic) string {
	for _, dx := range dxs {
		if dx.Tipo == "principal" {
			return dx.Codigo
		}
	}
	if len(dxs) > 0 {
		return dxs[0].Codigo
	}
	return ""
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
