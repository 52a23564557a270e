package export

import (
	"testing"

	"github.com/glosalabs/glosaflow/internal/extract"
)

func sampleResult() *extract.Result {
	return &extract.Result{
		PatientInfo: extract.PatientInfo{Nombre: "Juan Perez", Documento: "1234567890"},
		PolicyInfo: extract.PolicyInfo{
			NumeroLiquidacion: "LIQ-2024-001",
			Poliza:            "POL-555",
			NumeroReclamacion: "REC-9",
			Aseguradora:       "Seguros Andinos",
			FechaSiniestro:    "2024-01-10",
			FechaIngreso:      "2024-01-10",
			FechaLiquidacion:  "2024-02-01",
		},
		IPSInfo: extract.IPSInfo{Nombre: "Clinica Central", NIT: "900123456", Factura: "F-100"},
		Diagnostics: []extract.Diagnostic{
			{Codigo: "S02.1", Tipo: "secundario"},
			{Codigo: "S72.0", Tipo: "principal"},
		},
		Procedures: []extract.ProcedureLine{
			{Codigo: "890201", Descripcion: "Consulta Urgencias", Cantidad: 1, ValorTotal: 50000, ValorObjetado: 0, Estado: "aceptado"},
			{Codigo: "873101", Descripcion: "Radiografia Femur", Cantidad: 2, ValorTotal: 120000, ValorObjetado: 120000, Estado: "objetado", Observacion: "no pertinente"},
		},
	}
}

func TestColumnsCount(t *testing.T) {
	if len(Columns) != 20 {
		t.Fatalf("len(Columns) = %d, want 20", len(Columns))
	}
}

func TestFlatten(t *testing.T) {
	rows := Flatten(sampleResult())
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	for i, row := range rows {
		if len(row) != len(Columns) {
			t.Fatalf("rows[%d] has %d cells, want %d", i, len(row), len(Columns))
		}
	}

	first := rows[0]
	if first[0] != "LIQ-2024-001" {
		t.Errorf("numero_liquidacion = %q", first[0])
	}
	if first[1] != "Juan Perez" || first[2] != "1234567890" {
		t.Errorf("patient cells = %q/%q", first[1], first[2])
	}
	if first[12] != "S72.0" {
		t.Errorf("diagnostico_principal = %q, want S72.0", first[12])
	}
	if first[13] != "890201" || first[15] != "1" || first[16] != "50000.00" {
		t.Errorf("line cells = %q/%q/%q", first[13], first[15], first[16])
	}

	second := rows[1]
	if second[0] != first[0] {
		t.Error("header fields must repeat on every row")
	}
	if second[17] != "120000.00" || second[18] != "objetado" || second[19] != "no pertinente" {
		t.Errorf("objection cells = %q/%q/%q", second[17], second[18], second[19])
	}
}

func TestFlatten_noProcedures(t *testing.T) {
	r := sampleResult()
	r.Procedures = nil

	rows := Flatten(r)
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	row := rows[0]
	if len(row) != len(Columns) {
		t.Fatalf("row has %d cells, want %d", len(row), len(Columns))
	}
	if row[0] != "LIQ-2024-001" {
		t.Errorf("numero_liquidacion = %q", row[0])
	}
	for i := 13; i < len(row); i++ {
		if row[i] != "" {
			t.Errorf("cell %d = %q, want empty", i, row[i])
		}
	}
}

func TestFlatten_nil(t *testing.T) {
	if rows := Flatten(nil); rows != nil {
		t.Errorf("Flatten(nil) = %v, want nil", rows)
	}
}
