package extract

import (
	"strings"
	"testing"
	"unicode/utf8"
)

const sampleTable = `Código Descripción Cantidad Valor Total Valor Pagado Valor Objetado
703101 CONSULTA MEDICA GENERAL 1 $50.000 $50.000 $0
891701 RADIOGRAFIA DE TORAX 2 $120.000 $0 $120.000 Glosa por pertinencia médica
Total $170.000 $50.000 $120.000
`

func TestProcedureParser_Parse(t *testing.T) {
	p := NewProcedureParser(nil)
	rows := p.Parse(sampleTable)

	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}

	r0 := rows[0]
	if r0.Codigo != "703101" {
		t.Errorf("rows[0].Codigo = %q, want %q", r0.Codigo, "703101")
	}
	if r0.Descripcion != "Consulta Medica General" {
		t.Errorf("rows[0].Descripcion = %q, want %q", r0.Descripcion, "Consulta Medica General")
	}
	if r0.Cantidad != 1 {
		t.Errorf("rows[0].Cantidad = %d, want 1", r0.Cantidad)
	}
	if r0.ValorTotal != 50000 || r0.ValorPagado != 50000 || r0.ValorObjetado != 0 {
		t.Errorf("rows[0] amounts = %v/%v/%v, want 50000/50000/0", r0.ValorTotal, r0.ValorPagado, r0.ValorObjetado)
	}
	if r0.Estado != "aceptado" {
		t.Errorf("rows[0].Estado = %q, want %q", r0.Estado, "aceptado")
	}

	r1 := rows[1]
	if r1.Codigo != "891701" {
		t.Errorf("rows[1].Codigo = %q, want %q", r1.Codigo, "891701")
	}
	if r1.Cantidad != 2 {
		t.Errorf("rows[1].Cantidad = %d, want 2", r1.Cantidad)
	}
	if r1.ValorUnitario != 60000 {
		t.Errorf("rows[1].ValorUnitario = %v, want 60000", r1.ValorUnitario)
	}
	if r1.Estado != "objetado" {
		t.Errorf("rows[1].Estado = %q, want %q", r1.Estado, "objetado")
	}
	if r1.Observacion != "Glosa por pertinencia médica" {
		t.Errorf("rows[1].Observacion = %q", r1.Observacion)
	}
}

func TestProcedureParser_singleRowLine(t *testing.T) {
	p := NewProcedureParser(nil)
	rows := p.Parse("12345 CONSULTA MEDICA GENERAL 1 $50.000 $50.000 $0")
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	r := rows[0]
	if r.Codigo != "12345" || r.Cantidad != 1 || r.ValorTotal != 50000 ||
		r.ValorPagado != 50000 || r.ValorObjetado != 0 || r.Estado != "aceptado" {
		t.Errorf("row = %+v", r)
	}
}

func TestProcedureParser_totalsRowExcluded(t *testing.T) {
	p := NewProcedureParser(nil)
	for _, r := range p.Parse(sampleTable) {
		if r.ValorTotal == 170000 {
			t.Errorf("totals row leaked into procedure rows: %+v", r)
		}
	}
}

func TestProcedureParser_wrappedRows(t *testing.T) {
	text := `Código Descripción Cantidad Valor Total
703101 CONSULTA MEDICA
GENERAL 1 $50.000 $50.000 $0
`
	p := NewProcedureParser(nil)
	rows := p.parseLineOriented(text)
	if len(rows) != 1 {
		t.Fatalf("len(rows) = %d, want 1", len(rows))
	}
	if rows[0].Descripcion != "Consulta Medica General" {
		t.Errorf("Descripcion = %q, want %q", rows[0].Descripcion, "Consulta Medica General")
	}
	if rows[0].ValorTotal != 50000 {
		t.Errorf("ValorTotal = %v, want 50000", rows[0].ValorTotal)
	}
}

func TestParseRow_rejections(t *testing.T) {
	p := NewProcedureParser(nil)

	tests := []struct {
		name  string
		chunk string
	}{
		{"boilerplate_description", "99999 Página 1 de 5 1 $10.000 $10.000 $0"},
		{"value_out_of_range", "70310 PROCEDIMIENTO COSTOSO 1 $999.999.999.999 $0 $0"},
		{"zero_value", "70310 CONSULTA GENERAL 1 $0 $0 $0"},
		{"no_row_shape", "70310 texto suelto sin montos"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if row, ok := p.parseRow(tt.chunk); ok {
				t.Errorf("parseRow(%q) accepted %+v, want rejection", tt.chunk, row)
			}
		})
	}
}

func TestParseRow_uppercaseBoilerplateRejected(t *testing.T) {
	p := NewProcedureParser(nil)

	// Boilerplate lines arrive in all caps and get title-cased during
	// cleanup; rejection must survive either casing.
	chunks := []string{
		"12345 LIQUIDACIÓN DE SINIESTRO SOAT 1 $10.000 $10.000 $0",
		"54321 NÚMERO DE RECLAMACIÓN 890 1 $10.000 $10.000 $0",
		"67890 PÓLIZA : 123456 1 $10.000 $10.000 $0",
	}
	for _, chunk := range chunks {
		if row, ok := p.parseRow(chunk); ok {
			t.Errorf("parseRow(%q) accepted %+v, want boilerplate rejection", chunk, row)
		}
	}
}

func TestCleanObservation_runeSafeTruncation(t *testing.T) {
	obs := cleanObservation(strings.Repeat("pertinencia médica según auditoría ", 20))
	runes := []rune(obs)
	if len(runes) != maxObservationLen {
		t.Fatalf("len(runes) = %d, want %d", len(runes), maxObservationLen)
	}
	if !utf8.ValidString(obs) {
		t.Error("truncated observation is not valid UTF-8")
	}
}

func TestParseRow_descriptionBackfill(t *testing.T) {
	p := NewProcedureParser(nil)
	row, ok := p.parseRow("474101 CX 1 $2.500.000 $2.500.000 $0")
	if !ok {
		t.Fatal("parseRow rejected a valid row")
	}
	if row.Descripcion != "Colecistectomía Laparoscópica" {
		t.Errorf("Descripcion = %q, want backfilled CUPS description", row.Descripcion)
	}
}

func TestCleanDescription(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"CONSULTA MEDICA GENERAL", "Consulta Medica General"},
		{"  $50.000 RADIOGRAFIA DE TORAX 120", "Radiografia DE Torax"},
		{"UCI ADULTOS", "UCI Adultos"},
	}
	for _, tt := range tests {
		if got := cleanDescription(tt.in); got != tt.want {
			t.Errorf("cleanDescription(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
