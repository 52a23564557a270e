package extract

import (
	"math"
	"testing"
)

func TestReconcile_labeledTotals(t *testing.T) {
	text := `Valor de Reclamación : $170.000
Valor Objetado : $120.000
Valor a Pagar : $50.000
`
	r := NewReconciler(nil)
	fs := r.Reconcile(text, nil)

	if fs.TotalReclamado != 170000 {
		t.Errorf("TotalReclamado = %v, want 170000", fs.TotalReclamado)
	}
	if fs.TotalObjetado != 120000 {
		t.Errorf("TotalObjetado = %v, want 120000", fs.TotalObjetado)
	}
	if fs.TotalPagado != 50000 {
		t.Errorf("TotalPagado = %v, want 50000", fs.TotalPagado)
	}
	if fs.TotalAceptado != 50000 {
		t.Errorf("TotalAceptado = %v, want derived 50000", fs.TotalAceptado)
	}
	if fs.PorcentajeObjetado != 70.59 {
		t.Errorf("PorcentajeObjetado = %v, want 70.59", fs.PorcentajeObjetado)
	}
	if fs.PorcentajeAceptado != 29.41 {
		t.Errorf("PorcentajeAceptado = %v, want 29.41", fs.PorcentajeAceptado)
	}
	if fs.Inconsistent {
		t.Error("Inconsistent = true, want false")
	}
}

func TestReconcile_tripleFallback(t *testing.T) {
	text := `Resumen de liquidación
1.000.000 600.000 400.000
`
	r := NewReconciler(nil)
	fs := r.Reconcile(text, nil)

	if fs.TotalReclamado != 1000000 {
		t.Errorf("TotalReclamado = %v, want 1000000", fs.TotalReclamado)
	}
	if fs.TotalPagado != 600000 {
		t.Errorf("TotalPagado = %v, want 600000", fs.TotalPagado)
	}
	if fs.TotalObjetado != 400000 {
		t.Errorf("TotalObjetado = %v, want 400000", fs.TotalObjetado)
	}
	if fs.PorcentajeObjetado != 40 {
		t.Errorf("PorcentajeObjetado = %v, want 40", fs.PorcentajeObjetado)
	}
}

func TestReconcile_acceptedDisagreement(t *testing.T) {
	text := `Valor de Reclamación : $100.000
Valor Objetado : $30.000
Valor Aceptado : $80.000
`
	r := NewReconciler(nil)
	fs := r.Reconcile(text, nil)

	if !fs.Inconsistent {
		t.Error("Inconsistent = false, want true (parsed 80000 vs derived 70000)")
	}
	// The parsed value is kept, not corrected.
	if fs.TotalAceptado != 80000 {
		t.Errorf("TotalAceptado = %v, want parsed 80000", fs.TotalAceptado)
	}
}

func TestReconcile_withinTolerance(t *testing.T) {
	text := `Valor de Reclamación : $100.000,50
Valor Objetado : $30.000
Valor Aceptado : $70.000
`
	r := NewReconciler(nil)
	fs := r.Reconcile(text, nil)

	if math.Abs(fs.TotalAceptado-70000) > 0.01 {
		t.Errorf("TotalAceptado = %v, want 70000", fs.TotalAceptado)
	}
	if fs.Inconsistent {
		t.Error("Inconsistent = true for a sub-peso rounding difference")
	}
}

func TestReconcile_rowSumMismatch(t *testing.T) {
	text := "Valor de Reclamación : $100.000\n"
	rows := []ProcedureLine{
		{Codigo: "70310", ValorTotal: 40000},
		{Codigo: "89170", ValorTotal: 30000},
	}
	r := NewReconciler(nil)
	fs := r.Reconcile(text, rows)

	if !fs.Inconsistent {
		t.Error("Inconsistent = false, want true (rows sum 70000, footer 100000)")
	}
	if fs.TotalReclamado != 100000 {
		t.Errorf("TotalReclamado = %v, footer value must be kept", fs.TotalReclamado)
	}
}

func TestReconcile_noTotals(t *testing.T) {
	r := NewReconciler(nil)
	fs := r.Reconcile("sin totales en este texto", nil)

	if fs.TotalReclamado != 0 || fs.PorcentajeObjetado != 0 {
		t.Errorf("empty text produced totals: %+v", fs)
	}
}
