package llm

import (
	"strings"
	"testing"
)

const validAnswer = `{"patient_info": {"nombre": "Juan Perez", "documento": "12345678"},
"procedures": [{"codigo": "703101", "descripcion": "Consulta", "cantidad": 1,
"valor_total": 50000, "valor_pagado": 50000, "valor_objetado": 0}]}`

func TestParseStructured_plainJSON(t *testing.T) {
	raw, err := ParseStructured(validAnswer)
	if err != nil {
		t.Fatalf("ParseStructured() error = %v", err)
	}
	if !strings.Contains(string(raw), "Juan Perez") {
		t.Errorf("parsed output lost content: %s", raw)
	}
}

func TestParseStructured_codeFences(t *testing.T) {
	fenced := "```json\n" + validAnswer + "\n```"
	if _, err := ParseStructured(fenced); err != nil {
		t.Errorf("ParseStructured(fenced) error = %v", err)
	}
}

func TestParseStructured_surroundingProse(t *testing.T) {
	wrapped := "Aquí está el resultado:\n" + validAnswer + "\nEspero que sirva."
	if _, err := ParseStructured(wrapped); err != nil {
		t.Errorf("ParseStructured(prose-wrapped) error = %v", err)
	}
}

func TestParseStructured_rejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"no_json", "no hay datos"},
		{"bad_json", "{patient_info:"},
		{"schema_violation", `{"patient_info": {}, "procedures": [{"descripcion": "sin codigo"}]}`},
		{"missing_required", `{"policy_info": {}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if raw, err := ParseStructured(tt.content); err == nil {
				t.Errorf("ParseStructured(%q) accepted: %s", tt.content, raw)
			}
		})
	}
}
