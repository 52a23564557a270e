package extract

import "testing"

func TestValidCUPSCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"70310", true},
		{"703101", true},
		{"1234", false},
		{"1234567", false},
		{"70A10", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := ValidCUPSCode(tt.code); got != tt.want {
			t.Errorf("ValidCUPSCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidCIE10Code(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"S42.0", true},
		{"S42", true},
		{"K80.2", true},
		{"s42.0", false},
		{"S4", false},
		{"S42.10", false},
	}
	for _, tt := range tests {
		if got := ValidCIE10Code(tt.code); got != tt.want {
			t.Errorf("ValidCIE10Code(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestValidColombianID(t *testing.T) {
	tests := []struct {
		doc     string
		docType string
		want    bool
	}{
		{"12345678", "CC", true},
		{"12345", "CC", false},
		{"12345678901", "CC", false},
		{"900123456", "NIT", true},
		{"12345678", "NIT", false},
		{"1098765432", "TI", true},
		{"1234567", "TI", false},
		{"12345678", "CE", true},
	}
	for _, tt := range tests {
		if got := ValidColombianID(tt.doc, tt.docType); got != tt.want {
			t.Errorf("ValidColombianID(%q, %q) = %v, want %v", tt.doc, tt.docType, got, tt.want)
		}
	}
}

func TestCIE10Category(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"S42.0", "Traumatismos y envenenamientos"},
		{"K80.2", "Enfermedades del sistema digestivo"},
		{"J18", "Enfermedades del sistema respiratorio"},
		{"U07", "Desconocido"},
		{"X", "Desconocido"},
	}
	for _, tt := range tests {
		if got := CIE10Category(tt.code); got != tt.want {
			t.Errorf("CIE10Category(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}
