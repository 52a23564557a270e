package extract

import "testing"

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"$ 1.234.567", 1234567},
		{"1.234,56", 1234.56},
		{"50,000", 50000},
		{"1,234,567", 1234567},
		{"123,4", 123.4},
		{"$0", 0},
		{"", 0},
		{"$", 0},
		{"abc", 0},
		{"50.000", 50000},
	}
	for _, tt := range tests {
		if got := ParseMoney(tt.in); got != tt.want {
			t.Errorf("ParseMoney(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"15/03/2024", "2024-03-15"},
		{"1/3/2024", "2024-03-01"},
		{"2024-03-15", "2024-03-15"},
		{"3 de enero de 2024", "2024-01-03"},
		{"12 de Marzo de 2023", "2023-03-12"},
		{"", ""},
		{"sin fecha", "sin fecha"},
	}
	for _, tt := range tests {
		if got := NormalizeDate(tt.in); got != tt.want {
			t.Errorf("NormalizeDate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
