package extract

import (
	"regexp"
	"strconv"
	"strings"
)

var moneyStrip = regexp.MustCompile(`[\$\s]`)

// ParseMoney normalizes a Colombian-formatted money string to a float.
//
// Renderers are inconsistent about separators. The heuristic: if exactly one
// comma is present and at most two digits follow it, the comma is a decimal
// separator and periods are thousands noise ("1.234,56" -> 1234.56).
// Otherwise every comma and period is formatting noise ("1.234.567" ->
// 1234567, "50,000" -> 50000). Unparseable input yields 0.
func ParseMoney(s string) float64 {
	clean := moneyStrip.ReplaceAllString(s, "")
	if clean == "" {
		return 0
	}

	if strings.Count(clean, ",") == 1 {
		idx := strings.Index(clean, ",")
		if decimals := len(clean) - idx - 1; decimals >= 1 && decimals <= 2 {
			clean = strings.ReplaceAll(clean, ".", "")
			clean = strings.Replace(clean, ",", ".", 1)
			v, err := strconv.ParseFloat(clean, 64)
			if err != nil {
				return 0
			}
			return v
		}
	}

	clean = strings.NewReplacer(",", "", ".", "").Replace(clean)
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0
	}
	return v
}
