package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	dmyDateRE  = regexp.MustCompile(`^(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})$`)
	ymdDateRE  = regexp.MustCompile(`^(\d{4})[/\-](\d{1,2})[/\-](\d{1,2})$`)
	longDateRE = regexp.MustCompile(`(?i)^(\d{1,2})\s+de\s+(\w+)\s+de\s+(\d{4})$`)
)

var spanishMonths = map[string]int{
	"enero": 1, "febrero": 2, "marzo": 3, "abril": 4,
	"mayo": 5, "junio": 6, "julio": 7, "agosto": 8,
	"septiembre": 9, "octubre": 10, "noviembre": 11, "diciembre": 12,
}

// NormalizeDate converts Colombian date renderings (DD/MM/YYYY, YYYY-MM-DD,
// "12 de marzo de 2024") to YYYY-MM-DD. Unrecognized input is returned as-is;
// the caller keeps whatever the document said.
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	if m := dmyDateRE.FindStringSubmatch(s); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
	}
	if m := ymdDateRE.FindStringSubmatch(s); m != nil {
		month, _ := strconv.Atoi(m[2])
		day, _ := strconv.Atoi(m[3])
		return fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
	}
	if m := longDateRE.FindStringSubmatch(s); m != nil {
		if month, ok := spanishMonths[strings.ToLower(m[2])]; ok {
			day, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%s-%02d-%02d", m[3], month, day)
		}
	}
	return s
}
