package document

import "strings"

// soatIndicators are phrases that recur in SOAT settlement letters. A
// document matching at least three is treated as the expected format.
var soatIndicators = []string{
	"liquidación de siniestro",
	"víctima",
	"valor de reclamación",
	"soat",
	"póliza",
}

const soatMinIndicators = 3

// LooksLikeSOAT reports whether the text resembles a SOAT settlement letter,
// along with the indicator phrases that matched. Used as an ingest warning
// signal only; extraction proceeds either way.
func LooksLikeSOAT(text string) (bool, []string) {
	lower := strings.ToLower(text)
	var found []string
	for _, ind := range soatIndicators {
		if strings.Contains(lower, ind) {
			found = append(found, ind)
		}
	}
	return len(found) >= soatMinIndicators, found
}
