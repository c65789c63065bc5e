// Package uom reconciles the free-form unit-of-measure tokens attached to
// workflow stages. Conversions are looked up in an explicit registry keyed
// by (from, to); a pairing the registry does not know passes the value
// through unconverted with an Unknown outcome so callers can surface it.
package uom

import "strings"

// Canonical unit tokens
const (
	Sheets  = "sheets"
	Cartoon = "cartoon"
	Pcs     = "pcs"
)

// Outcome classifies how a conversion was resolved
type Outcome string

const (
	// OutcomeIdentity means the units matched after normalization
	OutcomeIdentity Outcome = "identity"
	// OutcomeConverted means a registered conversion was applied
	OutcomeConverted Outcome = "converted"
	// OutcomeSkipped means a conversion exists but its parameter was
	// unusable (number-up not set), so the value passed through
	OutcomeSkipped Outcome = "skipped"
	// OutcomeUnknown means no conversion is registered for the pairing;
	// the value passed through unconverted
	OutcomeUnknown Outcome = "unknown"
)

// aliases maps raw unit spellings to canonical tokens
var aliases = map[string]string{
	"sht":     Sheets,
	"sheet":   Sheets,
	"sheets":  Sheets,
	"cartoon": Cartoon,
	"carton":  Cartoon,
	"cartons": Cartoon,
	"pc":      Pcs,
	"pcs":     Pcs,
	"piece":   Pcs,
	"pieces":  Pcs,
}

// Normalize lowercases, trims and de-aliases a unit token. Unrecognized
// tokens are returned lowercased rather than rejected.
func Normalize(unit string) string {
	u := strings.ToLower(strings.TrimSpace(unit))
	if canonical, ok := aliases[u]; ok {
		return canonical
	}
	return u
}

// IsSheetUnit reports whether the token names sheets
func IsSheetUnit(unit string) bool {
	return Normalize(unit) == Sheets
}

type pairing struct {
	from string
	to   string
}

// conversionFunc converts a quantity using the stage's number-up. ok is
// false when the parameter makes the conversion unusable.
type conversionFunc func(qty float64, numberUp int) (converted float64, ok bool)

// registry holds the known conversions. Number-up is cartoons per sheet,
// so going to sheets divides and coming back multiplies.
var registry = map[pairing]conversionFunc{
	{Cartoon, Sheets}: func(qty float64, numberUp int) (float64, bool) {
		if numberUp <= 0 {
			return qty, false
		}
		return qty / float64(numberUp), true
	},
	{Sheets, Cartoon}: func(qty float64, numberUp int) (float64, bool) {
		if numberUp <= 0 {
			return qty, false
		}
		return qty * float64(numberUp), true
	},
}

// Convert converts qty from one unit to another. The returned outcome tells
// the caller whether the value was actually converted; on OutcomeSkipped or
// OutcomeUnknown the input value is returned unchanged.
func Convert(qty float64, from, to string, numberUp int) (float64, Outcome) {
	f, t := Normalize(from), Normalize(to)
	if f == t {
		return qty, OutcomeIdentity
	}
	fn, ok := registry[pairing{f, t}]
	if !ok {
		return qty, OutcomeUnknown
	}
	converted, ok := fn(qty, numberUp)
	if !ok {
		return qty, OutcomeSkipped
	}
	return converted, OutcomeConverted
}
