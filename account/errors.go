package account

import (
	"fmt"

	"github.com/warp/ledgersim/caldate"
)

// ValidationError is spec.md §7's ValidationError: a required property
// was not supplied at Account construction, or a date an instalment type
// requires is missing.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return "validation error: " + e.Msg }

// PropertyNotDefinedError is spec.md §4.5's PropertyNotDefined: a
// value-dated property lookup found no entry at or before the queried
// date.
type PropertyNotDefinedError struct {
	Name string
	Date caldate.Date
}

func (e *PropertyNotDefinedError) Error() string {
	return fmt.Sprintf("property %q is not defined for date %s", e.Name, e.Date)
}
