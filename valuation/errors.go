package valuation

import (
	"fmt"

	"github.com/warp/ledgersim/caldate"
)

// Error wraps an expression failure with the value date and transaction-
// type context it occurred under (spec.md §4.6: "an expression error
// aborts the forecast with the failing expression, the causing date, and
// the transaction-type context" — the failing expression text travels in
// the wrapped expr.Error).
type Error struct {
	ValueDate       caldate.Date
	TransactionType string
	Err             error
}

func (e *Error) Error() string {
	return fmt.Sprintf("valuation: %s on %s: %v", e.TransactionType, e.ValueDate, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
