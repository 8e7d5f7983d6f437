package account

import (
	"fmt"

	"github.com/warp/ledgersim/caldate"
)

// Transaction is one entry of the append-only ledger (spec.md §3): an
// amount, the type whose position rules it was posted under, the value
// date it takes economic effect, and the action date the forecast was
// requested at. Immutable once appended.
type Transaction struct {
	ActionDate          caldate.Date    `json:"action_date"`
	ValueDate           caldate.Date    `json:"value_date"`
	TransactionTypeName string          `json:"transaction_type"`
	Amount              caldate.Decimal `json:"amount"`
	SystemGenerated     bool            `json:"system_generated"`
}

// String renders a one-line human-readable form, used by the valuation
// engine's trace output.
func (t Transaction) String() string {
	return fmt.Sprintf("actionDate = %s, valueDate = %s, transactionType = %s, amount = %s, systemGenerated = %t",
		t.ActionDate, t.ValueDate, t.TransactionTypeName, t.Amount, t.SystemGenerated)
}

// ExprAttr implements expr.Attributer so trigger expressions can read
// transaction.amount (and the other fields) when a triggered transaction's
// amount formula runs with the triggering transaction in scope.
func (t Transaction) ExprAttr(name string) (interface{}, error) {
	switch name {
	case "amount":
		return t.Amount, nil
	case "value_date":
		return t.ValueDate, nil
	case "action_date":
		return t.ActionDate, nil
	case "transaction_type":
		return t.TransactionTypeName, nil
	case "system_generated":
		return t.SystemGenerated, nil
	default:
		return nil, fmt.Errorf("transaction has no attribute %q", name)
	}
}
