/*
Package valuation implements the day-stepping forecast engine (spec.md
§4.6): the loop that walks an account forward one value date at a time,
firing scheduled transactions, externally injected transactions, and the
synchronous trigger cascade that follows every created transaction.

ORDERING CONTRACT (spec.md §4.6, §5):
  Within a value date the sequence is fixed — start-of-day scheduled
  transactions in declaration order, then the start-of-day instalment (if
  the product declares one), then external transactions in their input
  order, then end-of-day scheduled transactions in declaration order.
  Every triggered transaction fires immediately after its triggering
  transaction completes, before the next sibling. Determinism is a hard
  requirement: identical inputs produce byte-identical transaction lists.

ERROR POLICY (spec.md §7):
  The engine catches nothing. An expression failure aborts the forecast
  wrapped in *Error naming the value date and transaction-type context,
  leaving the account partially mutated — callers are expected to discard
  it.

USAGE:
  eng := valuation.New(acc, accountType, actionDate)
  err := eng.Forecast(horizon, valuation.GroupByDate(externals))

SEE ALSO:
  - account: the state this engine mutates
  - instalment: drives Forecast as the solver's objective function
  - diff: compares the transaction streams of two forecast runs
*/
package valuation

import (
	"fmt"

	"github.com/warp/ledgersim/account"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/expr"
	"github.com/warp/ledgersim/product"
)

// ExternalTransaction is a transaction injected from outside the product
// metadata — a deposit, an advance — identified by transaction type,
// amount, and the value date it lands on.
type ExternalTransaction struct {
	TransactionTypeName string
	Amount              caldate.Decimal
	ValueDate           caldate.Date
}

// GroupByDate buckets external transactions by value date, preserving
// their input order within each date.
func GroupByDate(externals []ExternalTransaction) map[caldate.Date][]ExternalTransaction {
	grouped := make(map[caldate.Date][]ExternalTransaction)
	for _, ext := range externals {
		grouped[ext.ValueDate] = append(grouped[ext.ValueDate], ext)
	}
	return grouped
}

// Engine forecasts one account. It holds exclusive mutable access to the
// account for the duration of Forecast; the account type is read-only and
// may be shared across engines.
type Engine struct {
	account     *account.Account
	accountType *product.AccountType
	actionDate  caldate.Date

	traceEnabled bool
	trace        []account.Transaction
}

// Option configures an Engine.
type Option func(*Engine)

// WithTrace records every created transaction in an inspection list
// alongside the account's own ledger.
func WithTrace() Option {
	return func(e *Engine) { e.traceEnabled = true }
}

// New builds an Engine over acc. actionDate is stamped on every generated
// transaction as the notional "as-of" date of the forecast request.
func New(acc *account.Account, accountType *product.AccountType, actionDate caldate.Date, opts ...Option) *Engine {
	e := &Engine{account: acc, accountType: accountType, actionDate: actionDate}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Account returns the account this engine forecasts.
func (e *Engine) Account() *account.Account { return e.account }

// AccountType returns the read-only product metadata.
func (e *Engine) AccountType() *product.AccountType { return e.accountType }

// ActionDate returns the as-of date stamped on generated transactions.
func (e *Engine) ActionDate() caldate.Date { return e.actionDate }

// Trace returns the transactions recorded since the last ClearTrace, in
// creation order. Empty unless the engine was built WithTrace.
func (e *Engine) Trace() []account.Transaction { return e.trace }

// ClearTrace discards the recorded trace.
func (e *Engine) ClearTrace() { e.trace = nil }

// Forecast walks value dates from the account's start date up to and
// including horizon's start-of-day work, per the spec.md §4.6 loop:
//
//	value_date = startDate
//	startOfDay; externals
//	while value_date < horizon:
//	    endOfDay; value_date += 1 day; startOfDay; externals
func (e *Engine) Forecast(horizon caldate.Date, externals map[caldate.Date][]ExternalTransaction) error {
	valueDate := e.account.StartDate

	if err := e.startOfDay(valueDate); err != nil {
		return err
	}
	if err := e.processExternals(valueDate, externals); err != nil {
		return err
	}

	for valueDate.Before(horizon) {
		if err := e.endOfDay(valueDate); err != nil {
			return err
		}

		valueDate = valueDate.AddDays(1)

		if err := e.startOfDay(valueDate); err != nil {
			return err
		}
		if err := e.processExternals(valueDate, externals); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) startOfDay(valueDate caldate.Date) error {
	for _, st := range e.accountType.ScheduledTransactions {
		if st.Timing == product.StartOfDay {
			if err := e.createIfDue(valueDate, st); err != nil {
				return err
			}
		}
	}
	return e.processInstalment(valueDate, product.StartOfDay)
}

func (e *Engine) endOfDay(valueDate caldate.Date) error {
	for _, st := range e.accountType.ScheduledTransactions {
		if st.Timing == product.EndOfDay {
			if err := e.createIfDue(valueDate, st); err != nil {
				return err
			}
		}
	}
	return e.processInstalment(valueDate, product.EndOfDay)
}

func (e *Engine) processExternals(valueDate caldate.Date, externals map[caldate.Date][]ExternalTransaction) error {
	for _, ext := range externals[valueDate] {
		tt, err := e.accountType.GetTransactionType(ext.TransactionTypeName)
		if err != nil {
			return err
		}
		if err := e.createTransaction(tt, valueDate, ext.Amount, false); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) createIfDue(valueDate caldate.Date, st product.ScheduledTransaction) error {
	sched, ok := e.account.Schedule(st.ScheduleName)
	if !ok {
		return &product.ConfigurationError{Msg: fmt.Sprintf("scheduled transaction references schedule %q, which the account does not carry", st.ScheduleName)}
	}
	if !sched.IsDue(valueDate) {
		return nil
	}

	tt, err := e.accountType.GetTransactionType(st.GeneratedTransactionType)
	if err != nil {
		return err
	}
	amount, err := e.evalAmount(st.AmountExpression, valueDate, tt, nil)
	if err != nil {
		return err
	}
	if amount.IsZero() {
		return nil
	}
	return e.createTransaction(tt, valueDate, amount, true)
}

// processInstalment posts the instalment entry due on valueDate, if the
// product declares an instalment type with the given timing. Zero
// amounts are skipped, matching scheduled-transaction behaviour.
func (e *Engine) processInstalment(valueDate caldate.Date, timing product.Timing) error {
	it := e.accountType.InstalmentType
	if it == nil || it.Timing != timing {
		return nil
	}
	entry, ok := e.account.InstalmentAt(valueDate)
	if !ok || entry.Amount.IsZero() {
		return nil
	}
	tt, err := e.accountType.GetTransactionType(it.TransactionType)
	if err != nil {
		return err
	}
	return e.createTransaction(tt, valueDate, entry.Amount, true)
}

// evalAmount evaluates an amount expression in the standard lexical
// environment, rounding the result to 2 fractional digits half-away-from-
// zero unless the generated type is flagged maximum-precision (spec.md
// §4.6 — daily accrual amounts keep their full scale to avoid systematic
// truncation error).
func (e *Engine) evalAmount(expression string, valueDate caldate.Date, tt *product.TransactionType, triggering *account.Transaction) (caldate.Decimal, error) {
	env := expr.MapEnv{
		"account":     e.account,
		"accountType": e.accountType,
		"value_date":  valueDate,
	}
	if triggering != nil {
		env["transaction"] = *triggering
	}
	amount, err := expr.EvalDecimal(expression, env)
	if err != nil {
		return caldate.Zero, &Error{ValueDate: valueDate, TransactionType: tt.Name, Err: err}
	}
	if !tt.MaximumPrecision {
		amount = caldate.RoundHalfAwayFromZero(amount, 2)
	}
	return amount, nil
}

// createTransaction posts a transaction and synchronously fires the
// trigger wired to its type, if any, before returning — the cascade runs
// depth-first so a chain completes before the next sibling at the same
// level starts (spec.md §4.6).
func (e *Engine) createTransaction(tt *product.TransactionType, valueDate caldate.Date, amount caldate.Decimal, systemGenerated bool) error {
	txn := account.Transaction{
		ActionDate:          e.actionDate,
		ValueDate:           valueDate,
		TransactionTypeName: tt.Name,
		Amount:              amount,
		SystemGenerated:     systemGenerated,
	}
	if _, err := e.account.AddTransaction(txn, tt); err != nil {
		return err
	}
	if e.traceEnabled {
		e.trace = append(e.trace, txn)
	}

	trigger := e.accountType.GetTriggerTransaction(tt.Name)
	if trigger == nil {
		return nil
	}
	generated, err := e.accountType.GetTransactionType(trigger.GeneratedTransactionType)
	if err != nil {
		return err
	}
	triggerAmount, err := e.evalAmount(trigger.AmountExpression, valueDate, generated, &txn)
	if err != nil {
		return err
	}
	return e.createTransaction(generated, valueDate, triggerAmount, true)
}
