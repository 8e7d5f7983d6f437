/*
Package account implements Account state (spec.md §3, §4.5): the mutable
positions, properties, schedules, transaction ledger, and instalment
entries a single product instance carries as it is forecast forward in
time. An Account is built once from a product.AccountType and then
mutated by valuation.Engine and, between forecast runs, by the
instalment solver.

PURPOSE:
  account.New performs every piece of construction-time validation and
  derivation spec.md §3's "Lifecycle" paragraph describes: required
  properties are checked, zero positions are seeded for every position a
  transaction rule can touch, schedules are instantiated by evaluating
  their expressions against the partially-built account, and instalment
  entries are seeded from the instalment schedule's materialised dates.

DESIGN:
  Account implements expr.Attributer so amount/trigger expressions can
  read account.<name> without this package depending on expr's grammar:
  resolution order is positions, then non-value-dated properties, then
  value-dated properties (returned as an expr.Indexer so
  account.<name>[value_date] resolves in a second step), then date slots
  (spec.md §9's single resolve(name) order).

SEE ALSO:
  - product: AccountType, the metadata Account is built from
  - valuation: posts transactions onto an Account after New
  - instalment: resets the Account and stamps instalment amounts between runs
  - expr: Eval dispatches account.<name> through ExprAttr/ExprIndex
*/
package account

import (
	"fmt"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/expr"
	"github.com/warp/ledgersim/product"
	"github.com/warp/ledgersim/schedule"
)

// InstalmentEntry is one entry of the ordered instalments mapping
// (spec.md §3): a value date paired with the amount due and whether that
// amount has been fixed (set once and for all) or is still awaiting the
// instalment solver.
type InstalmentEntry struct {
	Date    caldate.Date    `json:"date"`
	Amount  caldate.Decimal `json:"amount"`
	IsFixed bool            `json:"is_fixed"`
}

// Account is the mutable state of one product instance.
type Account struct {
	StartDate       caldate.Date
	AccountTypeName string

	positions  map[string]caldate.Decimal
	properties map[string]interface{}
	valueDated map[string]*ValueDatedProperty
	dates      map[string]caldate.Date
	schedules  map[string]*schedule.Schedule

	transactions []Transaction
	instalments  []*InstalmentEntry
}

// buildOpts collects the optional constructor inputs spec.md §6 names:
// "initial property/date values", "optional pre-built schedules".
type buildOpts struct {
	properties map[string]interface{}
	valueDated map[string][]ValueDatedEntry
	dates      map[string]caldate.Date
	schedules  map[string]*schedule.Schedule
}

// Option configures account.New.
type Option func(*buildOpts)

// WithProperties supplies initial values for non-value-dated properties.
func WithProperties(p map[string]interface{}) Option {
	return func(o *buildOpts) { o.properties = p }
}

// WithValueDatedProperties supplies the initial history for value-dated
// properties, keyed by property name.
func WithValueDatedProperties(p map[string][]ValueDatedEntry) Option {
	return func(o *buildOpts) { o.valueDated = p }
}

// WithDates supplies initial date-slot values.
func WithDates(d map[string]caldate.Date) Option {
	return func(o *buildOpts) { o.dates = d }
}

// WithSchedules overrides individual schedules after expression
// evaluation has instantiated the full set — the "copy with override" pattern
// original_source/tests/test_loanGiven.py uses to hand-tune a schedule's
// start/end/include dates for a test fixture before handing it to a
// fresh Account.
func WithSchedules(s map[string]*schedule.Schedule) Option {
	return func(o *buildOpts) { o.schedules = s }
}

// New builds an Account from at, validating required properties,
// seeding zero positions, instantiating schedules, and seeding
// instalments, in that order (spec.md §3 "Lifecycle").
func New(startDate caldate.Date, at *product.AccountType, opts ...Option) (*Account, error) {
	o := &buildOpts{}
	for _, opt := range opts {
		opt(o)
	}

	acc := &Account{
		StartDate:       startDate,
		AccountTypeName: at.Name,
		positions:       make(map[string]caldate.Decimal),
		properties:      make(map[string]interface{}),
		valueDated:      make(map[string]*ValueDatedProperty),
		dates:           make(map[string]caldate.Date),
		schedules:       make(map[string]*schedule.Schedule),
	}

	for name, d := range o.dates {
		acc.dates[name] = d
	}

	if err := acc.initProperties(at, o); err != nil {
		return nil, err
	}
	acc.initPositions(at)

	if err := acc.instantiateSchedules(at); err != nil {
		return nil, err
	}
	for name, s := range o.schedules {
		acc.schedules[name] = s
	}

	if at.InstalmentType != nil {
		if err := acc.seedInstalments(at); err != nil {
			return nil, err
		}
	}

	return acc, nil
}

func (a *Account) initProperties(at *product.AccountType, o *buildOpts) error {
	for _, pt := range at.PropertyTypes {
		if pt.ValueDated {
			entries := o.valueDated[pt.Name]
			if pt.Required && len(entries) == 0 {
				return &ValidationError{Msg: fmt.Sprintf("required property %q was not supplied", pt.Name)}
			}
			a.valueDated[pt.Name] = newValueDatedProperty(pt.Name, entries)
			continue
		}
		v, ok := o.properties[pt.Name]
		if !ok {
			if pt.Required {
				return &ValidationError{Msg: fmt.Sprintf("required property %q was not supplied", pt.Name)}
			}
			continue
		}
		a.properties[pt.Name] = v
	}
	return nil
}

// initPositions seeds a zero balance for every position any transaction
// type's rules can touch (spec.md §3: "initialises zero positions for
// all types referenced by transaction rules").
func (a *Account) initPositions(at *product.AccountType) {
	for _, tt := range at.TransactionTypes {
		for _, rule := range tt.PositionRules {
			if _, ok := a.positions[rule.PositionTypeName]; !ok {
				a.positions[rule.PositionTypeName] = caldate.Zero
			}
		}
	}
}

func (a *Account) instantiateSchedules(at *product.AccountType) error {
	env := expr.MapEnv{"account": a, "accountType": at}
	for _, st := range at.ScheduleTypes {
		startDate, err := expr.EvalDate(st.StartDateExpression, env)
		if err != nil {
			return err
		}
		interval, err := evalInt(st.IntervalExpression, env)
		if err != nil {
			return err
		}
		sch, err := schedule.New(startDate, st.EndType, st.Frequency, interval, st.BusinessDayAdjustment)
		if err != nil {
			return err
		}
		if st.EndDateExpression != "" {
			endDate, err := expr.EvalDate(st.EndDateExpression, env)
			if err != nil {
				return err
			}
			sch.EndDate = endDate
		}
		if st.NumberOfRepeatsExpression != "" {
			n, err := evalInt(st.NumberOfRepeatsExpression, env)
			if err != nil {
				return err
			}
			sch.NumberOfRepeats = n
		}
		if st.IncludeDatesExpression != "" {
			d, err := expr.EvalDate(st.IncludeDatesExpression, env)
			if err != nil {
				return err
			}
			sch.IncludeDates = append(sch.IncludeDates, d)
		}
		if st.ExcludeDatesExpression != "" {
			d, err := expr.EvalDate(st.ExcludeDatesExpression, env)
			if err != nil {
				return err
			}
			sch.ExcludeDates = append(sch.ExcludeDates, d)
		}
		a.schedules[st.Name] = sch
	}
	return nil
}

func evalInt(expression string, env expr.Env) (int, error) {
	d, err := expr.EvalDecimal(expression, env)
	if err != nil {
		return 0, err
	}
	return int(d.IntPart()), nil
}

func (a *Account) seedInstalments(at *product.AccountType) error {
	it := at.InstalmentType
	sch, ok := a.schedules[it.ScheduleName]
	if !ok {
		return &product.ConfigurationError{Msg: fmt.Sprintf("instalment type %q references undefined schedule %q", it.Name, it.ScheduleName)}
	}
	solveForDate, ok := a.dates[it.SolveForDate]
	if !ok {
		return &ValidationError{Msg: fmt.Sprintf("instalment type %q requires date %q, which was not supplied", it.Name, it.SolveForDate)}
	}
	for _, d := range sch.GetAllDates(solveForDate) {
		a.instalments = append(a.instalments, &InstalmentEntry{Date: d, Amount: caldate.Zero, IsFixed: false})
	}
	return nil
}

// Position returns the current balance of the named position.
func (a *Account) Position(name string) (caldate.Decimal, bool) {
	v, ok := a.positions[name]
	return v, ok
}

// Positions returns a defensive copy of every position balance.
func (a *Account) Positions() map[string]caldate.Decimal {
	out := make(map[string]caldate.Decimal, len(a.positions))
	for k, v := range a.positions {
		out[k] = v
	}
	return out
}

// Property returns the current value of a non-value-dated property.
func (a *Account) Property(name string) (interface{}, bool) {
	v, ok := a.properties[name]
	return v, ok
}

// SetProperty overwrites a non-value-dated property's value — used by the
// instalment solver to write the solved amount back onto
// instalmentType.propertyName once it converges
// (original_source/accounts/metadata.py's InstalmentType.property_name).
func (a *Account) SetProperty(name string, v interface{}) {
	a.properties[name] = v
}

// ValueDatedProperty returns the value of a value-dated property at d,
// resolving to the greatest entry date <= d (spec.md §4.5).
func (a *Account) ValueDatedProperty(name string, d caldate.Date) (interface{}, error) {
	vdp, ok := a.valueDated[name]
	if !ok {
		return nil, fmt.Errorf("account: no value-dated property %q", name)
	}
	return vdp.At(d)
}

// Date returns the named date slot.
func (a *Account) Date(name string) (caldate.Date, bool) {
	d, ok := a.dates[name]
	return d, ok
}

// SetDate overwrites a date slot.
func (a *Account) SetDate(name string, d caldate.Date) {
	a.dates[name] = d
}

// Schedule returns the named materialised schedule.
func (a *Account) Schedule(name string) (*schedule.Schedule, bool) {
	s, ok := a.schedules[name]
	return s, ok
}

// Transactions returns the append-only transaction ledger, in the order
// transactions were created.
func (a *Account) Transactions() []Transaction {
	return a.transactions
}

// Instalments returns the ordered instalment entries.
func (a *Account) Instalments() []*InstalmentEntry {
	return a.instalments
}

// InstalmentAt returns the instalment entry for d, if one was seeded.
func (a *Account) InstalmentAt(d caldate.Date) (*InstalmentEntry, bool) {
	for _, e := range a.instalments {
		if e.Date.Equal(d) {
			return e, true
		}
	}
	return nil, false
}

// SetUnfixedInstalments stamps amount onto every instalment entry not yet
// fixed (spec.md §4.7 step 2 of the solver's objective function).
func (a *Account) SetUnfixedInstalments(amount caldate.Decimal) {
	for _, e := range a.instalments {
		if !e.IsFixed {
			e.Amount = amount
		}
	}
}

// Reset clears mutable forecast state back to its as-built condition —
// zero positions, an empty transaction ledger — without touching
// properties, dates, schedules, or instalment amounts. This is the
// instalment solver's step 1 (spec.md §4.7): schedules and properties
// describe the product and don't change between solver iterations, only
// the positions and transactions a forecast run produces do.
func (a *Account) Reset() {
	for name := range a.positions {
		a.positions[name] = caldate.Zero
	}
	a.transactions = nil
}

// AddTransaction applies every position rule of tt to positions, appends
// txn to the ledger, and returns the position names it touched mapped to
// their new balances (spec.md §4.5).
func (a *Account) AddTransaction(txn Transaction, tt *product.TransactionType) (map[string]caldate.Decimal, error) {
	updated := make(map[string]caldate.Decimal, len(tt.PositionRules))
	for _, rule := range tt.PositionRules {
		current := a.positions[rule.PositionTypeName]
		var next caldate.Decimal
		switch rule.Operation {
		case product.Credit:
			next = current.Add(txn.Amount)
		case product.Debit:
			next = current.Sub(txn.Amount)
		case product.Set:
			next = txn.Amount
		default:
			return nil, fmt.Errorf("account: transaction type %q has an unknown position operation %q", tt.Name, rule.Operation)
		}
		a.positions[rule.PositionTypeName] = next
		updated[rule.PositionTypeName] = next
	}
	a.transactions = append(a.transactions, txn)
	return updated, nil
}

// ExprAttr implements expr.Attributer, resolving account.<name> in the
// fixed order spec.md §9 specifies: positions, non-value-dated
// properties, value-dated properties (as an Indexer), then date slots.
// start_date is recognised first, as the one intrinsic attribute every
// account carries regardless of its type's declarations.
func (a *Account) ExprAttr(name string) (interface{}, error) {
	if name == "start_date" {
		return a.StartDate, nil
	}
	if v, ok := a.positions[name]; ok {
		return v, nil
	}
	if v, ok := a.properties[name]; ok {
		return v, nil
	}
	if vdp, ok := a.valueDated[name]; ok {
		return vdp, nil
	}
	if d, ok := a.dates[name]; ok {
		return d, nil
	}
	return nil, fmt.Errorf("account has no attribute %q", name)
}
