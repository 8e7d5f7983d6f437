/*
Package product implements the declarative AccountType metadata (spec.md
§3, §6): the immutable description of a product's balance categories,
transaction kinds, rate tables, schedules, and triggered/instalment rules
that account.Account instances are built from.

PURPOSE:
  An AccountType is assembled once, through the typed builder methods
  below, and never mutated again once account.New has consumed it. It
  carries no behaviour of its own beyond name lookup and the two Attr/
  Call hooks expr needs (rate-table access, get_rate/get_fee dispatch);
  the day-stepping logic that actually walks an account forward lives in
  valuation.Engine.

SEE ALSO:
  - account: consumes an AccountType to build an Account instance
  - valuation: reads ScheduledTransactions/TriggeredTransactions/InstalmentType
  - expr: AccountType implements Attributer for accountType.<rateTypeName>
*/
package product

import (
	"fmt"
)

// AccountType is the immutable, declarative shape of a product (spec.md
// §3). Build one through NewAccountType and the AddX methods, then pass
// it to account.New; nothing here is mutated afterwards.
type AccountType struct {
	Name  string
	Label string

	PositionTypes    []*PositionType
	DateTypes        []*DateType
	PropertyTypes    []*PropertyType
	TransactionTypes []*TransactionType
	ScheduleTypes    []*ScheduleType

	ScheduledTransactions []ScheduledTransaction
	TriggeredTransactions []TriggeredTransaction

	RateTypes map[string]*RateType

	InstalmentType *InstalmentType
}

// NewAccountType constructs an empty AccountType ready for builder calls.
func NewAccountType(name, label string) *AccountType {
	return &AccountType{Name: name, Label: label, RateTypes: make(map[string]*RateType)}
}

// AddPositionType registers a named balance category.
func (a *AccountType) AddPositionType(name, label string) *PositionType {
	pt := &PositionType{Name: name, Label: label}
	a.PositionTypes = append(a.PositionTypes, pt)
	return pt
}

// AddDateType registers a named date slot an Account instance carries.
func (a *AccountType) AddDateType(name, label string) *DateType {
	dt := &DateType{Name: name, Label: label}
	a.DateTypes = append(a.DateTypes, dt)
	return dt
}

// AddPropertyType registers a configuration-supplied scalar.
func (a *AccountType) AddPropertyType(name, label string, dataType DataType, required, valueDated bool) *PropertyType {
	pt := &PropertyType{Name: name, Label: label, DataType: dataType, Required: required, ValueDated: valueDated}
	a.PropertyTypes = append(a.PropertyTypes, pt)
	return pt
}

// AddTransactionType registers a transaction kind. Position rules are
// attached afterwards with TransactionType.AddPositionRule.
func (a *AccountType) AddTransactionType(name, label string, maximumPrecision bool) *TransactionType {
	tt := &TransactionType{Name: name, Label: label, MaximumPrecision: maximumPrecision}
	a.TransactionTypes = append(a.TransactionTypes, tt)
	return tt
}

// AddScheduleType registers a schedule template.
func (a *AccountType) AddScheduleType(st *ScheduleType) *ScheduleType {
	a.ScheduleTypes = append(a.ScheduleTypes, st)
	return st
}

// AddScheduledTransaction wires a schedule to the transaction type it
// generates on each occurrence (spec.md §3, §4.6).
func (a *AccountType) AddScheduledTransaction(st *ScheduleType, timing Timing, generated *TransactionType, amountExpression string) {
	a.ScheduledTransactions = append(a.ScheduledTransactions, ScheduledTransaction{
		ScheduleName:             st.Name,
		Timing:                   timing,
		GeneratedTransactionType: generated.Name,
		AmountExpression:         amountExpression,
	})
}

// AddTriggerTransaction wires a follow-up transaction that fires whenever
// a transaction of trigger's type is created (spec.md §4.6).
func (a *AccountType) AddTriggerTransaction(trigger, generated *TransactionType, amountExpression string) {
	a.TriggeredTransactions = append(a.TriggeredTransactions, TriggeredTransaction{
		TriggerTransactionTypeName: trigger.Name,
		GeneratedTransactionType:   generated.Name,
		AmountExpression:           amountExpression,
	})
}

// AddRateType registers a new, empty rate table under name.
func (a *AccountType) AddRateType(name, label string) *RateType {
	rt := newRateType(name, label)
	a.RateTypes[name] = rt
	return rt
}

// AddInstalmentType declares the single instalment mechanism a product
// may carry (spec.md §3).
func (a *AccountType) AddInstalmentType(name, label string, timing Timing, scheduleName string, transactionType *TransactionType, propertyName, solveForZeroPosition, solveForDate string) *InstalmentType {
	it := &InstalmentType{
		Name:                 name,
		Label:                label,
		Timing:               timing,
		ScheduleName:         scheduleName,
		TransactionType:      transactionType.Name,
		PropertyName:         propertyName,
		SolveForZeroPosition: solveForZeroPosition,
		SolveForDate:         solveForDate,
	}
	a.InstalmentType = it
	return it
}

// validateTriggerGraph walks the trigger edges (trigger type → generated
// type) and rejects any cycle: the cascade fires synchronously, so a
// cyclic configuration would recurse without bound at forecast time.
func (a *AccountType) validateTriggerGraph() error {
	edges := make(map[string]string, len(a.TriggeredTransactions))
	for _, tt := range a.TriggeredTransactions {
		edges[tt.TriggerTransactionTypeName] = tt.GeneratedTransactionType
	}
	for start := range edges {
		seen := map[string]bool{start: true}
		for current, ok := edges[start]; ok; current, ok = edges[current] {
			if seen[current] {
				return &ConfigurationError{Msg: fmt.Sprintf("triggered transactions form a cycle through %q", current)}
			}
			seen[current] = true
		}
	}
	return nil
}

// GetTransactionType looks up a transaction type by name. A missing name
// is a *ConfigurationError naming the dangling reference.
func (a *AccountType) GetTransactionType(name string) (*TransactionType, error) {
	for _, tt := range a.TransactionTypes {
		if tt.Name == name {
			return tt, nil
		}
	}
	return nil, &ConfigurationError{Msg: fmt.Sprintf("transaction type %q is not defined", name)}
}

// GetScheduleType looks up a schedule type by name.
func (a *AccountType) GetScheduleType(name string) (*ScheduleType, error) {
	for _, st := range a.ScheduleTypes {
		if st.Name == name {
			return st, nil
		}
	}
	return nil, &ConfigurationError{Msg: fmt.Sprintf("schedule type %q is not defined", name)}
}

// GetRateType looks up a rate type by name.
func (a *AccountType) GetRateType(name string) (*RateType, error) {
	rt, ok := a.RateTypes[name]
	if !ok {
		return nil, &ConfigurationError{Msg: fmt.Sprintf("rate type %q is not defined", name)}
	}
	return rt, nil
}

// GetTriggerTransaction returns the TriggeredTransaction whose trigger
// type is triggerTransactionTypeName, or nil if no trigger is wired to
// that type (spec.md §4.6: at most one trigger fires per creating type).
func (a *AccountType) GetTriggerTransaction(triggerTransactionTypeName string) *TriggeredTransaction {
	for i := range a.TriggeredTransactions {
		if a.TriggeredTransactions[i].TriggerTransactionTypeName == triggerTransactionTypeName {
			return &a.TriggeredTransactions[i]
		}
	}
	return nil
}

// HasPositionType reports whether name is a declared position.
func (a *AccountType) HasPositionType(name string) bool {
	for _, pt := range a.PositionTypes {
		if pt.Name == name {
			return true
		}
	}
	return false
}

// ExprAttr implements expr.Attributer: accountType.<name> resolves to the
// named rate table (spec.md §4.4 — "accountType ... exposes rate tables
// by name").
func (a *AccountType) ExprAttr(name string) (interface{}, error) {
	if rt, ok := a.RateTypes[name]; ok {
		return rt, nil
	}
	return nil, fmt.Errorf("account type %s has no attribute %q", a.Name, name)
}

// Validate checks the forward-reference and tier-contiguity invariants
// spec.md §3 states: every name a rule references must exist in its
// corresponding set, and rate tiers for each effective date must be
// contiguous (tier i's From equals tier i-1's To; tier 0's From is zero).
// Tier contiguity is already enforced by RateTable.AddTier computing From
// from the running ladder, so Validate focuses on forward references and
// cross-namespace name collisions (spec.md §9).
func (a *AccountType) Validate() error {
	positions := make(map[string]bool, len(a.PositionTypes))
	for _, pt := range a.PositionTypes {
		positions[pt.Name] = true
	}
	dates := make(map[string]bool, len(a.DateTypes))
	for _, dt := range a.DateTypes {
		dates[dt.Name] = true
	}
	properties := make(map[string]bool, len(a.PropertyTypes))
	for _, pt := range a.PropertyTypes {
		if positions[pt.Name] || dates[pt.Name] {
			return &ConfigurationError{Msg: fmt.Sprintf("name %q is declared in more than one namespace", pt.Name)}
		}
		properties[pt.Name] = true
	}
	for _, dt := range a.DateTypes {
		if positions[dt.Name] {
			return &ConfigurationError{Msg: fmt.Sprintf("name %q is declared in more than one namespace", dt.Name)}
		}
	}

	names := make(map[string]bool, len(a.TransactionTypes))
	for _, tt := range a.TransactionTypes {
		if names[tt.Name] {
			return &ConfigurationError{Msg: fmt.Sprintf("duplicate transaction type name %q", tt.Name)}
		}
		names[tt.Name] = true
		for _, rule := range tt.PositionRules {
			if !positions[rule.PositionTypeName] {
				return &ConfigurationError{Msg: fmt.Sprintf("transaction type %q references undefined position %q", tt.Name, rule.PositionTypeName)}
			}
		}
	}

	schedules := make(map[string]bool, len(a.ScheduleTypes))
	for _, st := range a.ScheduleTypes {
		if schedules[st.Name] {
			return &ConfigurationError{Msg: fmt.Sprintf("duplicate schedule type name %q", st.Name)}
		}
		schedules[st.Name] = true
	}

	for _, st := range a.ScheduledTransactions {
		if !schedules[st.ScheduleName] {
			return &ConfigurationError{Msg: fmt.Sprintf("scheduled transaction references undefined schedule %q", st.ScheduleName)}
		}
		if !names[st.GeneratedTransactionType] {
			return &ConfigurationError{Msg: fmt.Sprintf("scheduled transaction references undefined transaction type %q", st.GeneratedTransactionType)}
		}
	}
	for _, tt := range a.TriggeredTransactions {
		if !names[tt.TriggerTransactionTypeName] {
			return &ConfigurationError{Msg: fmt.Sprintf("triggered transaction references undefined trigger type %q", tt.TriggerTransactionTypeName)}
		}
		if !names[tt.GeneratedTransactionType] {
			return &ConfigurationError{Msg: fmt.Sprintf("triggered transaction references undefined transaction type %q", tt.GeneratedTransactionType)}
		}
	}
	if err := a.validateTriggerGraph(); err != nil {
		return err
	}
	if a.InstalmentType != nil {
		it := a.InstalmentType
		if !schedules[it.ScheduleName] {
			return &ConfigurationError{Msg: fmt.Sprintf("instalment type references undefined schedule %q", it.ScheduleName)}
		}
		if !names[it.TransactionType] {
			return &ConfigurationError{Msg: fmt.Sprintf("instalment type references undefined transaction type %q", it.TransactionType)}
		}
		if !positions[it.SolveForZeroPosition] {
			return &ConfigurationError{Msg: fmt.Sprintf("instalment type references undefined position %q", it.SolveForZeroPosition)}
		}
		if !dates[it.SolveForDate] {
			return &ConfigurationError{Msg: fmt.Sprintf("instalment type references undefined date %q", it.SolveForDate)}
		}
	}

	return nil
}
