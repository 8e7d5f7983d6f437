package product

import "encoding/json"

// accountTypeWire mirrors the deterministic JSON shape spec.md §6
// mandates, field order included (Go's encoding/json always emits struct
// fields in declaration order, so this wire struct's field order IS the
// wire order).
type accountTypeWire struct {
	Name                  string                  `json:"name"`
	Label                 string                  `json:"label"`
	TransactionTypes      []*TransactionType      `json:"transaction_types"`
	PositionTypes         []*PositionType         `json:"position_types"`
	DateTypes             []*DateType             `json:"date_types"`
	PropertyTypes         []*PropertyType         `json:"property_types"`
	ScheduleTypes         []*ScheduleType         `json:"schedule_types"`
	ScheduledTransactions []ScheduledTransaction  `json:"scheduled_transactions"`
	TriggeredTransactions []TriggeredTransaction  `json:"triggered_transactions"`
	RateTypes             map[string]*RateType    `json:"rate_types"`
	InstalmentType        *InstalmentType         `json:"instalment_type"`
}

// MarshalJSON renders the AccountType in the field order spec.md §6
// specifies.
func (a *AccountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(accountTypeWire{
		Name:                  a.Name,
		Label:                 a.Label,
		TransactionTypes:      a.TransactionTypes,
		PositionTypes:         a.PositionTypes,
		DateTypes:             a.DateTypes,
		PropertyTypes:         a.PropertyTypes,
		ScheduleTypes:         a.ScheduleTypes,
		ScheduledTransactions: a.ScheduledTransactions,
		TriggeredTransactions: a.TriggeredTransactions,
		RateTypes:             a.RateTypes,
		InstalmentType:        a.InstalmentType,
	})
}

// UnmarshalJSON restores an AccountType from its wire form.
func (a *AccountType) UnmarshalJSON(b []byte) error {
	var wire accountTypeWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	a.Name = wire.Name
	a.Label = wire.Label
	a.TransactionTypes = wire.TransactionTypes
	a.PositionTypes = wire.PositionTypes
	a.DateTypes = wire.DateTypes
	a.PropertyTypes = wire.PropertyTypes
	a.ScheduleTypes = wire.ScheduleTypes
	a.ScheduledTransactions = wire.ScheduledTransactions
	a.TriggeredTransactions = wire.TriggeredTransactions
	a.RateTypes = wire.RateTypes
	if a.RateTypes == nil {
		a.RateTypes = make(map[string]*RateType)
	}
	a.InstalmentType = wire.InstalmentType
	return nil
}
