package account

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/schedule"
)

// accountWire mirrors the Account field list spec.md §6 names. Go's
// encoding/json sorts string map keys on output, so positions,
// properties, dates, and schedules serialise in a deterministic order
// without any extra bookkeeping here.
type accountWire struct {
	StartDate            caldate.Date                     `json:"start_date"`
	AccountTypeName      string                           `json:"account_type_name"`
	Positions            map[string]caldate.Decimal       `json:"positions"`
	Properties           map[string]propertyValueWire     `json:"properties"`
	ValueDatedProperties map[string][]valueDatedEntryWire `json:"value_dated_properties"`
	Dates                map[string]caldate.Date          `json:"dates"`
	Schedules            map[string]*schedule.Schedule    `json:"schedules"`
	Transactions         []Transaction                    `json:"transactions"`
	Instalments          []*InstalmentEntry               `json:"instalments"`
}

// propertyValueWire tags a property value with its data type so a parsed
// account restores decimals as decimals rather than guessing from the
// JSON token kind (a decimal serialises as a quoted string, which is
// indistinguishable from a string property without the tag).
type propertyValueWire struct {
	DataType string          `json:"data_type"`
	Value    json.RawMessage `json:"value"`
}

type valueDatedEntryWire struct {
	Date     caldate.Date    `json:"date"`
	DataType string          `json:"data_type"`
	Value    json.RawMessage `json:"value"`
}

func encodePropertyValue(v interface{}) (string, json.RawMessage, error) {
	switch x := v.(type) {
	case caldate.Decimal:
		raw, err := json.Marshal(x)
		return "decimal", raw, err
	case string:
		raw, err := json.Marshal(x)
		return "string", raw, err
	case bool:
		raw, err := json.Marshal(x)
		return "boolean", raw, err
	default:
		return "", nil, fmt.Errorf("account: property value of type %T cannot be serialised", v)
	}
}

func decodePropertyValue(dataType string, raw json.RawMessage) (interface{}, error) {
	switch dataType {
	case "decimal":
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	case "string":
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	case "boolean":
		var b bool
		err := json.Unmarshal(raw, &b)
		return b, err
	default:
		return nil, fmt.Errorf("account: unknown property data type %q", dataType)
	}
}

// MarshalJSON renders the account in the field order spec.md §6
// specifies. Schedule memos are dropped by schedule.Schedule's own
// marshaller.
func (a *Account) MarshalJSON() ([]byte, error) {
	wire := accountWire{
		StartDate:            a.StartDate,
		AccountTypeName:      a.AccountTypeName,
		Positions:            a.positions,
		Properties:           make(map[string]propertyValueWire, len(a.properties)),
		ValueDatedProperties: make(map[string][]valueDatedEntryWire, len(a.valueDated)),
		Dates:                a.dates,
		Schedules:            a.schedules,
		Transactions:         a.transactions,
		Instalments:          a.instalments,
	}
	for name, v := range a.properties {
		dataType, raw, err := encodePropertyValue(v)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		wire.Properties[name] = propertyValueWire{DataType: dataType, Value: raw}
	}
	for name, vdp := range a.valueDated {
		entries := make([]valueDatedEntryWire, 0, len(vdp.entries))
		for _, e := range vdp.entries {
			dataType, raw, err := encodePropertyValue(e.Value)
			if err != nil {
				return nil, fmt.Errorf("value-dated property %q: %w", name, err)
			}
			entries = append(entries, valueDatedEntryWire{Date: e.Date, DataType: dataType, Value: raw})
		}
		wire.ValueDatedProperties[name] = entries
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores an account from its wire form. The account type
// itself is not part of the wire shape — AccountTypeName is a weak
// back-reference the host resolves separately (spec.md §3).
func (a *Account) UnmarshalJSON(b []byte) error {
	var wire accountWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	a.StartDate = wire.StartDate
	a.AccountTypeName = wire.AccountTypeName
	a.positions = wire.Positions
	if a.positions == nil {
		a.positions = make(map[string]caldate.Decimal)
	}
	a.properties = make(map[string]interface{}, len(wire.Properties))
	for name, pv := range wire.Properties {
		v, err := decodePropertyValue(pv.DataType, pv.Value)
		if err != nil {
			return fmt.Errorf("property %q: %w", name, err)
		}
		a.properties[name] = v
	}
	a.valueDated = make(map[string]*ValueDatedProperty, len(wire.ValueDatedProperties))
	for name, entries := range wire.ValueDatedProperties {
		decoded := make([]ValueDatedEntry, 0, len(entries))
		for _, e := range entries {
			v, err := decodePropertyValue(e.DataType, e.Value)
			if err != nil {
				return fmt.Errorf("value-dated property %q: %w", name, err)
			}
			decoded = append(decoded, ValueDatedEntry{Date: e.Date, Value: v})
		}
		a.valueDated[name] = newValueDatedProperty(name, decoded)
	}
	a.dates = wire.Dates
	if a.dates == nil {
		a.dates = make(map[string]caldate.Date)
	}
	a.schedules = wire.Schedules
	if a.schedules == nil {
		a.schedules = make(map[string]*schedule.Schedule)
	}
	a.transactions = wire.Transactions
	a.instalments = wire.Instalments
	return nil
}
