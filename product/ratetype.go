package product

import (
	"encoding/json"
	"fmt"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/ratetable"
)

// RateType is a named, labelled ratetable.RateTable attached to an AccountType.
// Expressions reach it through accountType.<name>, which dispatches
// get_rate/get_fee/get_daily_fee via ExprCall.
type RateType struct {
	Name  string
	Label string
	Table *ratetable.RateTable
}

func newRateType(name, label string) *RateType {
	return &RateType{Name: name, Label: label, Table: ratetable.New(name)}
}

// AddTier appends a tier effective on valueDate and returns the receiver,
// chaining the way accountType.AddRateType(...).AddTier(...) is meant to.
func (rt *RateType) AddTier(valueDate caldate.Date, to, rate caldate.Decimal) *RateType {
	rt.Table.AddTier(valueDate, to, rate)
	return rt
}

// ExprCall implements expr.MethodCaller, dispatching the rate-table
// methods the expression grammar calls on accountType.<rateTypeName>.
func (rt *RateType) ExprCall(method string, args []interface{}) (interface{}, error) {
	switch method {
	case "get_rate":
		if len(args) != 2 {
			return nil, fmt.Errorf("get_rate(value_date, amount) takes 2 arguments, got %d", len(args))
		}
		valueDate, amount, err := dateAndDecimal(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return rt.Table.RateFor(valueDate, amount)
	case "get_fee":
		if len(args) != 3 {
			return nil, fmt.Errorf("get_fee(value_date, from, to) takes 3 arguments, got %d", len(args))
		}
		valueDate, ok := args[0].(caldate.Date)
		if !ok {
			return nil, fmt.Errorf("get_fee: first argument must be a date, got %T", args[0])
		}
		from, ok := args[1].(caldate.Decimal)
		if !ok {
			return nil, fmt.Errorf("get_fee: second argument must be a decimal, got %T", args[1])
		}
		to, ok := args[2].(caldate.Decimal)
		if !ok {
			return nil, fmt.Errorf("get_fee: third argument must be a decimal, got %T", args[2])
		}
		return rt.Table.FeeBetween(valueDate, from, to)
	case "get_daily_fee":
		if len(args) != 2 {
			return nil, fmt.Errorf("get_daily_fee(value_date, users) takes 2 arguments, got %d", len(args))
		}
		valueDate, users, err := dateAndDecimal(args[0], args[1])
		if err != nil {
			return nil, err
		}
		return rt.Table.DailyFee(valueDate, users)
	default:
		return nil, fmt.Errorf("rate table %s has no method %q", rt.Name, method)
	}
}

type rateTypeWire struct {
	Name      string                        `json:"name"`
	Label     string                        `json:"label"`
	RateTiers map[string][]ratetable.Tier   `json:"rate_tiers"`
}

// MarshalJSON renders {"name","label","rate_tiers"} per spec.md §6. Go's
// encoding/json sorts string map keys when marshalling, which is what
// gives rate_tiers its deterministic YYYY-MM-DD ordering here.
func (rt *RateType) MarshalJSON() ([]byte, error) {
	return json.Marshal(rateTypeWire{Name: rt.Name, Label: rt.Label, RateTiers: rt.Table.Tiers()})
}

// UnmarshalJSON restores a RateType from its wire form.
func (rt *RateType) UnmarshalJSON(b []byte) error {
	var wire rateTypeWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	rt.Name = wire.Name
	rt.Label = wire.Label
	rt.Table = ratetable.New(wire.Name)
	for key, tiers := range wire.RateTiers {
		date, err := caldate.Parse(key)
		if err != nil {
			return fmt.Errorf("rate table %s: %w", wire.Name, err)
		}
		// from_amount is recomputed by AddTier from the running ladder, not
		// replayed verbatim from the wire form.
		for _, tier := range tiers {
			rt.Table.AddTier(date, tier.To, tier.Rate)
		}
	}
	return nil
}

func dateAndDecimal(first, second interface{}) (caldate.Date, caldate.Decimal, error) {
	valueDate, ok := first.(caldate.Date)
	if !ok {
		return caldate.Date{}, caldate.Zero, fmt.Errorf("first argument must be a date, got %T", first)
	}
	amount, ok := second.(caldate.Decimal)
	if !ok {
		return caldate.Date{}, caldate.Zero, fmt.Errorf("second argument must be a decimal, got %T", second)
	}
	return valueDate, amount, nil
}
