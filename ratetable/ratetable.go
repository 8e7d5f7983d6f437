/*
Package ratetable implements date-indexed, tiered rate tables (spec.md §4.3).

PURPOSE:
  A RateTable answers "what rate applies to this amount, as of this date"
  and "what fee accrues between these two amounts, as of this date" for a
  RateType attached to product.AccountType. Tiers are grouped under an
  effective date so a product can redefine its entire tier ladder on a
  given day without disturbing history — looking up a value date finds the
  ladder in force on or before that date.

DESIGN:
  Tiers are keyed by effective-date string (YYYY-MM-DD) rather than
  caldate.Date, so lookup is a deterministic string comparison with no
  need to keep effective dates sorted as caldate.Date values — map
  iteration order is irrelevant once the keys are collected and compared
  as strings, which sort identically to the dates they represent.

TWO DIFFERENT SEAMS:
  RateFor treats a tier's [from, to] bounds as inclusive on both ends — an
  amount sitting exactly on a tier boundary matches the lower tier.
  FeeBetween integrates across tiers with a half-open [from, to) seam
  instead, so the boundary amount belongs to the upper tier during
  piecewise integration. Both seams are taken verbatim from the rate-table
  semantics this module was translated from; they are deliberately
  different because one answers a point query and the other walks a
  partition.

SEE ALSO:
  - product: RateType wraps a RateTable inside AccountType
  - expr: accountType.<rate>.get_rate(...)/get_fee(...) dispatch here
*/
package ratetable

import (
	"fmt"
	"sort"

	"github.com/warp/ledgersim/caldate"
)

// Tier is one rung of a rate ladder: amounts in [From, To] attract Rate.
type Tier struct {
	From caldate.Decimal `json:"from_amount"`
	To   caldate.Decimal `json:"to_amount"`
	Rate caldate.Decimal `json:"rate"`
}

// Error is RateLookupError from spec.md §7.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "ratetable: " + e.Msg }

// RateTable is a date-indexed ladder of amount tiers.
type RateTable struct {
	Name  string
	tiers map[string][]Tier
}

// New constructs an empty, named rate table.
func New(name string) *RateTable {
	return &RateTable{Name: name, tiers: make(map[string][]Tier)}
}

func effectiveKey(valueDate caldate.Date) string { return valueDate.String() }

// Tiers exposes the full effective-date-keyed ladder, for serialisation
// (product.RateType's JSON encoding) and inspection. Callers must not
// mutate the returned map.
func (rt *RateTable) Tiers() map[string][]Tier { return rt.tiers }

// AddTier appends a tier to the ladder effective on valueDate. The tier's
// lower bound is implicit: it is the previous tier's upper bound (or zero
// for the first tier added under that effective date), matching the
// original configuration's add_tier contract.
func (rt *RateTable) AddTier(valueDate caldate.Date, to, rate caldate.Decimal) *RateTable {
	key := effectiveKey(valueDate)
	from := rt.maxToAmount(key)
	rt.tiers[key] = append(rt.tiers[key], Tier{From: from, To: to, Rate: rate})
	return rt
}

func (rt *RateTable) maxToAmount(key string) caldate.Decimal {
	tiers, ok := rt.tiers[key]
	if !ok || len(tiers) == 0 {
		return caldate.Zero
	}
	max := tiers[0].To
	for _, t := range tiers[1:] {
		if t.To.GreaterThan(max) {
			max = t.To
		}
	}
	return max
}

// tiersOn returns the tier ladder in force on valueDate: the ladder keyed
// by the greatest effective date less than or equal to valueDate.
func (rt *RateTable) tiersOn(valueDate caldate.Date) ([]Tier, error) {
	key := effectiveKey(valueDate)
	var candidates []string
	for k := range rt.tiers {
		if k <= key {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return nil, &Error{Msg: fmt.Sprintf("no rate tiers found for date %s in rate table %s", valueDate, rt.Name)}
	}
	sort.Strings(candidates)
	return rt.tiers[candidates[len(candidates)-1]], nil
}

// RateFor returns the rate applicable to amount as of valueDate. A
// negative amount always returns zero without consulting the ladder,
// since no product ever charges interest on a negative balance here.
func (rt *RateTable) RateFor(valueDate caldate.Date, amount caldate.Decimal) (caldate.Decimal, error) {
	if amount.IsNegative() {
		return caldate.Zero, nil
	}
	tiers, err := rt.tiersOn(valueDate)
	if err != nil {
		return caldate.Zero, err
	}
	for _, t := range tiers {
		if t.From.LessThanOrEqual(amount) && amount.LessThanOrEqual(t.To) {
			return t.Rate, nil
		}
	}
	return caldate.Zero, &Error{Msg: fmt.Sprintf("no rate tier found for amount %s on date %s in rate table %s", amount, valueDate, rt.Name)}
}

// FeeBetween integrates the per-unit rate across [from, to] as of
// valueDate, walking the tier ladder in declaration order and applying
// each tier's rate to the slice of [from, to] that falls within it.
func (rt *RateTable) FeeBetween(valueDate caldate.Date, from, to caldate.Decimal) (caldate.Decimal, error) {
	tiers, err := rt.tiersOn(valueDate)
	if err != nil {
		return caldate.Zero, err
	}

	processed := from
	fee := caldate.Zero

	for _, t := range tiers {
		if t.From.LessThanOrEqual(processed) && processed.LessThan(t.To) {
			partTo := t.To
			exit := false
			if to.LessThan(t.To) {
				partTo = to
				exit = true
			}
			part := partTo.Sub(processed)
			fee = fee.Add(part.Mul(t.Rate))
			processed = processed.Add(part)
			if exit {
				break
			}
		}
	}

	return fee, nil
}

// DailyFee amortises FeeBetween(valueDate, 0, users) evenly over the days in
// valueDate's month — the per-day cost of a user-count-tiered monthly fee.
func (rt *RateTable) DailyFee(valueDate caldate.Date, users caldate.Decimal) (caldate.Decimal, error) {
	monthlyFee, err := rt.FeeBetween(valueDate, caldate.Zero, users)
	if err != nil {
		return caldate.Zero, err
	}
	days := caldate.MustDecimal(fmt.Sprintf("%d", valueDate.DaysInMonth()))
	return monthlyFee.Div(days), nil
}
