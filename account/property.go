package account

import (
	"fmt"
	"sort"

	"github.com/warp/ledgersim/caldate"
)

// ValueDatedEntry is one point in a value-dated property's history: the
// value effective from Date onward, until a later entry supersedes it.
type ValueDatedEntry struct {
	Date  caldate.Date
	Value interface{}
}

// ValueDatedProperty is an ordered, date-indexed history of a property's
// value (spec.md §3, §4.5). Lookup resolves to the entry with the
// greatest date less than or equal to the query date — the same seam
// RateTable.tiersOn uses for rate-tier lookup.
type ValueDatedProperty struct {
	name    string
	entries []ValueDatedEntry // sorted ascending by Date
}

func newValueDatedProperty(name string, entries []ValueDatedEntry) *ValueDatedProperty {
	sorted := append([]ValueDatedEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	return &ValueDatedProperty{name: name, entries: sorted}
}

// At returns the value effective on d: the entry with the greatest date
// <= d. Fails PropertyNotDefined if every entry postdates d.
func (v *ValueDatedProperty) At(d caldate.Date) (interface{}, error) {
	for i := len(v.entries) - 1; i >= 0; i-- {
		if v.entries[i].Date.BeforeOrEqual(d) {
			return v.entries[i].Value, nil
		}
	}
	return nil, &PropertyNotDefinedError{Name: v.name, Date: d}
}

// ExprIndex implements expr.Indexer: account.<name>[value_date].
func (v *ValueDatedProperty) ExprIndex(key interface{}) (interface{}, error) {
	d, ok := key.(caldate.Date)
	if !ok {
		return nil, fmt.Errorf("value-dated property %q must be indexed by a date, got %T", v.name, key)
	}
	return v.At(d)
}
