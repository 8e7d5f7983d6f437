/*
Package diff compares the transaction streams of two simulation runs
(spec.md §4.8). Both streams are grouped by (value date, transaction
type); every group whose amount totals differ produces a
TransactionDifference carrying the per-group delta and the underlying
transactions from each side.

USAGE:
  differences := diff.ValuationDifference(originalRun, newRun)
  for _, d := range differences[someDate] { ... }

Running a stream against itself yields an empty map — the difference
engine is the cheapest regression check for a product-metadata change:
forecast before, forecast after, diff the two ledgers.
*/
package diff

import (
	"sort"

	"github.com/warp/ledgersim/account"
	"github.com/warp/ledgersim/caldate"
)

// TransactionDifference is one divergent (value date, transaction type)
// group: Amount is the new total minus the original total, and the two
// slices hold the contributing transactions from each run.
type TransactionDifference struct {
	ValueDate       caldate.Date
	TransactionType string
	Amount          caldate.Decimal
	Original        []account.Transaction
	New             []account.Transaction
}

type groupKey struct {
	valueDate       caldate.Date
	transactionType string
}

type group struct {
	originalTotal caldate.Decimal
	newTotal      caldate.Decimal
	original      []account.Transaction
	new           []account.Transaction
}

// ValuationDifference groups both transaction lists by (value date,
// transaction type) and returns, keyed by value date, the ordered list of
// groups whose amount totals differ. Within a date, differences are
// ordered by transaction type name so two invocations over the same
// inputs render identically.
func ValuationDifference(original, new []account.Transaction) map[caldate.Date][]TransactionDifference {
	groups := make(map[groupKey]*group)

	for _, txn := range original {
		g := lookup(groups, txn)
		g.originalTotal = g.originalTotal.Add(txn.Amount)
		g.original = append(g.original, txn)
	}
	for _, txn := range new {
		g := lookup(groups, txn)
		g.newTotal = g.newTotal.Add(txn.Amount)
		g.new = append(g.new, txn)
	}

	result := make(map[caldate.Date][]TransactionDifference)
	for key, g := range groups {
		if g.originalTotal.Equal(g.newTotal) {
			continue
		}
		result[key.valueDate] = append(result[key.valueDate], TransactionDifference{
			ValueDate:       key.valueDate,
			TransactionType: key.transactionType,
			Amount:          g.newTotal.Sub(g.originalTotal),
			Original:        g.original,
			New:             g.new,
		})
	}
	for _, differences := range result {
		sort.Slice(differences, func(i, j int) bool {
			return differences[i].TransactionType < differences[j].TransactionType
		})
	}
	return result
}

func lookup(groups map[groupKey]*group, txn account.Transaction) *group {
	key := groupKey{valueDate: txn.ValueDate, transactionType: txn.TransactionTypeName}
	g, ok := groups[key]
	if !ok {
		g = &group{}
		groups[key] = g
	}
	return g
}
