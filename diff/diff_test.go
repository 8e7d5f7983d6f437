package diff_test

import (
	"testing"

	"github.com/warp/ledgersim/account"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/diff"
)

func txn(valueDate, transactionType, amount string) account.Transaction {
	return account.Transaction{
		ActionDate:          caldate.MustParse("2020-01-01"),
		ValueDate:           caldate.MustParse(valueDate),
		TransactionTypeName: transactionType,
		Amount:              caldate.MustDecimal(amount),
		SystemGenerated:     true,
	}
}

func TestValuationDifference_IdenticalRunsAreEmpty(t *testing.T) {
	run := []account.Transaction{
		txn("2019-01-01", "deposit", "1000"),
		txn("2019-01-31", "fee", "1"),
		txn("2019-01-31", "interestAccrued", "0.0822"),
	}

	if got := diff.ValuationDifference(run, run); len(got) != 0 {
		t.Fatalf("diff of a run against itself = %v, want empty", got)
	}
}

func TestValuationDifference_GroupsByDateAndType(t *testing.T) {
	original := []account.Transaction{
		txn("2019-01-01", "deposit", "1000"),
		txn("2019-01-31", "fee", "1"),
		txn("2019-01-31", "interestAccrued", "0.04"),
		txn("2019-01-31", "interestAccrued", "0.04"),
	}
	new := []account.Transaction{
		txn("2019-01-01", "deposit", "1000"),
		txn("2019-01-31", "fee", "2"),
		txn("2019-01-31", "interestAccrued", "0.08"),
		txn("2019-02-28", "fee", "2"),
	}

	got := diff.ValuationDifference(original, new)

	if len(got) != 2 {
		t.Fatalf("differences on %d dates, want 2: %v", len(got), got)
	}

	// 2019-01-31: the fee total moved 1 -> 2; the accrual totals agree
	// (two 0.04s against one 0.08), so no accrual difference is emitted.
	january := got[caldate.MustParse("2019-01-31")]
	if len(january) != 1 {
		t.Fatalf("differences on 2019-01-31 = %v, want only the fee", january)
	}
	fee := january[0]
	if fee.TransactionType != "fee" || !fee.Amount.Equal(caldate.MustDecimal("1")) {
		t.Errorf("fee difference = %+v, want amount 1", fee)
	}
	if len(fee.Original) != 1 || len(fee.New) != 1 {
		t.Errorf("fee difference carries %d/%d transactions, want 1/1", len(fee.Original), len(fee.New))
	}

	// 2019-02-28: a fee present only in the new run.
	february := got[caldate.MustParse("2019-02-28")]
	if len(february) != 1 {
		t.Fatalf("differences on 2019-02-28 = %v", february)
	}
	if !february[0].Amount.Equal(caldate.MustDecimal("2")) {
		t.Errorf("new-only fee difference = %s, want 2", february[0].Amount)
	}
	if len(february[0].Original) != 0 {
		t.Errorf("new-only group carries %d original transactions", len(february[0].Original))
	}
}

func TestValuationDifference_OrderedByTypeWithinDate(t *testing.T) {
	original := []account.Transaction{
		txn("2019-01-31", "withholdingTax", "0.5"),
		txn("2019-01-31", "capitalized", "2.5"),
	}
	new := []account.Transaction{
		txn("2019-01-31", "withholdingTax", "0.25"),
		txn("2019-01-31", "capitalized", "2.6"),
	}

	got := diff.ValuationDifference(original, new)
	day := got[caldate.MustParse("2019-01-31")]
	if len(day) != 2 {
		t.Fatalf("differences = %v, want 2", day)
	}
	if day[0].TransactionType != "capitalized" || day[1].TransactionType != "withholdingTax" {
		t.Errorf("order = [%s, %s], want [capitalized, withholdingTax]", day[0].TransactionType, day[1].TransactionType)
	}
}
