package account_test

import (
	"errors"
	"testing"

	"github.com/warp/ledgersim/account"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/factory"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func savingsProperties(fee, withholdingTax string) []account.Option {
	return []account.Option{
		account.WithValueDatedProperties(map[string][]account.ValueDatedEntry{
			"monthlyFee":     {{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal(fee)}},
			"withholdingTax": {{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal(withholdingTax)}},
		}),
	}
}

func newSavingsAccount(t *testing.T) *account.Account {
	t.Helper()
	acc, err := account.New(caldate.MustParse("2019-01-01"), factory.SavingsAccount(), savingsProperties("0", "0.2")...)
	if err != nil {
		t.Fatalf("account.New: %v", err)
	}
	return acc
}

// =============================================================================
// CONSTRUCTION
// =============================================================================

func TestNew_SeedsZeroPositionsFromTransactionRules(t *testing.T) {
	// GIVEN the savings product
	acc := newSavingsAccount(t)

	// THEN every position a transaction rule touches starts at zero
	positions := acc.Positions()
	if len(positions) != 3 {
		t.Fatalf("expected 3 positions, got %d: %v", len(positions), positions)
	}
	for name, balance := range positions {
		if !balance.IsZero() {
			t.Errorf("position %s = %s, want 0", name, balance)
		}
	}
}

func TestNew_MissingRequiredProperty(t *testing.T) {
	// WHEN the loan product is built without its mandatory properties
	start := caldate.MustParse("2013-03-08")
	_, err := account.New(start, factory.LoanGiven(),
		account.WithDates(map[string]caldate.Date{
			"accrual_start": start,
			"end_date":      start.AddYears(25),
		}))

	// THEN construction fails with a ValidationError
	var validationErr *account.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
}

func TestAddTransaction_AppliesPositionRules(t *testing.T) {
	acc := newSavingsAccount(t)
	savings := factory.SavingsAccount()

	deposit, err := savings.GetTransactionType("deposit")
	if err != nil {
		t.Fatal(err)
	}
	capitalized, err := savings.GetTransactionType("capitalized")
	if err != nil {
		t.Fatal(err)
	}

	day := caldate.MustParse("2019-01-01")
	updated, err := acc.AddTransaction(account.Transaction{
		ActionDate: day, ValueDate: day, TransactionTypeName: "deposit",
		Amount: caldate.MustDecimal("1000"), SystemGenerated: false,
	}, deposit)
	if err != nil {
		t.Fatal(err)
	}
	if got := updated["current"]; !got.Equal(caldate.MustDecimal("1000")) {
		t.Errorf("current = %s after deposit, want 1000", got)
	}

	// capitalized credits current and debits accrued in one posting
	if _, err := acc.AddTransaction(account.Transaction{
		ActionDate: day, ValueDate: day, TransactionTypeName: "capitalized",
		Amount: caldate.MustDecimal("2.50"), SystemGenerated: true,
	}, capitalized); err != nil {
		t.Fatal(err)
	}
	current, _ := acc.Position("current")
	accrued, _ := acc.Position("accrued")
	if !current.Equal(caldate.MustDecimal("1002.50")) {
		t.Errorf("current = %s, want 1002.50", current)
	}
	if !accrued.Equal(caldate.MustDecimal("-2.50")) {
		t.Errorf("accrued = %s, want -2.50", accrued)
	}

	if got := len(acc.Transactions()); got != 2 {
		t.Errorf("ledger length = %d, want 2", got)
	}
}

// =============================================================================
// VALUE-DATED PROPERTIES
// =============================================================================

func TestValueDatedProperty_GreatestKeyAtOrBefore(t *testing.T) {
	acc, err := account.New(caldate.MustParse("2019-01-01"), factory.SavingsAccount(),
		account.WithValueDatedProperties(map[string][]account.ValueDatedEntry{
			"monthlyFee": {{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal("1")}},
			"withholdingTax": {
				{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal("0.2")},
				{Date: caldate.MustParse("2019-07-01"), Value: caldate.MustDecimal("0.1")},
			},
		}))
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		date string
		want string
	}{
		{"2019-01-01", "0.2"},
		{"2019-06-30", "0.2"},
		{"2019-07-01", "0.1"},
		{"2019-12-31", "0.1"},
	}
	for _, tc := range cases {
		got, err := acc.ValueDatedProperty("withholdingTax", caldate.MustParse(tc.date))
		if err != nil {
			t.Fatalf("ValueDatedProperty(%s): %v", tc.date, err)
		}
		if !got.(caldate.Decimal).Equal(caldate.MustDecimal(tc.want)) {
			t.Errorf("withholdingTax[%s] = %v, want %s", tc.date, got, tc.want)
		}
	}

	// Before the first entry the property is undefined.
	_, err = acc.ValueDatedProperty("withholdingTax", caldate.MustParse("2018-12-31"))
	var notDefined *account.PropertyNotDefinedError
	if !errors.As(err, &notDefined) {
		t.Fatalf("expected *PropertyNotDefinedError, got %v", err)
	}
}

// =============================================================================
// INSTALMENT SEEDING
// =============================================================================

func TestNew_SeedsUnfixedZeroInstalments(t *testing.T) {
	start := caldate.MustParse("2013-03-08")
	end := start.AddYears(25)
	acc, err := account.New(start, factory.LoanGiven(),
		account.WithDates(map[string]caldate.Date{"accrual_start": start, "end_date": end}),
		account.WithProperties(map[string]interface{}{
			"advance": caldate.MustDecimal("624000"),
			"payment": caldate.Zero,
		}))
	if err != nil {
		t.Fatal(err)
	}

	instalments := acc.Instalments()
	if len(instalments) == 0 {
		t.Fatal("expected seeded instalments, got none")
	}
	for _, entry := range instalments {
		if entry.IsFixed || !entry.Amount.IsZero() {
			t.Fatalf("instalment %s seeded as (amount=%s, fixed=%t), want unfixed zero", entry.Date, entry.Amount, entry.IsFixed)
		}
	}
	// Redemption runs monthly from one month after the start date.
	if first := instalments[0].Date; !first.Equal(caldate.MustParse("2013-04-08")) {
		t.Errorf("first instalment = %s, want 2013-04-08", first)
	}
}

func TestSetUnfixedInstalments_SkipsFixedEntries(t *testing.T) {
	start := caldate.MustParse("2013-03-08")
	end := start.AddYears(25)
	acc, err := account.New(start, factory.LoanGiven(),
		account.WithDates(map[string]caldate.Date{"accrual_start": start, "end_date": end}),
		account.WithProperties(map[string]interface{}{
			"advance": caldate.MustDecimal("624000"),
			"payment": caldate.Zero,
		}))
	if err != nil {
		t.Fatal(err)
	}

	entries := acc.Instalments()
	entries[0].Amount = caldate.MustDecimal("123.45")
	entries[0].IsFixed = true

	acc.SetUnfixedInstalments(caldate.MustDecimal("500"))

	if !entries[0].Amount.Equal(caldate.MustDecimal("123.45")) {
		t.Errorf("fixed entry overwritten to %s", entries[0].Amount)
	}
	for _, entry := range entries[1:] {
		if !entry.Amount.Equal(caldate.MustDecimal("500")) {
			t.Fatalf("unfixed entry %s = %s, want 500", entry.Date, entry.Amount)
		}
	}
}
