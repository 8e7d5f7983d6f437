package instalment_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/warp/ledgersim/account"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/factory"
	"github.com/warp/ledgersim/instalment"
	"github.com/warp/ledgersim/product"
	"github.com/warp/ledgersim/schedule"
	"github.com/warp/ledgersim/valuation"
)

// newLoanAccount builds the 25-year loan: 624000 advance on 2013-03-08,
// interest and redemption cadences re-anchored to the first month-end
// with the end date as an explicit final occurrence — the copy-with-
// override construction the loan product is forecast under.
func newLoanAccount(t *testing.T) (*account.Account, caldate.Date) {
	t.Helper()
	start := caldate.MustParse("2013-03-08")
	end := start.AddYears(25)
	loanType := factory.LoanGiven()

	opts := []account.Option{
		account.WithDates(map[string]caldate.Date{"accrual_start": start, "end_date": end}),
		account.WithProperties(map[string]interface{}{
			"advance": caldate.MustDecimal("624000"),
			"payment": caldate.Zero,
		}),
	}

	seed, err := account.New(start, loanType, opts...)
	require.NoError(t, err)

	overridden := make(map[string]*schedule.Schedule, 2)
	for _, name := range []string{"interest", "redemption"} {
		sch, ok := seed.Schedule(name)
		require.True(t, ok)
		sch.ClearMemo()
		sch.StartDate = caldate.MustParse("2013-03-31")
		sch.EndDate = end
		sch.IncludeDates = append(sch.IncludeDates, end)
		overridden[name] = sch
	}

	acc, err := account.New(start, loanType, append(opts, account.WithSchedules(overridden))...)
	require.NoError(t, err)
	return acc, end
}

func TestSolve_LoanRedemptionPayment(t *testing.T) {
	acc, end := newLoanAccount(t)
	eng := valuation.New(acc, factory.LoanGiven(), end)

	payment, err := instalment.Solve(eng)
	require.NoError(t, err)

	diff := payment.Sub(caldate.MustDecimal("2964.37")).Abs()
	require.Truef(t, diff.LessThanOrEqual(caldate.MustDecimal("0.01")),
		"payment = %s, want 2964.37 ± 0.01", payment)

	// The solved payment is persisted onto the payment property and the
	// unfixed instalment entries.
	property, ok := acc.Property("payment")
	require.True(t, ok)
	require.True(t, property.(caldate.Decimal).Equal(payment))
	for _, entry := range acc.Instalments() {
		require.True(t, entry.Amount.Equal(payment))
	}

	// The account holds the forecast under the rounded payment: the
	// principal is amortised to within the residual the 2dp rounding of
	// three hundred payments can leave.
	principal, ok := acc.Position("principal")
	require.True(t, ok)
	require.Truef(t, principal.Abs().LessThanOrEqual(caldate.MustDecimal("5")),
		"principal after solve = %s", principal)
}

func TestSolve_NoInstalmentType(t *testing.T) {
	acc, err := account.New(caldate.MustParse("2019-01-01"), factory.SavingsAccount(),
		account.WithValueDatedProperties(map[string][]account.ValueDatedEntry{
			"monthlyFee":     {{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal("0")}},
			"withholdingTax": {{Date: caldate.MustParse("2019-01-01"), Value: caldate.MustDecimal("0.2")}},
		}))
	require.NoError(t, err)

	eng := valuation.New(acc, factory.SavingsAccount(), caldate.MustParse("2020-01-01"))
	_, err = instalment.Solve(eng)

	var configErr *product.ConfigurationError
	require.ErrorAs(t, err, &configErr)
}

// A product whose instalment transaction never touches the solve-for
// position: the objective has the same sign at both bracket ends.
func TestSolve_BracketDoesNotStraddleZero(t *testing.T) {
	broken := product.NewAccountType("broken", "Broken Instalments")
	funded := broken.AddPositionType("funded", "Funded Balance")
	side := broken.AddPositionType("side", "Side Balance")

	broken.AddDateType("end_date", "End Date")
	broken.AddPropertyType("opening", "Opening Balance", product.DecimalType, true, false)

	fund := broken.AddTransactionType("fund", "Fund", false).
		AddPositionRule(product.Credit, funded)
	drain := broken.AddTransactionType("drain", "Drain", false).
		AddPositionRule(product.Debit, side)

	once := broken.AddScheduleType(&product.ScheduleType{
		Name:                "once",
		Label:               "Opening Day",
		Frequency:           schedule.Daily,
		EndType:             schedule.EndDate,
		IntervalExpression:  "1",
		StartDateExpression: "account.start_date",
		EndDateExpression:   "account.start_date",
	})
	monthly := broken.AddScheduleType(&product.ScheduleType{
		Name:                "monthly",
		Label:               "Monthly",
		Frequency:           schedule.Monthly,
		EndType:             schedule.NoEnd,
		IntervalExpression:  "1",
		StartDateExpression: "account.start_date + relativedelta(months=1)",
	})

	broken.AddScheduledTransaction(once, product.StartOfDay, fund, "account.opening")
	broken.AddInstalmentType("payments", "Payments", product.StartOfDay,
		monthly.Name, drain, "", "funded", "end_date")

	start := caldate.MustParse("2019-01-01")
	acc, err := account.New(start, broken,
		account.WithDates(map[string]caldate.Date{"end_date": start.AddYears(1)}),
		account.WithProperties(map[string]interface{}{"opening": caldate.MustDecimal("1000")}))
	require.NoError(t, err)

	_, err = instalment.Solve(valuation.New(acc, broken, start.AddYears(1)))

	var solverErr *instalment.Error
	require.True(t, errors.As(err, &solverErr), "expected *instalment.Error, got %v", err)
}
