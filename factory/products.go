/*
Package factory provides ready-made product definitions.

PURPOSE:
  Assembles complete product.AccountType instances for the two canonical
  products — an interest-bearing savings account and an amortising loan —
  through the typed builder surface. These double as working examples of
  how a product is declared and as the fixtures the engine's scenario
  tests forecast against.

KEY FEATURES:
  - SavingsAccount: daily interest accrual, monthly capitalisation with a
    withholding-tax trigger, and a monthly account fee
  - LoanGiven: single-day advance, daily accrual, monthly capitalisation
    into principal, and a solver-driven redemption instalment

USAGE:
  accountType := factory.SavingsAccount()
  acc, err := account.New(start, accountType,
      account.WithValueDatedProperties(...), ...)

SEE ALSO:
  - product: the builder methods these functions call
  - valuation: forecasts accounts built from these types
  - instalment: solves LoanGiven's redemption payment
*/
package factory

import (
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/calendar"
	"github.com/warp/ledgersim/product"
	"github.com/warp/ledgersim/schedule"
)

// SavingsAccount declares an interest-bearing savings product: a current
// balance accruing daily interest into an accrued position, capitalised
// monthly back into current with a 20%-style withholding-tax trigger,
// plus a monthly fee debited from current.
func SavingsAccount() *product.AccountType {
	acc := product.NewAccountType("savingsAccount", "Savings Account")

	current := acc.AddPositionType("current", "current balance")
	accrued := acc.AddPositionType("accrued", "interest accrued")
	withholding := acc.AddPositionType("withholding", "withholding tax")

	acc.AddPropertyType("monthlyFee", "Monthly Fee", product.DecimalType, true, true)
	acc.AddPropertyType("withholdingTax", "Withholding Tax Rate", product.DecimalType, true, true)

	acc.AddTransactionType("deposit", "Deposit", false).
		AddPositionRule(product.Credit, current)

	feeTT := acc.AddTransactionType("fee", "Fee", false).
		AddPositionRule(product.Debit, current)

	interestAccruedTT := acc.AddTransactionType("interestAccrued", "Interest Accrued", true).
		AddPositionRule(product.Credit, accrued)

	capitalizedTT := acc.AddTransactionType("capitalized", "Interest Capitalized", false).
		AddPositionRule(product.Credit, current).
		AddPositionRule(product.Debit, accrued)

	withholdingTT := acc.AddTransactionType("withholdingTax", "Withholding Tax", false).
		AddPositionRule(product.Credit, withholding)

	accrualSchedule := acc.AddScheduleType(&product.ScheduleType{
		Name:                  "accrual",
		Label:                 "Accrual Schedule",
		Frequency:             schedule.Daily,
		EndType:               schedule.NoEnd,
		BusinessDayAdjustment: calendar.NoAdjustment,
		IntervalExpression:    "1",
		StartDateExpression:   "account.start_date",
	})

	compoundingSchedule := acc.AddScheduleType(&product.ScheduleType{
		Name:                  "compounding",
		Label:                 "Compounding Schedule",
		Frequency:             schedule.Monthly,
		EndType:               schedule.NoEnd,
		BusinessDayAdjustment: calendar.NoAdjustment,
		IntervalExpression:    "1",
		StartDateExpression:   "account.start_date + relativedelta(months=1) + relativedelta(days=-1)",
	})

	acc.AddScheduledTransaction(compoundingSchedule, product.EndOfDay, feeTT,
		"account.monthlyFee[value_date]")

	acc.AddScheduledTransaction(accrualSchedule, product.EndOfDay, interestAccruedTT,
		"account.current * accountType.interest.get_rate(value_date, account.current) / Decimal(365)")

	acc.AddScheduledTransaction(compoundingSchedule, product.EndOfDay, capitalizedTT,
		"account.accrued")

	interestRate := acc.AddRateType("interest", "Interest Rate")
	interestRate.AddTier(caldate.MustParse("2019-01-01"), caldate.MustDecimal("10000"), caldate.MustDecimal("0.03"))
	interestRate.AddTier(caldate.MustParse("2019-01-01"), caldate.MustDecimal("100000"), caldate.MustDecimal("0.035"))
	interestRate.AddTier(caldate.MustParse("2019-01-01"), caldate.MustDecimal("50000"), caldate.MustDecimal("0.04"))

	acc.AddTriggerTransaction(capitalizedTT, withholdingTT,
		"transaction.amount * account.withholdingTax[value_date]")

	return acc
}

// LoanGiven declares an amortising loan: an advance credited to principal
// on day one, daily interest accrual, monthly capitalisation of accrued
// interest into principal, and a redemption instalment whose fixed
// payment the instalment solver determines.
func LoanGiven() *product.AccountType {
	loan := product.NewAccountType("Loan", "Loan")

	conversionInterest := loan.AddPositionType("conversion_interest", "Conversion Interest")
	earlyRedemptionFee := loan.AddPositionType("early_redemption_fee", "Early Redemption Fee")
	accrued := loan.AddPositionType("accrued", "Interest Accrued")
	interestCapitalized := loan.AddPositionType("interest_capitalized", "Interest Capitalized")
	principal := loan.AddPositionType("principal", "Principal")

	loan.AddDateType("accrual_start", "Accrual Start Date")
	loan.AddDateType("end_date", "End Date")

	accrualSchedule := loan.AddScheduleType(&product.ScheduleType{
		Name:                  "accrual",
		Label:                 "Accrual Schedule",
		Frequency:             schedule.Daily,
		EndType:               schedule.NoEnd,
		BusinessDayAdjustment: calendar.NoAdjustment,
		IntervalExpression:    "1",
		StartDateExpression:   "account.start_date",
	})

	interestSchedule := loan.AddScheduleType(&product.ScheduleType{
		Name:                   "interest",
		Label:                  "Interest Schedule",
		Frequency:              schedule.Monthly,
		EndType:                schedule.NoEnd,
		BusinessDayAdjustment:  calendar.NoAdjustment,
		IntervalExpression:     "1",
		StartDateExpression:    "account.start_date",
		EndDateExpression:      "account.end_date",
		IncludeDatesExpression: "account.end_date",
	})

	redemptionSchedule := loan.AddScheduleType(&product.ScheduleType{
		Name:                   "redemption",
		Label:                  "Redemption Schedule",
		Frequency:              schedule.Monthly,
		EndType:                schedule.NoEnd,
		BusinessDayAdjustment:  calendar.NoAdjustment,
		IntervalExpression:     "1",
		StartDateExpression:    "account.start_date + relativedelta(months=1)",
		EndDateExpression:      "account.end_date",
		IncludeDatesExpression: "account.end_date",
	})

	advanceSchedule := loan.AddScheduleType(&product.ScheduleType{
		Name:                  "advance",
		Label:                 "Advance Schedule",
		Frequency:             schedule.Daily,
		EndType:               schedule.EndDate,
		BusinessDayAdjustment: calendar.NoAdjustment,
		IntervalExpression:    "1",
		StartDateExpression:   "account.start_date",
		EndDateExpression:     "account.start_date",
	})

	interestAccruedTT := loan.AddTransactionType("interestAccrued", "Interest Accrued", true).
		AddPositionRule(product.Credit, accrued)

	interestCapitalizedTT := loan.AddTransactionType("interestCapitalized", "Interest Capitalized", false).
		AddPositionRule(product.Credit, interestCapitalized).
		AddPositionRule(product.Debit, accrued).
		AddPositionRule(product.Credit, principal)

	loan.AddTransactionType("earlyRedemptionFee", "Early Redemption Fee", false).
		AddPositionRule(product.Credit, earlyRedemptionFee)

	loan.AddTransactionType("conversionInterest", "Conversion Interest", false).
		AddPositionRule(product.Credit, conversionInterest)

	redemptionTT := loan.AddTransactionType("redemption", "Redemption", false).
		AddPositionRule(product.Debit, principal)

	advanceTT := loan.AddTransactionType("advance", "Advance", false).
		AddPositionRule(product.Credit, principal)

	loan.AddTransactionType("additionalAdvance", "Additional Advance", false).
		AddPositionRule(product.Credit, principal)

	loan.AddTransactionType("interestPayment", "Interest Payment", false).
		AddPositionRule(product.Debit, accrued)

	loan.AddScheduledTransaction(accrualSchedule, product.EndOfDay, interestAccruedTT,
		"account.principal * accountType.interest.get_rate(value_date, account.principal) / Decimal(365)")

	loan.AddScheduledTransaction(interestSchedule, product.EndOfDay, interestCapitalizedTT,
		"account.accrued")

	loan.AddScheduledTransaction(advanceSchedule, product.StartOfDay, advanceTT,
		"account.advance")

	loan.AddInstalmentType("payments", "Payments", product.StartOfDay,
		redemptionSchedule.Name, redemptionTT, "payment", "principal", "end_date")

	loan.AddPropertyType("advance", "Advance Amount", product.DecimalType, true, false)
	loan.AddPropertyType("payment", "Payment Amount", product.DecimalType, true, false)

	interestRate := loan.AddRateType("interest", "Interest Rate")
	interestRate.AddTier(caldate.MustParse("2000-01-01"), caldate.MustDecimal("2000000"), caldate.MustDecimal("0.0304"))
	interestRate.AddTier(caldate.MustParse("2000-01-01"), caldate.MustDecimal("10000000"), caldate.MustDecimal("0.025"))
	interestRate.AddTier(caldate.MustParse("2000-01-01"), caldate.MustDecimal("1e30"), caldate.MustDecimal("0.02"))

	return loan
}
