/*
Package instalment implements the instalment solver (spec.md §4.7): a
bracketed root finder that determines the fixed periodic payment driving
a chosen position to zero at a chosen date.

OBJECTIVE FUNCTION:
  For a candidate payment x — reset the account, stamp x onto every
  unfixed instalment entry, forecast to the date named by the instalment
  type's solve_for_date slot, and read the solve_for_zero_position
  balance. The root of that function is the payment that exactly
  amortises the position.

ALGORITHM:
  Brent-style iteration over [-1e8, +1e8] with tolerance 0.01: inverse
  quadratic interpolation where the three bracketing points allow it,
  secant otherwise, falling back to bisection whenever the candidate
  leaves the bracket. All arithmetic stays in decimals — the objective is
  a monetary balance and never touches floating point.

USAGE:
  eng := valuation.New(acc, accountType, actionDate)
  payment, err := instalment.Solve(eng)

SEE ALSO:
  - valuation: Forecast is the inner loop of every objective evaluation
  - account: Reset/SetUnfixedInstalments are the solver's state hooks
*/
package instalment

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/product"
	"github.com/warp/ledgersim/valuation"
)

// Error is SolverError from spec.md §7: the bracket does not straddle
// zero, or the tolerance was not reached within the iteration budget.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "instalment: " + e.Msg }

const maxIterations = 100

var (
	bracketLow  = caldate.MustDecimal("-100000000")
	bracketHigh = caldate.MustDecimal("100000000")
	tolerance   = caldate.MustDecimal("0.01")
	two         = decimal.NewFromInt(2)
)

// Solve finds the fixed instalment amount that zeroes the instalment
// type's target position at its target date, rounds it to 2 fractional
// digits, persists it onto the unfixed instalment entries and the
// declared payment property, and leaves the account holding the forecast
// run under that final rounded payment.
func Solve(eng *valuation.Engine) (caldate.Decimal, error) {
	accountType := eng.AccountType()
	it := accountType.InstalmentType
	if it == nil {
		return caldate.Zero, &product.ConfigurationError{Msg: fmt.Sprintf("account type %q declares no instalment type", accountType.Name)}
	}
	acc := eng.Account()
	solveForDate, ok := acc.Date(it.SolveForDate)
	if !ok {
		return caldate.Zero, &product.ConfigurationError{Msg: fmt.Sprintf("instalment type %q requires date %q, which the account does not carry", it.Name, it.SolveForDate)}
	}

	objective := func(x caldate.Decimal) (caldate.Decimal, error) {
		acc.Reset()
		eng.ClearTrace()
		acc.SetUnfixedInstalments(x)
		if err := eng.Forecast(solveForDate, nil); err != nil {
			return caldate.Zero, err
		}
		position, _ := acc.Position(it.SolveForZeroPosition)
		return position, nil
	}

	root, err := findRoot(objective, bracketLow, bracketHigh)
	if err != nil {
		return caldate.Zero, err
	}

	payment := caldate.RoundHalfAwayFromZero(root, 2)
	acc.Reset()
	eng.ClearTrace()
	acc.SetUnfixedInstalments(payment)
	if err := eng.Forecast(solveForDate, nil); err != nil {
		return caldate.Zero, err
	}
	if it.PropertyName != "" {
		acc.SetProperty(it.PropertyName, payment)
	}
	return payment, nil
}

// findRoot is the bracketed iteration: inverse quadratic interpolation
// when a, b, c carry three distinct objective values, secant when only
// two, bisection whenever the interpolated candidate escapes [a, b].
func findRoot(objective func(caldate.Decimal) (caldate.Decimal, error), a, b caldate.Decimal) (caldate.Decimal, error) {
	fa, err := objective(a)
	if err != nil {
		return caldate.Zero, err
	}
	fb, err := objective(b)
	if err != nil {
		return caldate.Zero, err
	}
	if fa.Sign()*fb.Sign() > 0 {
		return caldate.Zero, &Error{Msg: fmt.Sprintf("bracket [%s, %s] does not straddle zero: f(low)=%s, f(high)=%s", a, b, fa, fb)}
	}

	// Keep b as the best estimate: |f(b)| <= |f(a)|.
	if fa.Abs().LessThan(fb.Abs()) {
		a, b = b, a
		fa, fb = fb, fa
	}
	c, fc := a, fa

	for i := 0; ; i++ {
		if fb.Abs().LessThanOrEqual(tolerance) || b.Sub(a).Abs().LessThanOrEqual(tolerance) {
			return b, nil
		}
		if i >= maxIterations {
			return caldate.Zero, &Error{Msg: fmt.Sprintf("tolerance %s not reached after %d iterations, best estimate %s", tolerance, maxIterations, b)}
		}

		var s caldate.Decimal
		switch {
		case !fa.Equal(fc) && !fb.Equal(fc):
			// Inverse quadratic interpolation through (a,fa), (b,fb), (c,fc).
			s = a.Mul(fb).Mul(fc).Div(fa.Sub(fb).Mul(fa.Sub(fc))).
				Add(b.Mul(fa).Mul(fc).Div(fb.Sub(fa).Mul(fb.Sub(fc)))).
				Add(c.Mul(fa).Mul(fb).Div(fc.Sub(fa).Mul(fc.Sub(fb))))
		case !fb.Equal(fa):
			s = b.Sub(fb.Mul(b.Sub(a)).Div(fb.Sub(fa)))
		default:
			s = a.Add(b).Div(two)
		}
		if !strictlyBetween(s, a, b) {
			s = a.Add(b).Div(two)
		}

		fs, err := objective(s)
		if err != nil {
			return caldate.Zero, err
		}

		c, fc = b, fb
		if fa.Sign()*fs.Sign() < 0 {
			b, fb = s, fs
		} else {
			a, fa = s, fs
		}
		if fa.Abs().LessThan(fb.Abs()) {
			a, b = b, a
			fa, fb = fb, fa
		}
	}
}

func strictlyBetween(s, a, b caldate.Decimal) bool {
	low, high := a, b
	if low.GreaterThan(high) {
		low, high = high, low
	}
	return s.GreaterThan(low) && s.LessThan(high)
}
