/*
Package caldate provides the fixed-point decimal and calendar-date primitives
shared by every other package in this module.

PURPOSE:
  Every numeric or calendar value that flows through the forecasting engine
  — balances, rates, schedule occurrences, instalment amounts — is built on
  top of the two types in this package: Decimal (re-exported from
  shopspring/decimal so callers never need a second import) and Date (a
  proleptic Gregorian calendar date with no time-of-day component).

DESIGN PRINCIPLES:
  1. No floating point. Decimal is the only numeric type monetary code in
     this module is allowed to touch.
  2. Calendar dates, not timestamps. Date always normalises to midnight UTC
     so equality and ordering are never time-zone- or wall-clock-sensitive.
  3. Month arithmetic clamps. Adding a month/year delta to a date that would
     overflow the target month (e.g. Jan 31 + 1 month) lands on the last
     valid day of that month, matching relativedelta's behaviour in the
     original configuration language.

SEE ALSO:
  - calendar: business-day predicates built on top of Date
  - schedule: occurrence generation built on top of Date arithmetic
*/
package caldate

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Decimal is the fixed-point numeric type used throughout this module.
type Decimal = decimal.Decimal

// Zero is the additive identity, re-exported for convenience.
var Zero = decimal.Zero

// MustDecimal parses a string or int literal into a Decimal, panicking on a
// malformed literal. Intended for constructing known-good constants (tier
// boundaries, tests), never for parsing user input.
func MustDecimal(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(fmt.Sprintf("caldate: invalid decimal literal %q: %v", s, err))
	}
	return d
}

// Round rounds d to places fractional digits, half-away-from-zero.
func Round(d Decimal, places int32) Decimal {
	return d.Round(places)
}

// RoundHalfAwayFromZero rounds d to places fractional digits using
// half-away-from-zero rounding, the convention spec.md §3 mandates for all
// monetary amounts (shopspring/decimal's own Round already rounds half away
// from zero for positive places, this wrapper exists to name the contract
// explicitly at call sites such as the scheduled-transaction rounding step
// in the valuation engine).
func RoundHalfAwayFromZero(d Decimal, places int32) Decimal {
	return d.Round(places)
}

// Date is a proleptic Gregorian calendar date: year, month, day. It carries
// no time-of-day or time-zone component — two Dates are equal iff they name
// the same calendar day.
type Date struct {
	t time.Time
}

// NewDate constructs a Date, normalising to midnight UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{t: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Parse reads a "YYYY-MM-DD" string, the canonical serialised form used by
// rate-tier effective dates (§4.3) and JSON (§6).
func Parse(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, fmt.Errorf("caldate: invalid date %q: %w", s, err)
	}
	return Date{t: t}, nil
}

// MustParse is Parse, panicking on error. For known-good literals.
func MustParse(s string) Date {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero value (not a valid calendar date).
func (d Date) IsZero() bool { return d.t.IsZero() }

func (d Date) Year() int         { return d.t.Year() }
func (d Date) Month() time.Month { return d.t.Month() }
func (d Date) Day() int          { return d.t.Day() }
func (d Date) Weekday() time.Weekday { return d.t.Weekday() }

// String renders the canonical "YYYY-MM-DD" form.
func (d Date) String() string { return d.t.Format("2006-01-02") }

// MarshalJSON renders the canonical "YYYY-MM-DD" form as a JSON string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON parses a "YYYY-MM-DD" JSON string.
func (d *Date) UnmarshalJSON(b []byte) error {
	if len(b) < 2 {
		return fmt.Errorf("caldate: invalid date JSON %q", b)
	}
	parsed, err := Parse(string(b[1 : len(b)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Before(other Date) bool { return d.t.Before(other.t) }
func (d Date) After(other Date) bool  { return d.t.After(other.t) }
func (d Date) Equal(other Date) bool  { return d.t.Equal(other.t) }
func (d Date) BeforeOrEqual(other Date) bool { return d.Before(other) || d.Equal(other) }
func (d Date) AfterOrEqual(other Date) bool  { return d.After(other) || d.Equal(other) }

// Compare returns -1, 0, or 1 as d is before, equal to, or after other.
// Useful for sort.Slice and map-key comparisons.
func (d Date) Compare(other Date) int {
	switch {
	case d.Before(other):
		return -1
	case d.After(other):
		return 1
	default:
		return 0
	}
}

// AddDays returns d shifted by n calendar days (n may be negative).
func (d Date) AddDays(n int) Date { return Date{t: d.t.AddDate(0, 0, n)} }

// AddMonths returns d shifted by n months, clamping to the last valid day of
// the target month (e.g. Jan 31 + 1 month = Feb 28/29, never Mar 3).
func (d Date) AddMonths(n int) Date { return addClamped(d, 0, n) }

// AddYears returns d shifted by n years, with the same end-of-month clamp
// AddMonths applies (relevant only for Feb 29 on a non-leap target year).
func (d Date) AddYears(n int) Date { return addClamped(d, n, 0) }

func addClamped(d Date, years, months int) Date {
	firstOfTarget := time.Date(d.t.Year()+years, d.t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month())
	day := d.t.Day()
	if day > lastDay {
		day = lastDay
	}
	return Date{t: time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// DaysBetween returns the number of calendar days from - to (positive if to
// is after from).
func DaysBetween(from, to Date) int {
	return int(to.t.Sub(from.t).Hours() / 24)
}

// DaysInMonth returns the number of days in d's month.
func (d Date) DaysInMonth() int { return daysInMonth(d.t.Year(), d.t.Month()) }

func daysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, -1).Day()
}

// StartOfMonth returns the 1st of d's month.
func (d Date) StartOfMonth() Date { return NewDate(d.Year(), d.Month(), 1) }

// EndOfMonth returns the last day of d's month.
func (d Date) EndOfMonth() Date { return NewDate(d.Year(), d.Month(), d.DaysInMonth()) }

// RelativeDelta applies a days/months/years offset in one call, mirroring
// the `relativedelta(days=…, months=…, years=…)` constructor the expression
// grammar exposes (spec.md §4.4). Offsets compose years, then months, then
// days, matching dateutil's own application order.
func (d Date) RelativeDelta(years, months, days int) Date {
	return d.AddYears(years).AddMonths(months).AddDays(days)
}
