/*
Package calendar implements business-day predicates and adjustment
strategies (spec.md §4.1).

PURPOSE:
  A Calendar answers two questions: is a given Date a business day, and if
  not, what business day should stand in for it under a chosen adjustment
  rule. A schedule.Schedule consults the Calendar set in its Calendar field
  when its Adjustment is other than NoAdjustment; with no Calendar set the
  adjustment is the identity. account.New does not attach a Calendar to the
  schedules it builds from ScheduleTypes.

DESIGN:
  Holidays are keyed by calendar date in a map, mirroring the teacher's
  generic/time.go HolidayCalendar — the lookup is O(1) and the backward/
  forward walks in Adjust are bounded by holiday density (spec.md §4.1
  states there is no failure mode here; a sparse holiday calendar can only
  ever require a handful of steps).

SEE ALSO:
  - schedule: consumes Calendar via the Calendar and Adjustment fields on
    schedule.Schedule
*/
package calendar

import (
	"time"

	"github.com/warp/ledgersim/caldate"
)

// Adjustment names a business-day adjustment strategy (spec.md §4.1, §6).
type Adjustment string

const (
	NoAdjustment                    Adjustment = "no_adjustment"
	NextBusinessDay                 Adjustment = "next_working_day"
	PreviousBusinessDay             Adjustment = "previous_working_day"
	ClosestBusinessDayOrNext        Adjustment = "closest_working_day"
	NextBusinessDayThisMonthOrPrevious Adjustment = "next_business_day_this_month_or_previous"
)

// Calendar holds a name, a default flag, and a set of holiday dates.
type Calendar struct {
	Name      string
	IsDefault bool
	holidays  map[caldate.Date]string
}

// New creates an empty calendar with no holidays.
func New(name string, isDefault bool) *Calendar {
	return &Calendar{Name: name, IsDefault: isDefault, holidays: make(map[caldate.Date]string)}
}

// Add registers a named holiday and returns the calendar, so holidays can be
// chained at construction time the way the teacher's builder methods chain
// (cf. product.AccountType's AddX methods).
func (c *Calendar) Add(name string, d caldate.Date) *Calendar {
	c.holidays[d] = name
	return c
}

// IsHoliday reports whether d is a registered holiday.
func (c *Calendar) IsHoliday(d caldate.Date) bool {
	_, ok := c.holidays[d]
	return ok
}

// IsBusinessDay is true iff d falls Monday–Friday and is not a holiday.
func (c *Calendar) IsBusinessDay(d caldate.Date) bool {
	wd := d.Weekday()
	if wd == time.Saturday || wd == time.Sunday {
		return false
	}
	return !c.IsHoliday(d)
}

// NextBusinessDay steps forward one day at a time until a business day.
func (c *Calendar) NextBusinessDay(d caldate.Date) caldate.Date {
	next := d.AddDays(1)
	for !c.IsBusinessDay(next) {
		next = next.AddDays(1)
	}
	return next
}

// PreviousBusinessDay steps backward one day at a time until a business day.
func (c *Calendar) PreviousBusinessDay(d caldate.Date) caldate.Date {
	prev := d.AddDays(-1)
	for !c.IsBusinessDay(prev) {
		prev = prev.AddDays(-1)
	}
	return prev
}

// Adjust applies the named adjustment strategy to d (spec.md §4.1).
func (c *Calendar) Adjust(d caldate.Date, adj Adjustment) caldate.Date {
	switch adj {
	case NoAdjustment, "":
		return d
	case NextBusinessDay:
		if c.IsBusinessDay(d) {
			return d
		}
		return c.NextBusinessDay(d)
	case PreviousBusinessDay:
		if c.IsBusinessDay(d) {
			return d
		}
		return c.PreviousBusinessDay(d)
	case ClosestBusinessDayOrNext:
		if c.IsBusinessDay(d) {
			return d
		}
		prev := c.PreviousBusinessDay(d)
		next := c.NextBusinessDay(d)
		prevDist := caldate.DaysBetween(prev, d)
		nextDist := caldate.DaysBetween(d, next)
		if nextDist <= prevDist {
			return next
		}
		return prev
	case NextBusinessDayThisMonthOrPrevious:
		if c.IsBusinessDay(d) {
			return d
		}
		next := c.NextBusinessDay(d)
		if next.Month() == d.Month() && next.Year() == d.Year() {
			return next
		}
		return c.PreviousBusinessDay(d)
	default:
		return d
	}
}
