/*
Package schedule materialises the occurrence dates a ScheduleType describes
(spec.md §4.2).

PURPOSE:
  A Schedule answers "is this value date due?" for scheduled transactions
  (valuation.Engine) and gives account.New the dates it seeds instalment
  entries on, which the instalment solver then stamps payments onto. Internally it may memoise the full
  expanded date set — memo must never be serialised (spec.md §3, §5), so
  the cache lives unexported and is rebuilt lazily.

ALGORITHM (spec.md §4.2):
  1. occurrence = StartDate, repeats = 1, emit the adjusted occurrence
     unless already complete.
  2. Advance: daily → StartDate + interval*repeats days; monthly →
     StartDate + interval*repeats months (month-clamped).
  3. Apply the configured business-day adjustment (identity without a
     calendar).
  4. Stop when the raw date exceeds the horizon, or end_date is exceeded
     (EndDate), or repeats exceeds NumberOfRepeats (EndRepeats). NoEnd never
     stops before the horizon.
  5. Union in IncludeDates, subtract ExcludeDates, sort, dedupe.

FAST PATH:
  A "simple daily" schedule (daily, interval 1, no adjustment) answers
  IsDue directly via a range check, skipping materialisation — but per
  spec.md §9's Open Question, the fast path is used ONLY when IncludeDates
  and ExcludeDates are both empty; otherwise the materialised set is
  authoritative, since the fast path has no way to consult them.

SEE ALSO:
  - valuation: calls IsDue once per (scheduledTransaction, value_date)
  - account: seeds instalment entries from the instalment schedule's
    materialised dates
*/
package schedule

import (
	"fmt"
	"sort"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/calendar"
)

// Frequency names how often a schedule recurs (spec.md §3, §6).
type Frequency string

const (
	Daily   Frequency = "daily"
	Monthly Frequency = "monthly"
)

// EndType names how a schedule's occurrence stream terminates (spec.md §3).
type EndType string

const (
	NoEnd       EndType = "no_end"
	EndRepeats  EndType = "end_repeats"
	EndDate     EndType = "end_date"
)

// horizonYears bounds the "far horizon" IsDue materialises against when no
// explicit horizon is supplied (spec.md §4.2: "e.g., startDate + 50 years").
const horizonYears = 50

// Schedule is a materialised occurrence-date generator.
type Schedule struct {
	StartDate    caldate.Date
	EndType      EndType
	Frequency    Frequency
	Interval     int
	Adjustment   calendar.Adjustment
	Calendar     *calendar.Calendar // nil means Adjustment is treated as NoAdjustment
	EndDate      caldate.Date       // valid iff EndType == EndDate
	NumberOfRepeats int             // valid iff EndType == EndRepeats
	IncludeDates []caldate.Date
	ExcludeDates []caldate.Date

	memo map[caldate.Date][]caldate.Date // to_date -> materialised dates, never serialised
}

// New validates and constructs a Schedule. A non-positive interval is
// rejected at construction (spec.md §4.2: "undefined behaviour if interval
// ≤ 0; implementations must reject at construction").
func New(startDate caldate.Date, endType EndType, frequency Frequency, interval int, adjustment calendar.Adjustment) (*Schedule, error) {
	if interval <= 0 {
		return nil, &Error{Msg: fmt.Sprintf("schedule interval must be positive, got %d", interval)}
	}
	return &Schedule{
		StartDate:  startDate,
		EndType:    endType,
		Frequency:  frequency,
		Interval:   interval,
		Adjustment: adjustment,
	}, nil
}

// Error is ScheduleError from spec.md §7.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return "schedule: " + e.Msg }

// ClearMemo discards the memoised date sets. Callers that mutate a
// schedule's fields after materialisation (the copy-with-override test
// fixture pattern) must clear the memo or IsDue keeps answering from the
// stale set.
func (s *Schedule) ClearMemo() { s.memo = nil }

func (s *Schedule) isSimpleDaily() bool {
	return s.Frequency == Daily && s.Interval == 1 &&
		(s.Adjustment == calendar.NoAdjustment || s.Adjustment == "") &&
		len(s.IncludeDates) == 0 && len(s.ExcludeDates) == 0
}

// IsDue reports whether testDate is an occurrence of this schedule.
func (s *Schedule) IsDue(testDate caldate.Date) bool {
	if s.isSimpleDaily() {
		switch s.EndType {
		case NoEnd:
			return testDate.AfterOrEqual(s.StartDate)
		case EndDate:
			return testDate.AfterOrEqual(s.StartDate) && testDate.BeforeOrEqual(s.EndDate)
		}
	}

	horizon := s.StartDate.AddYears(horizonYears)
	dates := s.GetAllDates(horizon)
	return containsDate(dates, testDate)
}

// GetAllDates materialises every occurrence up to and including toDate,
// memoising the result per toDate.
func (s *Schedule) GetAllDates(toDate caldate.Date) []caldate.Date {
	if s.memo == nil {
		s.memo = make(map[caldate.Date][]caldate.Date)
	}
	if cached, ok := s.memo[toDate]; ok {
		return cached
	}

	var dates []caldate.Date
	repeats := 1
	occurrence := s.StartDate

	// Completion is judged against the raw (unadjusted) occurrence date —
	// business-day adjustment only changes which date gets emitted, never
	// whether the cadence itself has finished.
	for !s.isComplete(repeats, occurrence, toDate) {
		dates = append(dates, s.adjust(occurrence))
		occurrence = s.next(repeats)
		repeats++
	}

	for _, inc := range s.IncludeDates {
		if !containsDate(dates, inc) {
			dates = append(dates, inc)
		}
	}
	dates = filterOut(dates, s.ExcludeDates)

	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	s.memo[toDate] = dates
	return dates
}

func (s *Schedule) adjust(d caldate.Date) caldate.Date {
	if s.Adjustment == calendar.NoAdjustment || s.Adjustment == "" || s.Calendar == nil {
		return d
	}
	return s.Calendar.Adjust(d, s.Adjustment)
}

func (s *Schedule) next(repeats int) caldate.Date {
	if s.Frequency == Daily {
		return s.StartDate.AddDays(s.Interval * repeats)
	}
	return s.StartDate.AddMonths(s.Interval * repeats)
}

func (s *Schedule) isComplete(repeats int, testDate, lastDate caldate.Date) bool {
	if testDate.After(lastDate) {
		return true
	}
	switch s.EndType {
	case EndDate:
		return testDate.After(s.EndDate)
	case NoEnd:
		return false
	case EndRepeats:
		return repeats > s.NumberOfRepeats
	default:
		return false
	}
}

func containsDate(dates []caldate.Date, d caldate.Date) bool {
	for _, x := range dates {
		if x.Equal(d) {
			return true
		}
	}
	return false
}

func filterOut(dates []caldate.Date, exclude []caldate.Date) []caldate.Date {
	if len(exclude) == 0 {
		return dates
	}
	var out []caldate.Date
	for _, d := range dates {
		if !containsDate(exclude, d) {
			out = append(out, d)
		}
	}
	return out
}
