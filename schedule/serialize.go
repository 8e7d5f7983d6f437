package schedule

import (
	"encoding/json"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/calendar"
)

// scheduleWire is the serialised shape of a materialised schedule. The
// memoised date set is deliberately absent (spec.md §3: "the memo must
// not be serialised"), and so is the Calendar reference — calendars are
// shared read-only collaborators a host re-attaches after parsing, not
// per-schedule state.
type scheduleWire struct {
	StartDate       caldate.Date        `json:"start_date"`
	EndType         EndType             `json:"end_type"`
	Frequency       Frequency           `json:"frequency"`
	Interval        int                 `json:"interval"`
	Adjustment      calendar.Adjustment `json:"business_day_adjustment"`
	EndDate         *caldate.Date       `json:"end_date,omitempty"`
	NumberOfRepeats int                 `json:"number_of_repeats"`
	IncludeDates    []caldate.Date      `json:"include_dates,omitempty"`
	ExcludeDates    []caldate.Date      `json:"exclude_dates,omitempty"`
}

// MarshalJSON renders the schedule without its memo.
func (s *Schedule) MarshalJSON() ([]byte, error) {
	wire := scheduleWire{
		StartDate:       s.StartDate,
		EndType:         s.EndType,
		Frequency:       s.Frequency,
		Interval:        s.Interval,
		Adjustment:      s.Adjustment,
		NumberOfRepeats: s.NumberOfRepeats,
		IncludeDates:    s.IncludeDates,
		ExcludeDates:    s.ExcludeDates,
	}
	if !s.EndDate.IsZero() {
		endDate := s.EndDate
		wire.EndDate = &endDate
	}
	return json.Marshal(wire)
}

// UnmarshalJSON restores a schedule with an empty memo.
func (s *Schedule) UnmarshalJSON(b []byte) error {
	var wire scheduleWire
	if err := json.Unmarshal(b, &wire); err != nil {
		return err
	}
	s.StartDate = wire.StartDate
	s.EndType = wire.EndType
	s.Frequency = wire.Frequency
	s.Interval = wire.Interval
	s.Adjustment = wire.Adjustment
	if wire.EndDate != nil {
		s.EndDate = *wire.EndDate
	}
	s.NumberOfRepeats = wire.NumberOfRepeats
	s.IncludeDates = wire.IncludeDates
	s.ExcludeDates = wire.ExcludeDates
	s.memo = nil
	return nil
}
