package product

import (
	"github.com/warp/ledgersim/calendar"
	"github.com/warp/ledgersim/schedule"
)

// ScheduleType is a template for a schedule.Schedule: every date-valued
// field is an expression string, evaluated against an Account at
// construction time (account.New) rather than a concrete value here.
type ScheduleType struct {
	Name                      string               `json:"name"`
	Label                     string               `json:"label"`
	Frequency                 schedule.Frequency   `json:"frequency"`
	EndType                   schedule.EndType      `json:"end_type"`
	BusinessDayAdjustment     calendar.Adjustment  `json:"business_day_adjustment"`
	IntervalExpression        string               `json:"interval_expression"`
	StartDateExpression       string               `json:"start_date_expression"`
	EndDateExpression         string               `json:"end_date_expression,omitempty"`
	NumberOfRepeatsExpression string               `json:"number_of_repeats_expression,omitempty"`
	IncludeDatesExpression    string               `json:"include_dates_expression,omitempty"`
	ExcludeDatesExpression    string               `json:"exclude_dates_expression,omitempty"`
	Editable                  bool                 `json:"editable"`
}
