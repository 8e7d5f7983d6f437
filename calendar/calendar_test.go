package calendar_test

import (
	"testing"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/calendar"
)

// SPEC: spec.md §8 scenario S7 — Easter 2019 calendar adjustments.
func euroCalendar2019() *calendar.Calendar {
	return calendar.New("Euro Calendar", true).
		Add("GOOD FRIDAY", caldate.MustParse("2019-04-19")).
		Add("EASTER MONDAY", caldate.MustParse("2019-04-22")).
		Add("LABOUR DAY", caldate.MustParse("2019-05-01")).
		Add("CHRISTMAS DAY", caldate.MustParse("2019-12-25")).
		Add("BOXING DAY", caldate.MustParse("2019-12-26"))
}

func TestIsBusinessDay_EasterLongWeekend(t *testing.T) {
	c := euroCalendar2019()

	cases := []struct {
		date string
		want bool
	}{
		{"2019-04-18", true},  // Thursday before
		{"2019-04-19", false}, // Good Friday
		{"2019-04-20", false}, // Saturday
		{"2019-04-21", false}, // Sunday
		{"2019-04-22", false}, // Easter Monday
		{"2019-04-23", true},  // Tuesday after
	}

	for _, tc := range cases {
		got := c.IsBusinessDay(caldate.MustParse(tc.date))
		if got != tc.want {
			t.Errorf("IsBusinessDay(%s) = %v, want %v", tc.date, got, tc.want)
		}
	}
}

func TestNextAndPreviousBusinessDay(t *testing.T) {
	c := euroCalendar2019()

	if got, want := c.NextBusinessDay(caldate.MustParse("2019-04-19")), caldate.MustParse("2019-04-23"); !got.Equal(want) {
		t.Errorf("NextBusinessDay = %s, want %s", got, want)
	}
	if got, want := c.PreviousBusinessDay(caldate.MustParse("2019-04-22")), caldate.MustParse("2019-04-18"); !got.Equal(want) {
		t.Errorf("PreviousBusinessDay = %s, want %s", got, want)
	}
}

func TestAdjust_AllModes(t *testing.T) {
	c := euroCalendar2019()

	cases := []struct {
		name string
		date string
		adj  calendar.Adjustment
		want string
	}{
		{"any_day", "2019-09-29", calendar.NoAdjustment, "2019-09-29"},
		{"next", "2019-04-19", calendar.NextBusinessDay, "2019-04-23"},
		{"previous", "2019-04-22", calendar.PreviousBusinessDay, "2019-04-18"},
		{"closest_or_next picks previous on closer", "2019-04-20", calendar.ClosestBusinessDayOrNext, "2019-04-18"},
		{"closest_or_next picks next on closer", "2019-04-21", calendar.ClosestBusinessDayOrNext, "2019-04-23"},
		{"month fallback to next", "2019-09-29", calendar.NextBusinessDayThisMonthOrPrevious, "2019-09-30"},
		{"month fallback to previous", "2019-08-31", calendar.NextBusinessDayThisMonthOrPrevious, "2019-08-30"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.Adjust(caldate.MustParse(tc.date), tc.adj)
			want := caldate.MustParse(tc.want)
			if !got.Equal(want) {
				t.Errorf("Adjust(%s, %s) = %s, want %s", tc.date, tc.adj, got, want)
			}
		})
	}
}
