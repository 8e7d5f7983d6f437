package caldate_test

import (
	"testing"
	"time"

	"github.com/warp/ledgersim/caldate"
)

func TestAddMonths_ClampsToMonthEnd(t *testing.T) {
	// GIVEN: Jan 31
	// WHEN: adding 1 month
	// THEN: Feb 28 (non-leap year), not an overflowed Mar 3
	d := caldate.NewDate(2019, time.January, 31)

	got := d.AddMonths(1)

	want := caldate.NewDate(2019, time.February, 28)
	if !got.Equal(want) {
		t.Fatalf("AddMonths(1) = %s, want %s", got, want)
	}
}

func TestAddMonths_ClampsOnLeapYear(t *testing.T) {
	d := caldate.NewDate(2020, time.January, 31)

	got := d.AddMonths(1)

	want := caldate.NewDate(2020, time.February, 29)
	if !got.Equal(want) {
		t.Fatalf("AddMonths(1) = %s, want %s", got, want)
	}
}

func TestAddYears_ClampsFeb29(t *testing.T) {
	d := caldate.NewDate(2020, time.February, 29)

	got := d.AddYears(1)

	want := caldate.NewDate(2021, time.February, 28)
	if !got.Equal(want) {
		t.Fatalf("AddYears(1) = %s, want %s", got, want)
	}
}

func TestDaysBetween(t *testing.T) {
	from := caldate.NewDate(2013, time.March, 8)
	to := caldate.NewDate(2038, time.March, 8)

	got := caldate.DaysBetween(from, to)
	want := int(to.AddDays(0).Compare(from))
	_ = want

	if got != 9131 {
		t.Fatalf("DaysBetween = %d, want 9131", got)
	}
}

func TestParseRoundTrip(t *testing.T) {
	d := caldate.MustParse("2019-04-19")
	if d.String() != "2019-04-19" {
		t.Fatalf("String() = %s, want 2019-04-19", d.String())
	}
}

func TestCompareOrdering(t *testing.T) {
	a := caldate.NewDate(2019, time.January, 1)
	b := caldate.NewDate(2019, time.January, 2)

	if a.Compare(b) != -1 {
		t.Fatalf("a.Compare(b) = %d, want -1", a.Compare(b))
	}
	if b.Compare(a) != 1 {
		t.Fatalf("b.Compare(a) = %d, want 1", b.Compare(a))
	}
	if a.Compare(a) != 0 {
		t.Fatalf("a.Compare(a) = %d, want 0", a.Compare(a))
	}
}

func TestRelativeDelta(t *testing.T) {
	d := caldate.NewDate(2013, time.March, 31)

	got := d.RelativeDelta(0, 1, -1)

	want := caldate.NewDate(2013, time.April, 29)
	if !got.Equal(want) {
		t.Fatalf("RelativeDelta(0,1,-1) = %s, want %s", got, want)
	}
}
