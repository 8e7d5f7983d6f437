package ratetable_test

import (
	"testing"

	"github.com/warp/ledgersim/caldate"
	"github.com/warp/ledgersim/ratetable"
)

func d(s string) caldate.Decimal { return caldate.MustDecimal(s) }

// SPEC: spec.md §4.3, grounded on original_source/tests/test_rate_type.py's
// payment_rates fixture.
func paymentRates() *ratetable.RateTable {
	eff := caldate.MustParse("2019-01-01")
	return ratetable.New("payment_rates").
		AddTier(eff, d("10"), d("0")).
		AddTier(eff, d("100"), d("5")).
		AddTier(eff, d("1000"), d("4")).
		AddTier(eff, d("1000000"), d("3"))
}

func TestFeeBetween_PiecewiseAcrossTiers(t *testing.T) {
	at := caldate.MustParse("2019-06-01")
	rt := paymentRates()

	cases := []struct {
		from, to, want string
	}{
		{"0", "5", "0"},
		{"5", "15", "25"},
		{"15", "55", "200"},
		{"55", "1005", "3840"},
	}

	for _, tc := range cases {
		got, err := rt.FeeBetween(at, d(tc.from), d(tc.to))
		if err != nil {
			t.Fatalf("FeeBetween(%s,%s): %v", tc.from, tc.to, err)
		}
		if !got.Equal(d(tc.want)) {
			t.Errorf("FeeBetween(%s,%s) = %s, want %s", tc.from, tc.to, got, tc.want)
		}
	}
}

// SPEC: spec.md §4.3, grounded on test_rate_type.py's rt_users fixture,
// queried in April 2020 (30 days in month).
func userTierRates() *ratetable.RateTable {
	eff := caldate.MustParse("2019-01-01")
	return ratetable.New("rt_users").
		AddTier(eff, d("3"), d("30")).
		AddTier(eff, d("10"), d("25")).
		AddTier(eff, d("1000"), d("10"))
}

func TestDailyFee_AmortisesAcrossUserTiers(t *testing.T) {
	at := caldate.MustParse("2020-04-15") // April: 30 days
	rt := userTierRates()

	// monthly fee totals grounded on test_rate_type.py: 1 user -> 30,
	// 5 users -> 3*30+2*25=140, 12 users -> 3*30+7*25+2*10=285.
	cases := []struct {
		users      string
		wantMonthly string
	}{
		{"1", "30"},
		{"5", "140"},
		{"12", "285"},
	}

	for _, tc := range cases {
		got, err := rt.DailyFee(at, d(tc.users))
		if err != nil {
			t.Fatalf("DailyFee(%s): %v", tc.users, err)
		}
		want := d(tc.wantMonthly).Div(d("30"))
		if !got.Equal(want) {
			t.Errorf("DailyFee(%s) = %s, want %s", tc.users, got, want)
		}
	}
}

func TestRateFor_TierBoundariesInclusive(t *testing.T) {
	eff := caldate.MustParse("2019-01-01")
	rt := ratetable.New("interest").
		AddTier(eff, d("1000"), d("0")).
		AddTier(eff, d("10000"), d("0.01"))

	at := caldate.MustParse("2019-06-01")

	got, err := rt.RateFor(at, d("0.000000001"))
	if err != nil {
		t.Fatalf("RateFor: %v", err)
	}
	if !got.Equal(d("0")) {
		t.Errorf("RateFor(near zero) = %s, want 0", got)
	}

	// a negative amount never touches the ladder
	got, err = rt.RateFor(at, d("-5"))
	if err != nil {
		t.Fatalf("RateFor(negative): %v", err)
	}
	if !got.Equal(d("0")) {
		t.Errorf("RateFor(negative) = %s, want 0", got)
	}
}

func TestRateFor_NoTierForAmount_ReturnsError(t *testing.T) {
	eff := caldate.MustParse("2019-01-01")
	rt := ratetable.New("narrow").AddTier(eff, d("10"), d("0.01"))

	if _, err := rt.RateFor(caldate.MustParse("2019-06-01"), d("50")); err == nil {
		t.Fatalf("RateFor(50) with no matching tier: got nil error, want RateLookupError")
	}
}

func TestTiersOn_NoTiersForDate_ReturnsError(t *testing.T) {
	rt := ratetable.New("empty")

	if _, err := rt.RateFor(caldate.MustParse("2019-06-01"), d("5")); err == nil {
		t.Fatalf("RateFor with no tiers at all: got nil error, want RateLookupError")
	}
}

// SPEC: spec.md §4.3 — a ladder redefined on a later effective date must
// not disturb lookups before that date.
func TestAddTier_DateIndexedLadders(t *testing.T) {
	rt := ratetable.New("interest").
		AddTier(caldate.MustParse("2019-01-01"), d("1000"), d("0.03")).
		AddTier(caldate.MustParse("2020-01-01"), d("1000"), d("0.05"))

	before, err := rt.RateFor(caldate.MustParse("2019-06-01"), d("500"))
	if err != nil {
		t.Fatalf("RateFor(before): %v", err)
	}
	if !before.Equal(d("0.03")) {
		t.Errorf("RateFor(before redefinition) = %s, want 0.03", before)
	}

	after, err := rt.RateFor(caldate.MustParse("2020-06-01"), d("500"))
	if err != nil {
		t.Fatalf("RateFor(after): %v", err)
	}
	if !after.Equal(d("0.05")) {
		t.Errorf("RateFor(after redefinition) = %s, want 0.05", after)
	}
}

func TestAddTier_FromAmountIsPreviousToAmount(t *testing.T) {
	eff := caldate.MustParse("2019-01-01")
	rt := ratetable.New("ladder").
		AddTier(eff, d("10"), d("0")).
		AddTier(eff, d("100"), d("5"))

	tiers, err := rt.FeeBetween(eff, d("10"), d("10"))
	if err != nil {
		t.Fatalf("FeeBetween: %v", err)
	}
	if !tiers.Equal(d("0")) {
		t.Fatalf("FeeBetween(10,10) = %s, want 0 (zero-width interval)", tiers)
	}

	// the second tier's implicit lower bound is the first tier's upper bound
	got, err := rt.RateFor(eff, d("10"))
	if err != nil {
		t.Fatalf("RateFor(10): %v", err)
	}
	if !got.Equal(d("0")) {
		t.Errorf("RateFor(10) = %s, want 0 (boundary belongs to the lower tier)", got)
	}
}
