package extractor

import (
	"strings"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestIsBusinessDay(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		day  time.Time
		want bool
	}{
		{"regular Tuesday", date(2025, time.June, 3), true},
		{"Saturday", date(2025, time.June, 7), false},
		{"Sunday", date(2025, time.June, 8), false},
		{"Independence Day", date(2025, time.July, 4), false},
		{"Christmas Day", date(2025, time.December, 25), false},
		{"New Year's Day", date(2025, time.January, 1), false},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsBusinessDay(tc.day); got != tc.want {
				t.Fatalf("IsBusinessDay(%v) = %v, want %v", tc.day, got, tc.want)
			}
		})
	}
}

func TestNextBusinessDaySkipsWeekend(t *testing.T) {
	t.Parallel()

	friday := date(2025, time.June, 6)
	got := NextBusinessDay(friday)
	if got.Weekday() != time.Monday || got.Day() != 9 {
		t.Fatalf("NextBusinessDay(Friday) = %v, want Monday June 9", got)
	}
}

func TestNextBusinessDaySkipsHoliday(t *testing.T) {
	t.Parallel()

	// Thursday July 3 2025; July 4 is a holiday and the weekend follows.
	thursday := date(2025, time.July, 3)
	got := NextBusinessDay(thursday)
	if got.Month() != time.July || got.Day() != 7 {
		t.Fatalf("NextBusinessDay(July 3) = %v, want July 7", got)
	}
}

func TestAddBusinessDays(t *testing.T) {
	t.Parallel()

	// Thursday + 3 business days = Tuesday.
	thursday := date(2025, time.June, 5)
	got := AddBusinessDays(thursday, 3)
	if got.Weekday() != time.Tuesday || got.Day() != 10 {
		t.Fatalf("AddBusinessDays(Thursday, 3) = %v, want Tuesday June 10", got)
	}
}

func TestContextContainsResolvedDates(t *testing.T) {
	t.Parallel()

	ref := date(2025, time.June, 5) // Thursday
	got := Context(ref)

	for _, want := range []string{
		"Reference date (today): 2025-06-05 (Thursday)",
		"Next business day (\"tomorrow\"): 2025-06-06",
		"\"in three days\": 2025-06-10",
		"\"next Monday\": 2025-06-09",
		"\"in one week\": 2025-06-12",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("Context() missing %q:\n%s", want, got)
		}
	}
}
