package extractor

import (
	"fmt"
	"strings"
	"time"
)

// Relative-day offsets land on business days only: weekends and the fixed
// holidays below are skipped. This is a product decision — users scheduling
// "in three days" on a Thursday mean Tuesday, not Sunday.

const dateLayout = "2006-01-02"

// fixedHolidays are month/day pairs observed every year.
var fixedHolidays = map[[2]int]string{
	{1, 1}:   "New Year's Day",
	{7, 4}:   "Independence Day",
	{12, 24}: "Christmas Eve",
	{12, 25}: "Christmas Day",
	{12, 31}: "New Year's Eve",
}

// IsBusinessDay reports whether t falls on a working day.
func IsBusinessDay(t time.Time) bool {
	switch t.Weekday() {
	case time.Saturday, time.Sunday:
		return false
	}
	_, holiday := fixedHolidays[[2]int{int(t.Month()), t.Day()}]
	return !holiday
}

// NextBusinessDay returns the first business day strictly after t.
func NextBusinessDay(t time.Time) time.Time {
	day := t.AddDate(0, 0, 1)
	for !IsBusinessDay(day) {
		day = day.AddDate(0, 0, 1)
	}
	return day
}

// AddBusinessDays advances t by n business days.
func AddBusinessDays(t time.Time, n int) time.Time {
	day := t
	for i := 0; i < n; i++ {
		day = NextBusinessDay(day)
	}
	return day
}

// nextWeekday returns the next occurrence of w strictly after t.
func nextWeekday(t time.Time, w time.Weekday) time.Time {
	days := int(w - t.Weekday())
	if days <= 0 {
		days += 7
	}
	return t.AddDate(0, 0, days)
}

// Context renders the reference-date block injected into both meeting
// extraction stages. It pre-resolves the common relative expressions so the
// model copies dates instead of computing them.
func Context(ref time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Reference date (today): %s (%s)\n", ref.Format(dateLayout), ref.Weekday())
	fmt.Fprintf(&b, "Next business day (\"tomorrow\"): %s\n", NextBusinessDay(ref).Format(dateLayout))
	fmt.Fprintf(&b, "\"in two days\": %s\n", AddBusinessDays(ref, 2).Format(dateLayout))
	fmt.Fprintf(&b, "\"in three days\": %s\n", AddBusinessDays(ref, 3).Format(dateLayout))
	fmt.Fprintf(&b, "\"next Monday\": %s\n", nextWeekday(ref, time.Monday).Format(dateLayout))
	fmt.Fprintf(&b, "\"next Friday\": %s\n", nextWeekday(ref, time.Friday).Format(dateLayout))
	fmt.Fprintf(&b, "\"in one week\": %s\n", ref.AddDate(0, 0, 7).Format(dateLayout))
	fmt.Fprintf(&b, "\"in two weeks\": %s", ref.AddDate(0, 0, 14).Format(dateLayout))
	return b.String()
}
