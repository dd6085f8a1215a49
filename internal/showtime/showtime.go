// Package showtime turns the loosely formatted show times displayed on a
// seller profile ("Tomorrow 9:00 PM", "Fri 8:30 PM") into absolute timestamps
// used to order upcoming shows.
package showtime

import (
	"regexp"
	"strings"
	"time"
)

const (
	tomorrowToken = "Tomorrow"
	clockLayout   = "3:4 PM"

	// FarFutureDays is how far ahead an unparseable time is placed so it
	// sorts after every real show.
	FarFutureDays = 365
)

var weekdayExpr = regexp.MustCompile(`^([A-Za-z]{3})\s+(\d{1,2}:\d{1,2}\s+[AaPp][Mm])$`)

var weekdays = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Resolve converts raw into an absolute time relative to now.
//
// Recognised shapes, in order: anything containing "Tomorrow" followed by a
// 12-hour clock time, then "<Mon..Sun> <h:mm AM/PM>". A weekday equal to
// today's with a clock time already passed means next week. Anything else
// resolves to now plus FarFutureDays. Calendar arithmetic uses now's location.
func Resolve(raw string, now time.Time) time.Time {
	if strings.Contains(raw, tomorrowToken) {
		next := now.AddDate(0, 0, 1)
		clock, ok := parseClock(strings.ReplaceAll(raw, tomorrowToken, ""))
		if !ok {
			return next
		}
		return atClock(next, clock)
	}

	if day, clock, ok := parseWeekday(raw); ok {
		daysAhead := (int(day) - int(now.Weekday()) + 7) % 7
		if daysAhead == 0 && clock < sinceMidnight(now) {
			daysAhead = 7
		}
		return atClock(now.AddDate(0, 0, daysAhead), clock)
	}

	return now.AddDate(0, 0, FarFutureDays)
}

// parseClock parses "h:mm AM/PM" and returns the offset from midnight. The
// hour must be 1-12; minutes may be one or two digits.
func parseClock(s string) (time.Duration, bool) {
	norm := strings.ToUpper(strings.Join(strings.Fields(s), " "))
	if hour, _, _ := strings.Cut(norm, ":"); strings.Trim(hour, "0") == "" {
		return 0, false
	}
	t, err := time.Parse(clockLayout, norm)
	if err != nil {
		return 0, false
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, true
}

func parseWeekday(raw string) (time.Weekday, time.Duration, bool) {
	m := weekdayExpr.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return 0, 0, false
	}
	day, ok := weekdays[strings.ToLower(m[1])]
	if !ok {
		return 0, 0, false
	}
	clock, ok := parseClock(m[2])
	if !ok {
		return 0, 0, false
	}
	return day, clock, true
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

// atClock keeps t's date and replaces its time of day; seconds are zeroed.
func atClock(t time.Time, clock time.Duration) time.Time {
	h := int(clock / time.Hour)
	m := int((clock % time.Hour) / time.Minute)
	return time.Date(t.Year(), t.Month(), t.Day(), h, m, 0, 0, t.Location())
}
