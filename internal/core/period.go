package core

import (
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire and in storage.
const DateLayout = "2006-01-02"

// DateRange is an inclusive range of calendar dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether d falls within the range, bounds included.
func (r DateRange) Contains(d time.Time) bool {
	d = TruncateDate(d)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Overlaps reports whether the two ranges share at least one day.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.End.Before(other.Start) && !r.Start.After(other.End)
}

// ParseDate parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// TruncateDate drops the clock part of t, keeping its calendar date in UTC.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// PeriodRange derives the date range covered by a report period.
// Monthly periods are "YYYY-MM" and end on the last calendar day of the month;
// yearly periods are "YYYY" and cover January 1 to December 31.
func PeriodRange(typ Period, period string) (DateRange, error) {
	period = strings.TrimSpace(period)
	switch typ {
	case Monthly:
		start, err := time.ParseInLocation("2006-01", period, time.UTC)
		if err != nil {
			return DateRange{}, Validation("Period must be in YYYY-MM format for monthly reports")
		}
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case Yearly:
		start, err := time.ParseInLocation("2006", period, time.UTC)
		if err != nil {
			return DateRange{}, Validation("Period must be in YYYY format for yearly reports")
		}
		return DateRange{Start: start, End: time.Date(start.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)}, nil
	default:
		return DateRange{}, Validation("Type must be monthly or yearly")
	}
}

// LastDays returns the range of the n days ending on today, inclusive.
func LastDays(today time.Time, n int) DateRange {
	end := TruncateDate(today)
	return DateRange{Start: end.AddDate(0, 0, -n), End: end}
}
