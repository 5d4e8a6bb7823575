package models

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ISODateLayout is the YYYY-MM-DD form used by the table service and the calendar.
	ISODateLayout = "2006-01-02"
	// LocaleDateLayout is the day/month/year form used by the spreadsheet and the table view.
	LocaleDateLayout = "02/01/2006"
)

var dateLayouts = []string{
	ISODateLayout,
	LocaleDateLayout,
	"02.01.2006",
	"02-01-2006",
	time.RFC3339,
}

// NormalizeDate drops the time of day, keeping the calendar date as UTC midnight.
func NormalizeDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns end - start in whole calendar days. It works on Unix
// seconds since time.Duration overflows past about 292 years.
func DaysBetween(start, end time.Time) int {
	return int((NormalizeDate(end).Unix() - NormalizeDate(start).Unix()) / 86400)
}

// ParseDate accepts ISO dates, dd/mm/yyyy and a few common variants.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return NormalizeDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid date %q, use YYYY-MM-DD or DD/MM/YYYY", ErrValidation, s)
}

// ParseDateRange parses "start end" or "start - end".
func ParseDateRange(s string) (time.Time, time.Time, error) {
	fields := strings.Fields(strings.ReplaceAll(s, " - ", " "))
	if len(fields) != 2 {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: expected two dates, got %q", ErrValidation, s)
	}

	start, err := ParseDate(fields[0])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := ParseDate(fields[1])
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

// FormatISO formats t as YYYY-MM-DD.
func FormatISO(t time.Time) string {
	return t.Format(ISODateLayout)
}

// FormatLocale formats t as dd/mm/yyyy.
func FormatLocale(t time.Time) string {
	return t.Format(LocaleDateLayout)
}
