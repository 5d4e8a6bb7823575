package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"vacation-planner/internal/models"
)

// TextColor is drawn over every event background.
const TextColor = "#FFFFFF"

// Event is a calendar entry in the shape calendar widgets expect. End is
// exclusive, so it is the day after the last vacation day.
type Event struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Start           string `json:"start"`
	End             string `json:"end"`
	AllDay          bool   `json:"allDay"`
	BackgroundColor string `json:"backgroundColor"`
	TextColor       string `json:"textColor"`
}

// Events builds one all-day event per record.
func Events(records []models.VacationRecord, colors ColorSource) []Event {
	events := make([]Event, 0, len(records))
	for _, r := range records {
		events = append(events, Event{
			ID:              r.ID,
			Title:           fmt.Sprintf("%s (Vacation)", r.EmployeeName),
			Start:           models.FormatISO(r.StartDate),
			End:             models.FormatISO(ExclusiveEnd(r)),
			AllDay:          true,
			BackgroundColor: colors.ColorFor(r.EmployeeName),
			TextColor:       TextColor,
		})
	}
	return events
}

// ExclusiveEnd is the day after the record's last vacation day.
func ExclusiveEnd(r models.VacationRecord) time.Time {
	return models.NormalizeDate(r.EndDate).AddDate(0, 0, 1)
}

// InitialDate is the date a calendar opens on: the earliest start date, or
// January 1st 2025 when there are no records.
func InitialDate(records []models.VacationRecord) time.Time {
	if len(records) == 0 {
		return time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	first := records[0].StartDate
	for _, r := range records[1:] {
		if r.StartDate.Before(first) {
			first = r.StartDate
		}
	}
	return models.NormalizeDate(first)
}

// CalendarOptions configures the month/year calendar widget on the web page.
func CalendarOptions(records []models.VacationRecord, locale string) map[string]interface{} {
	return map[string]interface{}{
		"editable":      false,
		"selectable":    true,
		"initialView":   "dayGridMonth",
		"initialDate":   models.FormatISO(InitialDate(records)),
		"eventMaxStack": 10,
		"eventDisplay":  "block",
		"locale":        locale,
		"headerToolbar": map[string]string{
			"left":   "dayGridMonth,multiMonthYear",
			"center": "title",
			"right":  "prev,next",
		},
	}
}

// MonthAgenda lists the vacations overlapping the month of day, ordered by start.
func MonthAgenda(records []models.VacationRecord, day time.Time) string {
	first := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
	next := first.AddDate(0, 1, 0)

	var overlapping []models.VacationRecord
	for _, r := range records {
		if r.StartDate.Before(next) && ExclusiveEnd(r).After(first) {
			overlapping = append(overlapping, r)
		}
	}
	sort.SliceStable(overlapping, func(i, j int) bool {
		return overlapping[i].StartDate.Before(overlapping[j].StartDate)
	})

	var b strings.Builder
	fmt.Fprintf(&b, "📅 %s %d", first.Month(), first.Year())
	if len(overlapping) == 0 {
		b.WriteString("\nNo vacations this month.")
		return b.String()
	}
	for _, r := range overlapping {
		fmt.Fprintf(&b, "\n• %s → %s %s", models.FormatLocale(r.StartDate), models.FormatLocale(r.EndDate), r.EmployeeName)
		if r.Area != "" {
			fmt.Fprintf(&b, " (%s)", r.Area)
		}
	}
	return b.String()
}
