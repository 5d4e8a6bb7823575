// Package render turns vacation records into table rows, calendar events and
// iCalendar documents.
package render

import (
	"fmt"
	"strings"

	"vacation-planner/internal/models"
)

// ColorSource supplies the display color of an employee.
type ColorSource interface {
	ColorFor(name string) string
}

// Row is one line of the vacation table.
type Row struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employee_name"`
	Area         string `json:"area"`
	Color        string `json:"color"`
	Start        string `json:"start"`
	End          string `json:"end"`
	DurationDays int    `json:"duration_days"`
}

// Table builds the table rows in record order. Dates are dd/mm/yyyy.
func Table(records []models.VacationRecord, colors ColorSource) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			ID:           r.ID,
			EmployeeName: r.EmployeeName,
			Area:         r.Area,
			Color:        colors.ColorFor(r.EmployeeName),
			Start:        models.FormatLocale(r.StartDate),
			End:          models.FormatLocale(r.EndDate),
			DurationDays: r.DurationDays(),
		})
	}
	return rows
}

// TableText renders rows as plain text, one record per line.
func TableText(rows []Row) string {
	if len(rows) == 0 {
		return "No vacations registered."
	}

	var b strings.Builder
	for _, row := range rows {
		area := row.Area
		if area == "" {
			area = "-"
		}
		fmt.Fprintf(&b, "#%s %s · %s · %s → %s (%d %s)\n",
			row.ID, row.EmployeeName, area, row.Start, row.End, row.DurationDays, plural(row.DurationDays, "day", "days"))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
