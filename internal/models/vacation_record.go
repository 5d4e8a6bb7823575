// internal/models/vacation_record.go
package models

import (
	"fmt"
	"strings"
	"time"
)

// AllAreas is the filter value that selects every record.
const AllAreas = "all"

// VacationRecord is one employee vacation period as shown in the table and calendar.
type VacationRecord struct {
	ID           string    `json:"id"`
	EmployeeName string    `json:"employee_name"`
	Area         string    `json:"area"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// DurationDays returns the number of days between StartDate and EndDate.
// A single-day vacation (start == end) has a duration of 0.
func (r VacationRecord) DurationDays() int {
	return DaysBetween(r.StartDate, r.EndDate)
}

// Input returns the editable fields of the record.
func (r VacationRecord) Input() RecordInput {
	return RecordInput{
		EmployeeName: r.EmployeeName,
		Area:         r.Area,
		StartDate:    r.StartDate,
		EndDate:      r.EndDate,
	}
}

// RecordInput holds the user-supplied fields of a record. It has no id and no
// duration: the id comes from the backend and the duration is always derived.
type RecordInput struct {
	EmployeeName string    `json:"employee_name"`
	Area         string    `json:"area"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
}

// Validate trims and normalizes the input and checks it can be stored.
func (in RecordInput) Validate() (RecordInput, error) {
	in.EmployeeName = strings.TrimSpace(in.EmployeeName)
	in.Area = strings.TrimSpace(in.Area)

	if in.EmployeeName == "" {
		return in, fmt.Errorf("%w: employee name is required", ErrValidation)
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() {
		return in, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}

	in.StartDate = NormalizeDate(in.StartDate)
	in.EndDate = NormalizeDate(in.EndDate)

	if in.EndDate.Before(in.StartDate) {
		return in, fmt.Errorf("%w: end date %s is before start date %s",
			ErrValidation, FormatISO(in.EndDate), FormatISO(in.StartDate))
	}

	return in, nil
}

// Record builds a record without an id from a validated input.
func (in RecordInput) Record() VacationRecord {
	return VacationRecord{
		EmployeeName: in.EmployeeName,
		Area:         in.Area,
		StartDate:    in.StartDate,
		EndDate:      in.EndDate,
	}
}

// DefaultInput is the range the form starts with: the first week of next year.
func DefaultInput(now time.Time) RecordInput {
	start, _ := PlanningWindow(now)
	return RecordInput{
		StartDate: start,
		EndDate:   start.AddDate(0, 0, 6),
	}
}

// PlanningWindow returns January 1st and December 31st of the year after now.
func PlanningWindow(now time.Time) (time.Time, time.Time) {
	year := now.Year() + 1
	return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
}
