package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacation-planner/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDurationDays(t *testing.T) {
	tests := []struct {
		name       string
		start, end time.Time
		want       int
	}{
		{"one week", date(2025, 1, 1), date(2025, 1, 7), 6},
		{"same day", date(2025, 3, 10), date(2025, 3, 10), 0},
		{"across month", date(2025, 1, 30), date(2025, 2, 2), 3},
		{"leap year", date(2024, 2, 28), date(2024, 3, 1), 2},
		{"centuries", date(1700, 1, 1), date(2025, 1, 1), 118704},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := models.VacationRecord{StartDate: tt.start, EndDate: tt.end}
			assert.Equal(t, tt.want, r.DurationDays())
		})
	}
}

func TestLongRangeDurationAfterValidate(t *testing.T) {
	in, err := models.RecordInput{
		EmployeeName: "Ana",
		StartDate:    date(1700, 1, 1),
		EndDate:      date(2025, 1, 1),
	}.Validate()
	require.NoError(t, err)
	assert.Equal(t, 118704, in.Record().DurationDays())
}

func TestValidateNormalizes(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	in := models.RecordInput{
		EmployeeName: "  Ana ",
		Area:         " Eng ",
		StartDate:    time.Date(2025, 1, 1, 22, 30, 0, 0, loc),
		EndDate:      time.Date(2025, 1, 7, 8, 0, 0, 0, loc),
	}

	got, err := in.Validate()
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.EmployeeName)
	assert.Equal(t, "Eng", got.Area)
	assert.Equal(t, date(2025, 1, 1), got.StartDate)
	assert.Equal(t, date(2025, 1, 7), got.EndDate)
	assert.Equal(t, 6, got.Record().DurationDays())
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name string
		in   models.RecordInput
	}{
		{"empty name", models.RecordInput{EmployeeName: " ", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 2)}},
		{"missing dates", models.RecordInput{EmployeeName: "Ana"}},
		{"end before start", models.RecordInput{EmployeeName: "Ana", StartDate: date(2025, 1, 7), EndDate: date(2025, 1, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.in.Validate()
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestDefaultInput(t *testing.T) {
	in := models.DefaultInput(date(2026, 10, 14))
	assert.Equal(t, date(2027, 1, 1), in.StartDate)
	assert.Equal(t, date(2027, 1, 7), in.EndDate)

	start, end := models.PlanningWindow(date(2026, 10, 14))
	assert.Equal(t, date(2027, 1, 1), start)
	assert.Equal(t, date(2027, 12, 31), end)
}

func TestParseDate(t *testing.T) {
	for _, s := range []string{"2025-01-07", "07/01/2025", "07.01.2025", "07-01-2025", "2025-01-07T15:04:05Z"} {
		got, err := models.ParseDate(s)
		require.NoError(t, err, s)
		assert.Equal(t, date(2025, 1, 7), got, s)
	}

	_, err := models.ParseDate("next monday")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestParseDateRange(t *testing.T) {
	start, end, err := models.ParseDateRange("01/01/2025 - 07/01/2025")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 1, 1), start)
	assert.Equal(t, date(2025, 1, 7), end)

	start, end, err = models.ParseDateRange("2025-02-01 2025-02-03")
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 1), start)
	assert.Equal(t, date(2025, 2, 3), end)

	_, _, err = models.ParseDateRange("2025-02-01")
	assert.ErrorIs(t, err, models.ErrValidation)
}
