package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacation-planner/internal/models"
	"vacation-planner/internal/service"
)

func TestOverlapping(t *testing.T) {
	logger, _ := test.NewNullLogger()
	store := &tableStore{
		rows: []models.VacationRecord{
			{ID: "1", EmployeeName: "Ana", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
			{ID: "2", EmployeeName: "ana", StartDate: date(2025, 1, 7), EndDate: date(2025, 1, 9)},
			{ID: "3", EmployeeName: "Ana", StartDate: date(2025, 1, 8), EndDate: date(2025, 1, 20)},
			{ID: "4", EmployeeName: "Bruno", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
		},
		nextID: 4,
	}
	svc, err := service.NewVacationService(store, nil, logger)
	require.NoError(t, err)
	_, err = svc.LoadAll(context.Background())
	require.NoError(t, err)

	first, ok := svc.Find("1")
	require.True(t, ok)

	var ids []string
	for _, r := range svc.Overlapping(first) {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"2"}, ids)

	later := models.VacationRecord{EmployeeName: "Ana", StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 2)}
	assert.Empty(t, svc.Overlapping(later))

	sameDay := models.VacationRecord{EmployeeName: "Ana", StartDate: date(2025, 1, 20), EndDate: date(2025, time.January, 20)}
	require.Len(t, svc.Overlapping(sameDay), 1)
	assert.Equal(t, "3", svc.Overlapping(sameDay)[0].ID)
}
