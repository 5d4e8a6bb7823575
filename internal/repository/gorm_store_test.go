package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quietLogger() logrus.FieldLogger {
	l, _ := test.NewNullLogger()
	return l
}

func newGormStore(t *testing.T) (*repository.GormStore, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	// every pooled connection would otherwise open its own empty in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store, err := repository.NewGormStore(db, "", quietLogger())
	require.NoError(t, err)

	t.Cleanup(func() { sqlDB.Close() })
	return store, db
}

func TestGormStoreInsertFetchDelete(t *testing.T) {
	store, _ := newGormStore(t)
	ctx := context.Background()

	empty, err := store.FetchAll(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	inserted, err := store.Insert(ctx, []models.VacationRecord{
		{EmployeeName: "Ana", Area: "Eng", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
		{EmployeeName: "Bruno", Area: "Ops", StartDate: date(2025, 2, 1), EndDate: date(2025, 2, 1)},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 2)
	assert.NotEmpty(t, inserted[0].ID)
	assert.NotEqual(t, inserted[0].ID, inserted[1].ID)

	all, err := store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ana", all[0].EmployeeName)
	assert.Equal(t, "Eng", all[0].Area)
	assert.Equal(t, date(2025, 1, 1), all[0].StartDate)
	assert.Equal(t, date(2025, 1, 7), all[0].EndDate)
	assert.Equal(t, 6, all[0].DurationDays())

	require.NoError(t, store.DeleteByID(ctx, inserted[0].ID))

	all, err = store.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, inserted[1].ID, all[0].ID)
}

func TestGormStoreStoresDuration(t *testing.T) {
	store, db := newGormStore(t)

	inserted, err := store.Insert(context.Background(), []models.VacationRecord{
		{EmployeeName: "Ana", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 11)},
	})
	require.NoError(t, err)

	var durations []int
	require.NoError(t, db.Table(repository.DefaultTable).Where("id = ?", inserted[0].ID).Pluck("duracao", &durations).Error)
	assert.Equal(t, []int{10}, durations)
}

func TestGormStoreDeleteInvalidID(t *testing.T) {
	store, _ := newGormStore(t)

	err := store.DeleteByID(context.Background(), "abc")
	assert.ErrorIs(t, err, models.ErrBackendWrite)

	assert.NoError(t, store.DeleteByID(context.Background(), "999"))
}

func TestGormStoreClosedDatabase(t *testing.T) {
	store, db := newGormStore(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.Close()

	_, err = store.FetchAll(context.Background())
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)

	_, err = store.Insert(context.Background(), []models.VacationRecord{{EmployeeName: "Ana", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 2)}})
	assert.ErrorIs(t, err, models.ErrBackendWrite)
}
