// internal/repository/gorm_store.go
package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"vacation-planner/internal/models"
)

// DefaultTable is the table used by the hosted table service.
const DefaultTable = "planejamento_ferias"

// vacationRow mirrors the hosted table's schema. Column names are the
// backend's and never leave this package.
type vacationRow struct {
	ID          int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Funcionario string    `gorm:"column:funcionario;not null"`
	Area        string    `gorm:"column:area"`
	Inicio      time.Time `gorm:"column:inicio;type:date;not null"`
	Fim         time.Time `gorm:"column:fim;type:date;not null"`
	Duracao     int       `gorm:"column:duracao;not null;default:0"`
}

func rowFromRecord(r models.VacationRecord) vacationRow {
	return vacationRow{
		Funcionario: r.EmployeeName,
		Area:        r.Area,
		Inicio:      models.NormalizeDate(r.StartDate),
		Fim:         models.NormalizeDate(r.EndDate),
		Duracao:     r.DurationDays(),
	}
}

func (row vacationRow) record() models.VacationRecord {
	return models.VacationRecord{
		ID:           strconv.FormatInt(row.ID, 10),
		EmployeeName: row.Funcionario,
		Area:         row.Area,
		StartDate:    models.NormalizeDate(row.Inicio),
		EndDate:      models.NormalizeDate(row.Fim),
	}
}

// GormStore reaches the hosted table directly over SQL.
type GormStore struct {
	db     *gorm.DB
	table  string
	logger logrus.FieldLogger
}

var _ IncrementalStore = (*GormStore)(nil)

// NewGormStore migrates the table and returns a store bound to it.
func NewGormStore(db *gorm.DB, table string, logger logrus.FieldLogger) (*GormStore, error) {
	if table == "" {
		table = DefaultTable
	}
	if err := db.Table(table).AutoMigrate(&vacationRow{}); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", table, err)
	}
	return &GormStore{
		db:     db,
		table:  table,
		logger: logger.WithField("backend", db.Dialector.Name()),
	}, nil
}

func (s *GormStore) FetchAll(ctx context.Context) ([]models.VacationRecord, error) {
	var rows []vacationRow
	err := s.db.WithContext(ctx).Table(s.table).Order("id").Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}

	records := make([]models.VacationRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, row.record())
	}
	return records, nil
}

func (s *GormStore) Insert(ctx context.Context, records []models.VacationRecord) ([]models.VacationRecord, error) {
	if len(records) == 0 {
		return []models.VacationRecord{}, nil
	}

	rows := make([]vacationRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, rowFromRecord(r))
	}

	if err := s.db.WithContext(ctx).Table(s.table).Create(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}

	inserted := make([]models.VacationRecord, 0, len(rows))
	for _, row := range rows {
		inserted = append(inserted, row.record())
	}
	s.logger.WithField("count", len(inserted)).Debug("Inserted vacation rows")
	return inserted, nil
}

func (s *GormStore) DeleteByID(ctx context.Context, id string) error {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return fmt.Errorf("%w: id %q is not numeric", models.ErrBackendWrite, id)
	}

	result := s.db.WithContext(ctx).Table(s.table).Where("id = ?", n).Delete(&vacationRow{})
	if result.Error != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendWrite, result.Error)
	}
	if result.RowsAffected == 0 {
		s.logger.WithField("record_id", id).Warn("Vacation row was already gone")
	}
	return nil
}
