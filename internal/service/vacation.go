// internal/service/vacation.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"

	"github.com/sirupsen/logrus"

	"vacation-planner/internal/colors"
	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"
)

// VacationService keeps the in-memory record set in step with the store.
// Mutations reach the store first and only touch the record set on success.
type VacationService struct {
	mu       sync.RWMutex
	records  []models.VacationRecord
	reader   repository.Reader
	rows     repository.IncrementalStore
	snapshot repository.SnapshotStore
	palette  *colors.Palette
	logger   logrus.FieldLogger
}

// NewVacationService accepts a store that supports either incremental writes
// or full rewrites. Incremental writes are preferred when both are available.
func NewVacationService(store repository.Reader, palette *colors.Palette, logger logrus.FieldLogger) (*VacationService, error) {
	s := &VacationService{
		records: []models.VacationRecord{},
		reader:  store,
		palette: palette,
		logger:  logger,
	}

	switch st := store.(type) {
	case repository.IncrementalStore:
		s.rows = st
	case repository.SnapshotStore:
		s.snapshot = st
	default:
		return nil, fmt.Errorf("store %T supports neither incremental writes nor full rewrites", store)
	}

	if s.palette == nil {
		s.palette = colors.NewPalette()
	}
	return s, nil
}

// Colors returns the palette shared by the table and calendar views.
func (s *VacationService) Colors() *colors.Palette {
	return s.palette
}

// LoadAll replaces the record set with the store's contents. When the fetch
// fails the record set becomes empty and the error is returned for display.
func (s *VacationService) LoadAll(ctx context.Context) ([]models.VacationRecord, error) {
	fetched, err := s.reader.FetchAll(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.palette.Invalidate()
	if err != nil {
		s.records = []models.VacationRecord{}
		s.logger.WithError(err).Error("Failed to load vacation records")
		if !errors.Is(err, models.ErrBackendUnavailable) {
			err = fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
		}
		return []models.VacationRecord{}, err
	}

	records := make([]models.VacationRecord, 0, len(fetched))
	seen := make(map[string]bool, len(fetched))
	for _, r := range fetched {
		if r.ID != "" && seen[r.ID] {
			s.logger.WithField("record_id", r.ID).Warn("Dropping duplicate record id")
			continue
		}
		seen[r.ID] = true
		records = append(records, r)
	}
	assignFallbackIDs(records)

	s.records = records
	s.logger.WithField("count", len(records)).Info("Loaded vacation records")
	return s.copyRecords(), nil
}

// Create stores a new record and appends it to the record set.
func (s *VacationService) Create(ctx context.Context, input models.RecordInput) (models.VacationRecord, error) {
	input, err := input.Validate()
	if err != nil {
		return models.VacationRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	record := input.Record()
	if s.snapshot != nil {
		desired := append(s.copyRecords(), record)
		written, err := s.replaceAll(ctx, desired)
		if err != nil {
			return models.VacationRecord{}, err
		}
		return written[len(written)-1], nil
	}

	created, err := s.insertOne(ctx, record)
	if err != nil {
		return models.VacationRecord{}, err
	}
	s.records = append(s.records, created)

	s.logger.WithField("record_id", created.ID).Info("Created vacation record")
	return created, nil
}

// Update replaces the record with the given id, keeping its position.
//
// With an incremental store the new row is inserted before the old one is
// deleted, so the edit can never lose the record. The returned record may
// carry a new id.
func (s *VacationService) Update(ctx context.Context, id string, input models.RecordInput) (models.VacationRecord, error) {
	input, err := input.Validate()
	if err != nil {
		return models.VacationRecord{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return models.VacationRecord{}, fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
	}

	record := input.Record()
	if s.snapshot != nil {
		record.ID = id
		desired := s.copyRecords()
		desired[idx] = record
		written, err := s.replaceAll(ctx, desired)
		if err != nil {
			return models.VacationRecord{}, err
		}
		return written[idx], nil
	}

	created, err := s.insertOne(ctx, record)
	if err != nil {
		return models.VacationRecord{}, err
	}

	log := s.logger.WithFields(logrus.Fields{"record_id": id, "new_record_id": created.ID})
	if err := s.rows.DeleteByID(ctx, id); err != nil {
		if undoErr := s.rows.DeleteByID(ctx, created.ID); undoErr != nil {
			// Both rows now exist in the store; show both so the view matches it.
			s.records = append(s.records, created)
			log.WithError(undoErr).Error("Edit left a duplicate row behind")
			return models.VacationRecord{}, fmt.Errorf("%w: removing previous version: %v; the new version was kept as %s",
				models.ErrBackendWrite, err, created.ID)
		}
		log.WithError(err).Warn("Edit rolled back")
		return models.VacationRecord{}, wrapWrite(err)
	}

	s.records[idx] = created
	log.Info("Updated vacation record")
	return created, nil
}

// Delete removes the record from the store and then from the record set.
func (s *VacationService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", models.ErrRecordNotFound, id)
	}

	if s.snapshot != nil {
		desired := make([]models.VacationRecord, 0, len(s.records)-1)
		desired = append(desired, s.records[:idx]...)
		desired = append(desired, s.records[idx+1:]...)
		if _, err := s.replaceAll(ctx, desired); err != nil {
			return err
		}
	} else {
		if err := s.rows.DeleteByID(ctx, id); err != nil {
			s.logger.WithError(err).WithField("record_id", id).Error("Failed to delete vacation record")
			return wrapWrite(err)
		}
		s.records = append(s.records[:idx:idx], s.records[idx+1:]...)
	}

	s.palette.Invalidate()
	s.logger.WithField("record_id", id).Info("Deleted vacation record")
	return nil
}

// FilterByArea returns the records whose area equals area, or every record
// for models.AllAreas.
func (s *VacationService) FilterByArea(area string) []models.VacationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if area == models.AllAreas {
		return s.copyRecords()
	}

	filtered := []models.VacationRecord{}
	for _, r := range s.records {
		if r.Area == area {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// Records returns a copy of the current record set.
func (s *VacationService) Records() []models.VacationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.copyRecords()
}

// Areas lists the distinct areas in order of first appearance.
func (s *VacationService) Areas() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	areas := []string{}
	seen := make(map[string]bool)
	for _, r := range s.records {
		if !seen[r.Area] {
			seen[r.Area] = true
			areas = append(areas, r.Area)
		}
	}
	return areas
}

// Find returns the record with the given id.
func (s *VacationService) Find(id string) (models.VacationRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if idx := s.indexOf(id); idx >= 0 {
		return s.records[idx], true
	}
	return models.VacationRecord{}, false
}

func (s *VacationService) insertOne(ctx context.Context, record models.VacationRecord) (models.VacationRecord, error) {
	inserted, err := s.rows.Insert(ctx, []models.VacationRecord{record})
	if err != nil {
		s.logger.WithError(err).WithField("employee", record.EmployeeName).Error("Failed to insert vacation record")
		return models.VacationRecord{}, wrapWrite(err)
	}

	created := record
	if len(inserted) > 0 {
		created.ID = inserted[0].ID
	}
	if created.ID != "" && s.indexOf(created.ID) >= 0 {
		// The row was stored, but under an id the record set already holds; /reload resyncs.
		s.logger.WithField("record_id", created.ID).Error("Store returned an id already in use")
		return models.VacationRecord{}, fmt.Errorf("%w: store returned id %s, which is already in use; reload the records",
			models.ErrBackendWrite, created.ID)
	}
	if created.ID == "" {
		created.ID = strconv.FormatInt(repository.NextOrdinal(s.records), 10)
		s.logger.WithField("record_id", created.ID).Warn("Store returned no id, using fallback ordinal")
	}
	return created, nil
}

func (s *VacationService) replaceAll(ctx context.Context, desired []models.VacationRecord) ([]models.VacationRecord, error) {
	written, err := s.snapshot.ReplaceAll(ctx, desired)
	if err != nil {
		s.logger.WithError(err).Error("Failed to rewrite vacation records")
		return nil, wrapWrite(err)
	}
	if len(written) != len(desired) {
		return nil, fmt.Errorf("%w: store wrote %d rows, expected %d", models.ErrBackendWrite, len(written), len(desired))
	}

	s.records = written
	return s.copyRecords(), nil
}

func (s *VacationService) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i, r := range s.records {
		if r.ID == id {
			return i
		}
	}
	return -1
}

func (s *VacationService) copyRecords() []models.VacationRecord {
	out := make([]models.VacationRecord, len(s.records))
	copy(out, s.records)
	return out
}

// assignFallbackIDs gives an ordinal id to records the store returned without one.
func assignFallbackIDs(records []models.VacationRecord) {
	next := repository.NextOrdinal(records)
	for i := range records {
		if records[i].ID == "" {
			records[i].ID = strconv.FormatInt(next, 10)
			next++
		}
	}
}

func wrapWrite(err error) error {
	if errors.Is(err, models.ErrBackendWrite) {
		return err
	}
	return fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
}
