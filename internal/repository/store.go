// internal/repository/store.go
package repository

import (
	"context"
	"strconv"

	"vacation-planner/internal/models"
)

// Reader lists every record held by a backend.
type Reader interface {
	FetchAll(ctx context.Context) ([]models.VacationRecord, error)
}

// IncrementalStore inserts and deletes single rows. Inserted records come back
// with the id the backend assigned. Multi-row inserts are not atomic.
type IncrementalStore interface {
	Reader
	Insert(ctx context.Context, records []models.VacationRecord) ([]models.VacationRecord, error)
	DeleteByID(ctx context.Context, id string) error
}

// SnapshotStore can only replace the whole collection. ReplaceAll returns the
// written rows in order, with ids filled in for rows that had none.
type SnapshotStore interface {
	Reader
	ReplaceAll(ctx context.Context, records []models.VacationRecord) ([]models.VacationRecord, error)
}

// NextOrdinal returns max(numeric id)+1 over records, starting at 1.
// Non-numeric ids are ignored.
func NextOrdinal(records []models.VacationRecord) int64 {
	var max int64
	for _, r := range records {
		if n, err := strconv.ParseInt(r.ID, 10, 64); err == nil && n > max {
			max = n
		}
	}
	return max + 1
}
