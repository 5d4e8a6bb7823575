package service

import (
	"strings"

	"vacation-planner/internal/models"
)

// Overlapping returns the other records of the same employee whose period
// shares at least one day with record. Overlaps are allowed; callers use
// this to warn.
func (s *VacationService) Overlapping(record models.VacationRecord) []models.VacationRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	conflicts := []models.VacationRecord{}
	for _, r := range s.records {
		if r.ID == record.ID || !strings.EqualFold(r.EmployeeName, record.EmployeeName) {
			continue
		}
		if !r.StartDate.After(record.EndDate) && !r.EndDate.Before(record.StartDate) {
			conflicts = append(conflicts, r)
		}
	}
	return conflicts
}
