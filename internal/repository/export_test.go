package repository

// SetPageSize shrinks the FetchAll page so tests can exercise paging.
func (s *SupabaseStore) SetPageSize(n int) { s.pageSize = n }
