package repository_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vacation-planner/internal/models"
	"vacation-planner/internal/repository"
)

func newSupabase(t *testing.T, handler http.HandlerFunc) *repository.SupabaseStore {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store, err := repository.NewSupabaseStore(srv.URL, "secret", "", 5*time.Second, quietLogger())
	require.NoError(t, err)
	return store
}

func TestSupabaseFetchAll(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/rest/v1/planejamento_ferias", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.Equal(t, "*", r.URL.Query().Get("select"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"id": 1, "funcionario": "Ana", "area": "Eng", "inicio": "2025-01-01", "fim": "2025-01-07", "duracao": 99},
			{"id": "b7", "funcionario": "Bruno", "area": "Ops", "inicio": "2025-02-01", "fim": "2025-02-03", "duracao": 2},
			{"id": 3, "funcionario": "Broken", "area": "Ops", "inicio": "soon", "fim": "2025-02-03", "duracao": 2}
		]`))
	})

	records, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "Ana", records[0].EmployeeName)
	assert.Equal(t, 6, records[0].DurationDays(), "stored duration is ignored")
	assert.Equal(t, "b7", records[1].ID)
}

func TestSupabaseFetchAllPages(t *testing.T) {
	var offsets []string
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2", q.Get("limit"))
		assert.Equal(t, "id.asc", q.Get("order"))
		offsets = append(offsets, q.Get("offset"))

		offset, err := strconv.Atoi(q.Get("offset"))
		if !assert.NoError(t, err) {
			return
		}
		var rows []map[string]interface{}
		for id := offset + 1; id <= 5 && id <= offset+2; id++ {
			rows = append(rows, map[string]interface{}{
				"id": id, "funcionario": "Employee " + strconv.Itoa(id), "area": "Eng",
				"inicio": "2025-01-01", "fim": "2025-01-07",
			})
		}
		if rows == nil {
			rows = []map[string]interface{}{}
		}
		assert.NoError(t, json.NewEncoder(w).Encode(rows))
	})
	store.SetPageSize(2)

	records, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "5", records[4].ID)
	assert.Equal(t, []string{"0", "2", "4"}, offsets)
}

func TestSupabaseFetchAllPageFailure(t *testing.T) {
	calls := 0
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls > 1 {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`[
			{"id": 1, "funcionario": "Ana", "area": "Eng", "inicio": "2025-01-01", "fim": "2025-01-07"},
			{"id": 2, "funcionario": "Bruno", "area": "Ops", "inicio": "2025-02-01", "fim": "2025-02-03"}
		]`))
	})
	store.SetPageSize(2)

	_, err := store.FetchAll(context.Background())
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
	assert.Equal(t, 2, calls)
}

func TestSupabaseFetchAllEmpty(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})

	records, err := store.FetchAll(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestSupabaseFetchAllUnavailable(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := store.FetchAll(context.Background())
	assert.ErrorIs(t, err, models.ErrBackendUnavailable)
}

func TestSupabaseInsert(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "return=representation", r.Header.Get("Prefer"))

		var rows []map[string]interface{}
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&rows)) || !assert.Len(t, rows, 1) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		assert.NotContains(t, rows[0], "id")
		assert.Equal(t, "Ana", rows[0]["funcionario"])
		assert.Equal(t, "2025-01-01", rows[0]["inicio"])
		assert.Equal(t, "2025-01-07", rows[0]["fim"])
		assert.EqualValues(t, 6, rows[0]["duracao"])

		rows[0]["id"] = 42
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(rows)
	})

	inserted, err := store.Insert(context.Background(), []models.VacationRecord{
		{EmployeeName: "Ana", Area: "Eng", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
	})
	require.NoError(t, err)
	require.Len(t, inserted, 1)
	assert.Equal(t, "42", inserted[0].ID)
	assert.Equal(t, "Eng", inserted[0].Area)
}

func TestSupabaseInsertRejected(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"permission denied"}`, http.StatusForbidden)
	})

	_, err := store.Insert(context.Background(), []models.VacationRecord{
		{EmployeeName: "Ana", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 7)},
	})
	assert.ErrorIs(t, err, models.ErrBackendWrite)
	assert.Contains(t, err.Error(), "permission denied")
}

func TestSupabaseDeleteByID(t *testing.T) {
	var calls int
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "eq.42", r.URL.Query().Get("id"))
		w.WriteHeader(http.StatusNoContent)
	})

	require.NoError(t, store.DeleteByID(context.Background(), "42"))
	assert.Equal(t, 1, calls)
}

func TestSupabaseDeleteByIDFails(t *testing.T) {
	store := newSupabase(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	err := store.DeleteByID(context.Background(), "42")
	assert.ErrorIs(t, err, models.ErrBackendWrite)
}

func TestNewSupabaseStoreRequiresCredentials(t *testing.T) {
	_, err := repository.NewSupabaseStore("", "", "", time.Second, quietLogger())
	assert.Error(t, err)
}
