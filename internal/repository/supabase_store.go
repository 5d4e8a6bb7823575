// internal/repository/supabase_store.go
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"vacation-planner/internal/models"
)

// apiKeyTransport adds the Supabase key headers to every request.
type apiKeyTransport struct {
	Key       string
	Transport http.RoundTripper
}

func (t *apiKeyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set("apikey", t.Key)
	req.Header.Set("Authorization", "Bearer "+t.Key)
	req.Header.Set("User-Agent", "vacation-planner/1.0")
	return t.Transport.RoundTrip(req)
}

// rowID accepts numeric and string ids from the REST API.
type rowID string

func (id *rowID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*id = rowID(s)
	return nil
}

// restRow is the JSON shape of one row in the hosted table.
type restRow struct {
	ID          rowID  `json:"id,omitempty"`
	Funcionario string `json:"funcionario"`
	Area        string `json:"area"`
	Inicio      string `json:"inicio"`
	Fim         string `json:"fim"`
	Duracao     int    `json:"duracao"`
}

func restRowFromRecord(r models.VacationRecord) restRow {
	return restRow{
		Funcionario: r.EmployeeName,
		Area:        r.Area,
		Inicio:      models.FormatISO(r.StartDate),
		Fim:         models.FormatISO(r.EndDate),
		Duracao:     r.DurationDays(),
	}
}

func (row restRow) record() (models.VacationRecord, error) {
	start, err := models.ParseDate(row.Inicio)
	if err != nil {
		return models.VacationRecord{}, err
	}
	end, err := models.ParseDate(row.Fim)
	if err != nil {
		return models.VacationRecord{}, err
	}
	return models.VacationRecord{
		ID:           string(row.ID),
		EmployeeName: row.Funcionario,
		Area:         row.Area,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

// supabasePageSize matches the default max-rows cap of the REST API.
const supabasePageSize = 1000

// SupabaseStore talks to the hosted table service through its REST API.
type SupabaseStore struct {
	client   *http.Client
	tableURL string
	pageSize int
	logger   logrus.FieldLogger
}

var _ IncrementalStore = (*SupabaseStore)(nil)

// NewSupabaseStore builds a store for table at the project URL baseURL.
func NewSupabaseStore(baseURL, key, table string, timeout time.Duration, logger logrus.FieldLogger) (*SupabaseStore, error) {
	if baseURL == "" || key == "" {
		return nil, fmt.Errorf("supabase url and key are required")
	}
	if table == "" {
		table = DefaultTable
	}

	u, err := url.Parse(strings.TrimSuffix(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid supabase url: %w", err)
	}
	u = u.JoinPath("rest", "v1", table)

	return &SupabaseStore{
		client: &http.Client{
			Timeout:   timeout,
			Transport: &apiKeyTransport{Key: key, Transport: http.DefaultTransport},
		},
		tableURL: u.String(),
		pageSize: supabasePageSize,
		logger:   logger.WithField("backend", "supabase"),
	}, nil
}

// FetchAll reads the table a page at a time until the API returns a short page.
func (s *SupabaseStore) FetchAll(ctx context.Context) ([]models.VacationRecord, error) {
	records := make([]models.VacationRecord, 0)
	for offset := 0; ; {
		rows, err := s.fetchPage(ctx, offset)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
		}

		for _, row := range rows {
			r, err := row.record()
			if err != nil {
				s.logger.WithError(err).WithField("record_id", string(row.ID)).Warn("Skipping row with unreadable dates")
				continue
			}
			records = append(records, r)
		}

		offset += len(rows)
		if len(rows) < s.pageSize {
			break
		}
	}
	return records, nil
}

func (s *SupabaseStore) fetchPage(ctx context.Context, offset int) ([]restRow, error) {
	q := url.Values{
		"select": {"*"},
		"order":  {"id.asc"},
		"offset": {strconv.Itoa(offset)},
		"limit":  {strconv.Itoa(s.pageSize)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.tableURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var rows []restRow
	if err := s.do(req, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *SupabaseStore) Insert(ctx context.Context, records []models.VacationRecord) ([]models.VacationRecord, error) {
	if len(records) == 0 {
		return []models.VacationRecord{}, nil
	}

	rows := make([]restRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, restRowFromRecord(r))
	}
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.tableURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	var created []restRow
	if err := s.do(req, &created); err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}

	inserted := make([]models.VacationRecord, 0, len(created))
	for _, row := range created {
		r, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
		}
		inserted = append(inserted, r)
	}
	s.logger.WithField("count", len(inserted)).Debug("Inserted vacation rows")
	return inserted, nil
}

func (s *SupabaseStore) DeleteByID(ctx context.Context, id string) error {
	q := url.Values{"id": {"eq." + id}}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.tableURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}

	if err := s.do(req, nil); err != nil {
		return fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}
	return nil
}

// do sends req and decodes the JSON body into out when out is not nil.
func (s *SupabaseStore) do(req *http.Request, out interface{}) error {
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%s %s: status %d: %s", req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
