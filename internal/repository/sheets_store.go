// internal/repository/sheets_store.go
package repository

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"vacation-planner/internal/models"
)

const sheetColumns = 6

var sheetHeader = []interface{}{"id", "employee", "area", "start", "end", "duration"}

// SheetsStore keeps the records in a Google spreadsheet. The spreadsheet has
// no row ids of its own, so every mutation rewrites the whole sheet.
type SheetsStore struct {
	service       *sheets.Service
	spreadsheetID string
	sheet         string
	logger        logrus.FieldLogger
}

var _ SnapshotStore = (*SheetsStore)(nil)

// NewSheetsService authenticates with a service-account or OAuth client file.
func NewSheetsService(ctx context.Context, credentialsFile string) (*sheets.Service, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read google credentials: %w", err)
	}

	creds, err := google.CredentialsFromJSON(ctx, b, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse google credentials: %w", err)
	}

	service, err := sheets.NewService(ctx, option.WithCredentials(creds))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}
	return service, nil
}

// NewSheetsStore binds a store to one sheet of a spreadsheet.
func NewSheetsStore(service *sheets.Service, spreadsheetID, sheet string, logger logrus.FieldLogger) *SheetsStore {
	if sheet == "" {
		sheet = "Sheet1"
	}
	return &SheetsStore{
		service:       service,
		spreadsheetID: spreadsheetID,
		sheet:         sheet,
		logger:        logger.WithField("backend", "sheets"),
	}
}

func (s *SheetsStore) a1(cells string) string {
	return "'" + strings.ReplaceAll(s.sheet, "'", "''") + "'!" + cells
}

func (s *SheetsStore) FetchAll(ctx context.Context) ([]models.VacationRecord, error) {
	resp, err := s.service.Spreadsheets.Values.Get(s.spreadsheetID, s.a1("A:F")).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendUnavailable, err)
	}

	records := make([]models.VacationRecord, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i == 0 && isHeader(row) {
			continue
		}
		r, err := recordFromCells(row)
		if err != nil {
			s.logger.WithError(err).WithField("row", i+1).Warn("Skipping unreadable sheet row")
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// ReplaceAll overwrites the sheet from the top and then clears the rows below
// the new end, so the sheet is never left empty by a failed write.
func (s *SheetsStore) ReplaceAll(ctx context.Context, records []models.VacationRecord) ([]models.VacationRecord, error) {
	written := make([]models.VacationRecord, len(records))
	copy(written, records)

	next := NextOrdinal(written)
	for i := range written {
		if written[i].ID == "" {
			written[i].ID = strconv.FormatInt(next, 10)
			next++
		}
	}

	values := make([][]interface{}, 0, len(written)+1)
	values = append(values, sheetHeader)
	for _, r := range written {
		values = append(values, cellsFromRecord(r))
	}

	_, err := s.service.Spreadsheets.Values.
		Update(s.spreadsheetID, s.a1("A1"), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrBackendWrite, err)
	}

	tail := s.a1(fmt.Sprintf("A%d:F", len(values)+1))
	if _, err := s.service.Spreadsheets.Values.Clear(s.spreadsheetID, tail, &sheets.ClearValuesRequest{}).Context(ctx).Do(); err != nil {
		return nil, fmt.Errorf("%w: clear %s: %v", models.ErrBackendWrite, tail, err)
	}

	s.logger.WithField("rows", len(written)).Debug("Rewrote vacation sheet")
	return written, nil
}

func isHeader(row []interface{}) bool {
	return len(row) > 0 && strings.EqualFold(strings.TrimSpace(fmt.Sprint(row[0])), "id")
}

func cellsFromRecord(r models.VacationRecord) []interface{} {
	return []interface{}{
		r.ID,
		r.EmployeeName,
		r.Area,
		models.FormatLocale(r.StartDate),
		models.FormatLocale(r.EndDate),
		r.DurationDays(),
	}
}

func recordFromCells(row []interface{}) (models.VacationRecord, error) {
	cells := make([]string, sheetColumns)
	for i := 0; i < len(row) && i < sheetColumns; i++ {
		cells[i] = strings.TrimSpace(fmt.Sprint(row[i]))
	}

	start, err := models.ParseDate(cells[3])
	if err != nil {
		return models.VacationRecord{}, err
	}
	end, err := models.ParseDate(cells[4])
	if err != nil {
		return models.VacationRecord{}, err
	}
	return models.VacationRecord{
		ID:           cells[0],
		EmployeeName: cells[1],
		Area:         cells[2],
		StartDate:    start,
		EndDate:      end,
	}, nil
}
