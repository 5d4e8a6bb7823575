package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"vacation-planner/internal/models"
	"vacation-planner/internal/render"
)

// RecordRequest is the body of create and update calls. Dates accept
// YYYY-MM-DD or dd/mm/yyyy.
type RecordRequest struct {
	EmployeeName string `json:"employee_name"`
	Area         string `json:"area"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
}

func (r RecordRequest) input() (models.RecordInput, error) {
	start, err := models.ParseDate(r.StartDate)
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := models.ParseDate(r.EndDate)
	if err != nil {
		return models.RecordInput{}, fmt.Errorf("end_date: %w", err)
	}
	return models.RecordInput{
		EmployeeName: r.EmployeeName,
		Area:         r.Area,
		StartDate:    start,
		EndDate:      end,
	}, nil
}

type Record struct {
	ID           string `json:"id"`
	EmployeeName string `json:"employee_name"`
	Area         string `json:"area"`
	StartDate    string `json:"start_date"`
	EndDate      string `json:"end_date"`
	DurationDays int    `json:"duration_days"`
	Color        string `json:"color"`
}

type RecordResponse struct {
	Data Record `json:"data"`
	// Overlaps lists other vacations of the same employee sharing a day.
	Overlaps []Record `json:"overlaps,omitempty"`
}

type RecordListResponse struct {
	Data []Record `json:"data"`
}

func (s *server) record(r models.VacationRecord) Record {
	return Record{
		ID:           r.ID,
		EmployeeName: r.EmployeeName,
		Area:         r.Area,
		StartDate:    models.FormatISO(r.StartDate),
		EndDate:      models.FormatISO(r.EndDate),
		DurationDays: r.DurationDays(),
		Color:        s.planner.Colors().ColorFor(r.EmployeeName),
	}
}

func (s *server) records(records []models.VacationRecord) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, s.record(r))
	}
	return out
}

func (s *server) listRecords(c *gin.Context) {
	area := c.DefaultQuery("area", models.AllAreas)
	c.JSON(http.StatusOK, RecordListResponse{Data: s.records(s.planner.FilterByArea(area))})
}

func (s *server) getRecord(c *gin.Context) {
	record, ok := s.planner.Find(c.Param("id"))
	if !ok {
		newError(c, http.StatusNotFound, "There is no vacation record with this id")
		return
	}
	c.JSON(http.StatusOK, RecordResponse{Data: s.record(record)})
}

func (s *server) bind(c *gin.Context) (models.RecordInput, bool) {
	var req RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		newError(c, http.StatusBadRequest, "The request body is not a valid vacation record: "+err.Error())
		return models.RecordInput{}, false
	}

	in, err := req.input()
	if err != nil {
		s.handleError(c, err)
		return models.RecordInput{}, false
	}
	return in, true
}

func (s *server) createRecord(c *gin.Context) {
	in, ok := s.bind(c)
	if !ok {
		return
	}

	record, err := s.planner.Create(c.Request.Context(), in)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, RecordResponse{Data: s.record(record), Overlaps: s.records(s.planner.Overlapping(record))})
}

// updateRecord replaces a record. The response carries the id the record
// has after the edit, which can differ from the one in the path.
func (s *server) updateRecord(c *gin.Context) {
	in, ok := s.bind(c)
	if !ok {
		return
	}

	record, err := s.planner.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecordResponse{Data: s.record(record), Overlaps: s.records(s.planner.Overlapping(record))})
}

func (s *server) deleteRecord(c *gin.Context) {
	if err := s.planner.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *server) listAreas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": s.planner.Areas()})
}

func (s *server) reload(c *gin.Context) {
	records, err := s.planner.LoadAll(c.Request.Context())
	if err != nil {
		s.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecordListResponse{Data: s.records(records)})
}

type EventListResponse struct {
	Data    []render.Event         `json:"data"`
	Options map[string]interface{} `json:"options"`
}

func (s *server) listEvents(c *gin.Context) {
	records := s.planner.Records()
	c.JSON(http.StatusOK, EventListResponse{
		Data:    render.Events(records, s.planner.Colors()),
		Options: render.CalendarOptions(records, s.locale),
	})
}

func (s *server) getICS(c *gin.Context) {
	data, err := render.ICS(s.planner.Records(), s.now())
	if errors.Is(err, render.ErrNoEvents) {
		newError(c, http.StatusNotFound, "No vacations registered")
		return
	}
	if err != nil {
		s.handleError(c, err)
		return
	}

	c.Header("Content-Disposition", `inline; filename="vacations.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}

func (s *server) getPage(c *gin.Context) {
	records := s.planner.Records()
	area := c.DefaultQuery("area", models.AllAreas)

	c.HTML(http.StatusOK, "index.html", gin.H{
		"Area":    area,
		"Areas":   s.planner.Areas(),
		"AllArea": models.AllAreas,
		"Rows":    render.Table(s.planner.FilterByArea(area), s.planner.Colors()),
		"Events":  render.Events(records, s.planner.Colors()),
		"Options": render.CalendarOptions(records, s.locale),
	})
}
