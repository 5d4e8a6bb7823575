package render

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"vacation-planner/internal/models"
)

const icsProductID = "-//vacation-planner//EN"

// ErrNoEvents is returned by ICS for an empty record set; a VCALENDAR needs
// at least one component.
var ErrNoEvents = errors.New("no vacations to export")

var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://vacation-planner/records"))

// EventUID is stable for a record id, so subscribed calendars update events
// in place instead of duplicating them.
func EventUID(id string) string {
	return uuid.NewSHA1(uidNamespace, []byte(id)).String()
}

// ICS encodes the records as an iCalendar document of all-day events.
func ICS(records []models.VacationRecord, now time.Time) ([]byte, error) {
	if len(records) == 0 {
		return nil, ErrNoEvents
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProductID)
	cal.Props.SetText("X-WR-CALNAME", "Vacations")

	for _, r := range records {
		ve := ical.NewComponent(ical.CompEvent)
		ve.Props.SetText(ical.PropUID, EventUID(r.ID))
		ve.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (Vacation)", r.EmployeeName))
		ve.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
		ve.Props.SetDate(ical.PropDateTimeStart, models.NormalizeDate(r.StartDate))
		ve.Props.SetDate(ical.PropDateTimeEnd, ExclusiveEnd(r))
		if r.Area != "" {
			ve.Props.SetText(ical.PropCategories, r.Area)
		}
		ve.Props.SetText(ical.PropTransparency, "TRANSPARENT")
		cal.Children = append(cal.Children, ve)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("failed to encode calendar: %w", err)
	}
	return buf.Bytes(), nil
}
