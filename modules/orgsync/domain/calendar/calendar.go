package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Calendar types. Org calendars apply to the whole organization; local
// holiday calendars are scoped to one cost center.
const (
	TypeOrg          = "ORG"
	TypeLocalHoliday = "LOCAL_HOLIDAY"
)

// Calendar owns an ordered set of events for one year. Identity within an
// organization is (name, year, type, cost center).
type Calendar struct {
	ID           uuid.UUID
	OrgID        uuid.UUID
	Name         string
	Description  string
	Year         int
	Type         string
	Color        string
	IsActive     bool
	CostCenterID *uuid.UUID
	Events       []*Event
}

// Event is a single calendar entry (holiday, closure, ...).
type Event struct {
	ID         uuid.UUID
	CalendarID uuid.UUID
	Date       time.Time
	EndDate    *time.Time
	Type       string
	Name       string
	Recurring  bool
}

// DedupKey identifies "the same event" across organizations without relying
// on row ids: date, end date, type and name, case-insensitively normalized.
func (e *Event) DedupKey() string {
	endDate := ""
	if e.EndDate != nil {
		endDate = e.EndDate.Format(time.DateOnly)
	}
	return fmt.Sprintf("%s|%s|%s|%s",
		e.Date.Format(time.DateOnly),
		endDate,
		strings.ToLower(strings.TrimSpace(e.Type)),
		strings.ToLower(strings.TrimSpace(e.Name)),
	)
}

// Clone returns a copy of the event detached from its owning calendar.
func (e *Event) Clone() *Event {
	clone := *e
	clone.ID = uuid.Nil
	clone.CalendarID = uuid.Nil
	if e.EndDate != nil {
		endDate := *e.EndDate
		clone.EndDate = &endDate
	}
	return &clone
}
