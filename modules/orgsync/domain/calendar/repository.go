package calendar

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	// GetByOrg returns the organization's calendars with events loaded. When
	// includeLocal is false only org-wide calendars are returned.
	GetByOrg(ctx context.Context, orgID uuid.UUID, includeLocal bool) ([]*Calendar, error)
	// Create persists the calendar and all of its events.
	Create(ctx context.Context, cal *Calendar) error
	// Delete removes the calendar and cascades to its events.
	Delete(ctx context.Context, id uuid.UUID) error
	// UpdateDescriptive writes description, color, active flag and type of an
	// existing calendar without touching its events.
	UpdateDescriptive(ctx context.Context, cal *Calendar) error
	// AddEvents appends events to an existing calendar.
	AddEvents(ctx context.Context, calendarID uuid.UUID, events []*Event) error
}
