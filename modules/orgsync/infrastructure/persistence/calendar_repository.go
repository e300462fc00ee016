package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/workforce/modules/orgsync/domain/calendar"
	"github.com/iota-uz/workforce/pkg/composables"
)

type PgCalendarRepository struct{}

func NewCalendarRepository() calendar.Repository {
	return &PgCalendarRepository{}
}

func (r *PgCalendarRepository) GetByOrg(ctx context.Context, orgID uuid.UUID, includeLocal bool) ([]*calendar.Calendar, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	query := `
SELECT id, org_id, name, description, year, calendar_type, color, is_active, cost_center_id
FROM calendars
WHERE org_id = $1
`
	if !includeLocal {
		query += `AND calendar_type <> 'LOCAL_HOLIDAY'
`
	}
	query += `ORDER BY year ASC, name ASC`

	rows, err := tx.Query(ctx, query, pgUUID(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	calendars := make([]*calendar.Calendar, 0, 8)
	byID := make(map[uuid.UUID]*calendar.Calendar, 8)
	for rows.Next() {
		var (
			cal          calendar.Calendar
			costCenterID pgtype.UUID
		)
		if err := rows.Scan(
			&cal.ID, &cal.OrgID, &cal.Name, &cal.Description, &cal.Year,
			&cal.Type, &cal.Color, &cal.IsActive, &costCenterID,
		); err != nil {
			return nil, err
		}
		cal.CostCenterID = asUUIDPtr(costCenterID)
		calendars = append(calendars, &cal)
		byID[cal.ID] = &cal
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}

	if len(calendars) == 0 {
		return calendars, nil
	}

	eventRows, err := tx.Query(ctx, `
SELECT e.id, e.calendar_id, e.event_date, e.end_date, e.event_type, e.name, e.recurring
FROM calendar_events e
JOIN calendars c ON c.id = e.calendar_id
WHERE c.org_id = $1
ORDER BY e.event_date ASC, e.name ASC
`, pgUUID(orgID))
	if err != nil {
		return nil, err
	}
	defer eventRows.Close()

	for eventRows.Next() {
		var (
			ev      calendar.Event
			evDate  pgtype.Date
			endDate pgtype.Date
		)
		if err := eventRows.Scan(&ev.ID, &ev.CalendarID, &evDate, &endDate, &ev.Type, &ev.Name, &ev.Recurring); err != nil {
			return nil, err
		}
		ev.Date = evDate.Time
		ev.EndDate = asDatePtr(endDate)
		if cal, ok := byID[ev.CalendarID]; ok {
			cal.Events = append(cal.Events, &ev)
		}
	}
	if eventRows.Err() != nil {
		return nil, eventRows.Err()
	}
	return calendars, nil
}

func (r *PgCalendarRepository) Create(ctx context.Context, cal *calendar.Calendar) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if cal.ID == uuid.Nil {
		cal.ID = uuid.New()
	}
	_, err = tx.Exec(ctx, `
INSERT INTO calendars (id, org_id, name, description, year, calendar_type, color, is_active, cost_center_id)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
`,
		pgUUID(cal.ID), pgUUID(cal.OrgID), cal.Name, cal.Description, cal.Year,
		cal.Type, cal.Color, cal.IsActive, pgUUIDPtr(cal.CostCenterID),
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to create calendar")
	}
	return r.AddEvents(ctx, cal.ID, cal.Events)
}

func (r *PgCalendarRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	// Events cascade via the calendar_events FK.
	_, err = tx.Exec(ctx, `DELETE FROM calendars WHERE id = $1`, pgUUID(id))
	if err != nil {
		return gerrors.Wrap(err, "failed to delete calendar")
	}
	return nil
}

func (r *PgCalendarRepository) UpdateDescriptive(ctx context.Context, cal *calendar.Calendar) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
UPDATE calendars
SET description = $2, color = $3, is_active = $4, calendar_type = $5, updated_at = now()
WHERE id = $1
`, pgUUID(cal.ID), cal.Description, cal.Color, cal.IsActive, cal.Type)
	if err != nil {
		return gerrors.Wrap(err, "failed to update calendar")
	}
	return nil
}

func (r *PgCalendarRepository) AddEvents(ctx context.Context, calendarID uuid.UUID, events []*calendar.Event) error {
	if len(events) == 0 {
		return nil
	}
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	for _, ev := range events {
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		ev.CalendarID = calendarID
		_, err = tx.Exec(ctx, `
INSERT INTO calendar_events (id, calendar_id, event_date, end_date, event_type, name, recurring)
VALUES ($1, $2, $3, $4, $5, $6, $7)
`,
			pgUUID(ev.ID), pgUUID(calendarID), pgDateOnlyUTC(ev.Date), pgDatePtr(ev.EndDate),
			ev.Type, ev.Name, ev.Recurring,
		)
		if err != nil {
			return gerrors.Wrap(err, "failed to insert calendar event")
		}
	}
	return nil
}
