package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/workforce/pkg/application"
)

// SeedDemo populates the database with a small demo organization group: a
// fully configured source organization plus two mostly empty targets, enough
// to exercise preview and run against real data. Prints the generated ids.
func SeedDemo(mods ...application.Module) error {
	ctx := context.Background()
	app, pool, err := newApplication(ctx, mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := app.Migrations().Apply(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	groupID := uuid.New()
	sourceID := uuid.New()
	northID := uuid.New()
	southID := uuid.New()

	orgs := []struct {
		id   uuid.UUID
		name string
		days float64
	}{
		{sourceID, "Demo HQ", 25},
		{northID, "Demo North", 0},
		{southID, "Demo South", 0},
	}
	for _, org := range orgs {
		if _, err := tx.Exec(ctx,
			`INSERT INTO organizations (id, group_id, name, annual_pto_days) VALUES ($1, $2, $3, $4)`,
			org.id, groupID, org.name, org.days,
		); err != nil {
			return fmt.Errorf("failed to seed organization %s: %w", org.name, err)
		}
	}

	sourcePlantID := uuid.New()
	if err := seedCostCenters(ctx, tx, map[uuid.UUID]uuid.UUID{
		sourceID: sourcePlantID,
		northID:  uuid.New(),
	}); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO permission_overrides (id, org_id, role, granted, revoked) VALUES ($1, $2, $3, $4, $5)`,
		uuid.New(), sourceID, "manager",
		[]string{"absences.approve", "reports.view"}, []string{"payroll.edit"},
	); err != nil {
		return fmt.Errorf("failed to seed permission override: %w", err)
	}

	absenceTypes := []struct {
		code, name string
		paid       bool
	}{
		{"VAC", "Vacation", true},
		{"SICK", "Sick Leave", true},
		{"UNPAID", "Unpaid Leave", false},
	}
	for _, at := range absenceTypes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO absence_types (id, org_id, code, name, is_paid, granularity_minutes, balance_type)
			 VALUES ($1, $2, $3, $4, $5, 480, 'pto')`,
			uuid.New(), sourceID, at.code, at.name, at.paid,
		); err != nil {
			return fmt.Errorf("failed to seed absence type %s: %w", at.code, err)
		}
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO pto_configs (org_id, carryover_mode, carryover_limit_days, carryover_deadline_day, carryover_deadline_month)
		 VALUES ($1, 'up_to_limit', 5, 31, 3)`,
		sourceID,
	); err != nil {
		return fmt.Errorf("failed to seed pto config: %w", err)
	}

	if err := seedCalendars(ctx, tx, sourceID, sourcePlantID); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit seed data: %w", err)
	}

	fmt.Printf("seeded demo organization group %s\n", groupID)
	fmt.Printf("  source: %s (Demo HQ)\n", sourceID)
	fmt.Printf("  target: %s (Demo North)\n", northID)
	fmt.Printf("  target: %s (Demo South)\n", southID)
	return nil
}

func seedCostCenters(ctx context.Context, tx pgx.Tx, plantByOrg map[uuid.UUID]uuid.UUID) error {
	for orgID, ccID := range plantByOrg {
		if _, err := tx.Exec(ctx,
			`INSERT INTO cost_centers (id, org_id, code, name) VALUES ($1, $2, $3, $4)`,
			ccID, orgID, "PLANT-1", "Main Plant",
		); err != nil {
			return fmt.Errorf("failed to seed cost center for org %s: %w", orgID, err)
		}
	}
	return nil
}

func seedCalendars(ctx context.Context, tx pgx.Tx, orgID, costCenterID uuid.UUID) error {
	orgCalID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO calendars (id, org_id, name, description, year, calendar_type, color)
		 VALUES ($1, $2, $3, $4, $5, 'ORG', '#2563eb')`,
		orgCalID, orgID, "Public Holidays", "Company-wide public holidays", 2026,
	); err != nil {
		return fmt.Errorf("failed to seed org calendar: %w", err)
	}

	localCalID := uuid.New()
	if _, err := tx.Exec(ctx,
		`INSERT INTO calendars (id, org_id, name, year, calendar_type, color, cost_center_id)
		 VALUES ($1, $2, $3, $4, 'LOCAL_HOLIDAY', '#16a34a', $5)`,
		localCalID, orgID, "Plant Closures", 2026, costCenterID,
	); err != nil {
		return fmt.Errorf("failed to seed local calendar: %w", err)
	}

	events := []struct {
		calID uuid.UUID
		date  string
		name  string
	}{
		{orgCalID, "2026-01-01", "New Year"},
		{orgCalID, "2026-05-01", "Labor Day"},
		{orgCalID, "2026-12-25", "Christmas"},
		{localCalID, "2026-08-10", "Summer Shutdown"},
	}
	for _, ev := range events {
		if _, err := tx.Exec(ctx,
			`INSERT INTO calendar_events (id, calendar_id, event_date, event_type, name)
			 VALUES ($1, $2, $3, 'HOLIDAY', $4)`,
			uuid.New(), ev.calID, ev.date, ev.name,
		); err != nil {
			return fmt.Errorf("failed to seed calendar event %s: %w", ev.name, err)
		}
	}
	return nil
}
