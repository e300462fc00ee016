package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/workforce/modules/orgsync/domain/absencetype"
	"github.com/iota-uz/workforce/pkg/composables"
)

type PgAbsenceTypeRepository struct{}

func NewAbsenceTypeRepository() absencetype.Repository {
	return &PgAbsenceTypeRepository{}
}

const absenceTypeColumns = `
	id, org_id, code, name, description, color,
	is_paid, requires_approval, requires_document, affects_balance, is_active,
	advance_notice_days, allow_retroactive, retroactive_window_days,
	allow_partial_day, counts_calendar_days,
	granularity_minutes, min_duration_minutes, max_duration_minutes,
	compensation_factor, balance_type`

func scanAbsenceType(scan func(dest ...any) error) (*absencetype.AbsenceType, error) {
	var at absencetype.AbsenceType
	err := scan(
		&at.ID, &at.OrgID, &at.Code, &at.Name, &at.Description, &at.Color,
		&at.IsPaid, &at.RequiresApproval, &at.RequiresDocument, &at.AffectsBalance, &at.IsActive,
		&at.AdvanceNoticeDays, &at.AllowRetroactive, &at.RetroactiveWindowDays,
		&at.AllowPartialDay, &at.CountsCalendarDays,
		&at.GranularityMinutes, &at.MinDurationMinutes, &at.MaxDurationMinutes,
		&at.CompensationFactor, &at.BalanceType,
	)
	if err != nil {
		return nil, err
	}
	return &at, nil
}

func (r *PgAbsenceTypeRepository) GetByOrg(ctx context.Context, orgID uuid.UUID) ([]*absencetype.AbsenceType, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT`+absenceTypeColumns+`
FROM absence_types
WHERE org_id = $1
ORDER BY code ASC
`, pgUUID(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*absencetype.AbsenceType, 0, 16)
	for rows.Next() {
		at, err := scanAbsenceType(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, at)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgAbsenceTypeRepository) Create(ctx context.Context, at *absencetype.AbsenceType) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if at.ID == uuid.Nil {
		at.ID = uuid.New()
	}
	_, err = tx.Exec(ctx, `
INSERT INTO absence_types (`+absenceTypeColumns+`)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
`,
		pgUUID(at.ID), pgUUID(at.OrgID), at.Code, at.Name, at.Description, at.Color,
		at.IsPaid, at.RequiresApproval, at.RequiresDocument, at.AffectsBalance, at.IsActive,
		at.AdvanceNoticeDays, at.AllowRetroactive, at.RetroactiveWindowDays,
		at.AllowPartialDay, at.CountsCalendarDays,
		at.GranularityMinutes, at.MinDurationMinutes, at.MaxDurationMinutes,
		at.CompensationFactor, at.BalanceType,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to create absence type")
	}
	return nil
}

func (r *PgAbsenceTypeRepository) Update(ctx context.Context, at *absencetype.AbsenceType) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
UPDATE absence_types
SET name = $3, description = $4, color = $5,
	is_paid = $6, requires_approval = $7, requires_document = $8,
	affects_balance = $9, is_active = $10,
	advance_notice_days = $11, allow_retroactive = $12, retroactive_window_days = $13,
	allow_partial_day = $14, counts_calendar_days = $15,
	granularity_minutes = $16, min_duration_minutes = $17, max_duration_minutes = $18,
	compensation_factor = $19, balance_type = $20,
	updated_at = now()
WHERE org_id = $1 AND code = $2
`,
		pgUUID(at.OrgID), at.Code, at.Name, at.Description, at.Color,
		at.IsPaid, at.RequiresApproval, at.RequiresDocument, at.AffectsBalance, at.IsActive,
		at.AdvanceNoticeDays, at.AllowRetroactive, at.RetroactiveWindowDays,
		at.AllowPartialDay, at.CountsCalendarDays,
		at.GranularityMinutes, at.MinDurationMinutes, at.MaxDurationMinutes,
		at.CompensationFactor, at.BalanceType,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to update absence type")
	}
	return nil
}
