package persistence

import (
	"context"
	"encoding/json"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/workforce/modules/orgsync/domain/ptoconfig"
	"github.com/iota-uz/workforce/pkg/composables"
)

type PgPTOConfigRepository struct{}

func NewPTOConfigRepository() ptoconfig.Repository {
	return &PgPTOConfigRepository{}
}

func (r *PgPTOConfigRepository) GetByOrg(ctx context.Context, orgID uuid.UUID) (*ptoconfig.Config, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var (
		cfg           ptoconfig.Config
		seniorityJSON []byte
	)
	err = tx.QueryRow(ctx, `
SELECT org_id, seniority_rules,
	carryover_mode, carryover_limit_days, carryover_deadline_day, carryover_deadline_month,
	allow_negative_balance, max_advance_request_months,
	rounding_unit, rounding_mode,
	maternity_weeks, paternity_weeks,
	marriage_days, bereavement_days, relocation_days
FROM pto_configs
WHERE org_id = $1
`, pgUUID(orgID)).Scan(
		&cfg.OrgID, &seniorityJSON,
		&cfg.CarryoverMode, &cfg.CarryoverLimitDays, &cfg.CarryoverDeadlineDay, &cfg.CarryoverDeadlineMon,
		&cfg.AllowNegativeBalance, &cfg.MaxAdvanceRequestMons,
		&cfg.RoundingUnit, &cfg.RoundingMode,
		&cfg.LeaveWeeks.Maternity, &cfg.LeaveWeeks.Paternity,
		&cfg.SpecialDays.Marriage, &cfg.SpecialDays.Bereavement, &cfg.SpecialDays.Relocation,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ptoconfig.ErrConfigNotFound
		}
		return nil, err
	}
	if len(seniorityJSON) > 0 {
		if err := json.Unmarshal(seniorityJSON, &cfg.SeniorityRules); err != nil {
			return nil, gerrors.Wrap(err, "failed to decode seniority rules")
		}
	}
	return &cfg, nil
}

func (r *PgPTOConfigRepository) Upsert(ctx context.Context, cfg *ptoconfig.Config) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	seniorityJSON, err := json.Marshal(cfg.SeniorityRules)
	if err != nil {
		return gerrors.Wrap(err, "failed to encode seniority rules")
	}

	_, err = tx.Exec(ctx, `
INSERT INTO pto_configs (
	org_id, seniority_rules,
	carryover_mode, carryover_limit_days, carryover_deadline_day, carryover_deadline_month,
	allow_negative_balance, max_advance_request_months,
	rounding_unit, rounding_mode,
	maternity_weeks, paternity_weeks,
	marriage_days, bereavement_days, relocation_days
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
ON CONFLICT (org_id) DO UPDATE SET
	seniority_rules = EXCLUDED.seniority_rules,
	carryover_mode = EXCLUDED.carryover_mode,
	carryover_limit_days = EXCLUDED.carryover_limit_days,
	carryover_deadline_day = EXCLUDED.carryover_deadline_day,
	carryover_deadline_month = EXCLUDED.carryover_deadline_month,
	allow_negative_balance = EXCLUDED.allow_negative_balance,
	max_advance_request_months = EXCLUDED.max_advance_request_months,
	rounding_unit = EXCLUDED.rounding_unit,
	rounding_mode = EXCLUDED.rounding_mode,
	maternity_weeks = EXCLUDED.maternity_weeks,
	paternity_weeks = EXCLUDED.paternity_weeks,
	marriage_days = EXCLUDED.marriage_days,
	bereavement_days = EXCLUDED.bereavement_days,
	relocation_days = EXCLUDED.relocation_days,
	updated_at = now()
`,
		pgUUID(cfg.OrgID), seniorityJSON,
		cfg.CarryoverMode, cfg.CarryoverLimitDays, cfg.CarryoverDeadlineDay, cfg.CarryoverDeadlineMon,
		cfg.AllowNegativeBalance, cfg.MaxAdvanceRequestMons,
		cfg.RoundingUnit, cfg.RoundingMode,
		cfg.LeaveWeeks.Maternity, cfg.LeaveWeeks.Paternity,
		cfg.SpecialDays.Marriage, cfg.SpecialDays.Bereavement, cfg.SpecialDays.Relocation,
	)
	if err != nil {
		return gerrors.Wrap(err, "failed to upsert pto config")
	}
	return nil
}
