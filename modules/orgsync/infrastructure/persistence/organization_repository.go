package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/workforce/modules/orgsync/domain/organization"
	"github.com/iota-uz/workforce/pkg/composables"
)

var ErrOrganizationNotFound = gerrors.New("organization not found")

type PgOrganizationRepository struct{}

func NewOrganizationRepository() organization.Repository {
	return &PgOrganizationRepository{}
}

func (r *PgOrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*organization.Organization, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	var org organization.Organization
	err = tx.QueryRow(ctx, `
SELECT id, group_id, name, annual_pto_days
FROM organizations
WHERE id = $1
`, pgUUID(id)).Scan(&org.ID, &org.GroupID, &org.Name, &org.AnnualPTODays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrOrganizationNotFound
		}
		return nil, err
	}
	return &org, nil
}

func (r *PgOrganizationRepository) UpdateAnnualPTODays(ctx context.Context, id uuid.UUID, days float64) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `
UPDATE organizations
SET annual_pto_days = $2, updated_at = now()
WHERE id = $1
`, pgUUID(id), days)
	if err != nil {
		return gerrors.Wrap(err, "failed to update annual pto days")
	}
	if tag.RowsAffected() == 0 {
		return ErrOrganizationNotFound
	}
	return nil
}
