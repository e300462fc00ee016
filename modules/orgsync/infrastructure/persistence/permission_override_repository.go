package persistence

import (
	"context"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/workforce/modules/orgsync/domain/permissionoverride"
	"github.com/iota-uz/workforce/pkg/composables"
)

type PgPermissionOverrideRepository struct{}

func NewPermissionOverrideRepository() permissionoverride.Repository {
	return &PgPermissionOverrideRepository{}
}

func (r *PgPermissionOverrideRepository) GetByOrg(ctx context.Context, orgID uuid.UUID) ([]*permissionoverride.PermissionOverride, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, org_id, role, granted, revoked
FROM permission_overrides
WHERE org_id = $1
ORDER BY role ASC
`, pgUUID(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*permissionoverride.PermissionOverride, 0, 8)
	for rows.Next() {
		var o permissionoverride.PermissionOverride
		if err := rows.Scan(&o.ID, &o.OrgID, &o.Role, &o.Granted, &o.Revoked); err != nil {
			return nil, err
		}
		out = append(out, &o)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}

func (r *PgPermissionOverrideRepository) Create(ctx context.Context, override *permissionoverride.PermissionOverride) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	if override.ID == uuid.Nil {
		override.ID = uuid.New()
	}
	_, err = tx.Exec(ctx, `
INSERT INTO permission_overrides (id, org_id, role, granted, revoked)
VALUES ($1, $2, $3, $4, $5)
`, pgUUID(override.ID), pgUUID(override.OrgID), override.Role, override.Granted, override.Revoked)
	if err != nil {
		return gerrors.Wrap(err, "failed to create permission override")
	}
	return nil
}

func (r *PgPermissionOverrideRepository) Update(ctx context.Context, override *permissionoverride.PermissionOverride) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `
UPDATE permission_overrides
SET granted = $3, revoked = $4, updated_at = now()
WHERE org_id = $1 AND role = $2
`, pgUUID(override.OrgID), override.Role, override.Granted, override.Revoked)
	if err != nil {
		return gerrors.Wrap(err, "failed to update permission override")
	}
	return nil
}
