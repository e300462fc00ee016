package persistence

import (
	"context"

	"github.com/google/uuid"

	"github.com/iota-uz/workforce/modules/orgsync/domain/costcenter"
	"github.com/iota-uz/workforce/pkg/composables"
)

type PgCostCenterRepository struct{}

func NewCostCenterRepository() costcenter.Repository {
	return &PgCostCenterRepository{}
}

func (r *PgCostCenterRepository) GetActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]*costcenter.CostCenter, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
SELECT id, org_id, code, name, is_active
FROM cost_centers
WHERE org_id = $1 AND is_active
ORDER BY name ASC
`, pgUUID(orgID))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*costcenter.CostCenter, 0, 16)
	for rows.Next() {
		var cc costcenter.CostCenter
		if err := rows.Scan(&cc.ID, &cc.OrgID, &cc.Code, &cc.Name, &cc.IsActive); err != nil {
			return nil, err
		}
		out = append(out, &cc)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return out, nil
}
