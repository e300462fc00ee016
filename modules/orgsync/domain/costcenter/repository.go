package costcenter

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetActiveByOrg(ctx context.Context, orgID uuid.UUID) ([]*CostCenter, error)
}
