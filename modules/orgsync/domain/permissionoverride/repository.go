package permissionoverride

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByOrg(ctx context.Context, orgID uuid.UUID) ([]*PermissionOverride, error)
	Create(ctx context.Context, override *PermissionOverride) error
	Update(ctx context.Context, override *PermissionOverride) error
}
