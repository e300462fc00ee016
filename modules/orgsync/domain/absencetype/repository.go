package absencetype

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByOrg(ctx context.Context, orgID uuid.UUID) ([]*AbsenceType, error)
	Create(ctx context.Context, at *AbsenceType) error
	Update(ctx context.Context, at *AbsenceType) error
}
