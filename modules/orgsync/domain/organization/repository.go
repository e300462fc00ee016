package organization

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
	UpdateAnnualPTODays(ctx context.Context, id uuid.UUID, days float64) error
}
