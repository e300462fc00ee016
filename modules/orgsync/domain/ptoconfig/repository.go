package ptoconfig

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
)

var ErrConfigNotFound = errors.New("pto config not found")

type Repository interface {
	// GetByOrg returns ErrConfigNotFound when the organization has no stored
	// config; callers fall back to Default.
	GetByOrg(ctx context.Context, orgID uuid.UUID) (*Config, error)
	Upsert(ctx context.Context, cfg *Config) error
}
