package costcenter

import "github.com/google/uuid"

// CostCenter is a site/location entity. Site-scoped holiday calendars hang
// off a cost center; syncing them between organizations requires matching
// cost centers by code, name or an explicit operator mapping.
type CostCenter struct {
	ID       uuid.UUID
	OrgID    uuid.UUID
	Code     string
	Name     string
	IsActive bool
}
