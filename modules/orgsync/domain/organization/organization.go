package organization

import "github.com/google/uuid"

// Organization is the directory projection the sync engine needs: identity,
// display name and the org-level annual PTO allotment.
type Organization struct {
	ID            uuid.UUID
	GroupID       uuid.UUID
	Name          string
	AnnualPTODays float64
}
