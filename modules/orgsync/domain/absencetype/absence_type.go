package absencetype

import "github.com/google/uuid"

// AbsenceType is one entry of an organization's absence catalog. The code is
// unique within an organization and is the identity used when syncing the
// catalog to another organization.
type AbsenceType struct {
	ID          uuid.UUID
	OrgID       uuid.UUID
	Code        string
	Name        string
	Description string
	Color       string

	IsPaid           bool
	RequiresApproval bool
	RequiresDocument bool
	AffectsBalance   bool
	IsActive         bool

	AdvanceNoticeDays     int
	AllowRetroactive      bool
	RetroactiveWindowDays int

	AllowPartialDay    bool
	CountsCalendarDays bool

	GranularityMinutes int
	MinDurationMinutes int
	MaxDurationMinutes int

	CompensationFactor float64
	BalanceType        string
}

// CopyTo overwrites every syncable field of dst with the values of src,
// keeping dst's identity (ID, OrgID) intact.
func (src *AbsenceType) CopyTo(dst *AbsenceType) {
	dst.Code = src.Code
	dst.Name = src.Name
	dst.Description = src.Description
	dst.Color = src.Color
	dst.IsPaid = src.IsPaid
	dst.RequiresApproval = src.RequiresApproval
	dst.RequiresDocument = src.RequiresDocument
	dst.AffectsBalance = src.AffectsBalance
	dst.IsActive = src.IsActive
	dst.AdvanceNoticeDays = src.AdvanceNoticeDays
	dst.AllowRetroactive = src.AllowRetroactive
	dst.RetroactiveWindowDays = src.RetroactiveWindowDays
	dst.AllowPartialDay = src.AllowPartialDay
	dst.CountsCalendarDays = src.CountsCalendarDays
	dst.GranularityMinutes = src.GranularityMinutes
	dst.MinDurationMinutes = src.MinDurationMinutes
	dst.MaxDurationMinutes = src.MaxDurationMinutes
	dst.CompensationFactor = src.CompensationFactor
	dst.BalanceType = src.BalanceType
}
