package ptoconfig

import "github.com/google/uuid"

// Carryover modes for unused PTO at year end.
const (
	CarryoverNone      = "none"
	CarryoverAll       = "all"
	CarryoverUpToLimit = "up_to_limit"
)

// Rounding modes for accrued PTO balances.
const (
	RoundNearest = "nearest"
	RoundUp      = "up"
	RoundDown    = "down"
)

// SeniorityRule grants extra PTO days after a number of years of service.
type SeniorityRule struct {
	AfterYears int
	ExtraDays  float64
}

// LeaveWeeks is the per-kind leave-week allotment block.
type LeaveWeeks struct {
	Maternity int
	Paternity int
}

// SpecialDayPools are day budgets for events outside the regular PTO balance.
type SpecialDayPools struct {
	Marriage    int
	Bereavement int
	Relocation  int
}

// Config is the detailed PTO policy, one row per organization. The annual PTO
// day count itself lives on the organization record, not here.
type Config struct {
	OrgID uuid.UUID

	SeniorityRules []SeniorityRule

	CarryoverMode         string
	CarryoverLimitDays    float64
	CarryoverDeadlineDay  int
	CarryoverDeadlineMon  int
	AllowNegativeBalance  bool
	MaxAdvanceRequestMons int

	RoundingUnit float64
	RoundingMode string

	LeaveWeeks  LeaveWeeks
	SpecialDays SpecialDayPools
}

// Default is the policy used when an organization has no stored config.
func Default(orgID uuid.UUID) *Config {
	return &Config{
		OrgID:                 orgID,
		SeniorityRules:        nil,
		CarryoverMode:         CarryoverNone,
		AllowNegativeBalance:  false,
		MaxAdvanceRequestMons: 12,
		RoundingUnit:          0.1,
		RoundingMode:          RoundNearest,
		LeaveWeeks: LeaveWeeks{
			Maternity: 17,
			Paternity: 17,
		},
	}
}
