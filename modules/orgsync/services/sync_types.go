package services

import (
	"github.com/google/uuid"

	"github.com/iota-uz/workforce/pkg/serrors"
)

// Package is one independently toggleable category of configuration that can
// be propagated from a source organization to targets in its group.
type Package string

const (
	PackagePermissionOverrides Package = "permission_overrides"
	PackageAbsenceTypes        Package = "absence_types"
	PackagePTOConfig           Package = "pto_config"
	PackageCalendars           Package = "calendars"
)

// ConflictStrategy governs what happens when an entity with matching identity
// already exists at the target.
type ConflictStrategy string

const (
	// StrategySkip leaves existing target entities untouched.
	StrategySkip ConflictStrategy = "SKIP"
	// StrategyOverwrite destroys the existing entity and recreates it from
	// source data.
	StrategyOverwrite ConflictStrategy = "OVERWRITE"
	// StrategyMerge updates existing entities additively; for calendars it is
	// the only non-destructive, re-runnable path.
	StrategyMerge ConflictStrategy = "MERGE"
)

func (s ConflictStrategy) IsValid() bool {
	switch s {
	case StrategySkip, StrategyOverwrite, StrategyMerge:
		return true
	}
	return false
}

// MappingMode is the default cost-center matching strategy for calendars.
type MappingMode string

const (
	MapByCode MappingMode = "CODE"
	MapByName MappingMode = "NAME"
)

// CalendarOptions tune how the calendars package treats site-scoped data.
type CalendarOptions struct {
	// IncludeLocal controls whether cost-center-scoped local holiday
	// calendars participate; when false only org-wide calendars are synced.
	IncludeLocal bool
	// MapCostCentersBy is the automatic matching strategy. Empty defaults to
	// matching by code.
	MapCostCentersBy MappingMode
	// CostCenterMappingsByOrg is the operator-supplied override table:
	// target org id -> (source cost center id -> target cost center id).
	CostCenterMappingsByOrg map[uuid.UUID]map[uuid.UUID]uuid.UUID
}

func (o CalendarOptions) explicitMappingFor(targetOrgID uuid.UUID, sourceCostCenterID *uuid.UUID) *uuid.UUID {
	if sourceCostCenterID == nil {
		return nil
	}
	byOrg, ok := o.CostCenterMappingsByOrg[targetOrgID]
	if !ok {
		return nil
	}
	mapped, ok := byOrg[*sourceCostCenterID]
	if !ok {
		return nil
	}
	return &mapped
}

// Selection is the user-chosen configuration for one sync operation. It is
// immutable for the duration of a preview or execute call.
type Selection struct {
	PermissionOverrides bool
	AbsenceTypes        bool
	PTOConfig           bool
	Calendars           bool
	CalendarOptions     CalendarOptions
}

var ErrEmptySelection = serrors.NewError(
	"ORGSYNC_EMPTY_SELECTION",
	"at least one sync package must be selected",
	"OrgSync.Errors.EmptySelection",
)

var ErrInvalidStrategy = serrors.NewError(
	"ORGSYNC_INVALID_STRATEGY",
	"unknown conflict strategy",
	"OrgSync.Errors.InvalidStrategy",
)

func (s Selection) Validate() error {
	if !s.PermissionOverrides && !s.AbsenceTypes && !s.PTOConfig && !s.Calendars {
		return ErrEmptySelection
	}
	return nil
}

// ChangeAction is the outcome recorded for one considered entity.
type ChangeAction string

const (
	ActionCreated ChangeAction = "CREATED"
	ActionUpdated ChangeAction = "UPDATED"
	ActionSkipped ChangeAction = "SKIPPED"
)

// Change is the audit record for one entity touched (or deliberately not
// touched) by a sync. Concrete types form a closed set, one per entity kind.
type Change interface {
	EntityType() string
	ChangeAction() ChangeAction
}

type PermissionOverrideChange struct {
	Action ChangeAction
	Role   string
}

func (c PermissionOverrideChange) EntityType() string { return "PERMISSION_OVERRIDE" }
func (c PermissionOverrideChange) ChangeAction() ChangeAction { return c.Action }

type AbsenceTypeChange struct {
	Action ChangeAction
	Code   string
	Name   string
}

func (c AbsenceTypeChange) EntityType() string { return "ABSENCE_TYPE" }
func (c AbsenceTypeChange) ChangeAction() ChangeAction { return c.Action }

type PTOConfigChange struct {
	Action     ChangeAction
	AnnualDays float64
}

func (c PTOConfigChange) EntityType() string { return "PTO_CONFIG" }
func (c PTOConfigChange) ChangeAction() ChangeAction { return c.Action }

// CostCenterRef describes a cost center in an audit record.
type CostCenterRef struct {
	ID   uuid.UUID
	Name string
	Code string
}

type CalendarChange struct {
	Action           ChangeAction
	Name             string
	Year             int
	CalendarType     string
	SourceCostCenter *CostCenterRef
	TargetCostCenter *CostCenterRef
	SourceEvents     int
	EventsAdded      int
}

func (c CalendarChange) EntityType() string { return "CALENDAR" }
func (c CalendarChange) ChangeAction() ChangeAction { return c.Action }

// PackageSummary is the per-package, per-target outcome. Created + Updated +
// Skipped equals the number of source entities considered; entities that
// could not be evaluated only produce warnings.
type PackageSummary struct {
	Created  int
	Updated  int
	Skipped  int
	Warnings []string
	Changes  []Change
}

func newPackageSummary() *PackageSummary {
	return &PackageSummary{}
}

func (s *PackageSummary) add(c Change) {
	switch c.ChangeAction() {
	case ActionCreated:
		s.Created++
	case ActionUpdated:
		s.Updated++
	case ActionSkipped:
		s.Skipped++
	}
	s.Changes = append(s.Changes, c)
}

func (s *PackageSummary) warn(message string) {
	s.Warnings = append(s.Warnings, message)
}

// TargetPreview is the dry-run result for one target organization.
type TargetPreview struct {
	TargetOrgID   uuid.UUID
	TargetOrgName string
	Summaries     map[Package]*PackageSummary
}
