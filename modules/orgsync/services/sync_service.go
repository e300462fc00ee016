package services

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/workforce/modules/orgsync/domain/absencetype"
	"github.com/iota-uz/workforce/modules/orgsync/domain/calendar"
	"github.com/iota-uz/workforce/modules/orgsync/domain/costcenter"
	"github.com/iota-uz/workforce/modules/orgsync/domain/events"
	"github.com/iota-uz/workforce/modules/orgsync/domain/organization"
	"github.com/iota-uz/workforce/modules/orgsync/domain/permissionoverride"
	"github.com/iota-uz/workforce/modules/orgsync/domain/ptoconfig"
	"github.com/iota-uz/workforce/pkg/composables"
	"github.com/iota-uz/workforce/pkg/eventbus"
)

// GroupSyncRepos bundles the read/write boundaries the engine depends on.
type GroupSyncRepos struct {
	Orgs         organization.Repository
	CostCenters  costcenter.Repository
	Overrides    permissionoverride.Repository
	AbsenceTypes absencetype.Repository
	PTOConfigs   ptoconfig.Repository
	Calendars    calendar.Repository
}

// GroupSyncService propagates configuration packages from a source
// organization to target organizations in its group. It holds no state
// between calls; every invocation re-reads source and target data.
type GroupSyncService struct {
	repos     GroupSyncRepos
	publisher eventbus.EventBus
}

func NewGroupSyncService(repos GroupSyncRepos, publisher eventbus.EventBus) *GroupSyncService {
	return &GroupSyncService{
		repos:     repos,
		publisher: publisher,
	}
}

// sourceSnapshot is the read-only source data for one sync, loaded once and
// shared across all targets.
type sourceSnapshot struct {
	org          *organization.Organization
	overrides    []*permissionoverride.PermissionOverride
	absenceTypes []*absencetype.AbsenceType
	ptoConfig    *ptoconfig.Config
	ptoDefaulted bool
	calendars    []*calendar.Calendar
	costCenters  map[uuid.UUID]*costcenter.CostCenter
}

// targetState is the target organization's current data relevant to the
// selected packages, loaded fresh per target.
type targetState struct {
	org             *organization.Organization
	overridesByRole map[string]*permissionoverride.PermissionOverride
	absenceByCode   map[string]*absencetype.AbsenceType
	ptoConfig       *ptoconfig.Config
	calendars       []*calendar.Calendar
	ccMaps          *targetCostCenterMaps
}

// BuildPreview computes, without mutating anything, what ExecuteForTarget
// would do for each target: per-package counts plus warnings.
func (s *GroupSyncService) BuildPreview(
	ctx context.Context,
	sourceOrgID uuid.UUID,
	targetOrgIDs []uuid.UUID,
	sel Selection,
	strategy ConflictStrategy,
) ([]TargetPreview, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if !strategy.IsValid() {
		return nil, ErrInvalidStrategy
	}

	return composables.InTxResult(ctx, func(txCtx context.Context) ([]TargetPreview, error) {
		snap, err := s.loadSource(txCtx, sourceOrgID, sel)
		if err != nil {
			return nil, err
		}

		previews := make([]TargetPreview, 0, len(targetOrgIDs))
		for _, targetOrgID := range targetOrgIDs {
			state, err := s.loadTarget(txCtx, targetOrgID, sel)
			if err != nil {
				return nil, err
			}
			preview := TargetPreview{
				TargetOrgID:   targetOrgID,
				TargetOrgName: state.org.Name,
				Summaries:     make(map[Package]*PackageSummary),
			}
			if sel.PermissionOverrides {
				preview.Summaries[PackagePermissionOverrides] = previewPermissionOverrides(snap, state, strategy)
			}
			if sel.AbsenceTypes {
				preview.Summaries[PackageAbsenceTypes] = previewAbsenceTypes(snap, state, strategy)
			}
			if sel.PTOConfig {
				preview.Summaries[PackagePTOConfig] = previewPTOConfig(snap, state, strategy)
			}
			if sel.Calendars {
				preview.Summaries[PackageCalendars] = previewCalendars(snap, state, sel.CalendarOptions, targetOrgID, strategy)
			}
			previews = append(previews, preview)
		}
		return previews, nil
	})
}

// ExecuteForTarget runs the selected packages against one target organization
// inside a single transaction: if a later package fails, earlier packages'
// writes for that target are rolled back. The caller iterates targets.
func (s *GroupSyncService) ExecuteForTarget(
	ctx context.Context,
	sourceOrgID uuid.UUID,
	targetOrgID uuid.UUID,
	sel Selection,
	strategy ConflictStrategy,
) (map[Package]*PackageSummary, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if !strategy.IsValid() {
		return nil, ErrInvalidStrategy
	}

	summaries, err := composables.InTxResult(ctx, func(txCtx context.Context) (map[Package]*PackageSummary, error) {
		snap, err := s.loadSource(txCtx, sourceOrgID, sel)
		if err != nil {
			return nil, err
		}
		state, err := s.loadTarget(txCtx, targetOrgID, sel)
		if err != nil {
			return nil, err
		}

		out := make(map[Package]*PackageSummary)
		if sel.PermissionOverrides {
			sum, err := s.applyPermissionOverrides(txCtx, snap, state, strategy)
			if err != nil {
				return nil, err
			}
			out[PackagePermissionOverrides] = sum
		}
		if sel.AbsenceTypes {
			sum, err := s.applyAbsenceTypes(txCtx, snap, state, strategy)
			if err != nil {
				return nil, err
			}
			out[PackageAbsenceTypes] = sum
		}
		if sel.PTOConfig {
			sum, err := s.applyPTOConfig(txCtx, snap, state, strategy)
			if err != nil {
				return nil, err
			}
			out[PackagePTOConfig] = sum
		}
		if sel.Calendars {
			sum, err := s.applyCalendars(txCtx, snap, state, sel.CalendarOptions, targetOrgID, strategy)
			if err != nil {
				return nil, err
			}
			out[PackageCalendars] = sum
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	s.logExecution(ctx, sourceOrgID, targetOrgID, strategy, summaries)
	s.publishExecuted(sourceOrgID, targetOrgID, strategy, summaries)
	return summaries, nil
}

// ResolveGroupID returns the organization group the given organization
// belongs to. Callers use it to scope the context (composables.WithGroupID)
// before running previews or syncs, so row security can be applied.
func (s *GroupSyncService) ResolveGroupID(ctx context.Context, orgID uuid.UUID) (uuid.UUID, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return uuid.Nil, err
	}
	return org.GroupID, nil
}

func (s *GroupSyncService) loadSource(ctx context.Context, orgID uuid.UUID, sel Selection) (*sourceSnapshot, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	snap := &sourceSnapshot{org: org}

	if sel.PermissionOverrides {
		if snap.overrides, err = s.repos.Overrides.GetByOrg(ctx, orgID); err != nil {
			return nil, err
		}
	}
	if sel.AbsenceTypes {
		if snap.absenceTypes, err = s.repos.AbsenceTypes.GetByOrg(ctx, orgID); err != nil {
			return nil, err
		}
	}
	if sel.PTOConfig {
		cfg, err := s.repos.PTOConfigs.GetByOrg(ctx, orgID)
		switch {
		case err == nil:
			snap.ptoConfig = cfg
		case errors.Is(err, ptoconfig.ErrConfigNotFound):
			snap.ptoConfig = ptoconfig.Default(orgID)
			snap.ptoDefaulted = true
		default:
			return nil, err
		}
	}
	if sel.Calendars {
		if snap.calendars, err = s.repos.Calendars.GetByOrg(ctx, orgID, sel.CalendarOptions.IncludeLocal); err != nil {
			return nil, err
		}
		snap.costCenters = make(map[uuid.UUID]*costcenter.CostCenter)
		if sel.CalendarOptions.IncludeLocal {
			ccs, err := s.repos.CostCenters.GetActiveByOrg(ctx, orgID)
			if err != nil {
				return nil, err
			}
			for _, cc := range ccs {
				snap.costCenters[cc.ID] = cc
			}
		}
	}
	return snap, nil
}

func (s *GroupSyncService) loadTarget(ctx context.Context, orgID uuid.UUID, sel Selection) (*targetState, error) {
	org, err := s.repos.Orgs.GetByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	state := &targetState{org: org}

	if sel.PermissionOverrides {
		overrides, err := s.repos.Overrides.GetByOrg(ctx, orgID)
		if err != nil {
			return nil, err
		}
		state.overridesByRole = make(map[string]*permissionoverride.PermissionOverride, len(overrides))
		for _, o := range overrides {
			state.overridesByRole[o.Role] = o
		}
	}
	if sel.AbsenceTypes {
		types, err := s.repos.AbsenceTypes.GetByOrg(ctx, orgID)
		if err != nil {
			return nil, err
		}
		state.absenceByCode = make(map[string]*absencetype.AbsenceType, len(types))
		for _, at := range types {
			state.absenceByCode[at.Code] = at
		}
	}
	if sel.PTOConfig {
		cfg, err := s.repos.PTOConfigs.GetByOrg(ctx, orgID)
		switch {
		case err == nil:
			state.ptoConfig = cfg
		case errors.Is(err, ptoconfig.ErrConfigNotFound):
			state.ptoConfig = nil
		default:
			return nil, err
		}
	}
	if sel.Calendars {
		if state.calendars, err = s.repos.Calendars.GetByOrg(ctx, orgID, sel.CalendarOptions.IncludeLocal); err != nil {
			return nil, err
		}
		if sel.CalendarOptions.IncludeLocal {
			if state.ccMaps, err = buildTargetCostCenterMaps(ctx, s.repos.CostCenters, orgID); err != nil {
				return nil, err
			}
		} else {
			state.ccMaps = &targetCostCenterMaps{
				byID:   map[uuid.UUID]*costcenter.CostCenter{},
				byCode: map[string]*costcenter.CostCenter{},
				byName: map[string]*costcenter.CostCenter{},
			}
		}
	}
	return state, nil
}

func (s *GroupSyncService) logExecution(
	ctx context.Context,
	sourceOrgID, targetOrgID uuid.UUID,
	strategy ConflictStrategy,
	summaries map[Package]*PackageSummary,
) {
	logger := composables.UseLogger(ctx).WithFields(logrus.Fields{
		"event":      events.TopicGroupSyncExecutedV1,
		"source_org": sourceOrgID,
		"target_org": targetOrgID,
		"strategy":   strategy,
	})
	for pkg, sum := range summaries {
		logger.WithFields(logrus.Fields{
			"package":  pkg,
			"created":  sum.Created,
			"updated":  sum.Updated,
			"skipped":  sum.Skipped,
			"warnings": len(sum.Warnings),
		}).Info("group sync package applied")
	}
}

func (s *GroupSyncService) publishExecuted(
	sourceOrgID, targetOrgID uuid.UUID,
	strategy ConflictStrategy,
	summaries map[Package]*PackageSummary,
) {
	if s.publisher == nil {
		return
	}
	results := make([]events.PackageResultV1, 0, len(summaries))
	for pkg, sum := range summaries {
		results = append(results, events.PackageResultV1{
			Package:  string(pkg),
			Created:  sum.Created,
			Updated:  sum.Updated,
			Skipped:  sum.Skipped,
			Warnings: sum.Warnings,
		})
	}
	sort.Slice(results, func(i, j int) bool { return results[i].Package < results[j].Package })
	s.publisher.Publish(&events.GroupSyncExecutedV1{
		EventID:      uuid.New(),
		EventVersion: events.EventVersionV1,
		SourceOrgID:  sourceOrgID,
		TargetOrgID:  targetOrgID,
		Strategy:     string(strategy),
		ExecutedAt:   time.Now().UTC(),
		Results:      results,
	})
}
