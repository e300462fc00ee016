package services

import (
	"context"
	"slices"

	"github.com/iota-uz/workforce/modules/orgsync/domain/permissionoverride"
)

func previewPermissionOverrides(snap *sourceSnapshot, state *targetState, strategy ConflictStrategy) *PackageSummary {
	sum := newPackageSummary()
	if len(snap.overrides) == 0 {
		sum.warn("source organization has no permission overrides")
	}
	for _, src := range snap.overrides {
		sum.add(PermissionOverrideChange{
			Action: classifyExisting(state.overridesByRole[src.Role] != nil, strategy),
			Role:   src.Role,
		})
	}
	return sum
}

func (s *GroupSyncService) applyPermissionOverrides(
	ctx context.Context,
	snap *sourceSnapshot,
	state *targetState,
	strategy ConflictStrategy,
) (*PackageSummary, error) {
	sum := newPackageSummary()
	if len(snap.overrides) == 0 {
		sum.warn("source organization has no permission overrides")
	}
	for _, src := range snap.overrides {
		existing := state.overridesByRole[src.Role]
		switch {
		case existing == nil:
			created := &permissionoverride.PermissionOverride{
				OrgID:   state.org.ID,
				Role:    src.Role,
				Granted: slices.Clone(src.Granted),
				Revoked: slices.Clone(src.Revoked),
			}
			if err := s.repos.Overrides.Create(ctx, created); err != nil {
				return nil, err
			}
			sum.add(PermissionOverrideChange{Action: ActionCreated, Role: src.Role})
		case strategy == StrategySkip:
			sum.add(PermissionOverrideChange{Action: ActionSkipped, Role: src.Role})
		default:
			// Permission sets are wholesale-replaced, not unioned.
			existing.Granted = slices.Clone(src.Granted)
			existing.Revoked = slices.Clone(src.Revoked)
			if err := s.repos.Overrides.Update(ctx, existing); err != nil {
				return nil, err
			}
			sum.add(PermissionOverrideChange{Action: ActionUpdated, Role: src.Role})
		}
	}
	return sum, nil
}

// classifyExisting is the shared preview classification: an existing identity
// match is skipped under SKIP and updated otherwise; no match means create.
func classifyExisting(exists bool, strategy ConflictStrategy) ChangeAction {
	if !exists {
		return ActionCreated
	}
	if strategy == StrategySkip {
		return ActionSkipped
	}
	return ActionUpdated
}
