package services

import (
	"context"
	"slices"

	"github.com/iota-uz/workforce/modules/orgsync/domain/ptoconfig"
)

const noSourcePTOConfigWarning = "source organization has no PTO configuration; built-in defaults will be synced"

func previewPTOConfig(snap *sourceSnapshot, state *targetState, strategy ConflictStrategy) *PackageSummary {
	sum := newPackageSummary()
	if snap.ptoDefaulted {
		sum.warn(noSourcePTOConfigWarning)
	}
	sum.add(PTOConfigChange{
		Action:     classifyExisting(state.ptoConfig != nil, strategy),
		AnnualDays: snap.org.AnnualPTODays,
	})
	return sum
}

// applyPTOConfig carries a deliberate asymmetry: the organization's annual
// PTO day count and the policy object are written regardless of strategy;
// only the summary classification honors SKIP. Product treats the org-level
// allotment as part of every sync.
func (s *GroupSyncService) applyPTOConfig(
	ctx context.Context,
	snap *sourceSnapshot,
	state *targetState,
	strategy ConflictStrategy,
) (*PackageSummary, error) {
	sum := newPackageSummary()
	if snap.ptoDefaulted {
		sum.warn(noSourcePTOConfigWarning)
	}

	if err := s.repos.Orgs.UpdateAnnualPTODays(ctx, state.org.ID, snap.org.AnnualPTODays); err != nil {
		return nil, err
	}

	cfg := clonePTOConfig(snap.ptoConfig)
	cfg.OrgID = state.org.ID
	if err := s.repos.PTOConfigs.Upsert(ctx, cfg); err != nil {
		return nil, err
	}

	sum.add(PTOConfigChange{
		Action:     classifyExisting(state.ptoConfig != nil, strategy),
		AnnualDays: snap.org.AnnualPTODays,
	})
	return sum, nil
}

func clonePTOConfig(cfg *ptoconfig.Config) *ptoconfig.Config {
	clone := *cfg
	clone.SeniorityRules = slices.Clone(cfg.SeniorityRules)
	return &clone
}
