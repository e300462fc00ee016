package services

import (
	"context"

	"github.com/iota-uz/workforce/modules/orgsync/domain/absencetype"
)

func previewAbsenceTypes(snap *sourceSnapshot, state *targetState, strategy ConflictStrategy) *PackageSummary {
	sum := newPackageSummary()
	for _, src := range snap.absenceTypes {
		sum.add(AbsenceTypeChange{
			Action: classifyExisting(state.absenceByCode[src.Code] != nil, strategy),
			Code:   src.Code,
			Name:   src.Name,
		})
	}
	return sum
}

func (s *GroupSyncService) applyAbsenceTypes(
	ctx context.Context,
	snap *sourceSnapshot,
	state *targetState,
	strategy ConflictStrategy,
) (*PackageSummary, error) {
	sum := newPackageSummary()
	for _, src := range snap.absenceTypes {
		existing := state.absenceByCode[src.Code]
		switch {
		case existing == nil:
			created := &absencetype.AbsenceType{OrgID: state.org.ID}
			src.CopyTo(created)
			if err := s.repos.AbsenceTypes.Create(ctx, created); err != nil {
				return nil, err
			}
			sum.add(AbsenceTypeChange{Action: ActionCreated, Code: src.Code, Name: src.Name})
		case strategy == StrategySkip:
			sum.add(AbsenceTypeChange{Action: ActionSkipped, Code: src.Code, Name: src.Name})
		default:
			// No field-level diffing; the whole payload is replaced.
			src.CopyTo(existing)
			if err := s.repos.AbsenceTypes.Update(ctx, existing); err != nil {
				return nil, err
			}
			sum.add(AbsenceTypeChange{Action: ActionUpdated, Code: src.Code, Name: src.Name})
		}
	}
	return sum, nil
}
