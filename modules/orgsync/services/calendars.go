package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/workforce/modules/orgsync/domain/calendar"
	"github.com/iota-uz/workforce/modules/orgsync/domain/costcenter"
)

// calendarPlan is the per-calendar decision shared by preview and apply, so
// the two paths cannot disagree on counts.
type calendarPlan struct {
	src          *calendar.Calendar
	existing     *calendar.Calendar
	action       ChangeAction
	skippedLocal bool
	resolvedCC   *costcenter.CostCenter
	eventsToAdd  []*calendar.Event
	warnings     []string
}

func planCalendars(
	snap *sourceSnapshot,
	state *targetState,
	opts CalendarOptions,
	targetOrgID uuid.UUID,
	strategy ConflictStrategy,
) []calendarPlan {
	plans := make([]calendarPlan, 0, len(snap.calendars))
	for _, src := range snap.calendars {
		plans = append(plans, planCalendar(snap, state, opts, targetOrgID, strategy, src))
	}
	return plans
}

func planCalendar(
	snap *sourceSnapshot,
	state *targetState,
	opts CalendarOptions,
	targetOrgID uuid.UUID,
	strategy ConflictStrategy,
	src *calendar.Calendar,
) calendarPlan {
	plan := calendarPlan{src: src}

	if opts.IncludeLocal && src.CostCenterID != nil {
		srcCC := snap.costCenters[*src.CostCenterID]
		if srcCC == nil {
			plan.warnings = append(plan.warnings, fmt.Sprintf(
				"calendar %q (%d) references an inactive or unknown cost center",
				src.Name, src.Year,
			))
		} else {
			explicit := opts.explicitMappingFor(targetOrgID, src.CostCenterID)
			resolved, warnings := resolveMappedCostCenter(srcCC, opts.MapCostCentersBy, state.ccMaps, explicit)
			plan.resolvedCC = resolved
			plan.warnings = append(plan.warnings, warnings...)
		}
	}

	// A site-scoped calendar with no valid site at the target must never be
	// created dangling; it is skipped under every strategy.
	if src.Type == calendar.TypeLocalHoliday && plan.resolvedCC == nil {
		plan.action = ActionSkipped
		plan.skippedLocal = true
		plan.warnings = append(plan.warnings, fmt.Sprintf(
			"local calendar %q (%d) skipped: no matching cost center in target organization",
			src.Name, src.Year,
		))
		return plan
	}

	var resolvedID *uuid.UUID
	if plan.resolvedCC != nil {
		resolvedID = &plan.resolvedCC.ID
	}
	plan.existing = findCalendarMatch(state.calendars, src, resolvedID)

	switch {
	case plan.existing == nil:
		plan.action = ActionCreated
		plan.eventsToAdd = src.Events
	case strategy == StrategySkip:
		plan.action = ActionSkipped
	case strategy == StrategyOverwrite:
		plan.action = ActionUpdated
		plan.eventsToAdd = src.Events
	default: // merge
		plan.action = ActionUpdated
		plan.eventsToAdd = missingEvents(src.Events, plan.existing.Events)
	}
	return plan
}

// findCalendarMatch locates the target calendar with the same identity:
// name, year, type and resolved cost center.
func findCalendarMatch(candidates []*calendar.Calendar, src *calendar.Calendar, resolvedCostCenterID *uuid.UUID) *calendar.Calendar {
	for _, cand := range candidates {
		if cand.Name != src.Name || cand.Year != src.Year || cand.Type != src.Type {
			continue
		}
		if !uuidPtrEqual(cand.CostCenterID, resolvedCostCenterID) {
			continue
		}
		return cand
	}
	return nil
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// missingEvents returns the source events whose dedup key is not present
// among the target's existing events. Keys of events already selected are
// tracked too, so duplicated source rows collapse to one insert.
func missingEvents(source, existing []*calendar.Event) []*calendar.Event {
	seen := make(map[string]struct{}, len(existing))
	for _, ev := range existing {
		seen[ev.DedupKey()] = struct{}{}
	}
	var missing []*calendar.Event
	for _, ev := range source {
		key := ev.DedupKey()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		missing = append(missing, ev)
	}
	return missing
}

func previewCalendars(
	snap *sourceSnapshot,
	state *targetState,
	opts CalendarOptions,
	targetOrgID uuid.UUID,
	strategy ConflictStrategy,
) *PackageSummary {
	sum := newPackageSummary()
	for _, plan := range planCalendars(snap, state, opts, targetOrgID, strategy) {
		for _, w := range plan.warnings {
			sum.warn(w)
		}
		sum.add(calendarChangeFromPlan(snap, plan))
	}
	return sum
}

func (s *GroupSyncService) applyCalendars(
	ctx context.Context,
	snap *sourceSnapshot,
	state *targetState,
	opts CalendarOptions,
	targetOrgID uuid.UUID,
	strategy ConflictStrategy,
) (*PackageSummary, error) {
	sum := newPackageSummary()
	for _, plan := range planCalendars(snap, state, opts, targetOrgID, strategy) {
		for _, w := range plan.warnings {
			sum.warn(w)
		}

		switch {
		case plan.action == ActionSkipped:
			// No writes: either a SKIP-strategy identity match or an
			// unresolvable local calendar.
		case plan.existing == nil:
			if err := s.createCalendarFromSource(ctx, state.org.ID, plan); err != nil {
				return nil, err
			}
		case strategy == StrategyOverwrite:
			if err := s.repos.Calendars.Delete(ctx, plan.existing.ID); err != nil {
				return nil, err
			}
			if err := s.createCalendarFromSource(ctx, state.org.ID, plan); err != nil {
				return nil, err
			}
		default: // merge: update descriptive fields, insert only missing events
			updated := *plan.existing
			updated.Description = plan.src.Description
			updated.Color = plan.src.Color
			updated.IsActive = plan.src.IsActive
			updated.Type = plan.src.Type
			if err := s.repos.Calendars.UpdateDescriptive(ctx, &updated); err != nil {
				return nil, err
			}
			if len(plan.eventsToAdd) > 0 {
				if err := s.repos.Calendars.AddEvents(ctx, plan.existing.ID, cloneEvents(plan.eventsToAdd)); err != nil {
					return nil, err
				}
			}
		}

		sum.add(calendarChangeFromPlan(snap, plan))
	}
	return sum, nil
}

func (s *GroupSyncService) createCalendarFromSource(ctx context.Context, targetOrgID uuid.UUID, plan calendarPlan) error {
	created := &calendar.Calendar{
		OrgID:       targetOrgID,
		Name:        plan.src.Name,
		Description: plan.src.Description,
		Year:        plan.src.Year,
		Type:        plan.src.Type,
		Color:       plan.src.Color,
		IsActive:    plan.src.IsActive,
		Events:      cloneEvents(plan.eventsToAdd),
	}
	if plan.resolvedCC != nil {
		id := plan.resolvedCC.ID
		created.CostCenterID = &id
	}
	return s.repos.Calendars.Create(ctx, created)
}

func cloneEvents(events []*calendar.Event) []*calendar.Event {
	cloned := make([]*calendar.Event, 0, len(events))
	for _, ev := range events {
		cloned = append(cloned, ev.Clone())
	}
	return cloned
}

func calendarChangeFromPlan(snap *sourceSnapshot, plan calendarPlan) CalendarChange {
	change := CalendarChange{
		Action:       plan.action,
		Name:         plan.src.Name,
		Year:         plan.src.Year,
		CalendarType: plan.src.Type,
		SourceEvents: len(plan.src.Events),
	}
	if plan.action != ActionSkipped {
		change.EventsAdded = len(plan.eventsToAdd)
	}
	if plan.src.CostCenterID != nil {
		ref := &CostCenterRef{ID: *plan.src.CostCenterID}
		if cc := snap.costCenters[*plan.src.CostCenterID]; cc != nil {
			ref.Name = cc.Name
			ref.Code = cc.Code
		}
		change.SourceCostCenter = ref
	}
	if plan.resolvedCC != nil {
		change.TargetCostCenter = &CostCenterRef{
			ID:   plan.resolvedCC.ID,
			Name: plan.resolvedCC.Name,
			Code: plan.resolvedCC.Code,
		}
	}
	return change
}
