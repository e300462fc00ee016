package services

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

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

// ---- in-memory repositories -------------------------------------------------

type memStore struct {
	orgs      map[uuid.UUID]*organization.Organization
	ccs       []*costcenter.CostCenter
	overrides []*permissionoverride.PermissionOverride
	types     []*absencetype.AbsenceType
	pto       map[uuid.UUID]*ptoconfig.Config
	calendars []*calendar.Calendar
}

func newMemStore() *memStore {
	return &memStore{
		orgs: map[uuid.UUID]*organization.Organization{},
		pto:  map[uuid.UUID]*ptoconfig.Config{},
	}
}

func (s *memStore) repos() GroupSyncRepos {
	return GroupSyncRepos{
		Orgs:         memOrgRepo{s},
		CostCenters:  memCostCenterRepo{s},
		Overrides:    memOverrideRepo{s},
		AbsenceTypes: memAbsenceTypeRepo{s},
		PTOConfigs:   memPTOConfigRepo{s},
		Calendars:    memCalendarRepo{s},
	}
}

type memOrgRepo struct{ s *memStore }

func (r memOrgRepo) GetByID(_ context.Context, id uuid.UUID) (*organization.Organization, error) {
	org, ok := r.s.orgs[id]
	if !ok {
		return nil, errors.New("organization not found")
	}
	clone := *org
	return &clone, nil
}

func (r memOrgRepo) UpdateAnnualPTODays(_ context.Context, id uuid.UUID, days float64) error {
	org, ok := r.s.orgs[id]
	if !ok {
		return errors.New("organization not found")
	}
	org.AnnualPTODays = days
	return nil
}

type memCostCenterRepo struct{ s *memStore }

func (r memCostCenterRepo) GetActiveByOrg(_ context.Context, orgID uuid.UUID) ([]*costcenter.CostCenter, error) {
	var out []*costcenter.CostCenter
	for _, cc := range r.s.ccs {
		if cc.OrgID == orgID && cc.IsActive {
			clone := *cc
			out = append(out, &clone)
		}
	}
	return out, nil
}

type memOverrideRepo struct{ s *memStore }

func (r memOverrideRepo) GetByOrg(_ context.Context, orgID uuid.UUID) ([]*permissionoverride.PermissionOverride, error) {
	var out []*permissionoverride.PermissionOverride
	for _, o := range r.s.overrides {
		if o.OrgID == orgID {
			out = append(out, cloneOverride(o))
		}
	}
	return out, nil
}

func (r memOverrideRepo) Create(_ context.Context, override *permissionoverride.PermissionOverride) error {
	override.ID = uuid.New()
	r.s.overrides = append(r.s.overrides, cloneOverride(override))
	return nil
}

func (r memOverrideRepo) Update(_ context.Context, override *permissionoverride.PermissionOverride) error {
	for i, o := range r.s.overrides {
		if o.ID == override.ID {
			r.s.overrides[i] = cloneOverride(override)
			return nil
		}
	}
	return errors.New("permission override not found")
}

func cloneOverride(o *permissionoverride.PermissionOverride) *permissionoverride.PermissionOverride {
	clone := *o
	clone.Granted = append([]string(nil), o.Granted...)
	clone.Revoked = append([]string(nil), o.Revoked...)
	return &clone
}

type memAbsenceTypeRepo struct{ s *memStore }

func (r memAbsenceTypeRepo) GetByOrg(_ context.Context, orgID uuid.UUID) ([]*absencetype.AbsenceType, error) {
	var out []*absencetype.AbsenceType
	for _, at := range r.s.types {
		if at.OrgID == orgID {
			clone := *at
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r memAbsenceTypeRepo) Create(_ context.Context, at *absencetype.AbsenceType) error {
	at.ID = uuid.New()
	clone := *at
	r.s.types = append(r.s.types, &clone)
	return nil
}

func (r memAbsenceTypeRepo) Update(_ context.Context, at *absencetype.AbsenceType) error {
	for i, existing := range r.s.types {
		if existing.ID == at.ID {
			clone := *at
			r.s.types[i] = &clone
			return nil
		}
	}
	return errors.New("absence type not found")
}

type memPTOConfigRepo struct{ s *memStore }

func (r memPTOConfigRepo) GetByOrg(_ context.Context, orgID uuid.UUID) (*ptoconfig.Config, error) {
	cfg, ok := r.s.pto[orgID]
	if !ok {
		return nil, ptoconfig.ErrConfigNotFound
	}
	return clonePTOConfig(cfg), nil
}

func (r memPTOConfigRepo) Upsert(_ context.Context, cfg *ptoconfig.Config) error {
	r.s.pto[cfg.OrgID] = clonePTOConfig(cfg)
	return nil
}

type memCalendarRepo struct{ s *memStore }

func (r memCalendarRepo) GetByOrg(_ context.Context, orgID uuid.UUID, includeLocal bool) ([]*calendar.Calendar, error) {
	var out []*calendar.Calendar
	for _, cal := range r.s.calendars {
		if cal.OrgID != orgID {
			continue
		}
		if !includeLocal && cal.Type == calendar.TypeLocalHoliday {
			continue
		}
		out = append(out, cloneStoredCalendar(cal))
	}
	return out, nil
}

func (r memCalendarRepo) Create(_ context.Context, cal *calendar.Calendar) error {
	cal.ID = uuid.New()
	for _, ev := range cal.Events {
		ev.ID = uuid.New()
		ev.CalendarID = cal.ID
	}
	r.s.calendars = append(r.s.calendars, cloneStoredCalendar(cal))
	return nil
}

func (r memCalendarRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, cal := range r.s.calendars {
		if cal.ID == id {
			r.s.calendars = append(r.s.calendars[:i], r.s.calendars[i+1:]...)
			return nil
		}
	}
	return errors.New("calendar not found")
}

func (r memCalendarRepo) UpdateDescriptive(_ context.Context, cal *calendar.Calendar) error {
	for _, stored := range r.s.calendars {
		if stored.ID == cal.ID {
			stored.Description = cal.Description
			stored.Color = cal.Color
			stored.IsActive = cal.IsActive
			stored.Type = cal.Type
			return nil
		}
	}
	return errors.New("calendar not found")
}

func (r memCalendarRepo) AddEvents(_ context.Context, calendarID uuid.UUID, evs []*calendar.Event) error {
	for _, stored := range r.s.calendars {
		if stored.ID == calendarID {
			for _, ev := range evs {
				clone := *ev
				clone.ID = uuid.New()
				clone.CalendarID = calendarID
				stored.Events = append(stored.Events, &clone)
			}
			return nil
		}
	}
	return errors.New("calendar not found")
}

func cloneStoredCalendar(cal *calendar.Calendar) *calendar.Calendar {
	clone := *cal
	if cal.CostCenterID != nil {
		id := *cal.CostCenterID
		clone.CostCenterID = &id
	}
	clone.Events = make([]*calendar.Event, 0, len(cal.Events))
	for _, ev := range cal.Events {
		evClone := *ev
		clone.Events = append(clone.Events, &evClone)
	}
	return &clone
}

// ---- fixture ---------------------------------------------------------------

// stubTx satisfies pgx.Tx so transactional paths run against the in-memory
// store without a database.
type stubTx struct{ pgx.Tx }

func testContext() context.Context {
	return composables.WithTx(context.Background(), stubTx{})
}

type syncFixture struct {
	store    *memStore
	service  *GroupSyncService
	bus      eventbus.EventBus
	ctx      context.Context
	sourceID uuid.UUID
	targetID uuid.UUID
}

func newSyncFixture(t *testing.T) *syncFixture {
	t.Helper()
	store := newMemStore()
	groupID := uuid.New()
	source := &organization.Organization{ID: uuid.New(), GroupID: groupID, Name: "Acme HQ", AnnualPTODays: 25}
	target := &organization.Organization{ID: uuid.New(), GroupID: groupID, Name: "Acme North", AnnualPTODays: 10}
	store.orgs[source.ID] = source
	store.orgs[target.ID] = target

	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	bus := eventbus.NewEventPublisher(log)

	return &syncFixture{
		store:    store,
		service:  NewGroupSyncService(store.repos(), bus),
		bus:      bus,
		ctx:      testContext(),
		sourceID: source.ID,
		targetID: target.ID,
	}
}

func (f *syncFixture) addCostCenter(orgID uuid.UUID, code, name string) *costcenter.CostCenter {
	cc := &costcenter.CostCenter{ID: uuid.New(), OrgID: orgID, Code: code, Name: name, IsActive: true}
	f.store.ccs = append(f.store.ccs, cc)
	return cc
}

func (f *syncFixture) addOverride(orgID uuid.UUID, role string, granted, revoked []string) *permissionoverride.PermissionOverride {
	o := &permissionoverride.PermissionOverride{
		ID: uuid.New(), OrgID: orgID, Role: role,
		Granted: granted, Revoked: revoked,
	}
	f.store.overrides = append(f.store.overrides, o)
	return o
}

func (f *syncFixture) addAbsenceType(orgID uuid.UUID, code, name string) *absencetype.AbsenceType {
	at := &absencetype.AbsenceType{
		ID: uuid.New(), OrgID: orgID, Code: code, Name: name,
		IsPaid: true, RequiresApproval: true, AffectsBalance: true, IsActive: true,
		GranularityMinutes: 60, CompensationFactor: 1.0, BalanceType: "pto",
	}
	f.store.types = append(f.store.types, at)
	return at
}

func (f *syncFixture) addCalendar(orgID uuid.UUID, name string, year int, calType string, costCenterID *uuid.UUID, evs ...*calendar.Event) *calendar.Calendar {
	cal := &calendar.Calendar{
		ID: uuid.New(), OrgID: orgID, Name: name, Year: year,
		Type: calType, Color: "#2563eb", IsActive: true,
		CostCenterID: costCenterID, Events: evs,
	}
	for _, ev := range cal.Events {
		ev.ID = uuid.New()
		ev.CalendarID = cal.ID
	}
	f.store.calendars = append(f.store.calendars, cal)
	return cal
}

func (f *syncFixture) targetCalendar(t *testing.T, name string, year int) *calendar.Calendar {
	t.Helper()
	for _, cal := range f.store.calendars {
		if cal.OrgID == f.targetID && cal.Name == name && cal.Year == year {
			return cal
		}
	}
	t.Fatalf("target calendar %q (%d) not found", name, year)
	return nil
}

func holiday(t *testing.T, date, name string) *calendar.Event {
	t.Helper()
	d, err := time.Parse(time.DateOnly, date)
	require.NoError(t, err)
	return &calendar.Event{Date: d, Type: "HOLIDAY", Name: name}
}

func eventNames(cal *calendar.Calendar) []string {
	names := make([]string, 0, len(cal.Events))
	for _, ev := range cal.Events {
		names = append(names, ev.Name)
	}
	return names
}

func allPackages() Selection {
	return Selection{PermissionOverrides: true, AbsenceTypes: true, PTOConfig: true, Calendars: true}
}

// ---- tests -----------------------------------------------------------------

func TestGroupSyncService_ValidatesInput(t *testing.T) {
	f := newSyncFixture(t)

	_, err := f.service.BuildPreview(f.ctx, f.sourceID, []uuid.UUID{f.targetID}, Selection{}, StrategyMerge)
	require.ErrorIs(t, err, ErrEmptySelection)

	_, err = f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{}, StrategyMerge)
	require.ErrorIs(t, err, ErrEmptySelection)

	_, err = f.service.BuildPreview(f.ctx, f.sourceID, []uuid.UUID{f.targetID}, allPackages(), ConflictStrategy("UPSERT"))
	require.ErrorIs(t, err, ErrInvalidStrategy)
}

func TestGroupSyncService_CreatesMissingAbsenceType(t *testing.T) {
	f := newSyncFixture(t)
	src := f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")
	src.RequiresDocument = true

	sel := Selection{AbsenceTypes: true}
	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, sel, StrategyMerge)
	require.NoError(t, err)

	sum := summaries[PackageAbsenceTypes]
	require.NotNil(t, sum)
	require.Equal(t, 1, sum.Created)
	require.Equal(t, 0, sum.Updated)
	require.Equal(t, 0, sum.Skipped)
	require.Len(t, sum.Changes, 1)
	require.Equal(t, "ABSENCE_TYPE", sum.Changes[0].EntityType())
	require.Equal(t, ActionCreated, sum.Changes[0].ChangeAction())
	require.Equal(t, "SICK", sum.Changes[0].(AbsenceTypeChange).Code)

	var created *absencetype.AbsenceType
	for _, at := range f.store.types {
		if at.OrgID == f.targetID {
			created = at
		}
	}
	require.NotNil(t, created)
	require.NotEqual(t, src.ID, created.ID)
	require.Equal(t, "SICK", created.Code)
	require.Equal(t, "Sick Leave", created.Name)
	require.True(t, created.RequiresDocument)
	require.Equal(t, 1.0, created.CompensationFactor)
}

func TestGroupSyncService_SkipLeavesExistingUntouched(t *testing.T) {
	f := newSyncFixture(t)
	f.addOverride(f.sourceID, "manager", []string{"payroll.view"}, nil)
	f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"), holiday(t, "2026-12-25", "Christmas"))

	f.addOverride(f.targetID, "manager", []string{"reports.view"}, []string{"payroll.view"})
	targetType := f.addAbsenceType(f.targetID, "SICK", "Maladie")
	f.addCalendar(f.targetID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-07-14", "Bastille Day"))

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, allPackages(), StrategySkip)
	require.NoError(t, err)

	for _, pkg := range []Package{PackagePermissionOverrides, PackageAbsenceTypes, PackageCalendars} {
		sum := summaries[pkg]
		require.NotNil(t, sum, pkg)
		require.Equal(t, 0, sum.Created, pkg)
		require.Equal(t, 0, sum.Updated, pkg)
		require.Equal(t, 1, sum.Skipped, pkg)
	}

	var targetOverride *permissionoverride.PermissionOverride
	for _, o := range f.store.overrides {
		if o.OrgID == f.targetID {
			targetOverride = o
		}
	}
	require.Equal(t, []string{"reports.view"}, targetOverride.Granted)
	require.Equal(t, []string{"payroll.view"}, targetOverride.Revoked)
	require.Equal(t, "Maladie", targetType.Name)
	require.Equal(t, []string{"Bastille Day"}, eventNames(f.targetCalendar(t, "Holidays", 2026)))
}

// The org-level annual allotment and the policy object are written even under
// SKIP; only the summary classification honors the strategy.
func TestGroupSyncService_SkipStillWritesAnnualPTODays(t *testing.T) {
	f := newSyncFixture(t)
	srcCfg := ptoconfig.Default(f.sourceID)
	srcCfg.CarryoverMode = ptoconfig.CarryoverUpToLimit
	srcCfg.CarryoverLimitDays = 5
	f.store.pto[f.sourceID] = srcCfg
	f.store.pto[f.targetID] = ptoconfig.Default(f.targetID)

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{PTOConfig: true}, StrategySkip)
	require.NoError(t, err)

	sum := summaries[PackagePTOConfig]
	require.Equal(t, 1, sum.Skipped)
	require.Equal(t, 0, sum.Created)

	require.Equal(t, 25.0, f.store.orgs[f.targetID].AnnualPTODays)
	stored := f.store.pto[f.targetID]
	require.Equal(t, ptoconfig.CarryoverUpToLimit, stored.CarryoverMode)
	require.Equal(t, 5.0, stored.CarryoverLimitDays)
	require.Equal(t, f.targetID, stored.OrgID)
}

func TestGroupSyncService_DefaultsPTOConfigWhenSourceHasNone(t *testing.T) {
	f := newSyncFixture(t)

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{PTOConfig: true}, StrategyMerge)
	require.NoError(t, err)

	sum := summaries[PackagePTOConfig]
	require.Equal(t, 1, sum.Created)
	require.Equal(t, []string{noSourcePTOConfigWarning}, sum.Warnings)

	stored := f.store.pto[f.targetID]
	require.NotNil(t, stored)
	require.Equal(t, 17, stored.LeaveWeeks.Maternity)
	require.Equal(t, 0.1, stored.RoundingUnit)
	require.Equal(t, ptoconfig.RoundNearest, stored.RoundingMode)
	require.Equal(t, 25.0, f.store.orgs[f.targetID].AnnualPTODays)
}

func TestGroupSyncService_MergeReplacesPermissionSetsWholesale(t *testing.T) {
	f := newSyncFixture(t)
	f.addOverride(f.sourceID, "manager", []string{"payroll.view", "payroll.edit"}, []string{"admin.access"})
	f.addOverride(f.targetID, "manager", []string{"reports.view"}, nil)

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{PermissionOverrides: true}, StrategyMerge)
	require.NoError(t, err)
	require.Equal(t, 1, summaries[PackagePermissionOverrides].Updated)

	var targetOverride *permissionoverride.PermissionOverride
	for _, o := range f.store.overrides {
		if o.OrgID == f.targetID {
			targetOverride = o
		}
	}
	require.Equal(t, []string{"payroll.view", "payroll.edit"}, targetOverride.Granted)
	require.Equal(t, []string{"admin.access"}, targetOverride.Revoked)
}

func TestGroupSyncService_OverwriteReplacesCalendarEvents(t *testing.T) {
	f := newSyncFixture(t)
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-05-01", "Labor Day"), holiday(t, "2026-12-25", "Christmas"))
	f.addCalendar(f.targetID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"), holiday(t, "2026-05-01", "Labor Day"))

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{Calendars: true}, StrategyOverwrite)
	require.NoError(t, err)

	sum := summaries[PackageCalendars]
	require.Equal(t, 1, sum.Updated)
	change := sum.Changes[0].(CalendarChange)
	require.Equal(t, 2, change.SourceEvents)
	require.Equal(t, 2, change.EventsAdded)

	require.ElementsMatch(t,
		[]string{"Labor Day", "Christmas"},
		eventNames(f.targetCalendar(t, "Holidays", 2026)))
}

func TestGroupSyncService_MergeAddsOnlyMissingEvents(t *testing.T) {
	f := newSyncFixture(t)
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-05-01", "Labor Day"), holiday(t, "2026-12-25", "Christmas"))
	f.addCalendar(f.targetID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"), holiday(t, "2026-05-01", "Labor Day"))

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{Calendars: true}, StrategyMerge)
	require.NoError(t, err)
	require.Equal(t, 1, summaries[PackageCalendars].Updated)
	require.Equal(t, 1, summaries[PackageCalendars].Changes[0].(CalendarChange).EventsAdded)
	require.ElementsMatch(t,
		[]string{"New Year", "Labor Day", "Christmas"},
		eventNames(f.targetCalendar(t, "Holidays", 2026)))

	// Re-running the merge must add nothing.
	summaries, err = f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{Calendars: true}, StrategyMerge)
	require.NoError(t, err)
	require.Equal(t, 1, summaries[PackageCalendars].Updated)
	require.Equal(t, 0, summaries[PackageCalendars].Changes[0].(CalendarChange).EventsAdded)
	require.Len(t, f.targetCalendar(t, "Holidays", 2026).Events, 3)
}

func TestGroupSyncService_LocalCalendarWithoutMatchIsAlwaysSkipped(t *testing.T) {
	f := newSyncFixture(t)
	srcCC := f.addCostCenter(f.sourceID, "PAR", "Paris Plant")
	f.addCalendar(f.sourceID, "Paris Holidays", 2026, calendar.TypeLocalHoliday, &srcCC.ID,
		holiday(t, "2026-07-14", "Bastille Day"))

	sel := Selection{Calendars: true, CalendarOptions: CalendarOptions{IncludeLocal: true}}
	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, sel, StrategyOverwrite)
	require.NoError(t, err)

	sum := summaries[PackageCalendars]
	require.Equal(t, 0, sum.Created)
	require.Equal(t, 1, sum.Skipped)
	require.Len(t, sum.Warnings, 2)
	require.Contains(t, sum.Warnings[1], `local calendar "Paris Holidays" (2026) skipped`)

	for _, cal := range f.store.calendars {
		require.NotEqual(t, f.targetID, cal.OrgID)
	}
}

func TestGroupSyncService_ExcludesLocalCalendarsWhenNotRequested(t *testing.T) {
	f := newSyncFixture(t)
	srcCC := f.addCostCenter(f.sourceID, "PAR", "Paris Plant")
	f.addCalendar(f.sourceID, "Paris Holidays", 2026, calendar.TypeLocalHoliday, &srcCC.ID,
		holiday(t, "2026-07-14", "Bastille Day"))
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"))

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{Calendars: true}, StrategyMerge)
	require.NoError(t, err)

	sum := summaries[PackageCalendars]
	require.Equal(t, 1, sum.Created)
	require.Empty(t, sum.Warnings)
	require.Equal(t, "Holidays", sum.Changes[0].(CalendarChange).Name)
}

func TestGroupSyncService_ExplicitCostCenterMappingWins(t *testing.T) {
	f := newSyncFixture(t)
	srcCC := f.addCostCenter(f.sourceID, "HQ", "Headquarters")
	autoMatch := f.addCostCenter(f.targetID, "HQ", "Headquarters")
	explicit := f.addCostCenter(f.targetID, "DC2", "Second Site")
	f.addCalendar(f.sourceID, "Site Holidays", 2026, calendar.TypeLocalHoliday, &srcCC.ID,
		holiday(t, "2026-03-08", "Site Day"))

	sel := Selection{Calendars: true, CalendarOptions: CalendarOptions{
		IncludeLocal: true,
		CostCenterMappingsByOrg: map[uuid.UUID]map[uuid.UUID]uuid.UUID{
			f.targetID: {srcCC.ID: explicit.ID},
		},
	}}
	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, sel, StrategyMerge)
	require.NoError(t, err)

	sum := summaries[PackageCalendars]
	require.Equal(t, 1, sum.Created)
	require.Empty(t, sum.Warnings)

	change := sum.Changes[0].(CalendarChange)
	require.Equal(t, "DC2", change.TargetCostCenter.Code)
	require.Equal(t, "HQ", change.SourceCostCenter.Code)

	created := f.targetCalendar(t, "Site Holidays", 2026)
	require.NotNil(t, created.CostCenterID)
	require.Equal(t, explicit.ID, *created.CostCenterID)
	require.NotEqual(t, autoMatch.ID, *created.CostCenterID)
}

func TestGroupSyncService_PreviewMatchesExecution(t *testing.T) {
	f := newSyncFixture(t)
	f.addOverride(f.sourceID, "manager", []string{"payroll.view"}, nil)
	f.addOverride(f.sourceID, "auditor", []string{"reports.view"}, nil)
	f.addOverride(f.targetID, "manager", []string{"reports.view"}, nil)
	f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")
	f.addAbsenceType(f.sourceID, "PTO", "Paid Time Off")
	f.addAbsenceType(f.targetID, "PTO", "Vacation")
	srcCC := f.addCostCenter(f.sourceID, "PAR", "Paris Plant")
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"), holiday(t, "2026-05-01", "Labor Day"))
	f.addCalendar(f.sourceID, "Paris Holidays", 2026, calendar.TypeLocalHoliday, &srcCC.ID,
		holiday(t, "2026-07-14", "Bastille Day"))
	f.addCalendar(f.targetID, "Holidays", 2026, calendar.TypeOrg, nil,
		holiday(t, "2026-01-01", "New Year"))

	sel := allPackages()
	sel.CalendarOptions.IncludeLocal = true

	previews, err := f.service.BuildPreview(f.ctx, f.sourceID, []uuid.UUID{f.targetID}, sel, StrategyMerge)
	require.NoError(t, err)
	require.Len(t, previews, 1)
	require.Equal(t, "Acme North", previews[0].TargetOrgName)

	executed, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, sel, StrategyMerge)
	require.NoError(t, err)

	require.Len(t, executed, len(previews[0].Summaries))
	for pkg, predicted := range previews[0].Summaries {
		actual := executed[pkg]
		require.NotNil(t, actual, pkg)
		require.Equal(t, predicted.Created, actual.Created, pkg)
		require.Equal(t, predicted.Updated, actual.Updated, pkg)
		require.Equal(t, predicted.Skipped, actual.Skipped, pkg)
		require.Equal(t, predicted.Warnings, actual.Warnings, pkg)
	}
}

func TestGroupSyncService_PreviewDoesNotWrite(t *testing.T) {
	f := newSyncFixture(t)
	f.addOverride(f.sourceID, "manager", []string{"payroll.view"}, nil)
	f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")
	f.addCalendar(f.sourceID, "Holidays", 2026, calendar.TypeOrg, nil, holiday(t, "2026-01-01", "New Year"))
	f.store.pto[f.sourceID] = ptoconfig.Default(f.sourceID)

	_, err := f.service.BuildPreview(f.ctx, f.sourceID, []uuid.UUID{f.targetID}, allPackages(), StrategyMerge)
	require.NoError(t, err)

	for _, o := range f.store.overrides {
		require.NotEqual(t, f.targetID, o.OrgID)
	}
	for _, at := range f.store.types {
		require.NotEqual(t, f.targetID, at.OrgID)
	}
	for _, cal := range f.store.calendars {
		require.NotEqual(t, f.targetID, cal.OrgID)
	}
	require.NotContains(t, f.store.pto, f.targetID)
	require.Equal(t, 10.0, f.store.orgs[f.targetID].AnnualPTODays)
}

func TestGroupSyncService_WarnsWhenSourceHasNoOverrides(t *testing.T) {
	f := newSyncFixture(t)

	summaries, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{PermissionOverrides: true}, StrategyMerge)
	require.NoError(t, err)

	sum := summaries[PackagePermissionOverrides]
	require.Equal(t, 0, sum.Created+sum.Updated+sum.Skipped)
	require.Equal(t, []string{"source organization has no permission overrides"}, sum.Warnings)
}

func TestGroupSyncService_ResolveGroupID(t *testing.T) {
	f := newSyncFixture(t)

	groupID, err := f.service.ResolveGroupID(f.ctx, f.sourceID)
	require.NoError(t, err)
	require.Equal(t, f.store.orgs[f.sourceID].GroupID, groupID)
	require.Equal(t, f.store.orgs[f.targetID].GroupID, groupID)

	_, err = f.service.ResolveGroupID(f.ctx, uuid.New())
	require.Error(t, err)
}

func TestGroupSyncService_LogsExecutionWithTopic(t *testing.T) {
	f := newSyncFixture(t)
	f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetLevel(logrus.InfoLevel)
	ctx := composables.WithLogger(f.ctx, logrus.NewEntry(log))

	_, err := f.service.ExecuteForTarget(ctx, f.sourceID, f.targetID, Selection{AbsenceTypes: true}, StrategyMerge)
	require.NoError(t, err)

	out := buf.String()
	require.Contains(t, out, "group sync package applied")
	require.Contains(t, out, events.TopicGroupSyncExecutedV1)
	require.Contains(t, out, f.targetID.String())
}

func TestGroupSyncService_PublishesExecutedEvent(t *testing.T) {
	f := newSyncFixture(t)
	f.addAbsenceType(f.sourceID, "SICK", "Sick Leave")

	var received *events.GroupSyncExecutedV1
	f.bus.Subscribe(func(ev *events.GroupSyncExecutedV1) {
		received = ev
	})

	_, err := f.service.ExecuteForTarget(f.ctx, f.sourceID, f.targetID, Selection{AbsenceTypes: true}, StrategyMerge)
	require.NoError(t, err)

	require.NotNil(t, received)
	require.Equal(t, f.sourceID, received.SourceOrgID)
	require.Equal(t, f.targetID, received.TargetOrgID)
	require.Equal(t, string(StrategyMerge), received.Strategy)
	require.Len(t, received.Results, 1)
	require.Equal(t, string(PackageAbsenceTypes), received.Results[0].Package)
	require.Equal(t, 1, received.Results[0].Created)
}
