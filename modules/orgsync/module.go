package orgsync

import (
	"embed"

	"github.com/iota-uz/workforce/modules/orgsync/infrastructure/persistence"
	"github.com/iota-uz/workforce/modules/orgsync/services"
	"github.com/iota-uz/workforce/pkg/application"
)

//go:embed infrastructure/persistence/schema/orgsync-schema.sql
var MigrationFiles embed.FS

func NewModule() application.Module {
	return &Module{}
}

type Module struct {
}

func (m *Module) Register(app application.Application) error {
	app.Migrations().RegisterSchema(&MigrationFiles)
	app.RegisterServices(
		services.NewGroupSyncService(services.GroupSyncRepos{
			Orgs:         persistence.NewOrganizationRepository(),
			CostCenters:  persistence.NewCostCenterRepository(),
			Overrides:    persistence.NewPermissionOverrideRepository(),
			AbsenceTypes: persistence.NewAbsenceTypeRepository(),
			PTOConfigs:   persistence.NewPTOConfigRepository(),
			Calendars:    persistence.NewCalendarRepository(),
		}, app.EventPublisher()),
	)
	return nil
}

func (m *Module) Name() string {
	return "orgsync"
}
