package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/iota-uz/workforce/modules"
	"github.com/iota-uz/workforce/modules/orgsync/services"
	"github.com/iota-uz/workforce/pkg/application"
	"github.com/iota-uz/workforce/pkg/composables"
	"github.com/iota-uz/workforce/pkg/configuration"
	"github.com/iota-uz/workforce/pkg/eventbus"
)

type syncFlags struct {
	source       string
	targets      []string
	packages     []string
	strategy     string
	includeLocal bool
	mapBy        string
	ccMaps       []string
}

func (f *syncFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.source, "source", "", "source organization id (required)")
	cmd.Flags().StringSliceVar(&f.targets, "target", nil, "target organization id (repeatable, required)")
	cmd.Flags().StringSliceVar(&f.packages, "packages", []string{"permission_overrides", "absence_types", "pto_config", "calendars"}, "packages to sync")
	cmd.Flags().StringVar(&f.strategy, "strategy", "MERGE", "conflict strategy: SKIP, OVERWRITE or MERGE")
	cmd.Flags().BoolVar(&f.includeLocal, "include-local", false, "include cost-center-scoped local holiday calendars")
	cmd.Flags().StringVar(&f.mapBy, "map-by", "CODE", "cost center matching strategy: CODE or NAME")
	cmd.Flags().StringSliceVar(&f.ccMaps, "cc-map", nil, "explicit cost center mapping, format targetOrg:sourceCC=targetCC (repeatable)")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("target")
}

func (f *syncFlags) parse() (uuid.UUID, []uuid.UUID, services.Selection, services.ConflictStrategy, error) {
	var zero uuid.UUID
	sourceID, err := uuid.Parse(f.source)
	if err != nil {
		return zero, nil, services.Selection{}, "", fmt.Errorf("invalid --source: %w", err)
	}

	targetIDs := make([]uuid.UUID, 0, len(f.targets))
	for _, raw := range f.targets {
		id, err := uuid.Parse(raw)
		if err != nil {
			return zero, nil, services.Selection{}, "", fmt.Errorf("invalid --target %q: %w", raw, err)
		}
		targetIDs = append(targetIDs, id)
	}

	sel := services.Selection{
		CalendarOptions: services.CalendarOptions{
			IncludeLocal:     f.includeLocal,
			MapCostCentersBy: services.MappingMode(strings.ToUpper(f.mapBy)),
		},
	}
	for _, pkg := range f.packages {
		switch services.Package(strings.ToLower(strings.TrimSpace(pkg))) {
		case services.PackagePermissionOverrides:
			sel.PermissionOverrides = true
		case services.PackageAbsenceTypes:
			sel.AbsenceTypes = true
		case services.PackagePTOConfig:
			sel.PTOConfig = true
		case services.PackageCalendars:
			sel.Calendars = true
		default:
			return zero, nil, services.Selection{}, "", fmt.Errorf("unknown package %q", pkg)
		}
	}

	mappings, err := parseCostCenterMappings(f.ccMaps)
	if err != nil {
		return zero, nil, services.Selection{}, "", err
	}
	sel.CalendarOptions.CostCenterMappingsByOrg = mappings

	return sourceID, targetIDs, sel, services.ConflictStrategy(strings.ToUpper(f.strategy)), nil
}

func parseCostCenterMappings(raw []string) (map[uuid.UUID]map[uuid.UUID]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[uuid.UUID]map[uuid.UUID]uuid.UUID)
	for _, entry := range raw {
		orgPart, mapPart, ok := strings.Cut(entry, ":")
		if !ok {
			return nil, fmt.Errorf("invalid --cc-map %q (expected targetOrg:sourceCC=targetCC)", entry)
		}
		srcPart, dstPart, ok := strings.Cut(mapPart, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --cc-map %q (expected targetOrg:sourceCC=targetCC)", entry)
		}
		orgID, err := uuid.Parse(strings.TrimSpace(orgPart))
		if err != nil {
			return nil, fmt.Errorf("invalid --cc-map target org %q: %w", orgPart, err)
		}
		srcID, err := uuid.Parse(strings.TrimSpace(srcPart))
		if err != nil {
			return nil, fmt.Errorf("invalid --cc-map source cost center %q: %w", srcPart, err)
		}
		dstID, err := uuid.Parse(strings.TrimSpace(dstPart))
		if err != nil {
			return nil, fmt.Errorf("invalid --cc-map target cost center %q: %w", dstPart, err)
		}
		if out[orgID] == nil {
			out[orgID] = make(map[uuid.UUID]uuid.UUID)
		}
		out[orgID][srcID] = dstID
	}
	return out, nil
}

// bootstrap connects the pool, loads modules and returns a context carrying
// the pool, logger and the source organization's group plus the sync service.
// The caller closes the pool.
func bootstrap(ctx context.Context, sourceOrgID uuid.UUID) (context.Context, *pgxpool.Pool, *services.GroupSyncService, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	if err := modules.Load(app); err != nil {
		pool.Close()
		return nil, nil, nil, err
	}

	svc := app.Service(services.GroupSyncService{}).(*services.GroupSyncService)
	ctx = composables.WithPool(ctx, pool)
	ctx = composables.WithLogger(ctx, logrus.NewEntry(conf.Logger()))

	groupID, err := svc.ResolveGroupID(ctx, sourceOrgID)
	if err != nil {
		pool.Close()
		return nil, nil, nil, fmt.Errorf("failed to resolve organization group for %s: %w", sourceOrgID, err)
	}
	ctx = composables.WithGroupID(ctx, groupID)
	return ctx, pool, svc, nil
}
