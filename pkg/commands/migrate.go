package commands

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iota-uz/workforce/pkg/application"
	"github.com/iota-uz/workforce/pkg/configuration"
	"github.com/iota-uz/workforce/pkg/eventbus"
)

// newApplication connects the pool and registers the given modules. The
// caller closes the pool.
func newApplication(ctx context.Context, mods ...application.Module) (application.Application, *pgxpool.Pool, error) {
	conf := configuration.Use()
	pool, err := pgxpool.New(ctx, conf.Database.Opts)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	app := application.New(&application.ApplicationOptions{
		Pool:     pool,
		EventBus: eventbus.NewEventPublisher(conf.Logger()),
		Logger:   conf.Logger(),
	})
	for _, mod := range mods {
		if err := mod.Register(app); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to register module %s: %w", mod.Name(), err)
		}
	}
	return app, pool, nil
}

// Migrate applies the embedded schema files of every registered module.
func Migrate(mods ...application.Module) error {
	ctx := context.Background()
	app, pool, err := newApplication(ctx, mods...)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := app.Migrations().Apply(ctx); err != nil {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	configuration.Use().Logger().Info("migrations applied")
	return nil
}
