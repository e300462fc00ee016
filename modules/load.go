package modules

import (
	"github.com/iota-uz/workforce/modules/orgsync"
	"github.com/iota-uz/workforce/pkg/application"
)

var (
	BuiltInModules = []application.Module{
		orgsync.NewModule(),
	}
)

func Load(app application.Application, externalModules ...application.Module) error {
	for _, module := range BuiltInModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	for _, module := range externalModules {
		if err := module.Register(app); err != nil {
			return err
		}
	}
	return nil
}
