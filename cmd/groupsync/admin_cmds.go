package main

import (
	"github.com/spf13/cobra"

	"github.com/iota-uz/workforce/modules"
	"github.com/iota-uz/workforce/pkg/commands"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema of all registered modules",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.Migrate(modules.BuiltInModules...)
		},
	}
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed a demo organization group for trying out preview and run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.SeedDemo(modules.BuiltInModules...)
		},
	}
}
