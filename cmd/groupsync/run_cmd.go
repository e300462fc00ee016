package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	flags := &syncFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Execute the sync against each target organization",
		RunE: func(cmd *cobra.Command, args []string) error {
			sourceID, targetIDs, sel, strategy, err := flags.parse()
			if err != nil {
				return err
			}

			ctx, pool, svc, err := bootstrap(cmd.Context(), sourceID)
			if err != nil {
				return err
			}
			defer pool.Close()

			// Targets are independent: a failed target is reported and the
			// rest still run.
			failures := 0
			for _, targetID := range targetIDs {
				summaries, err := svc.ExecuteForTarget(ctx, sourceID, targetID, sel, strategy)
				if err != nil {
					failures++
					fmt.Fprintf(cmd.ErrOrStderr(), "target %s: sync failed: %v\n", targetID, err)
					continue
				}
				for _, pkg := range sortedPackages(summaries) {
					sum := summaries[pkg]
					fmt.Fprintf(cmd.OutOrStdout(), "target %s: %s created=%d updated=%d skipped=%d warnings=%d\n",
						targetID, pkg, sum.Created, sum.Updated, sum.Skipped, len(sum.Warnings))
					for _, warning := range sum.Warnings {
						fmt.Fprintf(cmd.OutOrStdout(), "  warning: %s\n", warning)
					}
				}
			}
			if failures > 0 {
				return fmt.Errorf("%d of %d targets failed", failures, len(targetIDs))
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
