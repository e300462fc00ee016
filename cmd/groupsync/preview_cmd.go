package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iota-uz/workforce/modules/orgsync/services"
)

func newPreviewCmd() *cobra.Command {
	flags := &syncFlags{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show what a sync would do without writing anything",
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

			previews, err := svc.BuildPreview(ctx, sourceID, targetIDs, sel, strategy)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tPACKAGE\tCREATE\tUPDATE\tSKIP\tWARNINGS")
			for _, preview := range previews {
				for _, pkg := range sortedPackages(preview.Summaries) {
					sum := preview.Summaries[pkg]
					fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\n",
						preview.TargetOrgName, pkg, sum.Created, sum.Updated, sum.Skipped, len(sum.Warnings))
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}

			for _, preview := range previews {
				for _, pkg := range sortedPackages(preview.Summaries) {
					for _, warning := range preview.Summaries[pkg].Warnings {
						fmt.Fprintf(cmd.OutOrStdout(), "warning [%s/%s]: %s\n", preview.TargetOrgName, pkg, warning)
					}
				}
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func sortedPackages(summaries map[services.Package]*services.PackageSummary) []services.Package {
	pkgs := make([]services.Package, 0, len(summaries))
	for pkg := range summaries {
		pkgs = append(pkgs, pkg)
	}
	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i] < pkgs[j] })
	return pkgs
}
