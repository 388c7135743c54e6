package main

import (
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"depositimport/src/internal/app"
)

func newSourcesCmd(rt *app.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List configured import sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("ID", "Name", "URL", "Mapping")
			for _, s := range rt.Config.Sources {
				mapping := s.Mapping
				if mapping == "" {
					mapping = "(built-in)"
				}
				if err := table.Append([]string{s.ID, s.Name, s.URL, mapping}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}
