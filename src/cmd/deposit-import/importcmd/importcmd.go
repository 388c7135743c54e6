// Package importcmd runs one import source against an identifier.
package importcmd

import (
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"depositimport/src/internal/app"
)

// New returns the import command.
func New(rt *app.Runtime) *cobra.Command {
	var depositionType, format string
	cmd := &cobra.Command{
		Use:   "import <source-id> <identifier>",
		Short: "Look an identifier up through an import source and print the mapped fields",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "yaml" && format != "json" {
				return errors.Newf("unknown format %q (want yaml or json)", format)
			}
			src, err := rt.ImportSource(args[0])
			if err != nil {
				return err
			}
			out, err := src.Start(cmd.Context(), args[1], depositionType).Wait()
			if err != nil {
				return errors.Wrapf(err, "import %s %s", args[0], args[1])
			}
			w := cmd.OutOrStdout()
			if format == "json" {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(out)
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			if err := enc.Encode(out); err != nil {
				return err
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVar(&depositionType, "type", "article", "deposition type (article, thesis, proceedings, book, chapter)")
	cmd.Flags().StringVar(&format, "format", "yaml", "output format: yaml or json")
	return cmd
}
