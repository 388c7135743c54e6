// Package storecmd manages the local record database the lookup service
// answers from before asking external providers.
package storecmd

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"depositimport/src/internal/app"
	"depositimport/src/internal/ident"
	"depositimport/src/internal/lookup"
	"depositimport/src/internal/sanitize"
	"depositimport/src/internal/schema"
)

// New returns the store command with its add and list subcommands.
func New(rt *app.Runtime) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "store",
		Short: "Manage locally stored records",
	}
	cmd.AddCommand(newAddCmd(rt), newListCmd(rt))
	return cmd
}

func newAddCmd(rt *app.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "add <doi|arxiv|isbn> <identifier>",
		Short: "Fetch a record from its provider and store it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, value := args[0], args[1]
			if !ident.Known(kind) {
				return errors.WithHintf(errors.Newf("unknown identifier kind %q", kind), "use one of %v", ident.Kinds)
			}
			if !ident.Valid(kind, value) {
				return errors.Newf("malformed %s %q", kind, value)
			}
			st := rt.Store()
			if e, found, err := st.FindByIdentifier(kind, value); err != nil {
				return err
			} else if found {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "already stored as %s\n", e.ID)
				return err
			}

			rt.ConfigureProviders()
			e, err := lookup.DefaultProviders()[kind].Fetch(cmd.Context(), ident.Normalize(kind, value))
			if err != nil {
				return err
			}
			sanitize.CleanEntry(&e)
			if e.ID == "" {
				e.ID = recordID(e)
			}
			p, err := st.WriteEntry(e)
			if err != nil {
				return err
			}
			if rt.Log != nil {
				rt.Log.Debug("stored record", zap.String("id", e.ID), zap.String("provider", e.Provider))
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", p)
			return err
		},
	}
}

func newListCmd(rt *app.Runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := rt.Store().ReadAll()
			if err != nil {
				return err
			}
			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("ID", "Type", "Identifier", "Title")
			for _, e := range entries {
				if err := table.Append([]string{e.ID, e.Type, firstIdentifier(e), e.Title}); err != nil {
					return err
				}
			}
			return table.Render()
		},
	}
}

// recordID is a readable slug with a random suffix so equal titles never
// collide.
func recordID(e schema.Entry) string {
	id := schema.NewID()
	if slug := schema.Slugify(e.Title, e.Year); slug != "" {
		return slug + "-" + id[:8]
	}
	return id
}

func firstIdentifier(e schema.Entry) string {
	switch {
	case e.DOI != "":
		return "doi:" + e.DOI
	case e.ArXivID != "":
		return "arxiv:" + e.ArXivID
	case e.ISBN != "":
		return "isbn:" + e.ISBN
	}
	return ""
}
