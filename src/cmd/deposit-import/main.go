package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"depositimport/src/cmd/deposit-import/importcmd"
	"depositimport/src/cmd/deposit-import/servecmd"
	"depositimport/src/cmd/deposit-import/storecmd"
	"depositimport/src/internal/app"
)

func newRootCmd() *cobra.Command {
	var configPath string
	rt := &app.Runtime{}
	root := &cobra.Command{
		Use:          "deposit-import",
		Short:        "Import deposition metadata by DOI, arXiv id or ISBN",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return rt.Load(configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ./deposit-import.yaml)")

	root.AddCommand(importcmd.New(rt))
	root.AddCommand(servecmd.New(rt))
	root.AddCommand(storecmd.New(rt))
	root.AddCommand(newSourcesCmd(rt))
	return root
}

func execute(ctx context.Context, args []string) error {
	root := newRootCmd()
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := execute(ctx, os.Args[1:]); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
