package main

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/JohnnyMorganz/luau/internal/i18n"
	"github.com/JohnnyMorganz/luau/internal/lsp"
)

func newLspCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: i18n.T(i18n.CmdLspShort),
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := lsp.NewLogger(a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			server := lsp.NewServer(a.cfg, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			return server.Run(ctx)
		},
	}
}
