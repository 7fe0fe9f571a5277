package main

import (
	"fmt"
	"io"

	"github.com/iyulab/toa-assist/internal/bridge"
	"github.com/iyulab/toa-assist/internal/config"
	"github.com/iyulab/toa-assist/internal/console"
	"github.com/spf13/cobra"
)

func newHealthCmd(stdout io.Writer, opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the bridge is up and print its cache stats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath, opts.envFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			out := console.New(stdout, cfg.Build)

			client := bridge.NewClient(cfg.Bridge.BaseURL(), cfg.Bridge.Token, cfg.Bridge.Timeout())
			stats, err := client.Health(cmd.Context())
			if err != nil {
				out.Printf("bridge indisponível em %s: %v", cfg.Bridge.BaseURL(), err)
				return console.Exit(1)
			}

			out.Printf("bridge ok | contratos=%d telefones=%d fila=%d", stats.Contracts, stats.Phones, stats.PendingLookups)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}
