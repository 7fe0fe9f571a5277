// Package main is the toa-lookup CLI: it waits for a contract to appear in
// the local TOA bridge cache.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/iyulab/toa-assist/internal/bridge"
	"github.com/iyulab/toa-assist/internal/config"
	"github.com/iyulab/toa-assist/internal/console"
	"github.com/iyulab/toa-assist/internal/lookup"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type options struct {
	configPath string
	envFile    string
	queue      bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return console.ExitCode(cmd.ExecuteContext(ctx), stderr)
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "toa-lookup <contrato>",
		Short: "Wait for a contract to show up in the local TOA bridge cache",
		Long: `toa-lookup polls the local TOA bridge for a contract number until the
browser extension has cached it, the bridge rejects the request, or the
wait time runs out.

Exit codes: 0 found, 1 bridge error or timeout, 2 invalid contract.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, stdout, opts, args)
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "toa.toml", "path to optional config file")
	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", ".env", "path to optional .env file")
	rootCmd.Flags().BoolVar(&opts.queue, "queue", false, "ask the bridge to queue the contract for the extension before polling")
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)
	rootCmd.AddCommand(newHealthCmd(stdout, opts))

	return rootCmd
}

func runLookup(cmd *cobra.Command, stdout io.Writer, opts *options, args []string) error {
	// The argument is checked before any configuration so a bad contract
	// always exits 2, whatever the state of toa.toml or the environment.
	if len(args) < 1 {
		console.New(stdout, config.BuildTag()).Printf("uso: toa-lookup <contrato>")
		return console.Exit(2)
	}
	contract, err := lookup.NormalizeContract(args[0])
	if err != nil {
		console.New(stdout, config.BuildTag()).Printf("contrato inválido: %s", args[0])
		return console.Exit(2)
	}

	cfg, err := config.Load(opts.configPath, opts.envFile)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if cmd.Flags().Changed("queue") {
		cfg.Lookup.Queue = opts.queue
	}
	out := console.New(stdout, cfg.Build)

	ctx := cmd.Context()
	client := bridge.NewClient(cfg.Bridge.BaseURL(), cfg.Bridge.Token, cfg.Bridge.Timeout())

	if cfg.Lookup.Queue {
		queued, err := client.QueueLookup(ctx, contract)
		switch {
		case err != nil:
			out.Printf("não consegui enfileirar contrato=%s: %v", contract, err)
		case queued:
			out.Printf("contrato=%s enfileirado para pesquisa no TOA", contract)
		}
	}

	poller := lookup.NewPoller(client, cfg.Lookup.Wait(), cfg.Lookup.Interval())
	match, err := poller.Poll(ctx, contract)
	if err == nil {
		out.Printf("contrato=%s encontrado no TOA cache | telefones=%d", contract, match.Phones)
		return nil
	}

	var (
		statusErr *bridge.StatusError
		unavail   *lookup.UnavailableError
	)
	switch {
	case errors.As(err, &statusErr):
		out.Printf("bridge HTTP %d para contrato=%s", statusErr.Code, contract)
	case errors.As(err, &unavail):
		out.Printf("bridge indisponível/sem retorno: %v", unavail.Err)
	case errors.Is(err, lookup.ErrNotCached):
		out.Printf("contrato=%s ainda não apareceu no cache TOA (abra TOA, pesquise o contrato e mantenha a extensão ativa)", contract)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		out.Printf("consulta interrompida para contrato=%s", contract)
	default:
		out.Printf("bridge indisponível/sem retorno: %v", err)
	}
	return console.Exit(1)
}
