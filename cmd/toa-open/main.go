// Package main is the toa-open CLI: it opens the TOA web application in a
// browser so the operator can log in by hand.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/iyulab/toa-assist/internal/browser"
	"github.com/iyulab/toa-assist/internal/config"
	"github.com/iyulab/toa-assist/internal/console"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	code := execute(context.Background(), os.Args[1:], os.Stdout, os.Stderr, browser.NewLauncher(), runtime.GOOS)
	os.Exit(code)
}

func execute(ctx context.Context, args []string, stdout, stderr io.Writer, l *browser.Launcher, goos string) int {
	cmd := newRootCmd(stdout, l, goos)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return console.ExitCode(cmd.ExecuteContext(ctx), stderr)
}

func newRootCmd(stdout io.Writer, l *browser.Launcher, goos string) *cobra.Command {
	var (
		configPath string
		envFile    string
		targetURL  string
		dryRun     bool
	)

	rootCmd := &cobra.Command{
		Use:   "toa-open",
		Short: "Open TOA in a browser for manual login",
		Long: `toa-open launches Chrome (or the system browser) on the TOA address.
Login is left to the operator; the bot only runs the searches afterwards.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, envFile)
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			if cmd.Flags().Changed("url") {
				if err := config.ValidURL(targetURL); err != nil {
					return fmt.Errorf("--url: %w", err)
				}
				cfg.Browser.URL = targetURL
			}
			out := console.New(stdout, cfg.Build)
			url := cfg.Browser.URL

			if dryRun {
				for i, c := range browser.Candidates(goos, url) {
					out.Printf("%d. %s", i+1, c)
				}
				out.Printf("fallback: navegador padrão do sistema")
				return nil
			}

			if _, err := l.Open(goos, url); err != nil {
				out.Printf("não consegui abrir navegador automaticamente para %s", url)
				return console.Exit(1)
			}

			out.Printf("TOA aberto em navegador: %s", url)
			out.Printf("faça login manualmente; o bot seguirá apenas com as pesquisas")
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.Flags().StringVarP(&configPath, "config", "c", "toa.toml", "path to optional config file")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "path to optional .env file")
	rootCmd.Flags().StringVar(&targetURL, "url", "", "override the TOA address")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the commands that would be tried and exit")
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date)

	return rootCmd
}
