package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/httpjpg/httpjpg"
)

var configPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	Long: `Loads the YAML config (if present), applies environment overrides
and serves until SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&configPath, "config", "c", httpjpg.EnvOr("HTTPJPG_CONFIG", "httpjpg.yaml"),
		"path to the YAML config file (env HTTPJPG_CONFIG)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := httpjpg.LoadConfig(configPath)
	if err != nil {
		return err
	}

	app := httpjpg.New(cfg)
	defer app.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Start(ctx)
}

