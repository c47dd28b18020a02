package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"budgettracker/internal/app"
	"budgettracker/internal/cli"
	"budgettracker/internal/core"
)

var (
	flagBackend  string
	flagDBPath   string
	flagLogLevel string
	flagQuiet    bool
)

// rt is set up before every subcommand and released after it.
var rt *cli.Runtime

var rootCmd = &cobra.Command{
	Use:   "budgetctl",
	Short: "Personal budget tracker CLI",
	Long:  "Track expenses against a monthly budget and keep an eye on upcoming bills.",
	RunE:  runDashboard,

	PersistentPreRunE:  setupRuntime,
	PersistentPostRunE: closeRuntime,
	SilenceUsage:       true,
}

// Execute is the entry point called from main.
func Execute() {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	closeRuntime(rootCmd, nil)
	if err != nil {
		stop()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "Data backend (memory|sqlite), overrides DATA_BACKEND")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "SQLite database path, overrides SQLITE_DB_PATH")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress notifications")
}

func setupRuntime(cmd *cobra.Command, _ []string) error {
	cli.LoadEnvFile()
	if flagBackend != "" {
		os.Setenv("DATA_BACKEND", flagBackend)
	}
	if flagDBPath != "" {
		os.Setenv("SQLITE_DB_PATH", flagDBPath)
	}
	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		return err
	}
	logger := cli.SetupLogger(flagLogLevel, os.Stderr)

	rt, err = cli.Bootstrap(cmd.Context(), cfg, logger)
	return err
}

// closeRuntime is also called after a failed command, when cobra skips the
// post-run hooks.
func closeRuntime(_ *cobra.Command, _ []string) error {
	if rt == nil {
		return nil
	}
	err := rt.Close()
	rt = nil
	return err
}

// dispatch runs intent and prints its notification. Validation failures are
// reported with the command's message.
func dispatch(ctx context.Context, out io.Writer, intent app.Intent, in app.Input) (app.Result, error) {
	res, err := rt.Controller.Dispatch(ctx, intent, in)
	if err != nil {
		if core.IsValidation(err) {
			cmd, _ := app.LookupCommand(intent)
			fmt.Fprintln(out, cli.RenderNotification(app.Notification{Kind: app.NotifyError, Message: cmd.Invalid}))
		}
		return app.Result{}, err
	}
	if !flagQuiet {
		fmt.Fprintln(out, cli.RenderNotification(res.Notification))
	}
	return res, nil
}
