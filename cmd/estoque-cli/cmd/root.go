package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"estoque/internal/app"
	"estoque/internal/backend"
	"estoque/internal/cli"
	"estoque/internal/config"
	"estoque/internal/inventory"
	"estoque/internal/local"
	"estoque/internal/session"
)

var (
	token   string
	verbose bool

	cfg     *config.Config
	stock   *app.App
	cleanup backend.CleanupFunc
)

var rootCmd = &cobra.Command{
	Use:   "estoque-cli",
	Short: "CLI for managing a stock inventory",
	Long: `estoque-cli manages the items of a stock inventory and the log of
quantity changes.

Without a token it works on the local store configured by DATA_BACKEND.
With a token (--token or API_TOKEN) every change goes to the remote API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip initialization for help commands
		if cmd.Name() == "help" || cmd.Name() == "completion" {
			return nil
		}
		return open(cmd.Context())
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if cleanup == nil {
			return nil
		}
		return cleanup()
	},
}

// Execute runs the root command
func Execute() {
	cli.LoadEnvFile()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "API token (defaults to API_TOKEN)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "V", false, "log at the configured level instead of warnings only")
}

// open loads the configuration and the session the commands work on.
func open(ctx context.Context) error {
	logger := cli.SetupLogger(slog.LevelWarn)

	cfg = config.Load()
	if token != "" {
		cfg.APIToken = token
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if verbose {
		logger = cli.SetupLogger(cfg.SlogLevel())
	}

	mode, err := session.FromToken(cfg.APIToken)
	if err != nil {
		return err
	}
	backendCfg, err := backend.FromAppConfig(cfg, mode)
	if err != nil {
		return err
	}
	result, err := backend.NewFactory(logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		return fmt.Errorf("open %s backend: %w", backendCfg.Type(), err)
	}
	cleanup = result.Cleanup

	stock = app.New(result.Backend, mode,
		app.WithScheme(inventory.IDScheme(cfg.ItemIDScheme)),
		app.WithPublisher(result.Publisher),
		app.WithLocation(cfg.Location()),
		app.WithOptionSeeds(local.ReadOptionSeeds(cfg.DataDirectory)),
	)
	return stock.Start(ctx)
}

// GetApp returns the initialized session
func GetApp() *app.App {
	return stock
}
