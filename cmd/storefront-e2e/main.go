package main

import (
	"fmt"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/adyen/storefront-e2e/internal/browser"
	internalcli "github.com/adyen/storefront-e2e/internal/cli"
	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/report"
	"github.com/adyen/storefront-e2e/internal/runner"
	"github.com/adyen/storefront-e2e/internal/scenario"
	"github.com/adyen/storefront-e2e/internal/services"
)

var version = "0.1.0"

// buildRunDependencies loads configuration and creates everything a run needs
// except the browser sessions
func buildRunDependencies(c *cli.Context) (internalcli.RunDependencies, error) {
	var deps internalcli.RunDependencies

	e2eConfig, err := config.LoadE2EConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid run configuration: %w", err)
	}
	fixturesConfig, err := config.LoadFixturesConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("invalid fixtures configuration: %w", err)
	}
	if err := internalcli.ApplyFlags(c, e2eConfig, fixturesConfig); err != nil {
		return deps, fmt.Errorf("invalid flags: %w", err)
	}
	deps.E2EConfig = e2eConfig
	deps.FixturesConfig = fixturesConfig

	credentials, err := config.LoadCredentialsConfig(os.Getenv)
	if err != nil {
		return deps, fmt.Errorf("missing account credentials: %w", err)
	}
	deps.Credentials = credentials

	scenarios, err := scenario.Select(c.StringSlice("scenario"))
	if err != nil {
		return deps, err
	}
	deps.Scenarios = scenarios

	deps.RunID = uuid.NewString()
	logger, err := internalcli.NewLogger(c.Bool("verbose"), deps.RunID)
	if err != nil {
		return deps, err
	}
	deps.Logger = logger

	client := services.NewStorefrontClient(e2eConfig.BaseURL, fixturesConfig.APITimeout)
	deps.FixtureService = services.NewFixtureService(client, fixturesConfig, credentials, logger)

	deps.Reporter = report.New(os.Stdout, internalcli.Verbosity(c), !color.NoColor)
	return deps, nil
}

// RunCommand returns the run command
func RunCommand() *cli.Command {
	return &cli.Command{
		Name:  "run",
		Usage: "Run the storefront scenarios against BASE_URL",
		Flags: internalcli.RunFlags(),
		Action: func(c *cli.Context) error {
			deps, err := buildRunDependencies(c)
			if err != nil {
				return err
			}
			defer func() { _ = deps.Logger.Sync() }()

			manager := browser.NewManager(deps.E2EConfig, deps.Logger)
			if err := manager.Start(); err != nil {
				return err
			}
			defer func() {
				if err := manager.Stop(); err != nil {
					deps.Logger.Warn("failed to stop playwright", zap.Error(err))
				}
			}()
			deps.Sessions = runner.BrowserProvider{Manager: manager}

			ctx, stop := internalcli.SignalContext(c.Context)
			defer stop()
			return internalcli.Run(ctx, deps)
		},
	}
}

// ListCommand returns the list command
func ListCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "List the available scenarios",
		Flags: []cli.Flag{internalcli.VerboseFlag()},
		Action: func(c *cli.Context) error {
			internalcli.List(os.Stdout, scenario.All(), c.Bool("verbose"))
			return nil
		},
	}
}

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	app := &cli.App{
		Name:    "storefront-e2e",
		Usage:   "Browser end-to-end checks for the storefront",
		Version: version,
		Commands: []*cli.Command{
			RunCommand(),
			ListCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
