package cli

import (
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/adyen/storefront-e2e/internal/config"
	"github.com/adyen/storefront-e2e/internal/report"
)

// RunFlags are the flags of the run command; each overrides its environment variable when set
func RunFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "base-url", Usage: "storefront base URL (BASE_URL)"},
		&cli.StringFlag{Name: "browser", Usage: "chromium, firefox or webkit (BROWSER)"},
		&cli.BoolFlag{Name: "headed", Usage: "show the browser window"},
		&cli.DurationFlag{Name: "timeout", Usage: "explicit wait budget (WAIT_TIMEOUT)"},
		&cli.BoolFlag{Name: "strict", Usage: "fail the run on partial results (STRICT)"},
		&cli.BoolFlag{Name: "seed", Usage: "reseed the storefront before running; wipes its store (FIXTURES_SEED)"},
		&cli.BoolFlag{Name: "no-cleanup", Usage: "leave test products in place"},
		&cli.StringSliceFlag{Name: "scenario", Aliases: []string{"s"}, Usage: "run only this scenario: name, number or slug (repeatable)"},
		VerboseFlag(),
		&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "print only the summary"},
	}
}

// VerboseFlag is shared by run and list
func VerboseFlag() cli.Flag {
	return &cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "print every step and debug logs"}
}

// ApplyFlags overlays explicitly set flags onto the loaded configuration
func ApplyFlags(c *cli.Context, e2e *config.E2EConfig, fixtures *config.FixturesConfig) error {
	if c.IsSet("base-url") {
		e2e.BaseURL = strings.TrimRight(c.String("base-url"), "/")
	}
	if c.IsSet("browser") {
		e2e.Browser = strings.ToLower(c.String("browser"))
	}
	if c.IsSet("headed") {
		e2e.Headless = !c.Bool("headed")
	}
	if c.IsSet("timeout") {
		e2e.WaitTimeout = c.Duration("timeout")
	}
	if c.IsSet("strict") {
		e2e.Strict = c.Bool("strict")
	}
	if c.IsSet("seed") {
		fixtures.Seed = c.Bool("seed")
	}
	if c.IsSet("no-cleanup") {
		fixtures.Cleanup = !c.Bool("no-cleanup")
	}
	return e2e.Validate()
}

// Verbosity maps --quiet and --verbose onto a reporter level
func Verbosity(c *cli.Context) report.Verbosity {
	switch {
	case c.Bool("verbose"):
		return report.Verbose
	case c.Bool("quiet"):
		return report.Quiet
	default:
		return report.Normal
	}
}
