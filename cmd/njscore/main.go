// njscore inspects the builtin environment: it lists completions, resolves
// native functions to their qualified names and offers a small REPL for
// walking member chains.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"njscore/pkg/builtins"
	"njscore/pkg/config"
	"njscore/pkg/driver"
	"njscore/pkg/errors"
)

var (
	ConfigFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "Path to njscore.yaml (default: searched upwards from the working directory)",
	}
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Log level (debug|info|warn|error), overrides the config file",
	}
	OrderFlag = &cli.StringFlag{
		Name:  "order",
		Usage: "Completion order (none|collate), overrides the config file",
	}
	LocaleFlag = &cli.StringFlag{
		Name:  "locale",
		Usage: "BCP 47 locale used by collate ordering",
	}
)

var (
	completeCommand = &cli.Command{
		Name:      "complete",
		Usage:     "Lists completion candidates",
		ArgsUsage: "[prefix]",
		Flags:     []cli.Flag{OrderFlag, LocaleFlag},
		Action:    complete,
	}
	resolveCommand = &cli.Command{
		Name:      "resolve",
		Usage:     "Prints the qualified name of a builtin method",
		ArgsUsage: "<member chain>",
		Action:    resolve,
	}
	infoCommand = &cli.Command{
		Name:   "info",
		Usage:  "Shows template and instance sizes",
		Action: info,
	}
	replCommand = &cli.Command{
		Name:   "repl",
		Usage:  "Starts an interactive inspector",
		Action: repl,
	}
)

var errorColor = color.New(color.FgHiRed).SprintfFunc()

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		color.NoColor = true
	}

	app := &cli.App{
		Name:     "njscore",
		Usage:    "builtin environment inspector",
		Flags:    []cli.Flag{ConfigFlag, VerbosityFlag},
		Commands: []*cli.Command{completeCommand, resolveCommand, infoCommand, replCommand},
		Action:   repl,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, errorColor("%s", errors.Describe(err)))
		os.Exit(1)
	}
}

// loadConfig reads the --config file, or the nearest njscore.yaml, and
// applies flag overrides.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	path := ctx.String(ConfigFlag.Name)
	if path == "" {
		found, err := config.FindConfig(".")
		if err != nil {
			return nil, err
		}
		path = found
	}
	cfg := config.Default()
	if path != "" {
		var err error
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(VerbosityFlag.Name) {
		cfg.Log.Level = ctx.String(VerbosityFlag.Name)
	}
	if ctx.IsSet(OrderFlag.Name) {
		if _, ok := builtins.ParseOrder(ctx.String(OrderFlag.Name)); !ok {
			return nil, fmt.Errorf("unknown order %q", ctx.String(OrderFlag.Name))
		}
		cfg.Completions.Order = ctx.String(OrderFlag.Name)
	}
	if ctx.IsSet(LocaleFlag.Name) {
		cfg.Completions.Locale = ctx.String(LocaleFlag.Name)
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Log.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	return zc.Build()
}

// newEngine sets up logging and builds the template.
func newEngine(ctx *cli.Context) (*driver.Engine, *zap.Logger, error) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg)
	if err != nil {
		return nil, nil, err
	}
	e, err := driver.NewEngine(cfg, logger)
	if err != nil {
		logger.Sync()
		return nil, nil, err
	}
	return e, logger, nil
}
