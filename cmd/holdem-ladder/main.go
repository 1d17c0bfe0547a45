package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"github.com/lox/holdem-ladder/internal/config"
)

var version = "dev"

// CLI is the root command.
type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Config   string           `short:"c" default:"holdem-ladder.hcl" type:"path" help:"Path to the HCL config file"`
	LogLevel string           `help:"Override the configured log level (debug, info, warn, error)"`
	LogFile  string           `help:"Override the configured log file"`

	Play     PlayCmd     `cmd:"" default:"1" help:"Climb the ladder in the terminal (default)"`
	Sim      SimCmd      `cmd:"" help:"Simulate CPU-vs-CPU matches"`
	Progress ProgressCmd `cmd:"" help:"Show or reset saved ladder progress"`
	Odds     OddsCmd     `cmd:"" help:"Preview the odds of a starting hand"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("holdem-ladder"),
		kong.Description("Heads-up no-limit hold'em against a ladder of CPU opponents"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": version},
	)
	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}

// loadConfig reads and validates the config file, applying flag overrides.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	if c.LogFile != "" {
		cfg.LogFile = c.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", c.Config, err)
	}
	return cfg, nil
}

// newLogger builds the process logger. The TUI owns the terminal, so with
// quiet set and no log file configured logging is discarded.
func newLogger(cfg *config.Config, quiet bool) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	switch {
	case cfg.LogFile != "":
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out = f
		closeFn = func() {
			if err := f.Close(); err != nil {
				log.Error("Failed to close log file", "error", err)
			}
		}
	case quiet:
		out = io.Discard
	}

	logger := log.NewWithOptions(out, log.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	return logger, closeFn, nil
}

// seedFor returns the configured seed, or one from the wall clock.
func seedFor(cfg *config.Config) int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}
