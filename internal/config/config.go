// Package config loads the ladder's HCL configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/lox/holdem-ladder/internal/evaluator"
	"github.com/lox/holdem-ladder/internal/ladder"
	"github.com/lox/holdem-ladder/internal/progress"
)

// Store kinds.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

const (
	defaultLogLevel  = "info"
	defaultCPUDelay  = 800 * time.Millisecond
	defaultStorePath = "holdem-ladder.json"
	defaultDBPath    = "holdem-ladder.db"
)

// Config is the complete configuration file.
type Config struct {
	// Seed of 0 asks the host to pick one.
	Seed      int64  `hcl:"seed,optional"`
	LogLevel  string `hcl:"log_level,optional"`
	LogFile   string `hcl:"log_file,optional"`
	Evaluator string `hcl:"evaluator,optional"`
	CPUDelay  string `hcl:"cpu_delay,optional"`

	Store  *StoreConfig  `hcl:"store,block"`
	Sim    *SimConfig    `hcl:"simulation,block"`
	Levels []LevelConfig `hcl:"level,block"`
}

// StoreConfig selects where progress is saved.
type StoreConfig struct {
	Kind string `hcl:"kind,optional"`
	Path string `hcl:"path,optional"`
}

// SimConfig holds defaults for batch simulation.
type SimConfig struct {
	Matches int    `hcl:"matches,optional"`
	Workers int    `hcl:"workers,optional"`
	Player  string `hcl:"player,optional"`
}

// LevelConfig is one rung of a custom blind ladder.
type LevelConfig struct {
	SmallBlind int `hcl:"small_blind"`
	BigBlind   int `hcl:"big_blind"`
	Stack      int `hcl:"stack,optional"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads filename. A missing file yields Default().
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	if diags := gohcl.DecodeBody(file.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = defaultLogLevel
	}
	if c.Evaluator == "" {
		c.Evaluator = evaluator.Default
	}
	if c.CPUDelay == "" {
		c.CPUDelay = defaultCPUDelay.String()
	}
	if c.Store == nil {
		c.Store = &StoreConfig{}
	}
	if c.Store.Kind == "" {
		c.Store.Kind = StoreFile
	}
	if c.Store.Path == "" {
		c.Store.Path = defaultStorePath
		if c.Store.Kind == StoreSQLite {
			c.Store.Path = defaultDBPath
		}
	}
	if c.Sim == nil {
		c.Sim = &SimConfig{}
	}
	if c.Sim.Matches == 0 {
		c.Sim.Matches = 100
	}
	if c.Sim.Workers == 0 {
		c.Sim.Workers = 4
	}
	if c.Sim.Player == "" {
		c.Sim.Player = "redTheRiot"
	}
	// levels without a stack start at the default 1000 chips
	for i := range c.Levels {
		if c.Levels[i].Stack == 0 {
			c.Levels[i].Stack = ladder.DefaultLadder[0].StackChips
		}
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if !slices.Contains(evaluator.Backends(), c.Evaluator) {
		return fmt.Errorf("invalid evaluator %q, want one of %v", c.Evaluator, evaluator.Backends())
	}
	d, err := time.ParseDuration(c.CPUDelay)
	if err != nil || d < 0 {
		return fmt.Errorf("invalid cpu_delay %q", c.CPUDelay)
	}
	switch c.Store.Kind {
	case StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("invalid store kind %q", c.Store.Kind)
	}
	if c.Sim.Matches < 1 {
		return fmt.Errorf("simulation matches must be positive")
	}
	if c.Sim.Workers < 1 {
		return fmt.Errorf("simulation workers must be positive")
	}
	if len(c.Levels) > 0 {
		if err := c.Ladder().Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Delay returns the CPU reveal delay.
func (c *Config) Delay() time.Duration {
	d, err := time.ParseDuration(c.CPUDelay)
	if err != nil {
		return defaultCPUDelay
	}
	return d
}

// Ladder returns the configured blind ladder, or the default one.
func (c *Config) Ladder() ladder.Ladder {
	if len(c.Levels) == 0 {
		return slices.Clone(ladder.DefaultLadder)
	}
	lad := make(ladder.Ladder, len(c.Levels))
	for i, l := range c.Levels {
		lad[i] = ladder.BlindLevel{SmallBlind: l.SmallBlind, BigBlind: l.BigBlind, StackChips: l.Stack}
	}
	return lad
}

// NewEvaluator returns the configured hand evaluator.
func (c *Config) NewEvaluator() (evaluator.Evaluator, error) {
	return evaluator.New(c.Evaluator)
}

// OpenStore opens the configured progress store. The returned close func
// must be called when done.
func (c *Config) OpenStore() (progress.Store, func() error, error) {
	switch c.Store.Kind {
	case StoreSQLite:
		db, err := progress.OpenSQLite(c.Store.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, db.Close, nil
	case StoreFile:
		return progress.NewFileStore(filepath.Clean(c.Store.Path)), func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("invalid store kind %q", c.Store.Kind)
	}
}
