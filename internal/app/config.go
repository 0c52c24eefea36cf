package app

import (
	"errors"
	"fmt"
	"slices"
)

// Commands the app can run.
const (
	CommandBuild    = "build"
	CommandValidate = "validate"
	CommandBoards   = "boards"
)

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Command string
	Root    string // library root containing fpga/
	System  string // system document or its directory
	Board   string
	Out     string
	Project bool

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Root == "" {
		return nil, errors.New("root is a required configuration field and cannot be empty")
	}

	switch cfg.Command {
	case CommandBuild:
		if cfg.Out == "" {
			return nil, errors.New("out is required for build")
		}
		fallthrough
	case CommandValidate:
		if cfg.System == "" {
			return nil, fmt.Errorf("system is required for %s", cfg.Command)
		}
		if cfg.Board == "" {
			return nil, fmt.Errorf("board is required for %s", cfg.Command)
		}
	case CommandBoards:
	default:
		return nil, fmt.Errorf("unknown command %q", cfg.Command)
	}

	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be one of %v", cfg.LogLevel, logLevels)
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be one of %v", cfg.LogFormat, logFormats)
	}
	return &cfg, nil
}
