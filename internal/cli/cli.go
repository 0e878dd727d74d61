package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"terrasim/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	cfg := app.NewConfig()
	flagSet := flag.NewFlagSet("terrasim", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
terrasim - erodes a height field and extracts its drainage network.

Usage:
  terrasim [options] [PIPELINE_FILE]

Arguments:
  PIPELINE_FILE
    Optional HCL file describing the stages to run. Without one the
    default plan runs on a generated noise field.

Options:
`)
		flagSet.PrintDefaults()
	}
	cfg.Bind(flagSet)

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	if cfg.ConfigPath == "" && flagSet.NArg() > 0 {
		cfg.ConfigPath = flagSet.Arg(0)
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("unexpected arguments: %s", strings.Join(flagSet.Args()[1:], " "))}
	}

	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid size %dx%d: width and height must be positive", cfg.Width, cfg.Height)}
	}
	for _, kv := range cfg.Overrides {
		if !strings.Contains(kv, "=") {
			return nil, false, &ExitError{Code: 2, Message: fmt.Sprintf("invalid -set %q: expected key=value", kv)}
		}
	}
	slog.Debug("CLI parameter validation complete.")

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}
