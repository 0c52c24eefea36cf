package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/socforge/internal/app"
	"github.com/vk/socforge/internal/cli"
	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/hcl"
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/internal/toml"
	"github.com/vk/socforge/internal/yaml"
)

// main is the entrypoint for the socforge application.
func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})))

	// The real main function handles errors and exit codes.
	if err := run(os.Stdout, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error
// handling. modules replaces the core evaluators when given.
func run(outW io.Writer, args []string, modules ...registry.Module) (err error) {
	appConfig, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	// The app panics on programmer errors such as a duplicate evaluator, so
	// we recover here to return a clean error instead.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("application startup panicked: %v", r)
		}
	}()

	// TOML first: it is the format the library documents ship in.
	loader := config.NewMultiLoader(toml.NewLoader(), hcl.NewLoader(), yaml.NewLoader())
	socforgeApp := app.NewApp(outW, appConfig, loader, modules...)

	return socforgeApp.Run(context.Background(), appConfig)
}
