package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/socforge/internal/builder"
	"github.com/vk/socforge/internal/config"
	"github.com/vk/socforge/internal/ctxlog"
	"github.com/vk/socforge/internal/registry"
	"github.com/vk/socforge/internal/schema"
	"github.com/vk/socforge/internal/store"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	registry *registry.Registry
	store    *store.Store
	builder  *builder.Builder
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger and registry.
// With no modules, the core evaluators are registered.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader, modules ...registry.Module) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	validator, err := schema.New()
	if err != nil {
		// The schema is embedded, so this is a programmer error.
		panic(fmt.Errorf("failed to compile schema: %w", err))
	}

	reg := registry.New()
	if len(modules) == 0 {
		modules = coreModules
	}
	for _, mod := range modules {
		mod.Register(reg)
	}
	logger.Debug("All evaluator modules registered.", "count", len(modules), "module_types", reg.Types())

	st := store.New(appConfig.Root, loader, validator)
	return &App{
		outW:     outW,
		logger:   logger,
		registry: reg,
		store:    st,
		builder:  builder.New(st, reg),
	}
}

// Registry returns the application's registry. This is primarily for testing.
func (a *App) Registry() *registry.Registry {
	return a.registry
}

// Logger returns the application's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
