package app

import (
	"context"
	"fmt"

	"github.com/vk/socforge/internal/builder"
)

// Run executes the command selected by appConfig.
func (a *App) Run(ctx context.Context, appConfig *Config) error {
	ctx = a.context(ctx)
	a.logger.Debug("App.Run method started.", "command", appConfig.Command)

	req := builder.Request{
		System:  appConfig.System,
		Board:   appConfig.Board,
		Out:     appConfig.Out,
		Project: appConfig.Project,
	}

	switch appConfig.Command {
	case CommandBoards:
		boards, err := a.store.Boards()
		if err != nil {
			return fmt.Errorf("failed to list boards: %w", err)
		}
		if len(boards) == 0 {
			a.logger.Warn("No boards found.", "dir", a.store.BoardsDir())
		}
		for _, b := range boards {
			fmt.Fprintln(a.outW, b)
		}

	case CommandValidate:
		design, err := a.builder.Validate(ctx, req)
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		fmt.Fprintf(a.outW, "System %s is valid for board %s.\n", design.System.Name, req.Board)

	case CommandBuild:
		res, err := a.builder.Build(ctx, req)
		if err != nil {
			return fmt.Errorf("build failed: %w", err)
		}
		fmt.Fprintf(a.outW, "Built %s for board %s: %d files in %s.\n", res.Design.System.Name, req.Board, len(res.Files), req.Out)

	default:
		return fmt.Errorf("unknown command %q", appConfig.Command)
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}
