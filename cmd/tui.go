package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/moviehub/internal/shared"
	"github.com/desertthunder/moviehub/internal/tasks"
	"github.com/desertthunder/moviehub/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing and reviewing movies.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.movies == nil {
		return fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	order, err := tasks.ParseSortOrder(r.config.UI.Sort)
	if err != nil {
		return err
	}

	offline := cmd.Bool("offline")
	if offline {
		if _, err := r.openDatabase(ctx); err != nil {
			return err
		}
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	logFile, err := shared.OpenLogFile(cmd.String("log-file"))
	if err != nil {
		return err
	}
	defer logFile.Close()
	r.logger.SetOutput(logFile)

	model := ui.NewModel(ctx, r.engine, ui.Options{
		Mode:    ui.ParseDisplayMode(r.config.UI.DisplayMode),
		Sort:    order,
		Offline: offline,
		Logger:  shared.WithLogger(r.logger, "component", "tui"),
	})
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
