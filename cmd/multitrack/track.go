package main

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vsariola/multitrack/cmd"
	"github.com/vsariola/multitrack/tracker/tui"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// runTracker runs the terminal view and the adapter until the user quits.
func runTracker(ctx context.Context, opts *rootOptions) error {
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	logger, err := cmd.NewLogger(cfg, true)
	if err != nil {
		return err
	}
	defer logger.Sync()
	session, err := cmd.NewSession(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer session.Close()
	g, ctx := errgroup.WithContext(ctx)
	g.Go(session.RunAdapter)
	g.Go(func() error {
		defer session.CloseAdapter(3 * time.Second)
		program := tea.NewProgram(tui.New(session.Model), tea.WithAltScreen(), tea.WithContext(ctx))
		_, err := program.Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
	err = g.Wait()
	logger.Info("tracker closed", zap.Error(err))
	return err
}
