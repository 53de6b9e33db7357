package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/cmd"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

type playOptions struct {
	tracks []string
	beats  float64
	dump   bool
}

func newPlayCmd(root *rootOptions) *cobra.Command {
	opts := &playOptions{}
	c := &cobra.Command{
		Use:   "play",
		Short: "Add tracks to a new song and play it without the terminal view",
		Example: `  multitrack play --track drum --track melodic --beats 8
  multitrack play --track audio --beats 0 --dump`,
		RunE: func(c *cobra.Command, args []string) error {
			cfg, err := root.load()
			if err != nil {
				return err
			}
			types := make([]multitrack.InstrumentType, len(opts.tracks))
			for i, s := range opts.tracks {
				if types[i], err = multitrack.ParseInstrumentType(s); err != nil {
					return err
				}
			}
			if opts.beats < 0 {
				return fmt.Errorf("beats should not be negative, got %v", opts.beats)
			}
			logger, err := cmd.NewLogger(cfg, false)
			if err != nil {
				return err
			}
			defer logger.Sync()
			session, err := cmd.NewSession(c.Context(), cfg, logger)
			if err != nil {
				return err
			}
			defer session.Close()
			return play(c.Context(), session, types, opts, c.OutOrStdout(), logger)
		},
	}
	c.Flags().StringSliceVarP(&opts.tracks, "track", "t", []string{"drum", "melodic"}, "track types to add, in order (drum, melodic, audio)")
	c.Flags().Float64VarP(&opts.beats, "beats", "b", 8, "how many beats to play")
	c.Flags().BoolVar(&opts.dump, "dump", false, "print the final song state as YAML")
	return c
}

// play runs the scenario on its own goroutine, which owns the model, while
// the adapter executes the effects on another.
func play(ctx context.Context, session *cmd.Session, types []multitrack.InstrumentType, opts *playOptions, out io.Writer, logger *zap.Logger) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(session.RunAdapter)
	g.Go(func() error {
		defer session.CloseAdapter(3 * time.Second)
		model := session.Model
		model.Appeared().Do()
		for _, t := range types {
			model.AddTrack(t).Do()
		}
		model.TogglePlay().Do()
		song := model.Song()
		duration := time.Duration(opts.beats * 60 / song.Tempo * float64(time.Second))
		logger.Info("playing", zap.Int("tracks", len(song.Tracks)), zap.Duration("duration", duration))
		timer := time.NewTimer(duration)
		defer timer.Stop()
	loop:
		for {
			select {
			case e := <-session.Broker.ToModel:
				model.ProcessEvent(e)
			case <-timer.C:
				break loop
			case <-ctx.Done():
				break loop
			}
		}
		model.TogglePlay().Do()
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}
	// the adapter has finished, collect what it reported last
	session.Model.ProcessPending()
	for _, a := range session.Model.Alerts().Iterate {
		logger.Warn(a.Message, zap.Stringer("priority", a.Priority))
	}
	if !opts.dump {
		return nil
	}
	enc := yaml.NewEncoder(out)
	defer enc.Close()
	return enc.Encode(session.Model.Song())
}
