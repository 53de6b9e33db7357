package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/config"
	"github.com/vsariola/multitrack/engine"
	"github.com/vsariola/multitrack/tracker"
	"go.uber.org/zap"
)

// Session wires the store, the adapter and the engine of one song.
type Session struct {
	Broker  *tracker.Broker
	Model   *tracker.Model
	Adapter *tracker.Adapter
	Engine  *engine.Engine

	audio  multitrack.AudioContext
	logger *zap.Logger
}

func NewSession(ctx context.Context, cfg config.Config, logger *zap.Logger) (*Session, error) {
	reducer, err := tracker.NewReducer(cfg.Reducer())
	if err != nil {
		return nil, err
	}
	resources := cfg.NewResources()
	if err := resources.Preload(ctx); err != nil {
		logger.Warn("some resources failed to load", zap.Error(err))
	}
	audio := NewAudioContext(cfg.Audio, logger)
	eng := engine.New(audio, cfg.Audio.SampleRate, logger.Named("engine"))
	logger.Debug("engine created", zap.Int("sampleRate", eng.SampleRate()), zap.Bool("output", audio != nil))
	broker := tracker.NewBroker(cfg.QueueSize)
	song := multitrack.NewSong(cfg.Song.Tempo, cfg.Song.Length)
	return &Session{
		Broker:  broker,
		Model:   tracker.NewModel(broker, reducer, song),
		Adapter: tracker.NewAdapter(eng, resources, logger.Named("adapter")),
		Engine:  eng,
		audio:   audio,
		logger:  logger,
	}, nil
}

// RunAdapter runs the adapter until CloseAdapter is called.
func (s *Session) RunAdapter() error {
	s.Adapter.Run(s.Broker)
	return nil
}

// CloseAdapter asks the adapter to finish the queued effects and return, and
// waits for it at most timeout.
func (s *Session) CloseAdapter(timeout time.Duration) error {
	tracker.TrySend(s.Broker.CloseEngine, struct{}{})
	select {
	case <-s.Broker.FinishedEngine:
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("adapter did not finish in %v", timeout)
	}
}

// Close stops the engine output and closes the audio device.
func (s *Session) Close() error {
	if err := s.Engine.Stop(); err != nil {
		return err
	}
	if s.audio != nil {
		return s.audio.Close()
	}
	return nil
}
