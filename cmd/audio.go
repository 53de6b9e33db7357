package cmd

import (
	"github.com/vsariola/multitrack"
	"github.com/vsariola/multitrack/config"
	"github.com/vsariola/multitrack/engine"
	"github.com/vsariola/multitrack/oto"
	"go.uber.org/zap"
)

// NewAudioContext opens the audio device. With audio disabled, the engine
// renders into a NullContext, so the transport still advances. If the device
// cannot be opened, nil is returned and the engine will fail to start.
func NewAudioContext(cfg config.AudioConfig, logger *zap.Logger) multitrack.AudioContext {
	if !cfg.Enabled {
		return engine.NullContext{SampleRate: cfg.SampleRate}
	}
	context, err := oto.NewContext(cfg.SampleRate)
	if err != nil {
		logger.Warn("could not open audio device", zap.Error(err))
		return nil
	}
	return context
}
