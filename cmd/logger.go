package cmd

import (
	"os"
	"path/filepath"

	"github.com/vsariola/multitrack/config"
	"go.uber.org/zap"
)

// NewLogger builds the logger from the config. With toFile, the logs go to
// the configured log file, or multitrack.log in the user cache directory, so
// they do not mess up the terminal view. Otherwise they go to stderr.
func NewLogger(cfg config.Config, toFile bool) (*zap.Logger, error) {
	zc := zap.NewDevelopmentConfig()
	zc.Level = zap.NewAtomicLevelAt(cfg.LogLevel())
	zc.DisableStacktrace = true
	zc.OutputPaths = []string{"stderr"}
	path := cfg.Log.File
	if toFile && path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			dir = os.TempDir()
		}
		path = filepath.Join(dir, "multitrack", "multitrack.log")
	}
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{path}
		zc.ErrorOutputPaths = []string{path}
	}
	return zc.Build()
}
