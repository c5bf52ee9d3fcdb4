package binstore

import (
	"os"

	"go.uber.org/zap"
)

// OpenOptions configures an Engine.
type OpenOptions struct {
	Git     GitBridge
	Logger  *zap.Logger
	TempDir string
}

// Option is a functional option for configuring Open.
type Option func(*OpenOptions)

func defaultOptions() *OpenOptions {
	return &OpenOptions{
		Logger:  zap.NewNop(),
		TempDir: os.TempDir(),
	}
}

// WithGit sets the version-control bridge. Defaults to the git CLI run in
// the current directory.
func WithGit(bridge GitBridge) Option {
	return func(o *OpenOptions) { o.Git = bridge }
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *OpenOptions) {
		if logger != nil {
			o.Logger = logger
		}
	}
}

// WithTempDir sets where Discard saves edited content it is about to
// destroy. Defaults to the system temp directory.
func WithTempDir(dir string) Option {
	return func(o *OpenOptions) {
		if dir != "" {
			o.TempDir = dir
		}
	}
}
