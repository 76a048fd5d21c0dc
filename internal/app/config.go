package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// BoardID names the board definition to configure the build for.
	BoardID string
	// BoardsPath is a manifest file or a directory of manifests.
	BoardsPath string
	// FrameworkDir is the root of the Arduino framework checkout.
	FrameworkDir string
	// BuildDir receives the generated artifacts.
	BuildDir string
	// UploadProtocol selects the upload method; picoprobe and picodebug
	// change the effective USB identity.
	UploadProtocol string
	// FilesystemSize, when set, overrides the board manifest's
	// build.filesystem_size expression.
	FilesystemSize string

	LogFormat string
	LogLevel  string
}

// NewConfig validates a Config and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.BoardID == "" {
		return nil, errors.New("BoardID is a required configuration field and cannot be empty")
	}
	if cfg.FrameworkDir == "" {
		return nil, errors.New("FrameworkDir is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
