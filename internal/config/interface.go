package config

import "context"

// Loader is the interface for a format-specific board manifest loader.
type Loader interface {
	// Load reads board definitions from the given paths. A path may be a
	// single manifest file or a directory searched recursively. Any invalid
	// manifest is a hard error: a board definition with an unparsable size
	// is a startup failure, not something to paper over.
	Load(ctx context.Context, paths ...string) ([]*Board, error)
}
