// Package hcl provides the concrete HCL implementation of the board
// manifest loader defined in the config package. It is responsible for file
// discovery, HCL parsing, and schema-to-model translation.
package hcl

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/ctxlog"
	"github.com/picoforge/picoforge/internal/fsutil"
	"github.com/picoforge/picoforge/internal/schema"
)

// Loader is the HCL-specific implementation of config.Loader.
type Loader struct {
	parser *hclparse.Parser
}

// NewLoader creates a new HCL board manifest loader.
func NewLoader() *Loader {
	return &Loader{parser: hclparse.NewParser()}
}

// Load implements config.Loader. Each path may be a single .hcl file or a
// directory searched recursively for .hcl files.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]*config.Board, error) {
	logger := ctxlog.FromContext(ctx)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to access boards path %s: %w", path, err)
		}
		if info.IsDir() {
			found, err := fsutil.FindFilesByExtension(path, ".hcl")
			if err != nil {
				return nil, fmt.Errorf("failed to walk boards directory %s: %w", path, err)
			}
			files = append(files, found...)
		} else {
			files = append(files, path)
		}
	}
	logger.Debug("Found board manifest files.", "files", files)

	var boards []*config.Board
	for _, file := range files {
		hclFile, diags := l.parser.ParseHCLFile(file)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse board manifest %s: %w", file, diags)
		}

		var manifest schema.Manifest
		if diags := gohcl.DecodeBody(hclFile.Body, nil, &manifest); diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode board manifest %s: %w", file, diags)
		}

		for _, b := range manifest.Boards {
			board, err := translateBoard(b)
			if err != nil {
				return nil, fmt.Errorf("invalid board %q in %s: %w", b.ID, file, err)
			}
			boards = append(boards, board)
		}
		logger.Debug("Loaded board definitions from manifest.", "file", file)
	}

	logger.Info("Board manifests loaded.", "boards", len(boards))
	return boards, nil
}
