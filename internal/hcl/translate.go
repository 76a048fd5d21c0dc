// This file contains the logic for translating HCL schema structs into the
// format-agnostic board model defined in the config package.

package hcl

import (
	"fmt"

	"github.com/google/shlex"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/schema"
	"github.com/picoforge/picoforge/internal/units"
)

// translateBoard converts an HCL board schema into the agnostic model,
// resolving size expressions to byte counts and splitting the extra flag
// string into argv form.
func translateBoard(s *schema.Board) (*config.Board, error) {
	if s.Upload == nil {
		return nil, fmt.Errorf("missing required upload block")
	}

	flashSize, err := units.ParseSize(s.Upload.MaximumSize)
	if err != nil {
		return nil, fmt.Errorf("invalid upload.maximum_size: %w", err)
	}
	ramSize, err := units.ParseSize(s.Upload.MaximumRAMSize)
	if err != nil {
		return nil, fmt.Errorf("invalid upload.maximum_ram_size: %w", err)
	}

	board := &config.Board{
		ID:     s.ID,
		Name:   s.Name,
		Vendor: s.Vendor,
		Upload: config.UploadOptions{
			MaximumSize:    flashSize,
			MaximumRAMSize: ramSize,
		},
	}

	for _, pair := range s.HWIDs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("hwids entries must be [vid, pid] pairs, got %d elements", len(pair))
		}
		board.HWIDs = append(board.HWIDs, [2]string{pair[0], pair[1]})
	}

	board.Build = config.BuildOptions{FilesystemSize: "0MB"}
	if s.Build != nil {
		board.Build.FCPU = s.Build.FCPU
		board.Build.Variant = s.Build.Variant
		board.Build.Boot2Source = s.Build.Boot2Source
		board.Build.LDScript = s.Build.LDScript
		if s.Build.FilesystemSize != "" {
			board.Build.FilesystemSize = s.Build.FilesystemSize
		}
		if s.Build.ExtraFlags != "" {
			flags, err := shlex.Split(s.Build.ExtraFlags)
			if err != nil {
				return nil, fmt.Errorf("invalid build.extra_flags: %w", err)
			}
			board.Build.ExtraFlags = flags
		}
		if s.Build.USB != nil {
			board.Build.USB = &config.USBIdentity{
				VID:          s.Build.USB.VID,
				PID:          s.Build.USB.PID,
				Manufacturer: s.Build.USB.Manufacturer,
				Product:      s.Build.USB.Product,
			}
		}
	}

	return board, nil
}
