// Package ldscript generates the linker script for a build by substituting
// the computed memory-layout values into the framework's template.
package ldscript

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/picoforge/picoforge/internal/ctxlog"
	"github.com/picoforge/picoforge/internal/flash"
)

// DefaultName is the file name of the generated linker script inside the
// build directory, matching the template name in the framework's lib dir.
const DefaultName = "memmap_default.ld"

// Substitutions builds the placeholder table for the linker script
// template. Memory offsets are rendered as decimal integers; the RAM length
// uses the linker's "k" suffix.
func Substitutions(layout *flash.Layout, ramSize int64) map[string]string {
	return map[string]string{
		"__FLASH_LENGTH__": strconv.FormatInt(layout.FlashLength, 10),
		"__EEPROM_START__": strconv.FormatInt(layout.EEPROMStart, 10),
		"__FS_START__":     strconv.FormatInt(layout.FSStart, 10),
		"__FS_END__":       strconv.FormatInt(layout.FSEnd, 10),
		"__RAM_LENGTH__":   fmt.Sprintf("%dk", ramSize/1024),
	}
}

// Render replaces every occurrence of each placeholder in the template.
// Placeholders are applied in sorted order so rendering is deterministic.
func Render(template []byte, subs map[string]string) []byte {
	keys := make([]string, 0, len(subs))
	for k := range subs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := template
	for _, k := range keys {
		out = bytes.ReplaceAll(out, []byte(k), []byte(subs[k]))
	}
	return out
}

// Generate renders the template at templatePath into outPath. The output
// file must exist before the downstream link step runs; that ordering is
// enforced by the build plan.
func Generate(ctx context.Context, templatePath, outPath string, subs map[string]string) error {
	logger := ctxlog.FromContext(ctx)

	template, err := os.ReadFile(templatePath)
	if err != nil {
		return fmt.Errorf("failed to read linker script template: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}
	if err := os.WriteFile(outPath, Render(template, subs), 0o644); err != nil {
		return fmt.Errorf("failed to write linker script: %w", err)
	}

	logger.Info("Generated linker script.", "path", outPath)
	return nil
}
