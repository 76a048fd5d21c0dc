// Package flash derives the RP2040 flash partition layout: how much of the
// flash a sketch may occupy, and where the EEPROM emulation page and the
// filesystem region sit in the target's address space.
package flash

import (
	"context"
	"fmt"

	"github.com/picoforge/picoforge/internal/ctxlog"
	"github.com/picoforge/picoforge/internal/units"
)

// Base is the address at which flash is mapped into the RP2040 address
// space (start of XIP).
const Base = 0x10000000

// reservedSize is the single 4 KiB flash sector reserved at the very end of
// flash for the EEPROM emulation page.
const reservedSize = 4096

// Layout describes how a flash of a given total size is partitioned. All
// *Start/*End fields are absolute addresses; the size fields are byte
// counts. A Layout is computed once per build invocation and consumed by
// the linker script generator.
type Layout struct {
	// SketchMaxSize is the byte budget left for the compiled sketch after
	// the reserved page and the filesystem region are carved off.
	SketchMaxSize int64
	FlashLength   int64
	EEPROMStart   int64
	FSStart       int64
	FSEnd         int64
}

// OverflowError reports a filesystem region too large for the available
// flash. It is build-fatal: no partial layout exists on this path.
type OverflowError struct {
	// Available is the sketch space that would remain with the requested
	// configuration. Zero or negative.
	Available int64
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf(
		"filesystem too large for given flash: can at max be flash size - %d bytes; "+
			"available sketch size with current config would be %d bytes",
		reservedSize, e.Available)
}

// Compute derives the partition layout for a flash of flashSize total bytes
// with a trailing filesystem sized by the expression fsExpr.
//
// A malformed fsExpr does not abort the build on its own: it is logged as a
// warning and treated as 0, so that the overflow check below catches any
// real exhaustion instead of a typo producing a bogus huge sketch budget. A
// non-positive sketch budget is returned as *OverflowError and must
// terminate the build.
//
// Compute is a pure function of its inputs; calling it twice with the same
// arguments yields the same layout.
func Compute(ctx context.Context, flashSize int64, fsExpr string) (*Layout, error) {
	logger := ctxlog.FromContext(ctx)

	fsBytes, err := units.ParseSize(fsExpr)
	if err != nil {
		logger.Warn("Could not parse filesystem size expression, treating as 0.",
			"expression", fsExpr, "error", err)
		fsBytes = 0
	}

	sketchMax := flashSize - reservedSize - fsBytes
	if sketchMax <= 0 {
		return nil, &OverflowError{Available: sketchMax}
	}

	layout := &Layout{
		SketchMaxSize: sketchMax,
		FlashLength:   sketchMax,
		EEPROMStart:   Base + flashSize - reservedSize,
		FSStart:       Base + flashSize - reservedSize - fsBytes,
		// Identical to EEPROMStart: the filesystem region and the EEPROM
		// page share this boundary.
		FSEnd: Base + flashSize - reservedSize,
	}

	logger.Info("Flash partition computed.",
		"flash_size", units.FormatMB(flashSize),
		"sketch_size", units.FormatMB(sketchMax),
		"filesystem_size", units.FormatMB(fsBytes))
	logger.Debug("Partition offsets.",
		"maximum_size", layout.SketchMaxSize,
		"flash_length", layout.FlashLength,
		"eeprom_start", layout.EEPROMStart,
		"fs_start", layout.FSStart,
		"fs_end", layout.FSEnd)

	return layout, nil
}
