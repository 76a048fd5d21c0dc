package config

import "fmt"

// Board is the format-agnostic representation of a single board definition.
// Size attributes are resolved byte counts; only the filesystem size stays
// an expression, because its soft-failure handling belongs to the partition
// calculator rather than the loader.
type Board struct {
	ID     string
	Name   string
	Vendor string
	// HWIDs holds [VID, PID] pairs used for USB autodetection. The first
	// pair is rewritten once the effective upload identity is resolved.
	HWIDs  [][2]string
	Build  BuildOptions
	Upload UploadOptions
}

// BuildOptions carries the build-affecting attributes of a board.
type BuildOptions struct {
	FCPU    string
	Variant string
	// FilesystemSize is a size expression, default "0MB".
	FilesystemSize string
	Boot2Source    string
	// LDScript, when set, names a custom linker script; generation of the
	// default one is skipped entirely.
	LDScript string
	// ExtraFlags is the board's extra compiler flag string, already split
	// into argv form.
	ExtraFlags []string
	USB        *USBIdentity
}

// USBIdentity is an explicit USB identity for the compiled-in descriptors.
// Any field may be empty, in which case the fallback chain in the toolchain
// package applies.
type USBIdentity struct {
	VID          string
	PID          string
	Manufacturer string
	Product      string
}

// UploadOptions carries the memory budgets the uploader enforces.
type UploadOptions struct {
	// MaximumSize starts out as the total flash size in bytes and is
	// overwritten with the computed sketch budget so downstream size checks
	// enforce the reduced limit.
	MaximumSize    int64
	MaximumRAMSize int64
}

// Find returns the board with the given ID from a loaded set.
func Find(boards []*Board, id string) (*Board, error) {
	for _, b := range boards {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, fmt.Errorf("board %q not found among %d loaded board definitions", id, len(boards))
}
