// Package schema defines the HCL structures for board manifest files. These
// structs mirror the on-disk format; the hcl package translates them into
// the format-agnostic model in the config package.
package schema

// Manifest is the top-level structure of a board manifest file, containing
// one or more board definitions.
type Manifest struct {
	Boards []*Board `hcl:"board,block"`
}

// Board represents a `board "<id>" { ... }` block. Size-typed attributes
// (flash, RAM) are size expressions such as "2MB" or "264K" and are
// resolved to byte counts during translation.
type Board struct {
	ID     string     `hcl:"id,label"`
	Name   string     `hcl:"name"`
	Vendor string     `hcl:"vendor,optional"`
	HWIDs  [][]string `hcl:"hwids,optional"`
	Build  *Build     `hcl:"build,block"`
	Upload *Upload    `hcl:"upload,block"`
}

// Build represents the `build` block of a board definition.
type Build struct {
	FCPU           string `hcl:"f_cpu,optional"`
	Variant        string `hcl:"variant,optional"`
	FilesystemSize string `hcl:"filesystem_size,optional"`
	Boot2Source    string `hcl:"boot2_source,optional"`
	LDScript       string `hcl:"ldscript,optional"`
	ExtraFlags     string `hcl:"extra_flags,optional"`
	USB            *USB   `hcl:"usb,block"`
}

// USB represents the optional `usb` block carrying an explicit USB identity
// for the compiled-in descriptors.
type USB struct {
	VID          string `hcl:"vid,optional"`
	PID          string `hcl:"pid,optional"`
	Manufacturer string `hcl:"manufacturer,optional"`
	Product      string `hcl:"product,optional"`
}

// Upload represents the `upload` block. maximum_size is the total flash
// size; it is reduced to the computed sketch budget once the partition
// layout is known.
type Upload struct {
	MaximumSize    string `hcl:"maximum_size"`
	MaximumRAMSize string `hcl:"maximum_ram_size"`
}
