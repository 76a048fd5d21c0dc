// Package config defines the format-agnostic board configuration model for
// the build configurator, along with the Loader interface for reading it
// from disk.
//
// The model is the single source of truth for the toolchain, flash and plan
// packages. Concrete loader implementations, such as for HCL, live in
// separate packages.
package config
