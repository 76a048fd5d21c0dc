// Package toolchain assembles the compiler, assembler and linker flag
// environment for an RP2040 Arduino-framework build, and resolves the USB
// identity compiled into the firmware. The environment is an explicit
// struct handed between pipeline stages; nothing here mutates ambient
// state.
package toolchain

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/picoforge/picoforge/internal/config"
)

// defaultFCPU is the stock RP2040 system clock, used when a board manifest
// does not pin its own.
const defaultFCPU = "133000000L"

// SizeProgRegexp matches the program sections counted towards the sketch
// size, including the boot2 second-stage bootloader.
const SizeProgRegexp = `^(?:\.boot2|\.text|\.data|\.rodata|\.text.align|\.ARM.exidx)\s+(\d+).*`

// Define is a single preprocessor define. Value is empty for bare defines
// such as NO_USB.
type Define struct {
	Name  string
	Value string
}

// Env is the explicit build environment consumed by the plan package and
// serialized for downstream build steps.
type Env struct {
	FrameworkDir string

	ASFlags       []string
	CCFlags       []string
	CFlags        []string
	CXXFlags      []string
	CPPDefines    []Define
	CPPPath       []string
	LinkFlags     []string
	LibSourceDirs []string
	LibPaths      []string
	Libs          []string

	SizeProgRegexp string
}

// NewEnv assembles the baseline flag environment for the given board on top
// of a framework checkout. The board's extra_flags are applied last so a
// manifest can both add defines (e.g. -DUSE_TINYUSB) and append plain
// compiler flags.
func NewEnv(frameworkDir string, board *config.Board) *Env {
	fcpu := board.Build.FCPU
	if fcpu == "" {
		fcpu = defaultFCPU
	}

	env := &Env{
		FrameworkDir: frameworkDir,
		CCFlags: []string{
			"-Werror=return-type",
			"-march=armv6-m",
			"-mcpu=cortex-m0plus",
			"-mthumb",
			"-ffunction-sections",
			"-fdata-sections",
			"-fno-exceptions",
			"-fno-rtti",
			"-iprefix" + frameworkDir,
			"@" + filepath.Join(frameworkDir, "lib", "platform_inc.txt"),
		},
		CFlags:   []string{"-std=gnu17"},
		CXXFlags: []string{"-std=gnu++17"},
		CPPDefines: []Define{
			{Name: "ARDUINO", Value: "10810"},
			{Name: "ARDUINO_ARCH_RP2040"},
			{Name: "F_CPU", Value: fcpu},
			{Name: "BOARD_NAME", Value: strconv.Quote(board.ID)},
		},
		CPPPath: []string{
			filepath.Join(frameworkDir, "cores", "rp2040"),
			filepath.Join(frameworkDir, "cores", "rp2040", "api", "deprecated"),
			filepath.Join(frameworkDir, "cores", "rp2040", "api", "deprecated-avr-comp"),
		},
		LinkFlags: []string{
			"-march=armv6-m",
			"-mcpu=cortex-m0plus",
			"-mthumb",
			"@" + filepath.Join(frameworkDir, "lib", "platform_wrap.txt"),
			"-u_printf_float",
			"-u_scanf_float",
			"-Wl,--check-sections",
			"-Wl,--gc-sections",
			"-Wl,--unresolved-symbols=report-all",
			"-Wl,--warn-common",
		},
		LibSourceDirs:  []string{filepath.Join(frameworkDir, "libraries")},
		LibPaths:       []string{filepath.Join(frameworkDir, "lib")},
		Libs:           []string{"pico", "m", "c", "stdc++", "c"},
		SizeProgRegexp: SizeProgRegexp,
	}

	for _, flag := range board.Build.ExtraFlags {
		if name, ok := strings.CutPrefix(flag, "-D"); ok {
			name, value, _ := strings.Cut(name, "=")
			env.AddDefine(name, value)
			continue
		}
		env.CCFlags = append(env.CCFlags, flag)
	}

	// Assembly shares the C compiler flags; the plan adds its own include
	// dirs for the bootloader sources.
	env.ASFlags = append([]string(nil), env.CCFlags...)

	return env
}

// AddDefine appends a preprocessor define.
func (e *Env) AddDefine(name, value string) {
	e.CPPDefines = append(e.CPPDefines, Define{Name: name, Value: value})
}

// HasDefine reports whether a define with the given name is present,
// regardless of its value.
func (e *Env) HasDefine(name string) bool {
	for _, d := range e.CPPDefines {
		if d.Name == name {
			return true
		}
	}
	return false
}

// AddIncludePath appends directories to the preprocessor include path.
func (e *Env) AddIncludePath(dirs ...string) {
	e.CPPPath = append(e.CPPPath, dirs...)
}
