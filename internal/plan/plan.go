// Package plan assembles the ordered list of build steps for a firmware
// build: the framework libraries to compile, the linker script to generate,
// and the final link. Ordering is enforced through a dependency graph; the
// steps themselves are descriptions for a downstream build executor, not
// executed processes.
package plan

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/ctxlog"
	"github.com/picoforge/picoforge/internal/dag"
	"github.com/picoforge/picoforge/internal/ldscript"
	"github.com/picoforge/picoforge/internal/toolchain"
)

// DefaultBoot2Source is the second-stage bootloader assembled when a board
// does not name its own.
const DefaultBoot2Source = "boot2_generic_03h_2_padded_checksum.S"

// Kind classifies a build step.
type Kind string

const (
	// KindLibrary compiles a source directory into a static library.
	KindLibrary Kind = "library"
	// KindSources compiles a filtered set of sources into objects.
	KindSources Kind = "sources"
	// KindLinkerScript generates the linker script from its template.
	KindLinkerScript Kind = "linkerscript"
	// KindLink links the final firmware image.
	KindLink Kind = "link"
)

// Step is a single unit of downstream build work.
type Step struct {
	ID   string
	Kind Kind
	// SourceDir is the directory compiled by library and sources steps.
	SourceDir string `json:",omitempty"`
	// SourceFilter restricts a sources step, e.g. "-<*> +<boot2_xyz.S>".
	SourceFilter string `json:",omitempty"`
	Output       string
}

// Plan is the ordered set of build steps for one invocation.
type Plan struct {
	// RunID identifies this configuration run in logs and artifacts.
	RunID uuid.UUID
	// LDScriptPath is the linker script the link step must use, whether
	// generated or board-provided.
	LDScriptPath string

	steps map[string]*Step
	order []string
}

// Steps returns the build steps in dependency order.
func (p *Plan) Steps() []*Step {
	out := make([]*Step, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, p.steps[id])
	}
	return out
}

// Build assembles the build plan for a board. It also finishes the flag
// environment: the variant include path and the bootloader assembler
// include paths depend on which steps exist.
func Build(ctx context.Context, env *toolchain.Env, board *config.Board, buildDir string) (*Plan, error) {
	logger := ctxlog.FromContext(ctx)

	p := &Plan{
		RunID: uuid.New(),
		steps: make(map[string]*Step),
	}
	graph := dag.New()

	addStep := func(s *Step) {
		p.steps[s.ID] = s
		graph.AddNode(s.ID)
	}

	if variant := board.Build.Variant; variant != "" {
		variantDir := filepath.Join(env.FrameworkDir, "variants", variant)
		env.AddIncludePath(variantDir)
		addStep(&Step{
			ID:        "FrameworkArduinoVariant",
			Kind:      KindLibrary,
			SourceDir: variantDir,
			Output:    filepath.Join(buildDir, "FrameworkArduinoVariant"),
		})
	}

	addStep(&Step{
		ID:        "FrameworkArduino",
		Kind:      KindLibrary,
		SourceDir: filepath.Join(env.FrameworkDir, "cores", "rp2040"),
		Output:    filepath.Join(buildDir, "FrameworkArduino"),
	})

	boot2 := board.Build.Boot2Source
	if boot2 == "" {
		boot2 = DefaultBoot2Source
	}
	addStep(&Step{
		ID:           "FrameworkArduinoBootloader",
		Kind:         KindSources,
		SourceDir:    filepath.Join(env.FrameworkDir, "boot2"),
		SourceFilter: fmt.Sprintf("-<*> +<%s>", boot2),
		Output:       filepath.Join(buildDir, "FrameworkArduinoBootloader"),
	})
	// The boot2 assembly pulls in pico-sdk register headers.
	env.ASFlags = append(env.ASFlags,
		"-I", filepath.Join(env.FrameworkDir, "pico-sdk", "src", "rp2040", "hardware_regs", "include"),
		"-I", filepath.Join(env.FrameworkDir, "pico-sdk", "src", "common", "pico_binary_info", "include"),
	)

	if board.Build.LDScript == "" {
		p.LDScriptPath = filepath.Join(buildDir, ldscript.DefaultName)
		addStep(&Step{
			ID:     "linkerscript",
			Kind:   KindLinkerScript,
			Output: p.LDScriptPath,
		})
	} else {
		// A custom linker script is used as-is; there is nothing to generate.
		p.LDScriptPath = board.Build.LDScript
		logger.Debug("Board provides a custom linker script.", "path", p.LDScriptPath)
	}

	link := &Step{
		ID:     "link",
		Kind:   KindLink,
		Output: filepath.Join(buildDir, "firmware.elf"),
	}
	addStep(link)
	for id := range p.steps {
		if id == link.ID {
			continue
		}
		if err := graph.AddEdge(id, link.ID); err != nil {
			return nil, fmt.Errorf("failed to wire build step dependencies: %w", err)
		}
	}

	order, err := graph.TopoSort()
	if err != nil {
		return nil, fmt.Errorf("error validating build step graph: %w", err)
	}
	p.order = order

	logger.Info("Build plan assembled.", "run_id", p.RunID, "steps", len(p.order))
	return p, nil
}
