package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/ctxlog"
	"github.com/picoforge/picoforge/internal/flash"
	"github.com/picoforge/picoforge/internal/ldscript"
	"github.com/picoforge/picoforge/internal/plan"
	"github.com/picoforge/picoforge/internal/toolchain"
)

// buildEnvName is the flag-environment dump consumed by downstream build
// steps.
const buildEnvName = "buildenv.json"

// buildEnvFile is the serialized result of a configuration run.
type buildEnvFile struct {
	RunID    string
	Board    *config.Board
	Env      *toolchain.Env
	Layout   *flash.Layout
	LDScript string
	Steps    []*plan.Step
}

// Run executes the configuration pipeline: flag environment, USB identity,
// flash partition, linker script, and build plan. Validation happens before
// any artifact is written, so a fatal partition error leaves the build
// directory untouched.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	env := toolchain.NewEnv(a.config.FrameworkDir, a.board)
	toolchain.ConfigureUSB(ctx, env, a.board, a.config.UploadProtocol)

	fsExpr := a.board.Build.FilesystemSize
	if a.config.FilesystemSize != "" {
		fsExpr = a.config.FilesystemSize
		a.logger.Debug("Filesystem size overridden from the command line.", "expression", fsExpr)
	}

	layout, err := flash.Compute(ctx, a.board.Upload.MaximumSize, fsExpr)
	if err != nil {
		return fmt.Errorf("invalid flash partition for board %q: %w", a.board.ID, err)
	}

	// Downstream size checks must enforce the reduced sketch budget, not
	// the raw flash size.
	a.board.Upload.MaximumSize = layout.SketchMaxSize

	buildPlan, err := plan.Build(ctx, env, a.board, a.config.BuildDir)
	if err != nil {
		return fmt.Errorf("failed to assemble build plan: %w", err)
	}

	if a.board.Build.LDScript == "" {
		templatePath := filepath.Join(a.config.FrameworkDir, "lib", ldscript.DefaultName)
		subs := ldscript.Substitutions(layout, a.board.Upload.MaximumRAMSize)
		if err := ldscript.Generate(ctx, templatePath, buildPlan.LDScriptPath, subs); err != nil {
			return err
		}
	} else {
		a.logger.Info("Using custom linker script from board definition.",
			"path", a.board.Build.LDScript)
	}

	if err := a.writeBuildEnv(env, layout, buildPlan); err != nil {
		return err
	}

	a.logger.Info("Build configuration complete.",
		"board", a.board.ID,
		"run_id", buildPlan.RunID,
		"sketch_max_size", layout.SketchMaxSize,
		"build_dir", a.config.BuildDir)
	return nil
}

// writeBuildEnv serializes the finished environment, layout and plan into
// the build directory.
func (a *App) writeBuildEnv(env *toolchain.Env, layout *flash.Layout, buildPlan *plan.Plan) error {
	out := &buildEnvFile{
		RunID:    buildPlan.RunID.String(),
		Board:    a.board,
		Env:      env,
		Layout:   layout,
		LDScript: buildPlan.LDScriptPath,
		Steps:    buildPlan.Steps(),
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize build environment: %w", err)
	}

	if err := os.MkdirAll(a.config.BuildDir, 0o755); err != nil {
		return fmt.Errorf("failed to create build directory: %w", err)
	}

	path := filepath.Join(a.config.BuildDir, buildEnvName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write build environment: %w", err)
	}

	a.logger.Debug("Build environment written.", "path", path)
	return nil
}
