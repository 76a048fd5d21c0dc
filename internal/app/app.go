package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/picoforge/picoforge/internal/config"
	"github.com/picoforge/picoforge/internal/ctxlog"
)

// App encapsulates the configurator's dependencies, configuration, and
// lifecycle.
type App struct {
	outW   io.Writer
	logger *slog.Logger
	config *Config
	board  *config.Board
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and the selected
// board definition already loaded and validated.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	boards, err := loader.Load(ctx, appConfig.BoardsPath)
	if err != nil {
		// A failure to load board manifests is a fatal startup error.
		panic(fmt.Errorf("failed to load board manifests: %w", err))
	}

	board, err := config.Find(boards, appConfig.BoardID)
	if err != nil {
		panic(err)
	}
	logger.Debug("Board definition selected.", "board", board.ID)

	return &App{
		outW:   outW,
		logger: logger,
		config: appConfig,
		board:  board,
	}
}

// Board returns the selected board definition. This is primarily for
// testing.
func (a *App) Board() *config.Board {
	return a.board
}
