package app

import (
	"io"
	"log/slog"
)

// logLevels maps the -log-level flag values to slog levels. Anything
// unrecognized falls back to info so a typo never silences diagnostics.
var logLevels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// newLogger builds the logger the configurator threads through its run. It
// never touches the slog default, so each App keeps its own isolated logger
// and tests can capture output per instance. The format follows the
// -log-format flag: "json" for machine consumption by the invoking build
// system, text otherwise.
func newLogger(levelStr, formatStr string, outW io.Writer) *slog.Logger {
	level, ok := logLevels[levelStr]
	if !ok {
		level = slog.LevelInfo
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler

	if formatStr == "json" {
		handler = slog.NewJSONHandler(outW, handlerOpts)
	} else {
		handler = slog.NewTextHandler(outW, handlerOpts)
	}

	return slog.New(handler)
}
