package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/picoforge/picoforge/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	flagSet := flag.NewFlagSet("picoforge", flag.ContinueOnError)
	flagSet.SetOutput(output)

	// Custom usage/help text function
	flagSet.Usage = func() {
		fmt.Fprint(output, `
picoforge - build configurator for Arduino-framework RP2040 firmware.

Usage:
  picoforge [options] [BOARD]

Arguments:
  BOARD
    ID of a board defined in the boards path.

Options:
`)
		flagSet.PrintDefaults()
	}

	boardFlag := flagSet.String("board", "", "ID of the board to configure the build for.")
	boardsPathFlag := flagSet.String("boards-path", "boards", "Path to a board manifest file or directory.")
	frameworkFlag := flagSet.String("framework", "", "Path to the Arduino framework checkout.")
	buildDirFlag := flagSet.String("build-dir", "build", "Directory receiving the generated artifacts.")
	protocolFlag := flagSet.String("upload-protocol", "picotool", "Upload protocol. Options: 'picotool', 'picoprobe', 'picodebug'.")
	fsSizeFlag := flagSet.String("filesystem-size", "", "Override the board's filesystem size expression, e.g. '1MB'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	board := *boardFlag
	if board == "" && flagSet.NArg() > 0 {
		board = flagSet.Arg(0)
	}

	if board == "" {
		flagSet.Usage()
		return nil, true, nil
	}

	if *frameworkFlag == "" {
		return nil, false, &ExitError{Code: 2, Message: "missing required -framework flag"}
	}

	logFormat := strings.ToLower(*logFormatFlag)
	if logFormat != "text" && logFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}

	logLevel := strings.ToLower(*logLevelFlag)
	switch logLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}

	config, err := app.NewConfig(app.Config{
		BoardID:        board,
		BoardsPath:     *boardsPathFlag,
		FrameworkDir:   *frameworkFlag,
		BuildDir:       *buildDirFlag,
		UploadProtocol: strings.ToLower(*protocolFlag),
		FilesystemSize: *fsSizeFlag,
		LogFormat:      logFormat,
		LogLevel:       logLevel,
	})

	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	return config, false, nil
}
