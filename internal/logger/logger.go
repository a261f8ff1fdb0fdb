// Package logger prints leveled, colored log lines to the console and can
// tee an uncolored, timestamped copy of every line into a rotating file.
package logger

import (
	"fmt"           // For formatting the file copy of each line
	"io"            // Writers for console and file output
	"os"            // Default console output and log directory creation
	"path/filepath" // Parent directory of the log file
	"time"          // Timestamps in the log file

	"github.com/fatih/color"           // Colored console output per level
	"gopkg.in/natefinch/lumberjack.v2" // Size-based rotation of the log file
)

// Define colorized printing functions for the different log levels.
// Each behaves like fmt.Printf; callers put the [LEVEL] tag and the trailing
// newline in the format string themselves.

// Info logs informational messages in green.
var Info = levelFunc(color.New(color.FgGreen))

// Warn logs warning messages in bright magenta.
// Used for recoverable conditions, e.g. an AppImage that ships no icon.
var Warn = levelFunc(color.New(color.FgHiMagenta))

// Error logs error messages in red.
var Error = levelFunc(color.New(color.FgRed))

// Debug logs debug messages in cyan when verbose output is enabled.
// It is a no-op until Init(true) is called.
var Debug = func(format string, a ...any) {}

// output is where console lines go. Tests swap it through SetOutput.
var output io.Writer = os.Stdout

// file receives an uncolored copy of every printed line when a log file is set.
var file io.WriteCloser

// Init enables or disables debug logging.
// With verbose set, Debug prints cyan lines; otherwise it silently drops them.
func Init(verbose bool) {
	if verbose {
		// Debug becomes a real level printer
		Debug = levelFunc(color.New(color.FgCyan))
	} else {
		// Debug ignores everything
		Debug = func(format string, a ...any) {}
	}
}

// SetOutput redirects console output and returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	prev := output
	output = w
	return prev
}

// SetFile tees every log line into a rotating file at path.
// An empty path turns the file tee off. A previously set file is closed
// first, so SetFile may be called once per command run.
func SetFile(path string) error {
	// Close any file left over from an earlier run
	if file != nil {
		_ = file.Close()
		file = nil
	}
	if path == "" {
		return nil
	}

	// lumberjack opens the file lazily but expects its directory to exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	file = &lumberjack.Logger{
		Filename:   path,
		MaxSize:    5, // MB
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return nil
}

// Close flushes and closes the log file, if any.
func Close() error {
	if file == nil {
		return nil
	}
	err := file.Close()
	file = nil
	return err
}

// levelFunc builds a Printf-style function that writes colored text to the
// console and, when a log file is set, a timestamped plain copy to it.
func levelFunc(c *color.Color) func(format string, a ...any) {
	print := c.FprintfFunc()
	return func(format string, a ...any) {
		// Console copy, colored unless color output is disabled
		print(output, format, a...)

		// File copy, never colored
		if file != nil {
			fmt.Fprintf(file, "%s %s", time.Now().Format(time.RFC3339), fmt.Sprintf(format, a...))
		}
	}
}
