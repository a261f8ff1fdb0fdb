package installer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBundleNotFound is returned when the AppImage to install does not exist.
	ErrBundleNotFound = errors.New("AppImage file not found")

	// ErrNoDesktopEntry is returned when the extracted AppImage carries no launcher entry.
	ErrNoDesktopEntry = errors.New("no desktop file found in AppImage")
)

// ExtractError reports a failed self-extraction run together with what the
// bundle wrote to stderr.
type ExtractError struct {
	Bundle string
	Stderr string
	Err    error
}

func (e *ExtractError) Error() string {
	msg := fmt.Sprintf("failed to extract AppImage %s: %v", e.Bundle, e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

func (e *ExtractError) Unwrap() error {
	return e.Err
}
