package installer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"appimage-installer/internal/logger"
)

// extractWaitDelay bounds how long Run waits for the output pipes to close
// after the context has killed the bundle.
const extractWaitDelay = 3 * time.Second

// extractBundle marks bundle executable and runs its self-extraction mode
// inside workDir. A non-zero exit yields an *ExtractError carrying stderr.
func extractBundle(ctx context.Context, bundle, workDir, flag string) error {
	logger.Debug("[DEBUG] Extracting AppImage...\n")
	if err := os.Chmod(bundle, 0755); err != nil {
		return fmt.Errorf("failed to make %s executable: %w", bundle, err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bundle, flag)
	cmd.Dir = workDir
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// A killed bundle may leave children holding the output pipes open
	cmd.WaitDelay = extractWaitDelay
	logger.Debug("[DEBUG] Running command: %s (in %s)\n", strings.Join(cmd.Args, " "), workDir)

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w (%v)", ctxErr, err)
		}
		return &ExtractError{Bundle: filepath.Base(bundle), Stderr: stderr.String(), Err: err}
	}
	logger.Debug("[DEBUG] Extraction wrote %d lines of output\n", bytes.Count(stdout.Bytes(), []byte("\n")))
	return nil
}
