package backup

import (
	"context"
	"os/exec"
)

// runCommand runs a command and returns combined output (stdout+stderr).
// Tests can override this variable to mock the dump/restore utilities.
var runCommand = func(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	return cmd.CombinedOutput()
}
