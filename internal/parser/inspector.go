package parser

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strconv"
	"strings"
)

// ProcessInspector answers "is a process whose command line matches this
// pattern running right now, and under what pid". It exists so the
// supervisor can detect an ingestion instance started outside its
// control, and so tests can fake the OS process table.
type ProcessInspector interface {
	FindProcess(ctx context.Context, pattern string) (pid int, found bool, err error)
}

// OSInspector queries the real process table via pgrep.
type OSInspector struct{}

// FindProcess returns the first pid whose full command line matches
// pattern. A pgrep exit code of 1 means "no match" and is not an error.
func (OSInspector) FindProcess(ctx context.Context, pattern string) (int, bool, error) {
	out, err := exec.CommandContext(ctx, "pgrep", "-f", pattern).Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return 0, false, nil
		}
		return 0, false, err
	}

	for _, field := range strings.Fields(string(bytes.TrimSpace(out))) {
		pid, err := strconv.Atoi(field)
		if err != nil {
			continue
		}
		return pid, true, nil
	}
	return 0, false, nil
}
