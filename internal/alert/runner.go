// Package alert runs a user-supplied command when the pipeline enters
// the DANGER state.
package alert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// Event is the payload written to the alert command's stdin as JSON.
type Event struct {
	State       string `json:"state"`
	DistancePx  int    `json:"distance_px"`
	CentroidX   int    `json:"centroid_x"`
	CentroidY   int    `json:"centroid_y"`
	TimestampMs int64  `json:"timestamp_ms"`
}

// Runner executes the alert command with a timeout.
type Runner struct {
	command   []string
	timeoutMs int
}

// NewRunner creates a Runner for the given command line and timeout in
// milliseconds. The command is split on whitespace; an empty command
// disables the runner.
func NewRunner(command string, timeoutMs int) *Runner {
	if timeoutMs <= 0 {
		timeoutMs = 5000
	}
	return &Runner{
		command:   strings.Fields(command),
		timeoutMs: timeoutMs,
	}
}

// Enabled reports whether a command is configured.
func (r *Runner) Enabled() bool {
	return len(r.command) > 0
}

// Run executes the alert command, passing the event as JSON on stdin.
// It returns nil immediately when no command is configured.
func (r *Runner) Run(event Event) error {
	if !r.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal alert event: %w", err)
	}
	cmd.Stdin = bytes.NewReader(payload)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("alert command timeout after %dms", r.timeoutMs)
	}

	if err != nil {
		if stderrStr := stderr.String(); stderrStr != "" {
			return fmt.Errorf("alert command failed: %w, stderr: %s", err, stderrStr)
		}
		return fmt.Errorf("alert command failed: %w", err)
	}

	return nil
}
