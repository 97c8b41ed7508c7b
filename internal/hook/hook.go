// Package hook runs a user-supplied executable after each saved clip,
// so dataset pipelines can chain the offline extraction phase onto
// collection. Hook failures are reported but never fatal.
package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"time"
)

// ClipEvent describes a saved clip; it is sent to the hook as JSON on stdin.
type ClipEvent struct {
	Label         string  `json:"label"`
	Index         int     `json:"index"`
	Path          string  `json:"path"`
	Frames        int     `json:"frames"`
	FPS           float64 `json:"fps"`
	ZeroFrac      float64 `json:"zero_frac"`
	LowFrac       float64 `json:"low_frac"`
	SuggestRetake bool    `json:"suggest_retake"`
}

// Executor handles the execution of the post-save hook with timeout support.
type Executor struct {
	command   string
	timeoutMs int
}

// NewExecutor creates a new Executor for the given command with the
// specified timeout in milliseconds.
func NewExecutor(command string, timeoutMs int) *Executor {
	return &Executor{
		command:   command,
		timeoutMs: timeoutMs,
	}
}

// Run executes the hook with the given clip event. It creates a context
// with the configured timeout, marshals the event to JSON, and sends it
// to the hook via stdin.
func (e *Executor) Run(ev *ClipEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(e.timeoutMs)*time.Millisecond)
	defer cancel()

	cmd := exec.CommandContext(ctx, e.command)

	evJSON, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal clip event: %w", err)
	}

	cmd.Stdin = bytes.NewReader(evJSON)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err = cmd.Run()

	if ctx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("hook execution timeout after %dms", e.timeoutMs)
	}

	if err != nil {
		stderrStr := stderr.String()
		if stderrStr != "" {
			return fmt.Errorf("hook execution failed: %w, stderr: %s", err, stderrStr)
		}
		return fmt.Errorf("hook execution failed: %w", err)
	}

	return nil
}
