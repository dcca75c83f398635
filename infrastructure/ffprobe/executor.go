// Package ffprobe spawns the external probing tool and returns its raw
// JSON output. One OS process per invocation, hard timeout, no retry.
package ffprobe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"

	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
	"go.uber.org/zap"
)

// DefaultTimeout bounds a single probe invocation.
const DefaultTimeout = 60 * time.Second

// probeArgs is the fixed argument contract: quiet output, JSON format,
// full format and stream dump.
var probeArgs = []string{
	"-v", "quiet",
	"-print_format", "json",
	"-show_format",
	"-show_streams",
}

// Executor implements ports.ProbeExecutor against a real ffprobe binary.
type Executor struct {
	proberPath string
	timeout    time.Duration
	log        *logger.Logger
}

// ExecutorConfig holds configuration for the probe executor
type ExecutorConfig struct {
	// ProberPath is the path to the ffprobe binary (auto-detected if empty)
	ProberPath string

	// Timeout overrides the per-invocation timeout (default 60s)
	Timeout time.Duration

	Logger *logger.Logger
}

// NewExecutor creates a new probe executor
func NewExecutor(cfg ExecutorConfig) (*Executor, error) {
	proberPath := cfg.ProberPath
	if proberPath == "" {
		var err error
		proberPath, err = exec.LookPath("ffprobe")
		if err != nil {
			return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
		}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	return &Executor{
		proberPath: proberPath,
		timeout:    timeout,
		log:        log,
	}, nil
}

// Probe runs the prober against one file and returns raw JSON on
// success. Spawn failures, timeouts, non-zero exits, and empty output
// all surface as typed probe errors.
func (e *Executor) Probe(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	args := append(append([]string(nil), probeArgs...), path)
	cmd := exec.CommandContext(ctx, e.proberPath, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	e.log.Debug("probing file",
		zap.String("path", path),
		zap.String("prober", e.proberPath),
	)

	err := cmd.Run()
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, pkgerrors.NewProbeTimeoutError(path, ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, pkgerrors.NewProbeExitError(path, exitErr.ExitCode(), stderr.String(), err)
		}
		return nil, pkgerrors.NewProbeSpawnError(path, err)
	}

	out := bytes.TrimSpace(stdout.Bytes())
	if len(out) == 0 {
		return nil, pkgerrors.NewProbeParseError(path, "prober produced no output", nil)
	}
	return out, nil
}
