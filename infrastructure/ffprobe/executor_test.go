package ffprobe

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("relies on unix shell utilities")
	}
}

func newTestExecutor(t *testing.T, proberPath string, timeout time.Duration) *Executor {
	t.Helper()
	e, err := NewExecutor(ExecutorConfig{ProberPath: proberPath, Timeout: timeout})
	if err != nil {
		t.Fatalf("NewExecutor: %v", err)
	}
	return e
}

func TestProbeSpawnFailure(t *testing.T) {
	e := newTestExecutor(t, "/nonexistent/prober-binary", 0)

	_, err := e.Probe(context.Background(), "/media/a.mkv")
	if err == nil {
		t.Fatal("expected spawn error")
	}
	if code := pkgerrors.CodeOf(err); code != pkgerrors.ErrCodeProbeSpawn {
		t.Errorf("code: got %s, want %s", code, pkgerrors.ErrCodeProbeSpawn)
	}
}

func TestProbeNonZeroExit(t *testing.T) {
	requireUnix(t)
	e := newTestExecutor(t, "/bin/false", 0)

	_, err := e.Probe(context.Background(), "/media/a.mkv")
	if err == nil {
		t.Fatal("expected exit error")
	}
	if code := pkgerrors.CodeOf(err); code != pkgerrors.ErrCodeProbeExit {
		t.Errorf("code: got %s, want %s", code, pkgerrors.ErrCodeProbeExit)
	}
}

func TestProbeEmptyOutput(t *testing.T) {
	requireUnix(t)
	e := newTestExecutor(t, "/bin/true", 0)

	_, err := e.Probe(context.Background(), "/media/a.mkv")
	if err == nil {
		t.Fatal("expected parse error for empty output")
	}
	if code := pkgerrors.CodeOf(err); code != pkgerrors.ErrCodeProbeParse {
		t.Errorf("code: got %s, want %s", code, pkgerrors.ErrCodeProbeParse)
	}
}

func TestProbeTimeout(t *testing.T) {
	requireUnix(t)

	script := filepath.Join(t.TempDir(), "slow-prober")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nexec sleep 5\n"), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	e := newTestExecutor(t, script, 100*time.Millisecond)

	start := time.Now()
	_, err := e.Probe(context.Background(), "/media/a.mkv")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if code := pkgerrors.CodeOf(err); code != pkgerrors.ErrCodeProbeTimeout {
		t.Errorf("code: got %s, want %s", code, pkgerrors.ErrCodeProbeTimeout)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("probe did not honor timeout, took %s", elapsed)
	}
}

func TestNewExecutorDefaults(t *testing.T) {
	e := newTestExecutor(t, "/nonexistent/prober-binary", 0)
	if e.timeout != DefaultTimeout {
		t.Errorf("timeout: got %s, want %s", e.timeout, DefaultTimeout)
	}
}
