package usecase

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bbidwell85/Totality-sub002/internal/mocks"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
)

func newService(t *testing.T, cfg Config) *AnalyzerService {
	t.Helper()
	if cfg.Executor == nil {
		cfg.Executor = &mocks.MockProbeExecutor{}
	}
	if cfg.Storage == nil {
		cfg.Storage = &mocks.MockStorageProvider{}
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	svc, err := NewAnalyzerService(cfg)
	if err != nil {
		t.Fatalf("NewAnalyzerService: %v", err)
	}
	t.Cleanup(func() { svc.Shutdown(context.Background()) })
	return svc
}

func TestNewAnalyzerServiceValidation(t *testing.T) {
	if _, err := NewAnalyzerService(Config{Storage: &mocks.MockStorageProvider{}}); err == nil {
		t.Error("missing executor must be rejected")
	}
	if _, err := NewAnalyzerService(Config{Executor: &mocks.MockProbeExecutor{}}); err == nil {
		t.Error("missing storage must be rejected")
	}
}

func TestAnalyzeFile(t *testing.T) {
	svc := newService(t, Config{MaxWorkers: 2})

	res, err := svc.AnalyzeFile(context.Background(), "/media/sample.mp4")
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got error %q", res.Error)
	}
	if res.Container != "mov,mp4,m4a,3gp,3g2,mj2" {
		t.Errorf("container: got %q", res.Container)
	}
	if res.Video == nil || res.Video.Codec != "h264" {
		t.Fatalf("video: got %+v", res.Video)
	}
	if res.Video.FrameRate == nil || *res.Video.FrameRate != 23.98 {
		t.Errorf("frame rate: got %v", res.Video.FrameRate)
	}
	if len(res.AudioTracks) != 1 {
		t.Fatalf("audio tracks: got %d, want 1", len(res.AudioTracks))
	}
	if res.AudioTracks[0].BitrateKbps == nil || *res.AudioTracks[0].BitrateKbps != 192 {
		t.Errorf("audio bitrate: got %v", res.AudioTracks[0].BitrateKbps)
	}
}

func TestAnalyzeFileNonexistent(t *testing.T) {
	exec := &mocks.MockProbeExecutor{}
	storage := &mocks.MockStorageProvider{
		ExistsFunc: func(_ context.Context, _ string) (bool, error) { return false, nil },
	}
	svc := newService(t, Config{Executor: exec, Storage: storage, MaxWorkers: 1})

	res, err := svc.AnalyzeFile(context.Background(), "/media/missing.mkv")
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if res.Success {
		t.Fatal("missing file must produce a failed result")
	}
	if !strings.Contains(res.Error, "does not exist") {
		t.Errorf("error: got %q", res.Error)
	}
	if probed := exec.Probed(); len(probed) != 0 {
		t.Errorf("prober must not run for a missing file, probed %v", probed)
	}
}

func TestAnalyzeFileContextCancelled(t *testing.T) {
	gate := make(chan struct{})
	exec := &mocks.MockProbeExecutor{
		ProbeFunc: func(_ context.Context, _ string) ([]byte, error) {
			<-gate
			return mocks.DefaultProbeResponse(), nil
		},
	}
	svc := newService(t, Config{Executor: exec, MaxWorkers: 1})
	defer close(gate)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	if _, err := svc.AnalyzeFile(ctx, "/media/slow.mkv"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestAnalyzeFilesMapCompleteOnFailure(t *testing.T) {
	exec := &mocks.MockProbeExecutor{
		ProbeFunc: func(_ context.Context, _ string) ([]byte, error) {
			return nil, errors.New("probe exploded")
		},
	}
	svc := newService(t, Config{Executor: exec, MaxWorkers: 2})

	paths := []string{"/a.mkv", "/b.mkv", "/c.mkv", "/d.mkv"}
	results, err := svc.AnalyzeFiles(context.Background(), paths, nil)
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("results: got %d entries, want %d", len(results), len(paths))
	}
	for _, path := range paths {
		res, ok := results[path]
		if !ok {
			t.Fatalf("missing entry for %s", path)
		}
		if res.Success {
			t.Errorf("%s: expected failure", path)
		}
		if !strings.Contains(res.Error, "probe exploded") {
			t.Errorf("%s: error %q", path, res.Error)
		}
	}
}

func TestAnalyzeFilesProgress(t *testing.T) {
	svc := newService(t, Config{MaxWorkers: 2})

	paths := []string{"/media/a.mkv", "/media/b.mkv", "/media/c.mkv"}
	var completed []int
	var totals []int
	basenames := map[string]bool{}
	_, err := svc.AnalyzeFiles(context.Background(), paths, func(done, total int, basename string) {
		completed = append(completed, done)
		totals = append(totals, total)
		basenames[basename] = true
	})
	if err != nil {
		t.Fatalf("AnalyzeFiles: %v", err)
	}

	if len(completed) != len(paths) {
		t.Fatalf("progress calls: got %d, want %d", len(completed), len(paths))
	}
	for i, c := range completed {
		if c != i+1 {
			t.Errorf("completed[%d]: got %d, want %d", i, c, i+1)
		}
		if totals[i] != len(paths) {
			t.Errorf("total[%d]: got %d, want %d", i, totals[i], len(paths))
		}
	}
	for _, want := range []string{"a.mkv", "b.mkv", "c.mkv"} {
		if !basenames[want] {
			t.Errorf("progress never reported %s", want)
		}
	}
}

func TestAnalyzeBatchChunkBarrier(t *testing.T) {
	var current, peak atomic.Int32
	exec := &mocks.MockProbeExecutor{
		ProbeFunc: func(_ context.Context, _ string) ([]byte, error) {
			n := current.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			current.Add(-1)
			return mocks.DefaultProbeResponse(), nil
		},
	}
	svc := newService(t, Config{Executor: exec, MaxWorkers: 8})

	paths := []string{"/1.mkv", "/2.mkv", "/3.mkv", "/4.mkv", "/5.mkv"}
	results, err := svc.AnalyzeBatch(context.Background(), paths, 2)
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("results: got %d entries, want %d", len(results), len(paths))
	}
	if p := peak.Load(); p > 2 {
		t.Errorf("chunk barrier breached: %d files in flight", p)
	}
}

func TestAnalyzeBatchDefaultConcurrency(t *testing.T) {
	svc := newService(t, Config{MaxWorkers: 3})

	paths := []string{"/x.mkv", "/y.mkv"}
	results, err := svc.AnalyzeBatch(context.Background(), paths, 0)
	if err != nil {
		t.Fatalf("AnalyzeBatch: %v", err)
	}
	if len(results) != len(paths) {
		t.Errorf("results: got %d entries, want %d", len(results), len(paths))
	}
}

func TestSetMaxWorkersReflected(t *testing.T) {
	svc := newService(t, Config{MaxWorkers: 2})

	svc.SetMaxWorkers(5)
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if svc.Stats().MaxWorkers == 5 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Errorf("max workers: got %d, want 5", svc.Stats().MaxWorkers)
}
