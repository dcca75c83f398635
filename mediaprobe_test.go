package mediaprobe

import (
	"context"
	"errors"
	"testing"

	"github.com/bbidwell85/Totality-sub002/internal/mocks"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()
	a, err := New(Config{
		Executor:   &mocks.MockProbeExecutor{},
		Storage:    &mocks.MockStorageProvider{},
		MaxWorkers: 2,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Shutdown(context.Background()) })
	return a
}

func TestAnalyzeFileThroughFacade(t *testing.T) {
	a := newTestAnalyzer(t)

	res, err := a.AnalyzeFile(context.Background(), "/media/show.mp4")
	if err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success, got %q", res.Error)
	}
	if res.Video == nil || res.Video.Width != 1920 || res.Video.Height != 1080 {
		t.Errorf("video: got %+v", res.Video)
	}
}

func TestStatsStableAcrossCalls(t *testing.T) {
	a := newTestAnalyzer(t)

	first := a.Stats()
	second := a.Stats()
	if first != second {
		t.Errorf("stats drifted between calls: %+v vs %+v", first, second)
	}
	if first.MaxWorkers != 2 {
		t.Errorf("max workers: got %d, want 2", first.MaxWorkers)
	}
}

func TestShutdownMakesAnalyzerUnusable(t *testing.T) {
	a := newTestAnalyzer(t)

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}

	if _, err := a.AnalyzeFile(context.Background(), "/media/x.mkv"); !errors.Is(err, ErrUninitialized) {
		t.Errorf("AnalyzeFile after shutdown: got %v, want ErrUninitialized", err)
	}
	if _, err := a.AnalyzeFiles(context.Background(), []string{"/media/x.mkv"}, nil); !errors.Is(err, ErrUninitialized) {
		t.Errorf("AnalyzeFiles after shutdown: got %v, want ErrUninitialized", err)
	}
	if _, err := a.AnalyzeBatch(context.Background(), []string{"/media/x.mkv"}, 1); !errors.Is(err, ErrUninitialized) {
		t.Errorf("AnalyzeBatch after shutdown: got %v, want ErrUninitialized", err)
	}
	if s := a.Stats(); s != (PoolStats{}) {
		t.Errorf("stats after shutdown: got %+v, want zeros", s)
	}
}

func TestResetRebuildsPool(t *testing.T) {
	a := newTestAnalyzer(t)

	if err := a.Shutdown(context.Background()); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	if err := a.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}

	res, err := a.AnalyzeFile(context.Background(), "/media/back.mkv")
	if err != nil {
		t.Fatalf("AnalyzeFile after reset: %v", err)
	}
	if !res.Success {
		t.Errorf("expected success after reset, got %q", res.Error)
	}
	if s := a.Stats(); s.MaxWorkers != 2 {
		t.Errorf("max workers after reset: got %d, want 2", s.MaxWorkers)
	}
}

func TestResetWithoutShutdown(t *testing.T) {
	a := newTestAnalyzer(t)

	if _, err := a.AnalyzeFile(context.Background(), "/media/warm.mkv"); err != nil {
		t.Fatalf("AnalyzeFile: %v", err)
	}
	if err := a.Reset(context.Background()); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	if _, err := a.AnalyzeFile(context.Background(), "/media/warm.mkv"); err != nil {
		t.Errorf("AnalyzeFile after live reset: %v", err)
	}
}
