// Package mediaprobe extracts and normalizes technical metadata from
// media files. It drives an external probing tool (ffprobe) through a
// bounded worker pool and reconciles the tool's semi-structured output
// into one record per file: video/audio/subtitle tracks, container
// properties, HDR classification, object-audio presence, and
// reconstructed bitrates where the file does not report them reliably.
package mediaprobe

import (
	"context"
	"sync"

	"github.com/bbidwell85/Totality-sub002/application/usecase"
	"github.com/bbidwell85/Totality-sub002/domain/model"
	"github.com/bbidwell85/Totality-sub002/domain/ports"
	"github.com/bbidwell85/Totality-sub002/infrastructure/ffprobe"
	"github.com/bbidwell85/Totality-sub002/infrastructure/storage"
	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
	"go.uber.org/zap"
)

// Re-export types for convenient use by callers
type (
	FileAnalysisResult   = model.FileAnalysisResult
	VideoAttributes      = model.VideoAttributes
	AudioAttributes      = model.AudioAttributes
	SubtitleAttributes   = model.SubtitleAttributes
	EmbeddedArtwork      = model.EmbeddedArtwork
	EmbeddedMetadataTags = model.EmbeddedMetadataTags
	PoolStats            = model.PoolStats
	HDRFormat            = model.HDRFormat
	ProgressFunc         = ports.ProgressFunc
)

// Re-export HDR format constants
const (
	HDRDolbyVision = model.HDRDolbyVision
	HDR10Plus      = model.HDR10Plus
	HDR10          = model.HDR10
	HDRPQ          = model.HDRPQ
	HDRHLG         = model.HDRHLG
)

// ErrUninitialized is returned by analysis calls made before New or
// after Shutdown.
var ErrUninitialized = pkgerrors.ErrUninitialized

// Config holds top-level configuration for the analyzer
type Config struct {
	// ProberPath is the path to the ffprobe binary (auto-detected if empty)
	ProberPath string

	// MaxWorkers caps concurrent probe invocations
	// (default: CPU count - 1, clamped to [1,8])
	MaxWorkers int

	// Logger is an optional custom logger. Discards output if nil.
	Logger *logger.Logger

	// ZapLogger allows passing a *zap.Logger directly
	ZapLogger *zap.Logger

	// Executor overrides the probe executor (useful for testing)
	Executor ports.ProbeExecutor

	// Storage overrides the filesystem provider (useful for testing)
	Storage ports.StorageProvider
}

// Analyzer is the main entry point. It owns the worker pool; create it
// at the application's composition root and pass it to the scanning
// layer.
type Analyzer struct {
	mu   sync.Mutex
	cfg  Config
	svc  *usecase.AnalyzerService
	log  *logger.Logger
	down bool
}

// New creates an Analyzer with the given configuration. The call is
// cheap: configuration is stored and the coordinator started, but no
// workers are spawned until the first analysis request.
func New(cfg Config) (*Analyzer, error) {
	log := cfg.Logger
	if log == nil && cfg.ZapLogger != nil {
		log = logger.FromZap(cfg.ZapLogger)
	}
	if log == nil {
		log = logger.Nop()
	}

	a := &Analyzer{cfg: cfg, log: log}
	svc, err := a.buildService()
	if err != nil {
		return nil, err
	}
	a.svc = svc
	return a, nil
}

func (a *Analyzer) buildService() (*usecase.AnalyzerService, error) {
	executor := a.cfg.Executor
	if executor == nil {
		var err error
		executor, err = ffprobe.NewExecutor(ffprobe.ExecutorConfig{
			ProberPath: a.cfg.ProberPath,
			Logger:     a.log,
		})
		if err != nil {
			return nil, err
		}
	}

	store := a.cfg.Storage
	if store == nil {
		store = storage.NewLocalStorage()
	}

	return usecase.NewAnalyzerService(usecase.Config{
		Executor:   executor,
		Storage:    store,
		Logger:     a.log,
		MaxWorkers: a.cfg.MaxWorkers,
	})
}

func (a *Analyzer) service() (*usecase.AnalyzerService, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.down || a.svc == nil {
		return nil, ErrUninitialized
	}
	return a.svc, nil
}

// AnalyzeFile analyzes a single media file. Probe failures come back as
// success=false results; the returned error is reserved for calling an
// analyzer that was shut down, or a cancelled context.
func (a *Analyzer) AnalyzeFile(ctx context.Context, path string) (*FileAnalysisResult, error) {
	svc, err := a.service()
	if err != nil {
		return nil, err
	}
	return svc.AnalyzeFile(ctx, path)
}

// AnalyzeFiles analyzes all paths concurrently, bounded only by the
// pool, and returns one result per requested path. onProgress (may be
// nil) fires once per completed file.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, paths []string, onProgress ProgressFunc) (map[string]*FileAnalysisResult, error) {
	svc, err := a.service()
	if err != nil {
		return nil, err
	}
	return svc.AnalyzeFiles(ctx, paths, onProgress)
}

// AnalyzeBatch processes paths in sequential chunks of the given size
// (default: the worker cap), a deterministic lower-peak-resource
// alternative to AnalyzeFiles.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, paths []string, concurrency int) (map[string]*FileAnalysisResult, error) {
	svc, err := a.service()
	if err != nil {
		return nil, err
	}
	return svc.AnalyzeBatch(ctx, paths, concurrency)
}

// Stats returns a point-in-time snapshot of the worker pool. All zeros
// after shutdown.
func (a *Analyzer) Stats() PoolStats {
	svc, err := a.service()
	if err != nil {
		return PoolStats{}
	}
	return svc.Stats()
}

// SetMaxWorkers adjusts the worker cap, clamped to [1,16]. Takes effect
// on the next dispatch pass; existing workers above the cap are not
// killed.
func (a *Analyzer) SetMaxWorkers(n int) {
	if svc, err := a.service(); err == nil {
		svc.SetMaxWorkers(n)
	}
}

// Shutdown drains the pool: queued requests resolve as shutdown
// failures and live workers get a grace period. The analyzer is
// unusable afterwards; use Reset to rebuild it.
func (a *Analyzer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	svc := a.svc
	a.down = true
	a.mu.Unlock()

	if svc == nil {
		return nil
	}
	return svc.Shutdown(ctx)
}

// Reset shuts the pool down and rebuilds a fresh one from the stored
// configuration, forcing re-initialization of all workers.
func (a *Analyzer) Reset(ctx context.Context) error {
	a.mu.Lock()
	old := a.svc
	a.svc = nil
	a.mu.Unlock()

	var shutdownErr error
	if old != nil {
		shutdownErr = old.Shutdown(ctx)
	}

	svc, err := a.buildService()
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.svc = svc
	a.down = false
	a.mu.Unlock()
	return shutdownErr
}

// Close flushes the logger and releases resources.
func (a *Analyzer) Close() {
	_ = a.log.Sync()
}

var _ ports.MediaAnalyzer = (*Analyzer)(nil)
