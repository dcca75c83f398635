package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/bbidwell85/Totality-sub002/application/parser"
	"github.com/bbidwell85/Totality-sub002/application/pool"
	"github.com/bbidwell85/Totality-sub002/domain/model"
	"github.com/bbidwell85/Totality-sub002/domain/ports"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
	"github.com/bbidwell85/Totality-sub002/pkg/progress"
	"go.uber.org/zap"
)

// AnalyzerService is the application service implementing
// ports.MediaAnalyzer on top of the worker pool.
type AnalyzerService struct {
	pool     *pool.Pool
	executor ports.ProbeExecutor
	storage  ports.StorageProvider
	log      *logger.Logger
}

// Config holds AnalyzerService configuration
type Config struct {
	Executor   ports.ProbeExecutor
	Storage    ports.StorageProvider
	Logger     *logger.Logger
	MaxWorkers int
}

// NewAnalyzerService creates a new AnalyzerService
func NewAnalyzerService(cfg Config) (*AnalyzerService, error) {
	if cfg.Executor == nil {
		return nil, fmt.Errorf("ProbeExecutor is required")
	}
	if cfg.Storage == nil {
		return nil, fmt.Errorf("StorageProvider is required")
	}

	log := cfg.Logger
	if log == nil {
		log = logger.Nop()
	}

	s := &AnalyzerService{
		executor: cfg.Executor,
		storage:  cfg.Storage,
		log:      log,
	}
	s.pool = pool.New(s.analyzeOne, cfg.MaxWorkers, log)
	return s, nil
}

// analyzeOne is the per-task function executed inside a worker: probe,
// parse, infer. Every failure becomes a success=false result; nothing
// escapes as an error.
func (s *AnalyzerService) analyzeOne(ctx context.Context, path string) *model.FileAnalysisResult {
	start := time.Now()

	exists, err := s.storage.Exists(ctx, path)
	if err == nil && !exists {
		return model.FailedResult(path, fmt.Sprintf("file does not exist: %s", path))
	}

	// Size fallback for containers whose format section omits it.
	var sizeHint int64
	if sz, err := s.storage.Size(ctx, path); err == nil {
		sizeHint = sz
	}

	raw, err := s.executor.Probe(ctx, path)
	if err != nil {
		s.log.Warn("probe failed",
			zap.String("path", path),
			zap.Error(err),
		)
		return model.FailedResult(path, err.Error())
	}

	res, err := parser.Parse(raw, path, sizeHint)
	if err != nil {
		s.log.Warn("probe output unparseable",
			zap.String("path", path),
			zap.Error(err),
		)
		return model.FailedResult(path, err.Error())
	}

	s.log.Debug("file analyzed",
		zap.String("path", path),
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("audio_tracks", len(res.AudioTracks)),
		zap.Int("subtitle_tracks", len(res.SubtitleTracks)),
	)
	return res
}

// AnalyzeFile analyzes a single file through the pool.
func (s *AnalyzerService) AnalyzeFile(ctx context.Context, path string) (*model.FileAnalysisResult, error) {
	done := s.pool.Submit(path)
	select {
	case res := <-done:
		return res, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// AnalyzeFiles issues all requests at once, bounded only by the pool,
// and returns one entry per requested path. onProgress fires once per
// completed file. Completion order is not guaranteed.
func (s *AnalyzerService) AnalyzeFiles(ctx context.Context, paths []string, onProgress ports.ProgressFunc) (map[string]*model.FileAnalysisResult, error) {
	var reporter progress.Reporter = progress.NoopReporter{}
	if onProgress != nil {
		reporter = progress.Func(onProgress)
	}
	return s.analyzeAll(ctx, paths, len(paths), 0, reporter)
}

// AnalyzeBatch processes paths in sequential chunks of the given size
// (default: the pool's worker cap), awaiting full chunk completion
// before starting the next chunk.
func (s *AnalyzerService) AnalyzeBatch(ctx context.Context, paths []string, concurrency int) (map[string]*model.FileAnalysisResult, error) {
	if concurrency <= 0 {
		concurrency = s.pool.Stats().MaxWorkers
	}
	if concurrency <= 0 {
		concurrency = pool.DefaultMaxWorkers()
	}

	results := make(map[string]*model.FileAnalysisResult, len(paths))
	completed := 0
	for start := 0; start < len(paths); start += concurrency {
		end := start + concurrency
		if end > len(paths) {
			end = len(paths)
		}
		chunk, err := s.analyzeAll(ctx, paths[start:end], len(paths), completed, progress.NoopReporter{})
		for k, v := range chunk {
			results[k] = v
		}
		completed += end - start
		if err != nil {
			return results, err
		}
	}
	return results, nil
}

// analyzeAll submits one chunk of paths and collects every result,
// reporting progress offset by the completions of earlier chunks.
func (s *AnalyzerService) analyzeAll(ctx context.Context, paths []string, total, offset int, reporter progress.Reporter) (map[string]*model.FileAnalysisResult, error) {
	type outcome struct {
		path string
		res  *model.FileAnalysisResult
	}

	pending := make([]<-chan *model.FileAnalysisResult, len(paths))
	for i, path := range paths {
		pending[i] = s.pool.Submit(path)
	}

	collected := make(chan outcome, len(paths))
	for i, path := range paths {
		go func(path string, done <-chan *model.FileAnalysisResult) {
			collected <- outcome{path: path, res: <-done}
		}(path, pending[i])
	}

	results := make(map[string]*model.FileAnalysisResult, len(paths))
	for i := 0; i < len(paths); i++ {
		select {
		case out := <-collected:
			results[out.path] = out.res
			reporter.Report(progress.Update{
				Completed: offset + i + 1,
				Total:     total,
				Basename:  filepath.Base(out.path),
				Timestamp: time.Now(),
			})
		case <-ctx.Done():
			return results, ctx.Err()
		}
	}
	return results, nil
}

// Stats returns a point-in-time snapshot of the pool.
func (s *AnalyzerService) Stats() model.PoolStats {
	return s.pool.Stats()
}

// SetMaxWorkers adjusts the pool's worker cap, clamped to [1,16].
func (s *AnalyzerService) SetMaxWorkers(n int) {
	s.pool.SetMaxWorkers(n)
}

// Shutdown drains the pool. Outstanding requests resolve as shutdown
// failures; none are left pending.
func (s *AnalyzerService) Shutdown(ctx context.Context) error {
	return s.pool.Shutdown(ctx)
}
