package ports

import (
	"context"

	"github.com/bbidwell85/Totality-sub002/domain/model"
)

// ProgressFunc is invoked once per completed file during a multi-file
// analysis, with the running completion count, the total number of
// requested files, and the basename of the file that just finished.
type ProgressFunc func(completed, total int, basename string)

// MediaAnalyzer defines the main analysis interface
type MediaAnalyzer interface {
	// AnalyzeFile analyzes a single media file. Probe failures come back
	// as success=false results; the returned error is reserved for
	// programmer errors (uninitialized analyzer, cancelled context).
	AnalyzeFile(ctx context.Context, path string) (*model.FileAnalysisResult, error)

	// AnalyzeFiles analyzes all paths concurrently, bounded only by the
	// worker pool, and returns one result per requested path.
	AnalyzeFiles(ctx context.Context, paths []string, onProgress ProgressFunc) (map[string]*model.FileAnalysisResult, error)

	// AnalyzeBatch processes paths in sequential chunks of the given
	// size, waiting for each chunk to finish before starting the next.
	AnalyzeBatch(ctx context.Context, paths []string, concurrency int) (map[string]*model.FileAnalysisResult, error)

	// Stats returns a point-in-time snapshot of the worker pool.
	Stats() model.PoolStats

	// SetMaxWorkers adjusts the worker cap, clamped to [1,16]. Takes
	// effect on the next dispatch pass.
	SetMaxWorkers(n int)

	// Shutdown drains the pool. Queued tasks resolve as failures; no
	// request is ever left pending.
	Shutdown(ctx context.Context) error
}

// ProbeExecutor is the abstraction for invoking the external probing
// tool against one file.
type ProbeExecutor interface {
	// Probe runs the prober and returns its raw JSON output.
	Probe(ctx context.Context, path string) ([]byte, error)
}

// StorageProvider abstracts filesystem operations used for input
// validation and size lookups.
type StorageProvider interface {
	// Exists checks if a file exists
	Exists(ctx context.Context, path string) (bool, error)

	// Size returns file size in bytes
	Size(ctx context.Context, path string) (int64, error)
}
