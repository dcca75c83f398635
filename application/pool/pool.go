// Package pool implements the bounded worker pool that runs probe
// invocations. A single coordinator goroutine exclusively owns the FIFO
// task queue and the worker registry; workers are isolated goroutines
// exchanging fixed message shapes with the coordinator, so shared pool
// state needs no locks. Workers are created lazily up to a cap,
// removed on fault, and regrown transparently on the next dispatch
// pass.
package pool

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bbidwell85/Totality-sub002/domain/model"
	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	// MinWorkers and MaxWorkersLimit bound SetMaxWorkers.
	MinWorkers      = 1
	MaxWorkersLimit = 16

	// defaultCap bounds the default worker count.
	defaultCap = 8

	// shutdownGrace is how long each live worker gets to finish its
	// in-flight task during shutdown before being abandoned.
	shutdownGrace = 5 * time.Second
)

// AnalyzeFunc runs the full probe-parse-infer chain for one file. It
// must never panic in normal operation; if it does, the worker boundary
// converts the panic into a failed result.
type AnalyzeFunc func(ctx context.Context, path string) *model.FileAnalysisResult

// task pairs an analysis request with the channel its result resolves
// on. Each task is consumed exactly once by exactly one worker.
type task struct {
	id   uint64
	path string
	done chan *model.FileAnalysisResult
}

// workerMsg is the single message shape workers send back: a result,
// or a result plus a fault when the worker panicked and exited.
type workerMsg struct {
	workerID int
	result   *model.FileAnalysisResult
	fault    error
}

type shutdownReq struct {
	reply chan error
}

// Pool dispatches analysis tasks to a capped, lazily grown set of
// workers.
type Pool struct {
	run AnalyzeFunc
	log *logger.Logger

	submitCh chan *task
	doneCh   chan workerMsg
	statsCh  chan chan model.PoolStats
	resizeCh chan int
	quitCh   chan shutdownReq
	closedCh chan struct{}

	nextTaskID atomic.Uint64
	closed     atomic.Bool
}

// DefaultMaxWorkers is CPU count minus one, clamped to [1,8].
func DefaultMaxWorkers() int {
	n := runtime.NumCPU() - 1
	if n < MinWorkers {
		n = MinWorkers
	}
	if n > defaultCap {
		n = defaultCap
	}
	return n
}

// ClampWorkers bounds a requested worker cap to [1,16].
func ClampWorkers(n int) int {
	if n < MinWorkers {
		return MinWorkers
	}
	if n > MaxWorkersLimit {
		return MaxWorkersLimit
	}
	return n
}

// New creates a pool and starts its coordinator. No workers are
// spawned until the first task arrives.
func New(run AnalyzeFunc, maxWorkers int, log *logger.Logger) *Pool {
	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}
	if log == nil {
		log = logger.Nop()
	}

	p := &Pool{
		run:      run,
		log:      log.Named("pool"),
		submitCh: make(chan *task),
		doneCh:   make(chan workerMsg),
		statsCh:  make(chan chan model.PoolStats),
		resizeCh: make(chan int),
		quitCh:   make(chan shutdownReq, 1),
		closedCh: make(chan struct{}),
	}
	go p.coordinate(ClampWorkers(maxWorkers))
	return p
}

// Submit enqueues one analysis request and returns the channel its
// result resolves on. The channel always receives exactly one result,
// even when the pool is shutting down.
func (p *Pool) Submit(path string) <-chan *model.FileAnalysisResult {
	t := &task{
		id:   p.nextTaskID.Add(1),
		path: path,
		done: make(chan *model.FileAnalysisResult, 1),
	}

	select {
	case p.submitCh <- t:
	case <-p.closedCh:
		t.done <- model.FailedResult(path, pkgerrors.ShutdownMessage)
	}
	return t.done
}

// Stats returns a snapshot of the pool. After shutdown all counters
// are zero.
func (p *Pool) Stats() model.PoolStats {
	reply := make(chan model.PoolStats, 1)
	select {
	case p.statsCh <- reply:
		return <-reply
	case <-p.closedCh:
		return model.PoolStats{}
	}
}

// SetMaxWorkers adjusts the worker cap, clamped to [1,16]. The new cap
// applies on the next dispatch pass; workers above it are not killed.
func (p *Pool) SetMaxWorkers(n int) {
	select {
	case p.resizeCh <- ClampWorkers(n):
	case <-p.closedCh:
	}
}

// Shutdown resolves every queued task as a shutdown failure, gives live
// workers a grace period to finish their in-flight task, and stops the
// coordinator. Safe to call once; later calls return nil immediately.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(p.closedCh)

	req := shutdownReq{reply: make(chan error, 1)}
	p.quitCh <- req

	select {
	case err := <-req.reply:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// coordinate is the single goroutine that owns the queue and the
// worker registry. All pool-state mutation happens here.
func (p *Pool) coordinate(maxWorkers int) {
	var (
		queue        []*task
		workers      = make(map[int]*worker)
		busy         = make(map[int]*task)
		idle         []int
		nextWorkerID int
	)

	dispatch := func() {
		for len(queue) > 0 {
			var w *worker
			if len(idle) > 0 {
				w = workers[idle[len(idle)-1]]
				idle = idle[:len(idle)-1]
			} else if len(workers) < maxWorkers {
				nextWorkerID++
				w = newWorker(nextWorkerID)
				workers[w.id] = w
				go w.loop(p.run, p.doneCh, p.log)
				p.log.Debug("worker created",
					zap.Int("worker_id", w.id),
					zap.Int("workers", len(workers)),
				)
			} else {
				return // backpressure: leave tasks queued
			}

			t := queue[0]
			queue = queue[1:]
			busy[w.id] = t
			w.tasks <- t
		}
	}

	for {
		select {
		case t := <-p.submitCh:
			queue = append(queue, t)
			dispatch()

		case msg := <-p.doneCh:
			if t, ok := busy[msg.workerID]; ok {
				delete(busy, msg.workerID)
				t.done <- msg.result
			}
			if msg.fault != nil {
				// The faulted worker's goroutine has exited; drop it
				// from the registry and regrow on demand.
				delete(workers, msg.workerID)
			} else {
				idle = append(idle, msg.workerID)
			}
			dispatch()

		case reply := <-p.statsCh:
			reply <- model.PoolStats{
				MaxWorkers:    maxWorkers,
				ActiveWorkers: len(busy),
				QueuedTasks:   len(queue),
			}

		case n := <-p.resizeCh:
			maxWorkers = n
			dispatch()

		case req := <-p.quitCh:
			req.reply <- p.drain(queue, workers, busy)
			return
		}
	}
}

// drain resolves queued tasks as shutdown failures, closes every
// worker's task channel, and waits out in-flight work. Workers that do
// not finish within the grace period are abandoned: their task resolves
// as a shutdown failure and a late-message drainer keeps them from
// blocking on exit.
func (p *Pool) drain(queue []*task, workers map[int]*worker, busy map[int]*task) error {
	for _, t := range queue {
		t.done <- model.FailedResult(t.path, pkgerrors.ShutdownMessage)
	}

	for _, w := range workers {
		close(w.tasks)
	}

	var errs error
	grace := time.NewTimer(shutdownGrace)
	defer grace.Stop()

	for len(busy) > 0 {
		select {
		case msg := <-p.doneCh:
			if t, ok := busy[msg.workerID]; ok {
				delete(busy, msg.workerID)
				t.done <- msg.result
			}
		case <-grace.C:
			abandoned := 0
			for id, t := range busy {
				t.done <- model.FailedResult(t.path, pkgerrors.ShutdownMessage)
				errs = multierr.Append(errs,
					fmt.Errorf("worker %d did not stop within %s", id, shutdownGrace))
				delete(busy, id)
				abandoned++
			}
			go p.drainLate(abandoned)
		}
	}

	p.log.Info("pool drained", zap.Int("workers", len(workers)))
	return errs
}

// drainLate consumes the done messages of abandoned workers so their
// goroutines can exit once the stuck probe returns.
func (p *Pool) drainLate(n int) {
	for i := 0; i < n; i++ {
		<-p.doneCh
	}
}
