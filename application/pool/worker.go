package pool

import (
	"context"
	"fmt"

	"github.com/bbidwell85/Totality-sub002/domain/model"
	pkgerrors "github.com/bbidwell85/Totality-sub002/pkg/errors"
	"github.com/bbidwell85/Totality-sub002/pkg/logger"
	"go.uber.org/zap"
)

// worker is one execution context. It owns no shared state: tasks
// arrive on its private channel and every outcome goes back to the
// coordinator as a message.
type worker struct {
	id    int
	tasks chan *task
}

func newWorker(id int) *worker {
	return &worker{
		id: id,
		// Buffered so the coordinator never blocks on assignment; a
		// worker is only handed a new task after reporting the last.
		tasks: make(chan *task, 1),
	}
}

// loop runs until the task channel is closed or the worker faults.
// A faulted worker reports the fault and exits; the coordinator removes
// it and regrows capacity on the next dispatch pass.
func (w *worker) loop(run AnalyzeFunc, done chan<- workerMsg, log *logger.Logger) {
	for t := range w.tasks {
		res, fault := w.analyze(run, t)
		done <- workerMsg{workerID: w.id, result: res, fault: fault}
		if fault != nil {
			log.Warn("worker exiting after fault",
				zap.Int("worker_id", w.id),
				zap.Error(fault),
			)
			return
		}
	}
}

// analyze runs one task, converting a panic into a worker-fault result
// so no fault ever propagates past the worker boundary.
func (w *worker) analyze(run AnalyzeFunc, t *task) (res *model.FileAnalysisResult, fault error) {
	defer func() {
		if r := recover(); r != nil {
			err := pkgerrors.NewWorkerFaultError(w.id, fmt.Errorf("%v", r))
			fault = err
			res = model.FailedResult(t.path, err.Error())
		}
	}()

	// Dispatched tasks are not cancellable; the probe's own timeout is
	// the only bound.
	return run(context.Background(), t.path), nil
}
