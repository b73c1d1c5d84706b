package async

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Runner starts work that must outlive the request that triggered it, such as
// publishing a dispatch outcome after the HTTP response was written. Started
// tasks are tracked so shutdown can wait for them.
type Runner struct {
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewRunner creates a Runner. timeout bounds each task; zero leaves tasks unbounded.
func NewRunner(timeout time.Duration) *Runner {
	return &Runner{timeout: timeout}
}

// Go runs handler in a new goroutine. Its context carries only the logger of
// ctx, tagged with the task name and attrs, and is not cancelled with ctx.
func (r *Runner) Go(ctx context.Context, task string, handler func(ctx context.Context) error, attrs ...any) {
	taskCtx, cancel := r.taskContext(ctx, task, attrs)
	logger := ctxlog.From(taskCtx)

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		defer cancel()
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("Panic in background task",
					"recover", rec,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := handler(taskCtx); err != nil {
			logger.Error("Background task failed", "error", err)
		}
	}()
}

// Wait blocks until every started task returned or ctx is done
func (r *Runner) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return goerr.Wrap(ctx.Err(), "background tasks still running")
	}
}

func (r *Runner) taskContext(ctx context.Context, task string, attrs []any) (context.Context, context.CancelFunc) {
	taskCtx := context.Background()
	if logger := ctxlog.From(ctx); logger != nil {
		taskCtx = ctxlog.With(taskCtx, logger.With("task", task).With(attrs...))
	}
	if r.timeout > 0 {
		return context.WithTimeout(taskCtx, r.timeout)
	}
	return context.WithCancel(taskCtx)
}
