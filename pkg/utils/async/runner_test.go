package async_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/nelsonrsmacedo-nrsm/hermescad/pkg/utils/async"
)

func waitFor(t *testing.T, r *async.Runner) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	gt.NoError(t, r.Wait(ctx)).Required()
}

func TestRunnerGo(t *testing.T) {
	t.Run("runs every task", func(t *testing.T) {
		r := async.NewRunner(0)
		var counter atomic.Int32
		for range 10 {
			r.Go(context.Background(), "count", func(ctx context.Context) error {
				counter.Add(1)
				return nil
			})
		}
		waitFor(t, r)
		gt.Equal(t, counter.Load(), int32(10))
	})

	t.Run("failing and panicking tasks do not stop the runner", func(t *testing.T) {
		r := async.NewRunner(0)
		r.Go(context.Background(), "failing", func(ctx context.Context) error {
			return goerr.New("slack unavailable")
		})
		r.Go(context.Background(), "panicking", func(ctx context.Context) error {
			panic("boom")
		})
		waitFor(t, r)
	})

	t.Run("cancelling the request does not reach the task", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		r := async.NewRunner(0)
		var taskErr error
		r.Go(ctx, "detached", func(ctx context.Context) error {
			taskErr = ctx.Err()
			return nil
		})
		waitFor(t, r)
		gt.NoError(t, taskErr)
	})

	t.Run("timeout bounds the task", func(t *testing.T) {
		r := async.NewRunner(20 * time.Millisecond)
		var taskErr error
		r.Go(context.Background(), "slow report", func(ctx context.Context) error {
			<-ctx.Done()
			taskErr = ctx.Err()
			return taskErr
		})
		waitFor(t, r)
		gt.True(t, errors.Is(taskErr, context.DeadlineExceeded))
	})
}

func TestRunnerLogger(t *testing.T) {
	var buf bytes.Buffer
	var mu sync.Mutex
	logger := slog.New(slog.NewTextHandler(&lockedWriter{w: &buf, mu: &mu}, nil))
	ctx := ctxlog.With(context.Background(), logger)

	r := async.NewRunner(0)
	r.Go(ctx, "report outcome", func(ctx context.Context) error {
		ctxlog.From(ctx).Info("inside")
		return nil
	}, "channel", "email")
	waitFor(t, r)

	mu.Lock()
	defer mu.Unlock()
	gt.S(t, buf.String()).Contains(`task="report outcome"`)
	gt.S(t, buf.String()).Contains("channel=email")
}

func TestRunnerWait(t *testing.T) {
	r := async.NewRunner(0)
	release := make(chan struct{})
	r.Go(context.Background(), "blocked", func(ctx context.Context) error {
		<-release
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := r.Wait(ctx)
	gt.True(t, errors.Is(err, context.DeadlineExceeded))

	close(release)
	waitFor(t, r)
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}
