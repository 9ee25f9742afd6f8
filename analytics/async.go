package analytics

import (
	"context"
	"log/slog"
	"runtime"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/answerit/core"
	"github.com/poiesic/answerit/match"
)

// AsyncRecorder wraps a QueryLog and runs every Log call on a worker pool,
// detached from the request context. Submission failures are logged and
// swallowed.
type AsyncRecorder struct {
	inner  match.QueryLog
	pool   *ants.Pool
	logger *slog.Logger
}

var _ match.QueryLog = (*AsyncRecorder)(nil)

// AsyncOption configures an AsyncRecorder.
type AsyncOption func(*AsyncRecorder) error

// WithAsyncLogger sets a custom logger.
// Default is slog.Default().
func WithAsyncLogger(logger *slog.Logger) AsyncOption {
	return func(a *AsyncRecorder) error {
		if logger == nil {
			logger = slog.Default()
		}
		a.logger = logger
		return nil
	}
}

// WithAsyncPoolSize sets the worker pool size.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithAsyncPoolSize(size int) AsyncOption {
	return func(a *AsyncRecorder) error {
		if size < 1 {
			size = 1
		}
		if a.pool != nil {
			a.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		a.pool = pool
		return nil
	}
}

// NewAsyncRecorder creates an async wrapper around the given recorder.
func NewAsyncRecorder(inner match.QueryLog, opts ...AsyncOption) (*AsyncRecorder, error) {
	if inner == nil {
		return nil, ErrRecorderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	a := &AsyncRecorder{
		inner:  inner,
		pool:   pool,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(a); err != nil {
			a.pool.Release()
			return nil, err
		}
	}

	return a, nil
}

// Log submits the write to the worker pool and returns immediately.
// The request context is deliberately not propagated: a cancelled request
// must not cancel its analytics write.
func (a *AsyncRecorder) Log(_ context.Context, query *core.Query, result *core.MatchResult) {
	err := a.pool.Submit(func() {
		a.inner.Log(context.Background(), query, result)
	})
	if err != nil {
		a.logger.Warn("failed to submit query event", "err", err)
	}
}

// Release releases the worker pool. Queued writes may be dropped.
// The recorder should not be used after calling Release.
func (a *AsyncRecorder) Release() {
	if a.pool != nil {
		a.pool.Release()
	}
}
