package tasks

import (
	"context"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/matchdaylabs/teamstats/internal/platform/logging"
)

// Runner executes best-effort work decoupled from the request lifecycle.
// A submitted task that fails is logged, never propagated: the transaction
// that triggered it has already committed and must stay committed.
type Runner struct {
	pool    *ants.Pool
	logger  *logging.Logger
	timeout time.Duration
	wg      sync.WaitGroup
}

func NewRunner(workers int, taskTimeout time.Duration, logger *logging.Logger) (*Runner, error) {
	if workers < 1 {
		workers = 4
	}
	if taskTimeout <= 0 {
		taskTimeout = 30 * time.Second
	}
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(workers, ants.WithNonblocking(true))
	if err != nil {
		return nil, err
	}

	return &Runner{
		pool:    pool,
		logger:  logger,
		timeout: taskTimeout,
	}, nil
}

// Submit queues fn for execution. The task gets its own context with the
// runner's timeout; it must not borrow the request context, which is gone
// by the time the task runs. Overload drops the task with a logged error.
func (r *Runner) Submit(name string, fn func(ctx context.Context) error) {
	r.wg.Add(1)
	err := r.pool.Submit(func() {
		defer r.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()

		started := time.Now()
		if err := fn(ctx); err != nil {
			r.logger.ErrorContext(ctx, "background task failed",
				"task", name,
				"error", err,
				"duration_ms", time.Since(started).Milliseconds(),
			)
			return
		}
		r.logger.DebugContext(ctx, "background task done",
			"task", name,
			"duration_ms", time.Since(started).Milliseconds(),
		)
	})
	if err != nil {
		r.wg.Done()
		r.logger.Error("background task dropped", "task", name, "error", err)
	}
}

// Close waits for in-flight tasks and releases the pool.
func (r *Runner) Close() {
	r.wg.Wait()
	r.pool.Release()
}
