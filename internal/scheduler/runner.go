// Package scheduler runs the engine's periodic work: the notification scan,
// retry drain, record cleanup, catalog refresh, and calendar resync. Each task
// is a named tick function on its own interval so tests can invoke ticks
// directly and deployments can split tasks across processes.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/salonops/booking-engine/pkg/logging"
)

// TickFunc performs one run of a periodic task.
type TickFunc func(ctx context.Context) error

// Task is one named periodic job.
type Task struct {
	Name     string
	Interval time.Duration
	Tick     TickFunc
	// RunOnStart fires the first tick immediately instead of waiting a full
	// interval. The scan and cleanup want this so a restart never widens the
	// gap between passes.
	RunOnStart bool
}

// Runner drives a set of tasks on independent tickers.
type Runner struct {
	tasks  []Task
	lease  *Lease
	logger *logging.Logger
}

// NewRunner creates an empty runner.
func NewRunner(logger *logging.Logger) *Runner {
	if logger == nil {
		logger = logging.Default()
	}
	return &Runner{logger: logger}
}

// Add registers a task. Tasks with no tick or non-positive interval are
// dropped with a warning rather than wedging the runner.
func (r *Runner) Add(task Task) *Runner {
	if task.Tick == nil || task.Interval <= 0 {
		r.logger.Warn("scheduler: dropping misconfigured task", "task", task.Name)
		return r
	}
	r.tasks = append(r.tasks, task)
	return r
}

// WithLease makes every task single-flight across replicas via a Redis lease.
// Without one, every replica runs every task; correctness relies on the tasks
// themselves being idempotent.
func (r *Runner) WithLease(lease *Lease) *Runner {
	r.lease = lease
	return r
}

// Run blocks until ctx is cancelled, ticking every registered task.
func (r *Runner) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, task := range r.tasks {
		wg.Add(1)
		go func(task Task) {
			defer wg.Done()
			r.runTask(ctx, task)
		}(task)
	}
	r.logger.Info("scheduler started", "tasks", len(r.tasks))
	wg.Wait()
	r.logger.Info("scheduler stopped")
}

func (r *Runner) runTask(ctx context.Context, task Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	if task.RunOnStart {
		r.tick(ctx, task)
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.tick(ctx, task)
		}
	}
}

func (r *Runner) tick(ctx context.Context, task Task) {
	if r.lease != nil {
		acquired, err := r.lease.Acquire(ctx, task.Name, task.Interval)
		if err != nil {
			// lease trouble never blocks the work, the tasks are idempotent
			r.logger.Warn("scheduler lease check failed, running anyway", "task", task.Name, "error", err)
		} else if !acquired {
			return
		}
	}

	start := time.Now()
	if err := task.Tick(ctx); err != nil {
		r.logger.Error("scheduler task failed", "task", task.Name, "error", err, "elapsed", time.Since(start).String())
		return
	}
	r.logger.Debug("scheduler task complete", "task", task.Name, "elapsed", time.Since(start).String())
}
