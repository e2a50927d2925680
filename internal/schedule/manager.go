package schedule

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/n0sat/satbot/internal/errors"
	"github.com/n0sat/satbot/internal/logger"
)

// Outcome is what a worker body reports back to the manager on success, for
// the "log the resulting summary" step of the worker loop.
type Outcome struct {
	Summary string
	Fields  []interface{}
}

// WorkBody is the action a worker performs on each trigger. A returned
// error is considered retryable up to the worker's retry budget.
type WorkBody func(ctx context.Context) (Outcome, error)

// RetryPolicy bounds how a worker's body is retried on failure.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration
}

// NoRetry runs the body exactly once, for workers like Image GC that carry
// no retry policy per §4.1's table.
var NoRetry = RetryPolicy{MaxAttempts: 1}

// LoTWQO100Retry is the "1" retry column shared by LoTW, QO-100, and
// DX-World: a single attempt, no backoff.
var LoTWQO100Retry = RetryPolicy{MaxAttempts: 1}

// AMSATRetry implements "up to 3 attempts, 60 s backoff" for the AMSAT
// update worker.
var AMSATRetry = RetryPolicy{
	MaxAttempts: 3,
	Backoff: func(attempt int) time.Duration {
		return 60 * time.Second
	},
}

// TriggerFunc computes a worker's next wall-clock trigger given now.
type TriggerFunc func(now time.Time) time.Time

// Worker is one periodic task owned by the Manager: a cadence, a timeout, a
// retry policy, and the body to execute.
type Worker struct {
	Name        string
	Trigger     TriggerFunc
	Timeout     time.Duration
	Retry       RetryPolicy
	Body        WorkBody
	InitialTick bool

	now func() time.Time
}

// Manager owns the lifetimes of the scheduled workers. shutdown() aborts
// every worker's context; in-flight HTTP calls may be dropped mid-flight,
// which is acceptable because every worker is idempotent — persistence is
// only written after a successful in-memory merge.
type Manager struct {
	mu      sync.Mutex
	workers []*Worker
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	log     *zap.SugaredLogger
	now     func() time.Time
}

// NewManager builds a Manager bound to a parent context. Cancelling ctx or
// calling Shutdown stops every worker between iterations.
func NewManager(ctx context.Context) *Manager {
	managerCtx, cancel := context.WithCancel(ctx)
	return &Manager{
		ctx:    managerCtx,
		cancel: cancel,
		log:    logger.With(logger.SymSchedule),
		now:    time.Now,
	}
}

// Register adds a worker. Must be called before Start.
func (m *Manager) Register(w *Worker) {
	if w.now == nil {
		w.now = m.now
	}
	m.mu.Lock()
	m.workers = append(m.workers, w)
	m.mu.Unlock()
}

// Start launches a goroutine per registered worker.
func (m *Manager) Start() {
	m.mu.Lock()
	workers := append([]*Worker(nil), m.workers...)
	m.mu.Unlock()

	for _, w := range workers {
		m.wg.Add(1)
		go m.run(w)
	}
	m.log.Infow("scheduler started", "workers", len(workers))
}

// Shutdown cancels every worker and waits for their loops to exit.
func (m *Manager) Shutdown() {
	m.cancel()
	m.wg.Wait()
	m.log.Infow("scheduler stopped")
}

func (m *Manager) run(w *Worker) {
	defer m.wg.Done()

	next := w.now()
	if !w.InitialTick {
		next = w.Trigger(next)
	}

	for {
		wait := time.Until(next)
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-m.ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
			}
		} else {
			select {
			case <-m.ctx.Done():
				return
			default:
			}
		}

		outcome, err := runWithRetry(m.ctx, w, m.log)
		if err != nil {
			m.log.Errorw("worker failed", "worker", w.Name, "error", err)
		} else {
			fields := append([]interface{}{"worker", w.Name, "summary", outcome.Summary}, outcome.Fields...)
			m.log.Infow("worker completed", fields...)
		}

		next = w.Trigger(w.now())
	}
}

// runWithRetry invokes w.Body inside a per-worker timeout, retrying per
// w.Retry. Each attempt's failure is logged as a structured warning before
// the next attempt or final failure.
func runWithRetry(parent context.Context, w *Worker, log *zap.SugaredLogger) (Outcome, error) {
	policy := w.Retry
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		ctx := parent
		var cancel context.CancelFunc
		if w.Timeout > 0 {
			ctx, cancel = context.WithTimeout(parent, w.Timeout)
		}
		outcome, err := w.Body(ctx)
		if cancel != nil {
			cancel()
		}
		if err == nil {
			return outcome, nil
		}

		lastErr = err
		log.Warnw("worker attempt failed",
			"worker", w.Name, "attempt", attempt, "max_attempts", policy.MaxAttempts, "error", err)

		if attempt == policy.MaxAttempts {
			break
		}
		if parent.Err() != nil {
			break
		}
		if policy.Backoff != nil {
			select {
			case <-parent.Done():
				return Outcome{}, parent.Err()
			case <-time.After(policy.Backoff(attempt)):
			}
		}
	}

	return Outcome{}, errors.Wrapf(lastErr, "worker %s exhausted retries", w.Name)
}
