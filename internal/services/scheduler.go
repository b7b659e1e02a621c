package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"propwatch/internal/domain"
	applog "propwatch/internal/log"
	"propwatch/internal/validate"
)

var (
	// ErrScanRunning is returned by TriggerNow when a cycle is already in
	// flight. The caller gets an immediate answer instead of queueing a
	// second concurrent cycle.
	ErrScanRunning = errors.New("a scan cycle is already running")

	// ErrIntervalTooShort rejects intervals below the configured minimum.
	ErrIntervalTooShort = errors.New("scan interval below minimum")

	ErrAlreadyStarted = errors.New("scheduler already started")
)

// MinInterval is the lower bound for the repeating timer.
const MinInterval = validate.MinIntervalMinutes * time.Minute

// CycleFunc executes one scan cycle.
type CycleFunc func(ctx context.Context) (domain.ScanStats, error)

// Scheduler drives periodic cycles and serves on-demand triggers. The timer
// goroutine and the admin request path are genuinely concurrent; a single
// non-reentrant lock guarantees at most one cycle executes at a time.
type Scheduler struct {
	run CycleFunc

	mu       sync.Mutex // guards timer, interval, stopped
	interval time.Duration
	timer    *time.Timer
	stopped  bool

	cycleMu sync.Mutex // single-slot cycle lock, acquired with TryLock
}

func NewScheduler(run CycleFunc) *Scheduler {
	return &Scheduler{run: run}
}

// Start begins the repeating timer.
func (s *Scheduler) Start(interval time.Duration) error {
	if interval < MinInterval {
		return ErrIntervalTooShort
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		return ErrAlreadyStarted
	}
	s.interval = interval
	s.timer = time.AfterFunc(interval, s.tick)
	applog.Info(nil, "scheduler.start", map[string]any{"interval": interval.String()})
	return nil
}

// Stop cancels the pending timer. An in-flight cycle is not interrupted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
	}
}

// Interval returns the currently configured interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// Reconfigure atomically swaps the pending timer for one with the new
// interval. A cycle already running is unaffected; the change takes effect
// for the next tick.
func (s *Scheduler) Reconfigure(interval time.Duration) error {
	if interval < MinInterval {
		return ErrIntervalTooShort
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.interval = interval
	if s.timer != nil && !s.stopped {
		s.timer.Stop()
		s.timer.Reset(interval)
	}
	applog.Info(nil, "scheduler.reconfigure", map[string]any{"interval": interval.String()})
	return nil
}

// TriggerNow runs a cycle immediately and synchronously. If one is already
// running it returns ErrScanRunning without blocking.
func (s *Scheduler) TriggerNow() (domain.ScanStats, error) {
	return s.runCycle()
}

func (s *Scheduler) tick() {
	if _, err := s.runCycle(); err != nil && !errors.Is(err, ErrScanRunning) {
		// A failed cycle leaves prior data intact; the next tick tries again.
		applog.Error(nil, "scheduler.cycle.fail", err, nil)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		s.timer.Reset(s.interval)
	}
}

func (s *Scheduler) runCycle() (domain.ScanStats, error) {
	if !s.cycleMu.TryLock() {
		return domain.ScanStats{}, ErrScanRunning
	}
	defer s.cycleMu.Unlock()
	return s.run(context.Background())
}
