// Package scheduler drives registered collectors on a shared tick and keeps
// a bounded run history per collector.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"go.opentelemetry.io/otel/trace"

	"chainpulse/internal/cache"
	"chainpulse/internal/domain"
	"chainpulse/internal/task"
)

var (
	// ErrDuplicateName is returned when two collectors register the same name.
	ErrDuplicateName = errors.New("duplicate collector name")
	// ErrUnknownCollector is returned when a trigger names no registered collector.
	ErrUnknownCollector = errors.New("unknown collector")
)

// DefaultTick is the shared scheduling cadence. Collector Interval() values
// are advisory; the scheduler runs every registered collector each tick.
const DefaultTick = time.Minute

// historyLimit bounds the per-collector run history ring.
const historyLimit = 50

// Sink receives the metrics of each successful run. Sink failures are
// recorded on the run result but never fail the run.
type Sink interface {
	StoreMetrics(ctx context.Context, metrics []domain.Metric) error
}

// RunListener is notified after each full pass, manual or scheduled.
type RunListener interface {
	RunsCompleted(results []domain.RunResult)
}

// CollectorInfo is the externally visible state of one registered collector.
type CollectorInfo struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Interval    time.Duration          `json:"interval"`
	Status      domain.CollectorStatus `json:"status"`
	LastRun     *domain.RunResult      `json:"last_run,omitempty"`
}

// Scheduler owns the collector registry and the run loop. Passes are
// sequential: one collector at a time, failures isolated per collector.
type Scheduler struct {
	cache  *cache.SnapshotCache
	tracer trace.Tracer
	tick   time.Duration

	sink     Sink
	listener RunListener

	mu         sync.RWMutex
	collectors []task.Collector
	statuses   map[string]domain.CollectorStatus
	history    map[string][]domain.RunResult

	runMu  sync.Mutex
	wg     sync.WaitGroup
	cancel context.CancelFunc
}

func New(c *cache.SnapshotCache, tick time.Duration, tracer trace.Tracer) *Scheduler {
	if tick <= 0 {
		tick = DefaultTick
	}
	return &Scheduler{
		cache:    c,
		tracer:   tracer,
		tick:     tick,
		statuses: make(map[string]domain.CollectorStatus),
		history:  make(map[string][]domain.RunResult),
	}
}

// WithSink attaches a best-effort persistence sink.
func (s *Scheduler) WithSink(sink Sink) *Scheduler {
	s.sink = sink
	return s
}

// WithListener attaches a post-pass notification target.
func (s *Scheduler) WithListener(l RunListener) *Scheduler {
	s.listener = l
	return s
}

// Register adds a collector. Names must be unique.
func (s *Scheduler) Register(col task.Collector) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.statuses[col.Name()]; exists {
		return fmt.Errorf("%s: %w", col.Name(), ErrDuplicateName)
	}
	s.collectors = append(s.collectors, col)
	s.statuses[col.Name()] = domain.StatusIdle
	return nil
}

// Start launches the run loop: one immediate pass, then one per tick.
// Returns an error when called twice or with nothing registered.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	if len(s.collectors) == 0 {
		s.mu.Unlock()
		return errors.New("no collectors registered")
	}
	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.ExecuteAll(runCtx)

		ticker := time.NewTicker(s.tick)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.ExecuteAll(runCtx)
			}
		}
	}()
	return nil
}

// Stop cancels the run loop and waits for any in-flight pass to drain.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
}

// ExecuteAll runs every collector once, sequentially. A panicking or failing
// collector never affects the others. Concurrent calls are serialized.
func (s *Scheduler) ExecuteAll(ctx context.Context) []domain.RunResult {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	ctx, span := s.tracer.Start(ctx, "scheduler.execute-all")
	defer span.End()

	s.mu.RLock()
	collectors := make([]task.Collector, len(s.collectors))
	copy(collectors, s.collectors)
	s.mu.RUnlock()

	results := make([]domain.RunResult, 0, len(collectors))
	for _, col := range collectors {
		if ctx.Err() != nil {
			break
		}
		results = append(results, s.runCollector(ctx, col))
	}

	if s.listener != nil && len(results) > 0 {
		s.listener.RunsCompleted(results)
	}
	return results
}

// ExecuteOne runs a single collector by name.
func (s *Scheduler) ExecuteOne(ctx context.Context, name string) (domain.RunResult, error) {
	s.mu.RLock()
	var target task.Collector
	for _, col := range s.collectors {
		if col.Name() == name {
			target = col
			break
		}
	}
	s.mu.RUnlock()
	if target == nil {
		return domain.RunResult{}, fmt.Errorf("%s: %w", name, ErrUnknownCollector)
	}

	s.runMu.Lock()
	defer s.runMu.Unlock()
	result := s.runCollector(ctx, target)
	if s.listener != nil {
		s.listener.RunsCompleted([]domain.RunResult{result})
	}
	return result, nil
}

func (s *Scheduler) runCollector(ctx context.Context, col task.Collector) (result domain.RunResult) {
	name := col.Name()
	s.setStatus(name, domain.StatusRunning)

	start := time.Now()
	result = domain.RunResult{
		CollectorName: name,
		ExecutedAt:    start.UTC(),
	}

	defer func() {
		if r := recover(); r != nil {
			result.Success = false
			result.Error = fmt.Sprintf("panic: %v", r)
		}
		result.Duration = time.Since(start)
		status := domain.StatusCompleted
		if !result.Success {
			status = domain.StatusFailed
			log.Printf("collector %s failed: %s", name, result.Error)
		}
		s.mu.Lock()
		s.statuses[name] = status
		ring := append(s.history[name], result)
		if len(ring) > historyLimit {
			ring = ring[len(ring)-historyLimit:]
		}
		s.history[name] = ring
		s.mu.Unlock()
	}()

	metrics, err := col.Execute(ctx, s.cache)
	if err != nil {
		result.Success = false
		result.Error = err.Error()
		return result
	}
	result.Success = true
	result.MetricsCount = len(metrics)

	if s.sink != nil && len(metrics) > 0 {
		if err := s.sink.StoreMetrics(ctx, metrics); err != nil {
			result.SinkError = err.Error()
			log.Printf("collector %s: sink: %v", name, err)
		}
	}
	return result
}

func (s *Scheduler) setStatus(name string, status domain.CollectorStatus) {
	s.mu.Lock()
	s.statuses[name] = status
	s.mu.Unlock()
}

// Collectors reports every registered collector in registration order.
func (s *Scheduler) Collectors() []CollectorInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	infos := make([]CollectorInfo, 0, len(s.collectors))
	for _, col := range s.collectors {
		info := CollectorInfo{
			Name:        col.Name(),
			Description: col.Description(),
			Interval:    col.Interval(),
			Status:      s.statuses[col.Name()],
		}
		if runs := s.history[col.Name()]; len(runs) > 0 {
			last := runs[len(runs)-1]
			info.LastRun = &last
		}
		infos = append(infos, info)
	}
	return infos
}

// History returns the recorded runs for one collector, oldest first.
func (s *Scheduler) History(name string) ([]domain.RunResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.statuses[name]; !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrUnknownCollector)
	}
	runs := s.history[name]
	out := make([]domain.RunResult, len(runs))
	copy(out, runs)
	return out, nil
}
