// Package scheduler implements the task scheduler (spec.md §4.4, component
// C4): a single-process, single-loop min-heap of (execution_time, task_id,
// callback) tuples, with immediate heap-removal cancellation and startup catch-up
// recovery. Grounded on original_source's task_scheduler.py (heap + 5s
// bounded wait + background execution loop), re-expressed with Go's
// container/heap, goroutines and channels in place of asyncio.
package scheduler

import (
	"container/heap"
	"context"
	"sort"
	"sync"
	"time"

	"minute-empire-backend/internal/logger"

	"go.uber.org/zap"
)

// Callback is the work a scheduled task performs when it comes due.
type Callback func(ctx context.Context) error

// entry is one scheduled task. insertionSeq breaks ties between tasks that
// share a completion_time, per spec.md §4.4's "ties broken by insertion
// order" ordering contract.
type entry struct {
	executionTime time.Time
	taskID        string
	callback      Callback
	insertionSeq  uint64
	index         int // heap.Interface bookkeeping
}

type entryHeap []*entry

func (h entryHeap) Len() int { return len(h) }
func (h entryHeap) Less(i, j int) bool {
	if !h[i].executionTime.Equal(h[j].executionTime) {
		return h[i].executionTime.Before(h[j].executionTime)
	}
	return h[i].insertionSeq < h[j].insertionSeq
}
func (h entryHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}
func (h *entryHeap) Push(x any) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *entryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler is the single background loop described in spec.md §4.4. Every
// exported method is safe for concurrent use.
type Scheduler struct {
	mu        sync.Mutex
	heap      entryHeap
	byID      map[string]*entry
	nextSeq   uint64
	wake      chan struct{}
	started   bool
	stop      chan struct{}
	stopped   chan struct{}
}

// New builds an idle Scheduler. Call Run to start its background loop.
func New() *Scheduler {
	return &Scheduler{
		byID: make(map[string]*entry),
		wake: make(chan struct{}, 1),
		stop: make(chan struct{}),
	}
}

// Schedule enqueues callback to run at executionTime under taskID. Re-using
// a live taskID is a caller error (task ids come from unique document ids,
// so collisions should not happen); the prior entry is replaced.
func (s *Scheduler) Schedule(taskID string, executionTime time.Time, callback Callback) {
	s.mu.Lock()
	if old, exists := s.byID[taskID]; exists {
		heap.Remove(&s.heap, old.index)
	}
	s.nextSeq++
	e := &entry{executionTime: executionTime, taskID: taskID, callback: callback, insertionSeq: s.nextSeq}
	heap.Push(&s.heap, e)
	s.byID[taskID] = e
	s.mu.Unlock()

	s.notifyWake()
}

// Cancel removes a still-pending task from the heap immediately, reporting
// whether a live task was actually removed (spec.md §4.4).
func (s *Scheduler) Cancel(taskID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.byID[taskID]
	if !exists {
		return false
	}
	heap.Remove(&s.heap, e.index)
	delete(s.byID, taskID)
	return true
}

// PendingCount reports the number of tasks currently in the heap.
func (s *Scheduler) PendingCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.heap)
}

func (s *Scheduler) notifyWake() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// Run starts the background loop and blocks until ctx is canceled. Callbacks
// are executed in independent goroutines and may overlap each other; the
// loop itself stays single-threaded, matching spec.md §4.4's concurrency
// contract.
func (s *Scheduler) Run(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.stopped = make(chan struct{})
	s.mu.Unlock()
	defer close(s.stopped)

	const idleSleep = 5 * time.Second
	timer := time.NewTimer(idleSleep)
	defer timer.Stop()

	for {
		wait := s.nextWait(idleSleep)
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-ctx.Done():
			return
		case <-s.stop:
			return
		case <-timer.C:
			s.runDueTasks()
		case <-s.wake:
			s.runDueTasks()
		}
	}
}

// Shutdown stops Run's loop if it is running. It does not wait for
// in-flight callback goroutines to finish.
func (s *Scheduler) Shutdown() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	close(s.stop)
	<-s.stopped
}

// nextWait returns how long Run should wait before re-checking the heap:
// time until the next task is due, bounded above by idleSleep.
func (s *Scheduler) nextWait(idleSleep time.Duration) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.heap) == 0 {
		return idleSleep
	}
	wait := time.Until(s.heap[0].executionTime)
	if wait < 0 {
		return 0
	}
	if wait > idleSleep {
		return idleSleep
	}
	return wait
}

// runDueTasks pops every task whose executionTime has arrived and spawns an
// independent worker goroutine for each.
func (s *Scheduler) runDueTasks() {
	for {
		s.mu.Lock()
		if len(s.heap) == 0 || s.heap[0].executionTime.After(time.Now()) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.heap).(*entry)
		delete(s.byID, e.taskID)
		s.mu.Unlock()

		go s.execute(e)
	}
}

func (s *Scheduler) execute(e *entry) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("scheduler: task panicked", zap.String("task_id", e.taskID), zap.Any("panic", r))
		}
	}()
	if err := e.callback(context.Background()); err != nil {
		logger.Error("scheduler: task callback failed", zap.String("task_id", e.taskID), zap.Error(err))
	}
}

// RecoveryTask is one unprocessed task discovered at startup, carrying
// enough information to run in catch-up or be scheduled forward.
type RecoveryTask struct {
	TaskID         string
	CompletionTime time.Time
	// Run executes the task's effect using effectiveNow as the instant
	// passed through to the resource-accrual engine, per spec.md §4.4's
	// catch-up contract: this is the *scheduled* completion_time during
	// catch-up, and the real wall clock for forward-scheduled execution.
	Run func(ctx context.Context, effectiveNow time.Time) error
}

// Recover implements spec.md §4.4's two-phase startup recovery: tasks due
// in the past are executed synchronously in completion_time order using
// their original scheduled time (so a village that was offline for an hour
// accrues exactly what it would have, not a teleported lump sum), then
// every future task is enqueued into the live heap.
func (s *Scheduler) Recover(ctx context.Context, tasks []RecoveryTask, now time.Time) error {
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].CompletionTime.Before(tasks[j].CompletionTime)
	})

	for _, t := range tasks {
		if t.CompletionTime.After(now) {
			completion := t.CompletionTime
			run := t.Run
			s.Schedule(t.TaskID, completion, func(ctx context.Context) error {
				return run(ctx, time.Now())
			})
			continue
		}

		if err := t.Run(ctx, t.CompletionTime); err != nil {
			logger.Error("scheduler: catch-up task failed, continuing recovery",
				zap.String("task_id", t.TaskID), zap.Error(err))
		}
	}
	return nil
}
