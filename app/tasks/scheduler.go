package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/newsdesk/app/metrics"
	"github.com/lysyi3m/newsdesk/app/newscache"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

const (
	queueSize     = 16
	taskTimeout   = 10 * time.Minute
	maxRetryDelay = 30 * time.Second
)

type Scheduler struct {
	newsCache   *newscache.Cache
	newTask     func() TaskInterface
	interval    time.Duration
	workerCount int
	retryBase   time.Duration
	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	taskQueue   chan TaskInterface
}

// NewScheduler creates a worker pool for update runs. newTask builds a fresh
// update task for every run. An interval of zero disables periodic updates;
// runs then only happen on RequestUpdate.
func NewScheduler(newsCache *newscache.Cache, newTask func() TaskInterface, interval time.Duration, workerCount int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		newsCache:   newsCache,
		newTask:     newTask,
		interval:    interval,
		workerCount: max(workerCount, 1),
		retryBase:   time.Second,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, queueSize),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	s.enqueueStartupTasks()

	if s.interval <= 0 {
		slog.Debug("Periodic updates disabled")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels running tasks and waits for the workers and pending retries to
// exit. A retry that has not run yet is finished with its last error.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
	}

	select {
	case s.taskQueue <- task:
		return nil
	case <-s.ctx.Done():
		return s.ctx.Err()
	default:
		return fmt.Errorf("task queue is full")
	}
}

// RequestUpdate queues an update run unless one is already queued or
// running. It reports whether a run was started.
func (s *Scheduler) RequestUpdate() (bool, error) {
	if !s.newsCache.BeginUpdate() {
		return false, nil
	}
	metrics.SetUpdating(true)

	task := s.newTask()
	if err := s.EnqueueTask(task); err != nil {
		task.Finish(err)
		return false, fmt.Errorf("failed to enqueue update: %w", err)
	}

	slog.Info("News update queued", "id", task.GetID())
	return true, nil
}

func (s *Scheduler) enqueueStartupTasks() {
	if !s.newsCache.Snapshot().Empty() {
		slog.Debug("Serving stored snapshot, no startup update needed")
		return
	}

	if _, err := s.RequestUpdate(); err != nil {
		slog.Warn("Failed to enqueue startup update", "error", err)
	}
}

func (s *Scheduler) enqueueTasks() {
	started, err := s.RequestUpdate()
	if err != nil {
		slog.Warn("Failed to enqueue scheduled update", "error", err)
		return
	}
	if !started {
		slog.Debug("Update already in progress, skipping scheduled run")
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)
	if err == nil {
		task.Finish(nil)
		return
	}

	slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

	if !task.CanRetry() || s.ctx.Err() != nil {
		slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		task.Finish(err)
		return
	}

	task.IncrementRetryCount()
	retryDelay := min(s.retryBase<<uint(task.GetRetryCount()-1), maxRetryDelay)

	slog.Warn("Task retry scheduled", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timer := time.NewTimer(retryDelay)
		defer timer.Stop()

		select {
		case <-s.ctx.Done():
			slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
			task.Finish(err)
		case <-timer.C:
			if retryErr := s.EnqueueTask(task); retryErr != nil {
				slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				task.Finish(err)
			}
		}
	}()
}
