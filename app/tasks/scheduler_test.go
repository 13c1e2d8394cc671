package tasks

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lysyi3m/newsdesk/app/news"
	"github.com/lysyi3m/newsdesk/app/newscache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTask struct {
	Task
	newsCache *newscache.Cache
	failures  int
	block     chan struct{}
	executed  atomic.Int32
	finished  chan error
}

func newMockTask(newsCache *newscache.Cache, failures int) *mockTask {
	return &mockTask{
		Task:      NewTask(TaskTypeUpdateNews),
		newsCache: newsCache,
		failures:  failures,
		finished:  make(chan error, 1),
	}
}

func (m *mockTask) Execute(ctx context.Context) error {
	n := m.executed.Add(1)
	if m.block != nil {
		select {
		case <-m.block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if int(n) <= m.failures {
		return errors.New("temporary failure")
	}
	return nil
}

func (m *mockTask) Finish(err error) {
	m.newsCache.EndUpdate()
	m.finished <- err
}

func waitFinished(t *testing.T, task *mockTask) error {
	t.Helper()
	select {
	case err := <-task.finished:
		return err
	case <-time.After(5 * time.Second):
		t.Fatal("task did not finish")
		return nil
	}
}

func seededCache() *newscache.Cache {
	c := newscache.New()
	c.Replace(&news.Snapshot{LastUpdate: time.Now()})
	return c
}

func TestScheduler_RequestUpdate(t *testing.T) {
	newsCache := seededCache()
	task := newMockTask(newsCache, 0)
	task.block = make(chan struct{})

	s := NewScheduler(newsCache, func() TaskInterface { return task }, 0, 1)
	s.Start()
	defer s.Stop()

	started, err := s.RequestUpdate()
	require.NoError(t, err)
	assert.True(t, started)
	assert.True(t, newsCache.IsUpdating())

	started, err = s.RequestUpdate()
	require.NoError(t, err)
	assert.False(t, started, "second request while updating must not start a run")

	close(task.block)
	assert.NoError(t, waitFinished(t, task))
	assert.False(t, newsCache.IsUpdating())
	assert.Equal(t, int32(1), task.executed.Load())
	assert.Equal(t, 1, task.GetRetryCount())
}

func TestScheduler_RetriesFailedTask(t *testing.T) {
	newsCache := seededCache()
	task := newMockTask(newsCache, 2)

	s := NewScheduler(newsCache, func() TaskInterface { return task }, 0, 1)
	s.retryBase = time.Millisecond
	s.Start()
	defer s.Stop()

	_, err := s.RequestUpdate()
	require.NoError(t, err)

	assert.NoError(t, waitFinished(t, task))
	assert.Equal(t, int32(3), task.executed.Load())
	assert.Equal(t, 2, task.GetRetryCount())
}

func TestScheduler_GivesUpAfterMaxRetries(t *testing.T) {
	newsCache := seededCache()
	task := newMockTask(newsCache, 100)

	s := NewScheduler(newsCache, func() TaskInterface { return task }, 0, 1)
	s.retryBase = time.Millisecond
	s.Start()
	defer s.Stop()

	_, err := s.RequestUpdate()
	require.NoError(t, err)

	assert.Error(t, waitFinished(t, task))
	assert.Equal(t, int32(DefaultMaxRetries+1), task.executed.Load())
	assert.False(t, newsCache.IsUpdating())
}

func TestScheduler_StopReleasesPendingRetry(t *testing.T) {
	newsCache := seededCache()
	task := newMockTask(newsCache, 1)

	s := NewScheduler(newsCache, func() TaskInterface { return task }, 0, 1)
	s.retryBase = time.Hour
	s.Start()

	_, err := s.RequestUpdate()
	require.NoError(t, err)
	require.Eventually(t, func() bool { return task.executed.Load() == 1 }, 5*time.Second, time.Millisecond)
	// let the worker schedule the hour-long retry
	time.Sleep(20 * time.Millisecond)

	s.Stop()

	select {
	case err := <-task.finished:
		assert.Error(t, err)
	default:
		t.Fatal("Stop returned before the pending retry was finished")
	}
	assert.False(t, newsCache.IsUpdating())
	assert.Equal(t, int32(1), task.executed.Load())
	assert.Equal(t, 1, task.GetRetryCount())
}

func TestScheduler_StartupUpdateWhenEmpty(t *testing.T) {
	newsCache := newscache.New()
	task := newMockTask(newsCache, 0)

	s := NewScheduler(newsCache, func() TaskInterface { return task }, 0, 1)
	s.Start()
	defer s.Stop()

	assert.NoError(t, waitFinished(t, task))
}

func TestScheduler_PeriodicUpdates(t *testing.T) {
	newsCache := seededCache()
	var mu sync.Mutex
	var created []*mockTask

	s := NewScheduler(newsCache, func() TaskInterface {
		task := newMockTask(newsCache, 0)
		mu.Lock()
		created = append(created, task)
		mu.Unlock()
		return task
	}, 20*time.Millisecond, 2)
	s.Start()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(created) >= 2
	}, 5*time.Second, 10*time.Millisecond)

	s.Stop()
}

func TestScheduler_EnqueueAfterStop(t *testing.T) {
	newsCache := seededCache()
	s := NewScheduler(newsCache, func() TaskInterface { return newMockTask(newsCache, 0) }, 0, 1)
	s.Start()
	s.Stop()

	started, err := s.RequestUpdate()
	assert.Error(t, err)
	assert.False(t, started)
	assert.False(t, newsCache.IsUpdating(), "failed enqueue must release the update flag")
}

func TestTask_Retry(t *testing.T) {
	task := NewTask(TaskTypeUpdateNews)

	assert.NotEmpty(t, task.GetID())
	assert.Equal(t, TaskTypeUpdateNews, task.GetType())
	assert.Equal(t, time.Duration(0), task.GetDuration())

	for range DefaultMaxRetries {
		assert.True(t, task.CanRetry())
		task.IncrementRetryCount()
	}
	assert.False(t, task.CanRetry())

	task.Start()
	assert.NotNil(t, task.StartedAt)
}
