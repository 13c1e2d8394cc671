package tasks

import (
	"context"

	"github.com/lysyi3m/newsdesk/app/news"
)

// TaskSchedulerInterface is what main and the API see of the scheduler.
type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
	RequestUpdate() (bool, error)
}

type SnapshotRepository interface {
	Save(ctx context.Context, snapshot *news.Snapshot) error
}
