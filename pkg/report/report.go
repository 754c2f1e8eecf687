package report

import (
	"context"

	"github.com/klokku/ledger/pkg/finance"
)

type SettingsReader interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
	GetProject(ctx context.Context, projectId int) (finance.Project, error)
	ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error)
}

type EntryReader interface {
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error)
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error)
}

type CostReader interface {
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error)
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error)
}

type RateReader interface {
	DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error)
}

// Readers groups the data sources a report snapshot is assembled from.
type Readers struct {
	Settings SettingsReader
	Entries  EntryReader
	Costs    CostReader
	Rates    RateReader
}
