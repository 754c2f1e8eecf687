package cost

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/klokku/ledger/pkg/finance"
)

type RepositoryStub struct {
	items []finance.CostItem
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (s *RepositoryStub) Store(ctx context.Context, item finance.CostItem) error {
	s.items = append(s.items, item)
	return nil
}

func (s *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (finance.CostItem, error) {
	for _, item := range s.items {
		if item.Id == id {
			return item, nil
		}
	}
	return finance.CostItem{}, ErrCostNotFound
}

func (s *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	for i, item := range s.items {
		if item.Id == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *RepositoryStub) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error) {
	return s.filter(func(item finance.CostItem) bool {
		return item.ProjectId == projectId && window.Contains(item.Date)
	}), nil
}

func (s *RepositoryStub) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error) {
	return s.filter(func(item finance.CostItem) bool {
		return item.TaskId != nil && *item.TaskId == taskId && window.Contains(item.Date)
	}), nil
}

func (s *RepositoryStub) filter(keep func(finance.CostItem) bool) []finance.CostItem {
	items := make([]finance.CostItem, 0)
	for _, item := range s.items {
		if keep(item) {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.Before(items[j].Date)
	})
	return items
}
