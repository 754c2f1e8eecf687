package timeentry

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/klokku/ledger/pkg/finance"
)

type RepositoryStub struct {
	entries map[uuid.UUID]finance.TimeEntry
	// taskProjects maps task id to project id for ListForProject.
	taskProjects map[int]int
}

func NewRepositoryStub(taskProjects map[int]int) *RepositoryStub {
	return &RepositoryStub{
		entries:      make(map[uuid.UUID]finance.TimeEntry),
		taskProjects: taskProjects,
	}
}

func (s *RepositoryStub) Store(ctx context.Context, entry finance.TimeEntry) error {
	s.entries[entry.Id] = entry
	return nil
}

func (s *RepositoryStub) Get(ctx context.Context, id uuid.UUID) (finance.TimeEntry, error) {
	entry, ok := s.entries[id]
	if !ok {
		return finance.TimeEntry{}, ErrEntryNotFound
	}
	return entry, nil
}

func (s *RepositoryStub) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, ok := s.entries[id]; !ok {
		return false, nil
	}
	delete(s.entries, id)
	return true, nil
}

func (s *RepositoryStub) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error) {
	return s.filter(func(e finance.TimeEntry) bool {
		return e.TaskId == taskId && window.Contains(e.Date)
	}), nil
}

func (s *RepositoryStub) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error) {
	return s.filter(func(e finance.TimeEntry) bool {
		p, ok := s.taskProjects[e.TaskId]
		return ok && p == projectId && window.Contains(e.Date)
	}), nil
}

func (s *RepositoryStub) filter(keep func(finance.TimeEntry) bool) []finance.TimeEntry {
	entries := make([]finance.TimeEntry, 0)
	for _, e := range s.entries {
		if keep(e) {
			entries = append(entries, e)
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
	return entries
}
