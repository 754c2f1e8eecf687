package finance_settings

import (
	"context"
	"fmt"
	"sort"

	"github.com/klokku/ledger/pkg/finance"
)

type RepositoryStub struct {
	tasks    map[int]finance.Task
	projects map[int]finance.Project
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{
		tasks:    make(map[int]finance.Task),
		projects: make(map[int]finance.Project),
	}
}

func (s *RepositoryStub) AddTask(task finance.Task) {
	s.tasks[task.Id] = task
}

func (s *RepositoryStub) AddProject(project finance.Project) {
	s.projects[project.Id] = project
}

func (s *RepositoryStub) GetTask(ctx context.Context, taskId int) (finance.Task, error) {
	task, ok := s.tasks[taskId]
	if !ok {
		return finance.Task{}, fmt.Errorf("task %d: %w", taskId, ErrSettingsNotFound)
	}
	return task, nil
}

func (s *RepositoryStub) GetProject(ctx context.Context, projectId int) (finance.Project, error) {
	project, ok := s.projects[projectId]
	if !ok {
		return finance.Project{}, fmt.Errorf("project %d: %w", projectId, ErrSettingsNotFound)
	}
	return project, nil
}

func (s *RepositoryStub) ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error) {
	tasks := make([]finance.Task, 0)
	for _, task := range s.tasks {
		if task.ProjectId != nil && *task.ProjectId == projectId {
			tasks = append(tasks, task)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		return tasks[i].Id < tasks[j].Id
	})
	return tasks, nil
}

func (s *RepositoryStub) UpdateTaskSettings(ctx context.Context, taskId int, settings finance.FinanceSettings) error {
	task, ok := s.tasks[taskId]
	if !ok {
		return fmt.Errorf("task %d: %w", taskId, ErrSettingsNotFound)
	}
	task.Settings = settings
	s.tasks[taskId] = task
	return nil
}

func (s *RepositoryStub) UpdateProjectSettings(ctx context.Context, projectId int, settings finance.FinanceSettings) error {
	project, ok := s.projects[projectId]
	if !ok {
		return fmt.Errorf("project %d: %w", projectId, ErrSettingsNotFound)
	}
	project.Settings = settings
	s.projects[projectId] = project
	return nil
}
