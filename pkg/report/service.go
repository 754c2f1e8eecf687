package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

type Service interface {
	TaskFinance(ctx context.Context, taskId int, window finance.Window) (finance.Report, error)
	ProjectFinance(ctx context.Context, projectId int, window finance.Window) (finance.Report, error)
}

type ServiceImpl struct {
	engine           *finance.Engine
	readers          Readers
	fallbackLocation *time.Location
	clock            utils.Clock
	cache            *reportCache
	inflight         singleflight.Group
}

func NewService(engine *finance.Engine, readers Readers, fallbackLocation *time.Location, clock utils.Clock) *ServiceImpl {
	if fallbackLocation == nil {
		fallbackLocation = time.UTC
	}
	return &ServiceImpl{
		engine:           engine,
		readers:          readers,
		fallbackLocation: fallbackLocation,
		clock:            clock,
	}
}

// WithCache keeps computed reports in memory and drops them on the ingestion events published on bus.
func (s *ServiceImpl) WithCache(bus *event_bus.EventBus) *ServiceImpl {
	s.cache = newReportCache()
	s.cache.subscribe(bus)
	return s
}

func (s *ServiceImpl) TaskFinance(ctx context.Context, taskId int, window finance.Window) (finance.Report, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return finance.Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	loc := current.Location(s.fallbackLocation)
	return s.compute(finance.ScopeTask, taskId, window, loc, func() (finance.Snapshot, error) {
		return s.taskSnapshot(ctx, taskId, window, loc)
	})
}

func (s *ServiceImpl) ProjectFinance(ctx context.Context, projectId int, window finance.Window) (finance.Report, error) {
	current, err := user.CurrentUser(ctx)
	if err != nil {
		return finance.Report{}, fmt.Errorf("failed to get current user: %w", err)
	}
	loc := current.Location(s.fallbackLocation)
	return s.compute(finance.ScopeProject, projectId, window, loc, func() (finance.Snapshot, error) {
		return s.projectSnapshot(ctx, projectId, window, loc)
	})
}

func (s *ServiceImpl) compute(scope finance.Scope, id int, window finance.Window, loc *time.Location,
	load func() (finance.Snapshot, error)) (finance.Report, error) {

	// An open window ends today, so the day is part of the key.
	key := fmt.Sprintf("%s%s|%s|%s", scopePrefix(scope, id), window.Key(), loc.String(),
		utils.Today(s.clock, loc).Format(time.DateOnly))

	var generation uint64
	if s.cache != nil {
		report, gen, ok := s.cache.get(key)
		if ok {
			log.Tracef("report cache hit for %s", key)
			return report, nil
		}
		generation = gen
	}

	result, err, shared := s.inflight.Do(key, func() (any, error) {
		snapshot, err := load()
		if err != nil {
			return finance.Report{}, err
		}
		return s.engine.Compute(snapshot), nil
	})
	if err != nil {
		return finance.Report{}, err
	}
	report := result.(finance.Report)
	if shared {
		log.Tracef("shared report computation for %s", key)
	}
	if s.cache != nil {
		s.cache.put(key, generation, report)
	}
	return report, nil
}

func (s *ServiceImpl) taskSnapshot(ctx context.Context, taskId int, window finance.Window, loc *time.Location) (finance.Snapshot, error) {
	task, err := s.readers.Settings.GetTask(ctx, taskId)
	if err != nil {
		return finance.Snapshot{}, err
	}
	var project *finance.Project
	var projectSettings *finance.FinanceSettings
	if task.ProjectId != nil {
		p, err := s.readers.Settings.GetProject(ctx, *task.ProjectId)
		if err != nil {
			return finance.Snapshot{}, err
		}
		project = &p
		projectSettings = &p.Settings
	}

	entries, err := s.readers.Entries.ListForTask(ctx, taskId, window)
	if err != nil {
		return finance.Snapshot{}, err
	}
	costs, err := s.readers.Costs.ListForTask(ctx, taskId, window)
	if err != nil {
		return finance.Snapshot{}, err
	}
	rates, err := s.readers.Rates.DefaultRates(ctx, userIds(entries))
	if err != nil {
		return finance.Snapshot{}, err
	}

	return finance.Snapshot{
		Scope:     finance.ScopeTask,
		ScopeId:   task.Id,
		Name:      task.Name,
		Settings:  finance.EffectiveSettings(&task.Settings, projectSettings),
		Project:   project,
		Tasks:     map[int]finance.Task{task.Id: task},
		UserRates: rates,
		Entries:   entries,
		Costs:     costs,
		Window:    window,
		Location:  loc,
	}, nil
}

func (s *ServiceImpl) projectSnapshot(ctx context.Context, projectId int, window finance.Window, loc *time.Location) (finance.Snapshot, error) {
	project, err := s.readers.Settings.GetProject(ctx, projectId)
	if err != nil {
		return finance.Snapshot{}, err
	}
	tasks, err := s.readers.Settings.ListProjectTasks(ctx, projectId)
	if err != nil {
		return finance.Snapshot{}, err
	}
	tasksById := make(map[int]finance.Task, len(tasks))
	for _, task := range tasks {
		tasksById[task.Id] = task
	}

	entries, err := s.readers.Entries.ListForProject(ctx, projectId, window)
	if err != nil {
		return finance.Snapshot{}, err
	}
	costs, err := s.readers.Costs.ListForProject(ctx, projectId, window)
	if err != nil {
		return finance.Snapshot{}, err
	}
	rates, err := s.readers.Rates.DefaultRates(ctx, userIds(entries))
	if err != nil {
		return finance.Snapshot{}, err
	}

	return finance.Snapshot{
		Scope:     finance.ScopeProject,
		ScopeId:   project.Id,
		Name:      project.Name,
		Settings:  finance.EffectiveSettings(nil, &project.Settings),
		Project:   &project,
		Tasks:     tasksById,
		UserRates: rates,
		Entries:   entries,
		Costs:     costs,
		Window:    window,
		Location:  loc,
	}, nil
}

func userIds(entries []finance.TimeEntry) []int {
	seen := make(map[int]bool)
	ids := make([]int, 0)
	for _, entry := range entries {
		if !seen[entry.UserId] {
			seen[entry.UserId] = true
			ids = append(ids, entry.UserId)
		}
	}
	sort.Ints(ids)
	return ids
}
