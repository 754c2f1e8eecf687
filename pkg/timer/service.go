package timer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/timeentry"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

var (
	ErrNoRunningTimer   = errors.New("no running timer")
	ErrInvalidStartTime = errors.New("invalid timer start time")
)

// Timers shorter than this are dropped on stop instead of being logged.
const minTrackedDuration = time.Minute

type TaskReader interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
}

type EntryLogger interface {
	LogTime(ctx context.Context, newEntry timeentry.NewEntry) (finance.TimeEntry, error)
}

type Service interface {
	Current(ctx context.Context) (RunningTimer, error)
	// Start stops the running timer, if any, and starts tracking taskId.
	Start(ctx context.Context, taskId int, description string, billingType string) (RunningTimer, error)
	// Stop logs the tracked time as a time entry. The entry is nil when the timer ran for less
	// than a minute.
	Stop(ctx context.Context) (*finance.TimeEntry, error)
	ModifyStartTime(ctx context.Context, startTime time.Time) (RunningTimer, error)
}

type ServiceImpl struct {
	repo             Repository
	tasks            TaskReader
	entries          EntryLogger
	clock            utils.Clock
	fallbackLocation *time.Location
}

func NewService(repo Repository, tasks TaskReader, entries EntryLogger, clock utils.Clock, fallbackLocation *time.Location) *ServiceImpl {
	if fallbackLocation == nil {
		fallbackLocation = time.UTC
	}
	return &ServiceImpl{repo: repo, tasks: tasks, entries: entries, clock: clock, fallbackLocation: fallbackLocation}
}

func (s *ServiceImpl) Current(ctx context.Context) (RunningTimer, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RunningTimer{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.FindTimer(ctx, userId)
}

func (s *ServiceImpl) Start(ctx context.Context, taskId int, description string, billingType string) (RunningTimer, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RunningTimer{}, fmt.Errorf("failed to get current user: %w", err)
	}
	task, err := s.tasks.GetTask(ctx, taskId)
	if err != nil {
		return RunningTimer{}, err
	}

	current, err := s.repo.FindTimer(ctx, userId)
	if err != nil {
		return RunningTimer{}, err
	}
	if current.IsRunning() {
		log.Debugf("Stopping timer of task %d before starting task %d", current.TaskId, task.Id)
		if _, err := s.Stop(ctx); err != nil {
			return RunningTimer{}, err
		}
	}

	return s.repo.ReplaceTimer(ctx, userId, RunningTimer{
		TaskId:      task.Id,
		Description: description,
		BillingType: string(timeentry.NormalizeBillingType(billingType)),
		StartTime:   s.clock.Now().UTC(),
	})
}

func (s *ServiceImpl) Stop(ctx context.Context) (*finance.TimeEntry, error) {
	currentUser, err := user.CurrentUser(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	current, err := s.repo.FindTimer(ctx, currentUser.Id)
	if err != nil {
		return nil, err
	}
	if !current.IsRunning() {
		return nil, ErrNoRunningTimer
	}

	end := s.clock.Now()
	if end.Sub(current.StartTime) < minTrackedDuration {
		log.Debugf("Dropping short timer of task %d (%v)", current.TaskId, end.Sub(current.StartTime))
		return nil, s.repo.DeleteTimer(ctx, currentUser.Id)
	}

	// claim the timer first so a run is logged at most once
	if err := s.repo.DeleteTimer(ctx, currentUser.Id); err != nil {
		return nil, err
	}
	// the whole run is logged on the day it started in the user's timezone
	entry, err := s.entries.LogTime(ctx, timeentry.NewEntry{
		TaskId:      current.TaskId,
		Description: current.Description,
		Date:        current.StartTime.In(currentUser.Location(s.fallbackLocation)),
		Hours:       ElapsedHours(current.StartTime, end),
		BillingType: current.BillingType,
	})
	if err != nil {
		if _, restoreErr := s.repo.ReplaceTimer(ctx, currentUser.Id, current); restoreErr != nil {
			log.Errorf("failed to restore timer of user %d: %v", currentUser.Id, restoreErr)
		}
		return nil, err
	}
	return &entry, nil
}

func (s *ServiceImpl) ModifyStartTime(ctx context.Context, startTime time.Time) (RunningTimer, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return RunningTimer{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if startTime.After(s.clock.Now()) {
		return RunningTimer{}, fmt.Errorf("%w: start time cannot be in the future", ErrInvalidStartTime)
	}
	current, err := s.repo.FindTimer(ctx, userId)
	if err != nil {
		return RunningTimer{}, err
	}
	if !current.IsRunning() {
		return RunningTimer{}, ErrNoRunningTimer
	}
	current.StartTime = startTime.UTC()
	return s.repo.ReplaceTimer(ctx, userId, current)
}
