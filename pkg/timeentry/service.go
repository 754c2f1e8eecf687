package timeentry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	LogTime(ctx context.Context, entry NewEntry) (finance.TimeEntry, error)
	DeleteEntry(ctx context.Context, id uuid.UUID) error
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error)
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error)
}

type TaskReader interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
}

type ServiceImpl struct {
	repo       Repository
	taskReader TaskReader
	eventBus   *event_bus.EventBus
	clock      utils.Clock
}

func NewService(repo Repository, taskReader TaskReader, eventBus *event_bus.EventBus, clock utils.Clock) *ServiceImpl {
	return &ServiceImpl{repo: repo, taskReader: taskReader, eventBus: eventBus, clock: clock}
}

func (s *ServiceImpl) LogTime(ctx context.Context, newEntry NewEntry) (finance.TimeEntry, error) {
	userId, err := user.CurrentId(ctx)
	if err != nil {
		return finance.TimeEntry{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(newEntry); err != nil {
		return finance.TimeEntry{}, err
	}
	task, err := s.taskReader.GetTask(ctx, newEntry.TaskId)
	if err != nil {
		return finance.TimeEntry{}, err
	}

	isBillable := true
	if newEntry.IsBillable != nil {
		isBillable = *newEntry.IsBillable
	}
	entry := finance.TimeEntry{
		Id:              uuid.New(),
		TaskId:          task.Id,
		UserId:          userId,
		Description:     newEntry.Description,
		Date:            time.Date(newEntry.Date.Year(), newEntry.Date.Month(), newEntry.Date.Day(), 0, 0, 0, 0, time.UTC),
		Hours:           newEntry.Hours,
		HourlyRateCents: newEntry.HourlyRateCents,
		BillingType:     NormalizeBillingType(newEntry.BillingType),
		IsBillable:      isBillable,
		CreatedAt:       s.clock.Now().UTC(),
	}
	if err := s.repo.Store(ctx, entry); err != nil {
		return finance.TimeEntry{}, err
	}
	log.Debugf("User %d logged %s h on task %d (%s)", userId, entry.Hours, entry.TaskId, entry.BillingType)

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TimeEntryLoggedEvent, event_bus.TimeEntryLogged{
		EntryId:   entry.Id,
		TaskId:    entry.TaskId,
		ProjectId: task.ProjectId,
		UserId:    userId,
	}))
	if err != nil {
		log.Errorf("failed to publish time entry logged event: %v", err)
		return finance.TimeEntry{}, err
	}
	return entry, nil
}

func (s *ServiceImpl) DeleteEntry(ctx context.Context, id uuid.UUID) error {
	if _, err := user.CurrentId(ctx); err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	task, err := s.taskReader.GetTask(ctx, entry.TaskId)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrEntryNotFound
	}

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.TimeEntryDeletedEvent, event_bus.TimeEntryDeleted{
		EntryId:   entry.Id,
		TaskId:    entry.TaskId,
		ProjectId: task.ProjectId,
	}))
	if err != nil {
		log.Errorf("failed to publish time entry deleted event: %v", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForTask(ctx, taskId, window)
}

func (s *ServiceImpl) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForProject(ctx, projectId, window)
}
