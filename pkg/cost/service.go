package cost

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	AddCost(ctx context.Context, cost NewCost) (finance.CostItem, error)
	DeleteCost(ctx context.Context, id uuid.UUID) error
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error)
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error)
}

// OwnerReader resolves the project and task a cost item is booked on.
type OwnerReader interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
	GetProject(ctx context.Context, projectId int) (finance.Project, error)
}

type ServiceImpl struct {
	repo     Repository
	owners   OwnerReader
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, owners OwnerReader, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{repo: repo, owners: owners, eventBus: eventBus}
}

func (s *ServiceImpl) AddCost(ctx context.Context, newCost NewCost) (finance.CostItem, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return finance.CostItem{}, fmt.Errorf("failed to get current user: %w", err)
	}
	if err := validate(newCost); err != nil {
		return finance.CostItem{}, err
	}
	if _, err := s.owners.GetProject(ctx, newCost.ProjectId); err != nil {
		return finance.CostItem{}, err
	}
	if newCost.TaskId != nil {
		task, err := s.owners.GetTask(ctx, *newCost.TaskId)
		if err != nil {
			return finance.CostItem{}, err
		}
		if task.ProjectId == nil || *task.ProjectId != newCost.ProjectId {
			return finance.CostItem{}, ErrTaskNotInProject
		}
	}

	isBillable := true
	if newCost.IsBillable != nil {
		isBillable = *newCost.IsBillable
	}
	item := finance.CostItem{
		Id:          uuid.New(),
		ProjectId:   newCost.ProjectId,
		TaskId:      newCost.TaskId,
		Name:        strings.TrimSpace(newCost.Name),
		Description: newCost.Description,
		Category:    newCost.Category,
		AmountCents: newCost.AmountCents,
		Date:        time.Date(newCost.Date.Year(), newCost.Date.Month(), newCost.Date.Day(), 0, 0, 0, 0, time.UTC),
		IsBillable:  isBillable,
	}
	if err := s.repo.Store(ctx, item); err != nil {
		return finance.CostItem{}, err
	}
	log.Debugf("Added cost %s of %d cents to project %d", item.Name, item.AmountCents, item.ProjectId)

	err := s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.CostItemAddedEvent, event_bus.CostItemAdded{
		CostId:    item.Id,
		ProjectId: item.ProjectId,
		TaskId:    item.TaskId,
	}))
	if err != nil {
		log.Errorf("failed to publish cost item added event: %v", err)
		return finance.CostItem{}, err
	}
	return item, nil
}

func (s *ServiceImpl) DeleteCost(ctx context.Context, id uuid.UUID) error {
	if _, err := user.CurrentId(ctx); err != nil {
		return fmt.Errorf("failed to get current user: %w", err)
	}
	item, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCostNotFound
	}

	err = s.eventBus.Publish(event_bus.NewEvent(ctx, event_bus.CostItemDeletedEvent, event_bus.CostItemDeleted{
		CostId:    item.Id,
		ProjectId: item.ProjectId,
		TaskId:    item.TaskId,
	}))
	if err != nil {
		log.Errorf("failed to publish cost item deleted event: %v", err)
		return err
	}
	return nil
}

func (s *ServiceImpl) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForProject(ctx, projectId, window)
}

func (s *ServiceImpl) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListForTask(ctx, taskId, window)
}
