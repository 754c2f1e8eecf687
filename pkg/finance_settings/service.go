package finance_settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrInvalidSettings = errors.New("invalid finance settings")

type Service interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
	GetProject(ctx context.Context, projectId int) (finance.Project, error)
	ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error)
	// EffectiveTaskSettings merges the task settings over the settings of its project.
	EffectiveTaskSettings(ctx context.Context, taskId int) (finance.FinanceSettings, error)
	UpdateTaskSettings(ctx context.Context, taskId int, settings finance.FinanceSettings) (finance.FinanceSettings, error)
	UpdateProjectSettings(ctx context.Context, projectId int, settings finance.FinanceSettings) (finance.FinanceSettings, error)
}

type ServiceImpl struct {
	repo     Repository
	eventBus *event_bus.EventBus
}

func NewService(repo Repository, eventBus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{
		repo:     repo,
		eventBus: eventBus,
	}
}

func (s *ServiceImpl) GetTask(ctx context.Context, taskId int) (finance.Task, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return finance.Task{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetTask(ctx, taskId)
}

func (s *ServiceImpl) GetProject(ctx context.Context, projectId int) (finance.Project, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return finance.Project{}, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.GetProject(ctx, projectId)
}

func (s *ServiceImpl) ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	return s.repo.ListProjectTasks(ctx, projectId)
}

func (s *ServiceImpl) EffectiveTaskSettings(ctx context.Context, taskId int) (finance.FinanceSettings, error) {
	task, err := s.GetTask(ctx, taskId)
	if err != nil {
		return finance.FinanceSettings{}, err
	}
	if task.ProjectId == nil {
		return finance.EffectiveSettings(&task.Settings, nil), nil
	}
	project, err := s.repo.GetProject(ctx, *task.ProjectId)
	if err != nil {
		return finance.FinanceSettings{}, err
	}
	return finance.EffectiveSettings(&task.Settings, &project.Settings), nil
}

func (s *ServiceImpl) UpdateTaskSettings(ctx context.Context, taskId int, settings finance.FinanceSettings) (finance.FinanceSettings, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return finance.FinanceSettings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	settings, err := s.normalize(settings)
	if err != nil {
		return finance.FinanceSettings{}, err
	}
	if err := s.repo.UpdateTaskSettings(ctx, taskId, settings); err != nil {
		return finance.FinanceSettings{}, err
	}
	return settings, s.publish(ctx, finance.ScopeTask, taskId)
}

func (s *ServiceImpl) UpdateProjectSettings(ctx context.Context, projectId int, settings finance.FinanceSettings) (finance.FinanceSettings, error) {
	if _, err := user.CurrentId(ctx); err != nil {
		return finance.FinanceSettings{}, fmt.Errorf("failed to get current user: %w", err)
	}
	settings, err := s.normalize(settings)
	if err != nil {
		return finance.FinanceSettings{}, err
	}
	if err := s.repo.UpdateProjectSettings(ctx, projectId, settings); err != nil {
		return finance.FinanceSettings{}, err
	}
	return settings, s.publish(ctx, finance.ScopeProject, projectId)
}

// normalize validates the amounts. An unset percent stays unset so it keeps following the project
// and, past that, the engine default.
func (s *ServiceImpl) normalize(settings finance.FinanceSettings) (finance.FinanceSettings, error) {
	if settings.FixedBudgetCents != nil && *settings.FixedBudgetCents < 0 {
		return settings, fmt.Errorf("%w: fixed budget must not be negative", ErrInvalidSettings)
	}
	if settings.HourlyRateCents != nil && *settings.HourlyRateCents < 0 {
		return settings, fmt.Errorf("%w: hourly rate must not be negative", ErrInvalidSettings)
	}
	if p := settings.SalesCommissionPercent; p != nil && (p.IsNegative() || p.GreaterThan(decimal.NewFromInt(100))) {
		return settings, fmt.Errorf("%w: commission percent must be between 0 and 100", ErrInvalidSettings)
	}
	return settings, nil
}

func (s *ServiceImpl) publish(ctx context.Context, scope finance.Scope, id int) error {
	err := s.eventBus.Publish(event_bus.NewEvent(
		ctx,
		event_bus.FinanceSettingsUpdatedEvent,
		event_bus.FinanceSettingsUpdated{Scope: string(scope), Id: id},
	))
	if err != nil {
		log.Errorf("failed to publish finance settings update event: %v", err)
		return err
	}
	return nil
}
