package finance_settings

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var ErrSettingsNotFound = errors.New("finance settings owner not found")

type Repository interface {
	GetTask(ctx context.Context, taskId int) (finance.Task, error)
	GetProject(ctx context.Context, projectId int) (finance.Project, error)
	ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error)
	UpdateTaskSettings(ctx context.Context, taskId int, settings finance.FinanceSettings) error
	UpdateProjectSettings(ctx context.Context, projectId int, settings finance.FinanceSettings) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const settingsColumns = `fixed_budget_cents, hourly_rate_cents, sales_commission_enabled, sales_commission_percent`

type settingsRow struct {
	fixedBudgetCents *int64
	hourlyRateCents  *int64
	enabled          *bool
	percent          decimal.NullDecimal
}

func (r *settingsRow) targets() []any {
	return []any{&r.fixedBudgetCents, &r.hourlyRateCents, &r.enabled, &r.percent}
}

func (r *settingsRow) settings() finance.FinanceSettings {
	s := finance.FinanceSettings{
		FixedBudgetCents:       r.fixedBudgetCents,
		HourlyRateCents:        r.hourlyRateCents,
		SalesCommissionEnabled: r.enabled,
	}
	if r.percent.Valid {
		p := r.percent.Decimal
		s.SalesCommissionPercent = &p
	}
	return s
}

func settingsArgs(s finance.FinanceSettings) []any {
	percent := decimal.NullDecimal{}
	if s.SalesCommissionPercent != nil {
		percent = decimal.NewNullDecimal(*s.SalesCommissionPercent)
	}
	return []any{s.FixedBudgetCents, s.HourlyRateCents, s.SalesCommissionEnabled, percent}
}

func scanTask(row pgx.Row) (finance.Task, error) {
	var task finance.Task
	var settings settingsRow
	err := row.Scan(append([]any{&task.Id, &task.ProjectId, &task.Name}, settings.targets()...)...)
	if err != nil {
		return finance.Task{}, err
	}
	task.Settings = settings.settings()
	return task, nil
}

func (r *RepositoryImpl) GetTask(ctx context.Context, taskId int) (finance.Task, error) {
	query := `SELECT id, project_id, name, ` + settingsColumns + ` FROM task WHERE id = $1`
	task, err := scanTask(r.db.QueryRow(ctx, query, taskId))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Task{}, fmt.Errorf("task %d: %w", taskId, ErrSettingsNotFound)
	} else if err != nil {
		err := fmt.Errorf("could not get task: %w", err)
		log.Error(err)
		return finance.Task{}, err
	}
	return task, nil
}

func (r *RepositoryImpl) GetProject(ctx context.Context, projectId int) (finance.Project, error) {
	query := `SELECT id, name, ` + settingsColumns + ` FROM project WHERE id = $1`
	var project finance.Project
	var settings settingsRow
	err := r.db.QueryRow(ctx, query, projectId).
		Scan(append([]any{&project.Id, &project.Name}, settings.targets()...)...)
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.Project{}, fmt.Errorf("project %d: %w", projectId, ErrSettingsNotFound)
	} else if err != nil {
		err := fmt.Errorf("could not get project: %w", err)
		log.Error(err)
		return finance.Project{}, err
	}
	project.Settings = settings.settings()
	return project, nil
}

func (r *RepositoryImpl) ListProjectTasks(ctx context.Context, projectId int) ([]finance.Task, error) {
	query := `SELECT id, project_id, name, ` + settingsColumns + ` FROM task WHERE project_id = $1 ORDER BY id`
	rows, err := r.db.Query(ctx, query, projectId)
	if err != nil {
		err := fmt.Errorf("could not query project tasks: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	tasks := make([]finance.Task, 0)
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			err := fmt.Errorf("error scanning task: %w", err)
			log.Error(err)
			return nil, err
		}
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over tasks: %v", err)
		return nil, err
	}
	return tasks, nil
}

func (r *RepositoryImpl) UpdateTaskSettings(ctx context.Context, taskId int, settings finance.FinanceSettings) error {
	query := `UPDATE task SET fixed_budget_cents = $1, hourly_rate_cents = $2, sales_commission_enabled = $3,
				sales_commission_percent = $4 WHERE id = $5`
	return r.update(ctx, query, "task", taskId, settings)
}

func (r *RepositoryImpl) UpdateProjectSettings(ctx context.Context, projectId int, settings finance.FinanceSettings) error {
	query := `UPDATE project SET fixed_budget_cents = $1, hourly_rate_cents = $2, sales_commission_enabled = $3,
				sales_commission_percent = $4 WHERE id = $5`
	return r.update(ctx, query, "project", projectId, settings)
}

func (r *RepositoryImpl) update(ctx context.Context, query string, owner string, id int, settings finance.FinanceSettings) error {
	result, err := r.db.Exec(ctx, query, append(settingsArgs(settings), id)...)
	if err != nil {
		err := fmt.Errorf("could not update %s settings: %w", owner, err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("%s %d: %w", owner, id, ErrSettingsNotFound)
	}
	return nil
}
