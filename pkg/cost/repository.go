package cost

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/finance"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, item finance.CostItem) error
	Get(ctx context.Context, id uuid.UUID) (finance.CostItem, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error)
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const costColumns = `id, project_id, task_id, name, description, category, amount_cents, cost_date, is_billable`

func scanCost(row pgx.Row) (finance.CostItem, error) {
	var item finance.CostItem
	err := row.Scan(
		&item.Id,
		&item.ProjectId,
		&item.TaskId,
		&item.Name,
		&item.Description,
		&item.Category,
		&item.AmountCents,
		&item.Date,
		&item.IsBillable,
	)
	return item, err
}

func (r *RepositoryImpl) Store(ctx context.Context, item finance.CostItem) error {
	query := `INSERT INTO cost_item (` + costColumns + `) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query,
		item.Id,
		item.ProjectId,
		item.TaskId,
		item.Name,
		item.Description,
		item.Category,
		item.AmountCents,
		item.Date,
		item.IsBillable,
	)
	if err != nil {
		err := fmt.Errorf("could not store cost item: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (finance.CostItem, error) {
	item, err := scanCost(r.db.QueryRow(ctx, `SELECT `+costColumns+` FROM cost_item WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.CostItem{}, ErrCostNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get cost item: %w", err)
		log.Error(err)
		return finance.CostItem{}, err
	}
	return item, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM cost_item WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete cost item: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.CostItem, error) {
	query := `SELECT ` + costColumns + ` FROM cost_item
				WHERE project_id = $1
				AND ($2::date IS NULL OR cost_date >= $2::date)
				AND ($3::date IS NULL OR cost_date <= $3::date)
				ORDER BY cost_date, created_at`
	return r.list(ctx, query, projectId, window)
}

func (r *RepositoryImpl) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.CostItem, error) {
	query := `SELECT ` + costColumns + ` FROM cost_item
				WHERE task_id = $1
				AND ($2::date IS NULL OR cost_date >= $2::date)
				AND ($3::date IS NULL OR cost_date <= $3::date)
				ORDER BY cost_date, created_at`
	return r.list(ctx, query, taskId, window)
}

func (r *RepositoryImpl) list(ctx context.Context, query string, id int, window finance.Window) ([]finance.CostItem, error) {
	rows, err := r.db.Query(ctx, query, id, window.Start, window.End)
	if err != nil {
		err := fmt.Errorf("could not query cost items: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	items := make([]finance.CostItem, 0)
	for rows.Next() {
		item, err := scanCost(rows)
		if err != nil {
			err := fmt.Errorf("error scanning cost item: %w", err)
			log.Error(err)
			return nil, err
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over cost items: %v", err)
		return nil, err
	}
	return items, nil
}
