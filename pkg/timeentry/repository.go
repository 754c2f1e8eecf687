package timeentry

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	Store(ctx context.Context, entry finance.TimeEntry) error
	Get(ctx context.Context, id uuid.UUID) (finance.TimeEntry, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error)
	ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

const entryColumns = `e.id, e.task_id, e.user_id, e.description, e.entry_date, e.hours, e.hourly_rate_cents,
				e.billing_type, e.is_billable, e.created_at`

func scanEntry(row pgx.Row) (finance.TimeEntry, error) {
	var entry finance.TimeEntry
	var hours decimal.Decimal
	var billingType string
	err := row.Scan(
		&entry.Id,
		&entry.TaskId,
		&entry.UserId,
		&entry.Description,
		&entry.Date,
		&hours,
		&entry.HourlyRateCents,
		&billingType,
		&entry.IsBillable,
		&entry.CreatedAt,
	)
	if err != nil {
		return finance.TimeEntry{}, err
	}
	entry.Hours = hours
	entry.BillingType = finance.BillingType(billingType)
	return entry, nil
}

func (r *RepositoryImpl) Store(ctx context.Context, entry finance.TimeEntry) error {
	query := `INSERT INTO time_entry (id, task_id, user_id, description, entry_date, hours, hourly_rate_cents,
					billing_type, is_billable, created_at)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.db.Exec(ctx, query,
		entry.Id,
		entry.TaskId,
		entry.UserId,
		entry.Description,
		entry.Date,
		entry.Hours,
		entry.HourlyRateCents,
		string(entry.BillingType),
		entry.IsBillable,
		entry.CreatedAt,
	)
	if err != nil {
		err := fmt.Errorf("could not store time entry: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) Get(ctx context.Context, id uuid.UUID) (finance.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entry e WHERE e.id = $1`
	entry, err := scanEntry(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return finance.TimeEntry{}, ErrEntryNotFound
	} else if err != nil {
		err := fmt.Errorf("could not get time entry: %w", err)
		log.Error(err)
		return finance.TimeEntry{}, err
	}
	return entry, nil
}

func (r *RepositoryImpl) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM time_entry WHERE id = $1`, id)
	if err != nil {
		err := fmt.Errorf("could not delete time entry: %w", err)
		log.Error(err)
		return false, err
	}
	return result.RowsAffected() > 0, nil
}

func (r *RepositoryImpl) ListForTask(ctx context.Context, taskId int, window finance.Window) ([]finance.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entry e
				WHERE e.task_id = $1
				AND ($2::date IS NULL OR e.entry_date >= $2::date)
				AND ($3::date IS NULL OR e.entry_date <= $3::date)
				ORDER BY e.entry_date, e.created_at`
	return r.list(ctx, query, taskId, window)
}

func (r *RepositoryImpl) ListForProject(ctx context.Context, projectId int, window finance.Window) ([]finance.TimeEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM time_entry e
				JOIN task t ON t.id = e.task_id
				WHERE t.project_id = $1
				AND ($2::date IS NULL OR e.entry_date >= $2::date)
				AND ($3::date IS NULL OR e.entry_date <= $3::date)
				ORDER BY e.entry_date, e.created_at`
	return r.list(ctx, query, projectId, window)
}

func (r *RepositoryImpl) list(ctx context.Context, query string, id int, window finance.Window) ([]finance.TimeEntry, error) {
	rows, err := r.db.Query(ctx, query, id, window.Start, window.End)
	if err != nil {
		err := fmt.Errorf("could not query time entries: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	entries := make([]finance.TimeEntry, 0)
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			err := fmt.Errorf("error scanning time entry: %w", err)
			log.Error(err)
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over time entries: %v", err)
		return nil, err
	}
	return entries, nil
}
