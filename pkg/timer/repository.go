package timer

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

type Repository interface {
	ReplaceTimer(ctx context.Context, userId int, timer RunningTimer) (RunningTimer, error)
	DeleteTimer(ctx context.Context, userId int) error
	FindTimer(ctx context.Context, userId int) (RunningTimer, error)
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) ReplaceTimer(ctx context.Context, userId int, timer RunningTimer) (RunningTimer, error) {
	query := `INSERT INTO running_timer (user_id, task_id, description, billing_type, start_time)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (user_id) DO UPDATE SET
					task_id = EXCLUDED.task_id,
					description = EXCLUDED.description,
					billing_type = EXCLUDED.billing_type,
					start_time = EXCLUDED.start_time`

	_, err := r.db.Exec(ctx, query, userId, timer.TaskId, timer.Description, timer.BillingType, timer.StartTime)
	if err != nil {
		err := fmt.Errorf("could not store running timer: %w", err)
		log.Error(err)
		return RunningTimer{}, err
	}
	return timer, nil
}

func (r *RepositoryImpl) DeleteTimer(ctx context.Context, userId int) error {
	_, err := r.db.Exec(ctx, "DELETE FROM running_timer WHERE user_id = $1", userId)
	if err != nil {
		err := fmt.Errorf("could not delete running timer: %w", err)
		log.Error(err)
		return err
	}
	return nil
}

// FindTimer returns the zero RunningTimer when the user has none.
func (r *RepositoryImpl) FindTimer(ctx context.Context, userId int) (RunningTimer, error) {
	query := `SELECT task_id, description, billing_type, start_time FROM running_timer WHERE user_id = $1`

	var timer RunningTimer
	err := r.db.QueryRow(ctx, query, userId).Scan(&timer.TaskId, &timer.Description, &timer.BillingType, &timer.StartTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return RunningTimer{}, nil
		}
		err := fmt.Errorf("failed to find running timer: %w", err)
		log.Error(err)
		return RunningTimer{}, err
	}
	return timer, nil
}
