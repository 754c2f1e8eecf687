package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

var ErrUserNotFound = errors.New("user not found")

type Repo interface {
	CreateUser(ctx context.Context, user User) (int, error)
	GetUser(ctx context.Context, id int) (User, error)
	GetUserByUid(ctx context.Context, uid string) (User, error)
	UpdateSettings(ctx context.Context, userId int, settings Settings) error
	// DefaultRates returns the default hourly rate of every listed user that has one configured.
	DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error)
}

type UserRepoImpl struct {
	db *pgxpool.Pool
}

func NewUserRepo(db *pgxpool.Pool) *UserRepoImpl {
	return &UserRepoImpl{db: db}
}

const userColumns = `id, uid, username, display_name, timezone, default_hourly_rate_cents`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(
		&u.Id,
		&u.Uid,
		&u.Username,
		&u.DisplayName,
		&u.Settings.Timezone,
		&u.Settings.DefaultHourlyRateCents,
	)
	return u, err
}

func (r *UserRepoImpl) CreateUser(ctx context.Context, user User) (int, error) {
	query := `INSERT INTO users (uid, username, display_name, timezone, default_hourly_rate_cents)
				VALUES ($1, $2, $3, $4, $5) RETURNING id`
	var id int
	err := r.db.QueryRow(ctx, query,
		user.Uid,
		user.Username,
		user.DisplayName,
		user.Settings.Timezone,
		user.Settings.DefaultHourlyRateCents,
	).Scan(&id)
	if err != nil {
		log.Errorf("failed to create user: %v", err)
		return 0, err
	}
	return id, nil
}

func (r *UserRepoImpl) GetUser(ctx context.Context, id int) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user with id %d not found", id)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return u, nil
}

func (r *UserRepoImpl) GetUserByUid(ctx context.Context, uid string) (User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE uid = $1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		log.Debugf("user with uid %s not found", uid)
		return User{}, ErrUserNotFound
	} else if err != nil {
		log.Errorf("failed to get user: %v", err)
		return User{}, err
	}
	return u, nil
}

func (r *UserRepoImpl) UpdateSettings(ctx context.Context, userId int, settings Settings) error {
	query := `UPDATE users SET timezone = $1, default_hourly_rate_cents = $2 WHERE id = $3`
	result, err := r.db.Exec(ctx, query, settings.Timezone, settings.DefaultHourlyRateCents, userId)
	if err != nil {
		err := fmt.Errorf("could not update user settings: %w", err)
		log.Error(err)
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepoImpl) DefaultRates(ctx context.Context, userIds []int) (map[int]int64, error) {
	rates := make(map[int]int64, len(userIds))
	if len(userIds) == 0 {
		return rates, nil
	}
	query := `SELECT id, default_hourly_rate_cents FROM users
				WHERE id = ANY($1) AND default_hourly_rate_cents IS NOT NULL`
	rows, err := r.db.Query(ctx, query, userIds)
	if err != nil {
		err := fmt.Errorf("could not query user rates: %w", err)
		log.Error(err)
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		var rate int64
		if err := rows.Scan(&id, &rate); err != nil {
			err := fmt.Errorf("error scanning user rate: %w", err)
			log.Error(err)
			return nil, err
		}
		rates[id] = rate
	}
	if err := rows.Err(); err != nil {
		log.Errorf("error iterating over user rates: %v", err)
		return nil, err
	}
	return rates, nil
}
