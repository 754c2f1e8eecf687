package test_utils

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// InsertUser stores a user and returns its id.
func InsertUser(t *testing.T, pool *pgxpool.Pool, uid string, timezone string, defaultRateCents *int64) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO users (uid, username, display_name, timezone, default_hourly_rate_cents)
		 VALUES ($1, $1, $1, $2, $3) RETURNING id`,
		uid, timezone, defaultRateCents,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	return id
}

func InsertProject(t *testing.T, pool *pgxpool.Pool, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `INSERT INTO project (name) VALUES ($1) RETURNING id`, name).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert project: %v", err)
	}
	return id
}

// InsertTask stores a task; projectId may be nil for a task outside any project.
func InsertTask(t *testing.T, pool *pgxpool.Pool, projectId *int, name string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(),
		`INSERT INTO task (project_id, name) VALUES ($1, $2) RETURNING id`, projectId, name,
	).Scan(&id)
	if err != nil {
		t.Fatalf("failed to insert task: %v", err)
	}
	return id
}
