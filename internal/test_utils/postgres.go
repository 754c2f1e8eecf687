package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/database"
	log "github.com/sirupsen/logrus"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "ledger"
	dbUser     = "test_ledger"
	dbPassword = "test_ledger"
)

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	return startContainer(ctx, func(ctx context.Context) (*postgres.PostgresContainer, error) {
		return runPostgres(ctx, projectRoot)
	})
}

// startContainer turns a panic of the Docker client lookup, raised when no Docker host can be
// found, into an error so packages without Docker still run their other tests.
func startContainer(ctx context.Context, run func(context.Context) (*postgres.PostgresContainer, error)) (container *postgres.PostgresContainer, err error) {
	defer func() {
		if r := recover(); r != nil {
			container = nil
			err = fmt.Errorf("docker unavailable: %v", r)
		}
	}()
	return run(ctx)
}

func runPostgres(ctx context.Context, projectRoot string) (*postgres.PostgresContainer, error) {
	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
}

// TestWithDB starts a Postgres container, applies all migrations and opens a pool on it.
// The returned cleanup is safe to call when err is not nil. Callers treat an error as
// "no Docker available" and skip their repository tests.
func TestWithDB() (*pgxpool.Pool, func(), error) {
	ctx := context.Background()
	noop := func() {}

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		log.Warnf("failed to start postgres container: %v", err)
		if container != nil {
			_ = container.Terminate(context.Background())
		}
		return nil, noop, err
	}
	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Warnf("failed to terminate postgres container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, noop, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminate()
		return nil, noop, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: "ledger",
	}
	if err := database.Migrate(cfg); err != nil {
		terminate()
		return nil, noop, fmt.Errorf("failed to apply migrations: %w", err)
	}

	pool, err := database.Open(ctx, cfg)
	if err != nil {
		terminate()
		return nil, noop, err
	}
	return pool, func() {
		pool.Close()
		terminate()
	}, nil
}

// RequireDB skips the test when no database is available and otherwise empties every table.
func RequireDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	if pool == nil {
		t.Skip("postgres container not available")
	}
	_, err := pool.Exec(context.Background(),
		`TRUNCATE running_timer, cost_item, time_entry, task, project, users RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("failed to truncate tables: %v", err)
	}
}

func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}
