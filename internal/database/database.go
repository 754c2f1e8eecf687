package database

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/config"
	log "github.com/sirupsen/logrus"
)

// ConnectionURL builds the postgres URL shared by the pool and the migrator.
func ConnectionURL(cfg config.Database) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(cfg.User, cfg.Pass),
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Name,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	q.Set("search_path", cfg.Schema)
	u.RawQuery = q.Encode()
	return u.String()
}

// Open creates a connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg config.Database) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(ConnectionURL(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config: %w", err)
	}
	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Infof("Connected to database %s on %s:%d", cfg.Name, cfg.Host, cfg.Port)
	return pool, nil
}

// Migrate applies every pending migration from the migrations directory.
func Migrate(cfg config.Database) error {
	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return fmt.Errorf("failed to locate migrations directory: %w", err)
	}

	m, err := migrate.New("file://"+migrationsPath, ConnectionURL(cfg))
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}
	version, dirty, err := m.Version()
	if err == nil {
		log.Infof("Database schema at version %d (dirty: %t)", version, dirty)
	}
	return nil
}

// findMigrationsPath walks up from the working directory until it finds "migrations", so tests
// running inside package directories resolve the same files as the binary.
func findMigrationsPath() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "migrations")
		if info, err := os.Stat(candidate); err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("migrations directory not found")
		}
		dir = parent
	}
}
