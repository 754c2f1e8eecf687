package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/database"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, database, router, and server lifecycle.
type Application struct {
	cfg    config.Application
	db     *pgxpool.Pool
	router *mux.Router
	srv    *http.Server
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication(ctx context.Context) (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	if err := database.Migrate(cfg.Database); err != nil {
		return nil, err
	}
	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	deps, err := BuildDependencies(db, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	r := mux.NewRouter()
	SetupMiddleware(r, deps)
	RegisterRoutes(r, deps)

	srv := &http.Server{
		Handler:      r,
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, db: db, router: r, srv: srv}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled or the server fails.
func (a *Application) Run(ctx context.Context) error {
	defer a.db.Close()

	errs := make(chan error, 1)
	go func() {
		log.Infof("Starting server on %s", a.srv.Addr)
		errs <- a.srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
		log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return a.srv.Shutdown(shutdownCtx)
	}
}
