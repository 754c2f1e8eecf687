package app

import (
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/klokku/ledger/internal/config"
	"github.com/klokku/ledger/internal/event_bus"
	"github.com/klokku/ledger/internal/utils"
	"github.com/klokku/ledger/pkg/cost"
	"github.com/klokku/ledger/pkg/finance"
	"github.com/klokku/ledger/pkg/finance_settings"
	"github.com/klokku/ledger/pkg/report"
	"github.com/klokku/ledger/pkg/timeentry"
	"github.com/klokku/ledger/pkg/timer"
	"github.com/klokku/ledger/pkg/user"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	EventBus *event_bus.EventBus
	Clock    utils.Clock

	UserService user.Service
	UserHandler *user.Handler

	FinanceSettingsRepo    *finance_settings.RepositoryImpl
	FinanceSettingsService *finance_settings.ServiceImpl
	FinanceSettingsHandler *finance_settings.Handler

	TimeEntryRepo    *timeentry.RepositoryImpl
	TimeEntryService *timeentry.ServiceImpl
	TimeEntryHandler *timeentry.Handler

	TimerService *timer.ServiceImpl
	TimerHandler *timer.Handler

	CostRepo    *cost.RepositoryImpl
	CostService *cost.ServiceImpl
	CostHandler *cost.Handler

	Engine        *finance.Engine
	ReportService *report.ServiceImpl
	ReportHandler *report.Handler
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) (*Dependencies, error) {
	deps := &Dependencies{}

	location, err := time.LoadLocation(cfg.Finance.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid finance timezone %q: %w", cfg.Finance.Timezone, err)
	}

	deps.EventBus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.UserService = user.NewUserService(user.NewUserRepo(db), deps.EventBus)
	deps.UserHandler = user.NewHandler(deps.UserService)

	deps.FinanceSettingsRepo = finance_settings.NewRepository(db)
	deps.FinanceSettingsService = finance_settings.NewService(deps.FinanceSettingsRepo, deps.EventBus)
	deps.FinanceSettingsHandler = finance_settings.NewHandler(deps.FinanceSettingsService)

	deps.TimeEntryRepo = timeentry.NewRepository(db)
	deps.TimeEntryService = timeentry.NewService(deps.TimeEntryRepo, deps.FinanceSettingsService, deps.EventBus, deps.Clock)
	deps.TimeEntryHandler = timeentry.NewHandler(deps.TimeEntryService)

	deps.TimerService = timer.NewService(timer.NewRepository(db), deps.FinanceSettingsService, deps.TimeEntryService, deps.Clock, location)
	deps.TimerHandler = timer.NewHandler(deps.TimerService)

	deps.CostRepo = cost.NewRepository(db)
	deps.CostService = cost.NewService(deps.CostRepo, deps.FinanceSettingsService, deps.EventBus)
	deps.CostHandler = cost.NewHandler(deps.CostService)

	deps.Engine = finance.NewEngine(deps.Clock).
		WithDefaultCommissionPercent(decimal.NewFromInt(int64(cfg.Finance.DefaultCommissionPercent)))
	deps.ReportService = report.NewService(deps.Engine, report.Readers{
		Settings: deps.FinanceSettingsRepo,
		Entries:  deps.TimeEntryRepo,
		Costs:    deps.CostRepo,
		Rates:    deps.UserService,
	}, location, deps.Clock)
	if cfg.Finance.CacheEnabled {
		log.Info("Report cache enabled")
		deps.ReportService.WithCache(deps.EventBus)
	}
	deps.ReportHandler = report.NewHandler(deps.ReportService, report.NewCsvLedgerRenderer(), report.NewPdfReportRenderer())

	return deps, nil
}
