package app

import (
	"aurum-backend/internal/config"
	"aurum-backend/internal/dashboard"
	"aurum-backend/internal/database"
	"aurum-backend/internal/domain"
	"aurum-backend/internal/gate"
	"aurum-backend/internal/health"
	"aurum-backend/internal/kyc"
	"aurum-backend/internal/ledger"
	"aurum-backend/internal/middleware"
	"aurum-backend/internal/settlement"
	"aurum-backend/internal/tenant"
	"aurum-backend/internal/trading"
	"aurum-backend/internal/user"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// App bundles the HTTP app with the long-lived handles main needs for
// startup pings and the background sweep.
type App struct {
	Fiber   *fiber.App
	DB      *gorm.DB
	Rdb     *redis.Client
	Sweeper *trading.Sweeper
}

// New builds the Fiber app with all global middleware and route registration.
func New(cfg *config.Config) (*App, error) {
	fiberApp := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler,
	})

	fiberApp.Use(middleware.Tracing())
	fiberApp.Use(middleware.RouteLogger())

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		rdb = redis.NewClient(opt)
	}

	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Open(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := database.AutoMigrate(db); err != nil {
			return nil, err
		}
	}

	// Health endpoint stays up even when dependencies are down.
	var pinger health.DBPinger
	if db != nil {
		if sqlDB, err := db.DB(); err == nil {
			pinger = sqlDB
		}
	}
	healthHandlers := &health.Handlers{Rdb: rdb, DB: pinger}
	fiberApp.Get("/health/json", healthHandlers.JSON)

	if db == nil {
		return &App{Fiber: fiberApp, Rdb: rdb}, nil
	}

	resolver := &tenant.Resolver{DB: db, Rdb: rdb, CacheTTL: cfg.TenantCacheTTL}
	userService := &user.Service{DB: db}
	ledgerStore := &ledger.Store{DB: db}
	tradeGate := &gate.Gate{Ledger: ledgerStore}

	// Real provider integration replaces the static connector; the
	// idempotency wrapper stays in front of whatever implements it.
	var connector settlement.Connector = &settlement.StaticConnector{AcceptPayments: true, AcceptPayouts: true}
	var outcomes trading.OutcomeCache
	if rdb != nil {
		idem := &settlement.Idempotent{Next: connector, Rdb: rdb, TTL: cfg.TenantCacheTTL}
		connector = idem
		outcomes = idem
	}

	orchestrator := &trading.Orchestrator{
		Ledger:            ledgerStore,
		Gate:              tradeGate,
		Settlement:        connector,
		Replay:            &trading.ReplayCache{Rdb: rdb, TTL: cfg.TenantCacheTTL},
		SettlementTimeout: cfg.SettlementTimeout,
		CommitRetries:     cfg.CommitRetries,
	}
	sweeper := &trading.Sweeper{Ledger: ledgerStore, Outcomes: outcomes, StaleAfter: cfg.StalePendingAfter}

	dashboardService := &dashboard.Service{
		DB:     db,
		Ledger: ledgerStore,
		Prices: &dashboard.StaticPriceSource{Prices: map[domain.AssetType]decimal.Decimal{}},
	}

	validateTenant := middleware.ValidateTenant(resolver)
	identity := middleware.Identity(userService)

	tenantHandlers := &tenant.Handlers{}
	fiberApp.Get("/api/v1/tenant/config", validateTenant, tenantHandlers.Config)

	userHandlers := &user.Handlers{}
	fiberApp.Get("/api/v1/user/profile", validateTenant, identity, userHandlers.Profile)

	tradeHandlers := &trading.Handlers{Orchestrator: orchestrator}
	tradeGroup := fiberApp.Group("/api/v1/trade", validateTenant, identity)
	tradeGroup.Post("/buy", tradeHandlers.Buy)
	tradeGroup.Post("/sell", tradeHandlers.Sell)
	tradeGroup.Get("/history", tradeHandlers.History)

	dashboardHandlers := &dashboard.Handlers{Service: dashboardService}
	fiberApp.Get("/api/v1/portfolio", validateTenant, identity, dashboardHandlers.Portfolio)

	adminGroup := fiberApp.Group("/api/v1/admin", validateTenant, identity, middleware.RequireAdmin())
	adminGroup.Get("/dashboard", dashboardHandlers.AdminDashboard)

	kycHandlers := &kyc.Handlers{Service: &kyc.Service{DB: db, Provider: &kyc.StaticProvider{Approve: true}}}
	kycGroup := fiberApp.Group("/api/v1/kyc", validateTenant, identity)
	kycGroup.Post("/submit", kycHandlers.Submit)

	return &App{Fiber: fiberApp, DB: db, Rdb: rdb, Sweeper: sweeper}, nil
}
