package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/synapse-clinic-hub/internal/accounts"
	"github.com/wolfman30/synapse-clinic-hub/internal/api/router"
	"github.com/wolfman30/synapse-clinic-hub/internal/appointments"
	"github.com/wolfman30/synapse-clinic-hub/internal/booking"
	"github.com/wolfman30/synapse-clinic-hub/internal/catalog"
	"github.com/wolfman30/synapse-clinic-hub/internal/chat"
	appconfig "github.com/wolfman30/synapse-clinic-hub/internal/config"
	"github.com/wolfman30/synapse-clinic-hub/internal/dashboard"
	httpmiddleware "github.com/wolfman30/synapse-clinic-hub/internal/http/middleware"
	"github.com/wolfman30/synapse-clinic-hub/internal/notify"
	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

const (
	draftSweepInterval = 10 * time.Minute
	chatSweepInterval  = 5 * time.Minute
)

// ErrMissingSigningSecret is returned in production when no session signing
// secret is configured.
var ErrMissingSigningSecret = errors.New("bootstrap: SESSION_SIGNING_SECRET is required in production")

// App is the assembled API process.
type App struct {
	Handler     http.Handler
	Drafts          *booking.DraftStore
	ChatRegistry    *chat.Registry
	ChatHandler     *chat.Handler
	RateLimiter     *httpmiddleware.RateLimiter
	ChatRateLimiter *httpmiddleware.RateLimiter

	cfg     *appconfig.Config
	closers []func(context.Context)
}

// Build connects the configured stores and wires every handler. Stores that
// are not configured, or not reachable, fall back to memory.
func Build(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	app := &App{cfg: cfg}

	loc, err := time.LoadLocation(cfg.ClinicTimezone)
	if err != nil {
		logger.Warn("unknown clinic timezone; using UTC", "timezone", cfg.ClinicTimezone, "error", err)
		loc = time.UTC
	}

	secret := cfg.SessionSigningSecret
	if secret == "" {
		if cfg.IsProduction() {
			return nil, ErrMissingSigningSecret
		}
		secret = uuid.NewString()
		logger.Warn("SESSION_SIGNING_SECRET not set; sessions will not survive a restart")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	clinicMetrics := metrics.NewClinicMetrics(registry)

	redisClient := BuildRedisClient(ctx, cfg, logger, true)
	if redisClient != nil {
		app.closers = append(app.closers, func(context.Context) { _ = redisClient.Close() })
	}
	manager := session.NewManager(session.ManagerConfig{
		Store:   BuildSessionStore(redisClient, cfg.SessionTTL),
		Tokens:  session.NewTokens(secret),
		Delay:   cfg.AuthSimulatedDelay,
		Logger:  logger,
		Metrics: clinicMetrics,
	})

	mongoClient := ConnectMongo(ctx, cfg, logger)
	if mongoClient != nil {
		app.closers = append(app.closers, func(ctx context.Context) { _ = mongoClient.Disconnect(ctx) })
	}
	accountSvc := accounts.NewService(accounts.ServiceConfig{
		Repository: BuildAccountsRepository(ctx, mongoClient, cfg, logger),
		Delay:      cfg.AuthSimulatedDelay,
		Metrics:    clinicMetrics,
		Logger:     logger,
	})

	pool := ConnectPostgres(ctx, cfg.DatabaseURL, logger)
	if pool != nil {
		app.closers = append(app.closers, func(context.Context) { pool.Close() })
	}
	notifier := notify.NewService(notify.ServiceConfig{
		Sender:     BuildEmailSender(ctx, cfg, logger),
		ClinicName: cfg.ClinicName,
		ReplyTo:    cfg.EmailReplyTo,
		Logger:     logger,
	})
	apptSvc := appointments.NewService(BuildAppointmentsRepository(pool), notifier, clinicMetrics, logger)

	cat := catalog.Default()
	app.Drafts = booking.NewDraftStore()
	bookingHandler := booking.NewHandler(booking.HandlerConfig{
		Catalog: cat,
		Policy:  booking.NewDatePolicy(loc, nil),
		Drafts:  app.Drafts,
		Booker:  apptSvc,
		Metrics: clinicMetrics,
		Logger:  logger,
	})

	responder := chat.DefaultResponder()
	chatOpts := chat.WidgetOptions{Delay: cfg.ChatReplyDelay, Metrics: clinicMetrics}
	app.ChatRegistry = chat.NewRegistry(responder, chatOpts)
	app.ChatHandler = chat.NewHandler(app.ChatRegistry, responder, chatOpts, logger)

	app.RateLimiter = httpmiddleware.NewRateLimiter(cfg.AuthRateLimitPerSecond, cfg.AuthRateLimitBurst)
	app.ChatRateLimiter = httpmiddleware.NewRateLimiter(cfg.ChatOpenRatePerSecond, cfg.ChatOpenRateBurst)

	app.Handler = router.New(&router.Config{
		Logger:             logger,
		Sessions:           manager,
		SessionHandler:     session.NewHandler(manager, cfg.SessionCookieSecure, cfg.SessionTTL, logger),
		AccountsHandler:    accounts.NewHandler(accountSvc, logger),
		CatalogHandler:     catalog.NewHandler(cat, logger),
		BookingHandler:     bookingHandler,
		ChatHandler:        app.ChatHandler,
		DashboardHandler:   dashboard.NewHandler(dashboard.NewBuilder(apptSvc.Repository(), accountSvc, registry, loc), logger),
		AuthRateLimiter:    app.RateLimiter,
		ChatRateLimiter:    app.ChatRateLimiter,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	logger.Info("components ready",
		"redis_sessions", redisClient != nil,
		"mongo_users", mongoClient != nil,
		"postgres_appointments", pool != nil,
		"email_provider", cfg.EmailProvider,
	)
	return app, nil
}

// RunBackground starts the draft and chat janitors and rate limiter eviction
// until ctx ends.
func (a *App) RunBackground(ctx context.Context) {
	go a.Drafts.RunJanitor(ctx, a.cfg.DraftMaxAge, draftSweepInterval)
	go a.ChatRegistry.RunJanitor(ctx, a.cfg.ChatSessionMaxAge, chatSweepInterval)
	go a.RateLimiter.Run(ctx)
	go a.ChatRateLimiter.Run(ctx)
}

// Close stops chat widgets and releases store connections.
func (a *App) Close(ctx context.Context) {
	a.ChatHandler.CloseAll()
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i](ctx)
	}
}
