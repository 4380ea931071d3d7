package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/wolfman30/synapse-clinic-hub/internal/accounts"
	"github.com/wolfman30/synapse-clinic-hub/internal/booking"
	"github.com/wolfman30/synapse-clinic-hub/internal/catalog"
	"github.com/wolfman30/synapse-clinic-hub/internal/chat"
	"github.com/wolfman30/synapse-clinic-hub/internal/dashboard"
	httpmiddleware "github.com/wolfman30/synapse-clinic-hub/internal/http/middleware"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Config holds router configuration
type Config struct {
	Logger             *logging.Logger
	Sessions           *session.Manager
	SessionHandler     *session.Handler
	AccountsHandler    *accounts.Handler
	CatalogHandler     *catalog.Handler
	BookingHandler     *booking.Handler
	ChatHandler        *chat.Handler
	DashboardHandler   *dashboard.Handler
	AuthRateLimiter    *httpmiddleware.RateLimiter
	ChatRateLimiter    *httpmiddleware.RateLimiter
	MetricsHandler     http.Handler
	CORSAllowedOrigins []string
}

// New creates a new Chi router with all routes configured
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.Sessions != nil {
		r.Use(session.Load(cfg.Sessions))
	}

	r.Get("/health", health)
	if cfg.MetricsHandler != nil {
		r.Handle("/metrics", cfg.MetricsHandler)
	}

	// Login and registration pages bounce signed-in visitors to their home.
	r.Group(func(pages chi.Router) {
		pages.Use(session.RedirectIfAuthenticated)
		pages.Get(session.LoginPath, session.Page("login"))
		pages.Get("/register", session.Page("register"))
	})

	r.Route("/auth", func(auth chi.Router) {
		auth.Group(func(limited chi.Router) {
			if cfg.AuthRateLimiter != nil {
				limited.Use(cfg.AuthRateLimiter.Middleware)
			}
			if cfg.SessionHandler != nil {
				limited.Post("/login", cfg.SessionHandler.Login)
			}
			if cfg.AccountsHandler != nil {
				limited.Post("/register", cfg.AccountsHandler.Register)
				limited.Post("/forgot-password", cfg.AccountsHandler.ForgotPassword)
			}
		})
		if cfg.SessionHandler != nil {
			auth.Post("/logout", cfg.SessionHandler.Logout)
			auth.Get("/me", cfg.SessionHandler.Me)
		}
	})

	if cfg.CatalogHandler != nil {
		r.Route("/services", func(services chi.Router) {
			services.Get("/", cfg.CatalogHandler.List)
			services.Get("/{id}", cfg.CatalogHandler.Get)
			services.With(session.RequireSession).Post("/{id}/book", cfg.CatalogHandler.Book)
		})
	}

	if cfg.ChatHandler != nil {
		r.Route("/chat", func(c chi.Router) {
			c.Get("/ws", cfg.ChatHandler.HandleWebSocket)
			c.Group(func(limited chi.Router) {
				if cfg.ChatRateLimiter != nil {
					limited.Use(cfg.ChatRateLimiter.Middleware)
				}
				limited.Post("/sessions", cfg.ChatHandler.Open)
			})
			c.Route("/sessions/{id}", func(s chi.Router) {
				s.Get("/messages", cfg.ChatHandler.History)
				s.Post("/messages", cfg.ChatHandler.Send)
				s.Delete("/", cfg.ChatHandler.Close)
			})
		})
	}

	// Signed-in routes
	r.Group(func(private chi.Router) {
		private.Use(session.RequireSession)

		if cfg.BookingHandler != nil {
			private.Route("/booking", func(b chi.Router) {
				b.Get("/options", cfg.BookingHandler.Options)
				b.Get("/dates", cfg.BookingHandler.Dates)
				b.Post("/drafts", cfg.BookingHandler.CreateDraft)
				b.Route("/drafts/{id}", func(d chi.Router) {
					d.Get("/", cfg.BookingHandler.GetDraft)
					d.Patch("/", cfg.BookingHandler.UpdateDraft)
					d.Delete("/", cfg.BookingHandler.DeleteDraft)
					d.Post("/submit", cfg.BookingHandler.SubmitDraft)
				})
			})
			private.Post("/appointments", cfg.BookingHandler.Book)
		}

		if cfg.DashboardHandler != nil {
			private.With(session.RequireRole(session.RoleAdmin)).Get(session.AdminHomePath, cfg.DashboardHandler.Admin)
			private.With(session.RequireRole(session.RoleClient)).Get(session.ClientHomePath, cfg.DashboardHandler.Client)
		}
	})

	return r
}

func health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
