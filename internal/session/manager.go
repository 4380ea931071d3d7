package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

var sessionTracer = otel.Tracer("synapse.internal.session")

type account struct {
	password string
	user     UserSession
}

// demoAccounts are the two fixed sign-ins the clinic ships with.
var demoAccounts = map[string]account{
	"admin@example.com": {
		password: "password",
		user:     UserSession{Name: "Admin User", Email: "admin@example.com", Role: RoleAdmin},
	},
	"client@example.com": {
		password: "password",
		user:     UserSession{Name: "Client User", Email: "client@example.com", Role: RoleClient},
	},
}

// LoginResult is a successful sign-in.
type LoginResult struct {
	SessionID string
	Token     string
	User      UserSession
	Redirect  string
}

// Manager signs users in and out.
type Manager struct {
	store   Store
	tokens  *Tokens
	delay   time.Duration
	logger  *logging.Logger
	metrics *metrics.ClinicMetrics
}

// ManagerConfig wires a Manager.
type ManagerConfig struct {
	Store   Store
	Tokens  *Tokens
	Delay   time.Duration
	Logger  *logging.Logger
	Metrics *metrics.ClinicMetrics
}

func NewManager(cfg ManagerConfig) *Manager {
	if cfg.Store == nil {
		cfg.Store = NewMemoryStore()
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	if cfg.Delay < 0 {
		cfg.Delay = 0
	}
	return &Manager{
		store:   cfg.Store,
		tokens:  cfg.Tokens,
		delay:   cfg.Delay,
		logger:  cfg.Logger,
		metrics: cfg.Metrics,
	}
}

// Login checks the credentials after the configured latency. The wait ends
// early with ctx's error if the caller goes away.
func (m *Manager) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	ctx, span := sessionTracer.Start(ctx, "session.login")
	defer span.End()

	if err := wait(ctx, m.delay); err != nil {
		return nil, err
	}

	acct, ok := demoAccounts[email]
	if !ok || acct.password != password {
		m.metrics.ObserveLogin("failure", "")
		m.logger.Info("login rejected", "email", email)
		return nil, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	if err := m.store.Save(ctx, sid, acct.user); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: login: %w", err)
	}
	token := sid
	if m.tokens != nil {
		signed, err := m.tokens.Issue(sid)
		if err != nil {
			_ = m.store.Clear(ctx, sid)
			return nil, err
		}
		token = signed
	}

	span.SetAttributes(attribute.String("synapse.role", string(acct.user.Role)))
	m.metrics.ObserveLogin("success", string(acct.user.Role))
	m.logger.Info("login succeeded", "email", email, "role", acct.user.Role)
	return &LoginResult{
		SessionID: sid,
		Token:     token,
		User:      acct.user,
		Redirect:  acct.user.Role.HomePath(),
	}, nil
}

// Logout clears the session. Clearing an absent session is not an error.
func (m *Manager) Logout(ctx context.Context, sid string) error {
	if sid == "" {
		return nil
	}
	return m.store.Clear(ctx, sid)
}

// Current returns the user for sid.
func (m *Manager) Current(ctx context.Context, sid string) (UserSession, bool) {
	if sid == "" {
		return UserSession{}, false
	}
	s, err := m.store.Load(ctx, sid)
	if err != nil {
		if !errors.Is(err, ErrNoSession) {
			m.logger.Warn("session load failed", "error", err)
		}
		return UserSession{}, false
	}
	return s, true
}

// Resolve turns a presented token into a session id.
func (m *Manager) Resolve(token string) (string, error) {
	if m.tokens == nil {
		if token == "" {
			return "", ErrInvalidToken
		}
		return token, nil
	}
	return m.tokens.Parse(token)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
