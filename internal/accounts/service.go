package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/wolfman30/synapse-clinic-hub/internal/observability/metrics"
	"github.com/wolfman30/synapse-clinic-hub/internal/session"
	"github.com/wolfman30/synapse-clinic-hub/pkg/logging"
)

// Service registers accounts.
type Service struct {
	repo    Repository
	delay   time.Duration
	cost    int
	metrics *metrics.ClinicMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// ServiceConfig wires a Service. A zero BcryptCost uses bcrypt.DefaultCost.
type ServiceConfig struct {
	Repository Repository
	Delay      time.Duration
	BcryptCost int
	Metrics    *metrics.ClinicMetrics
	Logger     *logging.Logger
}

func NewService(cfg ServiceConfig) *Service {
	if cfg.Repository == nil {
		cfg.Repository = NewInMemoryRepository()
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = bcrypt.DefaultCost
	}
	if cfg.Logger == nil {
		cfg.Logger = logging.Default()
	}
	return &Service{
		repo:    cfg.Repository,
		delay:   cfg.Delay,
		cost:    cfg.BcryptCost,
		metrics: cfg.Metrics,
		logger:  cfg.Logger,
		now:     time.Now,
	}
}

// Register creates a client account. Input errors are returned before the
// simulated delay; store errors other than a duplicate surface as
// ErrRegistrationFailed.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	if err := req.Validate(); err != nil {
		s.metrics.ObserveRegistration("invalid")
		return nil, err
	}
	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		s.logger.Error("password hashing failed", "error", err)
		return nil, errors.Join(ErrRegistrationFailed, err)
	}
	user := &User{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: string(hash),
		Role:         session.RoleClient,
		CreatedAt:    s.now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateAccount) {
			s.metrics.ObserveRegistration("duplicate")
			return nil, ErrDuplicateAccount
		}
		s.metrics.ObserveRegistration("failed")
		s.logger.Error("account create failed", "error", err)
		return nil, errors.Join(ErrRegistrationFailed, err)
	}

	s.metrics.ObserveRegistration("created")
	s.logger.Info("account registered", "user_id", user.ID)
	return user, nil
}

// ForgotPassword records a reset request. It reveals nothing about whether
// the account exists.
func (s *Service) ForgotPassword(ctx context.Context, email string) {
	email = normalizeEmail(email)
	if email == "" {
		return
	}
	_, err := s.repo.FindByEmail(ctx, email)
	switch {
	case err == nil:
		s.logger.Info("password reset requested", "known_account", true)
	case errors.Is(err, ErrUserNotFound):
		s.logger.Info("password reset requested", "known_account", false)
	default:
		s.logger.Warn("password reset lookup failed", "error", err)
	}
}

// CountClients returns the number of registered client accounts.
func (s *Service) CountClients(ctx context.Context) (int64, error) {
	n, err := s.repo.CountByRole(ctx, session.RoleClient)
	if err != nil {
		return 0, fmt.Errorf("accounts: count clients: %w", err)
	}
	return n, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
