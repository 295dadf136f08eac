package twofactor

import (
	"io"
	"log/slog"
	"time"

	"github.com/dmitrymomot/mfakit/pkg/challenge"
	"github.com/dmitrymomot/mfakit/pkg/vault"
)

// Service orchestrates two-factor enrollment and challenge verification on
// top of the storage contract and the leaf packages. It holds no mutable
// state of its own and is safe for concurrent use.
type Service struct {
	cfg       Config
	storage   Storage
	registry  *challenge.Registry
	seedVault *vault.Vault
	passwords PasswordVerifier
	sessions  SessionIssuer
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the service time source. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the enrollment and verification coordinator.
func NewService(
	cfg Config,
	storage Storage,
	registry *challenge.Registry,
	seedVault *vault.Vault,
	passwords PasswordVerifier,
	sessions SessionIssuer,
	opts ...Option,
) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if storage == nil || registry == nil || seedVault == nil || passwords == nil || sessions == nil {
		return nil, ErrNilDependency
	}

	s := &Service{
		cfg:       cfg,
		storage:   storage,
		registry:  registry,
		seedVault: seedVault,
		passwords: passwords,
		sessions:  sessions,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:       time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Registry exposes the underlying challenge registry so the first-factor
// login flow can create challenges after a password success.
func (s *Service) Registry() *challenge.Registry {
	return s.registry
}
