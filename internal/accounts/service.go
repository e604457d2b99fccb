package accounts

import (
	"context"
	"fmt"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
	"github.com/joao-fontenele/storefront-otel-demo/internal/telemetry"
)

type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateAddress(ctx context.Context, email string, address *string) (bool, error)
}

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

type Service struct {
	users   UserStore
	hasher  PasswordHasher
	metrics *telemetry.StoreMetrics
}

func NewService(users UserStore, hasher PasswordHasher, metrics *telemetry.StoreMetrics) *Service {
	return &Service{
		users:   users,
		hasher:  hasher,
		metrics: metrics,
	}
}

type Registration struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Password  string
}

// Register creates an account. It fails with domain.ErrEmailExists when the
// email is taken, whether detected up front or by the unique index on insert.
func (s *Service) Register(ctx context.Context, reg Registration) (*domain.User, error) {
	existing, err := s.users.GetByEmail(ctx, reg.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		FirstName:    reg.FirstName,
		LastName:     reg.LastName,
		Phone:        reg.Phone,
		Email:        reg.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.SignedUp(ctx)
	return user, nil
}

// Authenticate checks the credentials. No session or token is issued.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil || !s.hasher.Verify(user.PasswordHash, password) {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, email string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return user, nil
}

// UpdateAddress overwrites the stored address wholesale; nil clears it.
func (s *Service) UpdateAddress(ctx context.Context, email string, address *string) error {
	updated, err := s.users.UpdateAddress(ctx, email, address)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if !updated {
		return domain.ErrNotFound
	}
	return nil
}
