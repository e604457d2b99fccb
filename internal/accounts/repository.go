package accounts

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/joao-fontenele/storefront-otel-demo/internal/domain"
)

const uniqueViolation = pq.ErrorCode("23505")

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and sets its generated id. A concurrent signup that
// wins the race on the email index surfaces as domain.ErrEmailExists.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO users (first_name, middle_name, last_name, phone, email, password_hash, address)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`, user.FirstName, user.MiddleName, user.LastName, user.Phone, user.Email, user.PasswordHash, user.Address).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrEmailExists
		}
		return err
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	user := &domain.User{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, first_name, middle_name, last_name, phone, email, password_hash, address
		FROM users
		WHERE email = $1
	`, email).Scan(&user.ID, &user.FirstName, &user.MiddleName, &user.LastName, &user.Phone, &user.Email, &user.PasswordHash, &user.Address)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return user, nil
}

// UpdateAddress replaces the stored address. It reports false when no user has that email.
func (r *UserRepository) UpdateAddress(ctx context.Context, email string, address *string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `
		UPDATE users SET address = $1
		WHERE email = $2
	`, address, email)
	if err != nil {
		return false, err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rowsAffected > 0, nil
}
