package repository

import (
	"context"
	"errors"
	"time"

	"writers-api/internal/domain"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (int64, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	// MarkEmailVerified sets email_verified_at only when it is still NULL and
	// reports whether a row changed.
	MarkEmailVerified(ctx context.Context, id int64, at time.Time) (bool, error)
	ListNames(ctx context.Context) ([]domain.Writer, error)
}
