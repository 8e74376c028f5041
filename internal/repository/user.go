package repository

import (
	"context"
	"errors"

	"seva-booking/internal/domain"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate key")

// UserRepository defines persistence operations for User entities.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// FindByCredentials returns the first user whose email and password both
	// match exactly, or nil when there is none.
	FindByCredentials(ctx context.Context, email, password string) (*domain.User, error)
}
