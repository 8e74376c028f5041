package service

import (
	"context"
	"errors"

	"seva-booking/internal/domain"
	"seva-booking/internal/repository"
)

// UserService describes account registration and login.
type UserService interface {
	Register(ctx context.Context, fullname, email, password string) error
	Login(ctx context.Context, email, password string) (*domain.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

// Register creates an account. Passwords are kept as submitted.
func (s *userService) Register(ctx context.Context, fullname, email, password string) error {
	if fullname == "" || email == "" || password == "" {
		return &ValidationError{Message: "All fields are required"}
	}

	user := &domain.User{
		Fullname: fullname,
		Email:    email,
		Password: password,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailTaken
		}
		return &StoreError{Op: "register", Err: err}
	}
	return nil
}

// Login matches email and password exactly. It does not reveal which of the two was wrong.
func (s *userService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByCredentials(ctx, email, password)
	if err != nil {
		return nil, &StoreError{Op: "login", Err: err}
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	return sanitizeUser(user), nil
}

func sanitizeUser(user *domain.User) *domain.User {
	return &domain.User{
		Fullname: user.Fullname,
		Email:    user.Email,
	}
}
