package sqlstore

import (
	"context"
	"fmt"

	"seva-booking/internal/domain"
	"seva-booking/internal/repository"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) repository.UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.store.Exec(ctx, `
INSERT INTO users (fullname, email, password)
VALUES (?, ?, ?)`,
		user.Fullname,
		user.Email,
		user.Password,
	); err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByCredentials(ctx context.Context, email, password string) (*domain.User, error) {
	rows, err := r.store.Query(ctx, `
SELECT fullname, email
FROM users
WHERE `+r.store.exact("email")+` = ? AND `+r.store.exact("password")+` = ?`,
		email,
		password,
	)
	if err != nil {
		return nil, fmt.Errorf("select user: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("select user: %w", wrap("rows", err))
		}
		return nil, nil
	}

	var user domain.User
	if err := rows.Scan(&user.Fullname, &user.Email); err != nil {
		return nil, fmt.Errorf("scan user: %w", wrap("scan", err))
	}
	return &user, nil
}
