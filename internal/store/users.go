package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Login        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (s *Store) CreateUser(ctx context.Context, login, passwordHash, role string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		INSERT INTO users (login, password_hash, role)
		VALUES (lower($1), $2, $3)
		RETURNING id, login, password_hash, role, created_at, updated_at
	`, login, passwordHash, role).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return User{}, ErrConflict
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByLogin(ctx context.Context, login string) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, login, password_hash, role, created_at, updated_at
		FROM users
		WHERE login = lower($1)
	`, login).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.db.QueryRow(ctx, `
		SELECT id, login, password_hash, role, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return u, nil
}
