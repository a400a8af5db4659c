package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"radeya/internal/auth"
	"radeya/internal/store"
)

const (
	minLoginLen    = 3
	minPasswordLen = 8
)

// Session is an authenticated user plus the token to hand back to the client.
type Session struct {
	User  store.User
	Token string
}

// Register creates an account and signs it in. Only known roles are accepted;
// an empty role defaults to manager.
func (s *Service) Register(ctx context.Context, login, password, role string) (Session, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if len(login) < minLoginLen {
		return Session{}, fmt.Errorf("%w: login must be at least %d characters", ErrInvalidInput, minLoginLen)
	}
	if len(password) < minPasswordLen {
		return Session{}, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidInput, minPasswordLen)
	}
	if role == "" {
		role = store.RoleManager
	}
	switch role {
	case store.RoleAdmin, store.RoleManager, store.RoleUser:
	default:
		return Session{}, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, role)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return Session{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.CreateUser(ctx, login, hash, role)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			return Session{}, fmt.Errorf("%w: login already taken", ErrConflict)
		}
		return Session{}, err
	}
	return s.startSession(user)
}

// Login verifies credentials and returns a fresh session.
func (s *Service) Login(ctx context.Context, login, password string) (Session, error) {
	login = strings.ToLower(strings.TrimSpace(login))
	if login == "" || password == "" {
		return Session{}, fmt.Errorf("%w: login and password required", ErrInvalidInput)
	}

	user, err := s.users.GetUserByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrUnauthorized
		}
		return Session{}, err
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return Session{}, ErrUnauthorized
	}
	return s.startSession(user)
}

// CurrentUser resolves the user behind a token subject.
func (s *Service) CurrentUser(ctx context.Context, userID string) (store.User, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return store.User{}, fmt.Errorf("%w: bad user id", ErrInvalidInput)
	}
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrNotFound
		}
		return store.User{}, err
	}
	return user, nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *Service) EnsureAdmin(ctx context.Context, login, password string) error {
	if login == "" || password == "" {
		return nil
	}
	if _, err := s.users.GetUserByLogin(ctx, login); err == nil {
		return nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.users.CreateUser(ctx, login, hash, store.RoleAdmin); err != nil {
		if errors.Is(err, store.ErrConflict) {
			return nil
		}
		return err
	}
	s.logger.Printf("bootstrap admin %q created", login)
	return nil
}

func (s *Service) startSession(user store.User) (Session, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Login, user.Role)
	if err != nil {
		return Session{}, fmt.Errorf("issue token: %w", err)
	}
	return Session{User: user, Token: token}, nil
}
