// Package auth handles account registration and bearer-token sessions.
//
// Each user holds at most one live token. Login replaces it, logout clears
// it, and a request is authenticated by looking the token up directly, so
// revocation takes effect immediately.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"agririsk-back/internal/apperr"
	"agririsk-back/internal/models"
	"agririsk-back/internal/store"
)

var (
	errEmailTaken         = apperr.Conflict("Email already registered")
	errInvalidCredentials = apperr.Unauthorized("Invalid credentials")
	errMissingToken       = apperr.Unauthorized("Missing token")
	errInvalidToken       = apperr.Unauthorized("Invalid token")
)

type Service struct {
	store  *store.Store
	hasher *PasswordHasher
	logger *slog.Logger

	// dummyHash is verified against when the email is unknown, so that
	// login takes as long for a missing account as for a wrong password.
	dummyHash string
}

func NewService(st *store.Store, hasher *PasswordHasher, logger *slog.Logger) *Service {
	s := &Service{
		store:  st,
		hasher: hasher,
		logger: logger.With("component", "auth"),
	}

	hash, err := hasher.Hash("agririsk-unknown-account")
	if err != nil {
		s.logger.Warn("failed to prepare dummy password hash", "error", err)
	}
	s.dummyHash = hash
	return s
}

// Register creates an account for the trimmed email.
func (s *Service) Register(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, apperr.Validation("email must not be empty", nil)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	var user *models.User
	err = s.store.Tx(ctx, func(tx *store.Store) error {
		if _, err := tx.UserByEmail(email); err == nil {
			return errEmailTaken
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		u := &models.User{Email: email, Password: hash}
		if err := tx.CreateUser(u); err != nil {
			// Lost a race with a concurrent registration.
			if errors.Is(err, store.ErrDuplicate) {
				return errEmailTaken
			}
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID)
	return user, nil
}

// Login verifies the credentials and issues a new token, replacing any
// token the user already had.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = strings.TrimSpace(email)

	var (
		user  *models.User
		token string
	)
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		u, err := tx.UserByEmail(email)
		if errors.Is(err, store.ErrNotFound) {
			_, _, _ = s.hasher.Verify(s.dummyHash, password)
			return errInvalidCredentials
		}
		if err != nil {
			return err
		}

		ok, needsRehash, err := s.hasher.Verify(u.Password, password)
		if err != nil {
			return fmt.Errorf("verify password for user %d: %w", u.ID, err)
		}
		if !ok {
			return errInvalidCredentials
		}

		if needsRehash {
			hash, err := s.hasher.Hash(password)
			if err != nil {
				return err
			}
			if err := tx.SetPassword(u.ID, hash); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "password hash upgraded", "user_id", u.ID)
		}

		tok, err := GenerateToken()
		if err != nil {
			return err
		}
		if err := tx.SetToken(u.ID, &tok); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				return errInvalidCredentials
			}
			return err
		}

		u.AuthToken = &tok
		user, token = u, tok
		return nil
	})
	if err != nil {
		return nil, "", err
	}

	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return user, token, nil
}

// Logout clears the user's token. Clearing an already empty token is fine.
func (s *Service) Logout(ctx context.Context, user *models.User) error {
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		return tx.SetToken(user.ID, nil)
	})
	if err != nil {
		return err
	}

	user.AuthToken = nil
	s.logger.InfoContext(ctx, "user logged out", "user_id", user.ID)
	return nil
}

// Authenticate resolves an Authorization header to its user.
func (s *Service) Authenticate(ctx context.Context, header string) (*models.User, error) {
	token, ok := BearerToken(header)
	if !ok {
		return nil, errMissingToken
	}

	var user *models.User
	err := s.store.Tx(ctx, func(tx *store.Store) error {
		u, err := tx.UserByToken(token)
		if errors.Is(err, store.ErrNotFound) {
			return errInvalidToken
		}
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
