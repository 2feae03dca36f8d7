// Package services contains server-side business logic. This file implements
// UserService, which handles registration and login.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/cardtrack/internal/common"
	"github.com/dmitrijs2005/cardtrack/internal/dbx"
	"github.com/dmitrijs2005/cardtrack/internal/server/auth"
	"github.com/dmitrijs2005/cardtrack/internal/server/config"
	"github.com/dmitrijs2005/cardtrack/internal/server/models"
	"github.com/dmitrijs2005/cardtrack/internal/server/repositories/repomanager"
)

// RegisterInput is what a client submits to create an account. Any field may
// be empty; missing required values are reported by the credential store.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginResult is returned on successful login.
type LoginResult struct {
	User  *models.User
	Token string
}

// UserService provides account operations:
// - Register: create users with a bcrypt digest of their password
// - Login: verify credentials and mint an access token
type UserService struct {
	db                    *sql.DB
	repomanager           repomanager.RepositoryManager
	hasher                auth.PasswordHasher
	jwtSecret             []byte
	tokenValidityDuration time.Duration

	dummyOnce   sync.Once
	dummyDigest string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, cfg *config.Config) *UserService {
	return &UserService{
		db:                    db,
		repomanager:           m,
		hasher:                hasher,
		jwtSecret:             []byte(cfg.SecretKey),
		tokenValidityDuration: cfg.TokenValidityDuration,
	}
}

// Register creates a non-admin user. Duplicate e-mails and missing required
// fields come back as *common.ConflictError.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := &models.User{
		Name:  strings.TrimSpace(in.Name),
		Email: strings.TrimSpace(in.Email),
	}
	return s.create(ctx, user, in.Password)
}

// CreateAdmin creates a user with the admin flag set. Used by cardctl.
func (s *UserService) CreateAdmin(ctx context.Context, in RegisterInput) (*models.User, error) {
	user := &models.User{
		Name:    strings.TrimSpace(in.Name),
		Email:   strings.TrimSpace(in.Email),
		IsAdmin: true,
	}
	return s.create(ctx, user, in.Password)
}

func (s *UserService) create(ctx context.Context, user *models.User, password string) (*models.User, error) {
	// An empty password stays empty and is rejected by the store as a
	// missing column, like any other required field.
	if password != "" {
		digest, err := s.hasher.Hash(password)
		if err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
		user.Password = digest
	}

	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		return s.repomanager.Users(tx).Create(ctx, user)
	})
}

// Login verifies the credentials and issues a token. Unknown e-mail and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	invalid := &common.AuthError{Err: common.ErrInvalidCredentials}

	user, err := s.repomanager.Users(s.db).GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.hasher.Check(password, s.timingDigest())
			return nil, invalid
		}
		return nil, fmt.Errorf("%w: %w", common.ErrInternal, err)
	}

	if !s.hasher.Check(password, user.Password) {
		return nil, invalid
	}

	token, err := auth.GenerateToken(user.ID, s.jwtSecret, s.tokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("%w: sign token: %w", common.ErrInternal, err)
	}
	return &LoginResult{User: user, Token: token}, nil
}

// SetAdmin grants or revokes the admin flag of the user with the given e-mail.
func (s *UserService) SetAdmin(ctx context.Context, email string, isAdmin bool) (*models.User, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, userNotFound(err)
		}
		if err := repo.SetAdmin(ctx, user.ID, isAdmin); err != nil {
			return nil, err
		}
		user.IsAdmin = isAdmin
		return user, nil
	})
}

// DeleteUser removes the user with the given e-mail together with their
// cards and comments.
func (s *UserService) DeleteUser(ctx context.Context, email string) (*models.User, error) {
	return dbx.WithTxResult(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*models.User, error) {
		repo := s.repomanager.Users(tx)
		user, err := repo.GetUserByEmail(ctx, email)
		if err != nil {
			return nil, userNotFound(err)
		}
		if err := repo.Delete(ctx, user.ID); err != nil {
			return nil, err
		}
		return user, nil
	})
}

// timingDigest is checked against when the e-mail is unknown, so that both
// failure paths pay for one hash comparison.
func (s *UserService) timingDigest() string {
	s.dummyOnce.Do(func() {
		s.dummyDigest, _ = s.hasher.Hash("cardtrack-timing-equalizer")
	})
	return s.dummyDigest
}

func userNotFound(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return &common.NotFoundError{Entity: "User"}
	}
	return err
}
