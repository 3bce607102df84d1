// Package service contains the business logic of the board.
//
//	Handler (HTTP) → Service (rules, ownership) → Repository (SQL)
//
// Services accept primitives and a model.Principal, never HTTP types, and
// return *apperror.AppError values for every failure a client may see.
// Store failures are wrapped with fmt.Errorf and surface as the generic
// client error.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/auth"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
	"github.com/sakif/community-board/internal/validate"
)

const (
	MinNicknameLength = 3
	MinPasswordLength = 4
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9]+$`)

// loginFailedMessage is shared by the unknown-user and wrong-password
// paths so a client cannot tell them apart.
const loginFailedMessage = "check your nickname or password"

// AuthService issues credentials: it registers users and exchanges a
// nickname/password pair for a session token.
type AuthService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// SessionTTL is the lifetime of issued tokens; zero means they never
// expire.
func (s *AuthService) SessionTTL() time.Duration {
	return s.tokens.TTL()
}

// LoginResult bundles the user and the issued token so the handler can
// set the cookie and respond in one step.
type LoginResult struct {
	User  *model.User
	Token string
}

// Signup registers a new user.
//
// RULE ORDER (first failure wins):
//  1. nickname is alphanumeric and at least 3 characters
//  2. password equals confirm
//  3. password is 4 to 72 bytes
//  4. password does not contain the nickname (case-sensitive)
//  5. nickname is not taken
//
// The returned user carries the stored hash in Password; it is tagged
// json:"-" and never serialized.
func (s *AuthService) Signup(ctx context.Context, nickname, password, confirm string) (*model.User, error) {
	const badNickname = "nickname format is invalid"
	const badPassword = "password format is invalid"

	if err := validate.Check(
		validate.Matches("nickname", nickname, nicknamePattern, badNickname),
		validate.MinLen("nickname", nickname, MinNicknameLength, badNickname),
		validate.Equal("confirm", confirm, password, "passwords do not match"),
		validate.MinLen("password", password, MinPasswordLength, badPassword),
		validate.MaxLen("password", password, auth.MaxPasswordBytes, badPassword),
		validate.NotContains("password", password, nickname, "password must not contain the nickname"),
	); err != nil {
		return nil, err
	}

	_, err := s.users.GetUserByNickname(ctx, nickname)
	switch {
	case err == nil:
		return nil, apperror.Conflict("nickname", "nickname is already taken")
	case !apperror.Is(err, apperror.ErrNotFound):
		return nil, fmt.Errorf("service/auth: checking nickname %q: %w", nickname, err)
	}

	hash, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: %w", err)
	}

	user := &model.User{Nickname: nickname, Password: hash}
	// A concurrent signup for the same nickname loses on the UNIQUE index
	// and comes back as the same Conflict error.
	if err := s.users.CreateUser(ctx, user); err != nil {
		if apperror.Is(err, apperror.ErrConflict) {
			return nil, err
		}
		return nil, fmt.Errorf("service/auth: creating user %q: %w", nickname, err)
	}

	s.logger.Info("user signed up",
		slog.Int64("userID", user.ID),
		slog.String("nickname", user.Nickname),
	)
	return user, nil
}

// Login verifies the credentials and mints a session token.
func (s *AuthService) Login(ctx context.Context, nickname, password string) (*LoginResult, error) {
	user, err := s.users.GetUserByNickname(ctx, nickname)
	if err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			_ = s.passwords.VerifyDecoy(password)
			return nil, apperror.Unauthenticated(loginFailedMessage)
		}
		return nil, fmt.Errorf("service/auth: looking up %q: %w", nickname, err)
	}

	if err := s.passwords.Verify(user.Password, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, apperror.Unauthenticated(loginFailedMessage)
		}
		return nil, fmt.Errorf("service/auth: verifying password for user %d: %w", user.ID, err)
	}

	token, err := s.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating token for user %d: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID))
	return &LoginResult{User: user, Token: token}, nil
}
