package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cuistot/cuistot/internal/auth"
	"github.com/cuistot/cuistot/internal/metrics"
	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

// Account errors.
var (
	ErrEmailExists        = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrWeakPassword       = errors.New("password too short")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid or expired session")
	ErrInvalidAPIKey      = errors.New("invalid Gemini API key format")
)

// emailRegex is deliberately loose: real validation happens when the
// address is used, not here.
var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

const (
	minPasswordLength = 8
	minAPIKeyLength   = 20
)

// UserStore is the user persistence surface AccountService needs.
// Satisfied by *repository.Repository.
type UserStore interface {
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// CredentialStore manages stored API keys. Satisfied by
// *repository.Repository.
type CredentialStore interface {
	UpsertCredential(ctx context.Context, cred *model.Credential) error
	GetCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error)
	DeleteCredential(ctx context.Context, userID string) error
}

// SessionStore holds login sessions. Satisfied by *cache.Cache.
type SessionStore interface {
	SetSession(ctx context.Context, tokenHash string, auth *model.AuthContext, ttl time.Duration) error
	GetSession(ctx context.Context, tokenHash string) (*model.AuthContext, error)
	DeleteSession(ctx context.Context, tokenHash string) error
}

// AccountService handles signup, login, sessions and API key settings.
type AccountService struct {
	users      UserStore
	creds      CredentialStore
	sessions   SessionStore
	sessionTTL time.Duration
	metrics    metrics.Recorder
	logger     *slog.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(users UserStore, creds CredentialStore, sessions SessionStore, sessionTTL time.Duration, recorder metrics.Recorder, logger *slog.Logger) *AccountService {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &AccountService{
		users:      users,
		creds:      creds,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		metrics:    recorder,
		logger:     logger,
	}
}

// Signup registers a new account and opens a session for it.
func (s *AccountService) Signup(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailRegex.MatchString(email) {
		return nil, "", ErrInvalidEmail
	}
	if len(password) < minPasswordLength {
		return nil, "", ErrWeakPassword
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, "", ErrEmailExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.mintSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	s.logger.Info("account created", "user_id", user.ID)
	return user, token, nil
}

// Login verifies the password and opens a session. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			s.metrics.IncAuthDenied()
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("get user: %w", err)
	}

	ok, err := auth.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, "", fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.metrics.IncAuthDenied()
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.mintSession(ctx, user)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Logout revokes the session for the given token. Revoking an already
// dead session is fine.
func (s *AccountService) Logout(ctx context.Context, token string) error {
	if !auth.ValidateTokenFormat(token) {
		return nil
	}
	if err := s.sessions.DeleteSession(ctx, auth.QuickHash(token)); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	s.metrics.IncSessionRevoked()
	return nil
}

// Authenticate resolves a bearer token to the account it belongs to.
func (s *AccountService) Authenticate(ctx context.Context, token string) (*model.AuthContext, error) {
	if !auth.ValidateTokenFormat(token) {
		s.metrics.IncAuthDenied()
		return nil, ErrInvalidSession
	}

	authCtx, err := s.sessions.GetSession(ctx, auth.QuickHash(token))
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if authCtx == nil {
		s.metrics.IncAuthDenied()
		return nil, ErrInvalidSession
	}

	return authCtx, nil
}

// SetAPIKey stores (or replaces) the user's Gemini API key.
func (s *AccountService) SetAPIKey(ctx context.Context, userID, key string) error {
	key = strings.TrimSpace(key)
	if len(key) < minAPIKeyLength || !strings.HasPrefix(key, model.GeminiKeyPrefix) {
		return ErrInvalidAPIKey
	}

	now := time.Now().UTC()
	cred := &model.Credential{
		UserID:    userID,
		APIKey:    model.NewSecret(key),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.creds.UpsertCredential(ctx, cred); err != nil {
		return fmt.Errorf("upsert credential: %w", err)
	}

	s.logger.Info("api key configured", "user_id", userID)
	return nil
}

// GetAPIKey reports whether a key is stored, and its display prefix.
// The key itself never leaves the service.
func (s *AccountService) GetAPIKey(ctx context.Context, userID string) (model.CredentialResponse, error) {
	cred, err := s.creds.GetCredentialByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return model.CredentialResponse{Configured: false}, nil
		}
		return model.CredentialResponse{}, fmt.Errorf("get credential: %w", err)
	}
	return cred.ToResponse(), nil
}

// DeleteAPIKey removes the user's stored key.
func (s *AccountService) DeleteAPIKey(ctx context.Context, userID string) error {
	if err := s.creds.DeleteCredential(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrCredentialNotFound) {
			return ErrCredentialMissing
		}
		return fmt.Errorf("delete credential: %w", err)
	}

	s.logger.Info("api key removed", "user_id", userID)
	return nil
}

func (s *AccountService) mintSession(ctx context.Context, user *model.User) (string, error) {
	token, err := auth.GenerateSessionToken()
	if err != nil {
		return "", fmt.Errorf("generate session token: %w", err)
	}

	authCtx := &model.AuthContext{
		UserID: user.ID,
		Email:  user.Email,
	}
	if err := s.sessions.SetSession(ctx, auth.QuickHash(token), authCtx, s.sessionTTL); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	s.metrics.IncSessionIssued()
	return token, nil
}
