package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cuistot/cuistot/internal/model"
	"github.com/cuistot/cuistot/internal/repository"
)

type fakeUserStore struct {
	byEmail map[string]*model.User
	err     error
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: make(map[string]*model.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	if _, exists := f.byEmail[user.Email]; exists {
		return repository.ErrEmailExists
	}
	f.byEmail[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.byEmail[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return user, nil
}

type fakeCredentialStore struct {
	byUser map[string]*model.Credential
	err    error
}

func newFakeCredentialStore() *fakeCredentialStore {
	return &fakeCredentialStore{byUser: make(map[string]*model.Credential)}
}

func (f *fakeCredentialStore) UpsertCredential(ctx context.Context, cred *model.Credential) error {
	if f.err != nil {
		return f.err
	}
	f.byUser[cred.UserID] = cred
	return nil
}

func (f *fakeCredentialStore) GetCredentialByUserID(ctx context.Context, userID string) (*model.Credential, error) {
	if f.err != nil {
		return nil, f.err
	}
	cred, ok := f.byUser[userID]
	if !ok {
		return nil, repository.ErrCredentialNotFound
	}
	return cred, nil
}

func (f *fakeCredentialStore) DeleteCredential(ctx context.Context, userID string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.byUser[userID]; !ok {
		return repository.ErrCredentialNotFound
	}
	delete(f.byUser, userID)
	return nil
}

type fakeSessionStore struct {
	sessions map[string]*model.AuthContext
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]*model.AuthContext)}
}

func (f *fakeSessionStore) SetSession(ctx context.Context, tokenHash string, auth *model.AuthContext, ttl time.Duration) error {
	f.sessions[tokenHash] = auth
	return nil
}

func (f *fakeSessionStore) GetSession(ctx context.Context, tokenHash string) (*model.AuthContext, error) {
	return f.sessions[tokenHash], nil
}

func (f *fakeSessionStore) DeleteSession(ctx context.Context, tokenHash string) error {
	delete(f.sessions, tokenHash)
	return nil
}

func newTestAccountService() *AccountService {
	return NewAccountService(newFakeUserStore(), newFakeCredentialStore(), newFakeSessionStore(), time.Hour, nil, testLogger())
}

func TestSignup_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	user, token, err := svc.Signup(context.Background(), "Chef@Example.Test", "motdepasse")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if user.ID == "" {
		t.Error("user should get an ID")
	}
	if user.Email != "chef@example.test" {
		t.Errorf("email should be lowercased, got %q", user.Email)
	}
	if user.PasswordHash == "motdepasse" {
		t.Error("password must be hashed")
	}
	if token == "" {
		t.Error("signup should open a session")
	}

	// The fresh token authenticates
	authCtx, err := svc.Authenticate(context.Background(), token)
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if authCtx.UserID != user.ID {
		t.Errorf("session user = %q, want %q", authCtx.UserID, user.ID)
	}
}

func TestSignup_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"bad email", "not-an-email", "motdepasse", ErrInvalidEmail},
		{"empty email", "", "motdepasse", ErrInvalidEmail},
		{"email without tld", "a@b", "motdepasse", ErrInvalidEmail},
		{"short password", "chef@example.test", "court", ErrWeakPassword},
	}

	svc := newTestAccountService()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Signup(context.Background(), tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got: %v", tt.wantErr, err)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	if _, _, err := svc.Signup(context.Background(), "chef@example.test", "motdepasse"); err != nil {
		t.Fatalf("first Signup failed: %v", err)
	}

	_, _, err := svc.Signup(context.Background(), "chef@example.test", "autremotdepasse")
	if !errors.Is(err, ErrEmailExists) {
		t.Errorf("expected ErrEmailExists, got: %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	signed, _, err := svc.Signup(context.Background(), "chef@example.test", "motdepasse")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	user, token, err := svc.Login(context.Background(), "chef@example.test", "motdepasse")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if user.ID != signed.ID {
		t.Error("login should return the same account")
	}

	authCtx, err := svc.Authenticate(context.Background(), token)
	if err != nil || authCtx.UserID != user.ID {
		t.Errorf("login token should authenticate: ctx=%+v err=%v", authCtx, err)
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	if _, _, err := svc.Signup(context.Background(), "chef@example.test", "motdepasse"); err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	// Wrong password and unknown email look identical to the caller
	_, _, errWrongPass := svc.Login(context.Background(), "chef@example.test", "mauvais-mdp")
	if !errors.Is(errWrongPass, ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got: %v", errWrongPass)
	}

	_, _, errNoUser := svc.Login(context.Background(), "inconnu@example.test", "motdepasse")
	if !errors.Is(errNoUser, ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got: %v", errNoUser)
	}
}

func TestLogout_RevokesSession(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	_, token, err := svc.Signup(context.Background(), "chef@example.test", "motdepasse")
	if err != nil {
		t.Fatalf("Signup failed: %v", err)
	}

	if err := svc.Logout(context.Background(), token); err != nil {
		t.Fatalf("Logout failed: %v", err)
	}

	if _, err := svc.Authenticate(context.Background(), token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("token should be dead after logout, got: %v", err)
	}
}

func TestAuthenticate_InvalidTokens(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"wrong prefix", "xx_0000000000000000000000000000000000000000000000000000000000000000"},
		{"too short", "ct_abc123"},
		{"not a token at all", "Bearer something"},
	}

	svc := newTestAccountService()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := svc.Authenticate(context.Background(), tt.token)
			if !errors.Is(err, ErrInvalidSession) {
				t.Errorf("expected ErrInvalidSession, got: %v", err)
			}
		})
	}
}

func TestSetAPIKey_FormatCheck(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
	}{
		{"empty", ""},
		{"too short", "AIzaShort"},
		{"wrong prefix", "sk-0000000000000000000000000000"},
	}

	svc := newTestAccountService()

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := svc.SetAPIKey(context.Background(), "user-1", tt.key)
			if !errors.Is(err, ErrInvalidAPIKey) {
				t.Errorf("expected ErrInvalidAPIKey, got: %v", err)
			}
		})
	}
}

func TestAPIKeyLifecycle(t *testing.T) {
	t.Parallel()

	svc := newTestAccountService()

	// Nothing stored yet
	resp, err := svc.GetAPIKey(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if resp.Configured {
		t.Error("no key should be configured initially")
	}

	if err := svc.SetAPIKey(context.Background(), "user-1", "AIzaSyRealLookingKey1234567890"); err != nil {
		t.Fatalf("SetAPIKey failed: %v", err)
	}

	resp, err = svc.GetAPIKey(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetAPIKey failed: %v", err)
	}
	if !resp.Configured {
		t.Error("key should be configured after set")
	}
	if resp.KeyPrefix != "AIzaSyRe" {
		t.Errorf("KeyPrefix = %q", resp.KeyPrefix)
	}

	if err := svc.DeleteAPIKey(context.Background(), "user-1"); err != nil {
		t.Fatalf("DeleteAPIKey failed: %v", err)
	}

	if err := svc.DeleteAPIKey(context.Background(), "user-1"); !errors.Is(err, ErrCredentialMissing) {
		t.Errorf("second delete should report missing credential, got: %v", err)
	}
}
