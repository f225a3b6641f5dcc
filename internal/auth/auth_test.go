// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/models"
)

// fakeUserStore backs auth tests without a database.
type fakeUserStore struct {
	users       map[int64]*models.User
	byEmail     map[string]*models.User
	credentials map[int64]string
	lastLogin   map[int64]bool
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	s := &fakeUserStore{
		users:       make(map[int64]*models.User),
		byEmail:     make(map[string]*models.User),
		credentials: make(map[int64]string),
		lastLogin:   make(map[int64]bool),
	}
	for _, u := range users {
		s.users[u.ID] = u
		s.byEmail[u.Email] = u
	}
	return s
}

func (s *fakeUserStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if u, ok := s.byEmail[email]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func (s *fakeUserStore) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, database.ErrNotFound
}

func (s *fakeUserStore) TouchLastLogin(_ context.Context, id int64) error {
	s.lastLogin[id] = true
	return nil
}

func (s *fakeUserStore) SetCredential(_ context.Context, id int64, hash string, scheme models.CredentialScheme) error {
	s.credentials[id] = hash
	if u, ok := s.users[id]; ok {
		u.PasswordHash = hash
		u.CredentialScheme = scheme
	}
	return nil
}

func activeUser(t *testing.T, id int64, email, password string) *models.User {
	t.Helper()
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error: %v", err)
	}
	return &models.User{
		ID:               id,
		Email:            email,
		Name:             "Test User",
		Role:             models.RoleAdminDemografi,
		PasswordHash:     hash,
		CredentialScheme: models.CredentialBcrypt,
		IsActive:         true,
	}
}

func TestLoginSuccess(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	store := newFakeUserStore(user)
	tm := NewTokenManager(testSecret, time.Hour)
	issuer := NewIssuer(store, tm, false)

	resp, err := issuer.Login(context.Background(), "staff@statindo.id", "rahasia-negara")
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}
	if resp.Token == "" {
		t.Error("empty token")
	}
	if resp.User.UserID != 1 || resp.User.Role != models.RoleAdminDemografi {
		t.Errorf("identity = %+v", resp.User)
	}
	if !store.lastLogin[1] {
		t.Error("last login not recorded")
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	inactive := activeUser(t, 2, "former@statindo.id", "rahasia-negara")
	inactive.IsActive = false
	store := newFakeUserStore(user, inactive)
	issuer := NewIssuer(store, NewTokenManager(testSecret, time.Hour), false)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@statindo.id", "rahasia-negara"},
		{"wrong password", "staff@statindo.id", "salah"},
		{"inactive account", "former@statindo.id", "rahasia-negara"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Login(context.Background(), tt.email, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
			if err != nil && err.Error() != ErrInvalidCredentials.Error() {
				t.Errorf("error text %q differs from the shared sentinel", err)
			}
		})
	}
}

func TestLoginUpgradesPlaintextCredential(t *testing.T) {
	user := &models.User{
		ID:               3,
		Email:            "legacy@statindo.id",
		Role:             models.RoleViewer,
		PasswordHash:     "warisan123",
		CredentialScheme: models.CredentialPlaintext,
		IsActive:         true,
	}
	store := newFakeUserStore(user)
	issuer := NewIssuer(store, NewTokenManager(testSecret, time.Hour), true)

	if _, err := issuer.Login(context.Background(), "legacy@statindo.id", "warisan123"); err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if user.CredentialScheme != models.CredentialBcrypt {
		t.Errorf("scheme after login = %q, want bcrypt", user.CredentialScheme)
	}
	if err := VerifyCredential(models.CredentialBcrypt, user.PasswordHash, "warisan123", false); err != nil {
		t.Errorf("upgraded hash does not verify: %v", err)
	}
}

func TestLoginPlaintextDisabled(t *testing.T) {
	user := &models.User{
		ID:               3,
		Email:            "legacy@statindo.id",
		Role:             models.RoleViewer,
		PasswordHash:     "warisan123",
		CredentialScheme: models.CredentialPlaintext,
		IsActive:         true,
	}
	issuer := NewIssuer(newFakeUserStore(user), NewTokenManager(testSecret, time.Hour), false)

	_, err := issuer.Login(context.Background(), "legacy@statindo.id", "warisan123")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestChangePassword(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "lama-sekali")
	store := newFakeUserStore(user)
	issuer := NewIssuer(store, NewTokenManager(testSecret, time.Hour), false)

	if err := issuer.ChangePassword(context.Background(), 1, "salah", "baru-sekali"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong current password err = %v, want ErrInvalidCredentials", err)
	}

	if err := issuer.ChangePassword(context.Background(), 1, "lama-sekali", "baru-sekali"); err != nil {
		t.Fatalf("ChangePassword() error: %v", err)
	}
	if err := VerifyCredential(models.CredentialBcrypt, user.PasswordHash, "baru-sekali", false); err != nil {
		t.Errorf("new password does not verify: %v", err)
	}
}

func newTestAuthenticator(t *testing.T, store UserStore) (*Authenticator, *TokenManager, *Denylist) {
	t.Helper()
	tm := NewTokenManager(testSecret, time.Hour)
	denylist, err := NewDenylist("")
	if err != nil {
		t.Fatalf("NewDenylist() error: %v", err)
	}
	t.Cleanup(func() { _ = denylist.Close() })
	return NewAuthenticator(store, tm, denylist), tm, denylist
}

func bearerRequest(token string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/indicators", nil)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	return r
}

func TestAuthenticatePipeline(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	store := newFakeUserStore(user)
	authn, tm, _ := newTestAuthenticator(t, store)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	identity, claims, err := authn.Authenticate(context.Background(), bearerRequest(token))
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if identity.UserID != 1 || identity.Role != models.RoleAdminDemografi {
		t.Errorf("identity = %+v", identity)
	}
	if claims.ID == "" {
		t.Error("claims missing jti")
	}
}

func TestAuthenticateErrors(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	store := newFakeUserStore(user)
	authn, tm, denylist := newTestAuthenticator(t, store)

	validToken, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	ghost := activeUser(t, 99, "ghost@statindo.id", "rahasia-negara")
	ghostToken, _, err := tm.Generate(ghost)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	t.Run("missing token", func(t *testing.T) {
		_, _, err := authn.Authenticate(context.Background(), bearerRequest(""))
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("err = %v, want ErrMissingToken", err)
		}
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
		_, _, err := authn.Authenticate(context.Background(), r)
		if !errors.Is(err, ErrMissingToken) {
			t.Errorf("err = %v, want ErrMissingToken", err)
		}
	})

	t.Run("malformed token", func(t *testing.T) {
		_, _, err := authn.Authenticate(context.Background(), bearerRequest("garbage"))
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})

	t.Run("token for deleted user", func(t *testing.T) {
		_, _, err := authn.Authenticate(context.Background(), bearerRequest(ghostToken))
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("err = %v, want ErrUserNotFound", err)
		}
	})

	t.Run("token for deactivated user", func(t *testing.T) {
		user.IsActive = false
		defer func() { user.IsActive = true }()

		_, _, err := authn.Authenticate(context.Background(), bearerRequest(validToken))
		if !errors.Is(err, ErrUserInactive) {
			t.Errorf("err = %v, want ErrUserInactive", err)
		}
	})

	t.Run("revoked token", func(t *testing.T) {
		claims, err := tm.Validate(validToken)
		if err != nil {
			t.Fatalf("Validate() error: %v", err)
		}
		if err := denylist.Revoke(claims.ID, time.Hour); err != nil {
			t.Fatalf("Revoke() error: %v", err)
		}

		_, _, err = authn.Authenticate(context.Background(), bearerRequest(validToken))
		if !errors.Is(err, ErrInvalidToken) {
			t.Errorf("err = %v, want ErrInvalidToken", err)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	store := newFakeUserStore(user)
	authn, tm, _ := newTestAuthenticator(t, store)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	if _, _, err := authn.Authenticate(context.Background(), bearerRequest(token)); err != nil {
		t.Fatalf("pre-logout Authenticate() error: %v", err)
	}

	authn.Logout(bearerRequest(token))

	if _, _, err := authn.Authenticate(context.Background(), bearerRequest(token)); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("post-logout err = %v, want ErrInvalidToken", err)
	}
}

func TestRequireAuthMiddleware(t *testing.T) {
	user := activeUser(t, 1, "staff@statindo.id", "rahasia-negara")
	store := newFakeUserStore(user)
	authn, tm, _ := newTestAuthenticator(t, store)

	token, _, err := tm.Generate(user)
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}

	handler := authn.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFrom(r.Context())
		if !ok || identity.UserID != 1 {
			t.Errorf("identity missing from context: %+v", identity)
		}
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, bearerRequest(token))
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated request = %d, want 200", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, bearerRequest(""))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated request = %d, want 401", rec.Code)
	}
}
