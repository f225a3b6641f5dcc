// Statindo - Statistics Publication and Administration Platform
// Copyright 2026 Statindo Authors
// SPDX-License-Identifier: Apache-2.0
// https://github.com/statindo/statindo

package api

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/statindo/statindo/internal/audit"
	"github.com/statindo/statindo/internal/auth"
	"github.com/statindo/statindo/internal/config"
	"github.com/statindo/statindo/internal/database"
	"github.com/statindo/statindo/internal/models"
	"github.com/statindo/statindo/internal/policy"
)

const testPassword = "password123"

var (
	hashOnce     sync.Once
	passwordHash string
)

// testHash returns one bcrypt hash shared by every seeded account, so
// the cost-12 work happens once per test binary.
func testHash(t *testing.T) string {
	t.Helper()
	hashOnce.Do(func() {
		var err error
		passwordHash, err = auth.HashPassword(testPassword)
		if err != nil {
			t.Fatalf("HashPassword() error: %v", err)
		}
	})
	return passwordHash
}

func f64(v float64) *float64 { return &v }

// testEnv is a full server over an in-memory database.
type testEnv struct {
	db      *database.DB
	handler http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: "", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	pol, err := policy.New()
	if err != nil {
		t.Fatalf("policy.New() error: %v", err)
	}

	denylist, err := auth.NewDenylist("")
	if err != nil {
		t.Fatalf("NewDenylist() error: %v", err)
	}
	t.Cleanup(func() { _ = denylist.Close() })

	cfg := &config.Config{}
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Server.Timeout = 30 * time.Second
	cfg.Security.JWTSecret = "0123456789abcdef0123456789abcdef"
	cfg.Security.TokenTTL = time.Hour
	cfg.Security.RateLimitReqs = 10000
	cfg.Security.RateLimitWindow = time.Minute
	cfg.Security.LoginRateLimitReqs = 10000
	cfg.Security.LoginRateLimitWindow = time.Minute
	cfg.Audit.BufferSize = 256

	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, cfg.Security.TokenTTL)
	issuer := auth.NewIssuer(db, tokens, false)
	authn := auth.NewAuthenticator(db, tokens, denylist)
	activity := audit.NewLogger(db, cfg.Audit.BufferSize)

	srv := NewServer(db, pol, issuer, authn, activity, cfg)
	return &testEnv{db: db, handler: srv.Router()}
}

// seedUser creates an account with the shared test password.
func (e *testEnv) seedUser(t *testing.T, email string, role models.Role, active bool) *models.User {
	t.Helper()

	u, err := e.db.CreateUser(context.Background(), &models.User{
		Email:            email,
		Name:             "Test " + string(role),
		Role:             role,
		PasswordHash:     testHash(t),
		CredentialScheme: models.CredentialBcrypt,
		IsActive:         active,
	})
	if err != nil {
		t.Fatalf("CreateUser(%s) error: %v", email, err)
	}
	return u
}

// envelope mirrors the response wrapper for test decoding.
type envelope struct {
	Status string           `json:"status"`
	Data   json.RawMessage  `json:"data"`
	Error  *models.APIError `json:"error"`
}

// do executes one request and decodes the envelope.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) (int, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: bad envelope %q: %v", method, path, rec.Body.String(), err)
		}
	}
	return rec.Code, &env
}

// login authenticates and returns the bearer token.
func (e *testEnv) login(t *testing.T, email string) string {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
		models.LoginRequest{Email: email, Password: testPassword})
	if status != http.StatusOK {
		t.Fatalf("login(%s) status = %d, error = %+v", email, status, env.Error)
	}

	var resp models.LoginResponse
	if err := json.Unmarshal(env.Data, &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.Token
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "known@example.com", models.RoleViewer, true)
	e.seedUser(t, "inactive@example.com", models.RoleViewer, false)

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"unknown email", "nobody@example.com", testPassword},
		{"wrong password", "known@example.com", "wrong-password"},
		{"inactive account", "inactive@example.com", testPassword},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
				models.LoginRequest{Email: tt.email, Password: tt.password})
			if status != http.StatusUnauthorized {
				t.Fatalf("status = %d, want 401", status)
			}
			if env.Error == nil || env.Error.Code != models.ErrCodeInvalidLogin {
				t.Fatalf("error = %+v, want INVALID_CREDENTIALS", env.Error)
			}
			bodies = append(bodies, env.Error.Message)
		})
	}

	for _, msg := range bodies {
		if msg != bodies[0] {
			t.Errorf("failure messages differ: %q vs %q", msg, bodies[0])
		}
	}
}

func TestAuthTokenErrors(t *testing.T) {
	e := newTestEnv(t)
	u := e.seedUser(t, "staff@example.com", models.RoleAdminEkonomi, true)
	token := e.login(t, "staff@example.com")

	t.Run("missing token", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
		if status != http.StatusUnauthorized || env.Error.Code != models.ErrCodeMissingToken {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("garbage token", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/auth/me", "not.a.token", nil)
		if status != http.StatusUnauthorized || env.Error.Code != models.ErrCodeInvalidToken {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("valid token works", func(t *testing.T) {
		status, _ := e.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
	})

	t.Run("deactivated subject looks like a bad token", func(t *testing.T) {
		if err := e.db.DeactivateUser(context.Background(), u.ID); err != nil {
			t.Fatalf("DeactivateUser() error: %v", err)
		}
		status, env := e.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
		if status != http.StatusUnauthorized || env.Error.Code != models.ErrCodeInvalidToken {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})
}

func TestLogoutRevokesToken(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "staff@example.com", models.RoleViewer, true)
	token := e.login(t, "staff@example.com")

	status, _ := e.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	if status != http.StatusOK {
		t.Fatalf("logout status = %d", status)
	}

	status, env := e.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if status != http.StatusUnauthorized || env.Error.Code != models.ErrCodeInvalidToken {
		t.Fatalf("revoked token: status = %d, error = %+v", status, env.Error)
	}
}

// seedIndicatorVia creates an indicator through the API as superadmin.
func (e *testEnv) seedIndicatorVia(t *testing.T, adminToken, name string, category models.Category, published bool) int64 {
	t.Helper()

	status, env := e.do(t, http.MethodPost, "/api/v1/indicators", adminToken, models.CreateIndicatorRequest{
		Name: name, Category: string(category), Unit: "persen", IsPublished: published,
	})
	if status != http.StatusCreated {
		t.Fatalf("create indicator %q: status = %d, error = %+v", name, status, env.Error)
	}

	var ind models.Indicator
	if err := json.Unmarshal(env.Data, &ind); err != nil {
		t.Fatalf("decode indicator: %v", err)
	}
	return ind.ID
}

func TestCategoryBoundary(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	e.seedUser(t, "eko@example.com", models.RoleAdminEkonomi, true)
	rootToken := e.login(t, "root@example.com")
	ekoToken := e.login(t, "eko@example.com")

	demoID := e.seedIndicatorVia(t, rootToken, "Penduduk", models.CategoryDemografi, true)
	ekoID := e.seedIndicatorVia(t, rootToken, "PDRB", models.CategoryEkonomi, true)

	t.Run("read own category", func(t *testing.T) {
		status, _ := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/indicators/%d", ekoID), ekoToken, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
	})

	t.Run("read foreign category", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/indicators/%d", demoID), ekoToken, nil)
		if status != http.StatusForbidden || env.Error.Code != models.ErrCodeForbidden {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("update foreign category", func(t *testing.T) {
		name := "Hijacked"
		status, _ := e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/indicators/%d", demoID), ekoToken,
			models.UpdateIndicatorRequest{Name: &name})
		if status != http.StatusForbidden {
			t.Fatalf("status = %d, want 403", status)
		}
	})

	t.Run("recategorize across the boundary", func(t *testing.T) {
		target := string(models.CategoryDemografi)
		status, _ := e.do(t, http.MethodPut, fmt.Sprintf("/api/v1/indicators/%d", ekoID), ekoToken,
			models.UpdateIndicatorRequest{Category: &target})
		if status != http.StatusForbidden {
			t.Fatalf("status = %d, want 403 (target category not held)", status)
		}
	})

	t.Run("disjoint filter is 403 not empty", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/indicators/?category=demografi-sosial", ekoToken, nil)
		if status != http.StatusForbidden || env.Error.Code != models.ErrCodeForbidden {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("unknown filter slug is 400", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/indicators/?category=bogus", ekoToken, nil)
		if status != http.StatusBadRequest || env.Error.Code != models.ErrCodeValidation {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("list narrows to visible set", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/indicators/", ekoToken, nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		var list []models.Indicator
		if err := json.Unmarshal(env.Data, &list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 1 || list[0].Category != models.CategoryEkonomi {
			t.Fatalf("list = %+v, want only ekonomi rows", list)
		}
	})
}

func TestIndicatorCreateAndDeleteAreSuperadminOnly(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	e.seedUser(t, "eko@example.com", models.RoleAdminEkonomi, true)
	rootToken := e.login(t, "root@example.com")
	ekoToken := e.login(t, "eko@example.com")

	// Even in their own category, an admin cannot create indicators.
	status, _ := e.do(t, http.MethodPost, "/api/v1/indicators", ekoToken, models.CreateIndicatorRequest{
		Name: "Inflasi", Category: string(models.CategoryEkonomi), Unit: "persen",
	})
	if status != http.StatusForbidden {
		t.Fatalf("admin create status = %d, want 403", status)
	}

	id := e.seedIndicatorVia(t, rootToken, "Inflasi", models.CategoryEkonomi, false)

	status, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/indicators/%d", id), ekoToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("admin delete status = %d, want 403", status)
	}

	status, _ = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/indicators/%d", id), rootToken, nil)
	if status != http.StatusOK {
		t.Fatalf("superadmin delete status = %d, want 200", status)
	}
}

func TestDataPointVerificationFlow(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	e.seedUser(t, "eko@example.com", models.RoleAdminEkonomi, true)
	rootToken := e.login(t, "root@example.com")
	ekoToken := e.login(t, "eko@example.com")

	indID := e.seedIndicatorVia(t, rootToken, "PDRB", models.CategoryEkonomi, true)

	status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/indicators/%d/data", indID), ekoToken,
		models.CreateDataPointRequest{Year: 2025, Value: f64(5.31), Region: "Kota A"})
	if status != http.StatusCreated {
		t.Fatalf("create data point: status = %d, error = %+v", status, env.Error)
	}
	var dp models.DataPoint
	if err := json.Unmarshal(env.Data, &dp); err != nil {
		t.Fatalf("decode data point: %v", err)
	}
	if dp.Status != models.DataStatusDraft {
		t.Fatalf("new point status = %q, want draft", dp.Status)
	}

	// Draft points are invisible publicly.
	status, env = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/indicators/%d/data", indID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("public data status = %d", status)
	}
	var publicPoints []models.DataPoint
	_ = json.Unmarshal(env.Data, &publicPoints)
	if len(publicPoints) != 0 {
		t.Fatalf("public points before verification = %d, want 0", len(publicPoints))
	}

	status, env = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/data/%d/verify", dp.ID), ekoToken, nil)
	if status != http.StatusOK {
		t.Fatalf("verify status = %d, error = %+v", status, env.Error)
	}
	var verified models.DataPoint
	if err := json.Unmarshal(env.Data, &verified); err != nil {
		t.Fatalf("decode verified point: %v", err)
	}
	if verified.Status != models.DataStatusFinal || verified.VerifiedBy == nil || verified.VerifiedAt == nil {
		t.Fatalf("verified point = %+v", verified)
	}

	status, env = e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/indicators/%d/data", indID), "", nil)
	if status != http.StatusOK {
		t.Fatalf("public data status = %d", status)
	}
	_ = json.Unmarshal(env.Data, &publicPoints)
	if len(publicPoints) != 1 {
		t.Fatalf("public points after verification = %d, want 1", len(publicPoints))
	}
}

// A zero observation (0.0% growth, zero incidents) is legitimate data and
// must not be confused with a missing value.
func TestZeroValuedDataPoint(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	rootToken := e.login(t, "root@example.com")

	indID := e.seedIndicatorVia(t, rootToken, "Pertumbuhan", models.CategoryEkonomi, true)

	t.Run("zero value is accepted", func(t *testing.T) {
		status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/indicators/%d/data", indID), rootToken,
			models.CreateDataPointRequest{Year: 2025, Value: f64(0)})
		if status != http.StatusCreated {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
		var dp models.DataPoint
		if err := json.Unmarshal(env.Data, &dp); err != nil {
			t.Fatalf("decode data point: %v", err)
		}
		if dp.Value != 0 {
			t.Fatalf("stored value = %v, want 0", dp.Value)
		}
	})

	t.Run("absent value is still rejected", func(t *testing.T) {
		status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/indicators/%d/data", indID), rootToken,
			map[string]any{"year": 2025})
		if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != models.ErrCodeValidation {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})
}

func TestPublicSurfaceHidesUnpublished(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	rootToken := e.login(t, "root@example.com")

	hiddenID := e.seedIndicatorVia(t, rootToken, "Rahasia", models.CategoryEkonomi, false)
	e.seedIndicatorVia(t, rootToken, "Terbuka", models.CategoryEkonomi, true)

	t.Run("indicator listing", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, "/api/v1/public/indicators", "", nil)
		if status != http.StatusOK {
			t.Fatalf("status = %d", status)
		}
		var list []models.Indicator
		if err := json.Unmarshal(env.Data, &list); err != nil {
			t.Fatalf("decode list: %v", err)
		}
		if len(list) != 1 || list[0].Name != "Terbuka" {
			t.Fatalf("public list = %+v", list)
		}
	})

	t.Run("unpublished indicator data is 404", func(t *testing.T) {
		status, env := e.do(t, http.MethodGet, fmt.Sprintf("/api/v1/public/indicators/%d/data", hiddenID), "", nil)
		if status != http.StatusNotFound || env.Error.Code != models.ErrCodeNotFound {
			t.Fatalf("status = %d, error = %+v", status, env.Error)
		}
	})

	t.Run("draft article slug is 404 until published", func(t *testing.T) {
		status, env := e.do(t, http.MethodPost, "/api/v1/articles", rootToken, models.CreateArticleRequest{
			Title: "Berita Resmi Statistik", Category: string(models.CategoryEkonomi), Body: "isi artikel",
		})
		if status != http.StatusCreated {
			t.Fatalf("create article: status = %d, error = %+v", status, env.Error)
		}
		var article models.Article
		if err := json.Unmarshal(env.Data, &article); err != nil {
			t.Fatalf("decode article: %v", err)
		}
		if article.Slug != "berita-resmi-statistik" {
			t.Errorf("slug = %q", article.Slug)
		}

		status, _ = e.do(t, http.MethodGet, "/api/v1/public/articles/"+article.Slug, "", nil)
		if status != http.StatusNotFound {
			t.Fatalf("draft by slug: status = %d, want 404", status)
		}

		status, _ = e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/articles/%d/publish", article.ID), rootToken, nil)
		if status != http.StatusOK {
			t.Fatalf("publish status = %d", status)
		}

		status, _ = e.do(t, http.MethodGet, "/api/v1/public/articles/"+article.Slug, "", nil)
		if status != http.StatusOK {
			t.Fatalf("published by slug: status = %d, want 200", status)
		}
	})
}

func TestUserManagementIsSuperadminOnly(t *testing.T) {
	e := newTestEnv(t)
	root := e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	e.seedUser(t, "eko@example.com", models.RoleAdminEkonomi, true)
	rootToken := e.login(t, "root@example.com")
	ekoToken := e.login(t, "eko@example.com")

	status, env := e.do(t, http.MethodGet, "/api/v1/users/", ekoToken, nil)
	if status != http.StatusForbidden || env.Error.Code != models.ErrCodeForbidden {
		t.Fatalf("admin list users: status = %d, error = %+v", status, env.Error)
	}

	status, env = e.do(t, http.MethodPost, "/api/v1/users/", rootToken, models.CreateUserRequest{
		Email: "new@example.com", Name: "New Staff", Role: string(models.RoleViewer), Password: "longenough1",
	})
	if status != http.StatusCreated {
		t.Fatalf("create user: status = %d, error = %+v", status, env.Error)
	}

	status, env = e.do(t, http.MethodPost, "/api/v1/users/", rootToken, models.CreateUserRequest{
		Email: "bad@example.com", Name: "Bad Role", Role: "warlord", Password: "longenough1",
	})
	if status != http.StatusBadRequest || env.Error.Code != models.ErrCodeValidation {
		t.Fatalf("unknown role: status = %d, error = %+v", status, env.Error)
	}

	status, env = e.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", root.ID), rootToken, nil)
	if status != http.StatusBadRequest {
		t.Fatalf("self-deactivation: status = %d, want 400, error = %+v", status, env.Error)
	}

	status, env = e.do(t, http.MethodGet, "/api/v1/activity", ekoToken, nil)
	if status != http.StatusForbidden {
		t.Fatalf("admin activity log: status = %d, want 403", status)
	}
	status, env = e.do(t, http.MethodGet, "/api/v1/activity", rootToken, nil)
	if status != http.StatusOK {
		t.Fatalf("superadmin activity log: status = %d, error = %+v", status, env.Error)
	}
}

func TestViewerSeesNothingButDashboardIsReachable(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	e.seedUser(t, "viewer@example.com", models.RoleViewer, true)
	rootToken := e.login(t, "root@example.com")
	viewerToken := e.login(t, "viewer@example.com")

	e.seedIndicatorVia(t, rootToken, "Penduduk", models.CategoryDemografi, true)

	status, env := e.do(t, http.MethodGet, "/api/v1/indicators/", viewerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("viewer list: status = %d", status)
	}
	var list []models.Indicator
	_ = json.Unmarshal(env.Data, &list)
	if len(list) != 0 {
		t.Fatalf("viewer sees %d indicators, want 0", len(list))
	}

	status, env = e.do(t, http.MethodGet, "/api/v1/dashboard", viewerToken, nil)
	if status != http.StatusOK {
		t.Fatalf("viewer dashboard: status = %d", status)
	}
	var summaries []models.DashboardSummary
	_ = json.Unmarshal(env.Data, &summaries)
	if len(summaries) != 0 {
		t.Fatalf("viewer dashboard rows = %d, want 0", len(summaries))
	}
}

func TestValidationAndHealth(t *testing.T) {
	e := newTestEnv(t)

	status, env := e.do(t, http.MethodPost, "/api/v1/auth/login", "",
		map[string]string{"email": "not-an-email", "password": ""})
	if status != http.StatusBadRequest || env.Error.Code != models.ErrCodeValidation {
		t.Fatalf("validation: status = %d, error = %+v", status, env.Error)
	}

	status, _ = e.do(t, http.MethodGet, "/api/v1/health", "", nil)
	if status != http.StatusOK {
		t.Fatalf("health: status = %d", status)
	}
}

func TestExportCSV(t *testing.T) {
	e := newTestEnv(t)
	e.seedUser(t, "root@example.com", models.RoleSuperadmin, true)
	rootToken := e.login(t, "root@example.com")

	indID := e.seedIndicatorVia(t, rootToken, "PDRB", models.CategoryEkonomi, true)
	status, env := e.do(t, http.MethodPost, fmt.Sprintf("/api/v1/indicators/%d/data", indID), rootToken,
		models.CreateDataPointRequest{Year: 2025, Value: f64(5.31)})
	if status != http.StatusCreated {
		t.Fatalf("create data point: status = %d, error = %+v", status, env.Error)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/export/indicators.csv", nil)
	req.Header.Set("Authorization", "Bearer "+rootToken)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/csv") {
		t.Errorf("Content-Type = %q, want text/csv", ct)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("csv lines = %d, want header plus one row: %q", len(lines), rec.Body.String())
	}
	if !strings.Contains(lines[1], "PDRB") {
		t.Errorf("csv row = %q", lines[1])
	}
}
