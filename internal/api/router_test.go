package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/99minutos/portal-users/internal/api/handler"
	"github.com/99minutos/portal-users/internal/core/service"
	"github.com/99minutos/portal-users/internal/infrastructure/db/memory"
)

const testSecret = "router-test-secret"

type memoryDenylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func (d *memoryDenylist) Revoke(_ context.Context, tokenID string, expiresAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.revoked[tokenID] = expiresAt
	return nil
}

func (d *memoryDenylist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.revoked[tokenID]
	return ok, nil
}

type testServer struct {
	t *testing.T
	e *echo.Echo
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	repo := memory.NewUserRepository()
	users := service.NewUserService(repo, zerolog.Nop())
	auth := service.NewAuthService(repo, &memoryDenylist{revoked: map[string]time.Time{}}, testSecret, time.Minute, zerolog.Nop())

	if err := users.EnsureSuperadmin(context.Background(), "root@example.com", "rootpass"); err != nil {
		t.Fatalf("bootstrap superadmin: %v", err)
	}

	reg := prometheus.NewRegistry()
	e := NewRouter(Dependencies{
		Users:      users,
		Auth:       auth,
		Logger:     zerolog.Nop(),
		Readiness:  map[string]handler.PingFunc{"memory": func(context.Context) error { return nil }},
		Registerer: reg,
		Gatherer:   reg,
	})
	return &testServer{t: t, e: e}
}

func (s *testServer) do(method, target, token, contentType, body string) (*httptest.ResponseRecorder, map[string]any) {
	s.t.Helper()

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		_ = json.Unmarshal(rec.Body.Bytes(), &out)
	}
	return rec, out
}

func (s *testServer) createUser(name, email, password string) string {
	s.t.Helper()
	body := `{"name":"` + name + `","surname":"Tester","email":"` + email + `","password":"` + password + `"}`
	rec, out := s.do(http.MethodPost, "/user", "", echo.MIMEApplicationJSON, body)
	if rec.Code != http.StatusOK {
		s.t.Fatalf("create %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return out["user_id"].(string)
}

func (s *testServer) login(email, password string) string {
	s.t.Helper()
	form := url.Values{"username": {email}, "password": {password}}
	rec, out := s.do(http.MethodPost, "/login/token", "", echo.MIMEApplicationForm, form.Encode())
	if rec.Code != http.StatusOK {
		s.t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body.String())
	}
	return out["access_token"].(string)
}

func (s *testServer) roles(token, id string) []any {
	s.t.Helper()
	rec, out := s.do(http.MethodGet, "/user?user_id="+id, token, "", "")
	if rec.Code != http.StatusOK {
		s.t.Fatalf("get %s: %d %s", id, rec.Code, rec.Body.String())
	}
	roles, _ := out["roles"].([]any)
	return roles
}

func TestRouter_AdminPrivilegeLifecycle(t *testing.T) {
	s := newTestServer(t)

	aliceID := s.createUser("Alice", "alice@example.com", "alicepass")
	bobID := s.createUser("Bob", "bob@example.com", "bobpass")
	root := s.login("root@example.com", "rootpass")
	alice := s.login("alice@example.com", "alicepass")

	// A plain user cannot grant, not even to themselves.
	rec, _ := s.do(http.MethodPatch, "/user/admin_privilege?user_id="+aliceID, alice, "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self grant by user: expected 403, got %d", rec.Code)
	}

	// Superadmin grants, twice; the second call is a no-op.
	for i := 0; i < 2; i++ {
		rec, out := s.do(http.MethodPatch, "/user/admin_privilege?user_id="+aliceID, root, "", "")
		if rec.Code != http.StatusOK || out["updated_user_id"] != aliceID {
			t.Fatalf("grant #%d: %d %s", i+1, rec.Code, rec.Body.String())
		}
	}
	if got := s.roles(root, aliceID); len(got) != 2 || got[0] != "ROLE_PORTAL_USER" || got[1] != "ROLE_PORTAL_ADMIN" {
		t.Fatalf("unexpected roles after grant: %v", got)
	}

	// The new admin is picked up on the next request, but admins cannot
	// grant or revoke.
	rec, _ = s.do(http.MethodPatch, "/user/admin_privilege?user_id="+bobID, alice, "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("grant by admin: expected 403, got %d", rec.Code)
	}
	rec, _ = s.do(http.MethodDelete, "/user/admin_privilege?user_id="+aliceID, alice, "", "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("self revoke by admin: expected 403, got %d", rec.Code)
	}

	// Trailing slash is accepted.
	rec, out := s.do(http.MethodDelete, "/user/admin_privilege/?user_id="+aliceID, root, "", "")
	if rec.Code != http.StatusOK || out["updated_user_id"] != aliceID {
		t.Fatalf("revoke: %d %s", rec.Code, rec.Body.String())
	}
	if got := s.roles(root, aliceID); len(got) != 1 || got[0] != "ROLE_PORTAL_USER" {
		t.Fatalf("unexpected roles after revoke: %v", got)
	}
}

func TestRouter_AdminPrivilegeFailures(t *testing.T) {
	s := newTestServer(t)
	s.createUser("Carol", "carol@example.com", "carolpass")
	root := s.login("root@example.com", "rootpass")
	carol := s.login("carol@example.com", "carolpass")

	const missing = "5f0c8c5e-9a6b-4c1e-8d63-0e4c1c2a9b77"

	tests := []struct {
		name   string
		method string
		target string
		token  string
		code   int
	}{
		{"no token", http.MethodPatch, "/user/admin_privilege?user_id=" + missing, "", http.StatusUnauthorized},
		{"garbage token", http.MethodPatch, "/user/admin_privilege?user_id=" + missing, "garbage", http.StatusUnauthorized},
		{"non-superadmin on missing target", http.MethodPatch, "/user/admin_privilege?user_id=" + missing, carol, http.StatusForbidden},
		{"superadmin on missing target", http.MethodPatch, "/user/admin_privilege?user_id=" + missing, root, http.StatusNotFound},
		{"superadmin revoke on missing target", http.MethodDelete, "/user/admin_privilege?user_id=" + missing, root, http.StatusNotFound},
		{"malformed id", http.MethodPatch, "/user/admin_privilege?user_id=42", root, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, out := s.do(tt.method, tt.target, tt.token, "", "")
			if rec.Code != tt.code {
				t.Fatalf("expected %d, got %d (%s)", tt.code, rec.Code, rec.Body.String())
			}
			if _, ok := out["error"]; !ok {
				t.Fatalf("expected error envelope, got %s", rec.Body.String())
			}
		})
	}
}

func TestRouter_UserLifecycle(t *testing.T) {
	s := newTestServer(t)
	daveID := s.createUser("Dave", "dave@example.com", "davepass")
	dave := s.login("dave@example.com", "davepass")

	rec, _ := s.do(http.MethodPost, "/user", "", echo.MIMEApplicationJSON,
		`{"name":"Dave","surname":"Again","email":"dave@example.com","password":"x"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate email: expected 409, got %d", rec.Code)
	}

	rec, out := s.do(http.MethodPatch, "/user?user_id="+daveID, dave, echo.MIMEApplicationJSON, `{"surname":"Smith"}`)
	if rec.Code != http.StatusOK || out["updated_user_id"] != daveID {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}

	rec, _ = s.do(http.MethodPatch, "/user?user_id="+daveID, dave, echo.MIMEApplicationJSON, `{}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty update: expected 422, got %d", rec.Code)
	}

	rec, out = s.do(http.MethodDelete, "/user?user_id="+daveID, dave, "", "")
	if rec.Code != http.StatusOK || out["deleted_user_id"] != daveID {
		t.Fatalf("delete: %d %s", rec.Code, rec.Body.String())
	}

	// A deactivated user's token no longer authenticates.
	rec, _ = s.do(http.MethodGet, "/user?user_id="+daveID, dave, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("deactivated actor: expected 401, got %d", rec.Code)
	}
	if rec.Header().Get(echo.HeaderWWWAuthenticate) != "Bearer" {
		t.Fatal("missing WWW-Authenticate challenge")
	}
}

func TestRouter_Logout(t *testing.T) {
	s := newTestServer(t)
	s.createUser("Erin", "erin@example.com", "erinpass")
	erin := s.login("erin@example.com", "erinpass")

	rec, _ := s.do(http.MethodPost, "/login/logout", erin, "", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("logout: expected 204, got %d", rec.Code)
	}

	rec, _ = s.do(http.MethodPost, "/login/logout", erin, "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token: expected 401, got %d", rec.Code)
	}
}

func TestRouter_LoginRejectsBadPassword(t *testing.T) {
	s := newTestServer(t)

	form := url.Values{"username": {"root@example.com"}, "password": {"wrong"}}
	rec, out := s.do(http.MethodPost, "/login/token", "", echo.MIMEApplicationForm, form.Encode())
	if rec.Code != http.StatusUnauthorized || out["error"] != "incorrect username or password" {
		t.Fatalf("expected 401, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestRouter_OpsEndpoints(t *testing.T) {
	s := newTestServer(t)

	for _, target := range []string{"/health", "/health/ready", "/metrics"} {
		rec, _ := s.do(http.MethodGet, target, "", "", "")
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", target, rec.Code)
		}
	}
}
