package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/99minutos/portal-users/internal/api/middleware"
	"github.com/99minutos/portal-users/internal/core/domain"
)

func newFormContext(form url.Values) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/login/token", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (string, *domain.User, error) {
			if email != "alice@example.com" || password != "secret" {
				t.Fatalf("unexpected args: %s %s", email, password)
			}
			return "token123", &domain.User{ID: actorID, Email: email}, nil
		},
	}
	h := NewAuthHandler(stub)

	c, rec := newFormContext(url.Values{"username": {"alice@example.com"}, "password": {"secret"}})
	if err := h.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	resp := decode(t, rec.Body.Bytes())
	if resp["access_token"] != "token123" || resp["token_type"] != "bearer" {
		t.Fatalf("unexpected payload: %v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			return "", nil, domain.ErrInvalidCredentials
		},
	})

	c, _ := newFormContext(url.Values{"username": {"alice@example.com"}, "password": {"bad"}})
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_Login_MissingFields(t *testing.T) {
	h := NewAuthHandler(&stubAuthService{
		loginFn: func(context.Context, string, string) (string, *domain.User, error) {
			t.Fatal("should not be called")
			return "", nil, nil
		},
	})

	c, _ := newFormContext(url.Values{"username": {"alice@example.com"}})
	if code := httpCode(t, h.Login(c)); code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", code)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	var revoked string
	h := NewAuthHandler(&stubAuthService{
		logoutFn: func(_ context.Context, token string) error {
			revoked = token
			return nil
		},
	})

	c, rec := newContext(http.MethodPost, "/login/logout", "", superadmin)
	c.Set(middleware.TokenKey, "raw-token")

	if err := h.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", rec.Code)
	}
	if revoked != "raw-token" {
		t.Fatalf("expected raw-token to be revoked, got %q", revoked)
	}
}
