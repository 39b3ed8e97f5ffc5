package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/safespace/support-portal/internal/core/domain"
	"github.com/safespace/support-portal/internal/infrastructure/db/memory"
)

func storedSession(t *testing.T) (*memory.SessionStore, *domain.Session) {
	t.Helper()
	store := memory.NewSessionStore(time.Hour)
	s := domain.NewSession("sess-1", time.Now())
	s.Authenticated = true
	s.Username = "alice"
	s.View = domain.Landing()
	if err := store.Create(context.Background(), s); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return store, s
}

func runAuth(t *testing.T, header string, store *memory.SessionStore, next echo.HandlerFunc) (*httptest.ResponseRecorder, error) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	return rec, Auth("secret", store)(next)(c)
}

func wantStatus(t *testing.T, err error, code int) {
	t.Helper()
	var he *echo.HTTPError
	if !errors.As(err, &he) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if he.Code != code {
		t.Fatalf("expected %d, got %d", code, he.Code)
	}
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	store, s := storedSession(t)
	signed, _, err := IssueToken("secret", s, time.Hour, time.Now())
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	called := false
	rec, err := runAuth(t, "Bearer "+signed, store, func(c echo.Context) error {
		called = true
		got, ok := SessionFrom(c)
		if !ok {
			t.Fatalf("session not set")
		}
		if got.Username != "alice" || got.View.Tab != domain.TabChat {
			t.Fatalf("unexpected session %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})
	if err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_Rejects(t *testing.T) {
	store, s := storedSession(t)

	expired, _, _ := IssueToken("secret", s, time.Minute, time.Now().Add(-time.Hour))
	wrongKey, _, _ := IssueToken("other", s, time.Hour, time.Now())
	gone := domain.NewSession("sess-unknown", time.Now())
	unknown, _, _ := IssueToken("secret", gone, time.Hour, time.Now())
	foreign, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"jti": "sess-1"}).SignedString([]byte("secret"))

	cases := map[string]string{
		"missing header":  "",
		"wrong scheme":    "Token abc",
		"garbage":         "Bearer not-a-jwt",
		"expired":         "Bearer " + expired,
		"wrong key":       "Bearer " + wrongKey,
		"unknown session": "Bearer " + unknown,
		"foreign issuer":  "Bearer " + foreign,
	}
	for name, header := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := runAuth(t, header, store, func(c echo.Context) error {
				t.Fatalf("should not reach next")
				return nil
			})
			wantStatus(t, err, http.StatusUnauthorized)
		})
	}
}

func TestAuthMiddleware_RejectsNonHS256(t *testing.T) {
	store, _ := storedSession(t)
	token := jwt.NewWithClaims(jwt.SigningMethodHS512, SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "sess-1", Issuer: issuer},
	})
	signed, err := token.SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_, err = runAuth(t, "Bearer "+signed, store, func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})
	wantStatus(t, err, http.StatusUnauthorized)
}
