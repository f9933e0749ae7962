package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

type stubVerifier struct {
	identity ports.Identity
	err      error
	seen     string
}

func (s *stubVerifier) VerifyToken(token string) (ports.Identity, error) {
	s.seen = token
	if s.err != nil {
		return ports.Identity{}, s.err
	}
	return s.identity, nil
}

func TestAuthMiddleware_HeaderToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-access-token", "tok-header")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verifier := &stubVerifier{identity: ports.Identity{ID: "v1", Role: domain.RoleUser}}
	called := false
	handler := Auth(verifier)(func(c echo.Context) error {
		called = true
		if got := Identity(c); got.ID != "v1" || got.Role != domain.RoleUser {
			t.Fatalf("unexpected identity %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if verifier.seen != "tok-header" {
		t.Fatalf("verifier saw %q", verifier.seen)
	}
}

func TestAuthMiddleware_BodyTokenWins(t *testing.T) {
	e := echo.New()
	body := `{"token":"tok-body","name":"x"}`
	req := httptest.NewRequest(http.MethodPost, "/?token=tok-query", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set("x-access-token", "tok-header")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verifier := &stubVerifier{identity: ports.Identity{ID: "v1", Role: domain.RoleAdmin}}
	handler := Auth(verifier)(func(c echo.Context) error {
		var payload struct {
			Name string `json:"name"`
		}
		if err := c.Bind(&payload); err != nil {
			t.Fatalf("binding after token peek: %v", err)
		}
		if payload.Name != "x" {
			t.Fatalf("body not re-buffered, got %+v", payload)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if verifier.seen != "tok-body" {
		t.Fatalf("expected body token, verifier saw %q", verifier.seen)
	}
}

func TestAuthMiddleware_QueryBeforeHeader(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?token=tok-query", nil)
	req.Header.Set("x-access-token", "tok-header")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verifier := &stubVerifier{identity: ports.Identity{ID: "v1", Role: domain.RoleUser}}
	handler := Auth(verifier)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if verifier.seen != "tok-query" {
		t.Fatalf("expected query token, verifier saw %q", verifier.seen)
	}
}

func TestAuthMiddleware_NoTokenIsGuest(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verifier := &stubVerifier{}
	handler := Auth(verifier)(func(c echo.Context) error {
		if got := Identity(c); got.Role != domain.RoleGuest || got.ID != "" {
			t.Fatalf("expected guest identity, got %+v", got)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if verifier.seen != "" {
		t.Fatalf("verifier should not be called, saw %q", verifier.seen)
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("x-access-token", "garbage")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	verifier := &stubVerifier{err: domain.ErrBadToken}
	handler := Auth(verifier)(func(c echo.Context) error {
		t.Fatalf("should not reach next")
		return nil
	})

	err := handler(c)
	if !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken, got %v", err)
	}
}
