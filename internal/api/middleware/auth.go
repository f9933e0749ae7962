package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/mercatino/vendor-api/internal/core/ports"
)

const identityKey = "identity"

// tokenVerifier is the slice of the auth service the middleware needs.
type tokenVerifier interface {
	VerifyToken(token string) (ports.Identity, error)
}

// Auth resolves the caller's identity from the request token and stores it in
// the echo context. Token precedence: JSON body field, query parameter, then
// the x-access-token header. Requests without a token proceed as guest;
// requests with an invalid token are refused.
func Auth(verifier tokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				c.Set(identityKey, ports.Guest())
				return next(c)
			}

			identity, err := verifier.VerifyToken(token)
			if err != nil {
				return err
			}
			c.Set(identityKey, identity)
			return next(c)
		}
	}
}

// Identity returns the caller identity stored by Auth. Routes not behind the
// middleware see a guest.
func Identity(c echo.Context) ports.Identity {
	if id, ok := c.Get(identityKey).(ports.Identity); ok {
		return id
	}
	return ports.Guest()
}

func extractToken(c echo.Context) string {
	if token := bodyToken(c); token != "" {
		return token
	}
	if token := c.QueryParam("token"); token != "" {
		return token
	}
	return c.Request().Header.Get("x-access-token")
}

// bodyToken peeks at a JSON body for a top-level "token" field, re-buffering
// the body so that handler binding still sees it.
func bodyToken(c echo.Context) string {
	req := c.Request()
	if req.Body == nil || !strings.HasPrefix(req.Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return ""
	}

	raw, err := io.ReadAll(req.Body)
	req.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	var payload struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return ""
	}
	return payload.Token
}
