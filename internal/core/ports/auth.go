package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// Identity is the caller identity carried by a verified token. Requests
// without a token get the guest identity instead of an error.
type Identity struct {
	ID   string
	Role string
}

// Guest returns the anonymous caller identity.
func Guest() Identity {
	return Identity{Role: domain.RoleGuest}
}

type AuthService interface {
	// Authenticate verifies the credentials and returns a signed bearer token
	// plus the vendor id it was issued for. Unknown username and wrong
	// password both fail with domain.ErrInvalidCredentials.
	Authenticate(ctx context.Context, username, password string) (token string, vendorID string, err error)

	// VerifyToken checks signature and expiry. Verification is a pure
	// computation; there is no server-side session state.
	VerifyToken(token string) (Identity, error)

	// HashPassword applies the configured bcrypt work factor. Every write to
	// an account password field must go through it.
	HashPassword(password string) (string, error)
}
