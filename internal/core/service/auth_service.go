package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// AuthService verifies credentials and issues and verifies bearer tokens.
type AuthService struct {
	vendors  ports.VendorRepository
	secret   string
	tokenTTL time.Duration
	cost     int
}

func NewAuthService(vendors ports.VendorRepository, secret string, tokenTTL time.Duration, bcryptCost int) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	if bcryptCost <= 0 {
		bcryptCost = 10
	}
	return &AuthService{vendors: vendors, secret: secret, tokenTTL: tokenTTL, cost: bcryptCost}
}

// Authenticate looks the vendor up by username and compares the supplied
// password against the stored hash. Unknown username and wrong password
// produce the same error so usernames cannot be enumerated.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (string, string, error) {
	vendor, err := s.vendors.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrVendorNotFound) {
			return "", "", domain.ErrInvalidCredentials
		}
		return "", "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(vendor.Account.Password), []byte(password)) != nil {
		return "", "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(vendor.ID, vendor.Account.Role)
	if err != nil {
		return "", "", err
	}
	return token, vendor.ID, nil
}

func (s *AuthService) issueToken(subjectID, role string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":   subjectID,
		"role": role,
		"iat":  now.Unix(),
		"exp":  now.Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.secret))
}

// VerifyToken checks signature and expiry and returns the embedded identity.
func (s *AuthService) VerifyToken(token string) (ports.Identity, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(s.secret), nil
	})
	if err != nil || !tkn.Valid {
		return ports.Identity{}, domain.ErrBadToken
	}

	id, _ := claims["id"].(string)
	role, _ := claims["role"].(string)
	if id == "" || role == "" {
		return ports.Identity{}, domain.ErrBadToken
	}
	return ports.Identity{ID: id, Role: role}, nil
}

// HashPassword applies the configured bcrypt work factor.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
