package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

func seedVendor(t *testing.T, repo *stubVendorRepo, username, password, role string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	id, err := repo.Insert(context.Background(), &domain.Vendor{
		Account: domain.Account{Username: username, Password: string(hash), Role: role},
	})
	if err != nil {
		t.Fatalf("seeding vendor: %v", err)
	}
	return id
}

func TestAuthenticateIssuesVerifiableToken(t *testing.T) {
	repo := newStubVendorRepo()
	id := seedVendor(t, repo, "alice", "s3cret", domain.RoleUser)
	svc := NewAuthService(repo, "test-secret", time.Hour, bcrypt.MinCost)

	token, vendorID, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if vendorID != id {
		t.Fatalf("expected vendor id %q, got %q", id, vendorID)
	}

	identity, err := svc.VerifyToken(token)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if identity.ID != id || identity.Role != domain.RoleUser {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestAuthenticateUnknownUsername(t *testing.T) {
	svc := NewAuthService(newStubVendorRepo(), "test-secret", time.Hour, bcrypt.MinCost)

	_, _, err := svc.Authenticate(context.Background(), "nobody", "pw")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthenticateWrongPassword(t *testing.T) {
	repo := newStubVendorRepo()
	seedVendor(t, repo, "alice", "s3cret", domain.RoleUser)
	svc := NewAuthService(repo, "test-secret", time.Hour, bcrypt.MinCost)

	_, _, err := svc.Authenticate(context.Background(), "alice", "wrong")
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestVerifyTokenRejectsForeignSignature(t *testing.T) {
	repo := newStubVendorRepo()
	seedVendor(t, repo, "alice", "s3cret", domain.RoleUser)
	issuer := NewAuthService(repo, "secret-one", time.Hour, bcrypt.MinCost)
	verifier := NewAuthService(repo, "secret-two", time.Hour, bcrypt.MinCost)

	token, _, err := issuer.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	if _, err := verifier.VerifyToken(token); !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(newStubVendorRepo(), "test-secret", time.Hour, bcrypt.MinCost)
	if _, err := svc.VerifyToken("not-a-token"); !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken, got %v", err)
	}
}

func TestVerifyTokenRejectsExpired(t *testing.T) {
	repo := newStubVendorRepo()
	seedVendor(t, repo, "alice", "s3cret", domain.RoleUser)
	svc := NewAuthService(repo, "test-secret", time.Nanosecond, bcrypt.MinCost)

	token, _, err := svc.Authenticate(context.Background(), "alice", "s3cret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}

	time.Sleep(10 * time.Millisecond)
	if _, err := svc.VerifyToken(token); !errors.Is(err, domain.ErrBadToken) {
		t.Fatalf("expected ErrBadToken for expired token, got %v", err)
	}
}

func TestHashPasswordMatchesBcrypt(t *testing.T) {
	svc := NewAuthService(newStubVendorRepo(), "test-secret", time.Hour, bcrypt.MinCost)
	hash, err := svc.HashPassword("s3cret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte("s3cret")) != nil {
		t.Fatalf("hash does not verify")
	}
}

// nopLogger is shared by the service tests.
var nopLogger = zerolog.Nop()
