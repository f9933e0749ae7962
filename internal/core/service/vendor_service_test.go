package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

type vendorFixture struct {
	repo   *stubVendorRepo
	assets *stubAssetStore
	cache  *stubContactCache
	mailer *stubMailer
	svc    *VendorService
}

func newVendorFixture() *vendorFixture {
	f := &vendorFixture{
		repo:   newStubVendorRepo(),
		assets: newStubAssetStore(),
		cache:  newStubContactCache(),
		mailer: &stubMailer{},
	}
	f.svc = NewVendorService(f.repo, f.assets, f.cache, f.mailer, plainHasher{}, nopLogger)
	return f
}

func TestVendorCreateProvisionsSubtrees(t *testing.T) {
	f := newVendorFixture()

	id, err := f.svc.Create(context.Background(), ports.CreateVendorInput{
		Username: "alice", Password: "pw", Role: domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	vendor := f.repo.vendors[id]
	if vendor.Account.Password != "hashed:pw" {
		t.Fatalf("password not hashed: %q", vendor.Account.Password)
	}
	if !f.assets.subtrees[id+"/products"] || !f.assets.subtrees[id+"/announcements"] {
		t.Fatalf("asset subtrees not provisioned: %v", f.assets.subtrees)
	}
}

func TestVendorCreateDuplicateUsername(t *testing.T) {
	f := newVendorFixture()
	if _, err := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	_, err := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "other", Role: domain.RoleUser})
	if !errors.Is(err, domain.ErrUsernameTaken) {
		t.Fatalf("expected ErrUsernameTaken, got %v", err)
	}
}

func TestVendorCreateSubtreeFailureIsPartialCommit(t *testing.T) {
	f := newVendorFixture()
	f.assets.failCreate = errors.New("disk full")

	_, err := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})

	var pc *domain.PartialCommitError
	if !errors.As(err, &pc) {
		t.Fatalf("expected PartialCommitError, got %v", err)
	}
	if pc.Protocol != "create_vendor" || pc.Step != "provision_products_subtree" {
		t.Fatalf("unexpected attribution: protocol %q step %q", pc.Protocol, pc.Step)
	}
	// The record survived the failed provisioning.
	if len(f.repo.vendors) != 1 {
		t.Fatalf("expected the inserted record to remain, have %d", len(f.repo.vendors))
	}
}

func TestVendorDeletePurgesSubtree(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})

	if err := f.svc.Delete(context.Background(), id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok := f.repo.vendors[id]; ok {
		t.Fatalf("record not deleted")
	}
	for subtree := range f.assets.subtrees {
		if strings.HasPrefix(subtree, id+"/") {
			t.Fatalf("subtree %q survived vendor delete", subtree)
		}
	}
	if f.cache.invalidates == 0 {
		t.Fatalf("contact cache not invalidated")
	}
}

func TestVendorDeleteMissingFailsBeforeStorage(t *testing.T) {
	f := newVendorFixture()
	err := f.svc.Delete(context.Background(), "ghost")
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
	var pc *domain.PartialCommitError
	if errors.As(err, &pc) {
		t.Fatalf("missing vendor must reject, not partially commit: %v", err)
	}
}

func TestUpdateAccountSkipsRehashForUnchangedPassword(t *testing.T) {
	repo := newStubVendorRepo()
	assets := newStubAssetStore()
	cache := newStubContactCache()
	hasher := NewAuthService(repo, "s", time.Hour, bcrypt.MinCost)
	svc := NewVendorService(repo, assets, cache, &stubMailer{}, hasher, nopLogger)

	hash, _ := bcrypt.GenerateFromPassword([]byte("pw"), bcrypt.MinCost)
	id, _ := repo.Insert(context.Background(), &domain.Vendor{
		Account: domain.Account{Username: "alice", Password: string(hash), Role: domain.RoleUser},
	})

	if err := svc.UpdateAccount(context.Background(), id, domain.RoleUser, ports.AccountUpdate{Password: "pw"}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if repo.vendors[id].Account.Password != string(hash) {
		t.Fatalf("unchanged password was re-hashed")
	}

	if err := svc.UpdateAccount(context.Background(), id, domain.RoleUser, ports.AccountUpdate{Password: "new-pw"}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	stored := repo.vendors[id].Account.Password
	if stored == string(hash) {
		t.Fatalf("changed password not re-hashed")
	}
	if bcrypt.CompareHashAndPassword([]byte(stored), []byte("new-pw")) != nil {
		t.Fatalf("new hash does not verify")
	}
}

func TestUpdateAccountRoleChangeRequiresAdmin(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})

	admin := domain.RoleAdmin
	if err := f.svc.UpdateAccount(context.Background(), id, domain.RoleUser, ports.AccountUpdate{Password: "pw2", Role: &admin}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if f.repo.vendors[id].Account.Role != domain.RoleUser {
		t.Fatalf("non-admin accessor changed the role")
	}

	if err := f.svc.UpdateAccount(context.Background(), id, domain.RoleAdmin, ports.AccountUpdate{Password: "pw3", Role: &admin}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if f.repo.vendors[id].Account.Role != domain.RoleAdmin {
		t.Fatalf("admin accessor could not change the role")
	}
}

func TestUpdateAccountUsernameImmutable(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})

	if err := f.svc.UpdateAccount(context.Background(), id, domain.RoleAdmin, ports.AccountUpdate{Password: "pw2"}); err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if f.repo.vendors[id].Account.Username != "alice" {
		t.Fatalf("username changed")
	}
}

func TestGetContactReadsThroughCache(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})
	contact := domain.Contact{Shopname: "Alice Shop", Email: "shop@example.com"}
	if err := f.svc.UpdateContact(context.Background(), id, contact); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}

	got, err := f.svc.GetContact(context.Background(), id)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.Shopname != "Alice Shop" {
		t.Fatalf("unexpected contact %+v", got)
	}
	if f.cache.sets != 1 {
		t.Fatalf("expected one cache fill, got %d", f.cache.sets)
	}

	// Second read is served from the cache.
	if _, err := f.svc.GetContact(context.Background(), id); err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if f.cache.sets != 1 {
		t.Fatalf("cached read refilled the cache")
	}
}

func TestUpdateContactInvalidatesCache(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})

	if _, err := f.svc.GetContact(context.Background(), id); err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	before := f.cache.invalidates
	if err := f.svc.UpdateContact(context.Background(), id, domain.Contact{City: "Milan"}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	if f.cache.invalidates != before+1 {
		t.Fatalf("contact update did not invalidate the cache")
	}

	got, err := f.svc.GetContact(context.Background(), id)
	if err != nil {
		t.Fatalf("GetContact: %v", err)
	}
	if got.City != "Milan" {
		t.Fatalf("stale contact served: %+v", got)
	}
}

func TestSendMailboxComposesMessage(t *testing.T) {
	f := newVendorFixture()
	id, _ := f.svc.Create(context.Background(), ports.CreateVendorInput{Username: "alice", Password: "pw", Role: domain.RoleUser})
	_ = f.svc.UpdateContact(context.Background(), id, domain.Contact{Shopname: "Alice Shop", Email: "shop@example.com"})

	err := f.svc.SendMailbox(context.Background(), id, ports.MailboxInput{
		Name: "Bob", Email: "bob@example.com", Text: "Is the blue one available?",
	})
	if err != nil {
		t.Fatalf("SendMailbox: %v", err)
	}

	if len(f.mailer.sent) != 1 {
		t.Fatalf("expected one mail, got %d", len(f.mailer.sent))
	}
	mail := f.mailer.sent[0]
	if mail.To != "shop@example.com" || mail.From != "bob@example.com" {
		t.Fatalf("unexpected addressing %+v", mail)
	}
	if mail.Subject != "info@Alice Shop" {
		t.Fatalf("unexpected subject %q", mail.Subject)
	}
	if !strings.Contains(mail.Text, "Is the blue one available?") || !strings.Contains(mail.Text, "Name: Bob") {
		t.Fatalf("message body incomplete:\n%s", mail.Text)
	}
}

func TestSendMailboxUnknownVendor(t *testing.T) {
	f := newVendorFixture()
	err := f.svc.SendMailbox(context.Background(), "ghost", ports.MailboxInput{Name: "Bob", Email: "b@e.c", Text: "hi"})
	if !errors.Is(err, domain.ErrVendorNotFound) {
		t.Fatalf("expected ErrVendorNotFound, got %v", err)
	}
	if len(f.mailer.sent) != 0 {
		t.Fatalf("mail sent for missing vendor")
	}
}
