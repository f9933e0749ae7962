package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// ListOptions carries the pagination parameters accepted by every collection
// read. Sort is a field name, prefixed with "-" for descending order.
type ListOptions struct {
	Sort   string
	Limit  int64
	Offset int64
}

// VendorRepository is the document-store contract for the vendor aggregate.
// The child-list mutators (AddChild, RemoveChild, ClearChildren) persist the
// parent's ordered id lists, which are the authoritative membership record.
type VendorRepository interface {
	Insert(ctx context.Context, v *domain.Vendor) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Vendor, error)
	FindByUsername(ctx context.Context, username string) (*domain.Vendor, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	List(ctx context.Context, opts ListOptions) ([]*domain.Vendor, int64, error)
	Delete(ctx context.Context, id string) error
	UpdateAccount(ctx context.Context, id string, acct domain.Account) error
	UpdateContact(ctx context.Context, id string, contact domain.Contact) error
	AddChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error
	RemoveChild(ctx context.Context, id string, kind domain.ChildKind, childID string) error
	ClearChildren(ctx context.Context, id string, kind domain.ChildKind) error
}

// CreateVendorInput carries the account fields of a new vendor. Contact
// starts empty and is filled through the contact update.
type CreateVendorInput struct {
	Username string
	Password string
	Role     string
}

// AccountUpdate enumerates the mutable account fields. Username is immutable;
// Role is applied only when the accessor is an admin.
type AccountUpdate struct {
	Password string
	Role     *string
}

// MailboxInput is a contact message addressed to a vendor's mailbox.
type MailboxInput struct {
	Name     string
	Lastname string
	Email    string
	Phone    string
	Text     string
}

type VendorService interface {
	Create(ctx context.Context, in CreateVendorInput) (string, error)
	Get(ctx context.Context, id string) (*domain.Vendor, error)
	List(ctx context.Context, opts ListOptions) ([]*domain.Vendor, int64, error)
	Delete(ctx context.Context, id string) error
	UpdateAccount(ctx context.Context, id, accessorRole string, upd AccountUpdate) error
	GetContact(ctx context.Context, id string) (domain.Contact, error)
	UpdateContact(ctx context.Context, id string, contact domain.Contact) error
	SendMailbox(ctx context.Context, id string, msg MailboxInput) error
}
