package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// passwordHasher is the slice of the authenticator the vendor service needs
// for account writes.
type passwordHasher interface {
	HashPassword(password string) (string, error)
}

// VendorService implements the vendor lifecycle: the aggregate root record
// in the document store plus its asset subtrees.
type VendorService struct {
	vendors ports.VendorRepository
	assets  ports.AssetStore
	cache   ports.ContactCache
	mailer  ports.Mailer
	hasher  passwordHasher
	logger  zerolog.Logger
}

func NewVendorService(
	vendors ports.VendorRepository,
	assets ports.AssetStore,
	cache ports.ContactCache,
	mailer ports.Mailer,
	hasher passwordHasher,
	logger zerolog.Logger,
) *VendorService {
	return &VendorService{
		vendors: vendors,
		assets:  assets,
		cache:   cache,
		mailer:  mailer,
		hasher:  hasher,
		logger:  logger,
	}
}

// Create persists the vendor record and then provisions its two empty asset
// subtrees. A subtree failure leaves the record in place and surfaces as a
// partial commit; the caller retries or cleans up by hand.
func (s *VendorService) Create(ctx context.Context, in ports.CreateVendorInput) (string, error) {
	taken, err := s.vendors.UsernameExists(ctx, in.Username)
	if err != nil {
		return "", err
	}
	if taken {
		return "", domain.ErrUsernameTaken
	}

	hash, err := s.hasher.HashPassword(in.Password)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	vendor := &domain.Vendor{
		Account: domain.Account{
			Username: in.Username,
			Password: hash,
			Role:     in.Role,
		},
		Products:      []string{},
		Announcements: []string{},
		Requests:      []string{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var id string
	err = runLifecycle(ctx, "create_vendor", []lifecycleStep{
		{"insert_vendor_record", func(ctx context.Context) error {
			var err error
			id, err = s.vendors.Insert(ctx, vendor)
			return err
		}},
		{"provision_products_subtree", func(ctx context.Context) error {
			return s.assets.CreateSubtree(ctx, ports.KindSubtree(id, domain.KindProducts))
		}},
		{"provision_announcements_subtree", func(ctx context.Context) error {
			return s.assets.CreateSubtree(ctx, ports.KindSubtree(id, domain.KindAnnouncements))
		}},
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("vendor_id", id).Str("username", in.Username).Msg("vendor created")
	return id, nil
}

func (s *VendorService) Get(ctx context.Context, id string) (*domain.Vendor, error) {
	return s.vendors.FindByID(ctx, id)
}

func (s *VendorService) List(ctx context.Context, opts ports.ListOptions) ([]*domain.Vendor, int64, error) {
	return s.vendors.List(ctx, opts)
}

// Delete removes the vendor record first, then best-effort purges its whole
// asset subtree. A missing vendor fails before any storage is touched.
func (s *VendorService) Delete(ctx context.Context, id string) error {
	err := runLifecycle(ctx, "delete_vendor", []lifecycleStep{
		{"delete_vendor_record", func(ctx context.Context) error {
			return s.vendors.Delete(ctx, id)
		}},
		{"purge_asset_subtree", func(ctx context.Context) error {
			return s.assets.RemoveSubtree(ctx, ports.VendorSubtree(id))
		}},
	})
	if err != nil {
		return err
	}

	if cerr := s.cache.Invalidate(ctx, id); cerr != nil {
		s.logger.Warn().Err(cerr).Str("vendor_id", id).Msg("contact cache invalidation failed")
	}
	s.logger.Info().Str("vendor_id", id).Msg("vendor deleted")
	return nil
}

// UpdateAccount rewrites the account through the explicit update path.
// The password is re-hashed only when it actually changed, so unrelated
// updates never touch the stored hash. Username is immutable; a role change
// is honoured only for admin accessors.
func (s *VendorService) UpdateAccount(ctx context.Context, id, accessorRole string, upd ports.AccountUpdate) error {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return err
	}

	acct := vendor.Account
	if bcrypt.CompareHashAndPassword([]byte(acct.Password), []byte(upd.Password)) != nil {
		hash, err := s.hasher.HashPassword(upd.Password)
		if err != nil {
			return err
		}
		acct.Password = hash
	}
	if accessorRole == domain.RoleAdmin && upd.Role != nil {
		acct.Role = *upd.Role
	}

	return s.vendors.UpdateAccount(ctx, id, acct)
}

// GetContact serves the public contact sheet through the read cache.
func (s *VendorService) GetContact(ctx context.Context, id string) (domain.Contact, error) {
	if cached, err := s.cache.Get(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("vendor_id", id).Msg("contact cache read failed")
	} else if cached != nil {
		return *cached, nil
	}

	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return domain.Contact{}, err
	}

	if err := s.cache.Set(ctx, id, vendor.Contact); err != nil {
		s.logger.Warn().Err(err).Str("vendor_id", id).Msg("contact cache write failed")
	}
	return vendor.Contact, nil
}

func (s *VendorService) UpdateContact(ctx context.Context, id string, contact domain.Contact) error {
	if err := s.vendors.UpdateContact(ctx, id, contact); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, id); err != nil {
		s.logger.Warn().Err(err).Str("vendor_id", id).Msg("contact cache invalidation failed")
	}
	return nil
}

// SendMailbox composes the contact message and hands it to the mail
// transport addressed to the vendor's contact e-mail.
func (s *VendorService) SendMailbox(ctx context.Context, id string, msg ports.MailboxInput) error {
	vendor, err := s.vendors.FindByID(ctx, id)
	if err != nil {
		return err
	}

	senderInfo := "Contact information:\n"
	senderInfo += "Name: " + msg.Name + "\n"
	senderInfo += "Lastname: " + msg.Lastname + "\n"
	senderInfo += "Email: " + msg.Email + "\n"
	if msg.Phone != "" {
		senderInfo += "Phone: " + msg.Phone + "\n"
	}

	mail := ports.Mail{
		From:    msg.Email,
		To:      vendor.Contact.Email,
		Subject: fmt.Sprintf("info@%s", vendor.Contact.Shopname),
		Text:    "You have a new contact request!\n\n" + msg.Text + "\n\n" + senderInfo,
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		return err
	}

	s.logger.Info().Str("vendor_id", id).Msg("mailbox message delivered")
	return nil
}
