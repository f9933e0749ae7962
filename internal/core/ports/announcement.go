package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

type AnnouncementRepository interface {
	Insert(ctx context.Context, a *domain.Announcement) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Announcement, error)
	ListByVendor(ctx context.Context, vendorID string, opts ListOptions) ([]*domain.Announcement, int64, error)
	Update(ctx context.Context, id string, upd AnnouncementUpdate) error
	SetImage(ctx context.Context, id string, ref domain.AssetRef) error
	DeleteByVendor(ctx context.Context, id, vendorID string) error
	DeleteAllByVendor(ctx context.Context, vendorID string) error
}

type CreateAnnouncementInput struct {
	Text     string
	Image    domain.AssetRef
	Featured *bool
}

// AnnouncementUpdate enumerates the mutable announcement fields; the image
// slot changes only through the upload protocol.
type AnnouncementUpdate struct {
	Text     string
	Featured *bool
}

type AnnouncementService interface {
	Create(ctx context.Context, vendorID string, in CreateAnnouncementInput) (string, error)
	Get(ctx context.Context, vendorID, announcementID string) (*domain.Announcement, error)
	List(ctx context.Context, vendorID string, opts ListOptions) ([]*domain.Announcement, int64, error)
	Update(ctx context.Context, vendorID, announcementID string, upd AnnouncementUpdate) error
	Delete(ctx context.Context, vendorID, announcementID string) error
	DeleteAll(ctx context.Context, vendorID string) error

	SetImage(ctx context.Context, vendorID, announcementID string, up Upload) error
	ClearImage(ctx context.Context, vendorID, announcementID string) error
}
