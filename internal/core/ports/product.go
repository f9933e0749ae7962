package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

type ProductRepository interface {
	Insert(ctx context.Context, p *domain.Product) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByVendorAndID applies the (id, vendor_id) compound key, so a match
	// proves ownership as well as existence.
	FindByVendorAndID(ctx context.Context, vendorID, id string) (*domain.Product, error)
	ListByVendor(ctx context.Context, vendorID string, opts ListOptions) ([]*domain.Product, int64, error)
	Update(ctx context.Context, id string, upd ProductUpdate) error
	SetImage(ctx context.Context, id string, ref domain.AssetRef) error
	PushGallery(ctx context.Context, id string, ref domain.AssetRef) error
	SetGallery(ctx context.Context, id string, refs []domain.AssetRef) error
	// DeleteByVendor removes the product matching the (id, vendor_id)
	// compound key and fails with domain.ErrProductNotFound when nothing
	// matched, hiding the difference between a missing product and another
	// tenant's product.
	DeleteByVendor(ctx context.Context, id, vendorID string) error
	DeleteAllByVendor(ctx context.Context, vendorID string) error
}

// CreateProductInput carries the writable fields of a new product. The
// vendor id comes from the route path, never from the payload.
type CreateProductInput struct {
	Category    string
	Name        string
	Description string
	Price       float64
	Featured    *bool
	Enabled     *bool
	Sale        string
	Keywords    []string
}

// ProductUpdate enumerates the mutable product fields. Id, vendor id, image
// and gallery are structurally absent: image and gallery change only through
// their upload protocols.
type ProductUpdate struct {
	Category    string
	Name        string
	Description string
	Price       float64
	Featured    *bool
	Enabled     *bool
	Sale        *string
	Keywords    []string
}

// Upload is an accepted multipart file, already validated against the
// configured limits and the jpeg allow-list by the transport layer.
type Upload struct {
	Filename string
	Data     []byte
}

type ProductService interface {
	Create(ctx context.Context, vendorID string, in CreateProductInput) (string, error)
	Get(ctx context.Context, vendorID, productID string) (*domain.Product, error)
	List(ctx context.Context, vendorID string, opts ListOptions) ([]*domain.Product, int64, error)
	Update(ctx context.Context, vendorID, productID string, upd ProductUpdate) error
	Delete(ctx context.Context, vendorID, productID string) error
	DeleteAll(ctx context.Context, vendorID string) error

	SetImage(ctx context.Context, vendorID, productID string, up Upload) error
	ClearImage(ctx context.Context, vendorID, productID string) error
	// CheckGalleryRoom lets the transport reject an over-capacity append
	// before any upload bytes are transferred.
	CheckGalleryRoom(ctx context.Context, vendorID, productID string) error
	AppendGalleryImage(ctx context.Context, vendorID, productID string, up Upload) error
	ClearGallery(ctx context.Context, vendorID, productID string) error
}
