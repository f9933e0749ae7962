package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// ContactCache caches the public vendor-contact read. All methods are best
// effort: a cache error never fails the read it fronts.
type ContactCache interface {
	// Get returns (nil, nil) on a cache miss.
	Get(ctx context.Context, vendorID string) (*domain.Contact, error)
	Set(ctx context.Context, vendorID string, contact domain.Contact) error
	Invalidate(ctx context.Context, vendorID string) error
}
