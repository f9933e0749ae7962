package ports

import (
	"context"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

type RequestRepository interface {
	Insert(ctx context.Context, r *domain.Request) (string, error)
	FindByID(ctx context.Context, id string) (*domain.Request, error)
	ListByVendor(ctx context.Context, vendorID string, opts ListOptions) ([]*domain.Request, int64, error)
	Update(ctx context.Context, id string, upd RequestUpdate) error
	DeleteByVendor(ctx context.Context, id, vendorID string) error
	DeleteAllByVendor(ctx context.Context, vendorID string) error
}

type CreateRequestInput struct {
	ProductID string
	Name      string
	Email     string
	Phone     string
	Notes     string
}

// RequestUpdate enumerates the mutable request fields. The product reference
// is immutable after creation.
type RequestUpdate struct {
	Name   string
	Email  string
	Phone  string
	Notes  string
	Status domain.RequestStatus
}

// ProductRef is the resolved summary of a request's product reference.
type ProductRef struct {
	ID    string  `json:"_id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// RequestDetail pairs a request with its resolved product reference.
// Product is nil when the referenced product no longer exists.
type RequestDetail struct {
	Request *domain.Request
	Product *ProductRef
}

type RequestService interface {
	Create(ctx context.Context, vendorID string, in CreateRequestInput) (string, error)
	Get(ctx context.Context, vendorID, requestID string) (*RequestDetail, error)
	List(ctx context.Context, vendorID string, opts ListOptions) ([]*RequestDetail, int64, error)
	Update(ctx context.Context, vendorID, requestID string, upd RequestUpdate) error
	Delete(ctx context.Context, vendorID, requestID string) error
	DeleteAll(ctx context.Context, vendorID string) error
}
