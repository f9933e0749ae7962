package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// RequestService manages customer requests. Requests own no assets, so their
// protocols only span the request collection and the parent id list.
type RequestService struct {
	vendors  ports.VendorRepository
	products ports.ProductRepository
	requests ports.RequestRepository
	locks    *vendorLocks
	logger   zerolog.Logger
}

func NewRequestService(
	vendors ports.VendorRepository,
	products ports.ProductRepository,
	requests ports.RequestRepository,
	logger zerolog.Logger,
) *RequestService {
	return &RequestService{
		vendors:  vendors,
		products: products,
		requests: requests,
		locks:    newVendorLocks(),
		logger:   logger,
	}
}

// Create verifies the referenced product belongs to the vendor before
// inserting the request and registering it with the parent.
func (s *RequestService) Create(ctx context.Context, vendorID string, in ports.CreateRequestInput) (string, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return "", err
	}
	if _, err := s.products.FindByVendorAndID(ctx, vendorID, in.ProductID); err != nil {
		return "", err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	now := time.Now().UTC()
	request := &domain.Request{
		VendorID:  vendorID,
		ProductID: in.ProductID,
		Name:      in.Name,
		Email:     in.Email,
		Phone:     in.Phone,
		Notes:     in.Notes,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var id string
	err := runLifecycle(ctx, "create_request", []lifecycleStep{
		{"insert_request_record", func(ctx context.Context) error {
			var err error
			id, err = s.requests.Insert(ctx, request)
			return err
		}},
		{"register_with_parent", func(ctx context.Context) error {
			return s.vendors.AddChild(ctx, vendorID, domain.KindRequests, id)
		}},
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("vendor_id", vendorID).Str("request_id", id).Msg("request created")
	return id, nil
}

func (s *RequestService) Get(ctx context.Context, vendorID, requestID string) (*ports.RequestDetail, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}
	request, err := s.requests.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	return &ports.RequestDetail{Request: request, Product: s.resolveProduct(ctx, request.ProductID)}, nil
}

func (s *RequestService) List(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*ports.RequestDetail, int64, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, 0, err
	}
	requests, total, err := s.requests.ListByVendor(ctx, vendorID, opts)
	if err != nil {
		return nil, 0, err
	}

	details := make([]*ports.RequestDetail, 0, len(requests))
	for _, r := range requests {
		details = append(details, &ports.RequestDetail{Request: r, Product: s.resolveProduct(ctx, r.ProductID)})
	}
	return details, total, nil
}

// resolveProduct looks up the weakly referenced product. A dangling
// reference resolves to nil rather than failing the read.
func (s *RequestService) resolveProduct(ctx context.Context, productID string) *ports.ProductRef {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if !errors.Is(err, domain.ErrProductNotFound) {
			s.logger.Warn().Err(err).Str("product_id", productID).Msg("product reference lookup failed")
		}
		return nil
	}
	return &ports.ProductRef{ID: product.ID, Name: product.Name, Price: product.Price}
}

func (s *RequestService) Update(ctx context.Context, vendorID, requestID string, upd ports.RequestUpdate) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	if _, err := s.requests.FindByID(ctx, requestID); err != nil {
		return err
	}
	return s.requests.Update(ctx, requestID, upd)
}

func (s *RequestService) Delete(ctx context.Context, vendorID, requestID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	return runLifecycle(ctx, "delete_request", []lifecycleStep{
		{"delete_request_record", func(ctx context.Context) error {
			return s.requests.DeleteByVendor(ctx, requestID, vendorID)
		}},
		{"deregister_from_parent", func(ctx context.Context) error {
			return s.vendors.RemoveChild(ctx, vendorID, domain.KindRequests, requestID)
		}},
	})
}

func (s *RequestService) DeleteAll(ctx context.Context, vendorID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	return runLifecycle(ctx, "clear_requests", []lifecycleStep{
		{"delete_request_records", func(ctx context.Context) error {
			return s.requests.DeleteAllByVendor(ctx, vendorID)
		}},
		{"reset_parent_list", func(ctx context.Context) error {
			return s.vendors.ClearChildren(ctx, vendorID, domain.KindRequests)
		}},
	})
}
