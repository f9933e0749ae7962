package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

const galleryFilenamePrefix = "gallery-image-"

// ProductService coordinates product records, the parent vendor's id list
// and the product asset subtree.
type ProductService struct {
	vendors    ports.VendorRepository
	products   ports.ProductRepository
	assets     ports.AssetStore
	locks      *vendorLocks
	maxGallery int
	logger     zerolog.Logger
}

func NewProductService(
	vendors ports.VendorRepository,
	products ports.ProductRepository,
	assets ports.AssetStore,
	maxGallerySize int,
	logger zerolog.Logger,
) *ProductService {
	if maxGallerySize <= 0 {
		maxGallerySize = 5
	}
	return &ProductService{
		vendors:    vendors,
		products:   products,
		assets:     assets,
		locks:      newVendorLocks(),
		maxGallery: maxGallerySize,
		logger:     logger,
	}
}

// Create persists the product, registers it with the parent vendor and
// provisions its asset subtree, in that order. A failure after the insert
// leaves an orphaned record: the parent's id list, not record existence, is
// the authoritative membership test.
func (s *ProductService) Create(ctx context.Context, vendorID string, in ports.CreateProductInput) (string, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return "", err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	now := time.Now().UTC()
	product := &domain.Product{
		VendorID:    vendorID,
		Category:    in.Category,
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Gallery:     []domain.AssetRef{},
		Enabled:     true,
		Sale:        in.Sale,
		Keywords:    in.Keywords,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if in.Featured != nil {
		product.Featured = *in.Featured
	}
	if in.Enabled != nil {
		product.Enabled = *in.Enabled
	}

	var id string
	err := runLifecycle(ctx, "create_product", []lifecycleStep{
		{"insert_product_record", func(ctx context.Context) error {
			var err error
			id, err = s.products.Insert(ctx, product)
			return err
		}},
		{"register_with_parent", func(ctx context.Context) error {
			return s.vendors.AddChild(ctx, vendorID, domain.KindProducts, id)
		}},
		{"provision_asset_subtree", func(ctx context.Context) error {
			return s.assets.CreateSubtree(ctx, ports.ChildSubtree(vendorID, domain.KindProducts, id))
		}},
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("vendor_id", vendorID).Str("product_id", id).Msg("product created")
	return id, nil
}

func (s *ProductService) Get(ctx context.Context, vendorID, productID string) (*domain.Product, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.products.FindByID(ctx, productID)
}

func (s *ProductService) List(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Product, int64, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, 0, err
	}
	return s.products.ListByVendor(ctx, vendorID, opts)
}

func (s *ProductService) Update(ctx context.Context, vendorID, productID string, upd ports.ProductUpdate) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	if _, err := s.products.FindByID(ctx, productID); err != nil {
		return err
	}
	return s.products.Update(ctx, productID, upd)
}

// Delete removes the product by its (id, vendor_id) compound key, then
// deregisters it from the parent and purges its asset subtree. A delete of
// a missing product and a delete of another vendor's product both fail with
// not-found before anything is mutated.
func (s *ProductService) Delete(ctx context.Context, vendorID, productID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	err := runLifecycle(ctx, "delete_product", []lifecycleStep{
		{"delete_product_record", func(ctx context.Context) error {
			return s.products.DeleteByVendor(ctx, productID, vendorID)
		}},
		{"deregister_from_parent", func(ctx context.Context) error {
			return s.vendors.RemoveChild(ctx, vendorID, domain.KindProducts, productID)
		}},
		{"purge_asset_subtree", func(ctx context.Context) error {
			return s.assets.RemoveSubtree(ctx, ports.ChildSubtree(vendorID, domain.KindProducts, productID))
		}},
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("vendor_id", vendorID).Str("product_id", productID).Msg("product deleted")
	return nil
}

// DeleteAll clears the vendor's product collection: all records, the
// parent's id list, and the kind-level asset subtree, which is recreated
// empty so later creates find it in place.
func (s *ProductService) DeleteAll(ctx context.Context, vendorID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	return runLifecycle(ctx, "clear_products", []lifecycleStep{
		{"delete_product_records", func(ctx context.Context) error {
			return s.products.DeleteAllByVendor(ctx, vendorID)
		}},
		{"reset_parent_list", func(ctx context.Context) error {
			return s.vendors.ClearChildren(ctx, vendorID, domain.KindProducts)
		}},
		{"reset_kind_subtree", func(ctx context.Context) error {
			return s.assets.ResetSubtree(ctx, ports.KindSubtree(vendorID, domain.KindProducts))
		}},
	})
}

// SetImage replaces the product's single-slot wallpaper image. An existing
// file is purged first; a purge failure aborts before the new upload is
// accepted so orphaned files cannot stack up.
func (s *ProductService) SetImage(ctx context.Context, vendorID, productID string, up ports.Upload) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	var steps []lifecycleStep
	if product.Image != "" {
		old := product.Image
		steps = append(steps, lifecycleStep{"purge_previous_image", func(ctx context.Context) error {
			return s.assets.RemoveAsset(ctx, old)
		}})
	}

	var ref domain.AssetRef
	steps = append(steps,
		lifecycleStep{"store_upload", func(ctx context.Context) error {
			var err error
			ref, err = s.assets.StoreUpload(ctx,
				ports.ChildSubtree(vendorID, domain.KindProducts, productID),
				up.Filename, bytes.NewReader(up.Data))
			return err
		}},
		lifecycleStep{"persist_image_ref", func(ctx context.Context) error {
			return s.products.SetImage(ctx, productID, ref)
		}},
	)

	return runLifecycle(ctx, "set_product_image", steps)
}

// ClearImage purges the wallpaper file, if any, and empties the slot.
func (s *ProductService) ClearImage(ctx context.Context, vendorID, productID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	var steps []lifecycleStep
	if product.Image != "" {
		old := product.Image
		steps = append(steps, lifecycleStep{"purge_previous_image", func(ctx context.Context) error {
			return s.assets.RemoveAsset(ctx, old)
		}})
	}
	steps = append(steps, lifecycleStep{"persist_image_ref", func(ctx context.Context) error {
		return s.products.SetImage(ctx, productID, "")
	}})

	return runLifecycle(ctx, "clear_product_image", steps)
}

// CheckGalleryRoom reports ErrGalleryFull when the gallery is at capacity,
// letting the transport reject an append before any bytes are transferred.
func (s *ProductService) CheckGalleryRoom(ctx context.Context, vendorID, productID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if len(product.Gallery) >= s.maxGallery {
		return domain.ErrGalleryFull
	}
	return nil
}

// AppendGalleryImage stores the upload and appends its ref to the ordered
// gallery list. The capacity check runs again under the vendor lock, so two
// concurrent appends cannot both slip past it.
func (s *ProductService) AppendGalleryImage(ctx context.Context, vendorID, productID string, up ports.Upload) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if len(product.Gallery) >= s.maxGallery {
		return domain.ErrGalleryFull
	}

	var ref domain.AssetRef
	return runLifecycle(ctx, "append_gallery_image", []lifecycleStep{
		{"store_upload", func(ctx context.Context) error {
			var err error
			ref, err = s.assets.StoreUpload(ctx,
				ports.ChildSubtree(vendorID, domain.KindProducts, productID),
				galleryFilenamePrefix+up.Filename, bytes.NewReader(up.Data))
			return err
		}},
		{"persist_gallery_ref", func(ctx context.Context) error {
			return s.products.PushGallery(ctx, productID, ref)
		}},
	})
}

// ClearGallery purges every referenced file and resets the list. The first
// purge failure aborts the whole clear, leaving the store partially purged
// and the gallery list untouched.
func (s *ProductService) ClearGallery(ctx context.Context, vendorID, productID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}

	steps := make([]lifecycleStep, 0, len(product.Gallery)+1)
	for i, ref := range product.Gallery {
		ref := ref
		steps = append(steps, lifecycleStep{fmt.Sprintf("purge_gallery_asset_%d", i), func(ctx context.Context) error {
			return s.assets.RemoveAsset(ctx, ref)
		}})
	}
	steps = append(steps, lifecycleStep{"reset_gallery_list", func(ctx context.Context) error {
		return s.products.SetGallery(ctx, productID, []domain.AssetRef{})
	}})

	return runLifecycle(ctx, "clear_product_gallery", steps)
}
