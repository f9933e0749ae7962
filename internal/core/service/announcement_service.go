package service

import (
	"bytes"
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

// AnnouncementService mirrors the product lifecycle for announcements:
// same parent registration and asset subtree protocols, single image slot,
// no gallery.
type AnnouncementService struct {
	vendors       ports.VendorRepository
	announcements ports.AnnouncementRepository
	assets        ports.AssetStore
	locks         *vendorLocks
	logger        zerolog.Logger
}

func NewAnnouncementService(
	vendors ports.VendorRepository,
	announcements ports.AnnouncementRepository,
	assets ports.AssetStore,
	logger zerolog.Logger,
) *AnnouncementService {
	return &AnnouncementService{
		vendors:       vendors,
		announcements: announcements,
		assets:        assets,
		locks:         newVendorLocks(),
		logger:        logger,
	}
}

func (s *AnnouncementService) Create(ctx context.Context, vendorID string, in ports.CreateAnnouncementInput) (string, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return "", err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	now := time.Now().UTC()
	ann := &domain.Announcement{
		VendorID:  vendorID,
		Text:      in.Text,
		Image:     in.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if in.Featured != nil {
		ann.Featured = *in.Featured
	}

	var id string
	err := runLifecycle(ctx, "create_announcement", []lifecycleStep{
		{"insert_announcement_record", func(ctx context.Context) error {
			var err error
			id, err = s.announcements.Insert(ctx, ann)
			return err
		}},
		{"register_with_parent", func(ctx context.Context) error {
			return s.vendors.AddChild(ctx, vendorID, domain.KindAnnouncements, id)
		}},
		{"provision_asset_subtree", func(ctx context.Context) error {
			return s.assets.CreateSubtree(ctx, ports.ChildSubtree(vendorID, domain.KindAnnouncements, id))
		}},
	})
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("vendor_id", vendorID).Str("announcement_id", id).Msg("announcement created")
	return id, nil
}

func (s *AnnouncementService) Get(ctx context.Context, vendorID, announcementID string) (*domain.Announcement, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, err
	}
	return s.announcements.FindByID(ctx, announcementID)
}

func (s *AnnouncementService) List(ctx context.Context, vendorID string, opts ports.ListOptions) ([]*domain.Announcement, int64, error) {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return nil, 0, err
	}
	return s.announcements.ListByVendor(ctx, vendorID, opts)
}

func (s *AnnouncementService) Update(ctx context.Context, vendorID, announcementID string, upd ports.AnnouncementUpdate) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	if _, err := s.announcements.FindByID(ctx, announcementID); err != nil {
		return err
	}
	return s.announcements.Update(ctx, announcementID, upd)
}

func (s *AnnouncementService) Delete(ctx context.Context, vendorID, announcementID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	err := runLifecycle(ctx, "delete_announcement", []lifecycleStep{
		{"delete_announcement_record", func(ctx context.Context) error {
			return s.announcements.DeleteByVendor(ctx, announcementID, vendorID)
		}},
		{"deregister_from_parent", func(ctx context.Context) error {
			return s.vendors.RemoveChild(ctx, vendorID, domain.KindAnnouncements, announcementID)
		}},
		{"purge_asset_subtree", func(ctx context.Context) error {
			return s.assets.RemoveSubtree(ctx, ports.ChildSubtree(vendorID, domain.KindAnnouncements, announcementID))
		}},
	})
	if err != nil {
		return err
	}

	s.logger.Info().Str("vendor_id", vendorID).Str("announcement_id", announcementID).Msg("announcement deleted")
	return nil
}

func (s *AnnouncementService) DeleteAll(ctx context.Context, vendorID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}

	unlock := s.locks.lock(vendorID)
	defer unlock()

	return runLifecycle(ctx, "clear_announcements", []lifecycleStep{
		{"delete_announcement_records", func(ctx context.Context) error {
			return s.announcements.DeleteAllByVendor(ctx, vendorID)
		}},
		{"reset_parent_list", func(ctx context.Context) error {
			return s.vendors.ClearChildren(ctx, vendorID, domain.KindAnnouncements)
		}},
		{"reset_kind_subtree", func(ctx context.Context) error {
			return s.assets.ResetSubtree(ctx, ports.KindSubtree(vendorID, domain.KindAnnouncements))
		}},
	})
}

func (s *AnnouncementService) SetImage(ctx context.Context, vendorID, announcementID string, up ports.Upload) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	ann, err := s.announcements.FindByID(ctx, announcementID)
	if err != nil {
		return err
	}

	var steps []lifecycleStep
	if ann.Image != "" {
		old := ann.Image
		steps = append(steps, lifecycleStep{"purge_previous_image", func(ctx context.Context) error {
			return s.assets.RemoveAsset(ctx, old)
		}})
	}

	var ref domain.AssetRef
	steps = append(steps,
		lifecycleStep{"store_upload", func(ctx context.Context) error {
			var err error
			ref, err = s.assets.StoreUpload(ctx,
				ports.ChildSubtree(vendorID, domain.KindAnnouncements, announcementID),
				up.Filename, bytes.NewReader(up.Data))
			return err
		}},
		lifecycleStep{"persist_image_ref", func(ctx context.Context) error {
			return s.announcements.SetImage(ctx, announcementID, ref)
		}},
	)

	return runLifecycle(ctx, "set_announcement_image", steps)
}

func (s *AnnouncementService) ClearImage(ctx context.Context, vendorID, announcementID string) error {
	if _, err := s.vendors.FindByID(ctx, vendorID); err != nil {
		return err
	}
	ann, err := s.announcements.FindByID(ctx, announcementID)
	if err != nil {
		return err
	}

	var steps []lifecycleStep
	if ann.Image != "" {
		old := ann.Image
		steps = append(steps, lifecycleStep{"purge_previous_image", func(ctx context.Context) error {
			return s.assets.RemoveAsset(ctx, old)
		}})
	}
	steps = append(steps, lifecycleStep{"persist_image_ref", func(ctx context.Context) error {
		return s.announcements.SetImage(ctx, announcementID, "")
	}})

	return runLifecycle(ctx, "clear_announcement_image", steps)
}
