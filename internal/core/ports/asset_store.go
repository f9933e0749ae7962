package ports

import (
	"context"
	"io"
	"path"

	"github.com/mercatino/vendor-api/internal/core/domain"
)

// AssetStore is the hierarchical file storage holding one subtree per
// vendor, per resource kind, per resource id. Subtree paths are relative to
// the store's upload root; refs are web-relative to the file server root.
type AssetStore interface {
	CreateSubtree(ctx context.Context, subtree string) error
	// RemoveSubtree deletes the subtree and everything under it. A missing
	// subtree is not an error.
	RemoveSubtree(ctx context.Context, subtree string) error
	// ResetSubtree removes the subtree and recreates it empty, so later
	// single-child creates find the kind-level directory in place.
	ResetSubtree(ctx context.Context, subtree string) error
	StoreUpload(ctx context.Context, subtree, filename string, r io.Reader) (domain.AssetRef, error)
	// RemoveAsset deletes the file a ref points at. A missing file is not an
	// error; a ref escaping the server root is.
	RemoveAsset(ctx context.Context, ref domain.AssetRef) error
}

// VendorSubtree is the root of a vendor's asset tree.
func VendorSubtree(vendorID string) string {
	return vendorID
}

// KindSubtree is the per-kind directory under a vendor's asset tree.
func KindSubtree(vendorID string, kind domain.ChildKind) string {
	return path.Join(vendorID, kind.String())
}

// ChildSubtree is the per-resource directory holding a child's uploads.
func ChildSubtree(vendorID string, kind domain.ChildKind, childID string) string {
	return path.Join(vendorID, kind.String(), childID)
}
