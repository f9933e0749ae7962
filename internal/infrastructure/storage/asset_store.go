package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/mercatino/vendor-api/internal/core/domain"
	"github.com/mercatino/vendor-api/internal/core/ports"
)

const dirPerm = 0o755

// FileAssetStore keeps uploaded assets in a directory tree under UploadRoot.
// Refs handed back to callers are slash paths relative to ServerRoot, so the
// web server fronting ServerRoot can resolve them directly.
type FileAssetStore struct {
	fs         afero.Fs
	serverRoot string
	uploadRoot string
	// webPrefix is UploadRoot relative to ServerRoot, in slash form.
	webPrefix string
}

// NewFileAssetStore validates that uploadRoot lives under serverRoot and
// creates the upload root if it does not exist yet.
func NewFileAssetStore(fs afero.Fs, serverRoot, uploadRoot string) (*FileAssetStore, error) {
	rel, err := filepath.Rel(serverRoot, uploadRoot)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("upload root %q is not under server root %q", uploadRoot, serverRoot)
	}

	if err := fs.MkdirAll(uploadRoot, dirPerm); err != nil {
		return nil, fmt.Errorf("create upload root: %w", err)
	}

	return &FileAssetStore{
		fs:         fs,
		serverRoot: serverRoot,
		uploadRoot: uploadRoot,
		webPrefix:  filepath.ToSlash(rel),
	}, nil
}

var _ ports.AssetStore = (*FileAssetStore)(nil)

func (s *FileAssetStore) CreateSubtree(ctx context.Context, subtree string) error {
	dir, err := s.subtreePath(subtree)
	if err != nil {
		return err
	}
	return s.fs.MkdirAll(dir, dirPerm)
}

// RemoveSubtree deletes the subtree recursively. Removing a subtree that was
// never provisioned is a no-op.
func (s *FileAssetStore) RemoveSubtree(ctx context.Context, subtree string) error {
	dir, err := s.subtreePath(subtree)
	if err != nil {
		return err
	}
	if err := s.fs.RemoveAll(dir); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *FileAssetStore) ResetSubtree(ctx context.Context, subtree string) error {
	if err := s.RemoveSubtree(ctx, subtree); err != nil {
		return err
	}
	return s.CreateSubtree(ctx, subtree)
}

// StoreUpload writes the file under the subtree and returns its web ref.
// The filename is reduced to its base name so a crafted name cannot place
// the file outside the subtree.
func (s *FileAssetStore) StoreUpload(ctx context.Context, subtree, filename string, r io.Reader) (domain.AssetRef, error) {
	dir, err := s.subtreePath(subtree)
	if err != nil {
		return "", err
	}

	name := filepath.Base(filepath.FromSlash(filename))
	if name == "." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid upload filename %q", filename)
	}

	if err := s.fs.MkdirAll(dir, dirPerm); err != nil {
		return "", err
	}

	f, err := s.fs.Create(filepath.Join(dir, name))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	ref := filepath.ToSlash(filepath.Join(s.webPrefix, filepath.FromSlash(subtree), name))
	return ref, nil
}

// RemoveAsset deletes the file a ref points at. A missing file is tolerated;
// a ref resolving outside the server root is rejected.
func (s *FileAssetStore) RemoveAsset(ctx context.Context, ref domain.AssetRef) error {
	if ref == "" {
		return nil
	}

	full := filepath.Join(s.serverRoot, filepath.FromSlash(ref))
	rel, err := filepath.Rel(s.serverRoot, full)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("asset ref %q escapes server root", ref)
	}

	if err := s.fs.Remove(full); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// subtreePath resolves a relative subtree against the upload root, rejecting
// traversal sequences.
func (s *FileAssetStore) subtreePath(subtree string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(subtree))
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) || filepath.IsAbs(clean) {
		return "", fmt.Errorf("subtree %q escapes upload root", subtree)
	}
	return filepath.Join(s.uploadRoot, clean), nil
}
