package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// DiskStore writes images under a local directory served at baseURL.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create %s: %w", dir, err)
	}
	return &DiskStore{dir: dir, baseURL: baseURL}, nil
}

// Dir is the directory the store writes to.
func (s *DiskStore) Dir() string {
	return s.dir
}

func (s *DiskStore) Save(ctx context.Context, name string, r io.Reader) (Image, error) {
	if err := ctx.Err(); err != nil {
		return Image{}, err
	}

	id := uuid.NewString() + filepath.Ext(name)
	f, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return Image{}, storageError(err, "image upload failed")
	}
	tmp := f.Name()

	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return Image{}, storageError(err, "image upload failed")
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return Image{}, storageError(err, "image upload failed")
	}
	if err := os.Rename(tmp, filepath.Join(s.dir, id)); err != nil {
		_ = os.Remove(tmp)
		return Image{}, storageError(err, "image upload failed")
	}

	link, err := url.JoinPath(s.baseURL, id)
	if err != nil {
		return Image{}, storageError(err, "image upload failed")
	}
	return Image{URL: link, ID: id}, nil
}

func (s *DiskStore) Remove(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	if filepath.Base(id) != id {
		return fmt.Errorf("media: invalid image id %q", id)
	}
	err := os.Remove(filepath.Join(s.dir, id))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return storageError(err, "image removal failed")
	}
	return nil
}
