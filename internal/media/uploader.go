package media

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/goliatone/go-storefront/catalog"
)

// ProductUpdater applies a change to a stored product and keeps its cached
// snapshot current.
type ProductUpdater interface {
	Update(ctx context.Context, raw string, apply func(current catalog.Product) (catalog.Product, error)) (catalog.Product, error)
}

// Uploader attaches uploaded images to products.
type Uploader struct {
	images   ImageStore
	products ProductUpdater
	logger   *slog.Logger
}

func NewUploader(images ImageStore, products ProductUpdater, logger *slog.Logger) *Uploader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Uploader{images: images, products: products, logger: logger}
}

// AttachProductImage stores the image read from r and points the product at
// it. The previous image is removed once the product is updated.
func (u *Uploader) AttachProductImage(ctx context.Context, rawID, filename string, r io.Reader) (catalog.Product, error) {
	body, ext, err := sniff(r)
	if err != nil {
		return catalog.Product{}, err
	}
	filename = imageName(filename, ext)

	img, err := u.images.Save(ctx, filename, body)
	if err != nil {
		return catalog.Product{}, err
	}

	var previous string
	product, err := u.products.Update(ctx, rawID, func(current catalog.Product) (catalog.Product, error) {
		previous = current.ImageID
		current.Image = img.URL
		current.ImageID = img.ID
		return current, nil
	})
	if err != nil {
		u.discard(ctx, img.ID)
		return catalog.Product{}, err
	}

	if previous != "" && previous != img.ID {
		u.discard(ctx, previous)
	}
	return product, nil
}

// Discard removes a stored image. Failures are logged, not returned.
func (u *Uploader) Discard(ctx context.Context, imageID string) {
	u.discard(ctx, imageID)
}

func (u *Uploader) discard(ctx context.Context, imageID string) {
	if imageID == "" {
		return
	}
	if err := u.images.Remove(ctx, imageID); err != nil {
		u.logger.WarnContext(ctx, "image removal failed", "image_id", imageID, "error", err)
	}
}

// imageName keeps the uploaded base name but takes the extension from the
// detected content type.
func imageName(filename, ext string) string {
	base := filepath.Base(strings.TrimSuffix(filename, filepath.Ext(filename)))
	if base == "" || base == "." || base == string(filepath.Separator) {
		base = "image"
	}
	return base + ext
}
