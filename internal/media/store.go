// Package media stores product images in Cloudinary or on local disk.
package media

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/catalog"
)

// Image identifies a stored image. URL is what clients load, ID is what the
// store needs to remove it.
type Image struct {
	URL string
	ID  string
}

// ImageStore persists uploaded images.
type ImageStore interface {
	Save(ctx context.Context, name string, r io.Reader) (Image, error)
	Remove(ctx context.Context, id string) error
}

var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// sniff checks the leading bytes of r for a supported image type. The
// returned reader replays them.
func sniff(r io.Reader) (io.Reader, string, error) {
	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, "", err
	}
	head = head[:n]

	contentType := http.DetectContentType(head)
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	ext, ok := imageExtensions[contentType]
	if !ok || n == 0 {
		return nil, "", catalog.FieldError("invalid image", "product_image", "must be a jpeg, png, gif or webp image")
	}
	return io.MultiReader(bytes.NewReader(head), r), ext, nil
}

func storageError(err error, message string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).
		WithCode(http.StatusBadGateway).
		WithTextCode("MEDIA_ERROR")
}
