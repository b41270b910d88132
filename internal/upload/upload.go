// CBarrera | 2026
// upload.go

package upload

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// Image is a hosted image reference as the upload collaborator returns it.
type Image struct {
	PublicID string `bson:"public_id" json:"public_id"`
	URL      string `bson:"url" json:"url"`
}

// IsPlaceholder reports whether the image is a generated placeholder rather
// than an uploaded asset.
func (i Image) IsPlaceholder() bool {
	return i.PublicID == ""
}

// Uploader is the hosted image service. It accepts a local file path and
// returns a durable public identifier plus URL, or fails.
type Uploader interface {
	Upload(ctx context.Context, localPath string) (*Image, error)
	Destroy(ctx context.Context, publicID string) error
}

// SpoolFile copies a multipart file to a temp path so the uploader can
// consume it. Callers own removal of the returned path.
func SpoolFile(fh *multipart.FileHeader, maxBytes int64) (string, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return "", fmt.Errorf("file %q exceeds %d bytes", fh.Filename, maxBytes)
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + filepath.Ext(fh.Filename)
	dst, err := os.Create(filepath.Join(os.TempDir(), name))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		//nolint:errcheck // cleanup on copy failure
		_ = os.Remove(dst.Name())
		return "", fmt.Errorf("spool upload: %w", err)
	}

	return dst.Name(), nil
}

// SpoolAll spools every file header; the returned cleanup removes whatever
// was written, on both the success and failure paths.
func SpoolAll(
	fhs []*multipart.FileHeader,
	maxBytes int64,
) ([]string, func(), error) {
	paths := make([]string, 0, len(fhs))
	cleanup := func() {
		for _, p := range paths {
			//nolint:errcheck // best-effort temp file removal
			_ = os.Remove(p)
		}
	}

	for _, fh := range fhs {
		path, err := SpoolFile(fh, maxBytes)
		if err != nil {
			cleanup()
			return nil, func() {}, err
		}
		paths = append(paths, path)
	}

	return paths, cleanup, nil
}
