// CBarrera | 2026
// cloudinary.go

package upload

import (
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/cbarrera-dev/storefront/internal/config"
)

// CloudinaryUploader stores images on Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
	folder string
}

var _ Uploader = (*CloudinaryUploader)(nil)

func NewCloudinaryUploader(cfg *config.UploadConfig) (*CloudinaryUploader, error) {
	client, err := cloudinary.NewFromURL(cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	client.Config.URL.Secure = true

	return &CloudinaryUploader{
		client: client,
		folder: cfg.Folder,
	}, nil
}

func (c *CloudinaryUploader) Upload(ctx context.Context, localPath string) (*Image, error) {
	resp, err := c.client.Upload.Upload(ctx, localPath, uploader.UploadParams{
		Folder: c.folder,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudinary upload: %w", err)
	}
	if resp.Error.Message != "" {
		return nil, fmt.Errorf("cloudinary upload: %s", resp.Error.Message)
	}

	return &Image{
		PublicID: resp.PublicID,
		URL:      resp.SecureURL,
	}, nil
}

func (c *CloudinaryUploader) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}

	resp, err := c.client.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID: publicID,
	})
	if err != nil {
		return fmt.Errorf("cloudinary destroy: %w", err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("cloudinary destroy: %s", resp.Error.Message)
	}

	return nil
}
