package cloudinary

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"github.com/dmwangi/sokoni-backend/pkg/config"
	"github.com/dmwangi/sokoni-backend/pkg/logger"
)

// Upload is the result handed back to controllers: the retrievable URL plus
// the asset id needed for later cleanup.
type Upload struct {
	URL      string
	PublicID string
}

// Uploader is the asset-host surface the media controller depends on.
type Uploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (Upload, error)
	Destroy(ctx context.Context, publicID string) error
}

// Client wraps the Cloudinary SDK, constructed once at process start.
type Client struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewClient initializes the Cloudinary client from configured credentials.
func NewClient(ctx context.Context, cfg config.CloudinaryConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.CloudName) == "" || strings.TrimSpace(cfg.APIKey) == "" || strings.TrimSpace(cfg.APISecret) == "" {
		return nil, fmt.Errorf("cloudinary cloud name, api key, and api secret are required")
	}

	cld, err := cloudinary.NewFromParams(cfg.CloudName, cfg.APIKey, cfg.APISecret)
	if err != nil {
		return nil, fmt.Errorf("initializing cloudinary: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "cloudinary client initialized")
	}

	return &Client{cld: cld, folder: cfg.Folder}, nil
}

// Upload stores the image and returns its retrievable URL.
func (c *Client) Upload(ctx context.Context, r io.Reader, filename string) (Upload, error) {
	if r == nil {
		return Upload{}, fmt.Errorf("upload source is required")
	}

	resp, err := c.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		Folder:           c.folder,
		FilenameOverride: filename,
		UniqueFilename:   boolPtr(true),
	})
	if err != nil {
		return Upload{}, fmt.Errorf("uploading asset: %w", err)
	}

	url := resp.SecureURL
	if url == "" {
		url = resp.URL
	}
	return Upload{URL: url, PublicID: resp.PublicID}, nil
}

// Destroy removes a previously uploaded asset.
func (c *Client) Destroy(ctx context.Context, publicID string) error {
	if strings.TrimSpace(publicID) == "" {
		return fmt.Errorf("public id is required")
	}
	_, err := c.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID})
	if err != nil {
		return fmt.Errorf("destroying asset: %w", err)
	}
	return nil
}

func boolPtr(b bool) *bool {
	return &b
}
