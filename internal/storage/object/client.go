package object

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/CodeMaverick-143/Project-Manager/config"
	"github.com/CodeMaverick-143/Project-Manager/internal/projects/domain"
)

// ErrDisabled is returned when object storage is not configured.
var ErrDisabled = fmt.Errorf("object storage not configured")

// Client wraps MinIO and serves binary uploads under a single public bucket.
// Uploaded objects are addressed by caller-chosen keys; key uniqueness is the
// caller's responsibility.
type Client struct {
	mc            *minio.Client
	bucket        string
	publicBaseURL string
	enabled       bool
}

// NewClient creates a storage client. With an empty endpoint the client is
// disabled and every operation returns ErrDisabled.
func NewClient(cfg config.StorageConfig) (*Client, error) {
	if cfg.Endpoint == "" {
		return &Client{enabled: false}, nil
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	base := cfg.PublicBaseURL
	if base == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	return &Client{
		mc:            mc,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		enabled:       true,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist (idempotent).
func (c *Client) EnsureBucket(ctx context.Context) error {
	if !c.enabled {
		return ErrDisabled
	}
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{})
}

// Upload stores the object under key and returns its publicly resolvable URL.
func (c *Client) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if !c.enabled {
		return "", &domain.StoreError{Op: "upload object", Err: ErrDisabled}
	}
	_, err := c.mc.PutObject(ctx, c.bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", &domain.StoreError{Op: "upload object", Err: err}
	}
	return fmt.Sprintf("%s/%s/%s", c.publicBaseURL, c.bucket, key), nil
}

// Remove deletes the object for the given public URL. Unknown URLs are
// ignored so cleanup can run over historical records.
func (c *Client) Remove(ctx context.Context, publicURL string) error {
	if !c.enabled {
		return ErrDisabled
	}
	prefix := fmt.Sprintf("%s/%s/", c.publicBaseURL, c.bucket)
	key := strings.TrimPrefix(publicURL, prefix)
	if key == publicURL || key == "" {
		return nil
	}
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}
