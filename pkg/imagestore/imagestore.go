// Package imagestore uploads user images to S3-compatible object storage
// and hands back durable URLs. The rest of the system only ever stores the
// returned URL string.
package imagestore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/sirupsen/logrus"
)

// Store is the image-store collaborator
type Store interface {
	Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error)
}

// Config for the minio-backed store
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	// PublicURL is the externally reachable base for stored objects.
	// Defaults to the endpoint itself.
	PublicURL string
}

// MinioStore implements Store on an S3-compatible backend
type MinioStore struct {
	client *minio.Client
	cfg    Config
}

// NewMinioStore connects to the object store and ensures the bucket exists
func NewMinioStore(ctx context.Context, cfg Config) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	logrus.WithField("bucket", cfg.Bucket).Info("image store ready")
	return &MinioStore{client: client, cfg: cfg}, nil
}

// Upload streams the file into the bucket under a random key and returns
// its public URL.
func (s *MinioStore) Upload(ctx context.Context, reader io.Reader, size int64, filename, contentType string) (string, error) {
	key := uuid.NewString() + strings.ToLower(path.Ext(filename))

	_, err := s.client.PutObject(ctx, s.cfg.Bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", filename, err)
	}

	base := s.cfg.PublicURL
	if base == "" {
		scheme := "http"
		if s.cfg.UseSSL {
			scheme = "https"
		}
		base = fmt.Sprintf("%s://%s", scheme, s.cfg.Endpoint)
	}
	return fmt.Sprintf("%s/%s/%s", strings.TrimRight(base, "/"), s.cfg.Bucket, key), nil
}
