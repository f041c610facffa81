// Package storage provides object storage access for media uploads.
package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"athlos/internal/config"
	"athlos/internal/middleware"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

var (
	client *minio.Client
	bucket string
	useSSL bool
	host   string
)

// InitStorage initializes the object storage client and ensures the media
// bucket exists. A storage failure is not fatal at boot; uploads will fail
// with an internal error until connectivity is restored.
func InitStorage(cfg *config.Config) error {
	c, err := minio.New(cfg.StorageEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.StorageAccessKey, cfg.StorageSecretKey, ""),
		Secure: cfg.StorageUseSSL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize storage client: %w", err)
	}

	ctx := context.Background()
	exists, err := c.BucketExists(ctx, cfg.StorageBucket)
	if err != nil {
		return fmt.Errorf("failed to reach storage server: %w", err)
	}
	if !exists {
		if err := c.MakeBucket(ctx, cfg.StorageBucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create media bucket: %w", err)
		}
		middleware.Logger.Info("Media bucket created", slog.String("bucket", cfg.StorageBucket))
	}

	client = c
	bucket = cfg.StorageBucket
	useSSL = cfg.StorageUseSSL
	host = cfg.StorageEndpoint
	middleware.Logger.Info("Object storage connected", slog.String("endpoint", cfg.StorageEndpoint))
	return nil
}

// GetClient returns the storage client, or nil if storage is unavailable.
func GetClient() *minio.Client {
	return client
}

// ObjectKey builds the storage key for an owner-scoped object. Keys are
// always prefixed with the owner's profile ID so ownership is encoded in the
// key itself.
func ObjectKey(ownerID, filename string) string {
	return ownerID + "/" + strings.TrimPrefix(filename, "/")
}

// OwnerOfKey extracts the owner prefix from an object key, or "" when the
// key has no prefix.
func OwnerOfKey(key string) string {
	owner, _, found := strings.Cut(key, "/")
	if !found {
		return ""
	}
	return owner
}

// Upload stores an object and returns its key.
func Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error) {
	if client == nil {
		return "", fmt.Errorf("storage client is not initialized")
	}
	info, err := client.PutObject(ctx, bucket, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object: %w", err)
	}
	return info.Key, nil
}

// Delete removes an object from the media bucket.
func Delete(ctx context.Context, key string) error {
	if client == nil {
		return fmt.Errorf("storage client is not initialized")
	}
	if err := client.RemoveObject(ctx, bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// PublicURL returns the public access URL for an object key.
func PublicURL(key string) string {
	protocol := "http"
	if useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, host, bucket, key)
}
