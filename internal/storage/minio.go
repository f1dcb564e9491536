package storage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/iyhunko/product-catalog/internal/config"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// NewMinioClient builds an S3 compatible client for the configured endpoint.
func NewMinioClient(conf config.Storage) (*minio.Client, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", conf.Endpoint, err)
	}
	return client, nil
}

// PublicBaseURL returns the configured public URL or one derived from the endpoint.
func PublicBaseURL(conf config.Storage) string {
	if conf.PublicURL != "" {
		return conf.PublicURL
	}
	scheme := "http"
	if conf.UseSSL {
		scheme = "https"
	}
	return scheme + "://" + conf.Endpoint
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, client BucketAPI, bucket string) error {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
	}
	slog.Info("storage bucket created", slog.String("bucket", bucket))
	return nil
}
