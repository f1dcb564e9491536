package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// Folder is the object prefix product images are stored under.
const Folder = "catalogo-productos"

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var (
	// ErrUnsupportedType is returned for uploads that are not images.
	ErrUnsupportedType = errors.New("only image uploads are accepted")
	// ErrTooLarge is returned for uploads above MaxImageSize.
	ErrTooLarge = errors.New("image is too large")
	// ErrForeignURL is returned when a URL does not point to an image of this store.
	ErrForeignURL = errors.New("url does not belong to the image store")
)

// ObjectAPI is the subset of the minio client used to store images.
type ObjectAPI interface {
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

// BucketAPI is the subset of the minio client used to prepare the bucket.
type BucketAPI interface {
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
}

// Image describes an upload.
type Image struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ImageStore keeps product images in an S3 compatible bucket.
type ImageStore struct {
	client    ObjectAPI
	bucket    string
	publicURL string
}

// NewImageStore creates an ImageStore. publicURL is the base images are served from.
func NewImageStore(client ObjectAPI, bucket, publicURL string) *ImageStore {
	return &ImageStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

// Upload stores the image under a fresh name and returns its public URL.
func (s *ImageStore) Upload(ctx context.Context, img Image) (string, error) {
	if !strings.HasPrefix(strings.ToLower(img.ContentType), "image/") {
		return "", fmt.Errorf("%w: got %q", ErrUnsupportedType, img.ContentType)
	}
	if img.Size > MaxImageSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, img.Size)
	}

	objectName := path.Join(Folder, uuid.NewString()+strings.ToLower(path.Ext(img.Filename)))
	_, err := s.client.PutObject(ctx, s.bucket, objectName, img.Body, img.Size, minio.PutObjectOptions{
		ContentType: img.ContentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}
	return s.URLFor(objectName), nil
}

// Delete removes the image addressed by url.
func (s *ImageStore) Delete(ctx context.Context, url string) error {
	objectName, err := s.ObjectNameFromURL(url)
	if err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", objectName, err)
	}
	return nil
}

// URLFor returns the public URL of an object.
func (s *ImageStore) URLFor(objectName string) string {
	return s.publicURL + "/" + s.bucket + "/" + objectName
}

// ObjectNameFromURL extracts the object name from a URL produced by URLFor.
func (s *ImageStore) ObjectNameFromURL(url string) (string, error) {
	objectName, ok := strings.CutPrefix(url, s.publicURL+"/"+s.bucket+"/")
	if !ok || !strings.HasPrefix(objectName, Folder+"/") || strings.Contains(objectName, "..") {
		return "", fmt.Errorf("%w: %s", ErrForeignURL, url)
	}
	return objectName, nil
}
