package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"Tunebox/config"
	"Tunebox/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioArea stores files as objects of a single MinIO (S3-compatible) bucket.
type MinioArea struct {
	client     *minio.Client
	bucketName string
}

// NewMinioArea connects to MinIO and creates the bucket when it does not exist yet.
func NewMinioArea(ctx context.Context, cfg *config.Config) (*MinioArea, error) {
	if cfg.MinioEndpoint == "" {
		return nil, fmt.Errorf("MINIO_ENDPOINT is required for the minio storage backend")
	}

	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
		Region: cfg.MinioRegion,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.MinioBucket, err)
	}
	if !exists {
		err = client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{
			Region: cfg.MinioRegion,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.MinioBucket, err)
		}
		logger.Info("Created MinIO bucket", logger.String("bucket", cfg.MinioBucket))
	}

	logger.Info("MinIO file area ready",
		logger.String("endpoint", cfg.MinioEndpoint),
		logger.String("bucket", cfg.MinioBucket))
	return &MinioArea{client: client, bucketName: cfg.MinioBucket}, nil
}

func (m *MinioArea) Location() string {
	return m.bucketName
}

// Save uploads r unless an object with the same name already exists.
func (m *MinioArea) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	opts := minio.PutObjectOptions{ContentType: contentType}
	// If-None-Match: * makes the server reject the put when the key exists.
	opts.SetMatchETagExcept("*")

	if _, err := m.client.PutObject(ctx, m.bucketName, name, r, size, opts); err != nil {
		if isPreconditionFailed(err) {
			return fmt.Errorf("%w: %s", ErrExist, name)
		}
		return fmt.Errorf("failed to upload object %s: %w", name, err)
	}
	return nil
}

func (m *MinioArea) Open(ctx context.Context, name string) (File, *ObjectInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}

	object, err := m.client.GetObject(ctx, m.bucketName, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get object %s: %w", name, err)
	}
	// GetObject is lazy; Stat performs the request.
	stat, err := object.Stat()
	if err != nil {
		object.Close()
		if isNoSuchKey(err) {
			return nil, nil, fmt.Errorf("%w: %s", ErrNotExist, name)
		}
		return nil, nil, fmt.Errorf("failed to stat object %s: %w", name, err)
	}

	return object, &ObjectInfo{
		Key:          stat.Key,
		Size:         stat.Size,
		LastModified: stat.LastModified,
		ContentType:  stat.ContentType,
	}, nil
}

func (m *MinioArea) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	if err := m.client.RemoveObject(ctx, m.bucketName, name, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", name, err)
	}
	return nil
}

func (m *MinioArea) List(ctx context.Context, prefix string) ([]ObjectInfo, *BucketStats, error) {
	stats := &BucketStats{}
	var objects []ObjectInfo

	objectCh := m.client.ListObjects(ctx, m.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return nil, nil, fmt.Errorf("failed to list objects: %w", object.Err)
		}
		stats.add(object.Size, object.LastModified)
		objects = append(objects, ObjectInfo{
			Key:          object.Key,
			Size:         object.Size,
			LastModified: object.LastModified,
			ContentType:  object.ContentType,
		})
	}
	return objects, stats, nil
}

func isNoSuchKey(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}

func isPreconditionFailed(err error) bool {
	resp := minio.ToErrorResponse(err)
	return resp.Code == "PreconditionFailed" || resp.StatusCode == http.StatusPreconditionFailed
}
