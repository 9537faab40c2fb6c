package minio

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"agrovision/internal/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioClient struct {
	client *minio.Client
	config config.MinioConfig
	log    *zap.Logger
}

// NewMinioClient connects, verifies the server answers and creates the
// configured bucket when it is missing.
func NewMinioClient(ctx context.Context, cfg config.MinioConfig, log *zap.Logger) (*MinioClient, error) {
	endpoint := strings.TrimPrefix(cfg.Endpoint, "http://")
	endpoint = strings.TrimPrefix(endpoint, "https://")

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
		Region: cfg.Location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize MinIO client: %w", err)
	}

	mc := &MinioClient{client: client, config: cfg, log: log}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := mc.ensureBucket(checkCtx, cfg.Bucket); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket %s: %w", cfg.Bucket, err)
	}

	log.Info("connected to MinIO", zap.String("endpoint", endpoint), zap.String("bucket", cfg.Bucket))
	return mc, nil
}

func (mc *MinioClient) ensureBucket(ctx context.Context, bucketName string) error {
	exists, err := mc.client.BucketExists(ctx, bucketName)
	if err != nil {
		return fmt.Errorf("error checking bucket existence: %w", err)
	}
	if exists {
		return nil
	}

	if err := mc.client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{Region: mc.config.Location}); err != nil {
		return fmt.Errorf("error creating bucket %s: %w", bucketName, err)
	}
	mc.log.Info("created bucket", zap.String("bucket", bucketName))
	return nil
}

func (mc *MinioClient) Bucket() string {
	return mc.config.Bucket
}

// UploadFile streams reader into the configured bucket. A negative size
// makes the client buffer multipart chunks.
func (mc *MinioClient) UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	_, err := mc.client.PutObject(ctx, mc.config.Bucket, objectName, reader, objectSize,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("failed to upload file %s to bucket %s: %w", objectName, mc.config.Bucket, err)
	}

	mc.log.Debug("uploaded object", zap.String("bucket", mc.config.Bucket), zap.String("object", objectName))
	return nil
}

func (mc *MinioClient) DeleteFile(ctx context.Context, objectName string) error {
	if err := mc.client.RemoveObject(ctx, mc.config.Bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete file %s from bucket %s: %w", objectName, mc.config.Bucket, err)
	}
	return nil
}
