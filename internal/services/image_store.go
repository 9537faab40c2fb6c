package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ImageStore persists uploaded crop photos and returns the path recorded on
// the diagnosis.
type ImageStore interface {
	Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error)
	Delete(ctx context.Context, imagePath string) error
}

// objectName keeps only the extension of the client's filename; the rest is
// generated so uploads never collide or escape the target directory.
func objectName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if len(ext) > 10 {
		ext = ""
	}
	return uuid.NewString() + ext
}

type LocalImageStore struct {
	dir string
}

func NewLocalImageStore(dir string) *LocalImageStore {
	return &LocalImageStore{dir: dir}
}

func (s *LocalImageStore) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	target := filepath.Join(s.dir, objectName(filename))
	file, err := os.OpenFile(target, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	if _, err := io.Copy(file, r); err != nil {
		file.Close()
		os.Remove(target)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(target)
		return "", fmt.Errorf("failed to close upload file: %w", err)
	}
	return filepath.ToSlash(target), nil
}

func (s *LocalImageStore) Delete(ctx context.Context, imagePath string) error {
	if err := os.Remove(filepath.FromSlash(imagePath)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload file: %w", err)
	}
	return nil
}

// ObjectUploader is implemented by minio.MinioClient.
type ObjectUploader interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error
	DeleteFile(ctx context.Context, objectName string) error
	Bucket() string
}

// MinioImageStore files photos under a per-day prefix and records them as
// "<bucket>/<object>".
type MinioImageStore struct {
	uploader ObjectUploader
	now      func() time.Time
}

func NewMinioImageStore(uploader ObjectUploader) *MinioImageStore {
	return &MinioImageStore{uploader: uploader, now: time.Now}
}

func (s *MinioImageStore) Save(ctx context.Context, filename, contentType string, size int64, r io.Reader) (string, error) {
	object := path.Join("diagnoses", s.now().UTC().Format("2006/01/02"), objectName(filename))
	if err := s.uploader.UploadFile(ctx, object, r, size, contentType); err != nil {
		return "", err
	}
	return s.uploader.Bucket() + "/" + object, nil
}

func (s *MinioImageStore) Delete(ctx context.Context, imagePath string) error {
	object := strings.TrimPrefix(imagePath, s.uploader.Bucket()+"/")
	return s.uploader.DeleteFile(ctx, object)
}
