package media

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"report-manager/core/faults"
	"report-manager/core/storage"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Service handles photo evidence uploads and downloads.
type Service struct {
	client storage.Client
	bucket string
	logger *zap.Logger
}

// NewService creates a new media service.
func NewService(client storage.Client, bucket string, logger *zap.Logger) *Service {
	return &Service{client: client, bucket: bucket, logger: logger}
}

// EnsureBucket creates the media bucket if it does not exist yet.
func (s *Service) EnsureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket: %w", err)
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

// Upload stores a photo and returns its opaque reference.
func (s *Service) Upload(ctx context.Context, filename, contentType string, reader io.Reader, size int64) (string, error) {
	if size <= 0 {
		return "", faults.New(faults.KindValidation, "empty upload")
	}

	ext := strings.ToLower(path.Ext(filename))
	ref := "photos/" + uuid.NewString() + ext

	_, err := s.client.PutObject(ctx, s.bucket, ref, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store photo: %w", err)
	}

	s.logger.Info("Photo stored",
		zap.String("photo_ref", ref),
		zap.Int64("size", size),
	)
	return ref, nil
}

// Fetch streams a stored photo by its reference.
func (s *Service) Fetch(ctx context.Context, ref string) (io.ReadCloser, string, error) {
	info, err := s.client.StatObject(ctx, s.bucket, ref, minio.StatObjectOptions{})
	if err != nil {
		return nil, "", faults.Wrap(faults.KindNotFound, err, "photo %s not found", ref)
	}

	body, err := s.client.GetObject(ctx, s.bucket, ref, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", fmt.Errorf("failed to fetch photo: %w", err)
	}
	return body, info.ContentType, nil
}
