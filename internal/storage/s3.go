package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/sweetmerry/booking-api/internal/config"
)

// ObjectStore uploads service images to an S3-compatible bucket.
type ObjectStore struct {
	client *s3.Client
	bucket string
}

// New returns nil when no bucket is configured; callers treat a nil store as
// "uploads disabled".
func New(cfg config.StorageConfig) *ObjectStore {
	if cfg.Bucket == "" {
		return nil
	}

	opts := s3.Options{
		Region: cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	return &ObjectStore{
		client: s3.New(opts),
		bucket: cfg.Bucket,
	}
}

// PutImage stores a webp blob under services/<serviceID>.webp and returns the
// object key.
func (s *ObjectStore) PutImage(ctx context.Context, serviceID string, data []byte) (string, error) {
	key := fmt.Sprintf("services/%s.webp", serviceID)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", err
	}

	return key, nil
}
