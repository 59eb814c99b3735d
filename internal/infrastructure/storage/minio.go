package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dat-backend/internal/config"
)

// SnapshotStore mirrors last-good CSV exports into an object bucket so a
// fresh instance (empty local fallback dir) can still degrade gracefully
// when the spreadsheet is unreachable.
type SnapshotStore struct {
	client *minio.Client
	bucket string
}

func NewSnapshotStore(cfg config.MinIOConfig) (*SnapshotStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx := context.Background()
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return &SnapshotStore{client: client, bucket: cfg.Bucket}, nil
}

// Put stores a CSV snapshot under snapshots/<name>.
func (s *SnapshotStore) Put(ctx context.Context, name string, data []byte) error {
	key := "snapshots/" + name

	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return fmt.Errorf("snapshot put %q: %w", key, err)
	}
	return nil
}

// Get retrieves a previously stored snapshot.
func (s *SnapshotStore) Get(ctx context.Context, name string) ([]byte, error) {
	key := "snapshots/" + name

	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("snapshot get %q: %w", key, err)
	}
	defer obj.Close()

	var buf bytes.Buffer
	if _, err := buf.ReadFrom(obj); err != nil {
		return nil, fmt.Errorf("snapshot read %q: %w", key, err)
	}
	return buf.Bytes(), nil
}
