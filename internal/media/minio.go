package media

import (
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"videotube/config"
	"videotube/internal/common"
)

// MinioStore keeps assets in a MinIO (or any S3 compatible) bucket.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore connects to MinIO and ensures the bucket exists.
func NewMinioStore(ctx context.Context, cfg *config.Configuration) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("init minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.MediaBucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MediaBucket, minio.MakeBucketOptions{Region: cfg.S3Region}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	baseURL := cfg.MediaPublicURL
	if baseURL == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MediaBucket)
	}

	return &MinioStore{client: client, bucket: cfg.MediaBucket, baseURL: baseURL}, nil
}

// Upload puts the asset under a fresh key.
func (m *MinioStore) Upload(ctx context.Context, asset Asset) (Ref, error) {
	key := NewKey(asset.Kind, asset.Filename)
	_, err := m.client.PutObject(ctx, m.bucket, key, asset.Reader, asset.Size, minio.PutObjectOptions{
		ContentType: asset.ContentType,
	})
	if err != nil {
		return Ref{}, common.NewMediaStoreError("Failed to upload "+string(asset.Kind), err)
	}
	return Ref{PublicID: key, URL: publicURL(m.baseURL, key), Kind: asset.Kind}, nil
}

// Delete removes the object. Removing a missing object is not an error.
func (m *MinioStore) Delete(ctx context.Context, publicID string, kind Kind) error {
	if publicID == "" {
		return nil
	}
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return common.NewMediaStoreError("Failed to delete "+string(kind), err)
	}
	return nil
}
