package media

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"videotube/config"
	"videotube/internal/common"
)

// S3Store keeps assets in an S3 bucket, uploading large videos in parts.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store loads the default AWS credential chain and targets the configured bucket.
func NewS3Store(ctx context.Context, cfg *config.Configuration) (*S3Store, error) {
	if strings.TrimSpace(cfg.MediaBucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.S3Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.S3UsePathStyle
		if endpoint := strings.TrimSpace(cfg.S3Endpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	baseURL := cfg.MediaPublicURL
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.MediaBucket, cfg.S3Region)
	}

	return &S3Store{client: client, uploader: uploader, bucket: cfg.MediaBucket, baseURL: baseURL}, nil
}

// Upload streams the asset to a fresh key.
func (s *S3Store) Upload(ctx context.Context, asset Asset) (Ref, error) {
	key := NewKey(asset.Kind, asset.Filename)
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        asset.Reader,
		ContentType: aws.String(asset.ContentType),
	})
	if err != nil {
		return Ref{}, common.NewMediaStoreError("Failed to upload "+string(asset.Kind), err)
	}
	return Ref{PublicID: key, URL: publicURL(s.baseURL, key), Kind: asset.Kind}, nil
}

// Delete removes the object.
func (s *S3Store) Delete(ctx context.Context, publicID string, kind Kind) error {
	if publicID == "" {
		return nil
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return common.NewMediaStoreError("Failed to delete "+string(kind), err)
	}
	return nil
}
