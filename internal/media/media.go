// Package media stores uploaded avatars, cover images, videos and thumbnails in an
// object store and hands back stable references to them.
package media

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"videotube/config"
	"videotube/internal/common"
	"videotube/internal/utility"
)

// Kind is the class of an asset.
type Kind string

const (
	KindImage Kind = "image"
	KindVideo Kind = "video"
)

// Ref points at a stored asset. PublicID is the object key.
type Ref struct {
	PublicID string `json:"publicId" bson:"publicId"`
	URL      string `json:"url" bson:"url"`
	Kind     Kind   `json:"kind" bson:"kind"`
}

// IsZero reports whether the reference points at nothing.
func (r Ref) IsZero() bool {
	return r.PublicID == "" && r.URL == ""
}

// Asset is an upload in flight.
type Asset struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
	Kind        Kind
}

// Store uploads and deletes assets.
type Store interface {
	Upload(ctx context.Context, asset Asset) (Ref, error)
	Delete(ctx context.Context, publicID string, kind Kind) error
}

// Limits caps the size of uploads per kind, in bytes.
type Limits struct {
	MaxImage int64
	MaxVideo int64
}

// LimitsFromConfig reads the per-kind size caps.
func LimitsFromConfig(cfg *config.Configuration) Limits {
	return Limits{
		MaxImage: int64(cfg.MediaMaxImageMB) * 1024 * 1024,
		MaxVideo: int64(cfg.MediaMaxVideoMB) * 1024 * 1024,
	}
}

// Validate checks that the asset's content type matches its kind and that it fits the limits.
func (l Limits) Validate(field string, asset Asset) error {
	contentType := strings.ToLower(strings.TrimSpace(asset.ContentType))
	if !strings.HasPrefix(contentType, string(asset.Kind)+"/") {
		return common.NewValidationError(
			fmt.Sprintf("%s must be a %s file", field, asset.Kind),
			map[string]string{"field": field, "contentType": asset.ContentType},
		)
	}

	max := l.MaxImage
	if asset.Kind == KindVideo {
		max = l.MaxVideo
	}
	if max > 0 && asset.Size > max {
		return common.NewValidationError(
			fmt.Sprintf("%s exceeds %s", field, utility.FormatBytes(uint64(max))),
			map[string]string{"field": field},
		)
	}
	return nil
}

// NewKey returns a fresh object key "<kind>/<uuid><ext>".
func NewKey(kind Kind, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return fmt.Sprintf("%s/%s%s", kind, uuid.NewString(), ext)
}

// publicURL joins base and key, or returns key when there is no base.
func publicURL(base, key string) string {
	base = strings.TrimSuffix(base, "/")
	if base == "" {
		return key
	}
	return base + "/" + key
}

// NewStore builds the store selected by MEDIA_DRIVER.
func NewStore(ctx context.Context, cfg *config.Configuration) (Store, error) {
	switch cfg.MediaDriver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "minio", "":
		return NewMinioStore(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown media driver %q", cfg.MediaDriver)
	}
}
