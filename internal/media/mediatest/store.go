// Package mediatest provides an in-memory media.Store for tests.
package mediatest

import (
	"context"
	"io"
	"sync"

	"videotube/internal/common"
	"videotube/internal/media"
)

// Store records uploads and deletions. Set UploadErr or DeleteErr to make the
// matching call fail; FailDeleteOf fails only deletions of the given public ids.
type Store struct {
	mu sync.Mutex

	Uploaded []media.Ref
	Deleted  []media.Ref

	UploadErr    error
	DeleteErr    error
	FailDeleteOf map[string]bool
}

// New returns an empty Store.
func New() *Store {
	return &Store{FailDeleteOf: map[string]bool{}}
}

// Upload drains the asset and returns a ref under a fresh key.
func (s *Store) Upload(_ context.Context, asset media.Asset) (media.Ref, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UploadErr != nil {
		return media.Ref{}, common.NewMediaStoreError("Failed to upload "+string(asset.Kind), s.UploadErr)
	}
	if asset.Reader != nil {
		_, _ = io.Copy(io.Discard, asset.Reader)
	}
	key := media.NewKey(asset.Kind, asset.Filename)
	ref := media.Ref{PublicID: key, URL: "https://media.test/" + key, Kind: asset.Kind}
	s.Uploaded = append(s.Uploaded, ref)
	return ref, nil
}

// Delete records the deletion unless it is set to fail.
func (s *Store) Delete(_ context.Context, publicID string, kind media.Kind) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return common.NewMediaStoreError("Failed to delete "+string(kind), s.DeleteErr)
	}
	if s.FailDeleteOf[publicID] {
		return common.NewMediaStoreError("Failed to delete "+string(kind), nil)
	}
	s.Deleted = append(s.Deleted, media.Ref{PublicID: publicID, Kind: kind})
	return nil
}

// DeletedIDs returns the public ids deleted so far, in order.
func (s *Store) DeletedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.Deleted))
	for _, ref := range s.Deleted {
		ids = append(ids, ref.PublicID)
	}
	return ids
}
