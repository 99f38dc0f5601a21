// Package playlistdto holds the request bodies of the /playlists routes.
package playlistdto

// CreateInput names and describes a new playlist.
type CreateInput struct {
	Name        string `json:"name" validate:"required,max=150,no_xss"`
	Description string `json:"description" validate:"required,max=2000,no_xss"`
}

// UpdateInput renames or redescribes a playlist. At least one field is required.
type UpdateInput struct {
	Name        string `json:"name" validate:"omitempty,max=150,no_xss"`
	Description string `json:"description" validate:"omitempty,max=2000,no_xss"`
}
