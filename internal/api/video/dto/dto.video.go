// Package videodto holds the request bodies of the /videos routes.
package videodto

// ListQuery filters, sorts and pages GET /videos.
type ListQuery struct {
	Query    string `json:"query" query:"query" validate:"omitempty,max=200"`
	UserID   string `json:"userId" query:"userId" validate:"omitempty,objectid"`
	SortBy   string `json:"sortBy" query:"sortBy" validate:"omitempty,oneof=createdAt views duration title"`
	SortType string `json:"sortType" query:"sortType" validate:"omitempty,oneof=asc desc"`
}

// PublishInput is the text part of the multipart upload. The videoFile and thumbnail
// files travel alongside.
type PublishInput struct {
	Title       string  `json:"title" form:"title" validate:"required,max=200,no_xss"`
	Description string  `json:"description" form:"description" validate:"required,max=5000,no_xss"`
	Duration    float64 `json:"duration" form:"duration" validate:"gte=0"` // seconds
}

// UpdateInput changes the title or description; a new thumbnail may travel alongside.
type UpdateInput struct {
	Title       string `json:"title" form:"title" validate:"omitempty,max=200,no_xss"`
	Description string `json:"description" form:"description" validate:"omitempty,max=5000,no_xss"`
}

// DeleteResult reports what a delete removed.
type DeleteResult struct {
	VideoID          string `json:"videoId"`
	LikesRemoved     int64  `json:"likesRemoved"`
	CommentsRemoved  int64  `json:"commentsRemoved"`
	PlaylistsUpdated int64  `json:"playlistsUpdated"`
}
