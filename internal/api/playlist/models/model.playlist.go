// Package playlistmodels contains the playlist model and its views.
package playlistmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "videotube/internal/api/user/models"
	videomodels "videotube/internal/api/video/models"
)

// Playlist is an ordered list of distinct videos owned by one user.
type Playlist struct {
	ID          primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Owner       primitive.ObjectID   `json:"owner" bson:"owner" index:"single:1"`
	Videos      []primitive.ObjectID `json:"videos" bson:"videos" index:"single:1"` // insertion order, no duplicates
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}

// Summary is a playlist as listed on its owner's channel, with its published videos.
type Summary struct {
	ID          primitive.ObjectID  `json:"_id" bson:"_id"`
	Name        string              `json:"name" bson:"name"`
	Description string              `json:"description" bson:"description"`
	Owner       primitive.ObjectID  `json:"owner" bson:"owner"`
	TotalVideos int64               `json:"totalVideos" bson:"totalVideos"`
	Videos      []videomodels.Video `json:"videos" bson:"videoList"`
	CreatedAt   int64               `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64               `json:"updatedAt" bson:"updatedAt"`
}

// Detail is one playlist with its owner and videos joined, videos in playlist order.
type Detail struct {
	ID          primitive.ObjectID   `json:"_id" bson:"_id"`
	Name        string               `json:"name" bson:"name"`
	Description string               `json:"description" bson:"description"`
	Owner       usermodels.Summary   `json:"owner" bson:"owner"`
	VideoIDs    []primitive.ObjectID `json:"-" bson:"videos"`
	TotalVideos int64                `json:"totalVideos" bson:"totalVideos"`
	Videos      []videomodels.View   `json:"videos" bson:"videoList"`
	CreatedAt   int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64                `json:"updatedAt" bson:"updatedAt"`
}
