// Package videomodels contains the video model and the joined views built on it.
package videomodels

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "videotube/internal/api/user/models"
	"videotube/internal/media"
)

// Video is an uploaded video and its metadata.
type Video struct {
	ID          primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title" index:"text"`
	Description string             `json:"description" bson:"description"`
	VideoFile   media.Ref          `json:"videoFile" bson:"videoFile"`
	Thumbnail   media.Ref          `json:"thumbnail" bson:"thumbnail"`
	Duration    float64            `json:"duration" bson:"duration"` // seconds
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished" default:"true"`
	Owner       primitive.ObjectID `json:"owner" bson:"owner" index:"single:1;compound:owner_createdAt"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt" index:"single:-1;compound:owner_createdAt,order:-1"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// VisibleTo matches the videos viewer may see: published ones and viewer's own.
func VisibleTo(viewer primitive.ObjectID) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "isPublished", Value: true}},
		bson.D{{Key: "owner", Value: viewer}},
	}}}
}

// View is a video with its owner joined in.
type View struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Description string             `json:"description" bson:"description"`
	VideoFile   media.Ref          `json:"videoFile" bson:"videoFile"`
	Thumbnail   media.Ref          `json:"thumbnail" bson:"thumbnail"`
	Duration    float64            `json:"duration" bson:"duration"`
	Views       int64              `json:"views" bson:"views"`
	IsPublished bool               `json:"isPublished" bson:"isPublished"`
	Owner       usermodels.Summary `json:"owner" bson:"owner"`
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`
}

// Detail is a single video as opened by a viewer.
type Detail struct {
	View       `bson:",inline"`
	LikesCount int64 `json:"likesCount" bson:"likesCount"`
	IsLiked    bool  `json:"isLiked" bson:"isLiked"`
}

// ChannelVideo is one of the actor's own videos as listed on the dashboard.
type ChannelVideo struct {
	Video         `bson:",inline"`
	LikesCount    int64 `json:"likesCount" bson:"likesCount"`
	CommentsCount int64 `json:"commentsCount" bson:"commentsCount"`
}
