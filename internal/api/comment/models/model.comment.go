// Package commentmodels contains the comment model and its listing view.
package commentmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "videotube/internal/api/user/models"
)

// Comment is a text reply under a video.
type Comment struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Video     primitive.ObjectID `json:"video" bson:"video" index:"compound:video_createdAt"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner" index:"single:1"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" index:"compound:video_createdAt,order:-1"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// View is a comment with its author and like count.
type View struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Video      primitive.ObjectID `json:"video" bson:"video"`
	Owner      usermodels.Summary `json:"owner" bson:"owner"`
	LikesCount int64              `json:"likesCount" bson:"likesCount"`
	IsLiked    bool               `json:"isLiked" bson:"isLiked"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
