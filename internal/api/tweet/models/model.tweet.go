// Package tweetmodels contains the tweet model and its listing view.
package tweetmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	usermodels "videotube/internal/api/user/models"
)

// Tweet is a short text post on a channel.
type Tweet struct {
	ID        primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Content   string             `json:"content" bson:"content"`
	Owner     primitive.ObjectID `json:"owner" bson:"owner" index:"compound:owner_createdAt"`
	CreatedAt int64              `json:"createdAt" bson:"createdAt" index:"compound:owner_createdAt,order:-1"`
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`
}

// View is a tweet with its author and like count.
type View struct {
	ID         primitive.ObjectID `json:"_id" bson:"_id"`
	Content    string             `json:"content" bson:"content"`
	Owner      usermodels.Summary `json:"owner" bson:"owner"`
	LikesCount int64              `json:"likesCount" bson:"likesCount"`
	IsLiked    bool               `json:"isLiked" bson:"isLiked"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}
