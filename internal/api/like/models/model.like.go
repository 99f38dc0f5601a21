// Package likemodels contains the like model. A like points at exactly one video,
// comment or tweet.
package likemodels

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"videotube/internal/common"
)

// TargetType is the kind of entity a like points at.
type TargetType string

const (
	TargetVideo   TargetType = "video"
	TargetComment TargetType = "comment"
	TargetTweet   TargetType = "tweet"
)

// Field is the stored field holding a target of this type.
func (t TargetType) Field() string {
	return string(t)
}

// Target identifies the liked entity.
type Target struct {
	Type TargetType
	ID   primitive.ObjectID
}

// Like records that LikedBy likes one target.
type Like struct {
	ID      primitive.ObjectID  `json:"_id,omitempty" bson:"_id,omitempty"`
	LikedBy primitive.ObjectID  `json:"likedBy" bson:"likedBy" index:"single:1;compound:likedBy_video_unique;compound:likedBy_comment_unique;compound:likedBy_tweet_unique"`
	Video   *primitive.ObjectID `json:"video,omitempty" bson:"video,omitempty" index:"compound:likedBy_video_unique,partial"`
	Comment *primitive.ObjectID `json:"comment,omitempty" bson:"comment,omitempty" index:"compound:likedBy_comment_unique,partial"`
	Tweet   *primitive.ObjectID `json:"tweet,omitempty" bson:"tweet,omitempty" index:"compound:likedBy_tweet_unique,partial"`

	CreatedAt int64 `json:"createdAt" bson:"createdAt"`
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"`
}

// New builds the like of target by likedBy.
func New(target Target, likedBy primitive.ObjectID) Like {
	id := target.ID
	like := Like{LikedBy: likedBy}
	switch target.Type {
	case TargetVideo:
		like.Video = &id
	case TargetComment:
		like.Comment = &id
	case TargetTweet:
		like.Tweet = &id
	}
	return like
}

// Filter matches the like of target by likedBy.
func Filter(target Target, likedBy primitive.ObjectID) bson.M {
	return bson.M{target.Type.Field(): target.ID, "likedBy": likedBy}
}

// Validate rejects likes that do not point at exactly one target.
func (l Like) Validate() error {
	set := 0
	for _, ref := range []*primitive.ObjectID{l.Video, l.Comment, l.Tweet} {
		if ref != nil && !ref.IsZero() {
			set++
		}
	}
	if set != 1 {
		return common.NewValidationError(
			fmt.Sprintf("A like must reference exactly one target, got %d", set),
			nil,
		)
	}
	if l.LikedBy.IsZero() {
		return common.NewValidationError("A like must have a liker", nil)
	}
	return nil
}
