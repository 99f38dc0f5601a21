// Package usermodels contains the user account model and its read views.
package usermodels

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"videotube/internal/media"
)

// User is an account. Every user is also a channel others can subscribe to.
type User struct {
	ID           primitive.ObjectID   `json:"_id,omitempty" bson:"_id,omitempty"`
	UserName     string               `json:"userName" bson:"userName" index:"unique"` // lowercased, trimmed
	Email        string               `json:"email" bson:"email" index:"unique"`       // lowercased
	FullName     string               `json:"fullName" bson:"fullName" index:"single:1"`
	Password     string               `json:"-" bson:"password"` // bcrypt hash
	Avatar       media.Ref            `json:"avatar" bson:"avatar"`
	CoverImage   *media.Ref           `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	WatchHistory []primitive.ObjectID `json:"watchHistory" bson:"watchHistory"` // video ids, most recently watched first
	RefreshToken string               `json:"-" bson:"refreshToken,omitempty"`
	CreatedAt    int64                `json:"createdAt" bson:"createdAt"`
	UpdatedAt    int64                `json:"updatedAt" bson:"updatedAt"`
}

// Summary is the public projection of a user embedded in other views.
type Summary struct {
	ID       primitive.ObjectID `json:"_id" bson:"_id"`
	UserName string             `json:"userName" bson:"userName"`
	FullName string             `json:"fullName" bson:"fullName"`
	Avatar   media.Ref          `json:"avatar" bson:"avatar"`
}

// SummaryProjection is the $project body producing a Summary.
func SummaryProjection() bson.D {
	return bson.D{
		{Key: "userName", Value: 1},
		{Key: "fullName", Value: 1},
		{Key: "avatar", Value: 1},
	}
}

// ChannelProfile is a user seen as a channel by a requester.
type ChannelProfile struct {
	ID                        primitive.ObjectID `json:"_id" bson:"_id"`
	FullName                  string             `json:"fullName" bson:"fullName"`
	UserName                  string             `json:"userName" bson:"userName"`
	Email                     string             `json:"email" bson:"email"`
	Avatar                    media.Ref          `json:"avatar" bson:"avatar"`
	CoverImage                *media.Ref         `json:"coverImage,omitempty" bson:"coverImage,omitempty"`
	SubscribersCount          int64              `json:"subscribersCount" bson:"subscribersCount"`
	ChannelsSubscribedToCount int64              `json:"channelsSubscribedToCount" bson:"channelsSubscribedToCount"`
	IsSubscribed              bool               `json:"isSubscribed" bson:"isSubscribed"`
}
