// Package subscriptionmodels contains the subscription model and its listing view.
package subscriptionmodels

import (
	"go.mongodb.org/mongo-driver/bson/primitive"

	"videotube/internal/media"
)

// Subscription records that Subscriber follows Channel. Both are user ids.
type Subscription struct {
	ID         primitive.ObjectID `json:"_id,omitempty" bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `json:"subscriber" bson:"subscriber" index:"compound:subscriber_channel_unique"`
	Channel    primitive.ObjectID `json:"channel" bson:"channel" index:"single:1;compound:subscriber_channel_unique"`
	CreatedAt  int64              `json:"createdAt" bson:"createdAt"`
	UpdatedAt  int64              `json:"updatedAt" bson:"updatedAt"`
}

// Member is the other side of a subscription: a subscriber of a channel, or a channel
// someone subscribed to. Email is never exposed.
type Member struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id"`
	UserName     string             `json:"userName" bson:"userName"`
	FullName     string             `json:"fullName" bson:"fullName"`
	Avatar       media.Ref          `json:"avatar" bson:"avatar"`
	SubscribedAt int64              `json:"subscribedAt" bson:"subscribedAt"`
}
