// Package subscriptionsvc implements channel subscriptions.
package subscriptionsvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	subscriptiondto "videotube/internal/api/subscription/dto"
	subscriptionmodels "videotube/internal/api/subscription/models"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/common"
	"videotube/internal/global"
)

// SubscriptionService handles subscriptions between users.
type SubscriptionService struct {
	*basesvc.BaseServiceMongoImpl[subscriptionmodels.Subscription]
	users *mongo.Collection
}

// NewSubscriptionService builds a SubscriptionService from the global registry.
func NewSubscriptionService() (*SubscriptionService, error) {
	names := global.MongoDB_ColNames
	subscriptions, exist := global.RegistryCollections.Get(names.Subscriptions)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Subscriptions, common.ErrNotFound)
	}
	users, exist := global.RegistryCollections.Get(names.Users)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Users, common.ErrNotFound)
	}
	return newSubscriptionService(subscriptions, users), nil
}

func newSubscriptionService(subscriptions, users *mongo.Collection) *SubscriptionService {
	return &SubscriptionService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[subscriptionmodels.Subscription](subscriptions),
		users:                users,
	}
}

// ToggleSubscription subscribes actor to channel, or unsubscribes when already subscribed.
func (s *SubscriptionService) ToggleSubscription(ctx context.Context, channel, actor primitive.ObjectID) (subscriptiondto.ToggleResponse, error) {
	if channel == actor {
		return subscriptiondto.ToggleResponse{}, common.NewValidationError("You cannot subscribe to your own channel", nil)
	}
	exists, err := basesvc.Exists(ctx, s.users, bson.M{"_id": channel})
	if err != nil {
		return subscriptiondto.ToggleResponse{}, err
	}
	if !exists {
		return subscriptiondto.ToggleResponse{}, common.NewNotFoundError("Channel not found")
	}

	result, err := s.Toggle(ctx,
		bson.M{"subscriber": actor, "channel": channel},
		subscriptionmodels.Subscription{Subscriber: actor, Channel: channel},
	)
	if err != nil {
		return subscriptiondto.ToggleResponse{}, err
	}
	return subscriptiondto.ToggleResponse{
		ChannelID:    channel.Hex(),
		Subscribed:   result.State == basesvc.StatePresent,
		Subscription: result.Document,
	}, nil
}

// membersPipeline matches subscriptions on matchField and joins the user on the other
// side (joinField). Email is never projected.
func membersPipeline(matchField string, id primitive.ObjectID, joinField string) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: matchField, Value: id}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Users,
			LocalField:   joinField,
			ForeignField: "_id",
			Pipeline:     aggregate.New().Project(usermodels.SummaryProjection()).Build(),
			As:           "user",
		}).
		Unwind("user").
		Project(bson.D{
			{Key: "_id", Value: aggregate.Field("user._id")},
			{Key: "userName", Value: aggregate.Field("user.userName")},
			{Key: "fullName", Value: aggregate.Field("user.fullName")},
			{Key: "avatar", Value: aggregate.Field("user.avatar")},
			{Key: "subscribedAt", Value: aggregate.Field("createdAt")},
		}).
		Build()
}

// SubscribersPipeline lists the users subscribed to channel.
func SubscribersPipeline(channel primitive.ObjectID) mongo.Pipeline {
	return membersPipeline("channel", channel, "subscriber")
}

// SubscribedChannelsPipeline lists the channels subscriber follows.
func SubscribedChannelsPipeline(subscriber primitive.ObjectID) mongo.Pipeline {
	return membersPipeline("subscriber", subscriber, "channel")
}

// Subscribers returns one page of the subscribers of channel.
func (s *SubscriptionService) Subscribers(ctx context.Context, channel primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[subscriptionmodels.Member], error) {
	return basesvc.AggregateWithPagination[subscriptionmodels.Member](ctx, s.Collection(), SubscribersPipeline(channel), paging)
}

// SubscribedChannels returns one page of the channels subscriber follows.
func (s *SubscriptionService) SubscribedChannels(ctx context.Context, subscriber primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[subscriptionmodels.Member], error) {
	return basesvc.AggregateWithPagination[subscriptionmodels.Member](ctx, s.Collection(), SubscribedChannelsPipeline(subscriber), paging)
}
