package usersvc

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basesvc "videotube/internal/api/base/service"
	usermodels "videotube/internal/api/user/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/utility"
)

// ChannelProfilePipeline builds the channel view of userName as seen by requester.
func ChannelProfilePipeline(userName string, requester primitive.ObjectID) mongo.Pipeline {
	subscriptions := global.MongoDB_ColNames.Subscriptions
	return aggregate.New().
		Match(bson.D{{Key: "userName", Value: strings.ToLower(strings.TrimSpace(userName))}}).
		Lookup(aggregate.LookupSpec{
			From:         subscriptions,
			LocalField:   "_id",
			ForeignField: "channel",
			As:           "subscribers",
		}).
		Lookup(aggregate.LookupSpec{
			From:         subscriptions,
			LocalField:   "_id",
			ForeignField: "subscriber",
			As:           "subscribedTo",
		}).
		AddFields(bson.D{
			{Key: "subscribersCount", Value: aggregate.Size(aggregate.Field("subscribers"))},
			{Key: "channelsSubscribedToCount", Value: aggregate.Size(aggregate.Field("subscribedTo"))},
			{Key: "isSubscribed", Value: aggregate.Cond(
				aggregate.In(requester, aggregate.Field("subscribers.subscriber")),
				true,
				false,
			)},
		}).
		Project(bson.D{
			{Key: "fullName", Value: 1},
			{Key: "userName", Value: 1},
			{Key: "email", Value: 1},
			{Key: "avatar", Value: 1},
			{Key: "coverImage", Value: 1},
			{Key: "subscribersCount", Value: 1},
			{Key: "channelsSubscribedToCount", Value: 1},
			{Key: "isSubscribed", Value: 1},
		}).
		Build()
}

// ChannelProfile returns the channel named userName with its subscription counts and
// whether requester is subscribed to it.
func (s *UserService) ChannelProfile(ctx context.Context, userName string, requester primitive.ObjectID) (usermodels.ChannelProfile, error) {
	if strings.TrimSpace(userName) == "" {
		return usermodels.ChannelProfile{}, common.NewValidationError("Username is missing", nil)
	}

	profile, err := basesvc.AggregateOne[usermodels.ChannelProfile](ctx, s.Collection(), ChannelProfilePipeline(userName, requester))
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return usermodels.ChannelProfile{}, common.NewNotFoundError("Channel does not exist")
		}
		return usermodels.ChannelProfile{}, err
	}
	return profile, nil
}

// WatchHistoryPipeline joins the watched videos of user, each with its owner summary.
// $lookup returns the videos in collection order; callers reorder them.
func WatchHistoryPipeline(user primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "_id", Value: user}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Videos,
			LocalField:   "watchHistory",
			ForeignField: "_id",
			Pipeline: aggregate.New().
				JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
				Build(),
			As: "history",
		}).
		Project(bson.D{
			{Key: "watchHistory", Value: 1},
			{Key: "history", Value: 1},
		}).
		Build()
}

type watchHistoryRow struct {
	WatchHistory []primitive.ObjectID `bson:"watchHistory"`
	History      []videomodels.View   `bson:"history"`
}

// WatchHistory returns the videos actor watched, most recent first. Deleted videos drop out.
func (s *UserService) WatchHistory(ctx context.Context, actor primitive.ObjectID) ([]videomodels.View, error) {
	row, err := basesvc.AggregateOne[watchHistoryRow](ctx, s.Collection(), WatchHistoryPipeline(actor))
	if err != nil {
		return nil, err
	}
	return utility.OrderBy(row.History, row.WatchHistory, func(v videomodels.View) primitive.ObjectID {
		return v.ID
	}), nil
}

// AppendWatchHistory moves video to the front of the user's watch history, removing an
// earlier entry for it so each video appears once.
func (s *UserService) AppendWatchHistory(ctx context.Context, user, video primitive.ObjectID) error {
	return AppendWatchHistory(ctx, s.Collection(), user, video)
}

// AppendWatchHistory is UserService.AppendWatchHistory on a raw users collection.
func AppendWatchHistory(ctx context.Context, users *mongo.Collection, user, video primitive.ObjectID) error {
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "watchHistory", Value: bson.D{{Key: "$concatArrays", Value: bson.A{
				bson.A{video},
				bson.D{{Key: "$filter", Value: bson.D{
					{Key: "input", Value: aggregate.IfNull(aggregate.Field("watchHistory"), bson.A{})},
					{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", video}}}},
				}}},
			}}}},
			{Key: "updatedAt", Value: utility.CurrentTimeInMilli()},
		}}},
	}
	if _, err := users.UpdateOne(ctx, bson.M{"_id": user}, update); err != nil {
		return common.ConvertMongoError(err)
	}
	return nil
}
