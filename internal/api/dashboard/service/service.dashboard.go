// Package dashboardsvc computes the channel dashboard of the acting user.
package dashboardsvc

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	dashboardmodels "videotube/internal/api/dashboard/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"
)

// DashboardService reads across videos, comments, tweets, likes and subscriptions.
type DashboardService struct {
	*basesvc.BaseServiceMongoImpl[videomodels.Video]
	comments      *mongo.Collection
	tweets        *mongo.Collection
	likes         *mongo.Collection
	subscriptions *mongo.Collection
}

// NewDashboardService builds a DashboardService from the global registry.
func NewDashboardService() (*DashboardService, error) {
	names := global.MongoDB_ColNames
	cols := make(map[string]*mongo.Collection, 5)
	for _, name := range []string{names.Videos, names.Comments, names.Tweets, names.Likes, names.Subscriptions} {
		coll, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %v", name, common.ErrNotFound)
		}
		cols[name] = coll
	}
	return newDashboardService(cols[names.Videos], cols[names.Comments], cols[names.Tweets], cols[names.Likes], cols[names.Subscriptions]), nil
}

func newDashboardService(videos, comments, tweets, likes, subscriptions *mongo.Collection) *DashboardService {
	return &DashboardService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[videomodels.Video](videos),
		comments:             comments,
		tweets:               tweets,
		likes:                likes,
		subscriptions:        subscriptions,
	}
}

// VideoTotalsPipeline counts the videos of owner and sums their views.
func VideoTotalsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Group(nil, bson.D{
			{Key: "totalVideos", Value: aggregate.Sum(1)},
			{Key: "totalViews", Value: aggregate.Sum(aggregate.Field("views"))},
		}).
		Build()
}

// countWhenSet adds 1 for likes whose field is set and 0 otherwise.
func countWhenSet(field string) bson.D {
	return aggregate.Sum(aggregate.Cond(aggregate.IfNull(aggregate.Field(field), false), 1, 0))
}

// LikesReceivedPipeline counts the likes on the given videos, comments and tweets, one
// counter per target type. Every like sets exactly one target, so it adds to one counter.
func LikesReceivedPipeline(videos, comments, tweets []interface{}) mongo.Pipeline {
	targets := bson.A{}
	for _, t := range []struct {
		field string
		ids   []interface{}
	}{{"video", videos}, {"comment", comments}, {"tweet", tweets}} {
		if len(t.ids) > 0 {
			targets = append(targets, bson.D{{Key: t.field, Value: bson.D{{Key: "$in", Value: t.ids}}}})
		}
	}
	return aggregate.New().
		Match(bson.D{{Key: "$or", Value: targets}}).
		Group(nil, bson.D{
			{Key: "videos", Value: countWhenSet("video")},
			{Key: "comments", Value: countWhenSet("comment")},
			{Key: "tweets", Value: countWhenSet("tweet")},
		}).
		Build()
}

// ChannelVideosPipeline lists every video of owner, published or not, newest first,
// with like and comment counts.
func ChannelVideosPipeline(owner primitive.ObjectID) mongo.Pipeline {
	idsOnly := aggregate.New().Project(bson.D{{Key: "_id", Value: 1}}).Build()
	return aggregate.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Likes,
			LocalField:   "_id",
			ForeignField: "video",
			Pipeline:     idsOnly,
			As:           "likes",
		}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Comments,
			LocalField:   "_id",
			ForeignField: "video",
			Pipeline:     idsOnly,
			As:           "comments",
		}).
		AddFields(bson.D{
			{Key: "likesCount", Value: aggregate.Size(aggregate.Field("likes"))},
			{Key: "commentsCount", Value: aggregate.Size(aggregate.Field("comments"))},
		}).
		Project(bson.D{{Key: "likes", Value: 0}, {Key: "comments", Value: 0}}).
		Build()
}

// Stats computes the channel statistics of actor.
func (s *DashboardService) Stats(ctx context.Context, actor primitive.ObjectID) (dashboardmodels.Stats, error) {
	var stats dashboardmodels.Stats

	totals, err := basesvc.AggregateOne[dashboardmodels.VideoTotals](ctx, s.Collection(), VideoTotalsPipeline(actor))
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return stats, err
	}
	stats.TotalVideos = totals.TotalVideos
	stats.TotalViews = totals.TotalViews

	subscribers, err := s.subscriptions.CountDocuments(ctx, bson.M{"channel": actor})
	if err != nil {
		return stats, common.ConvertMongoError(err)
	}
	stats.TotalSubscribers = subscribers

	owned := bson.M{"owner": actor}
	videoIDs, err := s.Collection().Distinct(ctx, "_id", owned)
	if err != nil {
		return stats, common.ConvertMongoError(err)
	}
	commentIDs, err := s.comments.Distinct(ctx, "_id", owned)
	if err != nil {
		return stats, common.ConvertMongoError(err)
	}
	tweetIDs, err := s.tweets.Distinct(ctx, "_id", owned)
	if err != nil {
		return stats, common.ConvertMongoError(err)
	}

	if len(videoIDs)+len(commentIDs)+len(tweetIDs) > 0 {
		likes, err := basesvc.AggregateOne[dashboardmodels.LikesReceived](ctx, s.likes, LikesReceivedPipeline(videoIDs, commentIDs, tweetIDs))
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return stats, err
		}
		stats.Likes = likes
	}
	stats.TotalLikes = stats.Likes.Total()
	return stats, nil
}

// ChannelVideos returns one page of the videos of actor.
func (s *DashboardService) ChannelVideos(ctx context.Context, actor primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[videomodels.ChannelVideo], error) {
	return basesvc.AggregateWithPagination[videomodels.ChannelVideo](ctx, s.Collection(), ChannelVideosPipeline(actor), paging)
}
