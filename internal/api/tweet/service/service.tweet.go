// Package tweetsvc implements channel tweets.
package tweetsvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	tweetmodels "videotube/internal/api/tweet/models"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
)

// TweetService handles tweets.
type TweetService struct {
	*basesvc.BaseServiceMongoImpl[tweetmodels.Tweet]
	users *mongo.Collection
	likes *mongo.Collection
}

// NewTweetService builds a TweetService from the global registry.
func NewTweetService() (*TweetService, error) {
	names := global.MongoDB_ColNames
	cols := make(map[string]*mongo.Collection, 3)
	for _, name := range []string{names.Tweets, names.Users, names.Likes} {
		coll, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %v", name, common.ErrNotFound)
		}
		cols[name] = coll
	}
	return newTweetService(cols[names.Tweets], cols[names.Users], cols[names.Likes]), nil
}

func newTweetService(tweets, users, likes *mongo.Collection) *TweetService {
	return &TweetService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[tweetmodels.Tweet](tweets),
		users:                users,
		likes:                likes,
	}
}

// UserTweetsPipeline lists the tweets of owner, newest first, with author and like state
// for viewer.
func UserTweetsPipeline(owner, viewer primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Likes,
			LocalField:   "_id",
			ForeignField: "tweet",
			As:           "likes",
		}).
		AddFields(bson.D{
			{Key: "likesCount", Value: aggregate.Size(aggregate.Field("likes"))},
			{Key: "isLiked", Value: aggregate.Cond(aggregate.In(viewer, aggregate.Field("likes.likedBy")), true, false)},
		}).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Build()
}

func normalizeContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", common.NewValidationError("Tweet content is required", nil)
	}
	return content, nil
}

// Create posts a tweet by actor.
func (s *TweetService) Create(ctx context.Context, actor primitive.ObjectID, content string) (tweetmodels.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return tweetmodels.Tweet{}, err
	}
	return s.InsertOne(ctx, tweetmodels.Tweet{Content: content, Owner: actor})
}

// ListByUser returns one page of the tweets of owner. The owner must exist.
func (s *TweetService) ListByUser(ctx context.Context, owner, viewer primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[tweetmodels.View], error) {
	exists, err := basesvc.Exists(ctx, s.users, bson.M{"_id": owner})
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, common.NewNotFoundError("User not found")
	}
	return basesvc.AggregateWithPagination[tweetmodels.View](ctx, s.Collection(), UserTweetsPipeline(owner, viewer), paging)
}

func (s *TweetService) loadOwned(ctx context.Context, id, actor primitive.ObjectID) (tweetmodels.Tweet, error) {
	tweet, err := s.FindOneById(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return tweet, common.NewNotFoundError("Tweet not found")
	}
	if err != nil {
		return tweet, err
	}
	return tweet, basesvc.EnsureOwner(actor, tweet.Owner)
}

// Update replaces the content of a tweet owned by actor.
func (s *TweetService) Update(ctx context.Context, id, actor primitive.ObjectID, content string) (tweetmodels.Tweet, error) {
	content, err := normalizeContent(content)
	if err != nil {
		return tweetmodels.Tweet{}, err
	}
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return tweetmodels.Tweet{}, err
	}
	return s.UpdateById(ctx, id, bson.M{"content": content})
}

// Delete removes a tweet owned by actor and, best effort, its likes.
func (s *TweetService) Delete(ctx context.Context, id, actor primitive.ObjectID) (tweetmodels.Tweet, error) {
	tweet, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return tweetmodels.Tweet{}, err
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return tweetmodels.Tweet{}, err
	}
	if _, err := s.likes.DeleteMany(ctx, bson.M{"tweet": id}); err != nil {
		logger.WithModule("tweet").WithError(err).WithField("tweet_id", id.Hex()).Warn("Failed to delete likes of deleted tweet")
	}
	return tweet, nil
}
