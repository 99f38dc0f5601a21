// Package likesvc implements likes on videos, comments and tweets.
package likesvc

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/aggregate"
	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	likedto "videotube/internal/api/like/dto"
	likemodels "videotube/internal/api/like/models"
	usermodels "videotube/internal/api/user/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"
)

// LikeService handles likes. targets holds the collection of each likeable type.
type LikeService struct {
	*basesvc.BaseServiceMongoImpl[likemodels.Like]
	targets map[likemodels.TargetType]*mongo.Collection
}

// NewLikeService builds a LikeService from the global registry.
func NewLikeService() (*LikeService, error) {
	names := global.MongoDB_ColNames
	cols := make(map[string]*mongo.Collection, 4)
	for _, name := range []string{names.Likes, names.Videos, names.Comments, names.Tweets} {
		coll, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %v", name, common.ErrNotFound)
		}
		cols[name] = coll
	}
	return newLikeService(cols[names.Likes], cols[names.Videos], cols[names.Comments], cols[names.Tweets]), nil
}

func newLikeService(likes, videos, comments, tweets *mongo.Collection) *LikeService {
	return &LikeService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[likemodels.Like](likes),
		targets: map[likemodels.TargetType]*mongo.Collection{
			likemodels.TargetVideo:   videos,
			likemodels.TargetComment: comments,
			likemodels.TargetTweet:   tweets,
		},
	}
}

// ToggleLike likes target for actor, or removes the like when there is one. The target
// must exist.
func (s *LikeService) ToggleLike(ctx context.Context, target likemodels.Target, actor primitive.ObjectID) (likedto.ToggleResponse, error) {
	col, ok := s.targets[target.Type]
	if !ok {
		return likedto.ToggleResponse{}, common.NewValidationError(fmt.Sprintf("Unknown like target %q", target.Type), nil)
	}

	like := likemodels.New(target, actor)
	if err := like.Validate(); err != nil {
		return likedto.ToggleResponse{}, err
	}

	filter := bson.D{{Key: "_id", Value: target.ID}}
	if target.Type == likemodels.TargetVideo {
		filter = append(filter, videomodels.VisibleTo(actor)...)
	}
	exists, err := basesvc.Exists(ctx, col, filter)
	if err != nil {
		return likedto.ToggleResponse{}, err
	}
	if !exists {
		return likedto.ToggleResponse{}, common.NewNotFoundError(targetLabel(target.Type) + " not found")
	}

	result, err := s.Toggle(ctx, likemodels.Filter(target, actor), like)
	if err != nil {
		return likedto.ToggleResponse{}, err
	}
	return likedto.ToggleResponse{
		TargetType: target.Type,
		TargetID:   target.ID.Hex(),
		Liked:      result.State == basesvc.StatePresent,
		Like:       result.Document,
	}, nil
}

func targetLabel(t likemodels.TargetType) string {
	s := string(t)
	if s == "" {
		return "Target"
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// LikedVideosPipeline returns the videos actor liked, most recently liked first. Likes
// whose video no longer exists, or was unpublished by another owner, are dropped by the
// unwind.
func LikedVideosPipeline(actor primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{
			{Key: "likedBy", Value: actor},
			{Key: "video", Value: aggregate.Exists()},
		}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Videos,
			LocalField:   "video",
			ForeignField: "_id",
			Pipeline: aggregate.New().
				Match(videomodels.VisibleTo(actor)).
				JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
				Build(),
			As: "video",
		}).
		Unwind("video").
		ReplaceRoot("video").
		Build()
}

// LikedVideos returns one page of the videos actor liked.
func (s *LikeService) LikedVideos(ctx context.Context, actor primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[videomodels.View], error) {
	return basesvc.AggregateWithPagination[videomodels.View](ctx, s.Collection(), LikedVideosPipeline(actor), paging)
}
