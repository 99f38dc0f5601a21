// Package commentsvc implements comments under videos.
package commentsvc

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
	commentmodels "videotube/internal/api/comment/models"
	usermodels "videotube/internal/api/user/models"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
)

// CommentService handles comments.
type CommentService struct {
	*basesvc.BaseServiceMongoImpl[commentmodels.Comment]
	videos *mongo.Collection
	likes  *mongo.Collection
}

// NewCommentService builds a CommentService from the global registry.
func NewCommentService() (*CommentService, error) {
	names := global.MongoDB_ColNames
	comments, exist := global.RegistryCollections.Get(names.Comments)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Comments, common.ErrNotFound)
	}
	videos, exist := global.RegistryCollections.Get(names.Videos)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Videos, common.ErrNotFound)
	}
	likes, exist := global.RegistryCollections.Get(names.Likes)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Likes, common.ErrNotFound)
	}
	return newCommentService(comments, videos, likes), nil
}

func newCommentService(comments, videos, likes *mongo.Collection) *CommentService {
	return &CommentService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[commentmodels.Comment](comments),
		videos:               videos,
		likes:                likes,
	}
}

// ListPipeline returns the comments of video, newest first, with author and like state
// for viewer.
func ListPipeline(video, viewer primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "video", Value: video}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Likes,
			LocalField:   "_id",
			ForeignField: "comment",
			As:           "likes",
		}).
		AddFields(bson.D{
			{Key: "likesCount", Value: aggregate.Size(aggregate.Field("likes"))},
			{Key: "isLiked", Value: aggregate.Cond(aggregate.In(viewer, aggregate.Field("likes.likedBy")), true, false)},
		}).
		Project(bson.D{{Key: "likes", Value: 0}}).
		Build()
}

func (s *CommentService) ensureVideo(ctx context.Context, video primitive.ObjectID) error {
	exists, err := basesvc.Exists(ctx, s.videos, bson.M{"_id": video})
	if err != nil {
		return err
	}
	if !exists {
		return common.NewNotFoundError("Video not found")
	}
	return nil
}

// List returns one page of the comments of video.
func (s *CommentService) List(ctx context.Context, video, viewer primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[commentmodels.View], error) {
	if err := s.ensureVideo(ctx, video); err != nil {
		return nil, err
	}
	return basesvc.AggregateWithPagination[commentmodels.View](ctx, s.Collection(), ListPipeline(video, viewer), paging)
}

// Add stores a comment by actor under video.
func (s *CommentService) Add(ctx context.Context, video, actor primitive.ObjectID, content string) (commentmodels.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return commentmodels.Comment{}, common.NewValidationError("Comment content is required", nil)
	}
	if err := s.ensureVideo(ctx, video); err != nil {
		return commentmodels.Comment{}, err
	}
	return s.InsertOne(ctx, commentmodels.Comment{Content: content, Video: video, Owner: actor})
}

func (s *CommentService) loadOwned(ctx context.Context, id, actor primitive.ObjectID) (commentmodels.Comment, error) {
	comment, err := s.FindOneById(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return comment, common.NewNotFoundError("Comment not found")
	}
	if err != nil {
		return comment, err
	}
	return comment, basesvc.EnsureOwner(actor, comment.Owner)
}

// Update replaces the content of a comment owned by actor.
func (s *CommentService) Update(ctx context.Context, id, actor primitive.ObjectID, content string) (commentmodels.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return commentmodels.Comment{}, common.NewValidationError("Comment content is required", nil)
	}
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return commentmodels.Comment{}, err
	}
	return s.UpdateById(ctx, id, bson.M{"content": content})
}

// Delete removes a comment owned by actor and, best effort, its likes.
func (s *CommentService) Delete(ctx context.Context, id, actor primitive.ObjectID) (commentmodels.Comment, error) {
	comment, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return commentmodels.Comment{}, err
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return commentmodels.Comment{}, err
	}
	if _, err := s.likes.DeleteMany(ctx, bson.M{"comment": id}); err != nil {
		logger.WithModule("comment").WithError(err).WithField("comment_id", id.Hex()).Warn("Failed to delete likes of deleted comment")
	}
	return comment, nil
}
