// Package videosvc implements video upload, viewing, editing and deletion.
package videosvc

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	basemodels "videotube/internal/api/base/models"
	basesvc "videotube/internal/api/base/service"
	usersvc "videotube/internal/api/user/service"
	videodto "videotube/internal/api/video/dto"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/logger"
	"videotube/internal/media"
	"videotube/internal/utility"
)

// VideoService handles videos. The related collections are touched when a video is
// watched (watch history) or deleted (likes, comments, playlist entries).
type VideoService struct {
	*basesvc.BaseServiceMongoImpl[videomodels.Video]
	users     *mongo.Collection
	likes     *mongo.Collection
	comments  *mongo.Collection
	playlists *mongo.Collection
	store     media.Store
}

// NewVideoService builds a VideoService from the global registry.
func NewVideoService() (*VideoService, error) {
	names := global.MongoDB_ColNames
	cols := make(map[string]*mongo.Collection, 5)
	for _, name := range []string{names.Videos, names.Users, names.Likes, names.Comments, names.Playlists} {
		coll, exist := global.RegistryCollections.Get(name)
		if !exist {
			return nil, fmt.Errorf("failed to get %s collection: %v", name, common.ErrNotFound)
		}
		cols[name] = coll
	}
	return newVideoService(cols[names.Videos], cols[names.Users], cols[names.Likes], cols[names.Comments], cols[names.Playlists], global.MediaStore), nil
}

func newVideoService(videos, users, likes, comments, playlists *mongo.Collection, store media.Store) *VideoService {
	return &VideoService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[videomodels.Video](videos),
		users:                users,
		likes:                likes,
		comments:             comments,
		playlists:            playlists,
		store:                store,
	}
}

// load returns the video or a NotFoundError naming it.
func (s *VideoService) load(ctx context.Context, id primitive.ObjectID) (videomodels.Video, error) {
	video, err := s.FindOneById(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return video, common.NewNotFoundError("Video not found")
	}
	return video, err
}

// loadOwned returns the video after checking that actor owns it.
func (s *VideoService) loadOwned(ctx context.Context, id, actor primitive.ObjectID) (videomodels.Video, error) {
	video, err := s.load(ctx, id)
	if err != nil {
		return video, err
	}
	if err := basesvc.EnsureOwner(actor, video.Owner); err != nil {
		return video, err
	}
	return video, nil
}

// List returns one page of videos matching filter.
func (s *VideoService) List(ctx context.Context, filter ListFilter, paging basemodels.Paging, actor primitive.ObjectID) (*basemodels.PaginateResult[videomodels.View], error) {
	return basesvc.AggregateWithPagination[videomodels.View](ctx, s.Collection(), ListPipeline(filter, actor), paging)
}

// Publish uploads the video file and thumbnail and stores the video as published.
func (s *VideoService) Publish(ctx context.Context, actor primitive.ObjectID, input videodto.PublishInput, videoFile, thumbnail *media.Asset) (videomodels.Video, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" {
		return videomodels.Video{}, common.NewValidationError("Title and description are required", nil)
	}
	if videoFile == nil {
		return videomodels.Video{}, common.NewValidationError("Video file is required", nil)
	}
	if thumbnail == nil {
		return videomodels.Video{}, common.NewValidationError("Thumbnail is required", nil)
	}

	videoRef, err := s.store.Upload(ctx, *videoFile)
	if err != nil {
		return videomodels.Video{}, err
	}
	thumbRef, err := s.store.Upload(ctx, *thumbnail)
	if err != nil {
		s.discard(ctx, videoRef)
		return videomodels.Video{}, err
	}

	created, err := s.InsertOne(ctx, videomodels.Video{
		Title:       title,
		Description: description,
		VideoFile:   videoRef,
		Thumbnail:   thumbRef,
		Duration:    input.Duration,
		IsPublished: true,
		Owner:       actor,
	})
	if err != nil {
		s.discard(ctx, videoRef, thumbRef)
		return videomodels.Video{}, err
	}
	return created, nil
}

func (s *VideoService) discard(ctx context.Context, refs ...media.Ref) {
	for _, ref := range refs {
		if err := s.store.Delete(ctx, ref.PublicID, ref.Kind); err != nil {
			logger.WithModule("video").WithError(err).WithField("public_id", ref.PublicID).Warn("Failed to discard asset")
		}
	}
}

// Watch returns the video for viewer, counts the view and moves the video to the front of
// the viewer's watch history. Unpublished videos are only visible to their owner.
func (s *VideoService) Watch(ctx context.Context, id, viewer primitive.ObjectID) (videomodels.Detail, error) {
	video, err := s.load(ctx, id)
	if err != nil {
		return videomodels.Detail{}, err
	}
	if !video.IsPublished && video.Owner != viewer {
		return videomodels.Detail{}, common.NewNotFoundError("Video not found")
	}

	if _, err := s.Collection().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$inc": bson.M{"views": 1}}); err != nil {
		return videomodels.Detail{}, common.ConvertMongoError(err)
	}
	if err := usersvc.AppendWatchHistory(ctx, s.users, viewer, id); err != nil {
		logger.WithModule("video").WithError(err).WithField("video_id", id.Hex()).Warn("Failed to append watch history")
	}

	detail, err := basesvc.AggregateOne[videomodels.Detail](ctx, s.Collection(), DetailPipeline(id, viewer))
	if errors.Is(err, common.ErrNotFound) {
		return detail, common.NewNotFoundError("Video not found")
	}
	return detail, err
}

// Update changes title and description and optionally replaces the thumbnail. The old
// thumbnail is deleted once the new one is stored.
func (s *VideoService) Update(ctx context.Context, id, actor primitive.ObjectID, input videodto.UpdateInput, thumbnail *media.Asset) (videomodels.Video, error) {
	video, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return videomodels.Video{}, err
	}

	set := bson.M{}
	if title := strings.TrimSpace(input.Title); title != "" {
		set["title"] = title
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		set["description"] = description
	}
	if len(set) == 0 && thumbnail == nil {
		return videomodels.Video{}, common.NewValidationError("Title, description or thumbnail is required", nil)
	}

	var newThumb media.Ref
	if thumbnail != nil {
		newThumb, err = s.store.Upload(ctx, *thumbnail)
		if err != nil {
			return videomodels.Video{}, err
		}
		set["thumbnail"] = newThumb
	}

	updated, err := s.UpdateById(ctx, id, set)
	if err != nil {
		if thumbnail != nil {
			s.discard(ctx, newThumb)
		}
		return videomodels.Video{}, err
	}
	if thumbnail != nil && !video.Thumbnail.IsZero() {
		s.discard(ctx, video.Thumbnail)
	}
	return updated, nil
}

// TogglePublish flips whether the video is listed to others.
func (s *VideoService) TogglePublish(ctx context.Context, id, actor primitive.ObjectID) (videomodels.Video, error) {
	video, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return videomodels.Video{}, err
	}
	return s.UpdateById(ctx, id, bson.M{"isPublished": !video.IsPublished})
}

// Delete removes the video file, then the thumbnail, then the record. The steps are not
// transactional: a failure after the first step returns a DependencyError listing the
// completed steps. Likes, comments and playlist entries are cleaned up afterwards on a
// best-effort basis.
func (s *VideoService) Delete(ctx context.Context, id, actor primitive.ObjectID) (videodto.DeleteResult, error) {
	video, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return videodto.DeleteResult{}, err
	}

	if err := s.store.Delete(ctx, video.VideoFile.PublicID, media.KindVideo); err != nil {
		return videodto.DeleteResult{}, err
	}
	completed := []string{"videoFile"}

	if err := s.store.Delete(ctx, video.Thumbnail.PublicID, media.KindImage); err != nil {
		return videodto.DeleteResult{}, partialDelete(completed, "thumbnail", err)
	}
	completed = append(completed, "thumbnail")

	if err := s.DeleteById(ctx, id); err != nil {
		return videodto.DeleteResult{}, partialDelete(completed, "record", err)
	}

	result := s.cleanup(ctx, id)
	result.VideoID = id.Hex()
	return result, nil
}

func partialDelete(completed []string, failed string, cause error) error {
	return common.NewDependencyError("Video was only partially deleted", map[string]interface{}{
		"partial":   true,
		"completed": completed,
		"failed":    failed,
		"cause":     cause.Error(),
	})
}

// cleanup removes what pointed at a deleted video. Failures are logged, never returned.
func (s *VideoService) cleanup(ctx context.Context, id primitive.ObjectID) videodto.DeleteResult {
	var result videodto.DeleteResult
	log := logger.WithModule("video").WithField("video_id", id.Hex())

	commentIDs, err := s.comments.Distinct(ctx, "_id", bson.M{"video": id})
	if err != nil {
		log.WithError(err).Warn("Failed to list comments of deleted video")
		commentIDs = nil
	}

	likeFilter := bson.M{"video": id}
	if len(commentIDs) > 0 {
		likeFilter = bson.M{"$or": bson.A{
			bson.M{"video": id},
			bson.M{"comment": bson.M{"$in": commentIDs}},
		}}
	}
	if res, err := s.likes.DeleteMany(ctx, likeFilter); err != nil {
		log.WithError(err).Warn("Failed to delete likes of deleted video")
	} else {
		result.LikesRemoved = res.DeletedCount
	}

	if res, err := s.comments.DeleteMany(ctx, bson.M{"video": id}); err != nil {
		log.WithError(err).Warn("Failed to delete comments of deleted video")
	} else {
		result.CommentsRemoved = res.DeletedCount
	}

	now := utility.CurrentTimeInMilli()
	if res, err := s.playlists.UpdateMany(ctx, bson.M{"videos": id}, bson.M{
		"$pull": bson.M{"videos": id},
		"$set":  bson.M{"updatedAt": now},
	}); err != nil {
		log.WithError(err).Warn("Failed to remove deleted video from playlists")
	} else {
		result.PlaylistsUpdated = res.ModifiedCount
	}

	if _, err := s.users.UpdateMany(ctx, bson.M{"watchHistory": id}, bson.M{
		"$pull": bson.M{"watchHistory": id},
	}); err != nil {
		log.WithError(err).Warn("Failed to remove deleted video from watch histories")
	}

	return result
}
