// Package playlistsvc implements user playlists.
package playlistsvc

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
	playlistdto "videotube/internal/api/playlist/dto"
	playlistmodels "videotube/internal/api/playlist/models"
	usermodels "videotube/internal/api/user/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
	"videotube/internal/global"
	"videotube/internal/utility"
)

// PlaylistService handles playlists.
type PlaylistService struct {
	*basesvc.BaseServiceMongoImpl[playlistmodels.Playlist]
	videos *mongo.Collection
}

// NewPlaylistService builds a PlaylistService from the global registry.
func NewPlaylistService() (*PlaylistService, error) {
	names := global.MongoDB_ColNames
	playlists, exist := global.RegistryCollections.Get(names.Playlists)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Playlists, common.ErrNotFound)
	}
	videos, exist := global.RegistryCollections.Get(names.Videos)
	if !exist {
		return nil, fmt.Errorf("failed to get %s collection: %v", names.Videos, common.ErrNotFound)
	}
	return newPlaylistService(playlists, videos), nil
}

func newPlaylistService(playlists, videos *mongo.Collection) *PlaylistService {
	return &PlaylistService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[playlistmodels.Playlist](playlists),
		videos:               videos,
	}
}

// UserPlaylistsPipeline lists the playlists of owner with their video count and the
// published videos they hold.
func UserPlaylistsPipeline(owner primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "owner", Value: owner}}).
		Sort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		AddFields(bson.D{{Key: "totalVideos", Value: aggregate.Size(aggregate.IfNull(aggregate.Field("videos"), bson.A{}))}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Videos,
			LocalField:   "videos",
			ForeignField: "_id",
			Pipeline: aggregate.New().
				Match(bson.D{{Key: "isPublished", Value: true}}).
				Build(),
			As: "videoList",
		}).
		Build()
}

// DetailPipeline joins the owner and videos of one playlist as seen by viewer. The
// lookup does not keep playlist order; Get restores it.
func DetailPipeline(id, viewer primitive.ObjectID) mongo.Pipeline {
	return aggregate.New().
		Match(bson.D{{Key: "_id", Value: id}}).
		JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
		AddFields(bson.D{{Key: "totalVideos", Value: aggregate.Size(aggregate.IfNull(aggregate.Field("videos"), bson.A{}))}}).
		Lookup(aggregate.LookupSpec{
			From:         global.MongoDB_ColNames.Videos,
			LocalField:   "videos",
			ForeignField: "_id",
			Pipeline: aggregate.New().
				Match(videomodels.VisibleTo(viewer)).
				JoinOne(global.MongoDB_ColNames.Users, "owner", "owner", usermodels.SummaryProjection()).
				Build(),
			As: "videoList",
		}).
		Build()
}

// Create stores an empty playlist owned by actor.
func (s *PlaylistService) Create(ctx context.Context, actor primitive.ObjectID, input playlistdto.CreateInput) (playlistmodels.Playlist, error) {
	name := strings.TrimSpace(input.Name)
	description := strings.TrimSpace(input.Description)
	if name == "" || description == "" {
		return playlistmodels.Playlist{}, common.NewValidationError("Name and description are required", nil)
	}
	return s.InsertOne(ctx, playlistmodels.Playlist{
		Name:        name,
		Description: description,
		Owner:       actor,
		Videos:      []primitive.ObjectID{},
	})
}

// Get returns one playlist with its videos in playlist order.
func (s *PlaylistService) Get(ctx context.Context, id, viewer primitive.ObjectID) (playlistmodels.Detail, error) {
	detail, err := basesvc.AggregateOne[playlistmodels.Detail](ctx, s.Collection(), DetailPipeline(id, viewer))
	if errors.Is(err, common.ErrNotFound) {
		return detail, common.NewNotFoundError("Playlist not found")
	}
	if err != nil {
		return detail, err
	}
	detail.Videos = utility.OrderBy(detail.Videos, detail.VideoIDs, func(v videomodels.View) primitive.ObjectID {
		return v.ID
	})
	return detail, nil
}

// ListByUser returns one page of the playlists of owner.
func (s *PlaylistService) ListByUser(ctx context.Context, owner primitive.ObjectID, paging basemodels.Paging) (*basemodels.PaginateResult[playlistmodels.Summary], error) {
	return basesvc.AggregateWithPagination[playlistmodels.Summary](ctx, s.Collection(), UserPlaylistsPipeline(owner), paging)
}

func (s *PlaylistService) loadOwned(ctx context.Context, id, actor primitive.ObjectID) (playlistmodels.Playlist, error) {
	playlist, err := s.FindOneById(ctx, id)
	if errors.Is(err, common.ErrNotFound) {
		return playlist, common.NewNotFoundError("Playlist not found")
	}
	if err != nil {
		return playlist, err
	}
	return playlist, basesvc.EnsureOwner(actor, playlist.Owner)
}

// Update renames or redescribes a playlist owned by actor.
func (s *PlaylistService) Update(ctx context.Context, id, actor primitive.ObjectID, input playlistdto.UpdateInput) (playlistmodels.Playlist, error) {
	set := bson.M{}
	if name := strings.TrimSpace(input.Name); name != "" {
		set["name"] = name
	}
	if description := strings.TrimSpace(input.Description); description != "" {
		set["description"] = description
	}
	if len(set) == 0 {
		return playlistmodels.Playlist{}, common.NewValidationError("Name or description is required", nil)
	}
	if _, err := s.loadOwned(ctx, id, actor); err != nil {
		return playlistmodels.Playlist{}, err
	}
	return s.UpdateById(ctx, id, set)
}

// Delete removes a playlist owned by actor. The videos are untouched.
func (s *PlaylistService) Delete(ctx context.Context, id, actor primitive.ObjectID) (playlistmodels.Playlist, error) {
	playlist, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return playlistmodels.Playlist{}, err
	}
	if err := s.DeleteById(ctx, id); err != nil {
		return playlistmodels.Playlist{}, err
	}
	return playlist, nil
}

// AddVideo appends video to a playlist owned by actor. A video appears at most once.
func (s *PlaylistService) AddVideo(ctx context.Context, id, video, actor primitive.ObjectID) (playlistmodels.Playlist, error) {
	playlist, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return playlistmodels.Playlist{}, err
	}
	if utility.Contains(playlist.Videos, video) {
		return playlistmodels.Playlist{}, common.NewConflictError("Video already exists in the playlist")
	}
	filter := append(bson.D{{Key: "_id", Value: video}}, videomodels.VisibleTo(actor)...)
	exists, err := basesvc.Exists(ctx, s.videos, filter)
	if err != nil {
		return playlistmodels.Playlist{}, err
	}
	if !exists {
		return playlistmodels.Playlist{}, common.NewNotFoundError("Video not found")
	}
	return s.UpdateById(ctx, id, basesvc.UpdateData{AddToSet: map[string]any{"videos": video}})
}

// RemoveVideo takes video out of a playlist owned by actor.
func (s *PlaylistService) RemoveVideo(ctx context.Context, id, video, actor primitive.ObjectID) (playlistmodels.Playlist, error) {
	playlist, err := s.loadOwned(ctx, id, actor)
	if err != nil {
		return playlistmodels.Playlist{}, err
	}
	if !utility.Contains(playlist.Videos, video) {
		return playlistmodels.Playlist{}, common.NewNotFoundError("Video not found in the playlist")
	}
	return s.UpdateById(ctx, id, basesvc.UpdateData{Pull: map[string]any{"videos": video}})
}
