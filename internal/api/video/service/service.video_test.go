package videosvc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	videodto "videotube/internal/api/video/dto"
	"videotube/internal/common"
	"videotube/internal/media"
	"videotube/internal/media/mediatest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func newTestService(mt *mtest.T, store media.Store) *VideoService {
	return newVideoService(mt.Coll, mt.Coll, mt.Coll, mt.Coll, mt.Coll, store)
}

func storedVideo(id, owner primitive.ObjectID, published bool) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "title", Value: "Go in 100 seconds"},
		{Key: "description", Value: "quick tour"},
		{Key: "videoFile", Value: bson.D{{Key: "publicId", Value: "video/a.mp4"}, {Key: "kind", Value: "video"}}},
		{Key: "thumbnail", Value: bson.D{{Key: "publicId", Value: "image/a.png"}, {Key: "kind", Value: "image"}}},
		{Key: "isPublished", Value: published},
		{Key: "owner", Value: owner},
	}
}

func commandNames(mt *mtest.T) []string {
	var names []string
	for _, ev := range mt.GetAllStartedEvents() {
		names = append(names, ev.CommandName)
	}
	return names
}

func TestNonOwnerMutationsAreForbidden(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id, owner, intruder := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("update", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newTestService(mt, store)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)))

		thumb := &media.Asset{Reader: strings.NewReader("x"), ContentType: "image/png", Filename: "t.png", Kind: media.KindImage}
		_, err := svc.Update(context.Background(), id, intruder, videodto.UpdateInput{Title: "mine now"}, thumb)
		assert.True(t, errors.Is(err, common.ErrForbidden))
		assert.Equal(t, []string{"find"}, commandNames(mt))
		assert.Empty(t, store.Uploaded)
	})

	mt.Run("delete", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newTestService(mt, store)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)))

		_, err := svc.Delete(context.Background(), id, intruder)
		assert.True(t, errors.Is(err, common.ErrForbidden))
		assert.Equal(t, []string{"find"}, commandNames(mt))
		assert.Empty(t, store.Deleted)
	})

	mt.Run("toggle publish", func(mt *mtest.T) {
		svc := newTestService(mt, mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)))

		_, err := svc.TogglePublish(context.Background(), id, intruder)
		assert.True(t, errors.Is(err, common.ErrForbidden))
		assert.Equal(t, []string{"find"}, commandNames(mt))
	})
}

func TestDelete(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id, owner := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("removes assets in order then the record", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newTestService(mt, store)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(4)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(2)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}, bson.E{Key: "nModified", Value: int32(1)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(0)}, bson.E{Key: "nModified", Value: int32(0)}),
		)

		result, err := svc.Delete(context.Background(), id, owner)
		require.NoError(t, err)
		assert.Equal(t, []string{"video/a.mp4", "image/a.png"}, store.DeletedIDs())
		assert.Equal(t, id.Hex(), result.VideoID)
		assert.Equal(t, int64(4), result.LikesRemoved)
		assert.Equal(t, int64(2), result.CommentsRemoved)
		assert.Equal(t, int64(1), result.PlaylistsUpdated)
	})

	mt.Run("thumbnail failure reports partial progress", func(mt *mtest.T) {
		store := mediatest.New()
		store.FailDeleteOf["image/a.png"] = true
		svc := newTestService(mt, store)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)))

		_, err := svc.Delete(context.Background(), id, owner)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.ErrCodeDependencyDatabase, appErr.Code)

		details := appErr.Details.(map[string]interface{})
		assert.Equal(t, true, details["partial"])
		assert.Equal(t, []string{"videoFile"}, details["completed"])
		assert.Equal(t, "thumbnail", details["failed"])
		assert.Equal(t, []string{"find"}, commandNames(mt))
	})

	mt.Run("video file failure changes nothing", func(mt *mtest.T) {
		store := mediatest.New()
		store.FailDeleteOf["video/a.mp4"] = true
		svc := newTestService(mt, store)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, true)))

		_, err := svc.Delete(context.Background(), id, owner)
		assert.True(t, errors.Is(err, common.ErrMediaStore))
		assert.Empty(t, store.Deleted)
	})

	mt.Run("missing video", func(mt *mtest.T) {
		svc := newTestService(mt, mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.Delete(context.Background(), id, owner)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestWatchHidesUnpublishedFromOthers(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("not the owner", func(mt *mtest.T) {
		svc := newTestService(mt, mediatest.New())
		id, owner := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedVideo(id, owner, false)))

		_, err := svc.Watch(context.Background(), id, primitive.NewObjectID())
		assert.True(t, errors.Is(err, common.ErrNotFound))
		assert.Equal(t, []string{"find"}, commandNames(mt))
	})
}

func TestPublishRequiresBothFiles(t *testing.T) {
	svc := newVideoService(nil, nil, nil, nil, nil, mediatest.New())
	_, err := svc.Publish(context.Background(), primitive.NewObjectID(), videodto.PublishInput{Title: "t", Description: "d"}, nil, nil)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestListPipeline(t *testing.T) {
	actor := primitive.NewObjectID()

	t.Run("others see published only, newest first", func(t *testing.T) {
		p := ListPipeline(ListFilter{Query: "go+"}, actor)
		match := p[0][0].Value.(bson.D)
		require.Len(t, match, 2)
		assert.Equal(t, "$or", match[0].Key)
		assert.Equal(t, bson.E{Key: "isPublished", Value: true}, match[1])

		title := match[0].Value.(bson.A)[0].(bson.D)[0].Value.(primitive.Regex)
		assert.Equal(t, `go\+`, title.Pattern)
		assert.Equal(t, "i", title.Options)

		sort := p[1][0].Value.(bson.D)
		assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, sort[0])
	})

	t.Run("owner sees own unpublished videos", func(t *testing.T) {
		p := ListPipeline(ListFilter{Owner: &actor, SortBy: "views", SortType: "asc"}, actor)
		match := p[0][0].Value.(bson.D)
		assert.Equal(t, bson.D{{Key: "owner", Value: actor}}, match)
		sort := p[1][0].Value.(bson.D)
		assert.Equal(t, bson.E{Key: "views", Value: 1}, sort[0])
	})
}
