package likesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	likemodels "videotube/internal/api/like/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/common"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func found(mt *mtest.T) bson.D {
	return mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}})
}

func TestToggleLikeTwiceRestoresState(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("video", func(mt *mtest.T) {
		svc := newLikeService(mt.Coll, mt.Coll, mt.Coll, mt.Coll)
		actor := primitive.NewObjectID()
		target := likemodels.Target{Type: likemodels.TargetVideo, ID: primitive.NewObjectID()}

		mt.AddMockResponses(
			found(mt),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)
		liked, err := svc.ToggleLike(context.Background(), target, actor)
		require.NoError(t, err)
		assert.True(t, liked.Liked)
		require.NotNil(t, liked.Like)
		assert.Equal(t, target.ID, *liked.Like.Video)
		assert.Nil(t, liked.Like.Comment)
		assert.Nil(t, liked.Like.Tweet)

		mt.AddMockResponses(
			found(mt),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: liked.Like.ID},
				{Key: "video", Value: target.ID},
				{Key: "likedBy", Value: actor},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
		)
		unliked, err := svc.ToggleLike(context.Background(), target, actor)
		require.NoError(t, err)
		assert.False(t, unliked.Liked)
		assert.Nil(t, unliked.Like)
		events := mt.GetAllStartedEvents()
		assert.Equal(t, "delete", events[len(events)-1].CommandName)
	})
}

func TestToggleLikeChecksTarget(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing tweet", func(mt *mtest.T) {
		svc := newLikeService(mt.Coll, mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.ToggleLike(context.Background(), likemodels.Target{Type: likemodels.TargetTweet, ID: primitive.NewObjectID()}, primitive.NewObjectID())
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.ErrCodeNotFound, appErr.Code)
		assert.Equal(t, "Tweet not found", appErr.Message)
		assert.Len(t, mt.GetAllStartedEvents(), 1)
	})

	mt.Run("unpublished video of another owner", func(mt *mtest.T) {
		svc := newLikeService(mt.Coll, mt.Coll, mt.Coll, mt.Coll)
		actor := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.ToggleLike(context.Background(), likemodels.Target{Type: likemodels.TargetVideo, ID: primitive.NewObjectID()}, actor)
		assert.True(t, errors.Is(err, common.ErrNotFound))

		events := mt.GetAllStartedEvents()
		require.Len(t, events, 1)
		visible := events[0].Command.Lookup("pipeline", "0", "$match", "$or").Array()
		values, err := visible.Values()
		require.NoError(t, err)
		require.Len(t, values, 2)
		assert.True(t, values[0].Document().Lookup("isPublished").Boolean())
		assert.Equal(t, actor, values[1].Document().Lookup("owner").ObjectID())
	})

	mt.Run("unknown type", func(mt *mtest.T) {
		svc := newLikeService(mt.Coll, mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.ToggleLike(context.Background(), likemodels.Target{Type: "playlist", ID: primitive.NewObjectID()}, primitive.NewObjectID())
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
		assert.Nil(t, mt.GetStartedEvent())
	})

	mt.Run("concurrent like loses the race", func(mt *mtest.T) {
		svc := newLikeService(mt.Coll, mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(
			found(mt),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "duplicate key"}),
		)

		_, err := svc.ToggleLike(context.Background(), likemodels.Target{Type: likemodels.TargetComment, ID: primitive.NewObjectID()}, primitive.NewObjectID())
		assert.True(t, errors.Is(err, common.ErrConflict))
	})
}

func TestLikedVideosPipelineDropsOrphans(t *testing.T) {
	actor := primitive.NewObjectID()
	p := LikedVideosPipeline(actor)
	require.Len(t, p, 5)

	match := p[0][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "likedBy", Value: actor}, match[0])
	assert.Equal(t, "video", match[1].Key)

	lookup := p[2][0].Value.(bson.D)
	assert.Equal(t, "$lookup", p[2][0].Key)
	assert.Equal(t, bson.E{Key: "from", Value: "videos"}, lookup[0])
	require.Equal(t, "pipeline", lookup[3].Key)
	videoStages := lookup[3].Value.(mongo.Pipeline)
	assert.Equal(t, bson.D{{Key: "$match", Value: videomodels.VisibleTo(actor)}}, videoStages[0])

	assert.Equal(t, bson.E{Key: "$unwind", Value: "$video"}, p[3][0])
	assert.Equal(t, "$replaceRoot", p[4][0].Key)
}
