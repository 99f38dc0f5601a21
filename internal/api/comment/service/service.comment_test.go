package commentsvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"videotube/internal/common"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func storedComment(id, video, owner primitive.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "content", Value: "first!"},
		{Key: "video", Value: video},
		{Key: "owner", Value: owner},
	}
}

func TestAdd(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	video, actor := primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("blank content", func(mt *mtest.T) {
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		_, err := svc.Add(context.Background(), video, actor, "   ")
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
		assert.Nil(t, mt.GetStartedEvent())
	})

	mt.Run("missing video", func(mt *mtest.T) {
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.Add(context.Background(), video, actor, "nice")
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	mt.Run("stores trimmed content", func(mt *mtest.T) {
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateSuccessResponse(),
		)

		comment, err := svc.Add(context.Background(), video, actor, "  nice  ")
		require.NoError(t, err)
		assert.Equal(t, "nice", comment.Content)
		assert.Equal(t, video, comment.Video)
		assert.Equal(t, actor, comment.Owner)
		assert.False(t, comment.ID.IsZero())
	})
}

func TestNonOwnerCannotEdit(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	id, video, owner := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	mt.Run("update", func(mt *mtest.T) {
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedComment(id, video, owner)))

		_, err := svc.Update(context.Background(), id, primitive.NewObjectID(), "edited")
		assert.True(t, errors.Is(err, common.ErrForbidden))
		assert.Len(t, mt.GetAllStartedEvents(), 1)
	})

	mt.Run("delete", func(mt *mtest.T) {
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedComment(id, video, owner)))

		_, err := svc.Delete(context.Background(), id, primitive.NewObjectID())
		assert.True(t, errors.Is(err, common.ErrForbidden))
		assert.Len(t, mt.GetAllStartedEvents(), 1)
	})
}

func TestDeleteRemovesLikes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("owner", func(mt *mtest.T) {
		id, video, owner := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
		svc := newCommentService(mt.Coll, mt.Coll, mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, storedComment(id, video, owner)),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(3)}),
		)

		deleted, err := svc.Delete(context.Background(), id, owner)
		require.NoError(t, err)
		assert.Equal(t, id, deleted.ID)

		events := mt.GetAllStartedEvents()
		require.Len(t, events, 3)
		likeFilter := events[2].Command.Lookup("deletes", "0", "q", "comment")
		assert.Equal(t, id, likeFilter.ObjectID())
	})
}

func TestListPipelineMarksViewerLikes(t *testing.T) {
	video, viewer := primitive.NewObjectID(), primitive.NewObjectID()
	p := ListPipeline(video, viewer)

	assert.Equal(t, bson.D{{Key: "video", Value: video}}, p[0][0].Value)
	assert.Equal(t, bson.E{Key: "createdAt", Value: -1}, p[1][0].Value.(bson.D)[0])

	var addFields bson.D
	for _, stage := range p {
		if stage[0].Key == "$addFields" && stage[0].Value.(bson.D)[0].Key == "likesCount" {
			addFields = stage[0].Value.(bson.D)
		}
	}
	require.NotNil(t, addFields)
	cond := addFields[1].Value.(bson.D)[0].Value.(bson.D)
	assert.Equal(t, "if", cond[0].Key)
	assert.Equal(t, bson.D{{Key: "$in", Value: bson.A{viewer, "$likes.likedBy"}}}, cond[0].Value)
}
