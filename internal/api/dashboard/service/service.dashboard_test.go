package dashboardsvc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func newTestService(mt *mtest.T) *DashboardService {
	return newDashboardService(mt.Coll, mt.Coll, mt.Coll, mt.Coll, mt.Coll)
}

func TestStats(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("counts likes per target type", func(mt *mtest.T) {
		svc := newTestService(mt)
		video, comment := primitive.NewObjectID(), primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: nil},
				{Key: "totalVideos", Value: int32(1)},
				{Key: "totalViews", Value: int64(42)},
			}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(3)}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{video}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{comment}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: nil},
				{Key: "videos", Value: int32(5)},
				{Key: "comments", Value: int32(2)},
				{Key: "tweets", Value: int32(0)},
			}),
		)

		stats, err := svc.Stats(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.Equal(t, int64(1), stats.TotalVideos)
		assert.Equal(t, int64(42), stats.TotalViews)
		assert.Equal(t, int64(3), stats.TotalSubscribers)
		assert.Equal(t, int64(5), stats.Likes.Videos)
		assert.Equal(t, int64(2), stats.Likes.Comments)
		assert.Equal(t, int64(7), stats.TotalLikes)

		events := mt.GetAllStartedEvents()
		require.Len(t, events, 6)
		targets := events[5].Command.Lookup("pipeline", "0", "$match", "$or").Array()
		values, err := targets.Values()
		require.NoError(t, err)
		assert.Len(t, values, 2)
	})

	mt.Run("empty channel is all zeros", func(mt *mtest.T) {
		svc := newTestService(mt)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
		)

		stats, err := svc.Stats(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		assert.Zero(t, stats.TotalVideos)
		assert.Zero(t, stats.TotalViews)
		assert.Zero(t, stats.TotalSubscribers)
		assert.Zero(t, stats.TotalLikes)
		assert.Len(t, mt.GetAllStartedEvents(), 5)
	})
}

func TestLikesReceivedPipelineCountsEachTargetOnce(t *testing.T) {
	p := LikesReceivedPipeline([]interface{}{primitive.NewObjectID()}, nil, nil)
	require.Len(t, p, 2)

	targets := p[0][0].Value.(bson.D)[0].Value.(bson.A)
	assert.Len(t, targets, 1)

	group := p[1][0].Value.(bson.D)
	assert.Equal(t, bson.E{Key: "_id", Value: nil}, group[0])
	videos := group[1].Value.(bson.D)[0]
	assert.Equal(t, "$sum", videos.Key)
	cond := videos.Value.(bson.D)[0].Value.(bson.D)
	assert.Equal(t, bson.D{{Key: "$ifNull", Value: bson.A{"$video", false}}}, cond[0].Value)
}

func TestChannelVideosPipelineIncludesUnpublished(t *testing.T) {
	owner := primitive.NewObjectID()
	p := ChannelVideosPipeline(owner)
	assert.Equal(t, bson.D{{Key: "owner", Value: owner}}, p[0][0].Value)
}
