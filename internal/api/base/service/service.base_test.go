package basesvc

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	basemodels "videotube/internal/api/base/models"
	"videotube/internal/common"
)

type testSubscription struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Subscriber primitive.ObjectID `bson:"subscriber"`
	Channel    primitive.ObjectID `bson:"channel"`
	Note       string             `bson:"note,omitempty"`
	Active     bool               `bson:"active" default:"true"`
	Weight     int64              `bson:"weight" default:"3"`
	CreatedAt  int64              `bson:"createdAt"`
	UpdatedAt  int64              `bson:"updatedAt"`
}

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func TestEnsureOwner(t *testing.T) {
	owner := primitive.NewObjectID()

	assert.NoError(t, EnsureOwner(owner, owner))

	err := EnsureOwner(primitive.NewObjectID(), owner)
	assert.True(t, errors.Is(err, common.ErrForbidden))

	err = EnsureOwner(primitive.NilObjectID, primitive.NilObjectID)
	assert.True(t, errors.Is(err, common.ErrForbidden))
}

func TestToggle(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	subscriber, channel := primitive.NewObjectID(), primitive.NewObjectID()
	filter := bson.M{"subscriber": subscriber, "channel": channel}
	newDoc := testSubscription{Subscriber: subscriber, Channel: channel}

	mt.Run("twice returns to the original state", func(mt *mtest.T) {
		svc := NewBaseServiceMongo[testSubscription](mt.Coll)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)
		first, err := svc.Toggle(context.Background(), filter, newDoc)
		require.NoError(t, err)
		assert.Equal(t, StatePresent, first.State)
		require.NotNil(t, first.Document)
		assert.False(t, first.Document.ID.IsZero())
		assert.Equal(t, channel, first.Document.Channel)
		assert.NotZero(t, first.Document.CreatedAt)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
				{Key: "_id", Value: first.Document.ID},
				{Key: "subscriber", Value: subscriber},
				{Key: "channel", Value: channel},
			}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
		)
		second, err := svc.Toggle(context.Background(), filter, newDoc)
		require.NoError(t, err)
		assert.Equal(t, StateAbsent, second.State)
		assert.Nil(t, second.Document)
	})

	mt.Run("duplicate key maps to conflict", func(mt *mtest.T) {
		svc := NewBaseServiceMongo[testSubscription](mt.Coll)

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)
		_, err := svc.Toggle(context.Background(), filter, newDoc)
		assert.True(t, errors.Is(err, common.ErrConflict))
	})
}

func TestInsertOneAppliesDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("defaults and timestamps", func(mt *mtest.T) {
		svc := NewBaseServiceMongo[testSubscription](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := svc.InsertOne(context.Background(), testSubscription{Channel: primitive.NewObjectID()})
		require.NoError(t, err)
		assert.True(t, created.Active)
		assert.Equal(t, int64(3), created.Weight)
		assert.Equal(t, created.CreatedAt, created.UpdatedAt)
		assert.Empty(t, created.Note)
	})
}

func TestFindWithPagination(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("second page", func(mt *mtest.T) {
		svc := NewBaseServiceMongo[testSubscription](mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(12)}}),
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch,
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
			),
		)

		page, err := svc.FindWithPagination(context.Background(), bson.M{}, basemodels.NewPaging(2, 10), nil)
		require.NoError(t, err)
		assert.Equal(t, int64(12), page.Total)
		assert.Equal(t, int64(2), page.TotalPages)
		assert.Equal(t, int64(2), page.ItemCount)
		assert.False(t, page.HasNextPage)
		assert.True(t, page.HasPrevPage)
	})
}

func TestAggregateWithPagination(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("reads facet metadata", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "metadata", Value: bson.A{bson.D{{Key: "total", Value: int32(23)}}}},
			{Key: "items", Value: bson.A{
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
				bson.D{{Key: "_id", Value: primitive.NewObjectID()}},
			}},
		}))

		page, err := AggregateWithPagination[testSubscription](context.Background(), mt.Coll, nil, basemodels.NewPaging(3, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(23), page.Total)
		assert.Equal(t, int64(3), page.TotalPages)
		assert.Equal(t, int64(3), page.ItemCount)
		assert.False(t, page.HasNextPage)
	})

	mt.Run("empty result has zero pages", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "metadata", Value: bson.A{}},
			{Key: "items", Value: bson.A{}},
		}))

		page, err := AggregateWithPagination[testSubscription](context.Background(), mt.Coll, nil, basemodels.NewPaging(1, 10))
		require.NoError(t, err)
		assert.Equal(t, int64(0), page.Total)
		assert.Equal(t, int64(0), page.TotalPages)
		assert.NotNil(t, page.Items)
	})
}

func TestAggregateOneNotFound(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no documents", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))
		_, err := AggregateOne[testSubscription](context.Background(), mt.Coll, nil)
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestUpdateByIdMissingDocument(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("null value", func(mt *mtest.T) {
		svc := NewBaseServiceMongo[testSubscription](mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: nil}))

		_, err := svc.UpdateById(context.Background(), primitive.NewObjectID(), bson.M{"note": "x"})
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestPaginationPipelineAppendsFacet(t *testing.T) {
	base := []bson.D{{{Key: "$match", Value: bson.D{}}}}
	p := PaginationPipeline(base, basemodels.NewPaging(2, 5))

	require.Len(t, p, 2)
	assert.Equal(t, "$facet", p[1][0].Key)
	facet := p[1][0].Value.(bson.D)
	assert.Equal(t, "metadata", facet[0].Key)
	items := facet[1].Value
	assert.Equal(t, "items", facet[1].Key)
	assert.Len(t, items, 2)
}
