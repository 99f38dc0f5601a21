package tweethdl

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"videotube/internal/api/apitest"
	tweetmodels "videotube/internal/api/tweet/models"
)

func mount(mt *mtest.T, actor primitive.ObjectID) *fiber.App {
	apitest.UseCollection(mt.Coll)
	h, err := NewTweetHandler()
	require.NoError(mt, err)

	app := apitest.NewApp(actor)
	app.Post("/tweets", h.HandleCreate)
	app.Patch("/tweets/:tweetId", h.HandleUpdate)
	app.Delete("/tweets/:tweetId", h.HandleDelete)
	return app
}

func TestCreateTweetRoute(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("created", func(mt *mtest.T) {
		actor := primitive.NewObjectID()
		app := mount(mt, actor)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/tweets", map[string]string{"content": "  hello  "})
		require.Equal(mt, http.StatusCreated, status)
		assert.True(mt, env.Success)
		assert.Equal(mt, http.StatusCreated, env.StatusCode)
		assert.Equal(mt, "Tweet created successfully", env.Message)

		var tweet tweetmodels.Tweet
		apitest.Data(mt.T, env, &tweet)
		assert.Equal(mt, "hello", tweet.Content)
		assert.Equal(mt, actor, tweet.Owner)
		assert.False(mt, tweet.ID.IsZero())
	})

	mt.Run("missing content", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/tweets", map[string]string{})
		assert.Equal(mt, http.StatusBadRequest, status)
		assert.Equal(mt, "VAL_001", env.Code)
		assert.False(mt, env.Success)
		assert.NotEmpty(mt, env.Errors)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})

	mt.Run("anonymous", func(mt *mtest.T) {
		app := mount(mt, primitive.NilObjectID)

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/tweets", map[string]string{"content": "hello"})
		assert.Equal(mt, http.StatusUnauthorized, status)
		assert.Equal(mt, "AUTH_001", env.Code)
	})
}

func TestTweetRoutesCheckIdAndOwner(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("malformed id", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())

		status, env := apitest.Do(mt.T, app, http.MethodPatch, "/tweets/not-an-id", map[string]string{"content": "edit"})
		assert.Equal(mt, http.StatusBadRequest, status)
		assert.Equal(mt, "VAL_003", env.Code)
		assert.Equal(mt, "Invalid tweetId", env.Message)
	})

	mt.Run("someone else's tweet", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())
		id := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "content", Value: "mine"},
			{Key: "owner", Value: primitive.NewObjectID()},
		}))

		status, env := apitest.Do(mt.T, app, http.MethodDelete, "/tweets/"+id.Hex(), nil)
		assert.Equal(mt, http.StatusForbidden, status)
		assert.Equal(mt, "AUTH_004", env.Code)
		assert.Len(mt, mt.GetAllStartedEvents(), 1)
	})
}
