package likehdl

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
	likedto "videotube/internal/api/like/dto"
	likemodels "videotube/internal/api/like/models"
)

func mount(mt *mtest.T, actor primitive.ObjectID) *fiber.App {
	apitest.UseCollection(mt.Coll)
	h, err := NewLikeHandler()
	require.NoError(mt, err)

	app := apitest.NewApp(actor)
	app.Post("/likes/toggle/v/:videoId", h.HandleToggleVideoLike)
	app.Post("/likes/toggle/c/:commentId", h.HandleToggleCommentLike)
	app.Post("/likes/toggle/t/:tweetId", h.HandleToggleTweetLike)
	return app
}

func TestToggleLikeRoutes(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("like a tweet", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())
		tweet := primitive.NewObjectID()
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}),
			mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/likes/toggle/t/"+tweet.Hex(), nil)
		require.Equal(mt, http.StatusOK, status)
		assert.Equal(mt, "Like added", env.Message)

		var result likedto.ToggleResponse
		apitest.Data(mt.T, env, &result)
		assert.True(mt, result.Liked)
		assert.Equal(mt, likemodels.TargetTweet, result.TargetType)
		assert.Equal(mt, tweet.Hex(), result.TargetID)
	})

	mt.Run("hidden video", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch))

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/likes/toggle/v/"+primitive.NewObjectID().Hex(), nil)
		assert.Equal(mt, http.StatusNotFound, status)
		assert.Equal(mt, "NF_001", env.Code)
		assert.Equal(mt, "Video not found", env.Message)
	})

	mt.Run("malformed comment id", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/likes/toggle/c/123", nil)
		assert.Equal(mt, http.StatusBadRequest, status)
		assert.Equal(mt, "VAL_003", env.Code)
		assert.Equal(mt, "Invalid commentId", env.Message)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})
}
