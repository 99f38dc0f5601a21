package userhdl

import (
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"videotube/config"
	"videotube/internal/api/apitest"
	usermodels "videotube/internal/api/user/models"
	usersvc "videotube/internal/api/user/service"
	"videotube/internal/credential"
	"videotube/internal/global"
)

func mount(mt *mtest.T, actor primitive.ObjectID) *fiber.App {
	apitest.UseCollection(mt.Coll)
	previous := global.MongoDB_ServerConfig
	global.MongoDB_ServerConfig = &config.Configuration{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 24 * time.Hour,
	}
	mt.Cleanup(func() { global.MongoDB_ServerConfig = previous })

	svc, err := usersvc.NewUserService()
	require.NoError(mt, err)
	h := newUserHandler(svc, false, nil)

	app := apitest.NewApp(actor)
	app.Post("/users/login", h.HandleLogin)
	app.Get("/users/current-user", h.HandleCurrentUser)
	return app
}

func userDoc(mt *mtest.T, id primitive.ObjectID, password string) bson.D {
	hash, err := credential.Hash(password)
	require.NoError(mt, err)
	return bson.D{
		{Key: "_id", Value: id},
		{Key: "userName", Value: "gopher"},
		{Key: "email", Value: "gopher@example.com"},
		{Key: "fullName", Value: "Go Pher"},
		{Key: "password", Value: hash},
	}
}

func TestCurrentUserRoute(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("found", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		app := mount(mt, id)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch, userDoc(mt, id, "secret-pass")))

		status, env := apitest.Do(mt.T, app, http.MethodGet, "/users/current-user", nil)
		require.Equal(mt, http.StatusOK, status)
		assert.Equal(mt, "Current user fetched successfully", env.Message)
		assert.NotContains(mt, string(env.Data), "password")

		var user usermodels.User
		apitest.Data(mt.T, env, &user)
		assert.Equal(mt, id, user.ID)
		assert.Equal(mt, "gopher", user.UserName)
	})

	mt.Run("anonymous", func(mt *mtest.T) {
		app := mount(mt, primitive.NilObjectID)

		status, env := apitest.Do(mt.T, app, http.MethodGet, "/users/current-user", nil)
		assert.Equal(mt, http.StatusUnauthorized, status)
		assert.Equal(mt, "AUTH_001", env.Code)
	})
}

func TestLoginRoute(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("wrong password", func(mt *mtest.T) {
		app := mount(mt, primitive.NilObjectID)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, apitest.Namespace(mt.Coll), mtest.FirstBatch, userDoc(mt, primitive.NewObjectID(), "secret-pass")))

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/users/login", map[string]string{"userName": "gopher", "password": "guess"})
		assert.Equal(mt, http.StatusUnauthorized, status)
		assert.Equal(mt, "AUTH_003", env.Code)
		assert.Len(mt, mt.GetAllStartedEvents(), 1)
	})

	mt.Run("missing password", func(mt *mtest.T) {
		app := mount(mt, primitive.NilObjectID)

		status, env := apitest.Do(mt.T, app, http.MethodPost, "/users/login", map[string]string{"userName": "gopher"})
		assert.Equal(mt, http.StatusBadRequest, status)
		assert.Equal(mt, "VAL_001", env.Code)
		assert.Empty(mt, mt.GetAllStartedEvents())
	})
}
