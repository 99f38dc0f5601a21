package dashboardhdl

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
	dashboardmodels "videotube/internal/api/dashboard/models"
)

func mount(mt *mtest.T, actor primitive.ObjectID) *fiber.App {
	apitest.UseCollection(mt.Coll)
	h, err := NewDashboardHandler()
	require.NoError(mt, err)

	app := apitest.NewApp(actor)
	app.Get("/dashboard/stats", h.HandleStats)
	return app
}

func TestStatsRoute(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty channel", func(mt *mtest.T) {
		app := mount(mt, primitive.NewObjectID())
		ns := apitest.Namespace(mt.Coll)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateCursorResponse(0, ns, mtest.FirstBatch),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
			mtest.CreateSuccessResponse(bson.E{Key: "values", Value: bson.A{}}),
		)

		status, env := apitest.Do(mt.T, app, http.MethodGet, "/dashboard/stats", nil)
		require.Equal(mt, http.StatusOK, status)
		assert.Equal(mt, "Channel stats fetched successfully", env.Message)

		var stats dashboardmodels.Stats
		apitest.Data(mt.T, env, &stats)
		assert.Equal(mt, dashboardmodels.Stats{}, stats)
		assert.Len(mt, mt.GetAllStartedEvents(), 5)
	})

	mt.Run("anonymous", func(mt *mtest.T) {
		app := mount(mt, primitive.NilObjectID)

		status, env := apitest.Do(mt.T, app, http.MethodGet, "/dashboard/stats", nil)
		assert.Equal(mt, http.StatusUnauthorized, status)
		assert.Equal(mt, "AUTH_001", env.Code)
		assert.False(mt, env.Success)
	})
}
