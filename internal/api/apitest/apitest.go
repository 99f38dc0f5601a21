// Package apitest mounts domain handlers on a bare fiber app for handler tests.
package apitest

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/api/middleware"
	"videotube/internal/global"
)

// Envelope decodes both the success and the error response body.
type Envelope struct {
	StatusCode int             `json:"statusCode"`
	Code       string          `json:"code"`
	Data       json.RawMessage `json:"data"`
	Message    string          `json:"message"`
	Success    bool            `json:"success"`
	Errors     []any           `json:"errors"`
}

// UseCollection registers coll under every collection name, so handler constructors
// reading the global registry all talk to the same mock.
func UseCollection(coll *mongo.Collection) {
	names := global.MongoDB_ColNames
	for _, name := range []string{
		names.Users, names.Videos, names.Comments, names.Likes,
		names.Subscriptions, names.Playlists, names.Tweets,
	} {
		global.RegistryCollections.Register(name, coll)
	}
}

// NewApp returns an app with the production error handler that authenticates every
// request as actor. A zero actor leaves the request anonymous.
func NewApp(actor primitive.ObjectID) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	if !actor.IsZero() {
		app.Use(func(c fiber.Ctx) error {
			c.Locals("user_id", actor.Hex())
			return c.Next()
		})
	}
	return app
}

// Do sends a request with an optional JSON body and decodes the envelope.
func Do(t *testing.T, app *fiber.App, method, target string, body any) (int, Envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env Envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, env
}

// Data decodes the data field of env into out.
func Data(t *testing.T, env Envelope, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out))
}


// Namespace is the db.collection string mock cursor replies are tagged with.
func Namespace(coll *mongo.Collection) string {
	return coll.Database().Name() + "." + coll.Name()
}
