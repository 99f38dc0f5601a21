package usersvc

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"videotube/config"
	userdto "videotube/internal/api/user/dto"
	"videotube/internal/common"
	"videotube/internal/credential"
	"videotube/internal/media"
	"videotube/internal/media/mediatest"
)

func ns(mt *mtest.T) string {
	return mt.Coll.Database().Name() + "." + mt.Coll.Name()
}

func testCredentials() *credential.Service {
	return credential.NewService(&config.Configuration{
		AccessTokenSecret:  "access-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenSecret: "refresh-secret",
		RefreshTokenExpiry: 24 * time.Hour,
	})
}

func imageAsset(name string) *media.Asset {
	return &media.Asset{
		Reader:      strings.NewReader("png"),
		Size:        3,
		ContentType: "image/png",
		Filename:    name,
		Kind:        media.KindImage,
	}
}

func registerInput() userdto.RegisterInput {
	return userdto.RegisterInput{
		FullName: "Chai Aur Code",
		Email:    "Chai@Example.com",
		UserName: " ChaiCode ",
		Password: "secret123",
	}
}

func TestRegister(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stores normalised account", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newUserService(mt.Coll, testCredentials(), store)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateSuccessResponse(),
		)

		user, err := svc.Register(context.Background(), registerInput(), imageAsset("me.png"), nil)
		require.NoError(t, err)
		assert.Equal(t, "chaicode", user.UserName)
		assert.Equal(t, "chai@example.com", user.Email)
		assert.True(t, credential.Verify("secret123", user.Password))
		assert.NotNil(t, user.WatchHistory)
		assert.Nil(t, user.CoverImage)
		require.Len(t, store.Uploaded, 1)
		assert.Equal(t, store.Uploaded[0], user.Avatar)
	})

	mt.Run("existing email or handle conflicts before any upload", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newUserService(mt.Coll, testCredentials(), store)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{{Key: "n", Value: int32(1)}}))

		_, err := svc.Register(context.Background(), registerInput(), imageAsset("me.png"), nil)
		assert.True(t, errors.Is(err, common.ErrConflict))
		assert.Empty(t, store.Uploaded)
	})

	mt.Run("avatar is required", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.Register(context.Background(), registerInput(), nil, nil)
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
	})

	mt.Run("failed insert discards uploads", func(mt *mtest.T) {
		store := mediatest.New()
		svc := newUserService(mt.Coll, testCredentials(), store)
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch),
			mtest.CreateWriteErrorsResponse(mtest.WriteError{Index: 0, Code: 11000, Message: "E11000 duplicate key error"}),
		)

		_, err := svc.Register(context.Background(), registerInput(), imageAsset("me.png"), imageAsset("cover.png"))
		assert.True(t, errors.Is(err, common.ErrConflict))
		require.Len(t, store.Uploaded, 2)
		assert.ElementsMatch(t, []string{store.Uploaded[0].PublicID, store.Uploaded[1].PublicID}, store.DeletedIDs())
	})
}

func TestLogin(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	hash, err := credential.Hash("secret123")
	require.NoError(t, err)
	userID := primitive.NewObjectID()
	stored := bson.D{
		{Key: "_id", Value: userID},
		{Key: "userName", Value: "chaicode"},
		{Key: "email", Value: "chai@example.com"},
		{Key: "fullName", Value: "Chai Aur Code"},
		{Key: "password", Value: hash},
	}

	mt.Run("issues tokens for the right password", func(mt *mtest.T) {
		creds := testCredentials()
		svc := newUserService(mt.Coll, creds, mediatest.New())
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, stored),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}, bson.E{Key: "nModified", Value: int32(1)}),
		)

		session, err := svc.Login(context.Background(), userdto.LoginInput{UserName: "ChaiCode", Password: "secret123"})
		require.NoError(t, err)
		assert.Equal(t, userID, session.User.ID)
		assert.Equal(t, session.RefreshToken, session.User.RefreshToken)

		_, id, err := creds.VerifyAccessToken(session.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, userID, id)
	})

	mt.Run("wrong password", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, stored))

		_, err := svc.Login(context.Background(), userdto.LoginInput{Email: "chai@example.com", Password: "nope"})
		assert.True(t, errors.Is(err, common.ErrInvalidCredentials))
	})

	mt.Run("unknown account", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.Login(context.Background(), userdto.LoginInput{Email: "ghost@example.com", Password: "x"})
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})

	mt.Run("needs email or user name", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		_, err := svc.Login(context.Background(), userdto.LoginInput{Password: "x"})
		assert.True(t, errors.Is(err, common.ErrInvalidInput))
	})
}

func TestRefreshRejectsRotatedToken(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("stored token differs", func(mt *mtest.T) {
		creds := testCredentials()
		svc := newUserService(mt.Coll, creds, mediatest.New())
		userID := primitive.NewObjectID()
		token, err := creds.IssueRefreshToken(userID)
		require.NoError(t, err)

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: userID},
			{Key: "refreshToken", Value: "a-newer-token"},
		}))

		_, err = svc.Refresh(context.Background(), token)
		var appErr *common.Error
		require.True(t, errors.As(err, &appErr))
		assert.Equal(t, common.StatusUnauthorized, appErr.StatusCode)
	})

	mt.Run("garbage token never reaches the store", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		_, err := svc.Refresh(context.Background(), "not-a-jwt")
		assert.True(t, errors.Is(err, common.ErrTokenInvalid))
		assert.Nil(t, mt.GetStartedEvent())
	})
}

func TestChannelProfilePipeline(t *testing.T) {
	requester := primitive.NewObjectID()
	p := ChannelProfilePipeline(" ChaiCode ", requester)

	require.Len(t, p, 5)
	assert.Equal(t, bson.D{{Key: "userName", Value: "chaicode"}}, p[0][0].Value)

	addFields := p[3][0].Value.(bson.D)
	require.Equal(t, "isSubscribed", addFields[2].Key)
	cond := addFields[2].Value.(bson.D)[0].Value.(bson.D)
	in := cond[0].Value.(bson.D)
	assert.Equal(t, "$in", in[0].Key)
	assert.Equal(t, bson.A{requester, "$subscribers.subscriber"}, in[0].Value)

	project := p[4][0].Value.(bson.D)
	for _, field := range project {
		assert.NotEqual(t, "password", field.Key)
		assert.NotEqual(t, "refreshToken", field.Key)
	}
}

func TestChannelProfileMissing(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("no such handle", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch))

		_, err := svc.ChannelProfile(context.Background(), "ghost", primitive.NewObjectID())
		assert.True(t, errors.Is(err, common.ErrNotFound))
	})
}

func TestWatchHistoryKeepsStoredOrder(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("most recent first", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		older, newer, deleted := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns(mt), mtest.FirstBatch, bson.D{
			{Key: "_id", Value: primitive.NewObjectID()},
			{Key: "watchHistory", Value: bson.A{newer, deleted, older}},
			{Key: "history", Value: bson.A{
				bson.D{{Key: "_id", Value: older}, {Key: "title", Value: "older"}},
				bson.D{{Key: "_id", Value: newer}, {Key: "title", Value: "newer"}},
			}},
		}))

		history, err := svc.WatchHistory(context.Background(), primitive.NewObjectID())
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "newer", history[0].Title)
		assert.Equal(t, "older", history[1].Title)
	})
}

func TestAppendWatchHistoryUsesUpdatePipeline(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("single update", func(mt *mtest.T) {
		svc := newUserService(mt.Coll, testCredentials(), mediatest.New())
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "n", Value: int32(1)}))

		require.NoError(t, svc.AppendWatchHistory(context.Background(), primitive.NewObjectID(), primitive.NewObjectID()))

		started := mt.GetStartedEvent()
		require.NotNil(t, started)
		assert.Equal(t, "update", started.CommandName)
		u := started.Command.Lookup("updates", "0", "u")
		assert.Equal(t, bson.TypeArray, u.Type)
	})
}
