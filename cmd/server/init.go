package main

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"videotube/config"
	commentmodels "videotube/internal/api/comment/models"
	likemodels "videotube/internal/api/like/models"
	playlistmodels "videotube/internal/api/playlist/models"
	subscriptionmodels "videotube/internal/api/subscription/models"
	tweetmodels "videotube/internal/api/tweet/models"
	usermodels "videotube/internal/api/user/models"
	videomodels "videotube/internal/api/video/models"
	"videotube/internal/database"
	"videotube/internal/global"
	"videotube/internal/media"
)

// InitGlobal sets every process-wide handle in order: validator, config, record store,
// media store.
func InitGlobal() {
	initValidator()
	initConfig()
	initDatabase_MongoDB()
	initMediaStore()
}

// initValidator registers the custom validators (no_xss, username).
func initValidator() {
	global.InitValidator()
	logrus.Info("Initialized validator")
}

func initConfig() {
	global.MongoDB_ServerConfig = config.NewConfig()
	if global.MongoDB_ServerConfig == nil {
		logrus.Fatalf("Failed to initialize config: config is nil")
	}
	logrus.Info("Initialized server config")
}

// collectionModels pairs each collection with the model whose index tags it carries.
func collectionModels() map[string]any {
	names := global.MongoDB_ColNames
	return map[string]any{
		names.Users:         usermodels.User{},
		names.Videos:        videomodels.Video{},
		names.Comments:      commentmodels.Comment{},
		names.Likes:         likemodels.Like{},
		names.Subscriptions: subscriptionmodels.Subscription{},
		names.Playlists:     playlistmodels.Playlist{},
		names.Tweets:        tweetmodels.Tweet{},
	}
}

func initDatabase_MongoDB() {
	var err error
	global.MongoDB_Session, err = database.GetInstance(global.MongoDB_ServerConfig)
	if err != nil {
		logrus.Fatalf("Failed to get database instance: %v", err)
	}
	logrus.Info("Connected to MongoDB")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := global.MongoDB_Session.Database(global.MongoDB_ServerConfig.MongoDB_DBName)
	models := collectionModels()
	names := make([]string, 0, len(models))
	for name := range models {
		names = append(names, name)
	}
	if err := database.EnsureCollections(ctx, db, names); err != nil {
		logrus.Fatalf("Failed to ensure collections: %v", err)
	}
	logrus.Info("Ensured database and collections")

	for name, model := range models {
		if err := database.CreateIndexes(ctx, db.Collection(name), model); err != nil {
			logrus.Errorf("Failed to create indexes for %s: %v", name, err)
		}
	}
}

// initMediaStore opens the configured media store; the minio driver also ensures the bucket.
func initMediaStore() {
	cfg := global.MongoDB_ServerConfig
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	store, err := media.NewStore(ctx, cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize media store: %v", err)
	}
	global.MediaStore = store
	global.MediaLimits = media.LimitsFromConfig(cfg)
	logrus.WithField("driver", cfg.MediaDriver).Info("Initialized media store")
}
