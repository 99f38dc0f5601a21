package main

import (
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/config"
	"videotube/internal/global"
)

// InitRegistry registers a handle for every collection in global.RegistryCollections.
func InitRegistry() {
	if err := InitCollections(global.MongoDB_Session, global.MongoDB_ServerConfig); err != nil {
		logrus.Fatalf("Failed to initialize collections: %v", err)
	}
	logrus.WithField("collections", global.RegistryCollections.Names()).Info("Initialized collection registry")
}

// releaseRegistry drops every registered collection handle before the client disconnects.
func releaseRegistry() {
	count, err := global.RegistryCollections.ClearAll(nil)
	if err != nil {
		logrus.Errorf("Failed to release collection registry: %v", err)
		return
	}
	logrus.Infof("Released %d collection handles", count)
}

// InitCollections registers the collections of the configured database.
func InitCollections(client *mongo.Client, cfg *config.Configuration) error {
	db := client.Database(cfg.MongoDB_DBName)
	for name := range collectionModels() {
		registered, err := global.RegistryCollections.Register(name, db.Collection(name))
		if err != nil {
			logrus.Errorf("Failed to register collection %s: %v", name, err)
			return err
		}
		if !registered {
			logrus.Warnf("Collection %s already registered", name)
		}
	}
	return nil
}
