// Package global holds process-wide handles set once during startup.
package global

import (
	"videotube/config"
	"videotube/internal/media"
	"videotube/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoDB_Auth_CollectionName names every collection the server uses.
type MongoDB_Auth_CollectionName struct {
	Users         string
	Videos        string
	Comments      string
	Likes         string
	Subscriptions string
	Playlists     string
	Tweets        string
}

var Validate *validator.Validate
var MongoDB_Session *mongo.Client
var MongoDB_ServerConfig *config.Configuration
var MongoDB_ColNames MongoDB_Auth_CollectionName = MongoDB_Auth_CollectionName{
	Users:         "users",
	Videos:        "videos",
	Comments:      "comments",
	Likes:         "likes",
	Subscriptions: "subscriptions",
	Playlists:     "playlists",
	Tweets:        "tweets",
}

// RegistryCollections maps collection names to handles opened at startup.
var RegistryCollections = registry.NewRegistry[*mongo.Collection]()

// MediaStore holds uploaded assets; set at startup from MEDIA_DRIVER.
var MediaStore media.Store

// MediaLimits caps upload sizes per asset kind.
var MediaLimits media.Limits
