// Package router registers the /playlists routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/api/middleware"
	playlisthdl "videotube/internal/api/playlist/handler"
	apirouter "videotube/internal/api/router"
)

// Register registers every playlist route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := playlisthdl.NewPlaylistHandler()
	if err != nil {
		return fmt.Errorf("create PlaylistHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/playlists", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodPost, Path: "", Handler: h.HandleCreate},
		{Method: fiber.MethodGet, Path: "/user/:userId", Handler: h.HandleListByUser},
		{Method: fiber.MethodPatch, Path: "/add/:videoId/:playlistId", Handler: h.HandleAddVideo},
		{Method: fiber.MethodPatch, Path: "/remove/:videoId/:playlistId", Handler: h.HandleRemoveVideo},
		{Method: fiber.MethodGet, Path: "/:playlistId", Handler: h.HandleGet},
		{Method: fiber.MethodPatch, Path: "/:playlistId", Handler: h.HandleUpdate},
		{Method: fiber.MethodDelete, Path: "/:playlistId", Handler: h.HandleDelete},
	})
	return nil
}
