// Package router registers the /videos routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
	videohdl "videotube/internal/api/video/handler"
)

// Register registers every video route on v1. All of them require a session.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := videohdl.NewVideoHandler()
	if err != nil {
		return fmt.Errorf("create VideoHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/videos", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodGet, Path: "", Handler: h.HandleList},
		{Method: fiber.MethodPost, Path: "", Handler: h.HandlePublish},
		{Method: fiber.MethodGet, Path: "/:videoId", Handler: h.HandleGet},
		{Method: fiber.MethodPatch, Path: "/:videoId", Handler: h.HandleUpdate},
		{Method: fiber.MethodDelete, Path: "/:videoId", Handler: h.HandleDelete},
		{Method: fiber.MethodPatch, Path: "/toggle/publish/:videoId", Handler: h.HandleTogglePublish},
	})
	return nil
}
