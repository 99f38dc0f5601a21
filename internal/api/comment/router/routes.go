// Package router registers the /comments routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	commenthdl "videotube/internal/api/comment/handler"
	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
)

// Register registers every comment route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := commenthdl.NewCommentHandler()
	if err != nil {
		return fmt.Errorf("create CommentHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/comments", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodGet, Path: "/:videoId", Handler: h.HandleList},
		{Method: fiber.MethodPost, Path: "/:videoId", Handler: h.HandleAdd},
		{Method: fiber.MethodPatch, Path: "/c/:commentId", Handler: h.HandleUpdate},
		{Method: fiber.MethodDelete, Path: "/c/:commentId", Handler: h.HandleDelete},
	})
	return nil
}
