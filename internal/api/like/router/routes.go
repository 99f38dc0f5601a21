// Package router registers the /likes routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	likehdl "videotube/internal/api/like/handler"
	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
)

// Register registers every like route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := likehdl.NewLikeHandler()
	if err != nil {
		return fmt.Errorf("create LikeHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/likes", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodPost, Path: "/toggle/v/:videoId", Handler: h.HandleToggleVideoLike},
		{Method: fiber.MethodPost, Path: "/toggle/c/:commentId", Handler: h.HandleToggleCommentLike},
		{Method: fiber.MethodPost, Path: "/toggle/t/:tweetId", Handler: h.HandleToggleTweetLike},
		{Method: fiber.MethodGet, Path: "/videos", Handler: h.HandleLikedVideos},
	})
	return nil
}
