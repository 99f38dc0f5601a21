// Package router registers the /tweets routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
	tweethdl "videotube/internal/api/tweet/handler"
)

// Register registers every tweet route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := tweethdl.NewTweetHandler()
	if err != nil {
		return fmt.Errorf("create TweetHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/tweets", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodPost, Path: "", Handler: h.HandleCreate},
		{Method: fiber.MethodGet, Path: "/user/:userId", Handler: h.HandleListByUser},
		{Method: fiber.MethodPatch, Path: "/:tweetId", Handler: h.HandleUpdate},
		{Method: fiber.MethodDelete, Path: "/:tweetId", Handler: h.HandleDelete},
	})
	return nil
}
