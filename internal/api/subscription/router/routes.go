// Package router registers the /subscriptions routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
	subscriptionhdl "videotube/internal/api/subscription/handler"
)

// Register registers every subscription route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := subscriptionhdl.NewSubscriptionHandler()
	if err != nil {
		return fmt.Errorf("create SubscriptionHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/subscriptions", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodPost, Path: "/c/:channelId", Handler: h.HandleToggle},
		{Method: fiber.MethodGet, Path: "/c/:subscriberId", Handler: h.HandleSubscribedChannels},
		{Method: fiber.MethodGet, Path: "/u/:channelId", Handler: h.HandleSubscribers},
	})
	return nil
}
