// Package router registers the /users routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
	userhdl "videotube/internal/api/user/handler"
)

// Register registers every user route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := userhdl.NewUserHandler()
	if err != nil {
		return fmt.Errorf("create UserHandler: %w", err)
	}
	RegisterHandler(v1, h, middleware.AuthMiddleware())
	return nil
}

// RegisterHandler registers the routes of h, guarding the private ones with authMW.
func RegisterHandler(v1 fiber.Router, h *userhdl.UserHandler, authMW fiber.Handler) {
	// Public routes first: the authenticated group below covers the whole /users prefix.
	apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodPost, "/register", nil, h.HandleRegister)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodPost, "/login", nil, h.HandleLogin)
	apirouter.RegisterRouteWithMiddleware(v1, "/users", fiber.MethodPost, "/refresh-token", nil, h.HandleRefreshToken)

	apirouter.RegisterRoutesWithMiddleware(v1, "/users", []fiber.Handler{authMW}, []apirouter.Route{
		{Method: fiber.MethodPost, Path: "/logout", Handler: h.HandleLogout},
		{Method: fiber.MethodPost, Path: "/change-password", Handler: h.HandleChangePassword},
		{Method: fiber.MethodGet, Path: "/current-user", Handler: h.HandleCurrentUser},
		{Method: fiber.MethodPatch, Path: "/update-account", Handler: h.HandleUpdateAccount},
		{Method: fiber.MethodPatch, Path: "/avatar", Handler: h.HandleUpdateAvatar},
		{Method: fiber.MethodPatch, Path: "/cover-image", Handler: h.HandleUpdateCoverImage},
		// GET /users/c/:userName - channel profile
		{Method: fiber.MethodGet, Path: "/c/:userName", Handler: h.HandleChannelProfile},
		{Method: fiber.MethodGet, Path: "/history", Handler: h.HandleWatchHistory},
	})
}
