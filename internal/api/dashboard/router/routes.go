// Package router registers the /dashboard routes.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	dashboardhdl "videotube/internal/api/dashboard/handler"
	"videotube/internal/api/middleware"
	apirouter "videotube/internal/api/router"
)

// Register registers every dashboard route on v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	h, err := dashboardhdl.NewDashboardHandler()
	if err != nil {
		return fmt.Errorf("create DashboardHandler: %w", err)
	}

	apirouter.RegisterRoutesWithMiddleware(v1, "/dashboard", []fiber.Handler{middleware.AuthMiddleware()}, []apirouter.Route{
		{Method: fiber.MethodGet, Path: "/stats", Handler: h.HandleStats},
		{Method: fiber.MethodGet, Path: "/videos", Handler: h.HandleVideos},
	})
	return nil
}
