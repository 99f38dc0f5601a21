// Package dashboardhdl serves the /dashboard routes.
package dashboardhdl

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "videotube/internal/api/base/handler"
	dashboardsvc "videotube/internal/api/dashboard/service"
	"videotube/internal/common"
)

// DashboardHandler handles dashboard routes.
type DashboardHandler struct {
	basehdl.BaseHandler
	DashboardService *dashboardsvc.DashboardService
}

// NewDashboardHandler builds a DashboardHandler from the global registry.
func NewDashboardHandler() (*DashboardHandler, error) {
	svc, err := dashboardsvc.NewDashboardService()
	if err != nil {
		return nil, fmt.Errorf("failed to create dashboard service: %w", err)
	}
	h := &DashboardHandler{DashboardService: svc}
	return h, nil
}

// HandleStats handles GET /dashboard/stats.
func (h *DashboardHandler) HandleStats(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		stats, err := h.DashboardService.Stats(c, actor)
		return h.HandleResponse(c, common.StatusOK, stats, "Channel stats fetched successfully", err)
	})
}

// HandleVideos handles GET /dashboard/videos.
func (h *DashboardHandler) HandleVideos(c fiber.Ctx) error {
	return h.SafeHandler(c, func() error {
		actor, err := basehdl.ActorID(c)
		if err != nil {
			return h.HandleResponse(c, 0, nil, "", err)
		}
		page, err := h.DashboardService.ChannelVideos(c, actor, basehdl.PagingQuery(c))
		return h.HandleResponse(c, common.StatusOK, page, "Channel videos fetched successfully", err)
	})
}
