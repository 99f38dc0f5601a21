package basehdl

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/mongo"

	"videotube/internal/common"
)

// SystemHandler serves the health check.
type SystemHandler struct {
	startedAt time.Time
	client    *mongo.Client
}

// NewSystemHandler returns a SystemHandler that pings client, when set.
func NewSystemHandler(client *mongo.Client) *SystemHandler {
	return &SystemHandler{startedAt: time.Now(), client: client}
}

// HealthData is the payload of the health check.
type HealthData struct {
	Message   string            `json:"message"`
	Uptime    float64           `json:"uptime"` // seconds
	Timestamp int64             `json:"timestamp"`
	Services  map[string]string `json:"services"`
}

// HandleHealth reports uptime and whether the record store answers a ping.
func (h *SystemHandler) HandleHealth(c fiber.Ctx) error {
	data := HealthData{
		Message:   "ok",
		Uptime:    time.Since(h.startedAt).Seconds(),
		Timestamp: time.Now().UnixMilli(),
		Services:  map[string]string{"api": "ok"},
	}

	if h.client == nil {
		data.Services["database"] = "not_initialized"
		return Respond(c, common.StatusOK, data, "Server health is good", nil)
	}

	ctx, cancel := context.WithTimeout(c, 2*time.Second)
	defer cancel()
	if err := h.client.Ping(ctx, nil); err != nil {
		data.Message = "degraded"
		data.Services["database"] = "error"
		return Respond(c, common.StatusServiceUnavailable, nil, "", common.NewError(
			common.ErrCodeDependencyDatabase,
			"Record store is unreachable",
			common.StatusServiceUnavailable,
			data,
		))
	}
	data.Services["database"] = "ok"
	return Respond(c, common.StatusOK, data, "Server health is good", nil)
}
