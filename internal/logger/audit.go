package logger

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// LogAction writes one audit record for the current request.
func LogAction(action string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	if rid := requestID(c); rid != "" {
		details["request_id"] = rid
	}

	userID, _ := c.Locals("user_id").(string)

	GetAuditLogger().WithFields(logrus.Fields{
		"action":     action,
		"user_id":    userID,
		"ip":         c.IP(),
		"user_agent": c.Get("User-Agent"),
		"details":    details,
		"timestamp":  time.Now(),
	}).Info("Audit log")
}

// LogCRUD records a create/update/delete on a resource.
func LogCRUD(operation, resourceType, resourceID string, c fiber.Ctx, details map[string]interface{}) {
	if details == nil {
		details = make(map[string]interface{})
	}
	details["resource_type"] = resourceType
	details["resource_id"] = resourceID
	LogAction("crud_"+operation, c, details)
}

// LogAuth records register, login, logout, refresh and password changes.
func LogAuth(action string, c fiber.Ctx, details map[string]interface{}) {
	LogAction("auth_"+action, c, details)
}
