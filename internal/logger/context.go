package logger

import (
	"github.com/gofiber/fiber/v3"
	"github.com/sirupsen/logrus"
)

// WithRequest returns an entry carrying request_id, method, path, ip and, when
// authenticated, user_id.
func WithRequest(c fiber.Ctx) *logrus.Entry {
	entry := GetAppLogger().WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
		"ip":     c.IP(),
	})

	if rid := requestID(c); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	if uid, ok := c.Locals("user_id").(string); ok && uid != "" {
		entry = entry.WithField("user_id", uid)
	}
	return entry
}

func requestID(c fiber.Ctx) string {
	if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
		return rid
	}
	if rid := c.Get("X-Request-ID"); rid != "" {
		return rid
	}
	return c.GetRespHeader("X-Request-ID")
}

// WithFields returns an app logger entry with the given fields.
func WithFields(fields map[string]interface{}) *logrus.Entry {
	return GetAppLogger().WithFields(logrus.Fields(fields))
}

// WithError returns an app logger entry carrying err.
func WithError(err error) *logrus.Entry {
	return GetAppLogger().WithError(err)
}

// WithModule tags entries with a domain module (user, video, like, ...).
func WithModule(module string) *logrus.Entry {
	return GetAppLogger().WithField("module", module)
}
