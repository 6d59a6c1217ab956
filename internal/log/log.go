package log

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

var logger = logrus.New()

func init() {
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"})
	logger.SetOutput(os.Stdout)
}

// Init points the logger at an optional file sink in addition to stdout.
func Init(logFile string) {
	if logFile == "" {
		return
	}
	f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		logger.Warnf("could not open log file %s: %v", logFile, err)
		return
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, f))
}

func entry(c *fiber.Ctx, action string, fields map[string]any) *logrus.Entry {
	e := logger.WithField("action", action)
	if c != nil {
		e = e.WithFields(logrus.Fields{
			"ip":     c.IP(),
			"method": c.Method(),
			"path":   c.Path(),
			"status": c.Response().StatusCode(),
		})
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			e = e.WithField("req_id", rid)
		}
	}
	if len(fields) > 0 {
		e = e.WithField("fields", fields)
	}
	return e
}

func Info(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, action, fields).Info(action)
}

// Audit records a state-changing business event (order placed, status moved).
func Audit(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, action, fields).WithField("audit", true).Info(action)
}

// Security records denied access, validation failures and rate-limit hits.
func Security(c *fiber.Ctx, action string, fields map[string]any) {
	entry(c, action, fields).Warn(action)
}

func Error(c *fiber.Ctx, action string, err error, fields map[string]any) {
	e := entry(c, action, fields)
	if err != nil {
		e = e.WithError(err)
	}
	e.Error(action)
}
