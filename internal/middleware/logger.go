package middleware

import (
	"io"
	"os"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// RequestLogger logs one line per request to stream, or stdout when stream is nil.
// Production logs are JSON so they can be shipped to a collector.
func RequestLogger(production bool, stream io.Writer) fiber.Handler {
	if stream == nil {
		stream = os.Stdout
	}

	cfg := logger.Config{
		Stream: stream,
		Format: logger.DefaultFormat,
	}
	if production {
		cfg.Format = logger.JSONFormat
		cfg.TimeFormat = "2006-01-02T15:04:05Z07:00"
		cfg.DisableColors = true
	}
	return logger.New(cfg)
}
