package utils

import (
	"io"

	"github.com/MrSnakeDoc/hassglue/internal/logger"
)

// Close closes c and logs a failure instead of returning it.
func Close(c io.Closer) {
	if err := c.Close(); err != nil {
		logger.LogError("close failed: %v", err)
	}
}
