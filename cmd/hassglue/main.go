package main

import (
	"os"

	cmd "github.com/MrSnakeDoc/hassglue/internal"
	"github.com/MrSnakeDoc/hassglue/internal/logger"
)

func main() {
	if err := cmd.Execute(); err != nil {
		logger.LogError(err.Error())
		os.Exit(1)
	}
}
