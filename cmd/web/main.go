package main

import (
	"momentum_backend/internal/app"
	"momentum_backend/internal/logger"
)

func main() {
	if err := app.Run(); err != nil {
		logger.Fatal("application exited with error", "error", err)
	}
}
