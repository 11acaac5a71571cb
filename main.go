package main

import (
	"context"
	"os"
	"time"

	"github.com/CodeMonkeyCybersecurity/pwgen/cmd"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/logger"
	"github.com/CodeMonkeyCybersecurity/pwgen/pkg/telemetry"
	"go.uber.org/zap"
)

func main() {
	logger.InitializeWithFallback()
	log := logger.L()

	shutdown, err := telemetry.Init("pwgen")
	if err != nil {
		log.Warn("Telemetry disabled", zap.Error(err))
	}

	code := cmd.Execute()

	if shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := shutdown(ctx); err != nil {
			log.Warn("Failed to flush telemetry", zap.Error(err))
		}
		cancel()
	}
	os.Exit(code)
}
