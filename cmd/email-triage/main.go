package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mikey/email-triage/internal/adapters/httpapi"
	"github.com/mikey/email-triage/internal/core"
	"github.com/mikey/email-triage/internal/di"
	"github.com/mikey/email-triage/internal/ports"
	"go.uber.org/zap"
)

func main() {
	// Build the dependency injection container
	container, err := di.BuildContainer()
	if err != nil {
		fmt.Printf("Failed to build dependency container: %v\n", err)
		os.Exit(1)
	}

	// Run the application
	if err := container.Invoke(run); err != nil {
		fmt.Printf("Application error: %v\n", err)
		os.Exit(1)
	}
}

// run is the main application function that gets all dependencies injected
func run(
	logger *zap.Logger,
	server *httpapi.Server,
	intakes []ports.Intake,
	llm core.LLMHandle,
	cacheRepo core.CacheRepository,
	history core.HistoryRepository,
) error {
	defer logger.Sync()

	if err := server.Start(); err != nil {
		logger.Error("Failed to start HTTP server", zap.Error(err))
		return err
	}

	for _, intake := range intakes {
		if err := intake.Start(); err != nil {
			logger.Error("Failed to start intake", zap.Error(err))
			server.Stop()
			return err
		}
	}

	// Handle graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	<-sigCh
	logger.Info("Shutting down...")

	for _, intake := range intakes {
		if err := intake.Stop(); err != nil {
			logger.Error("Failed to stop intake", zap.Error(err))
		}
	}

	if err := server.Stop(); err != nil {
		logger.Error("Failed to stop HTTP server", zap.Error(err))
	}

	if err := llm.Close(); err != nil {
		logger.Error("Failed to close LLM client", zap.Error(err))
	}

	// Stop the cache cleanup if needed
	if stopper, ok := cacheRepo.(interface{ Stop() }); ok {
		stopper.Stop()
	}

	if closer, ok := history.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			logger.Error("Failed to close history store", zap.Error(err))
		}
	}

	logger.Info("Shutdown complete")
	return nil
}
