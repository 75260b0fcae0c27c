// Command vrc-mock serves the fake VRChat API for local development.
//
//	MOCK_ADDR          listen address (default :8080)
//	MOCK_AUTH_COOKIE   required "auth" cookie; empty disables the check
//	MOCK_LATENCY       delay added to every response, e.g. 150ms
//
// Point the CLI at it with VRC_API_URL=http://localhost:8080/api/1.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"github.com/birbparty/vrcsdk/internal/mockapi"
	"github.com/birbparty/vrcsdk/internal/telemetry"
)

func main() {
	tcfg := telemetry.NewConfigFromEnv()
	if _, ok := os.LookupEnv("OTEL_SERVICE_NAME"); !ok {
		tcfg.ServiceName = "vrc-mock"
	}
	if err := telemetry.Init(tcfg); err != nil {
		telemetry.L().WithError(err).Fatal("Failed to initialize telemetry")
	}
	log := telemetry.L()

	latency, err := time.ParseDuration(getEnv("MOCK_LATENCY", "0s"))
	if err != nil {
		log.WithError(err).Fatal("Invalid MOCK_LATENCY")
	}

	srv := mockapi.New(mockapi.Config{
		AuthCookie: os.Getenv("MOCK_AUTH_COOKIE"),
		Latency:    latency,
		Logger:     log,
	}, nil)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down gracefully")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("Server forced to shutdown")
		}
		_ = telemetry.Shutdown(ctx)
	}()

	addr := getEnv("MOCK_ADDR", ":8080")
	log.WithField("addr", addr).
		WithField("auth", os.Getenv("MOCK_AUTH_COOKIE") != "").
		Info("Mock VRChat API listening")

	if err := srv.Listen(addr); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
