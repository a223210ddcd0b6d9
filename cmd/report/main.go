// cmd/report/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"clubledger/internal/clients"
	"clubledger/internal/report"
	"clubledger/internal/telemetry"
)

func main() {
	godotenv.Load()
	ctx := context.Background()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.Setup(ctx, "clubledger-report")
		if err != nil {
			log.Fatalf("Failed to set up tracing: %v", err)
		}
		defer shutdown(ctx)
	}

	clubURL := getEnv("CLUB_SERVICE_URL", "http://localhost:8083")
	principal := getEnv("REPORT_PRINCIPAL", "reporter")

	reader := clients.NewClubClient(clubURL, principal)
	svc := report.NewService(reader)
	handler := report.NewHandler(svc)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes())

	port := getEnv("PORT", "8084")
	log.Printf("Starting Report Service on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
