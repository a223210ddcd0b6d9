// cmd/club/main.go
package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/time/rate"

	"clubledger/internal/auth"
	"clubledger/internal/club"
	"clubledger/internal/telemetry"
	"clubledger/pkg/eventstore"
)

func main() {
	godotenv.Load()
	ctx := context.Background()

	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" {
		shutdown, err := telemetry.Setup(ctx, "clubledger-club")
		if err != nil {
			log.Fatalf("Failed to set up tracing: %v", err)
		}
		defer shutdown(ctx)
	}

	owner := getEnv("CLUB_OWNER", "owner")
	authz := auth.NewAllowList(owner)

	var keys *auth.KeyRing
	if apiKey := os.Getenv("CLUB_OWNER_API_KEY"); apiKey != "" {
		keys = auth.NewKeyRing()
		if err := keys.Register(owner, apiKey); err != nil {
			log.Fatalf("Failed to register owner API key: %v", err)
		}
	}

	// The journal is optional: without a DATABASE_URL the ledger runs purely
	// in memory.
	var journal club.Journal
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		db, err := sql.Open("postgres", dbURL)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		store := eventstore.New(db)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("Failed to prepare journal schema: %v", err)
		}
		recorder := eventstore.NewRecorder(store, "club")
		log.Printf("Journaling to stream %s", recorder.StreamID())
		journal = recorder
	}

	svc := club.NewService(authz, journal)
	handler := club.NewHandler(svc, keys, authz)

	// Five mutations per minute, shared across the write endpoints.
	limiter := rate.NewLimiter(rate.Every(12*time.Second), 5)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes(limiter))

	port := getEnv("PORT", "8083")
	log.Printf("Starting Club Service on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
