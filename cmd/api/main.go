// cmd/api/main.go
package main

import (
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	godotenv.Load()

	clubServiceURL, _ := url.Parse(getEnv("CLUB_SERVICE_URL", "http://localhost:8083"))
	reportServiceURL, _ := url.Parse(getEnv("REPORT_SERVICE_URL", "http://localhost:8084"))

	clubProxy := httputil.NewSingleHostReverseProxy(clubServiceURL)
	reportProxy := httputil.NewSingleHostReverseProxy(reportServiceURL)

	http.Handle("/api/v1/club/", http.StripPrefix("/api/v1/club", clubProxy))
	http.Handle("/api/v1/reports/", http.StripPrefix("/api/v1/reports", reportProxy))

	port := getEnv("PORT", "8080")
	log.Printf("API Gateway listening on port %s", port)
	log.Fatal(http.ListenAndServe(":"+port, nil))
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
