package main

import (
	"flag"
	"net/http"
	"os"

	"github.com/adityasawant2/idcarddetection/internal/logger"
	"github.com/adityasawant2/idcarddetection/internal/mockapi"
)

// mockapi serves an in-memory stand-in for the verification backend,
// for local development and demos without the Python service.
func main() {
	addr := flag.String("addr", ":8000", "listen address")
	secret := flag.String("secret", "dev-secret", "JWT signing secret")
	flag.Parse()

	logger.Init(os.Getenv("IDVERIFY_LOG_LEVEL"), os.Getenv("IDVERIFY_LOG_FORMAT"))
	log := logger.GetLogger()

	srv := mockapi.New(*secret)

	adminEmail := os.Getenv("MOCKAPI_ADMIN_EMAIL")
	adminPassword := os.Getenv("MOCKAPI_ADMIN_PASSWORD")
	if adminEmail == "" {
		adminEmail = "admin@example.com"
		adminPassword = "admin123"
		log.Warn().Str("email", adminEmail).Msg("No admin configured; seeding default admin account")
	}
	if _, err := srv.SeedAdmin(adminEmail, adminPassword, "Administrator"); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	log.Info().Str("addr", *addr).Msg("Starting mock verification API")

	if err := http.ListenAndServe(*addr, srv.Handler()); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
