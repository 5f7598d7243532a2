package main

import (
	"log"

	"github.com/nexcrm/lead-ingestion-service/internal/config"
	"github.com/nexcrm/lead-ingestion-service/internal/httpserver"
	"github.com/nexcrm/lead-ingestion-service/internal/leads"
	"github.com/nexcrm/lead-ingestion-service/internal/store"
	"github.com/nexcrm/lead-ingestion-service/internal/vendors"
)

// main boots the service: config → DB → schema → vendor clients → HTTP server.
func main() {
	// Load runtime config from environment (DB_URL, API_KEYS, vendor creds).
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Connect to durable storage (Postgres) using a connection pool.
	db, err := store.NewPostgresStore(cfg.DBURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	// Ensure required tables/indexes exist so `docker compose up --build` is enough.
	if err := db.EnsureSchema(); err != nil {
		log.Fatal(err)
	}

	// Vendor clients are built once and injected; handlers never reach for
	// globals.
	meta := vendors.NewMetaClient(cfg.Meta)
	linkedin := vendors.NewLinkedInClient(cfg.LinkedIn)
	analytics := vendors.NewAnalyticsClient(cfg.Google)

	agg := &leads.Aggregator{
		Analytics: analytics,
		Facebook:  leads.FetcherFunc(meta.FetchFacebookLeads),
		Instagram: leads.FetcherFunc(meta.FetchInstagramLeads),
		LinkedIn:  linkedin,
	}

	// Build HTTP router (public health/webhook + authenticated APIs).
	router := httpserver.NewRouter(cfg, db, agg, meta, vendors.NewGoogleOAuthConfig(cfg.Google))

	log.Println("server started on :8080")
	log.Fatal(router.Run(":8080"))
}
