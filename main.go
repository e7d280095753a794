// main.go
package main

import (
	"log"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"github.com/corvidair/aycf-planner/config"
	"github.com/corvidair/aycf-planner/handlers"
	"github.com/corvidair/aycf-planner/planner"
	"github.com/corvidair/aycf-planner/snapshot"
	"github.com/corvidair/aycf-planner/updater"
)

func main() {
	log.Println("Starting AYCF stability planner backend...")

	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load(findConfigPath())
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, snapshot dir: %s", cfg.Server.Port, cfg.Data.Dir)

	loader := snapshot.NewCachedLoader(cfg.Data.Dir)
	plannerSvc := planner.New(loader, cfg.Query.DefaultLookbackDays, cfg.Query.MaxTopN)

	var refresher handlers.SnapshotRefresher
	if cfg.Data.UpstreamZipURL != "" {
		refresher = updater.New(cfg.Data.Dir, cfg.Data.UpstreamZipURL, cfg.Data.RefreshInterval)
	}

	h := handlers.New(plannerSvc, refresher, cfg.Data.Dir, handlers.Options{
		BaseAirports:     cfg.Airports.BaseAirports,
		HubCandidates:    cfg.Airports.HubCandidates,
		TargetCandidates: cfg.Airports.TargetCandidates,
	})

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/api/health", h.Health)
	r.Get("/api/options", h.PlannerOptions)
	r.Get("/api/routes/counts", h.RouteCounts)
	r.Post("/api/itineraries/suggest", h.SuggestItineraries)
	r.Post("/api/admin/refresh-data", h.RefreshData)

	serverAddr := ":" + cfg.Server.Port
	log.Printf("Server starting on http://localhost%s", serverAddr)
	if err := http.ListenAndServe(serverAddr, r); err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}

// findConfigPath checks the usual spots; an empty return means "defaults plus
// environment only", which is a fully supported setup.
func findConfigPath() string {
	for _, path := range []string{"config.yaml", "config/config.yaml"} {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
