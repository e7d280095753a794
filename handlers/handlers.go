// handlers/handlers.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/corvidair/aycf-planner/planner"
	"github.com/corvidair/aycf-planner/updater"
)

// PlannerService is the slice of the planner the HTTP layer needs.
type PlannerService interface {
	SuggestItineraries(planner.SuggestInput) (*planner.SuggestResult, error)
	RouteCounts(planner.RouteCountsInput) (*planner.RouteCountsResult, error)
}

// SnapshotRefresher is implemented by *updater.Updater. Nil disables the
// admin refresh endpoint.
type SnapshotRefresher interface {
	RefreshIfNeeded(force bool) (*updater.Result, error)
}

// Options are the configured allow-lists exposed to the form collaborator.
type Options struct {
	BaseAirports     []string
	HubCandidates    []string
	TargetCandidates []string
}

// Handler bundles the HTTP endpoints with their collaborators.
type Handler struct {
	planner   PlannerService
	refresher SnapshotRefresher
	dataDir   string
	options   Options
}

func New(p PlannerService, refresher SnapshotRefresher, dataDir string, options Options) *Handler {
	return &Handler{
		planner:   p,
		refresher: refresher,
		dataDir:   dataDir,
		options:   options,
	}
}

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}
