// handlers/plan_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/corvidair/aycf-planner/models"
	"github.com/corvidair/aycf-planner/planner"
)

const dateLayout = "2006-01-02"

// SuggestItineraries handles POST /api/itineraries/suggest with a JSON body:
// {"base": "LPL", "hubs": ["OTP","BUD"], "targets": ["KUT"],
//  "start_date": "2025-01-01", "end_date": "2025-06-30", "top_n": 25}
func (h *Handler) SuggestItineraries(w http.ResponseWriter, r *http.Request) {
	var req models.SuggestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	defer r.Body.Close()

	start, err := parseOptionalDate(req.StartDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'start_date'. Use YYYY-MM-DD. Error: "+err.Error())
		return
	}
	end, err := parseOptionalDate(req.EndDate)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'end_date'. Use YYYY-MM-DD. Error: "+err.Error())
		return
	}

	result, err := h.planner.SuggestItineraries(planner.SuggestInput{
		Base:    req.Base,
		Hubs:    req.Hubs,
		Targets: req.Targets,
		Start:   start,
		End:     end,
		TopN:    req.TopN,
	})
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	candidates := result.Candidates
	if candidates == nil { // always return an array in JSON, even if empty
		candidates = []models.ItineraryCandidate{}
	}
	respondWithJSON(w, http.StatusOK, models.SuggestResponse{
		Candidates:      candidates,
		RouteStats:      planner.RankRoutes(result.Stats, 0),
		StartDate:       result.Range.Start.Format(dateLayout),
		EndDate:         result.Range.End.Format(dateLayout),
		ObservationDays: result.ObservationDays,
		FilesSkipped:    result.FilesSkipped,
		RowsSkipped:     result.RowsSkipped,
	})
}

// RouteCounts handles GET /api/routes/counts?start=...&end=...&airports=LPL,OTP&limit=50
func (h *Handler) RouteCounts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	start, err := parseOptionalDate(query.Get("start"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'start'. Use YYYY-MM-DD. Error: "+err.Error())
		return
	}
	end, err := parseOptionalDate(query.Get("end"))
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid 'end'. Use YYYY-MM-DD. Error: "+err.Error())
		return
	}
	limit := 0
	if raw := query.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid 'limit': "+err.Error())
			return
		}
	}
	var airports []string
	if raw := strings.TrimSpace(query.Get("airports")); raw != "" {
		airports = strings.Split(raw, ",")
	}

	result, err := h.planner.RouteCounts(planner.RouteCountsInput{
		Start:    start,
		End:      end,
		Airports: airports,
		Limit:    limit,
	})
	if err != nil {
		respondPipelineError(w, err)
		return
	}

	routes := result.Routes
	if routes == nil {
		routes = []models.RouteStat{}
	}
	respondWithJSON(w, http.StatusOK, models.RouteCountsResponse{
		Routes:          routes,
		StartDate:       result.Range.Start.Format(dateLayout),
		EndDate:         result.Range.End.Format(dateLayout),
		ObservationDays: result.ObservationDays,
	})
}

// PlannerOptions handles GET /api/options, exposing the configured
// base/hub/target allow-lists for form rendering.
func (h *Handler) PlannerOptions(w http.ResponseWriter, _ *http.Request) {
	respondWithJSON(w, http.StatusOK, models.OptionsResponse{
		BaseAirports:     h.options.BaseAirports,
		HubCandidates:    h.options.HubCandidates,
		TargetCandidates: h.options.TargetCandidates,
	})
}

// respondPipelineError maps the planner's error taxonomy onto HTTP statuses:
// invalid queries are the caller's fault, an unreadable snapshot directory is
// a deployment problem, anything else is a plain server error.
func respondPipelineError(w http.ResponseWriter, err error) {
	var invalid *planner.InvalidQueryError
	if errors.As(err, &invalid) {
		respondWithError(w, http.StatusBadRequest, invalid.Reason)
		return
	}
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
		respondWithError(w, http.StatusServiceUnavailable, fmt.Sprintf("Snapshot data unavailable: %v", err))
		return
	}
	respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to run query: %v", err))
}

func parseOptionalDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	return time.Parse(dateLayout, raw)
}
