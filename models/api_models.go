// models/api_models.go
package models

// SuggestRequest is the expected JSON body for the /api/itineraries/suggest
// endpoint. Dates use the "YYYY-MM-DD" format; when absent, the server falls
// back to its configured lookback window ending today.
type SuggestRequest struct {
	Base      string   `json:"base"`       // e.g. "LPL"
	Hubs      []string `json:"hubs"`       // e.g. ["OTP", "BUD"]
	Targets   []string `json:"targets"`    // e.g. ["KUT", "EVN"]
	StartDate string   `json:"start_date,omitempty"`
	EndDate   string   `json:"end_date,omitempty"`
	TopN      int      `json:"top_n,omitempty"`
}

// SuggestResponse carries the ranked candidates plus the per-route stats the
// presentation layer renders as percentages and booking deep links.
type SuggestResponse struct {
	Candidates      []ItineraryCandidate `json:"candidates"`
	RouteStats      []RouteStat          `json:"route_stats"`
	StartDate       string               `json:"start_date"`
	EndDate         string               `json:"end_date"`
	ObservationDays int                  `json:"observation_days"`
	FilesSkipped    int                  `json:"files_skipped"`
	RowsSkipped     int                  `json:"rows_skipped"`
}

// RouteCountsResponse is the payload for the /api/routes/counts endpoint.
type RouteCountsResponse struct {
	Routes          []RouteStat `json:"routes"`
	StartDate       string      `json:"start_date"`
	EndDate         string      `json:"end_date"`
	ObservationDays int         `json:"observation_days"`
}

// HealthResponse reports service status plus where snapshots are read from.
type HealthResponse struct {
	Status  string `json:"status"`
	DataDir string `json:"data_dir"`
	Files   int    `json:"files"`
	Error   string `json:"error,omitempty"`
}

// OptionsResponse exposes the configured allow-lists so a form collaborator
// can render base/hub/target pickers without hardcoding them.
type OptionsResponse struct {
	BaseAirports     []string `json:"base_airports"`
	HubCandidates    []string `json:"hub_candidates"`
	TargetCandidates []string `json:"target_candidates"`
}
