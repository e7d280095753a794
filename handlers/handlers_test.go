// handlers/handlers_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidair/aycf-planner/models"
	"github.com/corvidair/aycf-planner/planner"
	"github.com/corvidair/aycf-planner/updater"
)

type stubPlanner struct {
	suggestResult *planner.SuggestResult
	countsResult  *planner.RouteCountsResult
	err           error
}

func (s *stubPlanner) SuggestItineraries(planner.SuggestInput) (*planner.SuggestResult, error) {
	return s.suggestResult, s.err
}

func (s *stubPlanner) RouteCounts(planner.RouteCountsInput) (*planner.RouteCountsResult, error) {
	return s.countsResult, s.err
}

type stubRefresher struct {
	result *updater.Result
	err    error
	forced bool
}

func (s *stubRefresher) RefreshIfNeeded(force bool) (*updater.Result, error) {
	s.forced = force
	return s.result, s.err
}

func testRange() models.DateRange {
	return models.DateRange{
		Start: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC),
	}
}

func TestSuggestItinerariesHandlerOK(t *testing.T) {
	h := New(&stubPlanner{suggestResult: &planner.SuggestResult{
		Candidates: []models.ItineraryCandidate{
			{Base: "LPL", Hub: "OTP", Target: "KUT", OutboundScore: 0.5, InboundScore: 0.5, CompositeScore: 0.5},
		},
		Stats:           map[models.RouteKey]models.RouteStat{},
		Range:           testRange(),
		ObservationDays: 30,
	}}, nil, "", Options{})

	body, _ := json.Marshal(models.SuggestRequest{
		Base: "LPL", Hubs: []string{"OTP"}, Targets: []string{"KUT"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/suggest", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SuggestItineraries(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.SuggestResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Candidates, 1)
	assert.Equal(t, "2025-06-01", resp.StartDate)
	assert.Equal(t, 30, resp.ObservationDays)
	assert.NotNil(t, resp.RouteStats)
}

func TestSuggestItinerariesHandlerBadJSON(t *testing.T) {
	h := New(&stubPlanner{}, nil, "", Options{})

	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/suggest", bytes.NewReader([]byte("{nope")))
	rec := httptest.NewRecorder()

	h.SuggestItineraries(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestItinerariesHandlerBadDate(t *testing.T) {
	h := New(&stubPlanner{}, nil, "", Options{})

	body, _ := json.Marshal(models.SuggestRequest{
		Base: "LPL", Hubs: []string{"OTP"}, Targets: []string{"KUT"},
		StartDate: "June 1st",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/suggest", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SuggestItineraries(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSuggestItinerariesHandlerInvalidQuery(t *testing.T) {
	h := New(&stubPlanner{err: &planner.InvalidQueryError{Reason: "at least one hub candidate is required"}}, nil, "", Options{})

	body, _ := json.Marshal(models.SuggestRequest{Base: "LPL"})
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/suggest", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SuggestItineraries(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "hub candidate")
}

func TestSuggestItinerariesHandlerConfigError(t *testing.T) {
	h := New(&stubPlanner{err: fmt.Errorf("snapshot directory /nope is not readable: %w", fs.ErrNotExist)}, nil, "", Options{})

	body, _ := json.Marshal(models.SuggestRequest{Base: "LPL", Hubs: []string{"OTP"}, Targets: []string{"KUT"}})
	req := httptest.NewRequest(http.MethodPost, "/api/itineraries/suggest", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	h.SuggestItineraries(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRouteCountsHandler(t *testing.T) {
	h := New(&stubPlanner{countsResult: &planner.RouteCountsResult{
		Routes: []models.RouteStat{
			{Origin: "OTP", Destination: "KUT", OccurrenceCount: 3, TotalObservationDays: 3, StabilityScore: 1.0},
		},
		Range:           testRange(),
		ObservationDays: 3,
	}}, nil, "", Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/routes/counts?airports=OTP,KUT&limit=10", nil)
	rec := httptest.NewRecorder()

	h.RouteCounts(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.RouteCountsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Routes, 1)
	assert.Equal(t, 3, resp.ObservationDays)
}

func TestRouteCountsHandlerBadLimit(t *testing.T) {
	h := New(&stubPlanner{}, nil, "", Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/routes/counts?limit=lots", nil)
	rec := httptest.NewRecorder()

	h.RouteCounts(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthHandler(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-06-01.csv"), []byte("departure_from,departure_to\n"), 0644))

	h := New(&stubPlanner{}, nil, dir, Options{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 1, resp.Files)
}

func TestHealthHandlerMissingDir(t *testing.T) {
	h := New(&stubPlanner{}, nil, filepath.Join(t.TempDir(), "nope"), Options{})

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestRefreshDataHandler(t *testing.T) {
	refresher := &stubRefresher{result: &updater.Result{Updated: true, Message: "refreshed"}}
	h := New(&stubPlanner{}, refresher, "", Options{})

	rec := httptest.NewRecorder()
	h.RefreshData(rec, httptest.NewRequest(http.MethodPost, "/api/admin/refresh-data?force=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, refresher.forced)
	assert.Contains(t, rec.Body.String(), "refreshed")
}

func TestRefreshDataHandlerNotConfigured(t *testing.T) {
	h := New(&stubPlanner{}, nil, "", Options{})

	rec := httptest.NewRecorder()
	h.RefreshData(rec, httptest.NewRequest(http.MethodPost, "/api/admin/refresh-data", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestPlannerOptionsHandler(t *testing.T) {
	h := New(&stubPlanner{}, nil, "", Options{
		BaseAirports:     []string{"LPL"},
		HubCandidates:    []string{"OTP", "BUD"},
		TargetCandidates: []string{"KUT"},
	})

	rec := httptest.NewRecorder()
	h.PlannerOptions(rec, httptest.NewRequest(http.MethodGet, "/api/options", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp models.OptionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, []string{"OTP", "BUD"}, resp.HubCandidates)
}
