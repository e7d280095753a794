// planner/planner.go
package planner

import (
	"fmt"
	"log"
	"time"

	"github.com/corvidair/aycf-planner/models"
	"github.com/corvidair/aycf-planner/snapshot"
	"github.com/corvidair/aycf-planner/utils"
)

// SnapshotSource is what the planner needs from the snapshot package. In
// production this is a *snapshot.CachedLoader.
type SnapshotSource interface {
	Load() (*snapshot.SnapshotSet, error)
}

// InvalidQueryError reports a query rejected before the pipeline runs, as
// opposed to configuration failures surfaced by the loader or an empty
// result, which is not an error at all.
type InvalidQueryError struct {
	Reason string
}

func (e *InvalidQueryError) Error() string {
	return "invalid query: " + e.Reason
}

func invalidQueryf(format string, args ...any) error {
	return &InvalidQueryError{Reason: fmt.Sprintf(format, args...)}
}

// Planner runs the Load -> Filter -> Aggregate -> Compose pipeline for one
// query. It holds no per-request state; the only shared state is the snapshot
// source, which is read-only.
type Planner struct {
	source          SnapshotSource
	defaultLookback int // days
	maxTopN         int
}

const defaultTopN = 25

func New(source SnapshotSource, defaultLookbackDays, maxTopN int) *Planner {
	return &Planner{
		source:          source,
		defaultLookback: defaultLookbackDays,
		maxTopN:         maxTopN,
	}
}

// SuggestInput holds the parsed parameters of one itinerary query. Zero
// Start/End fall back to the configured lookback window ending today.
type SuggestInput struct {
	Base    string
	Hubs    []string
	Targets []string
	Start   time.Time
	End     time.Time
	TopN    int
}

// SuggestResult is everything the presentation layer needs: the ranked
// candidates, the per-route stats behind them, and enough loader bookkeeping
// to tell "no stable routes" apart from "no data loaded".
type SuggestResult struct {
	Candidates      []models.ItineraryCandidate
	Stats           map[models.RouteKey]models.RouteStat
	Range           models.DateRange
	ObservationDays int
	FilesSkipped    int
	RowsSkipped     int
}

// SuggestItineraries validates the query, then runs the full pipeline.
func (p *Planner) SuggestItineraries(input SuggestInput) (*SuggestResult, error) {
	base := utils.NormalizeAirportCode(input.Base)
	if !utils.IsAirportCode(base) {
		return nil, invalidQueryf("base %q is not a 3-letter airport code", input.Base)
	}
	hubs, err := normalizeCodes(input.Hubs, "hub")
	if err != nil {
		return nil, err
	}
	targets, err := normalizeCodes(input.Targets, "target")
	if err != nil {
		return nil, err
	}
	if len(hubs) == 0 {
		return nil, invalidQueryf("at least one hub candidate is required")
	}
	if len(targets) == 0 {
		return nil, invalidQueryf("at least one target candidate is required")
	}
	rng, err := p.resolveRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}
	topN, err := p.resolveTopN(input.TopN)
	if err != nil {
		return nil, err
	}

	set, err := p.source.Load()
	if err != nil {
		return nil, err
	}

	interest := AirportSet([]string{base}, hubs, targets)
	filtered := FilterRecords(set.All(), rng, interest)
	observationDays := set.ObservationDays(rng)
	stats := Aggregate(filtered, observationDays)
	candidates := ComposeItineraries(stats, base, hubs, targets, topN)

	log.Printf("Service: composed %d itinerary candidates for base %s over %d observation days (%d routes seen)",
		len(candidates), base, observationDays, len(stats))

	return &SuggestResult{
		Candidates:      candidates,
		Stats:           stats,
		Range:           rng,
		ObservationDays: observationDays,
		FilesSkipped:    set.FilesSkipped,
		RowsSkipped:     set.RowsSkipped,
	}, nil
}

// RouteCountsInput selects a window and an optional airport restriction for
// the raw ranked route listing.
type RouteCountsInput struct {
	Start    time.Time
	End      time.Time
	Airports []string
	Limit    int
}

type RouteCountsResult struct {
	Routes          []models.RouteStat
	Range           models.DateRange
	ObservationDays int
}

// RouteCounts aggregates and ranks every observed route in the window without
// composing itineraries. An empty airport list means no restriction.
func (p *Planner) RouteCounts(input RouteCountsInput) (*RouteCountsResult, error) {
	airports, err := normalizeCodes(input.Airports, "airport")
	if err != nil {
		return nil, err
	}
	rng, err := p.resolveRange(input.Start, input.End)
	if err != nil {
		return nil, err
	}

	set, err := p.source.Load()
	if err != nil {
		return nil, err
	}

	filtered := FilterRecords(set.All(), rng, AirportSet(airports))
	observationDays := set.ObservationDays(rng)
	stats := Aggregate(filtered, observationDays)

	return &RouteCountsResult{
		Routes:          RankRoutes(stats, input.Limit),
		Range:           rng,
		ObservationDays: observationDays,
	}, nil
}

// resolveRange fills in missing endpoints from the lookback default and
// rejects inverted ranges.
func (p *Planner) resolveRange(start, end time.Time) (models.DateRange, error) {
	today := models.DateOnly(time.Now())
	if end.IsZero() {
		end = today
	} else {
		end = models.DateOnly(end)
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -p.defaultLookback)
	} else {
		start = models.DateOnly(start)
	}
	rng := models.DateRange{Start: start, End: end}
	if !rng.IsValid() {
		return models.DateRange{}, invalidQueryf("start date %s is after end date %s",
			start.Format("2006-01-02"), end.Format("2006-01-02"))
	}
	return rng, nil
}

func (p *Planner) resolveTopN(topN int) (int, error) {
	if topN == 0 {
		return defaultTopN, nil
	}
	if topN < 0 {
		return 0, invalidQueryf("top_n must be positive, got %d", topN)
	}
	if topN > p.maxTopN {
		topN = p.maxTopN
	}
	return topN, nil
}

// normalizeCodes uppercases, validates and de-duplicates a candidate list,
// preserving the caller's order.
func normalizeCodes(codes []string, kind string) ([]string, error) {
	out := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, raw := range codes {
		code := utils.NormalizeAirportCode(raw)
		if code == "" {
			continue
		}
		if !utils.IsAirportCode(code) {
			return nil, invalidQueryf("%s %q is not a 3-letter airport code", kind, raw)
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}
