// planner/aggregate.go
package planner

import (
	"iter"
	"sort"
	"time"

	"github.com/corvidair/aycf-planner/models"
)

// Aggregate groups filtered records by directed route and computes per-route
// stability. observationDays is the number of distinct snapshot dates inside
// the query window across the whole loaded set, so a route present on every
// one of those days scores exactly 1.0 and an absent day drags the score
// down even when the route was never observable that day.
//
// OccurrenceCount is the raw number of records for the route; the score
// numerator is the count of distinct snapshot dates the route appeared on,
// which keeps the score inside [0,1] even when one snapshot lists a route
// twice. Routes with zero occurrences are never materialized.
func Aggregate(records iter.Seq[models.RouteRecord], observationDays int) map[models.RouteKey]models.RouteStat {
	stats := make(map[models.RouteKey]models.RouteStat)
	if observationDays <= 0 {
		return stats
	}

	appearanceDays := make(map[models.RouteKey]map[time.Time]struct{})
	for rec := range records {
		key := models.RouteKey{Origin: rec.Origin, Destination: rec.Destination}
		stat, ok := stats[key]
		if !ok {
			stat = models.RouteStat{
				Origin:               rec.Origin,
				Destination:          rec.Destination,
				TotalObservationDays: observationDays,
			}
			appearanceDays[key] = make(map[time.Time]struct{})
		}
		stat.OccurrenceCount++
		stats[key] = stat
		appearanceDays[key][models.DateOnly(rec.SourceFileDate)] = struct{}{}
	}

	for key, stat := range stats {
		score := float64(len(appearanceDays[key])) / float64(observationDays)
		if score > 1 {
			score = 1
		}
		stat.StabilityScore = score
		stats[key] = stat
	}
	return stats
}

// RankRoutes orders stats by stability score descending. Ties break on higher
// occurrence count, then lexicographic (origin, destination). A limit <= 0
// returns all routes.
func RankRoutes(stats map[models.RouteKey]models.RouteStat, limit int) []models.RouteStat {
	ranked := make([]models.RouteStat, 0, len(stats))
	for _, stat := range stats {
		ranked = append(ranked, stat)
	}
	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.StabilityScore != b.StabilityScore {
			return a.StabilityScore > b.StabilityScore
		}
		if a.OccurrenceCount != b.OccurrenceCount {
			return a.OccurrenceCount > b.OccurrenceCount
		}
		if a.Origin != b.Origin {
			return a.Origin < b.Origin
		}
		return a.Destination < b.Destination
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
