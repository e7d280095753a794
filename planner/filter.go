// planner/filter.go
package planner

import (
	"iter"

	"github.com/corvidair/aycf-planner/models"
	"github.com/corvidair/aycf-planner/utils"
)

// FilterRecords keeps the records whose source-file date falls inside the
// inclusive range and that touch at least one airport of interest. An empty
// interest set means no airport restriction. The returned sequence is lazy
// and makes a single pass over its input per iteration, so the aggregator can
// consume it directly.
func FilterRecords(records iter.Seq[models.RouteRecord], rng models.DateRange, interest map[string]struct{}) iter.Seq[models.RouteRecord] {
	return func(yield func(models.RouteRecord) bool) {
		for rec := range records {
			if !rng.Contains(rec.SourceFileDate) {
				continue
			}
			if len(interest) > 0 {
				_, fromOK := interest[rec.Origin]
				_, toOK := interest[rec.Destination]
				if !fromOK && !toOK {
					continue
				}
			}
			if !yield(rec) {
				return
			}
		}
	}
}

// AirportSet folds candidate lists into a normalized airports-of-interest set.
func AirportSet(lists ...[]string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, list := range lists {
		for _, code := range list {
			code = utils.NormalizeAirportCode(code)
			if code != "" {
				set[code] = struct{}{}
			}
		}
	}
	return set
}
