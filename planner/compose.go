// planner/compose.go
package planner

import (
	"sort"

	"github.com/corvidair/aycf-planner/models"
)

// ComposeItineraries scores every (hub, target) combination for the base
// airport. Outbound chains base->hub with hub->target, inbound chains
// target->hub with hub->base; each chain and the composite take the minimum
// of their legs, since the itinerary is only as stable as its weakest leg.
// A leg with no recorded stat contributes 0; combinations are never dropped
// for missing legs, they just sink to the bottom of the ranking so the
// presentation layer can decide whether to hide them. At most topN
// candidates are returned.
func ComposeItineraries(stats map[models.RouteKey]models.RouteStat, base string, hubs, targets []string, topN int) []models.ItineraryCandidate {
	if topN <= 0 || len(hubs) == 0 || len(targets) == 0 {
		return nil
	}

	score := func(origin, destination string) float64 {
		if stat, ok := stats[models.RouteKey{Origin: origin, Destination: destination}]; ok {
			return stat.StabilityScore
		}
		return 0
	}

	candidates := make([]models.ItineraryCandidate, 0, len(hubs)*len(targets))
	for _, hub := range hubs {
		for _, target := range targets {
			outbound := min(score(base, hub), score(hub, target))
			inbound := min(score(target, hub), score(hub, base))
			candidates = append(candidates, models.ItineraryCandidate{
				Base:           base,
				Hub:            hub,
				Target:         target,
				OutboundScore:  outbound,
				InboundScore:   inbound,
				CompositeScore: min(outbound, inbound),
			})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.CompositeScore != b.CompositeScore {
			return a.CompositeScore > b.CompositeScore
		}
		if a.InboundScore != b.InboundScore {
			return a.InboundScore > b.InboundScore
		}
		if a.Hub != b.Hub {
			return a.Hub < b.Hub
		}
		return a.Target < b.Target
	})

	if len(candidates) > topN {
		candidates = candidates[:topN]
	}
	return candidates
}
