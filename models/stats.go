// models/stats.go
package models

// RouteKey identifies a directed route in the aggregated stats map.
type RouteKey struct {
	Origin      string
	Destination string
}

// RouteStat holds the observed frequency of one directed route inside a query
// window. StabilityScore is the fraction of distinct observation days in the
// window on which the route appeared, so it is always in [0,1].
type RouteStat struct {
	Origin               string  `json:"origin"`
	Destination          string  `json:"destination"`
	OccurrenceCount      int     `json:"occurrence_count"`
	TotalObservationDays int     `json:"total_observation_days"`
	StabilityScore       float64 `json:"stability_score"`
}

// Key returns the map key for this stat.
func (s RouteStat) Key() RouteKey {
	return RouteKey{Origin: s.Origin, Destination: s.Destination}
}

// ItineraryCandidate is one scored Base -> Hub -> Target combination,
// including the hub-mediated return. CompositeScore is the weakest-link
// minimum of the outbound and inbound chains: a multi-leg itinerary is only
// as stable as its least frequent leg.
type ItineraryCandidate struct {
	Base           string  `json:"base"`
	Hub            string  `json:"hub"`
	Target         string  `json:"target"`
	OutboundScore  float64 `json:"outbound_score"`
	InboundScore   float64 `json:"inbound_score"`
	CompositeScore float64 `json:"composite_score"`
}
