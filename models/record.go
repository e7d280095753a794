// models/record.go
package models

import "time"

// RouteRecord is a single observed occurrence of a directed route, taken from
// one availability snapshot file. Records are immutable once parsed; the
// loader guarantees Origin != Destination and that both are normalized
// 3-letter uppercase airport codes.
type RouteRecord struct {
	Origin         string
	Destination    string
	ObservedDate   time.Time
	SourceFileDate time.Time
}

// SnapshotRow mirrors one line of an availability snapshot CSV.
// CSV tags EXACTLY match the headers of the upstream dataset; columns not
// listed here are ignored.
type SnapshotRow struct {
	DepartureFrom string `csv:"departure_from"`
	DepartureTo   string `csv:"departure_to"`
	DataGenerated string `csv:"data_generated"`
}

// DateRange is an inclusive calendar-date window. Start must not be after End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the range, comparing calendar days.
func (r DateRange) Contains(t time.Time) bool {
	d := DateOnly(t)
	return !d.Before(DateOnly(r.Start)) && !d.After(DateOnly(r.End))
}

// IsValid reports whether Start <= End.
func (r DateRange) IsValid() bool {
	return !r.Start.After(r.End)
}

// DateOnly truncates a timestamp to midnight UTC so snapshot dates compare as
// calendar days regardless of the zone they were parsed in.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
