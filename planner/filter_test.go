// planner/filter_test.go
package planner

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/corvidair/aycf-planner/models"
)

func day(d int) time.Time {
	return time.Date(2025, 6, d, 0, 0, 0, 0, time.UTC)
}

func record(origin, destination string, d int) models.RouteRecord {
	return models.RouteRecord{
		Origin:         origin,
		Destination:    destination,
		ObservedDate:   day(d),
		SourceFileDate: day(d),
	}
}

func collect(records func(yield func(models.RouteRecord) bool)) []models.RouteRecord {
	var out []models.RouteRecord
	for rec := range records {
		out = append(out, rec)
	}
	return out
}

func TestFilterRecordsByDateRange(t *testing.T) {
	set := &testRecords{records: []models.RouteRecord{
		record("LPL", "OTP", 1),
		record("LPL", "OTP", 5),
		record("LPL", "OTP", 10),
	}}
	rng := models.DateRange{Start: day(2), End: day(9)}

	got := collect(FilterRecords(set.All(), rng, nil))
	assert.Len(t, got, 1)
	assert.Equal(t, day(5), got[0].SourceFileDate)
}

func TestFilterRecordsRangeIsInclusive(t *testing.T) {
	set := &testRecords{records: []models.RouteRecord{
		record("LPL", "OTP", 1),
		record("LPL", "OTP", 3),
	}}
	rng := models.DateRange{Start: day(1), End: day(3)}

	got := collect(FilterRecords(set.All(), rng, nil))
	assert.Len(t, got, 2)
}

func TestFilterRecordsByAirportsOfInterest(t *testing.T) {
	set := &testRecords{records: []models.RouteRecord{
		record("LPL", "OTP", 1),
		record("OTP", "KUT", 1),
		record("BUD", "TLV", 1),
	}}
	rng := models.DateRange{Start: day(1), End: day(1)}

	got := collect(FilterRecords(set.All(), rng, AirportSet([]string{"LPL", "KUT"})))
	assert.Len(t, got, 2, "a record qualifies when either endpoint is of interest")

	// Empty interest set means no restriction.
	got = collect(FilterRecords(set.All(), rng, nil))
	assert.Len(t, got, 3)
}

func TestFilterRecordsIsIdempotent(t *testing.T) {
	set := &testRecords{records: []models.RouteRecord{
		record("LPL", "OTP", 1),
		record("OTP", "KUT", 2),
		record("BUD", "TLV", 3),
	}}
	rng := models.DateRange{Start: day(1), End: day(2)}
	interest := AirportSet([]string{"LPL", "OTP", "KUT"})

	once := collect(FilterRecords(set.All(), rng, interest))
	twice := collect(FilterRecords(FilterRecords(set.All(), rng, interest), rng, interest))
	assert.Equal(t, once, twice)
}

func TestAirportSetNormalizes(t *testing.T) {
	set := AirportSet([]string{"lpl", " otp "}, []string{"LPL"})
	assert.Len(t, set, 2)
	_, ok := set["LPL"]
	assert.True(t, ok)
	_, ok = set["OTP"]
	assert.True(t, ok)
}

// testRecords is a minimal in-memory stand-in for snapshot.SnapshotSet.
type testRecords struct {
	records []models.RouteRecord
}

func (s *testRecords) All() func(yield func(models.RouteRecord) bool) {
	return func(yield func(models.RouteRecord) bool) {
		for _, rec := range s.records {
			if !yield(rec) {
				return
			}
		}
	}
}
