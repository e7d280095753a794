// snapshot/loader.go
package snapshot

import (
	"encoding/csv"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/jszwec/csvutil"

	"github.com/corvidair/aycf-planner/models"
	"github.com/corvidair/aycf-planner/utils"
)

// Snapshot filenames embed the observation date, e.g. "2025-06-01.csv" or
// "availability-2025-06-01_06-00.csv".
var fileDatePattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// Loader reads dated availability snapshot CSVs from a directory tree.
type Loader struct {
	Dir string
}

func NewLoader(dir string) *Loader {
	return &Loader{Dir: dir}
}

// SnapshotSet is the parsed result of one directory scan. It is immutable
// after Load returns, so it can be shared between concurrent requests.
type SnapshotSet struct {
	Records      []models.RouteRecord
	Dates        []time.Time // distinct snapshot dates, ascending
	FilesLoaded  int
	FilesSkipped int
	RowsSkipped  int
}

// All returns a restartable lazy sequence over the loaded records.
func (s *SnapshotSet) All() iter.Seq[models.RouteRecord] {
	return func(yield func(models.RouteRecord) bool) {
		for _, rec := range s.Records {
			if !yield(rec) {
				return
			}
		}
	}
}

// ObservationDays counts the distinct snapshot dates that fall inside the
// inclusive range. This is the stability-score denominator: it measures
// observation opportunity, not hits.
func (s *SnapshotSet) ObservationDays(rng models.DateRange) int {
	n := 0
	for _, d := range s.Dates {
		if rng.Contains(d) {
			n++
		}
	}
	return n
}

// FileCount reports how many snapshot files the scan saw, loaded or not.
func (s *SnapshotSet) FileCount() int {
	return s.FilesLoaded + s.FilesSkipped
}

// Load scans the directory for snapshot CSVs and parses them into route
// records. Files with an unparsable name or unreadable content are skipped
// and counted, never fatal; only a missing or unreadable directory is an
// error, since that is a configuration problem rather than bad data.
func (l *Loader) Load() (*SnapshotSet, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("snapshot directory %s is not readable: %w", l.Dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("snapshot path %s is not a directory", l.Dir)
	}

	var paths []string
	err = filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate snapshots in %s: %w", l.Dir, err)
	}
	sort.Strings(paths)

	set := &SnapshotSet{}
	dates := make(map[time.Time]struct{})
	for _, path := range paths {
		name := filepath.Base(path)
		fileDate, ok := parseFileDate(name)
		if !ok {
			log.Printf("WARN Loader: skipping %s: no snapshot date in filename", name)
			set.FilesSkipped++
			continue
		}
		records, rowsSkipped, err := loadFile(path, fileDate)
		if err != nil {
			log.Printf("WARN Loader: skipping %s: %v", name, err)
			set.FilesSkipped++
			continue
		}
		set.FilesLoaded++
		set.RowsSkipped += rowsSkipped
		set.Records = append(set.Records, records...)
		dates[fileDate] = struct{}{}
	}

	set.Dates = make([]time.Time, 0, len(dates))
	for d := range dates {
		set.Dates = append(set.Dates, d)
	}
	sort.Slice(set.Dates, func(i, j int) bool { return set.Dates[i].Before(set.Dates[j]) })

	log.Printf("Loader: loaded %d records from %d files (%d files skipped, %d rows skipped)",
		len(set.Records), set.FilesLoaded, set.FilesSkipped, set.RowsSkipped)
	return set, nil
}

// loadFile parses one snapshot CSV. Rows with missing or malformed airport
// codes are skipped and counted; a file without the required columns is
// rejected as a whole so the caller can count it as a skipped file.
func loadFile(path string, fileDate time.Time) ([]models.RouteRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	csvReader := csv.NewReader(f)
	csvReader.FieldsPerRecord = -1
	decoder, err := csvutil.NewDecoder(csvReader)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create CSV decoder: %w", err)
	}
	if !hasRequiredColumns(decoder.Header()) {
		return nil, 0, fmt.Errorf("missing departure_from/departure_to columns")
	}

	var records []models.RouteRecord
	rowsSkipped := 0
	for {
		var row models.SnapshotRow
		if err := decoder.Decode(&row); err == io.EOF {
			break
		} else if err != nil {
			rowsSkipped++
			continue
		}
		rec, ok := rowToRecord(row, fileDate)
		if !ok {
			rowsSkipped++
			continue
		}
		records = append(records, rec)
	}
	return records, rowsSkipped, nil
}

func hasRequiredColumns(header []string) bool {
	var hasFrom, hasTo bool
	for _, col := range header {
		switch strings.TrimSpace(col) {
		case "departure_from":
			hasFrom = true
		case "departure_to":
			hasTo = true
		}
	}
	return hasFrom && hasTo
}

func rowToRecord(row models.SnapshotRow, fileDate time.Time) (models.RouteRecord, bool) {
	origin := utils.NormalizeAirportCode(row.DepartureFrom)
	destination := utils.NormalizeAirportCode(row.DepartureTo)
	if !utils.IsAirportCode(origin) || !utils.IsAirportCode(destination) || origin == destination {
		return models.RouteRecord{}, false
	}

	// Rows may carry the crawl timestamp; when absent or unparsable the
	// record's observed date falls back to the file date.
	observed := fileDate
	if row.DataGenerated != "" {
		if ts, err := parseRowTimestamp(row.DataGenerated); err == nil {
			observed = models.DateOnly(ts)
		}
	}

	return models.RouteRecord{
		Origin:         origin,
		Destination:    destination,
		ObservedDate:   observed,
		SourceFileDate: fileDate,
	}, true
}

var rowTimestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseRowTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range rowTimestampLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseFileDate(name string) (time.Time, bool) {
	match := fileDatePattern.FindString(name)
	if match == "" {
		return time.Time{}, false
	}
	t, err := time.Parse("2006-01-02", match)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
