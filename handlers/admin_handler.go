// handlers/admin_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/corvidair/aycf-planner/models"
)

// Health handles GET /api/health, reporting where snapshots are read from and
// how many files are visible. An unreadable snapshot directory degrades the
// status instead of hiding the problem behind a 200.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	files, err := countSnapshotFiles(h.dataDir)
	if err != nil {
		respondWithJSON(w, http.StatusServiceUnavailable, models.HealthResponse{
			Status:  "error",
			DataDir: h.dataDir,
			Error:   err.Error(),
		})
		return
	}
	respondWithJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "ok",
		DataDir: h.dataDir,
		Files:   files,
	})
}

// RefreshData handles POST /api/admin/refresh-data[?force=1], pulling fresh
// snapshots from the upstream archive.
func (h *Handler) RefreshData(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		respondWithError(w, http.StatusServiceUnavailable, "Snapshot refresh is not configured")
		return
	}

	force := false
	switch strings.ToLower(r.URL.Query().Get("force")) {
	case "1", "true", "yes":
		force = true
	}

	result, err := h.refresher.RefreshIfNeeded(force)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to refresh snapshot data: %v", err))
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func countSnapshotFiles(dir string) (int, error) {
	count := 0
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
