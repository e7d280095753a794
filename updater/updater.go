// updater/updater.go
package updater

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Updater refreshes the local snapshot directory from the upstream archive.
// The upstream publishes one zip containing a data/ folder of dated CSVs; we
// pull the whole thing and swap our directory, rather than tracking
// individual files.
type Updater struct {
	DataDir         string
	UpstreamZipURL  string
	RefreshInterval time.Duration
	Client          *http.Client
}

const stampFileName = "last_update.txt"

// Result reports what a refresh attempt did. It is JSON-friendly so the admin
// endpoint can return it directly.
type Result struct {
	Updated     bool      `json:"updated"`
	Message     string    `json:"message"`
	DataDir     string    `json:"data_dir"`
	LastUpdated time.Time `json:"last_updated"`
}

func New(dataDir, upstreamZipURL string, refreshInterval time.Duration) *Updater {
	return &Updater{
		DataDir:         dataDir,
		UpstreamZipURL:  upstreamZipURL,
		RefreshInterval: refreshInterval,
		Client:          &http.Client{Timeout: 60 * time.Second},
	}
}

// RefreshIfNeeded downloads the upstream archive and replaces the snapshot
// directory, unless the last refresh is still inside the freshness interval
// and force is false. When the download or extraction fails but an existing
// snapshot directory is usable, the old data is kept and the failure is
// reported in the Result instead of an error.
func (u *Updater) RefreshIfNeeded(force bool) (*Result, error) {
	if u.UpstreamZipURL == "" {
		return nil, fmt.Errorf("no upstream zip URL is configured")
	}

	last := u.readStamp()
	now := time.Now()
	if !force && now.Sub(last) < u.RefreshInterval {
		return &Result{
			Updated:     false,
			Message:     "cache fresh; no update needed",
			DataDir:     u.DataDir,
			LastUpdated: last,
		}, nil
	}

	if err := u.refresh(); err != nil {
		if hasCSVFiles(u.DataDir) {
			log.Printf("WARN Updater: refresh failed, keeping existing snapshot data: %v", err)
			return &Result{
				Updated:     false,
				Message:     fmt.Sprintf("update failed, existing data kept: %v", err),
				DataDir:     u.DataDir,
				LastUpdated: last,
			}, nil
		}
		return nil, fmt.Errorf("failed to refresh snapshot data: %w", err)
	}

	u.writeStamp(now)
	log.Printf("Updater: refreshed snapshot data in %s from upstream", u.DataDir)
	return &Result{
		Updated:     true,
		Message:     "downloaded and refreshed snapshot data from upstream",
		DataDir:     u.DataDir,
		LastUpdated: now,
	}, nil
}

func (u *Updater) refresh() error {
	parent := filepath.Dir(u.DataDir)
	if err := os.MkdirAll(parent, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", parent, err)
	}

	// Work area sits next to the data dir so the final rename stays on one
	// filesystem.
	workDir := u.DataDir + ".tmp"
	if err := os.RemoveAll(workDir); err != nil {
		return fmt.Errorf("failed to clear work dir %s: %w", workDir, err)
	}
	defer os.RemoveAll(workDir)
	if err := os.MkdirAll(workDir, 0755); err != nil {
		return fmt.Errorf("failed to create work dir %s: %w", workDir, err)
	}

	zipPath := filepath.Join(workDir, "upstream.zip")
	if err := u.download(zipPath); err != nil {
		return err
	}

	extractDir := filepath.Join(workDir, "extract")
	if err := extractZip(zipPath, extractDir); err != nil {
		return fmt.Errorf("failed to extract %s: %w", zipPath, err)
	}

	dataSrc, err := findDataDir(extractDir)
	if err != nil {
		return err
	}

	if err := os.RemoveAll(u.DataDir); err != nil {
		return fmt.Errorf("failed to remove old data dir %s: %w", u.DataDir, err)
	}
	if err := os.Rename(dataSrc, u.DataDir); err != nil {
		return fmt.Errorf("failed to move fresh data into %s: %w", u.DataDir, err)
	}
	return nil
}

// download fetches the upstream zip to a local path.
func (u *Updater) download(localSavePath string) error {
	log.Printf("Updater: downloading snapshot archive from %s", u.UpstreamZipURL)

	resp, err := u.Client.Get(u.UpstreamZipURL)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", u.UpstreamZipURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download %s: received status code %d", u.UpstreamZipURL, resp.StatusCode)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}
	return nil
}

func extractZip(zipPath, destDir string) error {
	reader, err := zip.OpenReader(zipPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	cleanDest := filepath.Clean(destDir)
	for _, file := range reader.File {
		target := filepath.Join(cleanDest, filepath.Clean(file.Name))
		// Reject entries that would escape the extraction root.
		if !strings.HasPrefix(target, cleanDest+string(os.PathSeparator)) {
			continue
		}
		if file.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
			return err
		}
		src, err := file.Open()
		if err != nil {
			return err
		}
		dst, err := os.Create(target)
		if err != nil {
			src.Close()
			return err
		}
		_, err = io.Copy(dst, src)
		src.Close()
		dst.Close()
		if err != nil {
			return err
		}
	}
	return nil
}

// findDataDir locates the directory inside the extracted archive holding the
// most CSV files. The upstream layout is <repo>-main/data/*.csv, but counting
// keeps us working if the top-level folder is renamed.
func findDataDir(root string) (string, error) {
	best := ""
	bestCount := 0
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		count := countCSVFiles(path)
		if count > bestCount {
			best = path
			bestCount = count
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if best == "" {
		return "", fmt.Errorf("no directory with CSV files found in upstream archive")
	}
	return best, nil
}

func countCSVFiles(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}
	count := 0
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			count++
		}
	}
	return count
}

func hasCSVFiles(dir string) bool {
	found := false
	filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
			found = true
			return filepath.SkipAll
		}
		return nil
	})
	return found
}

func (u *Updater) stampPath() string {
	return filepath.Join(u.DataDir, stampFileName)
}

func (u *Updater) readStamp() time.Time {
	raw, err := os.ReadFile(u.stampPath())
	if err != nil {
		return time.Time{}
	}
	epoch, err := strconv.ParseInt(strings.TrimSpace(string(raw)), 10, 64)
	if err != nil {
		return time.Time{}
	}
	return time.Unix(epoch, 0)
}

func (u *Updater) writeStamp(t time.Time) {
	if err := os.WriteFile(u.stampPath(), []byte(strconv.FormatInt(t.Unix(), 10)), 0644); err != nil {
		log.Printf("WARN Updater: failed to write stamp file: %v", err)
	}
}
