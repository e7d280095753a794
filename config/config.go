// config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DataConfig struct {
	// Dir is where the dated snapshot CSVs live. Overridden by AYCF_DATA_DIR.
	Dir string `yaml:"dir"`
	// UpstreamZipURL is the archive the updater pulls fresh snapshots from.
	// Overridden by AYCF_UPSTREAM_ZIP; empty disables the updater.
	UpstreamZipURL     string `yaml:"upstream_zip_url"`
	RefreshIntervalStr string `yaml:"refresh_interval"`
	RefreshInterval    time.Duration
}

type QueryConfig struct {
	// DefaultLookbackDays is used when a query omits its date range.
	DefaultLookbackDays int `yaml:"default_lookback_days"`
	MaxTopN             int `yaml:"max_top_n"`
}

// AirportsConfig holds the user-extensible allow-lists shown by the form
// collaborator. Queries may still pass any codes they like; these are only
// UI defaults.
type AirportsConfig struct {
	BaseAirports     []string `yaml:"base_airports"`
	HubCandidates    []string `yaml:"hub_candidates"`
	TargetCandidates []string `yaml:"target_candidates"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Data     DataConfig     `yaml:"data"`
	Query    QueryConfig    `yaml:"query"`
	Airports AirportsConfig `yaml:"airports"`
}

const (
	defaultPort            = "8080"
	defaultDataDir         = "./data"
	defaultUpstreamZipURL  = "https://github.com/markvincevarga/wizzair-aycf-availability/archive/refs/heads/main.zip"
	defaultRefreshInterval = 24 * time.Hour
	defaultLookbackDays    = 180
	minLookbackDays        = 7
	maxLookbackDays        = 730
	defaultMaxTopN         = 200
)

// Default returns the built-in configuration, used when no config file is
// present. The airport lists mirror the routes the AYCF program actually
// flies from the UK bases.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: defaultPort},
		Data: DataConfig{
			Dir:             defaultDataDir,
			UpstreamZipURL:  defaultUpstreamZipURL,
			RefreshInterval: defaultRefreshInterval,
		},
		Query: QueryConfig{
			DefaultLookbackDays: defaultLookbackDays,
			MaxTopN:             defaultMaxTopN,
		},
		Airports: AirportsConfig{
			BaseAirports:     []string{"LPL", "LTN", "BHX", "LBA"},
			HubCandidates:    []string{"OTP", "BUD", "WAW", "GDN", "KRK", "KTW", "LPL", "LTN"},
			TargetCandidates: []string{"KUT", "EVN", "AMM", "DXB", "AUH", "HRG", "SSH", "TLV", "RAK"},
		},
	}
}

// Load reads configuration from the given YAML file, then applies environment
// overrides. A missing file is not an error: the defaults already describe a
// runnable setup, and deployments that only use env vars carry no file at all.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		file, err := os.ReadFile(configPath)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
		} else {
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config %s: %w", configPath, err)
			}
		}
	}

	applyEnvOverrides(cfg)

	// Parse durations
	if cfg.Data.RefreshIntervalStr != "" {
		interval, err := time.ParseDuration(cfg.Data.RefreshIntervalStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse refresh_interval: %w", err)
		}
		cfg.Data.RefreshInterval = interval
	}
	if cfg.Data.RefreshInterval <= 0 {
		cfg.Data.RefreshInterval = defaultRefreshInterval
	}

	if cfg.Query.DefaultLookbackDays < minLookbackDays {
		cfg.Query.DefaultLookbackDays = minLookbackDays
	}
	if cfg.Query.DefaultLookbackDays > maxLookbackDays {
		cfg.Query.DefaultLookbackDays = maxLookbackDays
	}
	if cfg.Query.MaxTopN < 1 {
		cfg.Query.MaxTopN = defaultMaxTopN
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("AYCF_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv("AYCF_PORT") == "" {
		cfg.Server.Port = v
	}
	if v := os.Getenv("AYCF_DATA_DIR"); v != "" {
		cfg.Data.Dir = v
	}
	if v := os.Getenv("AYCF_UPSTREAM_ZIP"); v != "" {
		cfg.Data.UpstreamZipURL = v
	}
	if v := os.Getenv("AYCF_REFRESH_INTERVAL"); v != "" {
		cfg.Data.RefreshIntervalStr = v
	}
}
