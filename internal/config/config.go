package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/text/language"
)

// FetchFlags controls which asset kinds are downloaded for resolved movies.
type FetchFlags struct {
	Poster   bool `json:"poster"`
	Backdrop bool `json:"backdrop"`
	Logo     bool `json:"logo"`
	Trailer  bool `json:"trailer"`
}

// Config is the single configuration value for a run. It is constructed once
// by Load and passed by pointer into every component; nothing reads it from
// ambient state.
type Config struct {
	APIKey            string     `json:"api_key"`
	MoviesPath        string     `json:"movies_path"`
	SearchLanguages   []string   `json:"search_languages"`
	MetadataLanguages []string   `json:"metadata_languages"`
	TrailerLanguages  []string   `json:"trailer_languages"`
	InterfaceLanguage string     `json:"interface_language"`
	Fetch             FetchFlags `json:"fetch"`
	TrailerQuality    string     `json:"trailer_quality"`
	// MinRuntimeMinutes is a pointer so an explicit 0 (floor disabled) is
	// distinguishable from an absent field (default floor).
	MinRuntimeMinutes *int       `json:"min_runtime_minutes"`
	MaxRetries        int        `json:"max_retries"`
	DownloadTimeout   int        `json:"download_timeout_seconds"`
	Workers           int        `json:"workers"`
}

// Default returns the configuration defaults applied over absent fields.
func Default() *Config {
	return &Config{
		SearchLanguages:   []string{"en-US"},
		MetadataLanguages: []string{"en-US"},
		TrailerLanguages:  []string{"en-US"},
		InterfaceLanguage: "es-ES",
		Fetch:             FetchFlags{Poster: true, Backdrop: true, Logo: true},
		TrailerQuality:    "480p",
		MinRuntimeMinutes: intPtr(60),
		MaxRetries:        3,
		DownloadTimeout:   30,
		Workers:           10,
	}
}

// Load reads and validates the configuration file at path. A missing or
// malformed file is startup-fatal; the caller should abort before any
// processing begins.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if len(c.SearchLanguages) == 0 {
		c.SearchLanguages = defaults.SearchLanguages
	}
	if len(c.MetadataLanguages) == 0 {
		c.MetadataLanguages = defaults.MetadataLanguages
	}
	if len(c.TrailerLanguages) == 0 {
		c.TrailerLanguages = defaults.TrailerLanguages
	}
	if c.InterfaceLanguage == "" {
		c.InterfaceLanguage = defaults.InterfaceLanguage
	}
	if c.TrailerQuality == "" {
		c.TrailerQuality = defaults.TrailerQuality
	}
	if c.MinRuntimeMinutes == nil {
		c.MinRuntimeMinutes = defaults.MinRuntimeMinutes
	}
	if c.MaxRetries == 0 {
		c.MaxRetries = defaults.MaxRetries
	}
	if c.DownloadTimeout == 0 {
		c.DownloadTimeout = defaults.DownloadTimeout
	}
	if c.Workers <= 0 {
		c.Workers = defaults.Workers
	}
}

// normalize canonicalizes every language code (es-es -> es-ES) and cleans the
// movies path for the current OS.
func (c *Config) normalize() error {
	for _, list := range [][]string{c.SearchLanguages, c.MetadataLanguages, c.TrailerLanguages} {
		for i, lang := range list {
			canonical, err := canonicalLanguage(lang)
			if err != nil {
				return err
			}
			list[i] = canonical
		}
	}

	canonical, err := canonicalLanguage(c.InterfaceLanguage)
	if err != nil {
		return err
	}
	c.InterfaceLanguage = canonical

	if c.MoviesPath != "" {
		c.MoviesPath = filepath.Clean(c.MoviesPath)
	}
	return nil
}

func canonicalLanguage(lang string) (string, error) {
	tag, err := language.Parse(lang)
	if err != nil {
		return "", fmt.Errorf("invalid language code %q: %w", lang, err)
	}
	return tag.String(), nil
}

var trailerQualities = map[string]bool{
	"240p": true, "360p": true, "480p": true, "720p": true, "1080p": true,
}

func (c *Config) validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.MoviesPath == "" {
		return fmt.Errorf("movies_path is required")
	}
	if !trailerQualities[c.TrailerQuality] {
		return fmt.Errorf("trailer_quality %q is not one of 240p, 360p, 480p, 720p, 1080p", c.TrailerQuality)
	}
	if *c.MinRuntimeMinutes < 0 {
		return fmt.Errorf("min_runtime_minutes must not be negative")
	}
	return nil
}

// PrimaryMetadataLanguage returns the first metadata language; validation
// guarantees the list is non-empty.
func (c *Config) PrimaryMetadataLanguage() string {
	return c.MetadataLanguages[0]
}

// MinRuntime returns the runtime floor in minutes; 0 means the floor is
// disabled. Defaults guarantee the pointer is set after Load.
func (c *Config) MinRuntime() int {
	return *c.MinRuntimeMinutes
}

func intPtr(v int) *int {
	return &v
}
