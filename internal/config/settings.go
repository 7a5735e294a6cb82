package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/naokawa/campus-dl/internal/httpx"
)

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir      string `json:"output_dir"`
	VideoExtension string `json:"video_extension"`
	MaxConcurrency int    `json:"max_concurrency"`
	LimitLessons   int    `json:"limit_lessons"`

	// Retry settings
	Retries         int `json:"retries"`
	RetryMinDelayMS int `json:"retry_min_delay_ms"`
	RetryMaxDelayMS int `json:"retry_max_delay_ms"`

	// Upstream settings
	APIBaseURL  string `json:"api_base_url"`
	UserAgent   string `json:"user_agent"`
	SessionPath string `json:"session_path"`

	// Extras
	SavePoster        bool `json:"save_poster"`
	PosterMaxSize     int  `json:"poster_max_size"`
	CreatePlaylist    bool `json:"create_playlist"`
	WriteReferenceLog bool `json:"write_reference_log"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		OutputDir:      filepath.Join(homeDir, "Videos", "campus"),
		VideoExtension: ".ts",
		MaxConcurrency: 4,
		LimitLessons:   0,

		Retries:         3,
		RetryMinDelayMS: 500,
		RetryMaxDelayMS: 8000,

		APIBaseURL:  "https://api.campus.jp",
		UserAgent:   "campus-dl/1.0",
		SessionPath: filepath.Join(homeDir, ".campus-dl", "session.json"),

		SavePoster:        true,
		PosterMaxSize:     1000,
		CreatePlaylist:    false,
		WriteReferenceLog: true,
	}
}

// Load reads settings from a JSON file. A missing file yields the
// defaults; present fields override them, absent fields keep them.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file, creating parent directories as
// needed.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// RetryPolicy converts the retry settings for the HTTP client.
func (s *Settings) RetryPolicy() httpx.RetryPolicy {
	policy := httpx.DefaultRetryPolicy()
	policy.Retries = s.Retries
	if s.RetryMinDelayMS > 0 {
		policy.MinDelay = time.Duration(s.RetryMinDelayMS) * time.Millisecond
	}
	if s.RetryMaxDelayMS > 0 {
		policy.MaxDelay = time.Duration(s.RetryMaxDelayMS) * time.Millisecond
	}
	return policy
}

// Extension returns the video extension with a leading dot, falling
// back to the default when unset.
func (s *Settings) Extension() string {
	ext := s.VideoExtension
	if ext == "" {
		return ".ts"
	}
	if ext[0] != '.' {
		ext = "." + ext
	}
	return ext
}
