// Package config provides configuration management for campus-dl.
//
// Settings live in a single JSON file; a missing file means defaults,
// and partial files override only what they name.
//
// # Default Settings
//
//	settings := config.DefaultSettings()
//	// Downloads to ~/Videos/campus
//	// 4 concurrent lesson resolutions
//	// 3 retries with 500ms-8s exponential backoff
//
// # Loading and Saving
//
//	settings, err := config.Load("/path/to/config.json")
//	settings.OutputDir = "/mnt/archive/campus"
//	err = settings.Save("/path/to/config.json")
//
// # Configuration Options
//
// Settings includes options for:
//   - Output directory and video file extension
//   - Resolution concurrency and lesson limits
//   - Retry budget and backoff delays
//   - API base URL, user agent, and session file location
//   - Poster, playlist, and reference-log extras
package config
