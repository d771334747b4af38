package config

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrInvalidKey is returned when a config key contains invalid characters.
var ErrInvalidKey = errors.New("invalid config key")

// ErrNoDefault is returned when no default value exists for a config key.
var ErrNoDefault = errors.New("no default exists")

// Entry is one documented configuration key.
type Entry struct {
	Key         string `json:"key" yaml:"key"`
	Value       any    `json:"value" yaml:"value"`
	Description string `json:"description" yaml:"description"`
}

// DefaultEntries returns every known key with its default value.
// The manager registers each as a viper default so env overrides resolve.
func DefaultEntries() []Entry {
	d := DefaultConfig()
	return []Entry{
		// Server
		{Key: "server.host", Value: d.Server.Host, Description: "Interface the HTTP server binds to"},
		{Key: "server.port", Value: d.Server.Port, Description: "Port the HTTP server listens on"},
		{Key: "server.max_upload_mb", Value: d.Server.MaxUploadMB, Description: "Largest accepted upload for POST /analyze, in MiB"},
		{Key: "server.request_timeout_seconds", Value: d.Server.RequestTimeoutSeconds, Description: "Deadline for a single analysis request; 0 disables it"},

		// Analysis
		{Key: "analysis.max_pages", Value: d.Analysis.MaxPages, Description: "Default page limit; 0 analyzes every page"},
		{Key: "analysis.h1_ratio", Value: d.Analysis.H1Ratio, Description: "Multiple of the median size at which text becomes H1"},
		{Key: "analysis.h2_ratio", Value: d.Analysis.H2Ratio, Description: "Multiple of the median size at which text becomes H2"},
		{Key: "analysis.max_heading_len", Value: d.Analysis.MaxHeadingLen, Description: "Headings and titles must be shorter than this many characters"},
		{Key: "analysis.words_per_minute", Value: d.Analysis.WordsPerMinute, Description: "Reading speed for the read-time estimate"},

		// Workers
		{Key: "workers.count", Value: d.Workers.Count, Description: "Concurrent analyses"},
		{Key: "workers.queue_size", Value: d.Workers.QueueSize, Description: "Analyses allowed to wait before requests are rejected"},
	}
}

// GetDefault returns the default entry for a config key.
// Returns nil if no default exists for the key.
func GetDefault(key string) *Entry {
	for _, entry := range DefaultEntries() {
		if entry.Key == key {
			return &entry
		}
	}
	return nil
}

// LookupDefault is GetDefault with key validation and an error for unknown keys.
func LookupDefault(key string) (*Entry, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	def := GetDefault(key)
	if def == nil {
		return nil, fmt.Errorf("%w for key %q", ErrNoDefault, key)
	}
	return def, nil
}

// ValidateKey checks if a config key contains only allowed characters.
// Valid keys contain: letters, digits, dots, underscores, and hyphens.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidKey)
	}
	for i, r := range key {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '.' && r != '_' && r != '-' {
			return fmt.Errorf("%w: invalid character %q at position %d", ErrInvalidKey, r, i)
		}
	}
	if key[0] == '.' || key[len(key)-1] == '.' {
		return fmt.Errorf("%w: key cannot start or end with a dot", ErrInvalidKey)
	}
	return nil
}
