package config

import (
	"fmt"
	"runtime"
	"time"

	"github.com/jackzampolin/docustruct/internal/outline"
)

// Config holds docustruct configuration.
// Stored at: {home}/config.yaml
type Config struct {
	Server   ServerCfg   `mapstructure:"server" yaml:"server" json:"server"`
	Analysis AnalysisCfg `mapstructure:"analysis" yaml:"analysis" json:"analysis"`
	Workers  WorkersCfg  `mapstructure:"workers" yaml:"workers" json:"workers"`
}

// ServerCfg configures the HTTP server.
type ServerCfg struct {
	Host                  string `mapstructure:"host" yaml:"host" json:"host"`
	Port                  string `mapstructure:"port" yaml:"port" json:"port"`
	MaxUploadMB           int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`                               // Upload cap for POST /analyze
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" yaml:"request_timeout_seconds" json:"request_timeout_seconds"` // Per-analysis deadline
}

// AnalysisCfg tunes the outline heuristics.
type AnalysisCfg struct {
	MaxPages       int     `mapstructure:"max_pages" yaml:"max_pages" json:"max_pages"` // 0 analyzes every page
	H1Ratio        float64 `mapstructure:"h1_ratio" yaml:"h1_ratio" json:"h1_ratio"`
	H2Ratio        float64 `mapstructure:"h2_ratio" yaml:"h2_ratio" json:"h2_ratio"`
	MaxHeadingLen  int     `mapstructure:"max_heading_len" yaml:"max_heading_len" json:"max_heading_len"`
	WordsPerMinute int     `mapstructure:"words_per_minute" yaml:"words_per_minute" json:"words_per_minute"`
}

// WorkersCfg sizes the analysis worker pool.
type WorkersCfg struct {
	Count     int `mapstructure:"count" yaml:"count" json:"count"`
	QueueSize int `mapstructure:"queue_size" yaml:"queue_size" json:"queue_size"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host:                  "127.0.0.1",
			Port:                  "8080",
			MaxUploadMB:           50,
			RequestTimeoutSeconds: 60,
		},
		Analysis: AnalysisCfg{
			MaxPages:       0,
			H1Ratio:        outline.DefaultH1Ratio,
			H2Ratio:        outline.DefaultH2Ratio,
			MaxHeadingLen:  outline.DefaultMaxHeadingLen,
			WordsPerMinute: outline.DefaultWordsPerMinute,
		},
		Workers: WorkersCfg{
			Count:     runtime.NumCPU(),
			QueueSize: 64,
		},
	}
}

// Validate rejects settings the analyzer or server cannot run with.
func (c *Config) Validate() error {
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be positive, got %d", c.Server.MaxUploadMB)
	}
	if c.Server.RequestTimeoutSeconds < 0 {
		return fmt.Errorf("server.request_timeout_seconds must not be negative, got %d", c.Server.RequestTimeoutSeconds)
	}
	if c.Analysis.MaxPages < 0 {
		return fmt.Errorf("analysis.max_pages must not be negative, got %d", c.Analysis.MaxPages)
	}
	if c.Analysis.H1Ratio < c.Analysis.H2Ratio {
		return fmt.Errorf("analysis.h1_ratio (%g) must be >= analysis.h2_ratio (%g)",
			c.Analysis.H1Ratio, c.Analysis.H2Ratio)
	}
	if c.Analysis.H2Ratio <= 0 {
		return fmt.Errorf("analysis.h2_ratio must be positive, got %g", c.Analysis.H2Ratio)
	}
	if c.Workers.QueueSize < 0 || c.Workers.Count < 0 {
		return fmt.Errorf("workers.count and workers.queue_size must not be negative")
	}
	return nil
}

// ToOptions converts the analysis section into analyzer options.
func (c *Config) ToOptions() outline.Options {
	return outline.Options{
		H1Ratio:        c.Analysis.H1Ratio,
		H2Ratio:        c.Analysis.H2Ratio,
		MaxHeadingLen:  c.Analysis.MaxHeadingLen,
		WordsPerMinute: c.Analysis.WordsPerMinute,
	}
}

// MaxUploadBytes returns the upload cap in bytes.
func (c *Config) MaxUploadBytes() int64 {
	return int64(c.Server.MaxUploadMB) << 20
}

// RequestTimeout returns the per-analysis deadline; zero means none.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.Server.RequestTimeoutSeconds) * time.Second
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
