package config

import (
	"path/filepath"
	"time"
)

// S3Config describes the bucket used by the S3 export sink.
type S3Config struct {
	Bucket       string
	Prefix       string
	Region       string
	Endpoint     string
	UsePathStyle bool
	// Static credentials; empty means the default AWS credential chain.
	AccessKeyID     string
	SecretAccessKey string
}

// Config holds runtime settings for the reviewer CLI.
//
// Fields:
//   - ServerURL: base URL of the review service.
//   - RequestTimeout: per-request HTTP timeout.
//   - DataDir: local state (SQLite store, device key, thumbnails).
//   - ExportDir: default destination directory for category exports.
//   - ExportTarget: "dir" or "s3", used by a bare "export" command.
//   - S3: bucket settings for the S3 export sink.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
	DataDir        string
	ExportDir      string
	ExportTarget   string
	S3             S3Config
	LogLevel       string
}

const (
	ExportTargetDir = "dir"
	ExportTargetS3  = "s3"
)

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8000"
	c.RequestTimeout = 10 * time.Second
	c.DataDir = ".docreview"
	c.ExportDir = "download"
	c.ExportTarget = ExportTargetDir
	c.S3 = S3Config{Region: "us-east-1", Prefix: "exports/"}
	c.LogLevel = "info"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// a JSON or YAML file (if given) and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}

func (c *Config) DatabasePath() string { return filepath.Join(c.DataDir, "review.db") }

func (c *Config) KeyPath() string { return filepath.Join(c.DataDir, "device.key") }

func (c *Config) ThumbnailDir() string { return filepath.Join(c.DataDir, "thumbs") }
