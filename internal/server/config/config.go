// Package config handles configuration for the development review service,
// including defaults, a JSON or YAML file overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings of the stub review service.
//
// Fields:
//   - Addr: HTTP bind address.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use the default outside development.
//   - TokenValidity: lifetime of issued access tokens.
//   - SeedFile: optional YAML or JSON file with reviewer accounts and documents.
//   - StaticDir: optional directory served under /static/ for document images.
type Config struct {
	Addr          string
	SecretKey     string
	TokenValidity time.Duration
	SeedFile      string
	StaticDir     string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = ":8000"
	c.SecretKey = "dev-secret-key"
	c.TokenValidity = 30 * time.Minute
	c.SeedFile = ""
	c.StaticDir = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional config file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseFile(cfg)
	parseFlags(cfg)
	return cfg
}
