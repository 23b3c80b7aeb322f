package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docreview/internal/flagx"
	"github.com/dmitrijs2005/docreview/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is the DTO decoded from the config file. Empty fields leave
// the current value untouched.
type FileConfig struct {
	Addr          string         `json:"addr" yaml:"addr"`
	SecretKey     string         `json:"secret_key" yaml:"secret_key"`
	TokenValidity timex.Duration `json:"token_validity" yaml:"token_validity"`
	SeedFile      string         `json:"seed_file" yaml:"seed_file"`
	StaticDir     string         `json:"static_dir" yaml:"static_dir"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	if fc.Addr != "" {
		cfg.Addr = fc.Addr
	}
	if fc.SecretKey != "" {
		cfg.SecretKey = fc.SecretKey
	}
	if fc.TokenValidity.Duration != 0 {
		cfg.TokenValidity = fc.TokenValidity.Duration
	}
	if fc.SeedFile != "" {
		cfg.SeedFile = fc.SeedFile
	}
	if fc.StaticDir != "" {
		cfg.StaticDir = fc.StaticDir
	}
}
