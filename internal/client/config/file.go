package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/docreview/internal/flagx"
	"github.com/dmitrijs2005/docreview/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used only for decoding config files. Pointer fields
// tell "absent" apart from zero values so a partial file only overrides what
// it names.
type FileConfig struct {
	ServerURL      *string         `json:"server_url" yaml:"server_url"`
	RequestTimeout *timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	DataDir        *string         `json:"data_dir" yaml:"data_dir"`
	ExportDir      *string         `json:"export_dir" yaml:"export_dir"`
	ExportTarget   *string         `json:"export_target" yaml:"export_target"`
	LogLevel       *string         `json:"log_level" yaml:"log_level"`
	S3             *struct {
		Bucket          *string `json:"bucket" yaml:"bucket"`
		Prefix          *string `json:"prefix" yaml:"prefix"`
		Region          *string `json:"region" yaml:"region"`
		Endpoint        *string `json:"endpoint" yaml:"endpoint"`
		UsePathStyle    *bool   `json:"use_path_style" yaml:"use_path_style"`
		AccessKeyID     *string `json:"access_key_id" yaml:"access_key_id"`
		SecretAccessKey *string `json:"secret_access_key" yaml:"secret_access_key"`
	} `json:"s3" yaml:"s3"`
}

// decodeFile picks the decoder from the file extension: .yaml and .yml go
// through yaml.v3, anything else is treated as JSON.
func decodeFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return &fc, nil
}

func (fc *FileConfig) apply(cfg *Config) {
	setString(&cfg.ServerURL, fc.ServerURL)
	setString(&cfg.DataDir, fc.DataDir)
	setString(&cfg.ExportDir, fc.ExportDir)
	setString(&cfg.ExportTarget, fc.ExportTarget)
	setString(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if s := fc.S3; s != nil {
		setString(&cfg.S3.Bucket, s.Bucket)
		setString(&cfg.S3.Prefix, s.Prefix)
		setString(&cfg.S3.Region, s.Region)
		setString(&cfg.S3.Endpoint, s.Endpoint)
		setString(&cfg.S3.AccessKeyID, s.AccessKeyID)
		setString(&cfg.S3.SecretAccessKey, s.SecretAccessKey)
		if s.UsePathStyle != nil {
			cfg.S3.UsePathStyle = *s.UsePathStyle
		}
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// parseFile overlays Config with values from the file named by -c/-config.
// Panics on read or decode errors; nothing happens when no file is given.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	fc, err := decodeFile(path)
	if err != nil {
		panic(err)
	}
	fc.apply(cfg)
}
