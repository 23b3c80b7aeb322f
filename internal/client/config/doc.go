// Package config loads runtime configuration for the reviewer CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected with -c or -config. Files ending in
//     .yaml or .yml are decoded with yaml.v3, everything else as JSON.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   review service base URL
//	-t int      request timeout (seconds)
//	-d string   local data directory
//	-o string   default export directory
//	-l string   log level
//
// # File schema
//
// Durations use timex.Duration, so they can be strings like "10s" or
// integer nanoseconds:
//
//	server_url: http://localhost:8000
//	request_timeout: 10s
//	data_dir: .docreview
//	export_dir: download
//	export_target: s3
//	s3:
//	  bucket: reviews
//	  prefix: exports/
//	  region: eu-west-1
//	  endpoint: http://localhost:9000
//	  use_path_style: true
//
// S3 credentials come from access_key_id/secret_access_key when set and from
// the usual AWS environment and shared config otherwise.
package config
