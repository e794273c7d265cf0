// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/cinematch/config.yaml",
	"/etc/cinematch/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		// Bucket names have no defaults; stages validate what they need.
		Buckets: BucketsConfig{},
		Preprocess: PreprocessConfig{
			MoviesFolder:  "Movies",
			CreditsFolder: "Credits",
			OutputFolder:  "",
		},
		Model: ModelConfig{
			SourceFolder:     "Preprocessed",
			MoviesFolder:     "Movies",
			SimilarityFolder: "Similarity",
			MaxFeatures:      5000,
		},
		Storage: StorageConfig{
			Backend: "s3",
			S3: S3Config{
				Endpoint: "s3.amazonaws.com",
				Region:   "us-east-1",
				UseSSL:   true,
			},
			BadgerPath:     "/data/cinematch-objects",
			CircuitBreaker: true,
		},
		Ledger: LedgerConfig{
			Enabled:    false,
			Path:       "/data/cinematch-ledger.duckdb",
			MemorySize: 1000,
		},
		Server: ServerConfig{
			Host:              "0.0.0.0",
			Port:              8080,
			Timeout:           10 * time.Minute, // a model build over the full dataset takes minutes
			RateLimitRequests: 10,
			RateLimitWindow:   time.Minute,
		},
		Schedule: ScheduleConfig{
			Interval:     0,
			RunOnStartup: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in sensible defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// TRAIN_BUCKET_NAME -> buckets.train
	// MODEL_MAX_FEATURES -> model.max_features
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Stage buckets and folders
	"train_bucket_name":        "buckets.train",
	"preprocessed_bucket_name": "buckets.preprocessed",
	"model_bucket_name":        "buckets.model",
	"preprocessed_folder_name": "preprocess.output_folder",
	"movies_folder_name":       "preprocess.movies_folder",
	"credits_folder_name":      "preprocess.credits_folder",

	// Modeling
	"model_source_folder":     "model.source_folder",
	"model_movies_folder":     "model.movies_folder",
	"model_similarity_folder": "model.similarity_folder",
	"model_max_features":      "model.max_features",

	// Storage
	"storage_backend":         "storage.backend",
	"storage_circuit_breaker": "storage.circuit_breaker",
	"badger_path":             "storage.badger_path",
	"s3_endpoint":             "storage.s3.endpoint",
	"s3_access_key":           "storage.s3.access_key",
	"s3_secret_key":           "storage.s3.secret_key",
	"s3_region":               "storage.s3.region",
	"s3_use_ssl":              "storage.s3.use_ssl",

	// Run ledger
	"ledger_enabled":     "ledger.enabled",
	"ledger_path":        "ledger.path",
	"ledger_memory_size": "ledger.memory_size",

	// Server mappings
	"http_host":           "server.host",
	"http_port":           "server.port",
	"http_timeout":        "server.timeout",
	"rate_limit_requests": "server.rate_limit_requests",
	"rate_limit_window":   "server.rate_limit_window",

	// Schedule
	"schedule_interval":       "schedule.interval",
	"schedule_run_on_startup": "schedule.run_on_startup",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - TRAIN_BUCKET_NAME -> buckets.train
//   - PREPROCESSED_FOLDER_NAME -> preprocess.output_folder
//   - S3_ENDPOINT -> storage.s3.endpoint
//   - HTTP_PORT -> server.port
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}

	// Unmapped variables are skipped so the process environment cannot
	// leak arbitrary keys into the config tree.
	return ""
}
