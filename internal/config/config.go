// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package config loads the pipeline configuration from defaults, an optional
// YAML file and environment variables, in that order of precedence.
//
// The bucket and folder names consumed by the stages keep their historical
// environment names (TRAIN_BUCKET_NAME, PREPROCESSED_BUCKET_NAME,
// PREPROCESSED_FOLDER_NAME, MODEL_BUCKET_NAME). They have no defaults: a stage
// refuses to run until the settings it needs are present, see
// Config.ValidatePreprocess and Config.ValidateModel.
package config

import "time"

// Config holds all application configuration.
type Config struct {
	Buckets    BucketsConfig    `koanf:"buckets"`
	Preprocess PreprocessConfig `koanf:"preprocess"`
	Model      ModelConfig      `koanf:"model"`
	Storage    StorageConfig    `koanf:"storage"`
	Ledger     LedgerConfig     `koanf:"ledger"`
	Server     ServerConfig     `koanf:"server"`
	Schedule   ScheduleConfig   `koanf:"schedule"`
	Logging    LoggingConfig    `koanf:"logging"`
}

// BucketsConfig names the three buckets the stages exchange data through.
// Preprocessed is both the preprocessing destination and the modeling source.
type BucketsConfig struct {
	Train        string `koanf:"train"`
	Preprocessed string `koanf:"preprocessed"`
	Model        string `koanf:"model"`
}

// PreprocessConfig holds preprocessing stage settings.
type PreprocessConfig struct {
	MoviesFolder  string `koanf:"movies_folder"`
	CreditsFolder string `koanf:"credits_folder"`
	OutputFolder  string `koanf:"output_folder"`
}

// ModelConfig holds modeling stage settings.
type ModelConfig struct {
	SourceFolder     string `koanf:"source_folder"`
	MoviesFolder     string `koanf:"movies_folder"`
	SimilarityFolder string `koanf:"similarity_folder"`
	MaxFeatures      int    `koanf:"max_features"`
}

// StorageConfig selects and configures the object storage backend.
type StorageConfig struct {
	Backend        string   `koanf:"backend"` // "s3" or "badger"
	S3             S3Config `koanf:"s3"`
	BadgerPath     string   `koanf:"badger_path"`
	CircuitBreaker bool     `koanf:"circuit_breaker"`
}

// S3Config holds connection settings for an S3-compatible endpoint.
type S3Config struct {
	Endpoint  string `koanf:"endpoint"`
	AccessKey string `koanf:"access_key"`
	SecretKey string `koanf:"secret_key"`
	Region    string `koanf:"region"`
	UseSSL    bool   `koanf:"use_ssl"`
}

// LedgerConfig controls where run records are kept. When disabled, runs are
// only kept in a bounded in-memory store for the life of the process.
type LedgerConfig struct {
	Enabled    bool   `koanf:"enabled"`
	Path       string `koanf:"path"`
	MemorySize int    `koanf:"memory_size"`
}

// ServerConfig holds HTTP server settings for the serve command.
type ServerConfig struct {
	Host              string        `koanf:"host"`
	Port              int           `koanf:"port"`
	Timeout           time.Duration `koanf:"timeout"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
}

// ScheduleConfig controls the periodic preprocess-then-model run.
// A zero interval disables scheduling.
type ScheduleConfig struct {
	Interval     time.Duration `koanf:"interval"`
	RunOnStartup bool          `koanf:"run_on_startup"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}
