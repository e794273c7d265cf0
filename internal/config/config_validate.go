// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinematch/internal/validation"
)

// settingNames maps validated struct fields to the environment variable that sets them.
var settingNames = map[string]string{
	"TrainBucket":        "TRAIN_BUCKET_NAME",
	"PreprocessedBucket": "PREPROCESSED_BUCKET_NAME",
	"ModelBucket":        "MODEL_BUCKET_NAME",
	"OutputFolder":       "PREPROCESSED_FOLDER_NAME",
	"MoviesFolder":       "MOVIES_FOLDER_NAME",
	"CreditsFolder":      "CREDITS_FOLDER_NAME",
	"SourceFolder":       "MODEL_SOURCE_FOLDER",
	"ModelMoviesFolder":  "MODEL_MOVIES_FOLDER",
	"SimilarityFolder":   "MODEL_SIMILARITY_FOLDER",
	"MaxFeatures":        "MODEL_MAX_FEATURES",
	"Backend":            "STORAGE_BACKEND",
	"Endpoint":           "S3_ENDPOINT",
	"BadgerPath":         "BADGER_PATH",
	"LedgerPath":         "LEDGER_PATH",
	"MemorySize":         "LEDGER_MEMORY_SIZE",
	"ScheduleInterval":   "SCHEDULE_INTERVAL",
	"Port":               "HTTP_PORT",
	"Timeout":            "HTTP_TIMEOUT",
	"RateLimitRequests":  "RATE_LIMIT_REQUESTS",
	"RateLimitWindow":    "RATE_LIMIT_WINDOW",
	"Level":              "LOG_LEVEL",
	"Format":             "LOG_FORMAT",
}

type preprocessSettings struct {
	TrainBucket        string `validate:"required,bucketname"`
	PreprocessedBucket string `validate:"required,bucketname"`
	OutputFolder       string `validate:"required,folder"`
	MoviesFolder       string `validate:"required,folder"`
	CreditsFolder      string `validate:"required,folder"`
}

type modelSettings struct {
	PreprocessedBucket string `validate:"required,bucketname"`
	ModelBucket        string `validate:"required,bucketname"`
	SourceFolder       string `validate:"required,folder"`
	ModelMoviesFolder  string `validate:"required,folder"`
	SimilarityFolder   string `validate:"required,folder"`
	MaxFeatures        int    `validate:"min=1"`
}

type processSettings struct {
	Backend           string        `validate:"oneof=s3 badger"`
	Endpoint          string        `validate:"required_if=Backend s3"`
	BadgerPath        string        `validate:"required_if=Backend badger"`
	LedgerPath        string        `validate:"required_if=LedgerEnabled true"`
	LedgerEnabled     bool
	MemorySize        int           `validate:"min=1"`
	Port              int           `validate:"min=1,max=65535"`
	Timeout           time.Duration `validate:"gt=0"`
	RateLimitRequests int           `validate:"min=1"`
	RateLimitWindow   time.Duration `validate:"gt=0"`
	ScheduleInterval  time.Duration `validate:"gte=0"`
	Level             string        `validate:"oneof=trace debug info warn warning error fatal panic disabled"`
	Format            string        `validate:"oneof=json console"`
}

// Validate checks the settings every command needs: storage backend, ledger,
// server and logging. Stage settings are checked by ValidatePreprocess and
// ValidateModel when a stage runs.
func (c *Config) Validate() error {
	return check(&processSettings{
		Backend:           c.Storage.Backend,
		Endpoint:          c.Storage.S3.Endpoint,
		BadgerPath:        c.Storage.BadgerPath,
		LedgerPath:        c.Ledger.Path,
		LedgerEnabled:     c.Ledger.Enabled,
		MemorySize:        c.Ledger.MemorySize,
		Port:              c.Server.Port,
		Timeout:           c.Server.Timeout,
		RateLimitRequests: c.Server.RateLimitRequests,
		RateLimitWindow:   c.Server.RateLimitWindow,
		ScheduleInterval:  c.Schedule.Interval,
		Level:             strings.ToLower(c.Logging.Level),
		Format:            c.Logging.Format,
	})
}

// ValidatePreprocess checks the settings the preprocessing stage reads.
func (c *Config) ValidatePreprocess() error {
	return check(&preprocessSettings{
		TrainBucket:        c.Buckets.Train,
		PreprocessedBucket: c.Buckets.Preprocessed,
		OutputFolder:       c.Preprocess.OutputFolder,
		MoviesFolder:       c.Preprocess.MoviesFolder,
		CreditsFolder:      c.Preprocess.CreditsFolder,
	})
}

// ValidateModel checks the settings the modeling stage reads.
func (c *Config) ValidateModel() error {
	return check(&modelSettings{
		PreprocessedBucket: c.Buckets.Preprocessed,
		ModelBucket:        c.Buckets.Model,
		SourceFolder:       c.Model.SourceFolder,
		ModelMoviesFolder:  c.Model.MoviesFolder,
		SimilarityFolder:   c.Model.SimilarityFolder,
		MaxFeatures:        c.Model.MaxFeatures,
	})
}

// check validates s and reports failures by environment variable name.
func check(s interface{}) error {
	verr := validation.ValidateStruct(s)
	if verr == nil {
		return nil
	}

	errs := verr.Errors()
	parts := make([]string, 0, len(errs))
	for i := range errs {
		name := errs[i].Field()
		if env, ok := settingNames[name]; ok {
			name = env
		}
		parts = append(parts, fmt.Sprintf("%s: %s", name, errs[i].Error()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(parts, "; "))
}
