// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

// Package main is the cinematch command.
//
// Cinematch turns the TMDB movies and credits exports into a content
// similarity model in two stages:
//
//  1. preprocess: join the latest movies and credits CSVs and reduce them
//     to movie_id, title and tags
//  2. model: stem and count-vectorize the tags, compute pairwise cosine
//     similarity and write the movies and similarity artifacts
//
// Each stage can run once from the command line, be triggered over HTTP by
// cinematch serve, or run on a schedule inside serve.
//
// # Configuration
//
// Configuration is loaded via Koanf v2 (defaults, then config.yaml, then
// environment variables). The stage variables are:
//
//	TRAIN_BUCKET_NAME, PREPROCESSED_BUCKET_NAME, MODEL_BUCKET_NAME
//	MOVIES_FOLDER_NAME, CREDITS_FOLDER_NAME, PREPROCESSED_FOLDER_NAME
//	STORAGE_BACKEND (s3 or badger), S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY
//
// # Example Usage
//
//	cinematch preprocess
//	cinematch model
//	cinematch run                       # preprocess, then model
//	cinematch similar --title Avatar -k 5
//	cinematch serve                     # HTTP triggers and scheduler
//
// A stage command prints its result as JSON and exits 1 when the stage fails.
package main

import (
	"os"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
