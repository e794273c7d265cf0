// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinematch/internal/config"
	"github.com/tomtom215/cinematch/internal/ledger"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/modeling"
	"github.com/tomtom215/cinematch/internal/pipeline"
	"github.com/tomtom215/cinematch/internal/preprocess"
	"github.com/tomtom215/cinematch/internal/storage"
)

// app holds the components shared by every subcommand.
type app struct {
	cfg    *config.Config
	store  storage.ObjectStore
	ledger ledger.Store
	runner *pipeline.Runner

	preprocess *preprocess.Stage
	model      *modeling.Stage

	closers []func() error
}

// openApp loads configuration, initializes logging and opens storage and
// the run ledger. The caller must call close.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	store, closeStore, err := storage.Open(&cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	runs, closeLedger, err := ledger.Open(ctx, &cfg.Ledger)
	if err != nil {
		_ = closeStore()
		return nil, fmt.Errorf("open run ledger: %w", err)
	}

	return &app{
		cfg:        cfg,
		store:      store,
		ledger:     runs,
		runner:     pipeline.NewRunner(runs),
		preprocess: preprocess.NewStage(cfg, store),
		model:      modeling.NewStage(cfg, store),
		closers:    []func() error{closeLedger, closeStore},
	}, nil
}

// stages returns the stages in chain order.
func (a *app) stages() []pipeline.Stage {
	return []pipeline.Stage{a.preprocess, a.model}
}

func (a *app) close() error {
	var errs []error
	for _, fn := range a.closers {
		if err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
