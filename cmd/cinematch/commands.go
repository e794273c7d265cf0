// Cinematch - Movie Content Similarity Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinematch

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/cinematch/internal/api"
	"github.com/tomtom215/cinematch/internal/logging"
	"github.com/tomtom215/cinematch/internal/models"
	"github.com/tomtom215/cinematch/internal/modeling"
	"github.com/tomtom215/cinematch/internal/pipeline"
	"github.com/tomtom215/cinematch/internal/supervisor"
	"github.com/tomtom215/cinematch/internal/supervisor/services"
)

// errStageFailed makes cobra exit non-zero after the result was printed.
var errStageFailed = errors.New("stage failed")

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cinematch",
		Short:         "Movie content similarity pipeline",
		SilenceUsage:  true,
		SilenceErrors: true,
		Long: `Cinematch builds a content-based movie similarity model from the
TMDB movies and credits exports in two stages: preprocess and model.`,
	}

	root.AddCommand(
		newVersionCmd(),
		newStageCmd("preprocess", "Join movies and credits into the reduced tags table", func(a *app) pipeline.Stage { return a.preprocess }),
		newStageCmd("model", "Vectorize tags and write the similarity artifacts", func(a *app) pipeline.Stage { return a.model }),
		newRunCmd(),
		newSimilarCmd(),
		newServeCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version info",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "cinematch %s (%s, %s)\n", version, commit, buildDate)
		},
	}
}

// withApp opens the app for one command and reports errors on stderr.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return err
	}
	defer func() {
		if err := a.close(); err != nil {
			logging.Error().Err(err).Msg("Error closing resources")
		}
	}()

	err = fn(ctx, a)
	if err != nil && !errors.Is(err, errStageFailed) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func newStageCmd(name, short string, pick func(*app) pipeline.Stage) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				result := a.runner.Run(ctx, pick(a), pipeline.Trigger{Source: pipeline.TriggerCLI})
				return printResults(cmd.OutOrStdout(), result)
			})
		},
	}
}

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run preprocess, then model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				results := runChain(ctx, a.runner, a.stages())
				return printResults(cmd.OutOrStdout(), results...)
			})
		},
	}
}

// runChain runs stages in order and stops after the first failure.
func runChain(ctx context.Context, runner services.StageRunner, stages []pipeline.Stage) []pipeline.Result {
	results := make([]pipeline.Result, 0, len(stages))
	for _, stage := range stages {
		result := runner.Run(ctx, stage, pipeline.Trigger{Source: pipeline.TriggerCLI})
		results = append(results, result)
		if !result.OK() {
			break
		}
	}
	return results
}

// printResults writes results as indented JSON, a single object for one
// result. It returns errStageFailed if any result failed.
func printResults(w io.Writer, results ...pipeline.Result) error {
	var v interface{} = results
	if len(results) == 1 {
		v = results[0]
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return err
	}
	for _, r := range results {
		if !r.OK() {
			return errStageFailed
		}
	}
	return nil
}

func newSimilarCmd() *cobra.Command {
	var (
		title  string
		k      int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "similar",
		Short: "List the movies most similar to a title using the latest model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(ctx context.Context, a *app) error {
				index, err := modeling.LoadLatest(ctx, a.store, a.cfg)
				if err != nil {
					return err
				}
				similar, err := index.Similar(title, k)
				if err != nil {
					return err
				}
				return printSimilar(cmd.OutOrStdout(), similar, asJSON)
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "Movie title to look up")
	cmd.Flags().IntVarP(&k, "top", "k", 5, "Number of results, 0 for all")
	cmd.Flags().BoolVarP(&asJSON, "json", "j", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func printSimilar(w io.Writer, similar []models.SimilarMovie, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(similar, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SCORE\tID\tTITLE")
	for _, m := range similar {
		fmt.Fprintf(tw, "%.4f\t%s\t%s\n", m.Score, m.ID, m.Title)
	}
	return tw.Flush()
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve HTTP stage triggers and run the pipeline schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, serve)
		},
	}
}

func serve(ctx context.Context, a *app) error {
	handler := api.NewHandler(a.runner, a.ledger, a.stages()...)
	router := api.NewRouter(handler, api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		RateLimitRequests: a.cfg.Server.RateLimitRequests,
		RateLimitWindow:   a.cfg.Server.RateLimitWindow,
	}))

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
		return err
	}

	server := services.NewHTTPServer(&a.cfg.Server, router.SetupChi())
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	if a.cfg.Schedule.Interval > 0 || a.cfg.Schedule.RunOnStartup {
		tree.AddPipelineService(services.NewScheduleService(a.runner, services.ScheduleServiceConfig{
			RunOnStartup: a.cfg.Schedule.RunOnStartup,
			Interval:     a.cfg.Schedule.Interval,
		}, logging.WithComponent("scheduler"), a.stages()...))
	}

	logging.Info().
		Str("addr", server.Addr).
		Dur("schedule_interval", a.cfg.Schedule.Interval).
		Msg("Starting cinematch server")

	err = tree.Serve(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logging.Info().Msg("Server stopped")
	return nil
}
