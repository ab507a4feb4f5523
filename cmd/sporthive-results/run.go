package main

import (
	"context"
	"fmt"
	"io"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/sporthive-results/pkg/client"
	"github.com/Sternrassler/sporthive-results/pkg/logging"
	"github.com/Sternrassler/sporthive-results/pkg/metrics"
	"github.com/Sternrassler/sporthive-results/pkg/results"
	"github.com/Sternrassler/sporthive-results/pkg/store"
)

func run(ctx context.Context, opts *Options, logOutput io.Writer) error {
	level, err := logging.ParseLevel(opts.LogLevel)
	if err != nil {
		return err
	}
	logging.Setup(logging.Config{
		Level:  level,
		Pretty: opts.LogPretty,
		Output: logOutput,
	})

	c, err := client.New(client.Config{
		BaseURL:   opts.BaseURL,
		UserAgent: opts.UserAgent,
		Timeout:   opts.Timeout,
	})
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}

	collector, err := results.NewCollector(c, results.Config{
		EventID:    opts.Event,
		RaceID:     opts.Race,
		ReadSplits: opts.Splits,
		BatchSize:  opts.BatchSize,
		Verbose:    !opts.Quiet,
	})
	if err != nil {
		return fmt.Errorf("create collector: %w", err)
	}

	records, err := collector.Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Collection failed")
		writeMetrics(opts)
		return err
	}

	path := opts.OutputPath()
	if err := writeRecords(path, opts.Format, records, opts.Splits); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Writing results failed")
		return err
	}

	log.Info().
		Str("path", path).
		Str("format", opts.Format).
		Int("records", len(records)).
		Msg("Results written")

	if opts.RedisAddr != "" {
		publish(ctx, opts, records)
	}

	writeMetrics(opts)

	return nil
}

// publish stores the collection in Redis. Failures are logged and do not
// fail the run; the output file is already written.
func publish(ctx context.Context, opts *Options, records []results.AthleteRecord) {
	rdb := redis.NewClient(&redis.Options{Addr: opts.RedisAddr})
	defer rdb.Close()

	key := store.Key{EventID: opts.Event, RaceID: opts.Race, Splits: opts.Splits}
	if err := store.NewManager(rdb).Set(ctx, key, store.NewEntry(key, records, opts.RedisTTL)); err != nil {
		log.Warn().Err(err).Str("redis", opts.RedisAddr).Msg("Publishing to Redis failed")
	}
}

func writeMetrics(opts *Options) {
	if opts.MetricsFile == "" {
		return
	}
	if err := metrics.WriteTextfile(opts.MetricsFile); err != nil {
		log.Warn().Err(err).Str("path", opts.MetricsFile).Msg("Writing metrics failed")
	}
}
