package results

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Sternrassler/sporthive-results/pkg/client"
	"github.com/Sternrassler/sporthive-results/pkg/pagination"
)

// Source is the transport the collector reads pages from.
// *client.Client implements it.
type Source interface {
	GetJSON(ctx context.Context, path string, query url.Values, out any) error
}

// Config holds the collector configuration.
type Config struct {
	// EventID and RaceID identify the race, as found in the results URL.
	EventID string
	RaceID  string

	// ReadSplits includes split times in every record.
	ReadSplits bool

	// BatchSize is the number of records requested per page.
	BatchSize int

	// Verbose logs progress at info level instead of debug.
	Verbose bool

	// OnProgress is called after every page.
	OnProgress func(pagination.Progress)
}

// DefaultConfig returns the default configuration for a race: splits
// included, batches of 50, progress logged.
func DefaultConfig(eventID, raceID string) Config {
	return Config{
		EventID:    eventID,
		RaceID:     raceID,
		ReadSplits: true,
		BatchSize:  pagination.DefaultBatchSize,
		Verbose:    true,
	}
}

// Collector gathers the complete classification of one race. It holds only
// its configuration, so Collect may be called repeatedly and concurrently.
type Collector struct {
	source Source
	config Config
	path   string
	logger zerolog.Logger
}

// NewCollector creates a collector reading from src.
func NewCollector(src Source, cfg Config) (*Collector, error) {
	if src == nil {
		return nil, fmt.Errorf("source is required")
	}
	if cfg.EventID == "" {
		return nil, fmt.Errorf("event id is required")
	}
	if cfg.RaceID == "" {
		return nil, fmt.Errorf("race id is required")
	}
	if cfg.BatchSize <= 0 {
		return nil, fmt.Errorf("batch size must be > 0 (got %d)", cfg.BatchSize)
	}

	return &Collector{
		source: src,
		config: cfg,
		path:   client.ClassificationsPath(cfg.EventID, cfg.RaceID),
		logger: log.With().
			Str("component", "results").
			Str("event", cfg.EventID).
			Str("race", cfg.RaceID).
			Logger(),
	}, nil
}

// Config returns the collector configuration.
func (c *Collector) Config() Config {
	return c.config
}

// Collect fetches every page of the race classification and returns the
// normalized records in source order. Transport and decode failures end the
// collection and are returned wrapped; nothing is retried.
func (c *Collector) Collect(ctx context.Context) ([]AthleteRecord, error) {
	start := time.Now()

	pager := pagination.NewOffsetPager[AthleteRecord](
		pagination.PageFetcherFunc[AthleteRecord](c.fetchPage),
		pagination.Config{
			BatchSize: c.config.BatchSize,
			OnPage:    c.reportProgress,
		},
	)

	records, err := pager.FetchAll(ctx)
	if err != nil {
		c.logger.Debug().Err(err).Msg("Collection failed")
		return nil, fmt.Errorf("collect event %s race %s: %w", c.config.EventID, c.config.RaceID, err)
	}

	c.logger.Info().
		Int("records", len(records)).
		Bool("splits", c.config.ReadSplits).
		Dur("duration", time.Since(start)).
		Msg("Collection complete")

	return records, nil
}

// CollectTable collects the race and projects it into a table.
func (c *Collector) CollectTable(ctx context.Context) (*Table, error) {
	records, err := c.Collect(ctx)
	if err != nil {
		return nil, err
	}
	return ToTable(records, c.config.ReadSplits), nil
}

func (c *Collector) fetchPage(ctx context.Context, offset, count int) ([]AthleteRecord, error) {
	query := url.Values{}
	query.Set("count", strconv.Itoa(count))
	query.Set("offset", strconv.Itoa(offset))

	var page Page
	if err := c.source.GetJSON(ctx, c.path, query, &page); err != nil {
		return nil, err
	}

	return page.Normalize(c.config.ReadSplits)
}

func (c *Collector) reportProgress(p pagination.Progress) {
	event := c.logger.Debug()
	if c.config.Verbose {
		event = c.logger.Info()
	}
	event.
		Int("page", p.Page).
		Int("offset", p.Offset).
		Int("received", p.Received).
		Int("loaded", p.Loaded).
		Msg("Collection progress")

	if c.config.OnProgress != nil {
		c.config.OnProgress(p)
	}
}
