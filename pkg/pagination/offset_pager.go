package pagination

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultBatchSize is the page size requested when none is configured.
const DefaultBatchSize = 50

// Config holds pager configuration
type Config struct {
	// BatchSize is the `count` sent with every request
	BatchSize int
	// OnPage is called after every page, once its items are appended
	OnPage func(Progress)
}

// DefaultConfig returns the default pager configuration
func DefaultConfig() Config {
	return Config{
		BatchSize: DefaultBatchSize,
	}
}

// PageFetcher fetches the window [offset, offset+count) of a listing.
// Implementations return at most count items.
type PageFetcher[T any] interface {
	FetchPage(ctx context.Context, offset, count int) ([]T, error)
}

// PageFetcherFunc adapts a function to PageFetcher.
type PageFetcherFunc[T any] func(ctx context.Context, offset, count int) ([]T, error)

// FetchPage calls f.
func (f PageFetcherFunc[T]) FetchPage(ctx context.Context, offset, count int) ([]T, error) {
	return f(ctx, offset, count)
}

// Progress describes the state after one page has been processed
type Progress struct {
	// Page is the 1-based number of the request just completed
	Page int
	// Offset is the offset that was requested
	Offset int
	// Received is the number of items in this page
	Received int
	// Loaded is the running total including this page
	Loaded int
}

// OffsetPager walks a listing page by page until a short page is returned
type OffsetPager[T any] struct {
	fetcher PageFetcher[T]
	config  Config
}

// NewOffsetPager creates a new pager
func NewOffsetPager[T any](fetcher PageFetcher[T], config Config) *OffsetPager[T] {
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultBatchSize
	}

	return &OffsetPager[T]{
		fetcher: fetcher,
		config:  config,
	}
}

// BatchSize returns the effective page size.
func (p *OffsetPager[T]) BatchSize() int {
	return p.config.BatchSize
}

// FetchAll requests consecutive pages and returns all items in fetch order.
// The first fetch error ends the walk and is returned wrapped; nothing
// collected so far is returned with it.
func (p *OffsetPager[T]) FetchAll(ctx context.Context) ([]T, error) {
	start := time.Now()
	batchSize := p.config.BatchSize

	items := make([]T, 0, batchSize)
	loaded := 0

	for page := 1; ; page++ {
		log.Debug().
			Int("page", page).
			Int("offset", loaded).
			Int("count", batchSize).
			Msg("Fetching page")

		batch, err := p.fetcher.FetchPage(ctx, loaded, batchSize)
		if err != nil {
			return nil, fmt.Errorf("fetch page at offset %d: %w", loaded, err)
		}

		offset := loaded
		items = append(items, batch...)
		loaded += len(batch)

		progress := Progress{
			Page:     page,
			Offset:   offset,
			Received: len(batch),
			Loaded:   loaded,
		}
		if p.config.OnPage != nil {
			p.config.OnPage(progress)
		}

		// A short page, empty included, is the only completion signal.
		if len(batch) < batchSize {
			log.Info().
				Int("pages", page).
				Int("loaded", loaded).
				Dur("duration", time.Since(start)).
				Msg("Fetch complete")
			return items, nil
		}
	}
}
