package results

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/aarondl/opt/omitnull"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sternrassler/sporthive-results/internal/testutil"
	"github.com/Sternrassler/sporthive-results/pkg/client"
	"github.com/Sternrassler/sporthive-results/pkg/pagination"
)

const (
	testEvent = "6855879561074155264"
	testRace  = "480016"
)

func newMockCollector(t *testing.T, entries []map[string]any, mutate func(*Config)) (*Collector, *testutil.MockSporthive) {
	t.Helper()

	mock := testutil.NewMockSporthive(testEvent, testRace, entries)
	t.Cleanup(mock.Close)

	c, err := client.New(client.Config{
		BaseURL:   mock.URL(),
		UserAgent: "sporthive-results-test/1.0",
		Timeout:   5 * time.Second,
	})
	require.NoError(t, err)

	cfg := DefaultConfig(testEvent, testRace)
	if mutate != nil {
		mutate(&cfg)
	}

	collector, err := NewCollector(c, cfg)
	require.NoError(t, err)

	return collector, mock
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("1", "2")

	assert.Equal(t, "1", cfg.EventID)
	assert.Equal(t, "2", cfg.RaceID)
	assert.True(t, cfg.ReadSplits)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.True(t, cfg.Verbose)
}

func TestCollector_Config(t *testing.T) {
	cfg := DefaultConfig("1", "2")
	cfg.BatchSize = 10
	cfg.ReadSplits = false

	c, err := NewCollector(&fakeSource{}, cfg)
	require.NoError(t, err)

	got := c.Config()
	assert.Equal(t, "1", got.EventID)
	assert.Equal(t, "2", got.RaceID)
	assert.Equal(t, 10, got.BatchSize)
	assert.False(t, got.ReadSplits)
}

func TestNewCollector_Validation(t *testing.T) {
	src := &fakeSource{}

	tests := []struct {
		name     string
		src      Source
		cfg      Config
		errorMsg string
	}{
		{"nil source", nil, DefaultConfig("1", "2"), "source is required"},
		{"empty event", src, DefaultConfig("", "2"), "event id is required"},
		{"empty race", src, DefaultConfig("1", ""), "race id is required"},
		{"zero batch", src, Config{EventID: "1", RaceID: "2"}, "batch size must be > 0 (got 0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCollector(tt.src, tt.cfg)
			require.Error(t, err)
			assert.EqualError(t, err, tt.errorMsg)
			assert.Nil(t, c)
		})
	}
}

func TestCollect_Scenarios(t *testing.T) {
	tests := []struct {
		name         string
		total        int
		batchSize    int
		wantRequests int
	}{
		{"exactly one batch", 50, 50, 2},
		{"short first page", 37, 50, 1},
		{"empty race", 0, 50, 1},
		{"multiple pages", 120, 50, 3},
		{"exact multiple", 100, 25, 5},
		{"single record batches", 4, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, mock := newMockCollector(t, testutil.Entries(tt.total), func(cfg *Config) {
				cfg.BatchSize = tt.batchSize
			})

			records, err := collector.Collect(context.Background())
			require.NoError(t, err)

			assert.Len(t, records, tt.total)
			assert.NotNil(t, records)
			assert.Equal(t, tt.wantRequests, mock.GetRequestCount())

			for i, r := range records {
				require.Equal(t, fmt.Sprintf("Athlete %04d", i+1), r.Name, "record %d out of order", i)
				require.Equal(t, i+1, r.Rank)
			}

			for i, req := range mock.GetRequests() {
				assert.Equal(t, tt.batchSize, req.Count)
				assert.Equal(t, i*tt.batchSize, req.Offset)
			}
		})
	}
}

func TestCollect_SplitToggle(t *testing.T) {
	entries := testutil.Entries(3,
		testutil.Split{Name: "5K", CumulativeTime: "00:20:00"},
		testutil.Split{Name: "10K", CumulativeTime: "00:40:30"},
	)

	t.Run("splits read", func(t *testing.T) {
		collector, _ := newMockCollector(t, entries, nil)

		records, err := collector.Collect(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 3)

		for _, r := range records {
			require.Len(t, r.Splits, 2)
			assert.Equal(t, "5K", r.Splits[0].Name)
			assert.Equal(t, "10K", r.Splits[1].Name)
			v, ok := r.Splits[1].Time.Get()
			assert.True(t, ok)
			assert.Equal(t, 2430, v)
		}
	})

	t.Run("splits not read", func(t *testing.T) {
		collector, _ := newMockCollector(t, entries, func(cfg *Config) {
			cfg.ReadSplits = false
		})

		records, err := collector.Collect(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 3)

		for _, r := range records {
			assert.Nil(t, r.Splits)
		}
	})
}

func TestCollect_ChipTimes(t *testing.T) {
	entries := []map[string]any{
		testutil.Entry("Valid", 1, "01:02:03"),
		testutil.Entry("Midnight", 2, "00:00:00"),
		testutil.Entry("Overflow", 3, "24:00:00"),
		testutil.Entry("Empty", 4, ""),
	}
	collector, _ := newMockCollector(t, entries, nil)

	records, err := collector.Collect(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 4)

	v, ok := records[0].ChipTime.Get()
	assert.True(t, ok)
	assert.Equal(t, 3723, v)

	v, ok = records[1].ChipTime.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, v)

	assert.True(t, records[2].ChipTime.IsNull())
	assert.True(t, records[3].ChipTime.IsNull())
}

func TestCollect_TransportErrorsPropagate(t *testing.T) {
	tests := []struct {
		name       string
		setup      func(mock *testutil.MockSporthive)
		wantClass  client.ErrorClass
		wantStatus int
	}{
		{
			name:       "server",
			setup:      func(m *testutil.MockSporthive) { m.SetResponse(testutil.NewServerErrorResponse()) },
			wantClass:  client.ErrorClassServer,
			wantStatus: 500,
		},
		{
			name:       "client",
			setup:      func(m *testutil.MockSporthive) { m.SetResponse(testutil.NewNotFoundResponse()) },
			wantClass:  client.ErrorClassClient,
			wantStatus: 404,
		},
		{
			name:       "decode",
			setup:      func(m *testutil.MockSporthive) { m.SetResponse(testutil.NewMalformedResponse()) },
			wantClass:  client.ErrorClassDecode,
			wantStatus: 200,
		},
		{
			name:      "network",
			setup:     func(m *testutil.MockSporthive) { m.Close() },
			wantClass: client.ErrorClassNetwork,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			collector, mock := newMockCollector(t, testutil.Entries(10), nil)
			tt.setup(mock)

			records, err := collector.Collect(context.Background())
			require.Error(t, err)
			assert.Nil(t, records)

			var apiErr *client.APIError
			require.True(t, errors.As(err, &apiErr), "error should unwrap to *client.APIError: %v", err)
			assert.Equal(t, tt.wantClass, apiErr.ErrorClass)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.LessOrEqual(t, mock.GetRequestCount(), 1, "failed request must not be retried")
		})
	}
}

func TestCollect_MissingNestedKeyIsFatal(t *testing.T) {
	entries := testutil.Entries(2)
	delete(entries[1], "athlete")
	collector, _ := newMockCollector(t, entries, nil)

	_, err := collector.Collect(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingField)
}

func TestCollect_Progress(t *testing.T) {
	var loaded []int
	collector, _ := newMockCollector(t, testutil.Entries(7), func(cfg *Config) {
		cfg.BatchSize = 3
		cfg.Verbose = false
		cfg.OnProgress = func(p pagination.Progress) { loaded = append(loaded, p.Loaded) }
	})

	_, err := collector.Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{3, 6, 7}, loaded)
}

func TestCollect_Repeatable(t *testing.T) {
	collector, mock := newMockCollector(t, testutil.Entries(5), nil)

	first, err := collector.Collect(context.Background())
	require.NoError(t, err)

	mock.SetEntries(testutil.Entries(8))
	second, err := collector.Collect(context.Background())
	require.NoError(t, err)

	assert.Len(t, first, 5)
	assert.Len(t, second, 8)
}

func TestCollectTable(t *testing.T) {
	entries := testutil.Entries(2, testutil.Split{Name: "5K", CumulativeTime: "00:20:00"})
	collector, _ := newMockCollector(t, entries, nil)

	table, err := collector.CollectTable(context.Background())
	require.NoError(t, err)

	assert.Equal(t, append(append([]string{}, BaseColumns...), "split_5K"), table.Columns)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, 1200, table.Rows[0][table.Column("split_5K")])
}

// fakeSource serves canned pages without HTTP.
type fakeSource struct {
	pages   []Page
	queries []url.Values
}

func (f *fakeSource) GetJSON(_ context.Context, _ string, query url.Values, out any) error {
	f.queries = append(f.queries, query)
	i := len(f.queries) - 1
	if i >= len(f.pages) {
		*(out.(*Page)) = Page{FullClassifications: []RawEntry{}}
		return nil
	}
	*(out.(*Page)) = f.pages[i]
	return nil
}

func TestCollect_WithFakeSource(t *testing.T) {
	entry := func(name string) RawEntry {
		return RawEntry{
			Athlete: &RawAthlete{Name: omitnull.From(name)},
			Classification: &RawClassification{
				Bib:          omitnull.From(Bib("1")),
				Gender:       omitnull.From(Gender("Male")),
				Category:     omitnull.From("M35"),
				Rank:         omitnull.From(1),
				GenderRank:   omitnull.From(1),
				CategoryRank: omitnull.From(1),
				CountryCode:  omitnull.From("NL"),
				ChipTime:     omitnull.From("00:10:00"),
				Splits:       omitnull.From([]RawSplit{}),
			},
		}
	}
	src := &fakeSource{pages: []Page{
		{FullClassifications: []RawEntry{entry("a"), entry("b")}},
		{FullClassifications: []RawEntry{entry("c")}},
	}}

	cfg := DefaultConfig("1", "2")
	cfg.BatchSize = 2
	collector, err := NewCollector(src, cfg)
	require.NoError(t, err)

	records, err := collector.Collect(context.Background())
	require.NoError(t, err)

	require.Len(t, records, 3)
	assert.Equal(t, "a", records[0].Name)
	assert.Equal(t, "c", records[2].Name)
	require.Len(t, src.queries, 2)
	assert.Equal(t, "2", src.queries[1].Get("count"))
	assert.Equal(t, "2", src.queries[1].Get("offset"))
}
