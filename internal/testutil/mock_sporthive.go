// Package testutil provides testing utilities for the results API client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines a fixed response for the classification endpoint.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// PageRequest records the window asked for by one request.
type PageRequest struct {
	Count  int
	Offset int
}

// MockSporthive is a mock of the event results API serving one race.
type MockSporthive struct {
	server *httptest.Server
	mu     sync.RWMutex

	eventID  string
	raceID   string
	entries  []map[string]any
	override *MockResponse

	// Tracking
	RequestCount    int
	Requests        []PageRequest
	LastUserAgent   string
	LastRequestPath string
}

// NewMockSporthive creates a mock serving entries as the classifications of
// eventID/raceID. Entries are served in slice order.
func NewMockSporthive(eventID, raceID string, entries []map[string]any) *MockSporthive {
	mock := &MockSporthive{
		eventID: eventID,
		raceID:  raceID,
		entries: entries,
	}

	mock.server = httptest.NewServer(http.HandlerFunc(mock.handle))

	return mock
}

// URL returns the mock server URL.
func (m *MockSporthive) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockSporthive) Close() {
	m.server.Close()
}

// Path returns the classification search path served by the mock.
func (m *MockSporthive) Path() string {
	return fmt.Sprintf("/api/events/%s/races/%s/classifications/search", m.eventID, m.raceID)
}

// SetEntries replaces the served classifications.
func (m *MockSporthive) SetEntries(entries []map[string]any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = entries
}

// SetResponse makes every following request return resp instead of data.
func (m *MockSporthive) SetResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.override = &resp
}

// Reset clears all tracking counters and any response override.
func (m *MockSporthive) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.Requests = nil
	m.LastUserAgent = ""
	m.LastRequestPath = ""
	m.override = nil
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockSporthive) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequests returns a copy of the recorded page windows.
func (m *MockSporthive) GetRequests() []PageRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]PageRequest, len(m.Requests))
	copy(out, m.Requests)
	return out
}

func (m *MockSporthive) handle(w http.ResponseWriter, r *http.Request) {
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	m.mu.Lock()
	m.RequestCount++
	m.Requests = append(m.Requests, PageRequest{Count: count, Offset: offset})
	m.LastUserAgent = r.Header.Get("User-Agent")
	m.LastRequestPath = r.URL.Path
	override := m.override
	entries := m.entries
	m.mu.Unlock()

	if override != nil {
		writeResponse(w, *override)
		return
	}

	if r.URL.Path != m.Path() {
		http.NotFound(w, r)
		return
	}

	if offset < 0 || count < 0 {
		http.Error(w, `{"error": "invalid window"}`, http.StatusBadRequest)
		return
	}

	start := min(offset, len(entries))
	end := min(start+count, len(entries))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"fullClassifications": entries[start:end],
	})
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		_, _ = w.Write([]byte(resp.Body))
	}
}

// Split describes one raw split entry.
type Split struct {
	Name           string
	CumulativeTime string
}

// Entry builds one raw classification entry in the results API shape.
// rank also seeds genderRank and categoryRank so rows stay distinguishable.
func Entry(name string, rank int, chipTime string, splits ...Split) map[string]any {
	rawSplits := make([]map[string]any, 0, len(splits))
	for _, s := range splits {
		rawSplits = append(rawSplits, map[string]any{
			"name":           s.Name,
			"cumulativeTime": s.CumulativeTime,
		})
	}

	return map[string]any{
		"athlete": map[string]any{
			"name": name,
		},
		"classification": map[string]any{
			"bib":          strconv.Itoa(1000 + rank),
			"gender":       "Male",
			"category":     "M35",
			"rank":         rank,
			"genderRank":   rank,
			"categoryRank": rank,
			"countryCode":  "NL",
			"chipTime":     chipTime,
			"splits":       rawSplits,
		},
	}
}

// Entries builds n entries named "Athlete 0001".. with ranks 1..n and chip
// times one second apart starting at 00:30:00.
func Entries(n int, splits ...Split) []map[string]any {
	out := make([]map[string]any, 0, n)
	for i := 1; i <= n; i++ {
		chip := time.Date(0, 1, 1, 0, 30, 0, 0, time.UTC).Add(time.Duration(i) * time.Second)
		out = append(out, Entry(fmt.Sprintf("Athlete %04d", i), i, chip.Format("15:04:05"), splits...))
	}
	return out
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{"error": "Race not found"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `<html>maintenance</html>`,
		Headers: map[string]string{
			"Content-Type": "text/html",
		},
	}
}
