package logging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanURL(t *testing.T) {
	tests := map[string]string{
		"https://Example.com/":           "https://example.com",
		"https://example.com/blog/?x=1":  "https://example.com/blog",
		"http://localhost:8082/api/x":    "",
		"http://127.0.0.1/":              "",
		"example.com":                    "",
		"https://shop.example/products/": "https://shop.example/products",
	}
	for in, want := range tests {
		assert.Equal(t, want, cleanURL(in), in)
	}
}

func TestStatistics_Summary(t *testing.T) {
	s := NewStatistics(t.TempDir(), false, nil)

	s.TrackVisitor("10.0.0.1")
	s.TrackVisitor("10.0.0.2")
	s.TrackVisitor("10.0.0.1")

	s.TrackReport("https://example.com", 100*time.Millisecond, false)
	s.TrackReport("https://example.com/", 300*time.Millisecond, true)

	summary := s.Summary()
	assert.Equal(t, 2, summary.UniqueVisitors24h)
	assert.Equal(t, 2, summary.TotalRequests)
	assert.InDelta(t, 50.0, summary.ErrorRate, 0.001)
	assert.InDelta(t, 200.0, summary.AverageLoadTime, 0.001)
	assert.Nil(t, summary.PopularURLs, "popular URLs are hidden outside dev mode")
}

func TestStatistics_PopularURLsInDevMode(t *testing.T) {
	s := NewStatistics(t.TempDir(), true, nil)

	for i := 0; i < 3; i++ {
		s.TrackReport("https://a.test", time.Second, false)
	}
	for _, u := range []string{"https://b.test", "https://c.test", "https://d.test", "https://e.test", "https://f.test"} {
		s.TrackReport(u, time.Second, false)
	}

	popular := s.Summary().PopularURLs
	assert.Len(t, popular, 5)
	assert.Equal(t, 3, popular["https://a.test"])
	assert.NotContains(t, popular, "https://f.test")
}

func TestStatistics_Persistence(t *testing.T) {
	dir := t.TempDir()

	s := NewStatistics(dir, true, nil)
	s.TrackVisitor("10.0.0.1")
	s.TrackReport("https://example.com", 50*time.Millisecond, false)
	require.NoError(t, s.Save())

	loaded := NewStatistics(dir, true, nil)
	assert.Equal(t, 1, loaded.TotalRequests())
	assert.Equal(t, 1, loaded.Summary().UniqueVisitors24h)
	assert.Equal(t, map[string]int{"https://example.com": 1}, loaded.Summary().PopularURLs)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "bogus"} {
		assert.NotNil(t, NewLogger(level, true))
		assert.NotNil(t, NewLogger(level, false))
	}
	assert.NotNil(t, NewCLILogger(true))
}
