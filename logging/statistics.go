package logging

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

const statisticsFile = "statistics.json"

// Statistics collects visitor and report generation statistics
type Statistics struct {
	UniqueVisitors map[string]time.Time `json:"uniqueVisitors"` // IP -> Last Visit Time
	ReportRequests int                  `json:"reportRequests"`
	ErrorCount     int                  `json:"errorCount"`
	PopularURLs    map[string]int       `json:"popularUrls"` // audited URL -> Count
	TotalLoadTime  float64              `json:"totalLoadTime"`
	RequestCount   int                  `json:"requestCount"`
	LastPersisted  time.Time            `json:"lastPersisted"`

	path    string
	devMode bool
	logger  *zap.Logger
	mutex   sync.RWMutex
}

// Summary is the statistics view served over HTTP. PopularURLs is only
// filled in development mode.
type Summary struct {
	UniqueVisitors24h int            `json:"uniqueVisitors24h"`
	TotalRequests     int            `json:"totalRequests"`
	ErrorRate         float64        `json:"errorRate"`
	AverageLoadTime   float64        `json:"averageLoadTime"`
	PopularURLs       map[string]int `json:"popularUrls,omitempty"`
}

// NewStatistics creates statistics persisted under dataDir, loading any
// previously saved state.
func NewStatistics(dataDir string, devMode bool, logger *zap.Logger) *Statistics {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Statistics{
		UniqueVisitors: make(map[string]time.Time),
		PopularURLs:    make(map[string]int),
		LastPersisted:  time.Now(),
		path:           filepath.Join(dataDir, statisticsFile),
		devMode:        devMode,
		logger:         logger,
	}

	if err := s.Load(); err != nil {
		logger.Warn("Could not load existing statistics", zap.Error(err))
	}
	return s
}

// TrackVisitor records a unique visitor
func (s *Statistics) TrackVisitor(ip string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.UniqueVisitors[ip] = time.Now()
}

// cleanURL reduces an audited URL to scheme, host and path. Local addresses
// are not tracked.
func cleanURL(urlStr string) string {
	u, err := url.Parse(strings.TrimSpace(urlStr))
	if err != nil || u.Host == "" {
		return ""
	}

	host := strings.ToLower(u.Host)
	if strings.Contains(host, "localhost") || strings.Contains(host, "127.0.0.1") {
		return ""
	}

	cleaned := strings.ToLower(u.Scheme) + "://" + host
	if u.Path != "" && u.Path != "/" {
		cleaned += u.Path
	}
	return strings.TrimSuffix(cleaned, "/")
}

// TrackReport records one report generation
func (s *Statistics) TrackReport(auditedURL string, duration time.Duration, failed bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.ReportRequests++

	if cleaned := cleanURL(auditedURL); cleaned != "" {
		s.PopularURLs[cleaned]++
	}

	if failed {
		s.ErrorCount++
	}

	s.TotalLoadTime += float64(duration.Milliseconds())
	s.RequestCount++
}

// TotalRequests returns the number of tracked report generations
func (s *Statistics) TotalRequests() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.ReportRequests
}

// Summary returns the current statistics
func (s *Statistics) Summary() Summary {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	summary := Summary{
		UniqueVisitors24h: s.uniqueVisitors(time.Now().Add(-24 * time.Hour)),
		TotalRequests:     s.ReportRequests,
		ErrorRate:         s.errorRate(),
		AverageLoadTime:   s.averageLoadTime(),
	}
	if s.devMode {
		summary.PopularURLs = s.popularURLs(5)
	}
	return summary
}

func (s *Statistics) uniqueVisitors(cutoff time.Time) int {
	count := 0
	for _, lastVisit := range s.UniqueVisitors {
		if lastVisit.After(cutoff) {
			count++
		}
	}
	return count
}

func (s *Statistics) errorRate() float64 {
	if s.ReportRequests == 0 {
		return 0
	}
	return (float64(s.ErrorCount) / float64(s.ReportRequests)) * 100
}

func (s *Statistics) averageLoadTime() float64 {
	if s.RequestCount == 0 {
		return 0
	}
	return s.TotalLoadTime / float64(s.RequestCount)
}

// popularURLs returns the n most audited URLs, ties broken alphabetically
func (s *Statistics) popularURLs(n int) map[string]int {
	urls := make([]string, 0, len(s.PopularURLs))
	for u := range s.PopularURLs {
		urls = append(urls, u)
	}
	sort.Slice(urls, func(i, j int) bool {
		ci, cj := s.PopularURLs[urls[i]], s.PopularURLs[urls[j]]
		if ci != cj {
			return ci > cj
		}
		return urls[i] < urls[j]
	})
	if len(urls) > n {
		urls = urls[:n]
	}

	result := make(map[string]int, len(urls))
	for _, u := range urls {
		result[u] = s.PopularURLs[u]
	}
	return result
}

// Save persists the statistics
func (s *Statistics) Save() error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.LastPersisted = time.Now()

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("could not create statistics directory: %w", err)
	}

	file, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("could not create statistics file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(s); err != nil {
		return fmt.Errorf("could not encode statistics: %w", err)
	}
	return nil
}

// Load reads previously saved statistics. A missing file is not an error.
func (s *Statistics) Load() error {
	file, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("could not open statistics file: %w", err)
	}
	defer file.Close()

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := json.NewDecoder(file).Decode(s); err != nil {
		return fmt.Errorf("could not decode statistics: %w", err)
	}
	if s.UniqueVisitors == nil {
		s.UniqueVisitors = make(map[string]time.Time)
	}
	if s.PopularURLs == nil {
		s.PopularURLs = make(map[string]int)
	}
	return nil
}
