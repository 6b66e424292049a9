package report

import (
	"net/url"
	"strings"

	"github.com/seo-optimizer/auditor/analyzer"
)

// SourceLink is a cited page annotated with whether it lives off the audited site
type SourceLink struct {
	Title    string `json:"title"`
	URL      string `json:"url"`
	External bool   `json:"external"`
}

// IsExternalSource reports whether sourceURL belongs to a different site
// than baseURL. Hostnames are compared without a leading "www." and either
// one containing the other counts as the same site. Unparseable input is
// treated as external.
func IsExternalSource(sourceURL, baseURL string) bool {
	sourceHost, ok := siteHost(sourceURL)
	if !ok {
		return true
	}
	baseHost, ok := siteHost(baseURL)
	if !ok {
		return true
	}
	return !strings.Contains(sourceHost, baseHost) && !strings.Contains(baseHost, sourceHost)
}

// ClassifySources annotates every source relative to the audited URL
func ClassifySources(sources []analyzer.GroundingSource, baseURL string) []SourceLink {
	links := make([]SourceLink, 0, len(sources))
	for _, s := range sources {
		links = append(links, SourceLink{
			Title:    s.Title,
			URL:      s.URL,
			External: IsExternalSource(s.URL, baseURL),
		})
	}
	return links
}

func siteHost(raw string) (string, bool) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Hostname() == "" {
		return "", false
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www."), true
}
