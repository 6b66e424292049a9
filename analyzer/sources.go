package analyzer

// DedupeSources drops citations lacking a title or URL and keeps the first
// occurrence of every URL, preserving order. Titles are not compared.
func DedupeSources(citations []GroundingSource) []GroundingSource {
	seen := make(map[string]bool, len(citations))
	sources := make([]GroundingSource, 0, len(citations))

	for _, c := range citations {
		if c.Title == "" || c.URL == "" {
			continue
		}
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		sources = append(sources, c)
	}

	return sources
}
