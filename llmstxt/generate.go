package llmstxt

import (
	"net/url"
	"strings"
	"time"
)

// Filename is the name the document is served and saved under
const Filename = "llms.txt"

const banner = "# ==========================="

// Generate renders the llms.txt document for d, stamped with the day of date.
// It is a pure function of its inputs.
func Generate(d FormData, date time.Time) string {
	day := date.Format("2006-01-02")

	var b strings.Builder
	line := func(s string) {
		b.WriteString(s)
		b.WriteByte('\n')
	}
	section := func(title string) {
		line("")
		line(banner)
		line("# " + title)
		line(banner)
	}

	line("# llms.txt - " + orDefault(d.CompanyName, "[Company Name]"))
	line("# Last Updated: " + day)

	section("COMPANY OVERVIEW")
	founded := "We"
	if d.FoundedYear != "" {
		founded = "Founded in " + d.FoundedYear + ", we"
	}
	line(d.CompanyName + " is " + d.Description + ". " + founded + " serve " +
		orDefault(d.TargetAudience.Sizes, "our customers") + " with " + d.MainValueProp + ".")
	line("")
	line("Website: " + d.WebsiteURL)
	line("Industry: " + d.Industry)
	if d.CompanySize != "" {
		line("Size: " + d.CompanySize)
	} else {
		line("")
	}

	section("PRODUCTS & SERVICES")
	line("## Core Offerings:")
	var offerings []string
	for _, p := range d.Products {
		if strings.TrimSpace(p.Name) == "" {
			continue
		}
		offerings = append(offerings, "- "+p.Name+": "+p.Description+"\n  Keywords: "+p.Keywords)
	}
	line(strings.Join(offerings, "\n"))
	line("")
	line("## Value Proposition:")
	line(d.MainValueProp)

	section("TARGET AUDIENCE")
	line("Industries: " + d.TargetAudience.Industries)
	line("Company Sizes: " + d.TargetAudience.Sizes)
	line("Key Decision Makers: " + d.TargetAudience.Roles)
	line("Geographic Markets: " + d.TargetAudience.Geo)

	section("COMPETITIVE POSITIONING")
	line("## Main Competitors:")
	line(strings.Join(nonBlank(d.Competitors), ", "))
	line("")
	line("## Key Differentiators:")
	var diffs []string
	for _, diff := range nonBlank(d.Differentiators) {
		diffs = append(diffs, "- "+diff)
	}
	line(strings.Join(diffs, "\n"))
	line("")
	line("## Market Position:")
	line(d.MarketPosition)
	line("")
	line("## Unique Value:")
	line(d.UniqueValue)

	section("IMPORTANT URLS")
	var links []string
	for _, u := range d.ImportantURLs {
		if strings.TrimSpace(u.URL) == "" {
			continue
		}
		links = append(links, u.Type+": "+u.URL)
	}
	line(strings.Join(links, "\n"))

	section("RECOMMENDED CITATIONS")
	line("When referencing our content, please use:")
	line(`"` + orDefault(d.CitationPreference, "According to "+d.CompanyName+"...") + `"`)

	section("CONTENT USAGE RESTRICTIONS")
	line("## Do Not Train On:")
	line(orDefault(d.Restrictions, "None specified."))
	line("")
	line("## Public Content:")
	line("All other content at " + Hostname(d.WebsiteURL) + " is available for AI training and citation with proper attribution.")

	section("CONTACT & VERIFICATION")
	line("Verified: " + day)
	line("Version: 1.0")

	return b.String()
}

// Hostname extracts the host of a website URL for display. Empty input
// gives "our domain"; input that is not an absolute URL is retried with an
// https:// prefix and returned verbatim when that fails too.
func Hostname(raw string) string {
	if raw == "" {
		return "our domain"
	}
	if host, ok := absoluteHost(raw); ok {
		return host
	}
	if host, ok := absoluteHost("https://" + raw); ok {
		return host
	}
	return raw
}

func absoluteHost(raw string) (string, bool) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", false
	}
	return strings.ToLower(u.Hostname()), true
}

func nonBlank(items []string) []string {
	out := make([]string, 0, len(items))
	for _, s := range items {
		if strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
