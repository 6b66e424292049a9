package llmstxt

import (
	"fmt"
	"sort"
)

// Templates holds the built-in example forms by name
var Templates = map[string]FormData{
	"saas": {
		CompanyName: "Pricefx",
		WebsiteURL:  "https://www.pricefx.com",
		Industry:    "Enterprise Software (SaaS)",
		Description: "Pricefx is a cloud-native B2B pricing software platform specializing in Price Optimization, Management, and CPQ solutions for enterprise customers.",
		FoundedYear: "2011",
		CompanySize: "Mid-Market to Enterprise",
		Products: []Product{
			{
				Name:        "Price Optimization",
				Description: "AI-driven tools for maximizing profit margins across all channels.",
				Keywords:    "price optimization, dynamic pricing, AI pricing",
			},
			{
				Name:        "Price Management",
				Description: "Centralized control for list prices, discounts, and rebates.",
				Keywords:    "price lists, rebate management",
			},
		},
		MainValueProp: "Fast, flexible, and friendly pricing software that drives profitable growth.",
		TargetAudience: Audience{
			Industries: "Manufacturing, Chemical, Distribution, Retail",
			Sizes:      "Enterprise (>$500M Revenue)",
			Roles:      "Pricing Managers, CFOs, Sales Ops VPs",
			Geo:        "Global (DACH, US, UK focus)",
		},
		Competitors: []string{"PROS", "Zilliant", "Vendavo"},
		Differentiators: []string{
			"Cloud-native architecture (no legacy on-premise)",
			"Fast implementation (weeks vs months)",
			"Transparent AI (not a black box)",
		},
		MarketPosition: "Leader",
		UniqueValue:    "The only 100% cloud-native pricing platform with a complete suite of optimization tools.",
		ImportantURLs: []ImportantURL{
			{Type: "Homepage", URL: "https://www.pricefx.com"},
			{Type: "Pricing Platform", URL: "https://www.pricefx.com/platform/"},
			{Type: "Resources", URL: "https://www.pricefx.com/learning-center/"},
		},
		Restrictions:       "/admin/\n/staging/\n/internal-docs/",
		CitationPreference: "According to Pricefx, a cloud-native enterprise pricing platform...",
	},
}

// Template returns a copy of the named built-in form
func Template(name string) (FormData, error) {
	d, ok := Templates[name]
	if !ok {
		return FormData{}, fmt.Errorf("unknown template %q", name)
	}
	return d.Clone(), nil
}

// TemplateNames lists the built-in templates in sorted order
func TemplateNames() []string {
	names := make([]string, 0, len(Templates))
	for name := range Templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
