package llmstxt

// Product is one offering listed in the document
type Product struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Keywords    string `json:"keywords" yaml:"keywords"`
}

// ImportantURL is a labelled link listed in the document
type ImportantURL struct {
	Type string `json:"type" yaml:"type"`
	URL  string `json:"url" yaml:"url"`
}

// Audience describes who the company sells to
type Audience struct {
	Industries string `json:"industries" yaml:"industries"`
	Sizes      string `json:"sizes" yaml:"sizes"`
	Roles      string `json:"roles" yaml:"roles"`
	Geo        string `json:"geo" yaml:"geo"`
}

// FormData holds every field collected by the wizard
type FormData struct {
	CompanyName        string         `json:"companyName" yaml:"companyName"`
	WebsiteURL         string         `json:"websiteUrl" yaml:"websiteUrl"`
	Industry           string         `json:"industry" yaml:"industry"`
	Description        string         `json:"description" yaml:"description"`
	FoundedYear        string         `json:"foundedYear" yaml:"foundedYear"`
	CompanySize        string         `json:"companySize" yaml:"companySize"`
	Products           []Product      `json:"products" yaml:"products"`
	MainValueProp      string         `json:"mainValueProp" yaml:"mainValueProp"`
	TargetAudience     Audience       `json:"targetAudience" yaml:"targetAudience"`
	Competitors        []string       `json:"competitors" yaml:"competitors"`
	Differentiators    []string       `json:"differentiators" yaml:"differentiators"`
	MarketPosition     string         `json:"marketPosition" yaml:"marketPosition"`
	UniqueValue        string         `json:"uniqueValue" yaml:"uniqueValue"`
	ImportantURLs      []ImportantURL `json:"importantUrls" yaml:"importantUrls"`
	Restrictions       string         `json:"restrictions" yaml:"restrictions"`
	CitationPreference string         `json:"citationPreference" yaml:"citationPreference"`
}

// NewFormData returns the empty form the wizard starts from: one blank
// product, one blank differentiator and a blank homepage link.
func NewFormData() FormData {
	return FormData{
		Products:        []Product{{}},
		Competitors:     []string{},
		Differentiators: []string{""},
		ImportantURLs:   []ImportantURL{{Type: "Homepage"}},
	}
}

// Clone returns a deep copy of d
func (d FormData) Clone() FormData {
	d.Products = append([]Product(nil), d.Products...)
	d.Competitors = append([]string(nil), d.Competitors...)
	d.Differentiators = append([]string(nil), d.Differentiators...)
	d.ImportantURLs = append([]ImportantURL(nil), d.ImportantURLs...)
	return d
}
