package llmstxt

import (
	"fmt"
	"time"
)

// Step is one page of the wizard
type Step struct {
	Number      int    `json:"number" yaml:"number"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Steps lists the wizard pages in order
var Steps = []Step{
	{1, "Company Basics", "Provide a clear description AI tools can use when referencing you."},
	{2, "Products & Services", "List your core offerings so AI knows what you sell."},
	{3, "Target Audience", "Help AI recommend you to the right people."},
	{4, "Competitive Positioning", "Ensure AI makes accurate comparisons (Brand A vs Brand B)."},
	{5, "Important URLs", "Where should AI send traffic?"},
	{6, "Restrictions & Preferences", "Set boundaries for AI usage."},
}

// List names the repeatable fields of the form
type List string

const (
	ListProducts        List = "products"
	ListImportantURLs   List = "importantUrls"
	ListDifferentiators List = "differentiators"
	ListCompetitors     List = "competitors"
)

// Wizard walks through the form one step at a time. It is not safe for
// concurrent use.
type Wizard struct {
	step int
	data FormData
}

// NewWizard starts at step 1 with an empty form
func NewWizard() *Wizard {
	return &Wizard{step: 1, data: NewFormData()}
}

// Step returns the current 1-based step number
func (w *Wizard) Step() int { return w.step }

// Current returns the current step
func (w *Wizard) Current() Step { return Steps[w.step-1] }

// Next advances one step, stopping at the last
func (w *Wizard) Next() {
	if w.step < len(Steps) {
		w.step++
	}
}

// Prev goes back one step, stopping at the first
func (w *Wizard) Prev() {
	if w.step > 1 {
		w.step--
	}
}

// Data returns a copy of the form
func (w *Wizard) Data() FormData { return w.data.Clone() }

// Update applies fn to the form
func (w *Wizard) Update(fn func(*FormData)) { fn(&w.data) }

// LoadTemplate replaces the whole form with a built-in template and returns
// to step 1 for review.
func (w *Wizard) LoadTemplate(name string) error {
	d, err := Template(name)
	if err != nil {
		return err
	}
	w.data = d
	w.step = 1
	return nil
}

// AddItem appends a blank entry to a list field
func (w *Wizard) AddItem(list List) error {
	switch list {
	case ListProducts:
		w.data.Products = append(w.data.Products, Product{})
	case ListImportantURLs:
		w.data.ImportantURLs = append(w.data.ImportantURLs, ImportantURL{})
	case ListDifferentiators:
		w.data.Differentiators = append(w.data.Differentiators, "")
	case ListCompetitors:
		w.data.Competitors = append(w.data.Competitors, "")
	default:
		return fmt.Errorf("unknown list %q", list)
	}
	return nil
}

// RemoveItem deletes the entry at index from a list field. Out-of-range
// indexes are ignored.
func (w *Wizard) RemoveItem(list List, index int) error {
	switch list {
	case ListProducts:
		w.data.Products = removeAt(w.data.Products, index)
	case ListImportantURLs:
		w.data.ImportantURLs = removeAt(w.data.ImportantURLs, index)
	case ListDifferentiators:
		w.data.Differentiators = removeAt(w.data.Differentiators, index)
	case ListCompetitors:
		w.data.Competitors = removeAt(w.data.Competitors, index)
	default:
		return fmt.Errorf("unknown list %q", list)
	}
	return nil
}

// Preview renders the document for the current form
func (w *Wizard) Preview(date time.Time) string {
	return Generate(w.data, date)
}

func removeAt[T any](items []T, index int) []T {
	if index < 0 || index >= len(items) {
		return items
	}
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:index]...)
	return append(out, items[index+1:]...)
}
