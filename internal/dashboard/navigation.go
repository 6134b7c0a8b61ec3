package dashboard

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownSection is returned when a navigation label matches no entry.
var ErrUnknownSection = errors.New("unknown section")

// Section identifies one view.
type Section string

const (
	SectionOverview      Section = "overview"
	SectionEDA           Section = "eda"
	SectionPreprocessing Section = "preprocessing"
	SectionVisualization Section = "visualization"
	SectionInsights      Section = "insights"
)

// Layouts.
const (
	LayoutSplit    = "split"
	LayoutCombined = "combined"
)

// Entry is one sidebar item; it renders its sections in order.
type Entry struct {
	Slug     string    `json:"slug"`
	Label    string    `json:"label"`
	Sections []Section `json:"sections"`
}

func splitEntries() []Entry {
	return []Entry{
		{Slug: "overview", Label: "Dataset Overview", Sections: []Section{SectionOverview}},
		{Slug: "eda", Label: "EDA", Sections: []Section{SectionEDA}},
		{Slug: "preprocessing", Label: "Preprocessing", Sections: []Section{SectionPreprocessing}},
		{Slug: "visualization", Label: "Visual Analysis", Sections: []Section{SectionVisualization}},
		{Slug: "insights", Label: "Insights", Sections: []Section{SectionInsights}},
	}
}

func combinedEntries() []Entry {
	return []Entry{
		{Slug: "overview", Label: "Dataset Overview", Sections: []Section{SectionOverview}},
		{Slug: "eda-preprocessing", Label: "EDA & Preprocessing", Sections: []Section{SectionEDA, SectionPreprocessing}},
		{Slug: "visualization", Label: "Visual Analysis", Sections: []Section{SectionVisualization}},
		{Slug: "insights", Label: "Insights & Recommendations", Sections: []Section{SectionInsights}},
	}
}

// Navigation is the closed set of sidebar entries for one layout.
type Navigation struct {
	layout  string
	entries []Entry
}

// NewNavigation builds the entries for layout ("" means split). labels
// overrides display labels keyed by entry slug.
func NewNavigation(layout string, labels map[string]string) (*Navigation, error) {
	var entries []Entry
	switch strings.ToLower(strings.TrimSpace(layout)) {
	case "", LayoutSplit:
		layout = LayoutSplit
		entries = splitEntries()
	case LayoutCombined:
		layout = LayoutCombined
		entries = combinedEntries()
	default:
		return nil, fmt.Errorf("unsupported layout: %s (use %s|%s)", layout, LayoutSplit, LayoutCombined)
	}
	for slug, label := range labels {
		label = strings.TrimSpace(label)
		found := false
		for i := range entries {
			if strings.EqualFold(entries[i].Slug, slug) {
				if label != "" {
					entries[i].Label = label
				}
				found = true
			}
		}
		if !found {
			return nil, fmt.Errorf("label override for %q: %w", slug, ErrUnknownSection)
		}
	}
	return &Navigation{layout: layout, entries: entries}, nil
}

// Layout returns the layout name.
func (n *Navigation) Layout() string { return n.layout }

// Entries returns a copy of the entries in display order.
func (n *Navigation) Entries() []Entry {
	out := make([]Entry, len(n.entries))
	copy(out, n.entries)
	return out
}

// Labels returns the display labels in order.
func (n *Navigation) Labels() []string {
	out := make([]string, len(n.entries))
	for i, e := range n.entries {
		out[i] = e.Label
	}
	return out
}

// Default is the entry shown when nothing is selected.
func (n *Navigation) Default() Entry { return n.entries[0] }

// Select resolves a label or slug to its entry.
func (n *Navigation) Select(name string) (Entry, error) {
	name = strings.TrimSpace(name)
	for _, e := range n.entries {
		if e.Label == name || strings.EqualFold(e.Slug, name) {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %q", ErrUnknownSection, name)
}
