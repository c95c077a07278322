package apidox

import (
	"fmt"
	"strings"
)

// AnchorRegistry records the anchor names already emitted in one document.
// It only grows.
type AnchorRegistry struct {
	seen map[string]struct{}
}

// NewAnchorRegistry returns an empty registry.
func NewAnchorRegistry() *AnchorRegistry {
	return &AnchorRegistry{seen: make(map[string]struct{})}
}

// Add registers name and reports whether it was new.
func (r *AnchorRegistry) Add(name string) bool {
	if _, ok := r.seen[name]; ok {
		return false
	}
	r.seen[name] = struct{}{}
	return true
}

// Has reports whether name has been registered.
func (r *AnchorRegistry) Has(name string) bool {
	_, ok := r.seen[name]
	return ok
}

// TocEntry is one line of the table of contents.
type TocEntry struct {
	Title string
	URL   string
	// Anchors are emitted in front of the link: the entry's own anchor
	// followed by the section anchors first opened by this entry.
	Anchors []string
}

const tocAnchorPrefix = "toc_"

// BuildTOC returns one entry per symbol in document order. A section anchor
// is added the first time an ancestor path that is not itself a symbol is
// reached, so every section gets exactly one anchor.
func BuildTOC(symbols []string, meta *Metadata, reg *AnchorRegistry) []TocEntry {
	known := symbolSet(symbols)
	entries := make([]TocEntry, 0, len(symbols))
	for _, sym := range symbols {
		slug := meta.SlugMethod(sym)
		entry := TocEntry{
			Title:   sym,
			URL:     "#" + slug,
			Anchors: []string{tocAnchorPrefix + slug},
		}
		for _, parent := range ancestors(sym) {
			if _, ok := known[parent]; ok {
				continue
			}
			name := tocAnchorPrefix + Slug(parent)
			if reg.Add(name) {
				entry.Anchors = append(entry.Anchors, name)
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

// tocLines renders the table of contents section.
func tocLines(entries []TocEntry, mask codeMask) []string {
	lines := []string{"", `<a name="tableofcontents"></a>`, ""}
	for _, e := range entries {
		var anchors strings.Builder
		for _, a := range e.Anchors {
			fmt.Fprintf(&anchors, `<a name="%s"></a>`, a)
		}
		lines = append(lines, fmt.Sprintf("- %s[%s](%s)", anchors.String(), mask.escape(e.Title), e.URL))
	}
	return lines
}

// tocTarget returns the TOC anchor that navigation links to for a section.
func tocTarget(section string, known map[string]struct{}, meta *Metadata) string {
	if _, ok := known[section]; ok {
		return tocAnchorPrefix + meta.SlugMethod(section)
	}
	return tocAnchorPrefix + Slug(section)
}

func symbolSet(symbols []string) map[string]struct{} {
	set := make(map[string]struct{}, len(symbols))
	for _, s := range symbols {
		set[s] = struct{}{}
	}
	return set
}
