// Package apidox converts parsed documentation comments into a markdown API
// document with a table of contents, cross-reference links between symbols
// and fenced code blocks.
//
// A conversion is a pure function of its records and Options: every call
// owns its metadata, anchor registry and line buffer, so documents can be
// converted concurrently without coordination.
package apidox

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

// Credit is the generator line appended to every document.
const Credit = "_&mdash;generated by [apidox](https://github.com/agentflare-ai/go-apidox)&mdash;_"

// Options configures one conversion.
type Options struct {
	// Input is the source path. It is only used for the source backlink;
	// empty means the source was not read from a file.
	Input string
	// Output is the destination path the backlink is made relative to.
	Output string
	// InputTitle overrides the backlink text. Empty means Input.
	InputTitle string
	// OmitSourceLink drops the "Source: ..." line.
	OmitSourceLink bool
	// FullSourceDescription uses the whole file comment in the header
	// instead of its summary.
	FullSourceDescription bool
}

// Document is the result of a conversion.
type Document struct {
	Markdown string
	// Summary is the file comment summary.
	Summary string
	// Symbols lists the documented symbols in document order.
	Symbols []string
}

// Convert renders records, in parse order, as a markdown document.
func Convert(records []comment.Record, opts Options) string {
	return Render(records, opts).Markdown
}

// Render is Convert with the document metadata.
func Render(records []comment.Record, opts Options) Document {
	c := newConversion(records, opts)
	c.render()
	return Document{
		Markdown: c.String(),
		Summary:  c.file.Summary,
		Symbols:  c.symbols,
	}
}

type conversion struct {
	opts    Options
	file    comment.Record
	records []comment.Record
	symbols []string
	known   map[string]struct{}
	meta    *Metadata
	anchors *AnchorRegistry
	linker  *Linker
	mask    codeMask
	lines   []string
}

func newConversion(records []comment.Record, opts Options) *conversion {
	file, kept := Filter(records)
	symbols := make([]string, len(kept))
	for i, rec := range kept {
		symbols[i], _ = Resolve(rec)
	}
	meta := Aggregate(kept)
	linker := NewLinker(symbols, meta.SlugMethod)
	return &conversion{
		opts:    opts,
		file:    file,
		records: kept,
		symbols: symbols,
		known:   symbolSet(symbols),
		meta:    meta,
		anchors: NewAnchorRegistry(),
		linker:  linker,
		mask:    linker.mask,
	}
}

func (c *conversion) render() {
	for i, rec := range c.records {
		c.renderRecord(c.symbols[i], rec)
	}
	toc := tocLines(BuildTOC(c.symbols, c.meta, c.anchors), c.mask)
	c.prepend(toc...)
	c.prepend(c.sourceLink()...)
	c.prepend(c.sourceDescription())
	c.p(Credit)
}

func (c *conversion) String() string {
	return strings.TrimSpace(strings.Join(c.lines, "\n")) + "\n"
}

func (c *conversion) prepend(lines ...string) {
	c.lines = append(append([]string{}, lines...), c.lines...)
}

func (c *conversion) sourceDescription() string {
	desc := c.file.Summary
	if c.opts.FullSourceDescription {
		desc = c.file.Full()
	}
	current, _ := Resolve(c.file)
	return c.linker.Link(c.mask.escape(desc), current)
}

func (c *conversion) sourceLink() []string {
	if c.opts.OmitSourceLink {
		return nil
	}
	title := c.opts.InputTitle
	if title == "" {
		title = c.opts.Input
	}
	lines := []string{""}
	switch {
	case c.opts.Input != "":
		lines = append(lines, "_Source: ["+title+"]("+sourceURL(c.opts.Input, c.opts.Output)+")_")
	case title != "":
		lines = append(lines, "_Source: "+title+"_")
	}
	return lines
}

// sourceURL returns the link from the output document's directory to the
// input file.
func sourceURL(input, output string) string {
	rel, err := filepath.Rel(filepath.Dir(output), filepath.Dir(input))
	if err != nil {
		return filepath.ToSlash(input)
	}
	return path.Join(filepath.ToSlash(rel), filepath.Base(input))
}
