package apidox

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

var (
	colonLineRe   = regexp.MustCompile(`(?m)(^|\n\n)([^\n*]+:)\n\n`)
	indentBlockRe = regexp.MustCompile(`(?m)^(?: {4}[^\n]+\n*)+`)
	indentRe      = regexp.MustCompile(`(?m)^ {4}`)
)

func (c *conversion) renderRecord(sym string, rec comment.Record) {
	c.heading(sym)
	c.summary(sym, rec)
	c.description(sym, rec)
	c.params(sym)
	c.returns(sym)
	c.throws(sym)
	c.sees(sym)
	c.nav(sym)
}

// heading writes the symbol heading, preceded by a section anchor for every
// ancestor path that is not a symbol and has not been anchored yet.
func (c *conversion) heading(sym string) {
	for _, parent := range ancestors(sym) {
		if _, ok := c.known[parent]; ok {
			continue
		}
		name := Slug(parent)
		if c.anchors.Add(name) {
			c.push(fmt.Sprintf("\n<a name=\"%s\"></a>", name))
		}
	}
	c.h(1, sym+c.meta.Signature(sym))
}

func (c *conversion) summary(sym string, rec comment.Record) {
	if rec.Summary == "" {
		return
	}
	c.bq(c.linker.Link(c.mask.escape(rec.Summary), sym))
}

func (c *conversion) description(sym string, rec comment.Record) {
	if rec.Body == "" {
		return
	}
	c.p(c.linker.Link(c.mask.escape(stylize(rec.Body)), sym))
}

// stylize bolds isolated lines ending in a colon and turns 4-space indented
// blocks into fenced code.
func stylize(body string) string {
	buf := colonLineRe.ReplaceAllString(body, "${1}**${2}**\n\n")
	for _, block := range indentBlockRe.FindAllString(buf, -1) {
		code := strings.TrimRight(indentRe.ReplaceAllString(block, ""), " \t\n")
		buf = strings.Replace(buf, block, "```js\n"+code+"\n```\n\n", 1)
	}
	return buf
}

func (c *conversion) params(sym string) {
	set := c.meta.Params[sym]
	if set.Len() == 0 {
		return
	}
	c.p("**Parameters:**")
	c.newline()
	c.entryList(sym, set, func(name string, e *Entry) string {
		return "- `" + typeUnion(e.Types) + name + "`"
	})
}

func (c *conversion) throws(sym string) {
	set := c.meta.Throws[sym]
	if set.Len() == 0 {
		return
	}
	c.p("**Throws:**")
	c.newline()
	c.entryList(sym, set, func(_ string, e *Entry) string {
		return strings.TrimSpace("- " + typeSpan(e.Types))
	})
}

// entryList writes one list item per entry followed by its overflow lines.
// Overflow that does not open with a list item is set off by a blank line,
// and a blank line separates one entry's overflow from the next entry.
func (c *conversion) entryList(sym string, set *EntrySet, label func(string, *Entry) string) {
	keys := set.Keys()
	for idx, key := range keys {
		e := set.Get(key)
		c.push(label(key, e) + c.entryDescription(sym, e))
		if len(e.Overflow) == 0 {
			continue
		}
		if !startsWithListItem(e.Overflow[0]) {
			c.newline()
		}
		c.overflow(sym, e)
		if idx < len(keys)-1 {
			c.newline()
		}
	}
}

func (c *conversion) returns(sym string) {
	e := c.meta.Returns[sym]
	if e == nil {
		return
	}
	c.p("**Return:**")
	c.p(typeSpan(e.Types) + c.entryDescription(sym, e))
	if len(e.Overflow) > 0 {
		c.newline()
		c.overflow(sym, e)
	}
}

func (c *conversion) sees(sym string) {
	sees := c.meta.Sees[sym]
	if len(sees) == 0 {
		return
	}
	c.p("**See:**")
	c.newline()
	for _, see := range sees {
		c.push("- " + c.mask.escape(c.linker.Link(see, sym)))
	}
}

func (c *conversion) nav(sym string) {
	links := []string{"[TOC](#tableofcontents)"}
	if parent := parentPath(sym); parent != "" {
		links = append(links, fmt.Sprintf("[%s](#%s)", parent, tocTarget(parent, c.known, c.meta)))
	}
	c.p("<sub>Go: " + strings.Join(links, " | ") + "</sub>")
}

func (c *conversion) entryDescription(sym string, e *Entry) string {
	if e.Description == "" {
		return ""
	}
	return c.mask.escape(" " + c.linker.Link(e.Description, sym))
}

func (c *conversion) overflow(sym string, e *Entry) {
	for _, line := range e.Overflow {
		c.push(c.mask.escape(c.linker.Link(line, sym)))
	}
}

// typeUnion renders "{a | b} " for a type list, or nothing without types.
func typeUnion(types []string) string {
	if len(types) == 0 {
		return ""
	}
	return "{" + strings.Join(types, " | ") + "} "
}

// typeSpan renders "`{a | b}`", or nothing without types.
func typeSpan(types []string) string {
	if len(types) == 0 {
		return ""
	}
	return "`" + strings.TrimSpace(typeUnion(types)) + "`"
}

func startsWithListItem(line string) bool {
	line = strings.TrimSpace(line)
	return strings.HasPrefix(line, "-") || strings.HasPrefix(line, "*")
}

func (c *conversion) push(line string) {
	c.lines = append(c.lines, line)
}

func (c *conversion) newline() {
	c.push("")
}

func (c *conversion) p(text string) {
	c.push("\n" + strings.TrimSpace(text))
}

func (c *conversion) bq(text string) {
	c.push("\n> " + strings.TrimSpace(text))
}

func (c *conversion) h(level int, text string) {
	c.push("\n" + strings.Repeat("#", level) + " " + text)
}
