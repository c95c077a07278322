package apidox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/tools/txtar"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

func fn(name string, tags ...comment.Tag) comment.Record {
	return comment.Record{
		Context: &comment.Context{Kind: comment.Function, Name: name + "()"},
		Code:    "function " + name + "() {}",
		Tags:    tags,
	}
}

func param(name string, desc string, types ...string) comment.Tag {
	return comment.Tag{Kind: comment.Param, Name: name, Types: types, Description: desc}
}

func overflow(line string) comment.Tag {
	return comment.Tag{Kind: comment.Overflow, Line: line}
}

func archiveFile(t *testing.T, path, name string) string {
	t.Helper()
	ar, err := txtar.ParseFile(path)
	require.NoError(t, err)
	for _, f := range ar.Files {
		if f.Name == name {
			return string(f.Data)
		}
	}
	t.Fatalf("%s: no file %q", path, name)
	return ""
}

func TestConvertGolden(t *testing.T) {
	doThing := fn("doThing",
		param("a", "first", "string"),
		param("b", "", "number"),
		comment.Tag{Kind: comment.Return, Types: []string{"bool"}, Description: "ok"},
	)
	doThing.Summary = "Do the thing."
	records := []comment.Record{
		{Summary: "Widget helpers."},
		doThing,
		{
			Context: &comment.Context{Kind: comment.Method, Name: "Klass.prototype.foo()"},
			Summary: "Call doThing first.",
		},
	}

	got := Convert(records, Options{Input: "lib/widget.js", Output: "docs/widget.md"})
	assert.Equal(t, archiveFile(t, "testdata/basic.txtar", "want.md"), got)
}

func TestConvertTags(t *testing.T) {
	rec := fn("doThing",
		param("a", "first", "string"),
		overflow("- one"),
		overflow("more text"),
		comment.Tag{Kind: comment.API, Visibility: "public"},
		overflow("dropped"),
		comment.Tag{Kind: comment.Return, Types: []string{"bool"}, Description: "ok"},
		overflow("* yes"),
		comment.Tag{Kind: comment.Throws, Types: []string{"Error"}, Description: "bad"},
		overflow("when broken"),
		comment.Tag{Kind: comment.See, Name: "X", URL: "http://x"},
		comment.Tag{Kind: comment.See, Local: "Klass.foo"},
	)
	out := Convert([]comment.Record{{}, rec}, Options{OmitSourceLink: true})

	assert.Contains(t, out, "# doThing(a)\n")
	assert.Contains(t, out, "**Parameters:**\n\n- `{string} a` first\n  - one\nmore text\n\n**Return:**")
	assert.Contains(t, out, "**Return:**\n\n`{bool}` ok\n\n* yes\n")
	assert.Contains(t, out, "**Throws:**\n\n- `{Error}` bad\n\nwhen broken\n")
	assert.Contains(t, out, "**See:**\n\n- [X](http://x)\n- Klass.foo\n")
	assert.NotContains(t, out, "dropped")
	assert.NotContains(t, out, "_Source")
}

func TestConvertUntypedTags(t *testing.T) {
	rec := fn("check",
		comment.Tag{Kind: comment.Return, Description: "the value"},
		comment.Tag{Kind: comment.Throws, Description: "when bad"},
	)
	out := Convert([]comment.Record{{}, rec}, Options{OmitSourceLink: true})

	assert.Contains(t, out, "**Return:**\n\nthe value\n\n**Throws:**\n\n- when bad\n\n<sub>")
	assert.NotContains(t, out, "``")
}

func TestConvertDescription(t *testing.T) {
	rec := fn("run")
	rec.Summary = "Runs a < b."
	rec.Body = "Example:\n\n    helper(1 < 2);\n\nSee helper for more."
	helper := fn("helper")
	out := Convert([]comment.Record{{}, rec, helper}, Options{})

	assert.Contains(t, out, "> Runs a &lt; b.\n")
	assert.Contains(t, out, "**Example:**\n\n```js\nhelper(1 < 2);\n```\n\nSee [helper](#helper) for more.")
}

func TestConvertSourceLink(t *testing.T) {
	records := []comment.Record{{Summary: "Top.", Body: "More about the file."}}

	out := Convert(records, Options{InputTitle: "widget"})
	assert.Contains(t, out, "_Source: widget_")

	out = Convert(records, Options{Input: "lib/a.js", Output: "lib/a.md", InputTitle: "A"})
	assert.Contains(t, out, "_Source: [A](a.js)_")

	out = Convert(records, Options{FullSourceDescription: true, OmitSourceLink: true})
	assert.True(t, strings.HasPrefix(out, "Top.\n\nMore about the file.\n"), out)

	out = Convert(records, Options{})
	assert.NotContains(t, out, "More about the file.")
}

func TestConvertEmpty(t *testing.T) {
	out := Convert(nil, Options{})
	assert.True(t, strings.HasPrefix(out, `<a name="tableofcontents"></a>`), out)
	assert.True(t, strings.HasSuffix(out, Credit+"\n"), out)
}

func TestRenderDocument(t *testing.T) {
	doc := Render([]comment.Record{{Summary: "File."}, fn("a"), fn("b")}, Options{})
	assert.Equal(t, "File.", doc.Summary)
	assert.Equal(t, []string{"a", "b"}, doc.Symbols)
	assert.Contains(t, doc.Markdown, "# a()")
}

func TestNavLinks(t *testing.T) {
	records := []comment.Record{
		{},
		fn("A", param("x", "")),
		fn("A.b"),
		fn("C.d"),
	}
	out := Convert(records, Options{})

	// A parent that is a symbol links to its own TOC anchor.
	assert.Contains(t, out, "[A](#toc_ax)")
	assert.Contains(t, out, `<a name="toc_ax"></a>`)
	assert.Contains(t, out, "[C](#toc_c)")
	assert.Contains(t, out, `<a name="toc_c"></a>`)
	assert.Contains(t, out, "\n<a name=\"c\"></a>\n\n# C.d()")
}

func TestStylize(t *testing.T) {
	got := stylize("Example:\n\n    foo();\n    bar();\n\nDone.")
	assert.Equal(t, "**Example:**\n\n```js\nfoo();\nbar();\n```\n\nDone.", got)

	assert.Equal(t, "no change", stylize("no change"))
}

func TestSourceURL(t *testing.T) {
	assert.Equal(t, "../lib/widget.js", sourceURL("lib/widget.js", "docs/widget.md"))
	assert.Equal(t, "widget.js", sourceURL("lib/widget.js", "lib/widget.md"))
	assert.Equal(t, "lib/widget.js", sourceURL("lib/widget.js", "README.md"))
}
