package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gitlab.com/tozd/go/errors"

	"github.com/agentflare-ai/go-apidox/internal/config"
)

const fixture = "testdata/lib/kitchen-sink.js"

func convertFixture(t *testing.T, extra ...string) string {
	t.Helper()
	target := filepath.Join(t.TempDir(), "out.md")
	args := append([]string{"--input", fixture, "--output", target, "--input-title", "kitchen-sink.js"}, extra...)
	if err := run(args, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	return string(content)
}

func TestFileMarkdown(t *testing.T) {
	out := convertFixture(t)
	if !strings.HasPrefix(out, "Kitchen sink summary\n\n_Source: [kitchen-sink.js](") {
		t.Fatalf("unexpected header\n\n%s", out)
	}
	assertContains(t, out, `<a name="tableofcontents"></a>`)
	assertContains(t, out, `- <a name="toc_create"></a>[create](#create)`)
	assertContains(t, out, `- <a name="toc_widget"></a>[Widget](#widget)`)
	assertContains(t, out, `- <a name="toc_widgetprototyperenderstr-mixed"></a><a name="toc_widgetprototype"></a>[Widget.prototype.render](#widgetprototyperenderstr-mixed)`)
	assertContains(t, out, `- <a name="toc_widgetparsearr"></a>[Widget.parse](#widgetparsearr)`)
	assertOrder(t, out, "# create()", "# Widget()", "# Widget.prototype.render(str, mixed)", "# Widget.parse(arr)")
	if !strings.HasSuffix(out, "generated by [apidox](https://github.com/agentflare-ai/go-apidox)&mdash;_\n") {
		t.Fatalf("missing credit line\n\n%s", out)
	}
}

func TestFileMarkdownSections(t *testing.T) {
	out := convertFixture(t)
	assertContains(t, out, "> Create a new [Widget](#widget).")
	assertContains(t, out, "**Return:**\n\n`{Widget}`\n")
	assertContains(t, out, "**Usage:**\n\n```js\nvar w = create();\nw.render();\n```")
	assertContains(t, out, "\n<a name=\"widgetprototype\"></a>\n\n# Widget.prototype.render(str, mixed)")
	assertContains(t, out, "> Render it, escape this: &lt;b&gt;&amp;")
	assertContains(t, out, "Link this: [Widget.parse](#widgetparsearr)\nDon't link this: `Widget.parse`")
	assertContains(t, out, "- `{string} str` String summary, link this: [Widget.parse](#widgetparsearr)\n\n  String body\n\n- `{string | array} mixed` Mixed summary\n  * Mixed item 1\n  * Mixed item 2\n")
	assertContains(t, out, "`{boolean}` Whether it rendered")
	assertContains(t, out, "**Throws:**\n\n- `{TypeError}` When str is missing")
	assertContains(t, out, "**See:**\n\n- [Docs](http://example.com/docs)\n- [Widget.parse](#widgetparsearr)")
	assertContains(t, out, "<sub>Go: [TOC](#tableofcontents) | [Widget.prototype](#toc_widgetprototype)</sub>")
	assertContains(t, out, "- `{array} arr`\n  - Array item 1\n  - Array item 2")
	assertContains(t, out, "<sub>Go: [TOC](#tableofcontents) | [Widget](#toc_widget)</sub>")
	if strings.Contains(out, "noop") || strings.Contains(out, "cache") {
		t.Fatalf("private and local symbols must be skipped\n\n%s", out)
	}
}

func TestSourceOptions(t *testing.T) {
	out := convertFixture(t, "--no-source-link", "--full-source-description")
	if !strings.HasPrefix(out, "Kitchen sink summary\n\nKitchen sink description\n") {
		t.Fatalf("expected full description\n\n%s", out)
	}
	if strings.Contains(out, "_Source:") {
		t.Fatalf("expected no source link\n\n%s", out)
	}
}

func TestStdinToStdout(t *testing.T) {
	src, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	var buf bytes.Buffer
	err = runContext(context.Background(), []string{"-i", "-", "-o", "-"}, bytes.NewReader(src), &buf, io.Discard)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	assertContains(t, buf.String(), "_Source: stdin_")
	assertContains(t, buf.String(), "# Widget.parse(arr)")
}

func TestLegacySingleDashFlags(t *testing.T) {
	target := filepath.Join(t.TempDir(), "out.md")
	if err := run([]string{"-input", fixture, "-output=" + target}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected output file: %v", err)
	}
}

func TestMissingTarget(t *testing.T) {
	var stderr bytes.Buffer
	err := run([]string{}, io.Discard, &stderr)
	if !errors.Is(err, config.ErrNoTarget) {
		t.Fatalf("expected ErrNoTarget, got %v", err)
	}
	assertContains(t, stderr.String(), "Usage:")
}

func TestInvalidFlags(t *testing.T) {
	for _, args := range [][]string{
		{"--input", fixture},
		{"--output", filepath.Join(t.TempDir(), "out.md")},
		{"--root", "testdata"},
	} {
		var stderr bytes.Buffer
		err := run(args, io.Discard, &stderr)
		if !errors.Is(err, config.ErrNoTarget) {
			t.Fatalf("%v: expected ErrNoTarget, got %v", args, err)
		}
		assertContains(t, stderr.String(), "Usage:")
	}
}

func TestUnsupportedInput(t *testing.T) {
	err := run([]string{"--input", "doc.go", "--output", "-"}, io.Discard, io.Discard)
	if err == nil || !strings.Contains(err.Error(), "unsupported file extension") {
		t.Fatalf("expected unsupported extension error, got %v", err)
	}
}

func TestDirectoryMode(t *testing.T) {
	target := t.TempDir()
	if err := run([]string{"--root", "testdata", "--target", target, "--concurrency", "2"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(target, "lib", "kitchen-sink.md"))
	if err != nil {
		t.Fatalf("read converted file: %v", err)
	}
	assertContains(t, string(content), "# Widget.parse(arr)")
	assertContains(t, string(content), "_Source: [lib/kitchen-sink.js](")

	index, err := os.ReadFile(filepath.Join(target, "README.md"))
	if err != nil {
		t.Fatalf("read index: %v", err)
	}
	assertContains(t, string(index), "## Files")
	assertContains(t, string(index), "- [lib/kitchen-sink.js](lib/kitchen-sink.md) - Kitchen sink summary")
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "out.md")
	cfgPath := filepath.Join(dir, "apidox.yml")
	abs, err := filepath.Abs(fixture)
	if err != nil {
		t.Fatalf("abs: %v", err)
	}
	cfg := "input: " + abs + "\noutput: " + target + "\ninput_title: from-config\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := run([]string{"--config", cfgPath}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	assertContains(t, string(content), "_Source: [from-config](")

	if err := run([]string{"--config", cfgPath, "--input-title", "from-flag"}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	content, err = os.ReadFile(target)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	assertContains(t, string(content), "_Source: [from-flag](")
}

func TestNormalizeLegacyArgs(t *testing.T) {
	got := normalizeLegacyArgs([]string{"-input", "a.js", "-o", "-", "-root=lib", "-x", "--", "-target"})
	want := []string{"--input", "a.js", "-o", "-", "--root=lib", "-x", "--", "-target"}
	if strings.Join(got, " ") != strings.Join(want, " ") {
		t.Fatalf("normalizeLegacyArgs = %q, want %q", got, want)
	}
}

func assertContains(t *testing.T, haystack, needle string) {
	t.Helper()
	if !strings.Contains(haystack, needle) {
		t.Fatalf("expected output to contain %q\n\n%s", needle, haystack)
	}
}

func assertOrder(t *testing.T, text string, needles ...string) {
	t.Helper()
	last := -1
	for _, needle := range needles {
		idx := strings.Index(text, needle)
		if idx == -1 {
			t.Fatalf("missing %q\n\n%s", needle, text)
		}
		if idx <= last {
			t.Fatalf("expected %q to appear after %q\n\n%s", needle, needles[0], text)
		}
		last = idx
	}
}

func TestHelpFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"--help"}, &buf, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	out := buf.String()
	assertContains(t, out, "apidox [flags]")
	assertContains(t, out, "--input")
	assertContains(t, out, "--root")
	assertContains(t, out, "completion  Generate shell completion scripts")
}

func TestVersionFlag(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"--version"}, &buf, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	assertContains(t, buf.String(), "apidox version "+Version)
}

func TestCompletionCommand(t *testing.T) {
	var buf bytes.Buffer
	if err := run([]string{"completion", "bash"}, &buf, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected completion output")
	}
	assertContains(t, buf.String(), "__start_apidox")
}

func TestGenDocsCommand(t *testing.T) {
	tmp := t.TempDir()
	if err := run([]string{"gen-docs", tmp}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	files, err := os.ReadDir(tmp)
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	var foundRoot bool
	for _, f := range files {
		if f.Name() == "apidox.md" {
			foundRoot = true
			break
		}
	}
	if !foundRoot {
		t.Fatalf("expected apidox.md in docs output, got %v", files)
	}
}

func TestGenDocsManPages(t *testing.T) {
	tmp := t.TempDir()
	if err := run([]string{"gen-docs", "--man", tmp}, io.Discard, io.Discard); err != nil {
		t.Fatalf("run: %v", err)
	}
	page, err := os.ReadFile(filepath.Join(tmp, "apidox.1"))
	if err != nil {
		t.Fatalf("read man page: %v", err)
	}
	assertContains(t, string(page), "APIDOX")
	assertContains(t, string(page), "--root")
}

func TestCompletionShells(t *testing.T) {
	for _, shell := range []string{"zsh", "fish", "powershell"} {
		var buf bytes.Buffer
		if err := run([]string{"completion", shell}, &buf, io.Discard); err != nil {
			t.Fatalf("%s: %v", shell, err)
		}
		assertContains(t, buf.String(), "apidox")
	}
	if err := run([]string{"completion", "tcsh"}, io.Discard, io.Discard); err == nil {
		t.Fatalf("expected error for unsupported shell")
	}
}
