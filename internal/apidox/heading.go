package apidox

import (
	"regexp"
	"strings"
)

var (
	slugStripRe = regexp.MustCompile(`[^a-zA-Z0-9\-_ ]+`)
	slugSpaceRe = regexp.MustCompile(`\s+`)
)

// Slug builds a GitHub-compatible heading anchor from text.
func Slug(text string) string {
	text = slugStripRe.ReplaceAllString(text, "")
	text = slugSpaceRe.ReplaceAllString(text, "-")
	return strings.ToLower(text)
}

// Signature returns the parenthesised parameter list of sym, in the order
// the parameters were first declared.
func (m *Metadata) Signature(sym string) string {
	return "(" + strings.Join(m.Params[sym].Keys(), ", ") + ")"
}

// SlugMethod returns the heading anchor of sym including its signature.
func (m *Metadata) SlugMethod(sym string) string {
	return Slug(sym + m.Signature(sym))
}

// parentPath returns sym without its last dotted segment.
func parentPath(sym string) string {
	i := strings.LastIndex(sym, ".")
	if i < 0 {
		return ""
	}
	return sym[:i]
}

// ancestors lists the proper ancestor paths of sym, nearest first:
// "A.B.c" yields "A.B", "A".
func ancestors(sym string) []string {
	var out []string
	for p := parentPath(sym); p != ""; p = parentPath(p) {
		out = append(out, p)
	}
	return out
}
