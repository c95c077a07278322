// Package comment defines the structured documentation comment records that
// the markdown converter consumes.
package comment

import "strings"

// TagKind identifies the marker that introduced a tag line.
type TagKind int

const (
	// Overflow is a continuation line with no recognised marker. Unknown
	// @tags are reported as overflow as well.
	Overflow TagKind = iota
	Param
	Return
	See
	Throws
	API
	Type
	MemberOf
	Audit
	Borrows
)

var tagKindNames = [...]string{
	Overflow: "overflow",
	Param:    "param",
	Return:   "return",
	See:      "see",
	Throws:   "throws",
	API:      "api",
	Type:     "type",
	MemberOf: "memberOf",
	Audit:    "audit",
	Borrows:  "borrows",
}

func (k TagKind) String() string {
	if k < 0 || int(k) >= len(tagKindNames) {
		return "unknown"
	}
	return tagKindNames[k]
}

// Recognized reports whether k is a tag marker that ends overflow collection
// for the previous tag.
func (k TagKind) Recognized() bool {
	return k != Overflow
}

// KindForMarker maps the word following '@' to a TagKind. The second result
// is false for markers the converter does not know about.
func KindForMarker(marker string) (TagKind, bool) {
	switch marker {
	case "param":
		return Param, true
	case "return", "returns":
		return Return, true
	case "see":
		return See, true
	case "throws":
		return Throws, true
	case "api":
		return API, true
	case "type":
		return Type, true
	case "memberOf":
		return MemberOf, true
	case "audit":
		return Audit, true
	case "borrows":
		return Borrows, true
	}
	return Overflow, false
}

// Tag is a single line from the tag section of a comment.
type Tag struct {
	Kind        TagKind
	Name        string   // @param name, @see title, unknown marker name
	Types       []string // {a|b} split on '|'
	Description string
	Line        string // text of an overflow line
	URL         string // @see with a URL
	Local       string // @see with a local reference
	Visibility  string // @api value
}

// ContextKind describes the syntactic construct a comment precedes.
type ContextKind int

const (
	Function ContextKind = iota
	Method
	Property
	Class
	Declaration
)

func (k ContextKind) String() string {
	switch k {
	case Function:
		return "function"
	case Method:
		return "method"
	case Property:
		return "property"
	case Class:
		return "class"
	case Declaration:
		return "declaration"
	}
	return "unknown"
}

// Context is the named construct a comment documents.
type Context struct {
	Kind ContextKind
	// Name is the dotted name, with a trailing "()" for callables,
	// e.g. "Klass.prototype.bar()".
	Name string
}

// Record is one parsed documentation comment.
type Record struct {
	Context *Context
	Private bool
	// Code is the source text following the comment, trimmed.
	Code    string
	Summary string
	Body    string
	Tags    []Tag
}

// Full returns the summary and body joined by a blank line.
func (r Record) Full() string {
	switch {
	case r.Body == "":
		return r.Summary
	case r.Summary == "":
		return r.Body
	}
	return r.Summary + "\n\n" + r.Body
}

// SplitDescription splits description text into its first paragraph and
// the remainder.
func SplitDescription(text string) (summary, body string) {
	text = strings.TrimSpace(text)
	summary, body, _ = strings.Cut(text, "\n\n")
	// Keep the body's leading indentation: indented blocks are code.
	body = strings.TrimRight(strings.TrimLeft(body, "\n"), " \t\n")
	return strings.TrimSpace(summary), body
}
