// Package jsdoc extracts /** ... */ documentation comments from JavaScript
// and TypeScript sources using tree-sitter.
package jsdoc

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"gitlab.com/tozd/go/errors"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

// Extract returns one record per documentation comment in src, in source
// order. A record's code is the source text between its comment and the
// next documentation comment.
func Extract(ctx context.Context, src []byte, lang *Language) ([]comment.Record, error) {
	parser := lang.NewParser()
	defer parser.Close()

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, errors.Errorf("parsing %s source: %w", lang.Name, err)
	}
	defer tree.Close()

	var docs []*sitter.Node
	collectDocComments(tree.RootNode(), src, &docs)

	records := make([]comment.Record, 0, len(docs))
	for i, node := range docs {
		end := uint32(len(src))
		if i+1 < len(docs) {
			end = docs[i+1].StartByte()
		}
		rec := ParseComment(node.Content(src))
		rec.Code = strings.TrimSpace(string(src[node.EndByte():end]))
		rec.Context = contextOf(node.NextNamedSibling(), src)
		records = append(records, rec)
	}
	return records, nil
}

func collectDocComments(node *sitter.Node, src []byte, out *[]*sitter.Node) {
	if node == nil {
		return
	}
	if node.Type() == "comment" {
		if isDocComment(node.Content(src)) {
			*out = append(*out, node)
		}
		return
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		collectDocComments(node.NamedChild(i), src, out)
	}
}

// isDocComment reports whether text is a /** block. "/**/" is an empty
// regular comment.
func isDocComment(text string) bool {
	return strings.HasPrefix(text, "/**") && text != "/**/"
}

// contextOf names the construct a documentation comment precedes.
func contextOf(node *sitter.Node, src []byte) *comment.Context {
	if node == nil {
		return nil
	}
	switch node.Type() {
	case "export_statement":
		return contextOf(node.ChildByFieldName("declaration"), src)

	case "function_declaration", "generator_function_declaration", "function_signature":
		if name := fieldText(node, "name", src); name != "" {
			return &comment.Context{Kind: comment.Function, Name: name + "()"}
		}

	case "class_declaration", "abstract_class_declaration":
		if name := fieldText(node, "name", src); name != "" {
			return &comment.Context{Kind: comment.Class, Name: name}
		}

	case "lexical_declaration", "variable_declaration":
		for i := 0; i < int(node.NamedChildCount()); i++ {
			decl := node.NamedChild(i)
			if decl.Type() != "variable_declarator" {
				continue
			}
			name := fieldText(decl, "name", src)
			if name == "" {
				return nil
			}
			if isFunction(decl.ChildByFieldName("value")) {
				return &comment.Context{Kind: comment.Function, Name: name + "()"}
			}
			return &comment.Context{Kind: comment.Declaration, Name: name}
		}

	case "expression_statement":
		if node.NamedChildCount() > 0 {
			return assignmentContext(node.NamedChild(0), src)
		}

	case "method_definition", "method_signature", "abstract_method_signature":
		return memberContext(node, "name", true, src)

	case "field_definition":
		return memberContext(node, "property", false, src)

	case "public_field_definition":
		return memberContext(node, "name", false, src)
	}
	return nil
}

// assignmentContext handles "a.b.c = ...". Assignments onto exports are
// left without context so they are named by their exported property.
func assignmentContext(node *sitter.Node, src []byte) *comment.Context {
	if node == nil || node.Type() != "assignment_expression" {
		return nil
	}
	left := collapse(fieldText(node, "left", src))
	if left == "" || strings.HasPrefix(left, "exports.") || strings.HasPrefix(left, "module.exports") {
		return nil
	}
	if isFunction(node.ChildByFieldName("right")) {
		kind := comment.Function
		if strings.Contains(left, ".") {
			kind = comment.Method
		}
		return &comment.Context{Kind: kind, Name: left + "()"}
	}
	return &comment.Context{Kind: comment.Property, Name: left}
}

// memberContext names a class member "Class.prototype.name", or
// "Class.name" when static. Constructors are not named.
func memberContext(node *sitter.Node, field string, callable bool, src []byte) *comment.Context {
	name := fieldText(node, field, src)
	class := enclosingClassName(node, src)
	if name == "" || class == "" || name == "constructor" {
		return nil
	}
	owner := class + ".prototype"
	if isStatic(node) {
		owner = class
	}
	if callable {
		return &comment.Context{Kind: comment.Method, Name: owner + "." + name + "()"}
	}
	return &comment.Context{Kind: comment.Property, Name: owner + "." + name}
}

func enclosingClassName(node *sitter.Node, src []byte) string {
	for p := node.Parent(); p != nil; p = p.Parent() {
		switch p.Type() {
		case "class_declaration", "abstract_class_declaration", "class":
			return fieldText(p, "name", src)
		}
	}
	return ""
}

func isStatic(node *sitter.Node) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == "static" {
			return true
		}
	}
	return false
}

func isFunction(node *sitter.Node) bool {
	if node == nil {
		return false
	}
	switch node.Type() {
	case "function", "function_expression", "arrow_function", "generator_function":
		return true
	}
	return false
}

func fieldText(node *sitter.Node, field string, src []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return child.Content(src)
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), "")
}
