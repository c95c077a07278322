package jsdoc

import (
	"path/filepath"
	"slices"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"gitlab.com/tozd/go/errors"
)

// ErrUnsupportedExtension is returned for files no grammar is registered for.
var ErrUnsupportedExtension = errors.Base("unsupported file extension")

// Language holds the tree-sitter grammar for a family of source files.
type Language struct {
	Name       string
	Extensions []string
	lang       *sitter.Language
}

// NewParser creates a fresh parser for this language.
// Parsers are not safe for concurrent use.
func (l *Language) NewParser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(l.lang)
	return p
}

var languages = []*Language{
	{Name: "javascript", Extensions: []string{".js", ".mjs", ".cjs", ".jsx"}, lang: javascript.GetLanguage()},
	{Name: "typescript", Extensions: []string{".ts", ".mts", ".cts"}, lang: typescript.GetLanguage()},
	{Name: "tsx", Extensions: []string{".tsx"}, lang: tsx.GetLanguage()},
}

// LanguageFor returns the language for path based on its extension.
func LanguageFor(path string) (*Language, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, l := range languages {
		if slices.Contains(l.Extensions, ext) {
			return l, nil
		}
	}
	return nil, errors.Errorf("%w: %q", ErrUnsupportedExtension, path)
}

// Supported reports whether path has a registered extension.
func Supported(path string) bool {
	_, err := LanguageFor(path)
	return err == nil
}
