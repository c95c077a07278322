package apidox

import (
	"regexp"
	"strings"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

var (
	exportedPropRe = regexp.MustCompile(`^(?:module\.)?exports\.([^ ]+) =`)
	localVarRe     = regexp.MustCompile(`^(?:var|let|const)\s`)
)

// Resolve returns the dotted symbol name a record documents. The second
// result is false for records that document nothing citable.
func Resolve(rec comment.Record) (string, bool) {
	if rec.Context != nil && rec.Context.Name != "" {
		return strings.TrimSuffix(rec.Context.Name, "()"), true
	}
	return exportedProp(rec.Code)
}

func exportedProp(code string) (string, bool) {
	if code == "" {
		return "", false
	}
	m := exportedPropRe.FindStringSubmatch(code)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func isLocalVar(code string) bool {
	return localVarRe.MatchString(code)
}
