package apidox

import "github.com/agentflare-ai/go-apidox/internal/comment"

// Filter splits parsed records into the file-level comment and the records
// that document public API. The first record is always the file comment.
// Later records are dropped when they cannot be resolved to a symbol, are
// marked private, or document a module-local variable.
func Filter(records []comment.Record) (comment.Record, []comment.Record) {
	if len(records) == 0 {
		return comment.Record{}, nil
	}
	file := records[0]
	var kept []comment.Record
	for _, rec := range records[1:] {
		if _, ok := Resolve(rec); !ok {
			continue
		}
		if rec.Private {
			continue
		}
		if isLocalVar(rec.Code) {
			continue
		}
		kept = append(kept, rec)
	}
	return file, kept
}
