package jsdoc

import (
	"strings"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

// ParseComment parses the raw text of a /** ... */ block. The returned
// record has no code or context.
func ParseComment(raw string) comment.Record {
	lines := commentLines(raw)

	split := len(lines)
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "@") {
			split = i
			break
		}
	}

	var rec comment.Record
	rec.Summary, rec.Body = comment.SplitDescription(strings.Join(lines[:split], "\n"))
	rec.Tags = parseTags(lines[split:])
	for _, tag := range rec.Tags {
		if tag.Kind == comment.API && tag.Visibility == "private" {
			rec.Private = true
		}
	}
	return rec
}

// commentLines strips the comment delimiters and the leading " * " of each
// line. Indentation past the first space after '*' is kept.
func commentLines(raw string) []string {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "/**")
	raw = strings.TrimSuffix(raw, "*/")

	lines := strings.Split(raw, "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t\r")
		trimmed := strings.TrimLeft(line, " \t")
		if rest, ok := strings.CutPrefix(trimmed, "*"); ok {
			line = strings.TrimPrefix(rest, " ")
		} else if i == 0 {
			line = trimmed
		}
		lines[i] = line
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// parseTags turns the tag section into tags. Blank lines are kept as
// overflow only when more overflow text follows them.
func parseTags(lines []string) []comment.Tag {
	var tags []comment.Tag
	blank := 0
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			blank++
			continue
		}
		if strings.HasPrefix(trimmed, "@") {
			blank = 0
			tags = append(tags, parseTagLine(trimmed))
			continue
		}
		for ; blank > 0; blank-- {
			tags = append(tags, comment.Tag{Kind: comment.Overflow})
		}
		tags = append(tags, comment.Tag{Kind: comment.Overflow, Line: line})
	}
	return tags
}

func parseTagLine(line string) comment.Tag {
	marker, rest, _ := strings.Cut(strings.TrimPrefix(line, "@"), " ")
	rest = strings.TrimSpace(rest)

	kind, ok := comment.KindForMarker(marker)
	if !ok {
		return comment.Tag{Kind: comment.Overflow, Name: marker, Line: line}
	}

	tag := comment.Tag{Kind: kind}
	switch kind {
	case comment.Param:
		tag.Types, rest = parseTypes(rest)
		tag.Name, tag.Description = cutField(rest)
	case comment.Return, comment.Throws:
		tag.Types, tag.Description = parseTypes(rest)
	case comment.Type:
		tag.Types, _ = parseTypes(rest)
	case comment.See:
		parseSee(&tag, rest)
	case comment.API:
		tag.Visibility, _ = cutField(rest)
	case comment.MemberOf, comment.Borrows:
		tag.Name = rest
	case comment.Audit:
		tag.Description = rest
	}
	return tag
}

// parseTypes reads a leading "{a|b}" type expression.
func parseTypes(s string) ([]string, string) {
	if !strings.HasPrefix(s, "{") {
		return nil, s
	}
	end := strings.Index(s, "}")
	if end < 0 {
		return nil, s
	}
	var types []string
	for _, t := range strings.Split(s[1:end], "|") {
		if t = strings.TrimSpace(t); t != "" {
			types = append(types, t)
		}
	}
	return types, strings.TrimSpace(s[end+1:])
}

func cutField(s string) (string, string) {
	first, rest, _ := strings.Cut(strings.TrimSpace(s), " ")
	return first, strings.TrimSpace(rest)
}

// parseSee handles "@see Title http://url" and "@see Local.reference".
func parseSee(tag *comment.Tag, rest string) {
	fields := strings.Fields(rest)
	for i, f := range fields {
		if strings.HasPrefix(f, "http://") || strings.HasPrefix(f, "https://") {
			tag.URL = f
			tag.Name = strings.Join(fields[:i], " ")
			return
		}
	}
	tag.Local = rest
}
