package apidox

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// codeMask swaps backtick-delimited code spans for placeholder tokens so
// that text rewrites never touch code.
type codeMask struct {
	nonce string
}

func newCodeMask() codeMask {
	return codeMask{nonce: uuid.NewString()}
}

func (c codeMask) token(i int) string {
	return "\x00" + c.nonce + ":" + strconv.Itoa(i) + "\x00"
}

// apply runs fn over text with every code span masked and restores the
// spans verbatim afterwards.
func (c codeMask) apply(text string, fn func(string) string) string {
	spans := codeSpans(text)
	if len(spans) == 0 {
		return fn(text)
	}
	var b strings.Builder
	pairs := make([]string, 0, 2*len(spans))
	last := 0
	for i, sp := range spans {
		tok := c.token(i)
		b.WriteString(text[last:sp[0]])
		b.WriteString(tok)
		pairs = append(pairs, tok, text[sp[0]:sp[1]])
		last = sp[1]
	}
	b.WriteString(text[last:])
	return strings.NewReplacer(pairs...).Replace(fn(b.String()))
}

// codeSpans returns the byte ranges of code spans in s. A span opens with a
// run of N backticks and closes at the next run of exactly N backticks, so
// it covers inline code as well as fenced blocks. Unclosed runs are text.
func codeSpans(s string) [][2]int {
	var spans [][2]int
	i := 0
	for i < len(s) {
		if s[i] != '`' {
			i++
			continue
		}
		open := backtickRun(s, i)
		end := -1
		for k := i + open; k < len(s); {
			if s[k] != '`' {
				k++
				continue
			}
			n := backtickRun(s, k)
			if n == open {
				end = k + n
				break
			}
			k += n
		}
		if end < 0 {
			i += open
			continue
		}
		spans = append(spans, [2]int{i, end})
		i = end
	}
	return spans
}

func backtickRun(s string, i int) int {
	n := 0
	for i+n < len(s) && s[i+n] == '`' {
		n++
	}
	return n
}

// Linker rewrites plain-text mentions of known symbols into markdown links
// to their heading anchors.
type Linker struct {
	targets []linkTarget
	mask    codeMask
}

type linkTarget struct {
	name   string
	anchor string
	re     *regexp.Regexp
}

// NewLinker prepares a linker for symbols. anchor maps a symbol to its
// heading slug. Longer names are tried first so that a name is never
// partially linked through a shorter name it contains.
func NewLinker(symbols []string, anchor func(string) string) *Linker {
	seen := make(map[string]struct{}, len(symbols))
	var names []string
	for _, sym := range symbols {
		if _, ok := seen[sym]; ok || sym == "" {
			continue
		}
		seen[sym] = struct{}{}
		names = append(names, sym)
	}
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	l := &Linker{mask: newCodeMask()}
	for _, name := range names {
		l.targets = append(l.targets, linkTarget{
			name:   name,
			anchor: anchor(name),
			re:     regexp.MustCompile(`(?m)(?:^|\s)(` + regexp.QuoteMeta(name) + `)`),
		})
	}
	return l
}

// Link returns text with every standalone mention of a symbol other than
// current replaced by a link. Mentions inside code spans are left alone.
func (l *Linker) Link(text, current string) string {
	if text == "" {
		return text
	}
	for _, t := range l.targets {
		if t.name == current {
			continue
		}
		text = l.mask.apply(text, t.replace)
	}
	return text
}

func (t linkTarget) replace(text string) string {
	matches := t.re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text
	}
	var b strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[2], m[3]
		if end < len(text) && isWordByte(text[end]) {
			continue
		}
		b.WriteString(text[last:start])
		b.WriteString("[" + t.name + "](#" + t.anchor + ")")
		last = end
	}
	b.WriteString(text[last:])
	return b.String()
}

func isWordByte(c byte) bool {
	return c == '_' || ('0' <= c && c <= '9') || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

// escape replaces HTML-significant characters outside code spans. An
// ampersand that already starts an entity is kept.
func (c codeMask) escape(text string) string {
	return c.apply(text, escapeHTML)
}

func escapeHTML(s string) string {
	if !strings.ContainsAny(s, "&<>") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if isEntity(s[i+1:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

// isEntity reports whether s begins with one or more word characters
// followed by ';'.
func isEntity(s string) bool {
	n := 0
	for n < len(s) && isWordByte(s[n]) {
		n++
	}
	return n > 0 && n < len(s) && s[n] == ';'
}
