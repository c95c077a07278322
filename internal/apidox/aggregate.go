package apidox

import (
	"fmt"
	"strings"

	"github.com/agentflare-ai/go-apidox/internal/comment"
)

// Entry is the collected metadata of a @param, @return or @throws tag.
type Entry struct {
	Types       []string
	Description string
	// Overflow holds the tag-less lines that followed the tag.
	Overflow []string
}

// EntrySet is an insertion-ordered set of entries keyed by parameter name or
// throw identity. Overwriting a key keeps its original position.
type EntrySet struct {
	keys    []string
	entries map[string]*Entry
}

func newEntrySet() *EntrySet {
	return &EntrySet{entries: make(map[string]*Entry)}
}

// Keys returns the keys in first-insertion order.
func (s *EntrySet) Keys() []string {
	if s == nil {
		return nil
	}
	return s.keys
}

// Get returns the entry stored under key.
func (s *EntrySet) Get(key string) *Entry {
	if s == nil {
		return nil
	}
	return s.entries[key]
}

// Len returns the number of entries.
func (s *EntrySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

func (s *EntrySet) put(key string, e *Entry) {
	if _, ok := s.entries[key]; !ok {
		s.keys = append(s.keys, key)
	}
	s.entries[key] = e
}

// Metadata is the per-symbol tag metadata of one conversion run.
type Metadata struct {
	Params  map[string]*EntrySet
	Returns map[string]*Entry
	Throws  map[string]*EntrySet
	Sees    map[string][]string
}

// Aggregate runs the params, returns, throws and sees passes over the
// filtered records.
func Aggregate(records []comment.Record) *Metadata {
	m := &Metadata{
		Params:  make(map[string]*EntrySet),
		Returns: make(map[string]*Entry),
		Throws:  make(map[string]*EntrySet),
		Sees:    make(map[string][]string),
	}
	for _, rec := range records {
		m.collectParams(rec)
	}
	for _, rec := range records {
		m.collectReturns(rec)
	}
	for _, rec := range records {
		m.collectThrows(rec)
	}
	for _, rec := range records {
		m.collectSees(rec)
	}
	return m
}

// overflowTarget is the attachment state for overflow lines: either no
// active target, or the key of the entry that overflow lines extend.
type overflowTarget struct {
	key    string
	active bool
}

func (t *overflowTarget) open(key string) {
	t.key = key
	t.active = true
}

func (t *overflowTarget) close() {
	t.key = ""
	t.active = false
}

func (t overflowTarget) current() (string, bool) {
	return t.key, t.active
}

// walkTags drives the overflow state machine over tags. Tags of kind opener
// call onOpen, which returns the key that following overflow lines attach
// to. Any other recognised tag closes the target. Overflow lines without an
// active target are dropped.
func walkTags(tags []comment.Tag, opener comment.TagKind, onOpen func(comment.Tag) string, onOverflow func(key, line string)) {
	var target overflowTarget
	for _, tag := range tags {
		switch {
		case tag.Kind == opener:
			target.open(onOpen(tag))
		case !tag.Kind.Recognized():
			if key, ok := target.current(); ok {
				onOverflow(key, tag.Line)
			}
		default:
			target.close()
		}
	}
}

func (m *Metadata) collectParams(rec comment.Record) {
	if len(rec.Tags) == 0 {
		return
	}
	sym, _ := Resolve(rec)
	params := newEntrySet()
	m.Params[sym] = params
	walkTags(rec.Tags, comment.Param,
		func(tag comment.Tag) string {
			params.put(tag.Name, &Entry{Types: tag.Types, Description: tag.Description})
			return tag.Name
		},
		func(name, line string) {
			if marker, rest, ok := listItem(line); ok {
				line = fmt.Sprintf("  %s %s", marker, rest)
			}
			e := params.Get(name)
			e.Overflow = append(e.Overflow, line)
		})
}

func (m *Metadata) collectReturns(rec comment.Record) {
	if len(rec.Tags) == 0 {
		return
	}
	sym, _ := Resolve(rec)
	walkTags(rec.Tags, comment.Return,
		func(tag comment.Tag) string {
			m.Returns[sym] = &Entry{Types: tag.Types, Description: tag.Description}
			return sym
		},
		func(_, line string) {
			if marker, rest, ok := listItem(line); ok {
				line = marker + " " + rest
			}
			e := m.Returns[sym]
			e.Overflow = append(e.Overflow, line)
		})
}

func (m *Metadata) collectThrows(rec comment.Record) {
	if len(rec.Tags) == 0 {
		return
	}
	sym, _ := Resolve(rec)
	throws := newEntrySet()
	m.Throws[sym] = throws
	walkTags(rec.Tags, comment.Throws,
		func(tag comment.Tag) string {
			id := throwID(tag)
			throws.put(id, &Entry{Types: tag.Types, Description: tag.Description})
			return id
		},
		func(id, line string) {
			if marker, rest, ok := listItem(line); ok {
				line = marker + " " + rest
			}
			e := throws.Get(id)
			e.Overflow = append(e.Overflow, line)
		})
}

func (m *Metadata) collectSees(rec comment.Record) {
	if len(rec.Tags) == 0 {
		return
	}
	sym, _ := Resolve(rec)
	sees := []string{}
	for _, tag := range rec.Tags {
		if tag.Kind != comment.See {
			continue
		}
		switch {
		case tag.URL != "":
			title := tag.Name
			if title == "" {
				title = tag.URL
			}
			sees = append(sees, fmt.Sprintf("[%s](%s)", title, tag.URL))
		case tag.Local != "":
			sees = append(sees, tag.Local)
		}
	}
	m.Sees[sym] = sees
}

func throwID(tag comment.Tag) string {
	return strings.Join(tag.Types, "|") + tag.Description
}

// listItem reports whether an overflow line is a "-" or "*" list item and
// returns its marker and text.
func listItem(line string) (marker, rest string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", "", false
	}
	if fields[0] != "-" && fields[0] != "*" {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}
