// Package desktopentry reads, edits and writes freedesktop.org launcher
// entries (.desktop files) as ordered groups of key/value lines.
package desktopentry

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
)

// MainGroup is the group every launcher entry must start with.
const MainGroup = "Desktop Entry"

const utf8BOM = "\ufeff"

// ActionGroupPrefix prefixes the group name of each desktop action.
const ActionGroupPrefix = "Desktop Action "

// Line is a single line of a group. Comments and lines that are not
// key=value pairs keep their text in Raw and have an empty Key.
type Line struct {
	Key   string
	Value string
	Raw   string
}

// Group is a [section] and its lines in file order.
type Group struct {
	Name  string
	Lines []Line
}

// Entry is a parsed launcher entry.
type Entry struct {
	Header []Line // Comments before the first group
	Groups []*Group
}

// Parse reads a launcher entry. A leading UTF-8 byte order mark is
// skipped. Blank lines are dropped; comments and unrecognised lines are
// preserved in place.
func Parse(r io.Reader) (*Entry, error) {
	e := &Entry{}
	var cur *Group

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for n := 1; scanner.Scan(); n++ {
		text := strings.TrimRight(scanner.Text(), "\r")
		if n == 1 {
			text = strings.TrimPrefix(text, utf8BOM)
		}
		trimmed := strings.TrimSpace(text)

		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, "["):
			if !strings.HasSuffix(trimmed, "]") {
				return nil, fmt.Errorf("line %d: malformed group header %q", n, trimmed)
			}
			cur = &Group{Name: trimmed[1 : len(trimmed)-1]}
			e.Groups = append(e.Groups, cur)
			continue
		}

		line := parseLine(text)
		if cur == nil {
			if line.Key != "" {
				return nil, fmt.Errorf("line %d: key %q outside of a group", n, line.Key)
			}
			e.Header = append(e.Header, line)
			continue
		}
		cur.Lines = append(cur.Lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read launcher entry: %w", err)
	}
	return e, nil
}

func parseLine(text string) Line {
	trimmed := strings.TrimSpace(text)
	if strings.HasPrefix(trimmed, "#") {
		return Line{Raw: trimmed}
	}
	key, value, ok := strings.Cut(trimmed, "=")
	if !ok || strings.TrimSpace(key) == "" {
		return Line{Raw: trimmed}
	}
	return Line{Key: strings.TrimSpace(key), Value: strings.TrimSpace(value)}
}

// Group returns the group with the given name, or nil.
func (e *Entry) Group(name string) *Group {
	for _, g := range e.Groups {
		if g.Name == name {
			return g
		}
	}
	return nil
}

// AddGroup returns the named group, appending an empty one when missing.
func (e *Entry) AddGroup(name string) *Group {
	if g := e.Group(name); g != nil {
		return g
	}
	g := &Group{Name: name}
	e.Groups = append(e.Groups, g)
	return g
}

// ReplaceGroup drops any group with the same name and appends g.
func (e *Entry) ReplaceGroup(g *Group) {
	e.RemoveGroup(g.Name)
	e.Groups = append(e.Groups, g)
}

// RemoveGroup deletes every group with the given name.
func (e *Entry) RemoveGroup(name string) {
	kept := e.Groups[:0]
	for _, g := range e.Groups {
		if g.Name != name {
			kept = append(kept, g)
		}
	}
	e.Groups = kept
}

// Main returns the [Desktop Entry] group, or nil.
func (e *Entry) Main() *Group {
	return e.Group(MainGroup)
}

// ActionGroups returns every [Desktop Action ...] group.
func (e *Entry) ActionGroups() []*Group {
	var groups []*Group
	for _, g := range e.Groups {
		if strings.HasPrefix(g.Name, ActionGroupPrefix) {
			groups = append(groups, g)
		}
	}
	return groups
}

// Get returns the raw value of the first line with key.
func (g *Group) Get(key string) (string, bool) {
	for _, l := range g.Lines {
		if l.Key == key {
			return l.Value, true
		}
	}
	return "", false
}

// Set replaces the raw value of key, appending the key when missing.
// Duplicate occurrences of key are removed.
func (g *Group) Set(key, value string) {
	found := false
	kept := g.Lines[:0]
	for _, l := range g.Lines {
		if l.Key == key {
			if found {
				continue
			}
			l.Value = value
			found = true
		}
		kept = append(kept, l)
	}
	g.Lines = kept
	if !found {
		g.Lines = append(g.Lines, Line{Key: key, Value: value})
	}
}

// SetString stores a string value, escaping it first.
func (g *Group) SetString(key, value string) {
	g.Set(key, EscapeString(value))
}

// Has reports whether key is present.
func (g *Group) Has(key string) bool {
	_, ok := g.Get(key)
	return ok
}

// AppendToList adds item to the ;-separated list stored under key unless it
// is already there. A missing key is created.
func (g *Group) AppendToList(key, item string) {
	value, _ := g.Get(key)
	items := SplitList(value)
	for _, it := range items {
		if it == item {
			return
		}
	}
	g.Set(key, JoinList(append(items, item)))
}

// SplitList splits a ;-separated list value, honouring \; escapes.
func SplitList(value string) []string {
	var (
		items []string
		cur   strings.Builder
	)
	for i := 0; i < len(value); i++ {
		c := value[i]
		switch {
		case c == '\\' && i+1 < len(value) && value[i+1] == ';':
			cur.WriteString(`\;`)
			i++
		case c == ';':
			if cur.Len() > 0 {
				items = append(items, cur.String())
			}
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}
	if cur.Len() > 0 {
		items = append(items, cur.String())
	}
	return items
}

// JoinList joins items into a list value with a trailing separator.
func JoinList(items []string) string {
	if len(items) == 0 {
		return ""
	}
	return strings.Join(items, ";") + ";"
}

// WriteTo serializes the entry: key=value lines, one blank line between
// groups and a trailing newline.
func (e *Entry) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, l := range e.Header {
		buf.WriteString(l.String())
		buf.WriteByte('\n')
	}
	for i, g := range e.Groups {
		if i > 0 || len(e.Header) > 0 {
			buf.WriteByte('\n')
		}
		fmt.Fprintf(&buf, "[%s]\n", g.Name)
		for _, l := range g.Lines {
			buf.WriteString(l.String())
			buf.WriteByte('\n')
		}
	}
	return buf.WriteTo(w)
}

// Bytes returns the serialized entry.
func (e *Entry) Bytes() []byte {
	var buf bytes.Buffer
	_, _ = e.WriteTo(&buf)
	return buf.Bytes()
}

func (l Line) String() string {
	if l.Key == "" {
		return l.Raw
	}
	return l.Key + "=" + l.Value
}
