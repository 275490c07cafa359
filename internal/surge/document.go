package surge

import (
	"fmt"
	"strings"

	"subio/internal/common"
	"subio/internal/diagnostic"
)

// Document is a sectioned INI-like configuration file.
//
// Grammar:
//
//	document = { line }
//	line     = blank | comment | header | entry
//	comment  = ("#" | ";" | "//") text
//	header   = "[" name "]"
//	entry    = key "=" value
//
// Keys are case-sensitive and split from the value at the first "=".
// Entries outside any section and lines that are none of the above are
// reported as malformed and skipped.
type Document struct {
	sections []*Section
	index    map[string]*Section
}

// Section is a named, ordered list of entries.
type Section struct {
	Name    string
	Entries []Entry
}

// Entry is a single key/value line within a section.
type Entry struct {
	Key   string
	Value string
	Line  int
}

// ParseDocument splits text into sections. Problems are recorded in diags.
func ParseDocument(text string, diags *diagnostic.Diagnostics) *Document {
	doc := &Document{index: make(map[string]*Section)}

	var current *Section

	for i, raw := range strings.Split(text, "\n") {
		lineNo := i + 1
		line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))

		if line == "" || isComment(line) {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			name := strings.TrimSpace(line[1 : len(line)-1])
			current = doc.section(name)

			continue
		}

		key, value, ok := common.CutTrim(line, "=")
		if !ok || key == "" {
			diags.AddWarning(diagnostic.CodeMalformedLine,
				fmt.Sprintf("line %d: expected key = value", lineNo), "", "")

			continue
		}

		if current == nil {
			diags.AddWarning(diagnostic.CodeMalformedLine,
				fmt.Sprintf("line %d: entry outside of any section", lineNo), key, "")

			continue
		}

		current.add(Entry{Key: key, Value: value, Line: lineNo}, diags)
	}

	return doc
}

// Section returns the section with the given name.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.index[name]
	return s, ok
}

// Sections returns all sections in file order.
func (d *Document) Sections() []*Section {
	return d.sections
}

// section returns the named section, creating it on first use. A header
// repeated later in the file continues the existing section.
func (d *Document) section(name string) *Section {
	if s, ok := d.index[name]; ok {
		return s
	}

	s := &Section{Name: name}
	d.sections = append(d.sections, s)
	d.index[name] = s

	return s
}

// Get returns the value of key within the section.
func (s *Section) Get(key string) (string, bool) {
	for _, e := range s.Entries {
		if e.Key == key {
			return e.Value, true
		}
	}

	return "", false
}

// add appends an entry; a repeated key replaces the earlier value in place.
func (s *Section) add(e Entry, diags *diagnostic.Diagnostics) {
	for i := range s.Entries {
		if s.Entries[i].Key == e.Key {
			diags.AddWarning(diagnostic.CodeDuplicateKey,
				fmt.Sprintf("line %d: duplicate key in section [%s], earlier value on line %d replaced",
					e.Line, s.Name, s.Entries[i].Line),
				e.Key, "")

			s.Entries[i].Value = e.Value
			s.Entries[i].Line = e.Line

			return
		}
	}

	s.Entries = append(s.Entries, e)
}

func isComment(line string) bool {
	return strings.HasPrefix(line, "#") ||
		strings.HasPrefix(line, ";") ||
		strings.HasPrefix(line, "//")
}
