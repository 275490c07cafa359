package mapping

import (
	"slices"
	"sort"
)

// File represents the root of a YAML mapping definition file.
type File struct {
	// Version of the mapping schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Providers lists one table definition per provider family.
	Providers []TableDef `yaml:"providers"`
}

// TableDef is the YAML form of a table for one or more providers.
type TableDef struct {
	// Name is the provider identifier, or a list of identifiers sharing
	// this table.
	Name StringOrArray `yaml:"name"`

	// OneToOne maps native field names to canonical field names.
	// Priority: highest.
	OneToOne map[string]string `yaml:"121,omitempty"`

	// Fields defines rules with full control, including transforms.
	Fields []FieldRule `yaml:"fields,omitempty"`
}

// FieldRule maps one native field to a canonical field.
type FieldRule struct {
	// Source is the provider-native field name.
	Source string `yaml:"source"`

	// Target is the canonical field name. Empty means the same as Source.
	Target string `yaml:"target,omitempty"`

	// Transform names a registry transform applied to the value.
	Transform string `yaml:"transform,omitempty"`
}

// Rule is a compiled FieldRule with Target always set.
type Rule struct {
	Source    string
	Target    string
	Transform string
}

// Table is the compiled rule set for one provider.
// A nil *Table has no rules, so every field passes through.
type Table struct {
	Provider string
	rules    map[string]Rule
}

// NewTable creates a table from rules. Later rules for the same source
// replace earlier ones.
func NewTable(provider string, rules ...Rule) *Table {
	t := &Table{Provider: provider, rules: make(map[string]Rule, len(rules))}

	for _, r := range rules {
		if r.Target == "" {
			r.Target = r.Source
		}

		t.rules[r.Source] = r
	}

	return t
}

// Rule returns the rule for a native field name.
func (t *Table) Rule(source string) (Rule, bool) {
	if t == nil {
		return Rule{}, false
	}

	r, ok := t.rules[source]

	return r, ok
}

// Rules returns every rule sorted by source name.
func (t *Table) Rules() []Rule {
	if t == nil {
		return nil
	}

	out := make([]Rule, 0, len(t.rules))
	for _, r := range t.rules {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Source < out[j].Source })

	return out
}

// Len returns the number of rules.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.rules)
}

// Compile turns a definition into the rules of its table. "121" renames
// are applied last so they take priority over "fields".
func (d *TableDef) Compile(provider string) *Table {
	rules := make([]Rule, 0, len(d.Fields)+len(d.OneToOne))

	for _, f := range d.Fields {
		rules = append(rules, Rule(f))
	}

	sources := make([]string, 0, len(d.OneToOne))
	for source := range d.OneToOne {
		sources = append(sources, source)
	}

	slices.Sort(sources)

	for _, source := range sources {
		rules = append(rules, Rule{Source: source, Target: d.OneToOne[source]})
	}

	return NewTable(provider, rules...)
}

// Source resolves the mapping table for a provider identifier.
type Source interface {
	Lookup(provider string) (*Table, bool)
}

// Set is a Source backed by a map of compiled tables.
type Set map[string]*Table

// NewSet builds a Set keyed by each table's provider.
func NewSet(tables ...*Table) Set {
	s := make(Set, len(tables))
	for _, t := range tables {
		s[t.Provider] = t
	}

	return s
}

// Lookup implements Source.
func (s Set) Lookup(provider string) (*Table, bool) {
	t, ok := s[provider]
	return t, ok
}

// Providers returns the provider identifiers in the set, sorted.
func (s Set) Providers() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}

	slices.Sort(out)

	return out
}

// Chain is a Source that consults each member in order.
type Chain []Source

// Lookup implements Source.
func (c Chain) Lookup(provider string) (*Table, bool) {
	for _, s := range c {
		if s == nil {
			continue
		}

		if t, ok := s.Lookup(provider); ok {
			return t, true
		}
	}

	return nil, false
}

// Tables compiles every definition in the file into a Set. When two
// definitions name the same provider the later one wins; Validate reports it.
func (f *File) Tables() Set {
	s := make(Set)

	for i := range f.Providers {
		def := &f.Providers[i]
		for _, name := range def.Name {
			s[name] = def.Compile(name)
		}
	}

	return s
}
