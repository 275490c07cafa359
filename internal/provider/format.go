package provider

import (
	"slices"

	"subio/internal/clash"
	"subio/internal/diagnostic"
	"subio/internal/node"
	"subio/internal/surge"
)

//go:generate go tool stringer -type=Format -trimprefix=Format -output=format_string.go

// Format is a raw document format shared by a family of providers.
type Format int

const (
	_ Format = iota // zero value is not a valid format

	FormatSurge // positional/keyed INI-like text
	FormatClash // structured YAML proxies list

	// FormatTotal is the number of defined formats plus the zero value.
	FormatTotal = int(iota)
)

// ParseFunc parses raw provider text into raw records.
type ParseFunc func(text string) ([]*node.Record, diagnostic.Diagnostics, error)

// FixupFunc corrects one unified record.
type FixupFunc func(rec *node.Record) *node.Record

// Dialect is the pair of functions bracketing unification for a format.
type Dialect struct {
	Parse ParseFunc
	Fixup FixupFunc
}

var dialects = map[Format]Dialect{
	FormatSurge: {Parse: surge.Parse, Fixup: surge.Fixup},
	FormatClash: {Parse: clash.Parse, Fixup: clash.Fixup},
}

var providers = map[string]Format{
	"surge":      FormatSurge,
	"surfboard":  FormatSurge,
	"clash":      FormatClash,
	"clash-meta": FormatClash,
	"stash":      FormatClash,
}

// Dialect returns the parser and fixup of the format.
func (f Format) Dialect() (Dialect, bool) {
	d, ok := dialects[f]
	return d, ok
}

// IsValid returns true for defined formats.
func (f Format) IsValid() bool {
	_, ok := dialects[f]
	return ok
}

// Lookup returns the format of a provider identifier.
func Lookup(id string) (Format, bool) {
	f, ok := providers[id]
	return f, ok
}

// IDs returns every supported provider identifier, sorted.
func IDs() []string {
	ids := make([]string, 0, len(providers))
	for id := range providers {
		ids = append(ids, id)
	}

	slices.Sort(ids)

	return ids
}
