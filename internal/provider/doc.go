// Package provider ties the raw-format parsers, the mapping tables and the
// per-format fixups together.
//
// An Engine turns the text exported by one provider into canonical nodes:
//
//	raw text -> Format parser -> mapping.Unify -> Format fixup -> []*node.Record
//
// Providers are named by identifier ("surge", "clash-meta", ...). Each
// identifier belongs to one Format and is unified with the table the
// Engine's mapping.Source returns for it.
package provider
