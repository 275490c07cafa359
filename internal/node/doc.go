// Package node provides the ordered record type shared by every stage of the
// parsing pipeline.
//
// A Record is used both for the loosely-typed records produced by the raw
// format parsers and for the canonical nodes handed to downstream consumers.
// Keys keep their insertion order so that rendering a node list is
// byte-for-byte reproducible.
//
// Values stored in a Record are limited to:
//   - string, bool, int
//   - []string for multi-value fields (e.g. allowed-ips)
//   - *Record for nested mappings (e.g. websocket headers)
//   - []*Record for nested sequences (e.g. WireGuard peers)
//
// Values decoded from structured documents may additionally be float64,
// nil or []any.
package node
