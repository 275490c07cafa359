package surge

import (
	"errors"
	"fmt"
	"strings"

	"subio/internal/common"
	"subio/internal/node"
)

var (
	errUnterminatedClause = errors.New("unterminated peer clause")
	errUnterminatedQuote  = errors.New("unterminated quote")
)

// ParsePeers parses a WireGuard peer list into one record per peer.
//
// Grammar:
//
//	peers  = clause { "," clause }
//	clause = "(" item { "," item } ")"
//	item   = key "=" value | continuation
//	value  = quoted | bare
//
// A key is split from its value at the first "=", so base64 keys ending in
// "=" survive. Commas inside double quotes do not separate items. An item
// without "=" continues the previous value, which lets unquoted lists such
// as "allowed-ips = 0.0.0.0/0, ::/0" parse the same as quoted ones.
// Quotes are stripped and any value containing a comma becomes a []string.
func ParsePeers(s string) ([]*node.Record, error) {
	clauses, err := splitClauses(s)
	if err != nil {
		return nil, err
	}

	peers := make([]*node.Record, 0, len(clauses))

	for i, clause := range clauses {
		peer, err := parseClause(clause)
		if err != nil {
			return nil, fmt.Errorf("peer %d: %w", i+1, err)
		}

		peers = append(peers, peer)
	}

	return peers, nil
}

// splitClauses returns the text inside each top-level parenthesized clause.
func splitClauses(s string) ([]string, error) {
	var (
		clauses []string
		current strings.Builder
		inQuote bool
		inside  bool
	)

	for i, r := range s {
		switch {
		case r == '"' && inside:
			inQuote = !inQuote
			current.WriteRune(r)

		case inQuote:
			current.WriteRune(r)

		case r == '(' && !inside:
			inside = true

		case r == ')' && inside:
			clauses = append(clauses, current.String())
			current.Reset()

			inside = false

		case inside:
			current.WriteRune(r)

		case r == ',' || r == ' ' || r == '\t':
			// separators between clauses

		default:
			return nil, fmt.Errorf("unexpected %q at offset %d outside of a peer clause", r, i)
		}
	}

	if inQuote {
		return nil, errUnterminatedQuote
	}

	if inside {
		return nil, errUnterminatedClause
	}

	return clauses, nil
}

func parseClause(clause string) (*node.Record, error) {
	peer := node.New()

	var lastKey string

	for _, item := range splitUnquoted(clause, ',') {
		if item == "" {
			continue
		}

		key, value, ok := common.CutTrim(item, "=")
		if !ok {
			if lastKey == "" {
				return nil, fmt.Errorf("value %q has no key", item)
			}

			prev := peer.String(lastKey)
			peer.Set(lastKey, prev+","+item)

			continue
		}

		if key == "" {
			return nil, fmt.Errorf("empty key in %q", item)
		}

		peer.Set(key, value)
		lastKey = key
	}

	for _, key := range peer.Keys() {
		peer.Set(key, peerValue(peer.String(key)))
	}

	return peer, nil
}

// peerValue strips quotes and turns comma-separated values into a list.
func peerValue(raw string) any {
	v := strings.ReplaceAll(raw, `"`, "")
	if !strings.Contains(v, ",") {
		return strings.TrimSpace(v)
	}

	return common.NonEmpty(common.SplitTrim(v, ","))
}

// splitUnquoted splits s on sep outside double quotes and trims each part.
func splitUnquoted(s string, sep rune) []string {
	var (
		parts   []string
		current strings.Builder
		inQuote bool
	)

	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == sep && !inQuote:
			parts = append(parts, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}

	return append(parts, strings.TrimSpace(current.String()))
}
