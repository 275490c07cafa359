package surge

import (
	"fmt"
	"strings"

	"subio/internal/common"
	"subio/internal/diagnostic"
	"subio/internal/node"
)

// ProxySection is the section holding one node per entry.
const ProxySection = "Proxy"

// Field names the parser reads or produces.
const (
	FieldTLS               = "tls"
	FieldNetwork           = "network"
	FieldWS                = "ws"
	FieldWSHeaders         = "ws-headers"
	FieldWSOptsHeaders     = "ws-opts-headers"
	FieldPlugin            = "plugin"
	FieldPluginOptsVersion = "plugin-opts-version"
	FieldShadowTLSPassword = "shadow-tls-password"
	FieldSectionName       = "section-name"
	FieldPeer              = "peer"
)

// AnonymousKeys are the names given, in order, to components without "=".
var AnonymousKeys = []string{"type", "server", "port", "username", "password"}

// Parse parses a Surge-style subscription into raw node records in file
// order. Warnings are returned in the diagnostics; an error is returned only
// for conditions that make the whole document unusable (no [Proxy] section,
// a WireGuard node referencing a missing section).
func Parse(text string) ([]*node.Record, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	doc := ParseDocument(common.StripBOM(text), &diags)

	proxies, ok := doc.Section(ProxySection)
	if !ok {
		return nil, diags, &diagnostic.Error{Section: ProxySection, Err: diagnostic.ErrMissingSection}
	}

	nodes := make([]*node.Record, 0, len(proxies.Entries))

	for _, e := range proxies.Entries {
		rec := splitEntry(e.Key, e.Value, &diags)

		if err := normalize(rec, doc, &diags); err != nil {
			return nil, diags, err
		}

		nodes = append(nodes, rec)
	}

	return nodes, diags, nil
}

// splitEntry turns "name = type, server, port, key=value, ..." into a record.
func splitEntry(name, value string, diags *diagnostic.Diagnostics) *node.Record {
	rec := node.New()
	rec.Set(node.KeyName, name)

	positional := 0

	for _, comp := range common.SplitTrim(value, ",") {
		// An empty component holds its positional slot but sets nothing.
		if comp == "" {
			positional++
			continue
		}

		if key, raw, ok := common.CutTrim(comp, "="); ok {
			rec.Set(key, coerce(raw))
			continue
		}

		if positional >= len(AnonymousKeys) {
			diags.AddWarning(diagnostic.CodeTooManyComponents,
				fmt.Sprintf("extra positional component %q dropped, at most %d allowed", comp, len(AnonymousKeys)),
				name, "")

			continue
		}

		rec.Set(AnonymousKeys[positional], comp)
		positional++
	}

	return rec
}

func coerce(raw string) any {
	switch raw {
	case "true":
		return true
	case "false":
		return false
	default:
		return raw
	}
}

// normalize applies the type-specific rewrites of the Surge dialect.
func normalize(rec *node.Record, doc *Document, diags *diagnostic.Diagnostics) error {
	switch rec.Type() {
	case "":
		diags.AddWarning(diagnostic.CodeMissingType, "node has no type component", rec.Name(), node.KeyType)

	case "https":
		rec.Set(node.KeyType, "http")
		rec.Set(FieldTLS, true)

	case "socks5-tls":
		rec.Set(node.KeyType, "socks5")
		rec.Set(FieldTLS, true)

	case "vmess", "trojan":
		normalizeWebSocket(rec, diags)

	case "ss":
		if rec.Has(FieldShadowTLSPassword) {
			rec.Set(FieldPlugin, "shadow-tls")
			rec.Set(FieldPluginOptsVersion, 2)
		}

	case "wireguard":
		return normalizeWireGuard(rec, doc, diags)
	}

	return nil
}

func normalizeWebSocket(rec *node.Record, diags *diagnostic.Diagnostics) {
	ws, _ := rec.Get(FieldWS)
	if !node.Truthy(ws) {
		return
	}

	rec.Set(FieldNetwork, "ws")

	headers := node.New()

	if raw, ok := rec.Get(FieldWSHeaders); ok {
		s, isString := raw.(string)
		if !isString {
			diags.AddWarning(diagnostic.CodeMalformedHeader,
				fmt.Sprintf("expected a header list, got %v", raw), rec.Name(), FieldWSHeaders)
		}

		var malformed []string

		headers, malformed = ParseHeaders(s)
		for _, pair := range malformed {
			diags.AddWarning(diagnostic.CodeMalformedHeader,
				fmt.Sprintf("header %q has no ':' separator, ignored", pair), rec.Name(), FieldWSHeaders)
		}
	}

	rec.Delete(FieldWS)
	rec.Delete(FieldWSHeaders)
	rec.Set(FieldWSOptsHeaders, headers)
}

func normalizeWireGuard(rec *node.Record, doc *Document, diags *diagnostic.Diagnostics) error {
	name := rec.String(FieldSectionName)
	if name == "" {
		return &diagnostic.Error{Node: rec.Name(), Field: FieldSectionName, Err: diagnostic.ErrMissingSection}
	}

	section, ok := wireGuardSection(doc, name)
	if !ok {
		return &diagnostic.Error{Node: rec.Name(), Section: name, Err: diagnostic.ErrMissingSection}
	}

	for _, e := range section.Entries {
		rec.Set(e.Key, e.Value)
	}

	if raw, ok := rec.Get(FieldPeer); ok {
		s, _ := raw.(string)

		peers, err := ParsePeers(s)
		if err != nil {
			diags.AddWarning(diagnostic.CodeMalformedPeer,
				fmt.Sprintf("peer list left unparsed: %v", err), rec.Name(), FieldPeer)
		} else {
			rec.Set(FieldPeer, peers)
		}
	}

	rec.Delete(FieldSectionName)

	return nil
}

// wireGuardSection finds the section named by section-name. Surge itself
// writes these as "[WireGuard <name>]"; the bare name is tried first.
func wireGuardSection(doc *Document, name string) (*Section, bool) {
	if s, ok := doc.Section(name); ok {
		return s, true
	}

	if strings.HasPrefix(name, "WireGuard ") {
		return nil, false
	}

	return doc.Section("WireGuard " + name)
}
