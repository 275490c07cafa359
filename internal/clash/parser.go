package clash

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"subio/internal/common"
	"subio/internal/diagnostic"
	"subio/internal/node"
)

// ProxiesKey is the top-level key holding the node list.
const ProxiesKey = "proxies"

// optsSuffix marks option groups that are flattened into their parent.
const optsSuffix = "-opts"

// Parse decodes a Clash-style document into raw node records in document
// order. Entries that are not mappings are skipped with a warning. A
// document that is not valid YAML, or has no proxies list, is an error.
func Parse(text string) ([]*node.Record, diagnostic.Diagnostics, error) {
	var diags diagnostic.Diagnostics

	var doc yaml.Node
	if err := yaml.Unmarshal([]byte(common.StripBOM(text)), &doc); err != nil {
		return nil, diags, &diagnostic.Error{Err: fmt.Errorf("%w: %v", diagnostic.ErrMalformedDocument, err)}
	}

	list, err := proxyList(&doc)
	if err != nil {
		return nil, diags, err
	}

	nodes := make([]*node.Record, 0, len(list))

	for i, item := range list {
		if item.Kind == yaml.AliasNode {
			item = item.Alias
		}

		if item.Kind != yaml.MappingNode {
			diags.AddWarning(diagnostic.CodeMalformedLine,
				fmt.Sprintf("line %d: proxy #%d is not a mapping, ignored", item.Line, i+1), "", ProxiesKey)

			continue
		}

		keepNameVerbatim(item)

		v, err := node.FromYAML(item)
		if err != nil {
			return nil, diags, &diagnostic.Error{
				Section: ProxiesKey,
				Err:     fmt.Errorf("%w: %v", diagnostic.ErrMalformedDocument, err),
			}
		}

		rec := flatten(v.(*node.Record))

		if rec.Type() == "" {
			diags.AddWarning(diagnostic.CodeMissingType, "node has no type", rec.Name(), node.KeyType)
		}

		nodes = append(nodes, rec)
	}

	return nodes, diags, nil
}

// proxyList returns the items of the top-level proxies sequence. A null
// proxies value is an empty list.
func proxyList(doc *yaml.Node) ([]*yaml.Node, error) {
	root := doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}

	if root.Kind != yaml.MappingNode {
		return nil, &diagnostic.Error{Section: ProxiesKey, Err: diagnostic.ErrMissingSection}
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		if root.Content[i].Value != ProxiesKey {
			continue
		}

		value := root.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}

		switch {
		case value.Kind == yaml.SequenceNode:
			return value.Content, nil
		case value.ShortTag() == "!!null":
			return nil, nil
		default:
			return nil, &diagnostic.Error{
				Section: ProxiesKey,
				Err:     fmt.Errorf("%w: line %d: %s is not a list", diagnostic.ErrMalformedDocument, value.Line, ProxiesKey),
			}
		}
	}

	return nil, &diagnostic.Error{Section: ProxiesKey, Err: diagnostic.ErrMissingSection}
}

// flatten lifts the members of "-opts" groups into the record, keeping the
// group's position. Deeper values such as ws-opts.headers stay nested.
func flatten(rec *node.Record) *node.Record {
	out := node.New()

	for key, value := range rec.All() {
		group, ok := value.(*node.Record)
		if !ok || !strings.HasSuffix(key, optsSuffix) {
			out.Set(key, value)
			continue
		}

		for sub, v := range group.All() {
			out.Set(key+"-"+sub, v)
		}
	}

	return out
}

// keepNameVerbatim forces the name scalar to a string so that names YAML
// would type, as in "name: 01", keep their spelling.
func keepNameVerbatim(item *yaml.Node) {
	for i := 0; i+1 < len(item.Content); i += 2 {
		if item.Content[i].Value == node.KeyName && item.Content[i+1].Kind == yaml.ScalarNode {
			item.Content[i+1].Tag = "!!str"
		}
	}
}
