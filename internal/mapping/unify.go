package mapping

import (
	"fmt"

	"subio/internal/diagnostic"
	"subio/internal/node"
)

// Unify renames the fields of every record according to table. The input
// records are not modified; the result has one record per input, in order.
//
// For each field in record order:
//   - a matching rule stores the value under its target name, at the same
//     position, after applying the rule's transform if it has one
//   - a field without a rule is kept verbatim
//
// A transform that is unknown or fails leaves the value as it was (still
// renamed) and records a warning. When two fields land on the same target
// the later one wins and a warning is recorded.
func Unify(records []*node.Record, table *Table, registry *Registry) ([]*node.Record, diagnostic.Diagnostics) {
	var diags diagnostic.Diagnostics

	out := make([]*node.Record, 0, len(records))
	for _, rec := range records {
		out = append(out, UnifyRecord(rec, table, registry, &diags))
	}

	return out, diags
}

// UnifyRecord unifies a single record. See Unify.
func UnifyRecord(rec *node.Record, table *Table, registry *Registry, diags *diagnostic.Diagnostics) *node.Record {
	src := rec.Clone()
	out := node.New()
	name := src.Name()

	from := make(map[string]string, src.Len())

	for key, value := range src.All() {
		target := key

		if rule, ok := table.Rule(key); ok {
			target = rule.Target
			value = applyTransform(rule, value, registry, name, diags)
		}

		if prev, ok := from[target]; ok {
			diags.AddWarning(diagnostic.CodeKeyCollision,
				fmt.Sprintf("%q and %q both map to %q, keeping the value of %q", prev, key, target, key),
				name, target)
		}

		from[target] = key
		out.Set(target, value)
	}

	return out
}

func applyTransform(rule Rule, value any, registry *Registry, nodeName string, diags *diagnostic.Diagnostics) any {
	if rule.Transform == "" {
		return value
	}

	fn, ok := registry.Get(rule.Transform)
	if !ok {
		diags.AddWarning(diagnostic.CodeUnknownTransform,
			fmt.Sprintf("unknown transform %q, value kept as is", rule.Transform),
			nodeName, rule.Source)

		return value
	}

	transformed, err := fn(value)
	if err != nil {
		diags.AddWarning(diagnostic.CodeTransformFailed,
			fmt.Sprintf("transform %q: %v, value kept as is", rule.Transform, err),
			nodeName, rule.Source)

		return value
	}

	return transformed
}
