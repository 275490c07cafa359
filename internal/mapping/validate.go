package mapping

import (
	"fmt"
	"slices"

	"subio/internal/diagnostic"
	"subio/internal/match"
	"subio/internal/node"
)

// Validation diagnostic codes.
const (
	CodeFileIsNil         = "mapping_is_nil"
	CodeEmptyProviderName = "empty_provider_name"
	CodeDuplicateProvider = "duplicate_provider"
	CodeEmptySource       = "empty_source"
	CodeDuplicateSource   = "duplicate_source"
	CodeShadowedRule      = "shadowed_rule"
	CodeIdentityRename    = "identity_rename"
)

// maxSuggestions bounds the "did you mean" list for unknown transforms.
const maxSuggestions = 3

// Validate checks a mapping file for structural problems and for transforms
// the registry does not provide.
func Validate(f *File, registry *Registry) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if f == nil {
		res.AddError(CodeFileIsNil, "mapping file is nil", "", "")
		return res
	}

	seenProviders := map[string]struct{}{}

	for i := range f.Providers {
		def := &f.Providers[i]

		if len(def.Name) == 0 {
			res.AddError(CodeEmptyProviderName, fmt.Sprintf("table #%d has no provider name", i+1), "", "")
		}

		for _, name := range def.Name {
			if name == "" {
				res.AddError(CodeEmptyProviderName, fmt.Sprintf("table #%d has an empty provider name", i+1), "", "")
				continue
			}

			if _, ok := seenProviders[name]; ok {
				res.AddError(CodeDuplicateProvider, fmt.Sprintf("provider %q has more than one table", name), "", "")
				continue
			}

			seenProviders[name] = struct{}{}
		}

		validateTable(res, def, registry)
	}

	return res
}

func validateTable(res *diagnostic.Diagnostics, def *TableDef, registry *Registry) {
	provider := def.Name.First()
	seenSources := map[string]struct{}{}

	for _, r := range def.Fields {
		if r.Source == "" {
			addError(res, provider, CodeEmptySource, "rule has no source field", "")
			continue
		}

		if _, ok := seenSources[r.Source]; ok {
			addError(res, provider, CodeDuplicateSource, fmt.Sprintf("source %q has more than one rule", r.Source), r.Source)
		}

		seenSources[r.Source] = struct{}{}

		if _, ok := def.OneToOne[r.Source]; ok {
			addWarning(res, provider, CodeShadowedRule,
				fmt.Sprintf("rule for %q is shadowed by its 121 rename", r.Source), r.Source)
		}

		validateIdentity(res, provider, r.Source, r.Target)

		if r.Transform != "" && !registry.Has(r.Transform) {
			res.Errors = append(res.Errors, diagnostic.Diagnostic{
				Severity:    diagnostic.SeverityError,
				Code:        diagnostic.CodeUnknownTransform,
				Message:     fmt.Sprintf("unknown transform %q", r.Transform),
				Provider:    provider,
				Field:       r.Source,
				Suggestions: match.Suggest(r.Transform, registry.Names(), maxSuggestions),
			})
		}
	}

	sources := make([]string, 0, len(def.OneToOne))
	for source := range def.OneToOne {
		sources = append(sources, source)
	}

	slices.Sort(sources)

	for _, source := range sources {
		target := def.OneToOne[source]
		if source == "" {
			addError(res, provider, CodeEmptySource, "121 rename has no source field", "")
			continue
		}

		validateIdentity(res, provider, source, target)
	}
}

// validateIdentity rejects rules that move a node's name or type, which
// downstream consumers use to look nodes up.
func validateIdentity(res *diagnostic.Diagnostics, provider, source, target string) {
	if target == "" || source == target {
		return
	}

	for _, key := range []string{node.KeyName, node.KeyType} {
		if source == key || target == key {
			addError(res, provider, CodeIdentityRename,
				fmt.Sprintf("rule %q -> %q must not rename the %q field", source, target, key), source)
		}
	}
}

func addError(res *diagnostic.Diagnostics, provider, code, msg, field string) {
	res.Errors = append(res.Errors, diagnostic.Diagnostic{
		Severity: diagnostic.SeverityError,
		Code:     code,
		Message:  msg,
		Provider: provider,
		Field:    field,
	})
}

func addWarning(res *diagnostic.Diagnostics, provider, code, msg, field string) {
	res.Warnings = append(res.Warnings, diagnostic.Diagnostic{
		Severity: diagnostic.SeverityWarning,
		Code:     code,
		Message:  msg,
		Provider: provider,
		Field:    field,
	})
}
