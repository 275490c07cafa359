package provider

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"subio/internal/diagnostic"
	"subio/internal/mapping"
	"subio/internal/node"
)

// Engine converts provider text into canonical nodes. It holds no state
// between calls and is safe for concurrent use.
type Engine struct {
	source      mapping.Source
	registry    *mapping.Registry
	concurrency int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry sets the transform registry used during unification.
func WithRegistry(r *mapping.Registry) Option {
	return func(e *Engine) {
		e.registry = r
	}
}

// WithConcurrency bounds the number of providers ParseAll works on at once.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// NewEngine creates an engine resolving tables from source.
func NewEngine(source mapping.Source, opts ...Option) *Engine {
	e := &Engine{
		source:      source,
		registry:    mapping.DefaultRegistry(),
		concurrency: runtime.GOMAXPROCS(0),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Result is the outcome of a successful provider load.
type Result struct {
	Provider    string
	Nodes       []*node.Record
	Diagnostics diagnostic.Diagnostics
}

// Parse loads one provider. The provider must have both a format and a
// mapping table; otherwise a *diagnostic.Error wrapping ErrUnknownProvider
// or ErrNoMappingTable is returned. Non-fatal problems are reported in the
// result's Diagnostics, stamped with the provider.
func (e *Engine) Parse(providerID, text string) (*Result, error) {
	format, ok := Lookup(providerID)
	if !ok {
		return nil, &diagnostic.Error{Provider: providerID, Err: diagnostic.ErrUnknownProvider}
	}

	dialect, ok := format.Dialect()
	if !ok {
		return nil, &diagnostic.Error{Provider: providerID, Err: diagnostic.ErrUnknownProvider}
	}

	if e.source == nil {
		return nil, &diagnostic.Error{Provider: providerID, Err: diagnostic.ErrNoMappingTable}
	}

	table, ok := e.source.Lookup(providerID)
	if !ok {
		return nil, &diagnostic.Error{Provider: providerID, Err: diagnostic.ErrNoMappingTable}
	}

	raw, diags, err := dialect.Parse(text)
	if err != nil {
		return nil, diagnostic.WithProvider(err, providerID)
	}

	nodes, unifyDiags := mapping.Unify(raw, table, e.registry)
	diags.Merge(unifyDiags)

	for i, rec := range nodes {
		nodes[i] = dialect.Fixup(rec)
	}

	diags.WithProvider(providerID)

	return &Result{Provider: providerID, Nodes: nodes, Diagnostics: diags}, nil
}

// Input is one provider load requested from ParseAll.
type Input struct {
	// Name identifies the input to the caller, e.g. a config entry name.
	Name string

	// Provider is the provider identifier.
	Provider string

	// Text is the raw provider document.
	Text string
}

// Outcome pairs an input with its result or error.
type Outcome struct {
	Input  Input
	Result *Result
	Err    error
}

// ParseAll loads every input concurrently. Outcomes are returned in input
// order; a failing input only affects its own outcome. Inputs not started
// before ctx is done get ctx's error, which is also returned.
func (e *Engine) ParseAll(ctx context.Context, inputs []Input) ([]Outcome, error) {
	out := make([]Outcome, len(inputs))

	var g errgroup.Group
	g.SetLimit(e.concurrency)

	for i, in := range inputs {
		out[i].Input = in

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				out[i].Err = err
				return nil
			}

			out[i].Result, out[i].Err = e.Parse(in.Provider, in.Text)

			return nil
		})
	}

	_ = g.Wait()

	return out, ctx.Err()
}
