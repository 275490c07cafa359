// Package main provides the CLI entrypoint for subio.
//
// subio reads the provider files named in its config, converts every node
// to the canonical schema and prints the combined list:
//   - Surge-like and Clash-like provider files are parsed and unified
//   - custom providers contribute the nodes written in the config
//   - the result is written to stdout as YAML or JSON
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"gopkg.in/yaml.v3"

	"subio/internal/config"
	"subio/internal/diagnostic"
	"subio/internal/logging"
	"subio/internal/mapping"
	"subio/internal/node"
	"subio/internal/provider"
)

// idKey holds the stable node identifier in JSON output.
const idKey = "id"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "subio: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	configPath  string
	output      string
	mappingFile string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("subio", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "config file path (default $"+config.EnvConfigPath+" or ./"+config.ConfigFileName+")")
	fs.StringVar(&opts.output, "output", "", "output format, yaml or json (overrides config)")
	fs.StringVar(&opts.mappingFile, "mapping", "", "mapping table file (overrides config)")

	err := fs.Parse(args)

	return opts, err
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}

	if err != nil {
		return err
	}

	cfg, path, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	if opts.output != "" {
		cfg.Output = opts.output
	}

	if opts.mappingFile != "" {
		cfg.MappingFile = opts.mappingFile
	}

	logger := logging.Init(stderr, cfg.LogFormat, logging.ParseLevel(cfg.LogLevel))
	logger.Debug("config loaded", "path", path, "providers", len(cfg.Providers))

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	source, err := loadSource(cfg, logger)
	if err != nil {
		return err
	}

	engine := provider.NewEngine(source, provider.WithConcurrency(cfg.Concurrency))

	nodes, failed := collect(ctx, cfg, engine, logger)
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, name := range node.DuplicateNames(nodes) {
		logger.Warn("node name is used more than once", "node", name, "code", diagnostic.CodeDuplicateName)
	}

	if err := write(stdout, cfg.Output, nodes); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d providers failed", failed, len(cfg.Providers))
	}

	return nil
}

// loadSource returns the built-in tables, overridden per provider by the
// configured mapping file.
func loadSource(cfg *config.Config, logger *slog.Logger) (mapping.Source, error) {
	if cfg.MappingFile == "" {
		return mapping.Builtin(), nil
	}

	file, err := mapping.LoadFile(cfg.Resolve(cfg.MappingFile))
	if err != nil {
		return nil, err
	}

	diags := mapping.Validate(file, mapping.DefaultRegistry())
	logging.LogDiagnostics(logger, cfg.MappingFile, *diags)

	if err := diags.Error(); err != nil {
		return nil, fmt.Errorf("mapping file %s: %w", cfg.MappingFile, err)
	}

	return mapping.Chain{file.Tables(), mapping.Builtin()}, nil
}

// collect loads every provider and returns the nodes in config order with
// the number of providers that failed. A failed provider contributes no
// nodes and does not stop the others.
func collect(ctx context.Context, cfg *config.Config, engine *provider.Engine, logger *slog.Logger) ([]*node.Record, int) {
	var (
		inputs []provider.Input
		failed int
	)

	texts := make(map[string]bool, len(cfg.Providers))

	for _, p := range cfg.Providers {
		if p.IsCustom() {
			continue
		}

		data, err := os.ReadFile(cfg.Resolve(p.File))
		if err != nil {
			logger.Error("provider skipped", "source", p.Name, "error", err)
			failed++

			continue
		}

		inputs = append(inputs, provider.Input{Name: p.Name, Provider: p.Type, Text: string(data)})
		texts[p.Name] = true
	}

	outcomes, _ := engine.ParseAll(ctx, inputs)

	byName := make(map[string]provider.Outcome, len(outcomes))
	for _, o := range outcomes {
		byName[o.Input.Name] = o
	}

	var nodes []*node.Record

	for _, p := range cfg.Providers {
		if p.IsCustom() {
			nodes = append(nodes, customNodes(p, logger)...)
			continue
		}

		if !texts[p.Name] {
			continue
		}

		o := byName[p.Name]
		if o.Err != nil {
			logger.Error("provider failed", "source", p.Name, "error", o.Err)
			failed++

			continue
		}

		logging.LogDiagnostics(logger, p.Name, o.Result.Diagnostics)
		logger.Info("provider loaded", "source", p.Name, "type", p.Type, "nodes", len(o.Result.Nodes))

		nodes = append(nodes, o.Result.Nodes...)
	}

	return nodes, failed
}

func customNodes(p config.ProviderConfig, logger *slog.Logger) []*node.Record {
	out := make([]*node.Record, 0, len(p.Nodes))

	for i, rec := range p.Nodes {
		if rec == nil {
			continue
		}

		if rec.Name() == "" || rec.Type() == "" {
			logger.Warn("custom node needs a name and a type, skipped", "source", p.Name, "index", i)
			continue
		}

		out = append(out, rec.Clone())
	}

	logger.Info("provider loaded", "source", p.Name, "type", config.TypeCustom, "nodes", len(out))

	return out
}

type document struct {
	Proxies []*node.Record `yaml:"proxies" json:"proxies"`
}

func write(w io.Writer, format string, nodes []*node.Record) error {
	if nodes == nil {
		nodes = []*node.Record{}
	}

	switch format {
	case config.OutputJSON:
		withIDs := make([]*node.Record, len(nodes))
		for i, n := range nodes {
			withIDs[i] = n.Clone()
			withIDs[i].Set(idKey, node.UUID(n.Name()))
		}

		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(document{Proxies: withIDs})

	case config.OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		if err := enc.Encode(document{Proxies: nodes}); err != nil {
			return err
		}

		return enc.Close()

	default:
		return errors.New("unsupported output format " + format)
	}
}
