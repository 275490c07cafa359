package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"subio/internal/node"
)

const surgeProvider = `[Proxy]
HK = ss, 1.2.3.4, 8388, encrypt-method=aes-128-gcm, password=pw, obfs=http
Dup = http, h.example.com, 80
`

const clashProvider = `proxies:
  - name: JP
    type: trojan
    server: t.example.com
    port: 443
    password: pw
  - name: Dup
    type: socks5
    server: s.example.com
    port: 1080
`

func setup(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "surge.conf"), []byte(surgeProvider), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "clash.yaml"), []byte(clashProvider), 0o644))

	cfg := `log-level: debug
provider:
  - name: s
    type: surge
    file: surge.conf
  - name: handmade
    type: custom
    nodes:
      - {name: Local, type: socks5, server: 127.0.0.1, port: 1080}
      - {server: nameless}
  - name: c
    type: clash
    file: clash.yaml
`

	path := filepath.Join(dir, "subio.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))

	return path
}

type output struct {
	Proxies []*node.Record `yaml:"proxies"`
}

func TestRunYAML(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", setup(t)}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out output
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out), stdout.String())

	names := make([]string, 0, len(out.Proxies))
	for _, p := range out.Proxies {
		names = append(names, p.Name())
	}

	assert.Equal(t, []string{"HK", "Dup", "Local", "JP", "Dup"}, names)

	hk := out.Proxies[0]
	assert.Equal(t, "aes-128-gcm", hk.String("cipher"))
	assert.Equal(t, "obfs", hk.String("plugin"))

	port, _ := hk.Get("port")
	assert.Equal(t, 8388, port)

	logs := stderr.String()
	assert.Contains(t, logs, "node name is used more than once")
	assert.Contains(t, logs, "custom node needs a name and a type")
}

func TestRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", setup(t), "-output", "json"}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out struct {
		Proxies []map[string]any `json:"proxies"`
	}
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	require.Len(t, out.Proxies, 5)

	assert.Equal(t, "JP", out.Proxies[3]["name"])
	assert.Equal(t, node.UUID("JP"), out.Proxies[3][idKey])
}

func TestRunMappingOverride(t *testing.T) {
	path := setup(t)
	mappingPath := filepath.Join(filepath.Dir(path), "tables.yaml")
	require.NoError(t, os.WriteFile(mappingPath, []byte(`
providers:
  - name: surge
    121:
      encrypt-method: method
`), 0o644))

	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", path, "-mapping", mappingPath}, &stdout, &stderr)
	require.NoError(t, err, stderr.String())

	var out output
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))

	hk := out.Proxies[0]
	assert.Equal(t, "aes-128-gcm", hk.String("method"))
	assert.Equal(t, "8388", hk.String("port"), "the override table has no port transform")

	jp := out.Proxies[3]
	port, _ := jp.Get("port")
	assert.Equal(t, 443, port, "clash still uses the built-in table")
}

func TestRunInvalidMappingFile(t *testing.T) {
	path := setup(t)
	mappingPath := filepath.Join(filepath.Dir(path), "tables.yaml")
	require.NoError(t, os.WriteFile(mappingPath, []byte(`
providers:
  - name: surge
    fields:
      - source: port
        transform: itn
`), 0o644))

	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", path, "-mapping", mappingPath}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transform")
	assert.Empty(t, stdout.String())
}

func TestRunFailedProviderKeepsOthers(t *testing.T) {
	path := setup(t)
	require.NoError(t, os.WriteFile(filepath.Join(filepath.Dir(path), "surge.conf"), []byte("[General]\n"), 0o644))

	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", path}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 3 providers failed")
	assert.Contains(t, stderr.String(), "provider failed")

	var out output
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &out))
	assert.Len(t, out.Proxies, 3)
}

func TestRunInvalidConfig(t *testing.T) {
	var stdout, stderr bytes.Buffer

	err := run(context.Background(), []string{"-config", setup(t), "-output", "toml"}, &stdout, &stderr)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRunHelp(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.NoError(t, run(context.Background(), []string{"-h"}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "-config")
}
