package clash

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"subio/internal/diagnostic"
	"subio/internal/node"
)

const sample = `
mixed-port: 7890
proxies:
  - name: HK 01
    type: ss
    server: 1.2.3.4
    port: 8388
    cipher: aes-128-gcm
    password: secret
    udp: true
    plugin: obfs-local
    plugin-opts:
      mode: http
      host: bing.com
  - name: 01
    type: vmess
    server: v.example.com
    port: 443
    uuid: 7f4e1b1a-0000-4000-8000-000000000000
    alterId: 0
    network: ws
    ws-opts:
      path: /ray
      headers:
        Host: v.example.com
  - name: JP
    type: trojan
    server: t.example.com
    port: 443
    password: pw
    alpn: [h2, http/1.1]
proxy-groups: []
`

func TestParse(t *testing.T) {
	nodes, diags, err := Parse(sample)
	require.NoError(t, err)
	assert.Empty(t, diags.All())
	require.Len(t, nodes, 3)

	ss := nodes[0]
	assert.Equal(t, []string{
		"name", "type", "server", "port", "cipher", "password", "udp", "plugin",
		"plugin-opts-mode", "plugin-opts-host",
	}, ss.Keys())

	port, _ := ss.Get("port")
	assert.Equal(t, 8388, port)

	udp, _ := ss.Get("udp")
	assert.Equal(t, true, udp)
	assert.Equal(t, "http", ss.String("plugin-opts-mode"))

	vmess := nodes[1]
	assert.Equal(t, "01", vmess.Name())
	assert.Equal(t, "/ray", vmess.String("ws-opts-path"))

	headers, ok := vmess.Get("ws-opts-headers")
	require.True(t, ok)
	require.IsType(t, &node.Record{}, headers)
	assert.Equal(t, "v.example.com", headers.(*node.Record).String("Host"))

	alpn, _ := nodes[2].Get("alpn")
	assert.Equal(t, []string{"h2", "http/1.1"}, alpn)
}

func TestParseSkipsNonMappings(t *testing.T) {
	nodes, diags, err := Parse("proxies:\n  - just a string\n  - {name: a, type: http, server: h, port: 80}\n")
	require.NoError(t, err)

	require.Len(t, nodes, 1)
	assert.Equal(t, "a", nodes[0].Name())

	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeMalformedLine, diags.Warnings[0].Code)
}

func TestParseMissingType(t *testing.T) {
	nodes, diags, err := Parse("proxies:\n  - {name: a, server: h}\n")
	require.NoError(t, err)

	require.Len(t, nodes, 1)
	require.Len(t, diags.Warnings, 1)
	assert.Equal(t, diagnostic.CodeMissingType, diags.Warnings[0].Code)
	assert.Equal(t, "a", diags.Warnings[0].Node)
}

func TestParseEmptyList(t *testing.T) {
	for _, text := range []string{"proxies:\n", "proxies: []\n"} {
		nodes, _, err := Parse(text)
		require.NoError(t, err, text)
		assert.Empty(t, nodes)
	}
}

func TestParseBOM(t *testing.T) {
	nodes, _, err := Parse("\ufeffproxies:\n  - {name: a, type: http}\n")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "empty", text: "", wantErr: diagnostic.ErrMissingSection},
		{name: "no proxies", text: "rules: []\n", wantErr: diagnostic.ErrMissingSection},
		{name: "not a mapping", text: "- a\n- b\n", wantErr: diagnostic.ErrMissingSection},
		{name: "invalid yaml", text: "proxies: [\n", wantErr: diagnostic.ErrMalformedDocument},
		{name: "proxies not a list", text: "proxies: 3\n", wantErr: diagnostic.ErrMalformedDocument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nodes, _, err := Parse(tt.text)
			require.Error(t, err)
			assert.Nil(t, nodes)
			assert.ErrorIs(t, err, tt.wantErr)

			var perr *diagnostic.Error
			assert.True(t, errors.As(err, &perr))
		})
	}
}

func TestFlattenKeepsNonGroups(t *testing.T) {
	rec := node.Of(
		node.Pair{Key: "name", Value: "a"},
		node.Pair{Key: "smux", Value: node.Of(node.Pair{Key: "enabled", Value: true})},
		node.Pair{Key: "grpc-opts", Value: node.Of(node.Pair{Key: "grpc-service-name", Value: "svc"})},
		node.Pair{Key: "reality-opts", Value: "not a group"},
	)

	out := flatten(rec)

	assert.Equal(t, []string{"name", "smux", "grpc-opts-grpc-service-name", "reality-opts"}, out.Keys())
}
