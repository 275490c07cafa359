package surge

import (
	"testing"

	"github.com/davecgh/go-spew/spew"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoPeers = `(public-key = fWO8XS9/nwUQcqnkfBpKeqIqbzclQ6EKP20Pgvzwclg=, allowed-ips = "0.0.0.0/0, ::/0", endpoint = example.com:51820, client-id = 83/12/235), (public-key = abc=, allowed-ips = 10.0.0.0/8, endpoint = 1.2.3.4:51820, client-id = 1/2/3)`

func TestParsePeers(t *testing.T) {
	peers, err := ParsePeers(twoPeers)
	require.NoError(t, err)
	require.Len(t, peers, 2, spew.Sdump(peers))

	first := peers[0]
	assert.Equal(t, []string{"public-key", "allowed-ips", "endpoint", "client-id"}, first.Keys())
	assert.Equal(t, "fWO8XS9/nwUQcqnkfBpKeqIqbzclQ6EKP20Pgvzwclg=", first.String("public-key"))

	ips, _ := first.Get("allowed-ips")
	assert.Equal(t, []string{"0.0.0.0/0", "::/0"}, ips)
	assert.Equal(t, "example.com:51820", first.String("endpoint"))
	assert.Equal(t, "83/12/235", first.String("client-id"))

	second := peers[1]
	assert.Equal(t, "abc=", second.String("public-key"))
	assert.Equal(t, "10.0.0.0/8", second.String("allowed-ips"))
	assert.Equal(t, "1/2/3", second.String("client-id"))
}

func TestParsePeersUnquotedList(t *testing.T) {
	peers, err := ParsePeers(`(public-key = k=, allowed-ips = 0.0.0.0/0, ::/0, endpoint = [2001:db8::1]:51820)`)
	require.NoError(t, err)
	require.Len(t, peers, 1)

	ips, _ := peers[0].Get("allowed-ips")
	assert.Equal(t, []string{"0.0.0.0/0", "::/0"}, ips)
	assert.Equal(t, "[2001:db8::1]:51820", peers[0].String("endpoint"))
}

func TestParsePeersErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		msg  string
	}{
		{name: "unterminated clause", in: "(public-key = k", msg: "unterminated peer clause"},
		{name: "unterminated quote", in: `(allowed-ips = "0.0.0.0/0)`, msg: "unterminated quote"},
		{name: "text outside clause", in: "junk (a = b)", msg: "outside of a peer clause"},
		{name: "value without key", in: "(orphan, a = b)", msg: "has no key"},
		{name: "empty key", in: "(= b)", msg: "empty key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePeers(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestParsePeersEmpty(t *testing.T) {
	peers, err := ParsePeers("")
	require.NoError(t, err)
	assert.Empty(t, peers)
}
