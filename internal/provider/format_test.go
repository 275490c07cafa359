package provider

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookup(t *testing.T) {
	tests := []struct {
		id     string
		want   Format
		wantOK bool
	}{
		{id: "surge", want: FormatSurge, wantOK: true},
		{id: "surfboard", want: FormatSurge, wantOK: true},
		{id: "clash", want: FormatClash, wantOK: true},
		{id: "clash-meta", want: FormatClash, wantOK: true},
		{id: "stash", want: FormatClash, wantOK: true},
		{id: "Surge", wantOK: false},
		{id: "quantumult", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			got, ok := Lookup(tt.id)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "Surge", FormatSurge.String())
	assert.Equal(t, "Clash", FormatClash.String())
	assert.Equal(t, "Format(0)", Format(0).String())
	assert.Equal(t, "Format(9)", Format(9).String())
}

func TestFormatDialects(t *testing.T) {
	for f := Format(1); int(f) < FormatTotal; f++ {
		assert.True(t, f.IsValid(), f.String())

		d, ok := f.Dialect()
		assert.True(t, ok)
		assert.NotNil(t, d.Parse)
		assert.NotNil(t, d.Fixup)
	}

	assert.False(t, Format(0).IsValid())
}

func TestIDs(t *testing.T) {
	assert.Equal(t, []string{"clash", "clash-meta", "stash", "surfboard", "surge"}, IDs())
}
