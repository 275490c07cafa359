package mapping

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestCompileOneToOneWins(t *testing.T) {
	def := TableDef{
		Name:     StringOrArray{"surge"},
		OneToOne: map[string]string{"obfs": "plugin-opts-mode"},
		Fields:   []FieldRule{{Source: "obfs", Target: "obfs-mode", Transform: "lower"}},
	}

	table := def.Compile("surge")

	rule, ok := table.Rule("obfs")
	require.True(t, ok)
	assert.Equal(t, Rule{Source: "obfs", Target: "plugin-opts-mode"}, rule)
	assert.Equal(t, 1, table.Len())
	assert.Equal(t, "surge", table.Provider)
}

func TestNilTable(t *testing.T) {
	var table *Table

	_, ok := table.Rule("anything")
	assert.False(t, ok)
	assert.Zero(t, table.Len())
	assert.Empty(t, table.Rules())
}

func TestTableRulesSorted(t *testing.T) {
	table := NewTable("p", Rule{Source: "z"}, Rule{Source: "a", Target: "b"})

	assert.Equal(t, []Rule{
		{Source: "a", Target: "b"},
		{Source: "z", Target: "z"},
	}, table.Rules())
}

func TestFileTablesSharedDefinition(t *testing.T) {
	f := &File{Providers: []TableDef{{
		Name:     StringOrArray{"clash", "stash"},
		OneToOne: map[string]string{"ws-path": "ws-opts-path"},
	}}}

	set := f.Tables()
	assert.Equal(t, []string{"clash", "stash"}, set.Providers())

	stash, ok := set.Lookup("stash")
	require.True(t, ok)
	assert.Equal(t, "stash", stash.Provider)

	_, ok = set.Lookup("surge")
	assert.False(t, ok)
}

func TestChain(t *testing.T) {
	override := NewSet(NewTable("surge", Rule{Source: "obfs", Target: "mode"}))
	fallback := NewSet(NewTable("surge"), NewTable("clash"))

	chain := Chain{nil, override, fallback}

	surge, ok := chain.Lookup("surge")
	require.True(t, ok)
	assert.Equal(t, 1, surge.Len())

	clash, ok := chain.Lookup("clash")
	require.True(t, ok)
	assert.Equal(t, "clash", clash.Provider)

	_, ok = chain.Lookup("loon")
	assert.False(t, ok)
}

func TestStringOrArrayYAML(t *testing.T) {
	single, err := yaml.Marshal(StringOrArray{"surge"})
	require.NoError(t, err)
	assert.Equal(t, "surge\n", string(single))

	many, err := yaml.Marshal(StringOrArray{"clash", "stash"})
	require.NoError(t, err)

	var back StringOrArray
	require.NoError(t, yaml.Unmarshal(many, &back))
	assert.Equal(t, StringOrArray{"clash", "stash"}, back)
	assert.True(t, back.Contains("stash"))
	assert.False(t, back.Contains("surge"))
}
