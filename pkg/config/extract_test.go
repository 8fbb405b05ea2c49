package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/kdl"
)

func firstNode(t *testing.T, src string) *kdl.Node {
	t.Helper()
	doc, err := kdl.Parse(src)
	require.NoError(t, err)
	require.NotEmpty(t, doc.Nodes)
	return doc.Nodes[0]
}

func TestArgs(t *testing.T) {
	got, err := args(firstNode(t, `n "a" k=1 "b"`))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].Value.Str)

	_, err = args(firstNode(t, `n k=1`))
	assert.EqualError(t, err, "node 'n' requires at least one argument")
}

func TestArgVersusArgAt(t *testing.T) {
	n := firstNode(t, `n k=1 "a"`)

	e, err := arg(n, 0)
	require.NoError(t, err)
	assert.Equal(t, "a", e.Value.Str)

	_, err = argAt(n, 0)
	assert.EqualError(t, err, "node entry index '0' must be an argument, not a property")

	_, err = argAt(n, 5)
	assert.EqualError(t, err, "node 'n' requires argument at index '5'")

	_, err = propAt(n, 1)
	assert.EqualError(t, err, "node entry index '1' must be a property, not an argument")

	_, err = propAt(n, 2)
	assert.EqualError(t, err, "node 'n' requires property at index '2'")
}

func TestTypedValues(t *testing.T) {
	n := firstNode(t, `n #true "s" 1.5 (u8)2 null`)

	b, err := asBool(n.Entries[0])
	require.NoError(t, err)
	assert.True(t, b)

	_, err = asBool(n.Entries[1])
	assert.EqualError(t, err, "invalid type: string, expected: bool")

	_, err = asString(n.Entries[2])
	assert.EqualError(t, err, "invalid type: float, expected: string")

	_, err = asString(n.Entries[3])
	assert.EqualError(t, err, "type annotations are not supported on this entry, found: u8")

	_, err = asString(n.Entries[4])
	assert.EqualError(t, err, "invalid type: null, expected: string")
}

func TestParseVariant(t *testing.T) {
	n := firstNode(t, `n "end" "middle"`)

	v, err := parseVariant(n.Entries[0], PositionNames)
	require.NoError(t, err)
	assert.Equal(t, "end", v)

	_, err = parseVariant(n.Entries[1], PositionNames)
	assert.EqualError(t, err, "unknown variant `middle` at argument value, expected one of `start`, `end`, `random`")
}

func TestContentOffset(t *testing.T) {
	tests := []struct {
		raw    string
		str    string
		offset int
		ok     bool
	}{
		{"bare", "bare", 0, true},
		{`"quoted"`, "quoted", 1, true},
		{`#"raw"#`, "raw", 2, true},
		{`r#"raw"#`, "raw", 3, true},
		{`"a\tb"`, "a\tb", 0, false},
	}
	for _, tt := range tests {
		offset, ok := contentOffset(tt.raw, tt.str)
		assert.Equal(t, tt.ok, ok, tt.raw)
		if tt.ok {
			assert.Equal(t, tt.offset, offset, tt.raw)
		}
	}
}
