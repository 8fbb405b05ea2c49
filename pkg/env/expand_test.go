// pkg/env/expand_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test variable expansion forms, counting and error offsets

package env_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/dots/pkg/env"
)

var testVars = env.MapLookup{
	"VAR1": "value1",
	"VAR2": "",
	"VAR3": "value3",
	"LOOP": "$VAR1",
}

func TestExpand(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		count int
	}{
		{"no variables", "No var here", "No var here", 0},
		{"bare form", "Path is $VAR1", "Path is value1", 1},
		{"braced form", "Path is ${VAR1}", "Path is value1", 1},
		{"default when empty", "Path is ${VAR2:-default}", "Path is default", 1},
		{"default when absent", "Path is ${NOPE:-default}", "Path is default", 1},
		{"default ignored when set", "Path is ${VAR1:-default}", "Path is value1", 1},
		{"default is literal", "${NOPE:-$VAR1}", "$VAR1", 1},
		{"alt when set", "Path is ${VAR3:+set}", "Path is set", 1},
		{"alt when empty", "Path is ${VAR2:+set}", "Path is ", 0},
		{"alt when absent", "Path is ${NOPE:+set}", "Path is ", 0},
		{"multiple", "Values: $VAR1, ${VAR3}, ${VAR2:-def}", "Values: value1, value3, def", 3},
		{"adjacent", "$VAR1$VAR3", "value1value3", 2},
		{"not recursive", "$LOOP", "$VAR1", 1},
		{"lone dollar", "cost: $ 5", "cost: $ 5", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := env.Expand(tt.input, testVars)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Value)
			assert.Equal(t, tt.input, got.Raw)
			assert.Equal(t, tt.count, got.Replacements)
			assert.Equal(t, tt.count > 0, got.Templated())
		})
	}
}

func TestExpand_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   env.ExpandError
		substr string
	}{
		{
			name:   "bare missing",
			input:  "Missing $XDG_CONFIG_HOME",
			want:   env.ExpandError{Var: "XDG_CONFIG_HOME", Offset: 8, Length: 16},
			substr: "$XDG_CONFIG_HOME",
		},
		{
			name:   "braced missing",
			input:  "Not Found ${HOME}",
			want:   env.ExpandError{Var: "HOME", Offset: 10, Length: 7},
			substr: "${HOME}",
		},
		{
			name:   "bare empty",
			input:  "x/$VAR2/y",
			want:   env.ExpandError{Var: "VAR2", Offset: 2, Length: 5},
			substr: "$VAR2",
		},
		{
			name:   "first failure after a success",
			input:  "$VAR1/${MISSING}",
			want:   env.ExpandError{Var: "MISSING", Offset: 6, Length: 10},
			substr: "${MISSING}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.Expand(tt.input, testVars)
			require.Error(t, err)

			var expErr *env.ExpandError
			require.ErrorAs(t, err, &expErr)
			assert.Equal(t, tt.want, *expErr)
			assert.Equal(t, tt.substr, tt.input[expErr.Offset:expErr.Offset+expErr.Length])
			assert.Contains(t, err.Error(), "$"+tt.want.Var)
		})
	}
}

func TestExpand_UnicodeNames(t *testing.T) {
	vars := env.MapLookup{"ÜBER": "/opt/über", "日本": "jp"}

	got, err := env.Expand("${ÜBER}/bin:$日本", vars)
	require.NoError(t, err)
	assert.Equal(t, "/opt/über/bin:jp", got.Value)
	assert.Equal(t, 2, got.Replacements)

	input := "é/$NÖPE"
	_, err = env.Expand(input, vars)
	var expErr *env.ExpandError
	require.ErrorAs(t, err, &expErr)
	assert.Equal(t, "NÖPE", expErr.Var)
	assert.Equal(t, "$NÖPE", input[expErr.Offset:expErr.Offset+expErr.Length])
}

func TestExpand_CountMatchesReferences(t *testing.T) {
	vars := env.MapLookup{"A": "1", "B": "22", "C": "333"}
	inputs := []string{
		"$A",
		"$A $B ${C}",
		"${A}${A}${A}/$B",
		"prefix $C suffix $A",
	}
	for _, in := range inputs {
		got, err := env.Expand(in, vars)
		require.NoError(t, err)
		refs := 0
		for _, c := range in {
			if c == '$' {
				refs++
			}
		}
		assert.Equal(t, refs, got.Replacements, in)
	}
}

func TestStoreExpand(t *testing.T) {
	root := env.New()
	root.SetString("HOME", "/home/me")
	child := root.Child()
	child.SetString("APP", "nvim")

	got, err := child.Expand("${HOME}/.config/$APP")
	require.NoError(t, err)
	assert.Equal(t, "/home/me/.config/nvim", got.Value)
	assert.Equal(t, 2, got.Replacements)
}
