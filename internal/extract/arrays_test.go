package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hargabyte/doxir/internal/markup"
)

func declarationNodes(t *testing.T, body string) []*markup.Node {
	t.Helper()
	doc, err := markup.ParseString("<declaration>" + body + "</declaration>")
	require.NoError(t, err)
	return doc.Root.Elements()
}

func TestResolveArrayDimensions(t *testing.T) {
	nodes := declarationNodes(t,
		`<declaration_type>void</declaration_type> <declaration_function>blit</declaration_function>(`+
			`<declaration_type>float</declaration_type> <declaration_param>m</declaration_param>[<declaration_number>4</declaration_number>][<declaration_number>3</declaration_number>], `+
			`<declaration_type>int</declaration_type> <declaration_param>v</declaration_param>[<declaration_number>2</declaration_number>], `+
			`<declaration_type>int</declaration_type> <declaration_param>n</declaration_param>);`)

	tests := []struct {
		symbol string
		want   []int
	}{
		{"m", []int{4, 3}},
		{"v", []int{2}},
		{"n", nil},
		{"missing", nil},
		{"blit", nil},
	}
	for _, tt := range tests {
		t.Run(tt.symbol, func(t *testing.T) {
			got, err := ResolveArrayDimensions(nodes, tt.symbol)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveArrayDimensionsTooDeep(t *testing.T) {
	nodes := declarationNodes(t,
		`<declaration_type>int</declaration_type> <declaration_var>cube</declaration_var>`+
			`[<declaration_number>2</declaration_number>][<declaration_number>2</declaration_number>][<declaration_number>2</declaration_number>];`)

	_, err := ResolveArrayDimensions(nodes, "cube")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"cube"`)
	assert.Contains(t, err.Error(), "3")

	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, KindStructural, e.Kind)
}

func TestResolveArrayDimensionsFieldMember(t *testing.T) {
	nodes := declarationNodes(t,
		`<declaration_keyword>struct</declaration_keyword> { <declaration_type>char</declaration_type> `+
			`<declaration_member>name</declaration_member>[<declaration_number>32</declaration_number>]; }`)

	got, err := ResolveArrayDimensions(nodes, "name")
	require.NoError(t, err)
	assert.Equal(t, []int{32}, got)
}

func TestResolveArrayDimensionsIgnoresDefaultArgument(t *testing.T) {
	nodes := declarationNodes(t,
		`<declaration_type>void</declaration_type> <declaration_function>f</declaration_function>(`+
			`<declaration_type>int</declaration_type> <declaration_param>x</declaration_param> = <declaration_number>3</declaration_number>, `+
			`<declaration_type>int</declaration_type> <declaration_param>v</declaration_param>[<declaration_number>2</declaration_number>] = {});`)

	got, err := ResolveArrayDimensions(nodes, "x")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = ResolveArrayDimensions(nodes, "v")
	require.NoError(t, err)
	assert.Equal(t, []int{2}, got)
}
