package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParser(t *testing.T) {
	t.Run("creates C parser", func(t *testing.T) {
		p, err := NewParser(C)
		require.NoError(t, err)
		defer p.Close()
		assert.Equal(t, C, p.Language())
	})

	t.Run("creates C++ parser", func(t *testing.T) {
		p, err := NewParser(Cpp)
		require.NoError(t, err)
		defer p.Close()
		assert.Equal(t, Cpp, p.Language())
	})

	t.Run("rejects unsupported language", func(t *testing.T) {
		_, err := NewParser(Language("fortran"))
		require.Error(t, err)
		var ule *UnsupportedLanguageError
		assert.ErrorAs(t, err, &ule)
	})
}

func TestLanguageFromName(t *testing.T) {
	assert.Equal(t, C, LanguageFromName("c"))
	assert.Equal(t, C, LanguageFromName(""))
	assert.Equal(t, Cpp, LanguageFromName("C++"))
	assert.Equal(t, Cpp, LanguageFromName("cpp"))
}

func TestFindNodesByType(t *testing.T) {
	p, err := NewParser(C)
	require.NoError(t, err)
	defer p.Close()

	res, err := p.Parse([]byte("typedef int a; typedef float b;"))
	require.NoError(t, err)
	defer res.Close()

	assert.False(t, res.HasErrors())
	defs := res.FindNodesByType("type_definition")
	require.Len(t, defs, 2)
	assert.Equal(t, "typedef float b;", res.NodeText(defs[1]))
}

func TestParseTypedef(t *testing.T) {
	tests := []struct {
		name string
		lang Language
		sig  string
		want Typedef
	}{
		{"struct pointer", C, "typedef struct foo_s *foo_t;",
			Typedef{AliasedType: "struct", AliasedIdentifier: "foo_s", IsPointer: true, NewIdentifier: "foo_t"}},
		{"struct value", C, "typedef struct point point_t",
			Typedef{AliasedType: "struct", AliasedIdentifier: "point", NewIdentifier: "point_t"}},
		{"enum", C, "typedef enum color color_t;",
			Typedef{AliasedType: "enum", AliasedIdentifier: "color", NewIdentifier: "color_t"}},
		{"sized", C, "typedef unsigned int uint32;",
			Typedef{AliasedType: "unsigned", AliasedIdentifier: "int", NewIdentifier: "uint32"}},
		{"primitive", C, "typedef float real;",
			Typedef{AliasedIdentifier: "float", NewIdentifier: "real"}},
		{"named pointer", C, "typedef Widget *WidgetRef;",
			Typedef{AliasedIdentifier: "Widget", IsPointer: true, NewIdentifier: "WidgetRef"}},
		{"cpp struct pointer", Cpp, "typedef struct canvas_s *canvas_t;",
			Typedef{AliasedType: "struct", AliasedIdentifier: "canvas_s", IsPointer: true, NewIdentifier: "canvas_t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTypedef(tt.lang, tt.sig)
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestParseTypedefErrors(t *testing.T) {
	for _, sig := range []string{"", "   ", "struct foo;", "typedef foo bar baz qux;"} {
		_, err := ParseTypedef(C, sig)
		require.Error(t, err, "signature %q", sig)
		var pe *ParseError
		assert.ErrorAs(t, err, &pe)
	}
}
