package extract

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/hargabyte/doxir/internal/markup"
)

func extractCanvas(t *testing.T) *HeaderDocument {
	t.Helper()
	doc, err := ExtractFile(filepath.Join("testdata", "canvas.xml"), Options{})
	require.NoError(t, err)
	return doc
}

// extractString wraps declaration markup in a header and extracts it.
func extractString(t *testing.T, body string, opts Options) (*HeaderDocument, error) {
	t.Helper()
	doc, err := markup.ParseString(`<header lang="c" filename="test.h"><name>test.h</name>` + body + `</header>`)
	require.NoError(t, err)
	return Extract(doc, opts)
}

func function(name, attrs, params, extra string) string {
	return `<functions><function><name>` + name + `</name>` +
		`<attributes>` + attrs + `</attributes>` +
		`<parsedparameterlist>` + params + `</parsedparameterlist>` +
		extra + `</function></functions>`
}

func attr(name, value string) string {
	return `<attribute><name>` + name + `</name><value>` + value + `</value></attribute>`
}

func param(typ, name string) string {
	return `<parsedparameter><type>` + typ + `</type><name>` + name + `</name></parsedparameter>`
}

func TestExtractHeader(t *testing.T) {
	doc := extractCanvas(t)

	assert.Equal(t, "canvas.h", doc.Name)
	assert.Equal(t, "Drawing canvas API.", doc.Brief)
	assert.Equal(t, "Immediate-mode drawing on an offscreen canvas.", doc.Description)
	assert.Equal(t, Attributes{"module": "gfx"}, doc.Attributes)
	assert.Len(t, doc.Functions, 4)
	assert.Len(t, doc.Typedefs, 2)
	assert.Len(t, doc.Structs, 1)
	assert.Len(t, doc.Enums, 1)
	assert.Len(t, doc.Defines, 1)
	assert.Empty(t, doc.Skipped)
}

func TestExtractFunctions(t *testing.T) {
	doc := extractCanvas(t)

	create := doc.Functions[0]
	assert.Equal(t, "canvas_create", create.SanitizedName)
	assert.Equal(t, "Canvas *canvas_create(int width, int height);", create.Signature)
	assert.Equal(t, TypeDescriptor{Type: "Canvas", IsPointer: true}, create.Return.Type)
	assert.Equal(t, "The new canvas.", create.Return.Description)
	require.Len(t, create.Parameters, 2)
	assert.Equal(t, Parameter{Name: "width", Type: TypeDescriptor{Type: "int"}, Description: "Width in pixels."}, create.Parameters[0])
	// Declared but undocumented parameters still appear.
	assert.Equal(t, Parameter{Name: "height", Type: TypeDescriptor{Type: "int"}}, create.Parameters[1])
	assert.Empty(t, create.UniqueGlobalName)
	assert.Equal(t, "gfx", create.Attributes["module"], "header attributes are inherited")

	fill := doc.Functions[1]
	assert.Equal(t, "canvas_fill(Canvas *, const float[3])", fill.Name)
	assert.Equal(t, "canvas_fill", fill.SanitizedName)
	assert.Equal(t, "fill", fill.MethodName)
	assert.Equal(t, "canvas_fill_rgb", fill.UniqueGlobalName)
	assert.Equal(t, "fill_rgb", fill.UniqueMethodName)
	assert.True(t, fill.Return.Type.IsVoid())
	require.Len(t, fill.Parameters, 2)
	assert.Equal(t, TypeDescriptor{Type: "float", IsConst: true, IsArray: true, ArraySizes: []int{3}}, fill.Parameters[1].Type)

	width := doc.Functions[2]
	assert.Equal(t, TypeDescriptor{Type: "int"}, width.Return.Type)
	assert.Equal(t, TypeDescriptor{Type: "Canvas", IsConst: true, IsPointer: true}, width.Parameters[0].Type)

	poly := doc.Functions[3]
	require.Len(t, poly.Parameters, 2)
	assert.Equal(t, TypeDescriptor{
		Type:          "vector",
		IsConst:       true,
		IsReference:   true,
		IsContainer:   true,
		TypeParameter: "Point",
	}, poly.Parameters[1].Type)
}

func TestExtractTypedefs(t *testing.T) {
	doc := extractCanvas(t)

	alias := doc.Typedefs[0]
	assert.False(t, alias.IsFunctionPointer())
	require.NotNil(t, alias.Alias)
	assert.Equal(t, Alias{
		AliasedType:       "struct",
		AliasedIdentifier: "canvas_s",
		IsPointer:         true,
		NewIdentifier:     "canvas_t",
	}, *alias.Alias)

	cb := doc.Typedefs[1]
	require.True(t, cb.IsFunctionPointer())
	assert.Nil(t, cb.Alias)
	assert.Equal(t, TypeDescriptor{Type: "int"}, cb.FunctionPointer.Return.Type)
	assert.Equal(t, "Non-zero to stop drawing.", cb.FunctionPointer.Return.Description)
	require.Len(t, cb.FunctionPointer.Parameters, 2)
	assert.Equal(t, "Canvas being drawn.", cb.FunctionPointer.Parameters[0].Description)
	assert.Equal(t, TypeDescriptor{Type: "void", IsPointer: true}, cb.FunctionPointer.Parameters[1].Type)
}

func TestExtractStruct(t *testing.T) {
	doc := extractCanvas(t)

	s := doc.Structs[0]
	assert.Equal(t, "Point", s.Name)
	require.Len(t, s.Fields, 3)
	assert.Equal(t, "Horizontal position.", s.Fields[0].Description)
	assert.Equal(t, "label", s.Fields[2].Name)
	assert.Equal(t, TypeDescriptor{Type: "char", IsArray: true, ArraySizes: []int{16}}, s.Fields[2].Type)
}

func TestExtractEnum(t *testing.T) {
	doc := extractCanvas(t)

	e := doc.Enums[0]
	require.Len(t, e.Constants, 3)
	assert.Equal(t, "BLEND_NONE", e.Constants[0].Name)
	assert.Equal(t, "Overwrite.", e.Constants[0].Description)
	require.NotNil(t, e.Constants[0].Value)
	assert.Equal(t, int64(0), *e.Constants[0].Value)

	add := e.Constant("BLEND_ADD")
	require.NotNil(t, add)
	require.NotNil(t, add.Value)
	assert.Equal(t, int64(1), *add.Value)

	mul := e.Constants[2]
	assert.Equal(t, "BLEND_MUL", mul.Name)
	assert.Empty(t, mul.Description)
	assert.Nil(t, mul.Value)

	assert.Nil(t, e.Constant("BLEND_XOR"))
}

func TestExtractDefine(t *testing.T) {
	doc := extractCanvas(t)

	d := doc.Defines[0]
	assert.Equal(t, "CANVAS_MAX_SIZE", d.Name)
	assert.Equal(t, "Largest canvas edge in pixels.", d.Brief)
	assert.Equal(t, "#define CANVAS_MAX_SIZE 4096", d.Definition)
}

func TestDeclarationsOrder(t *testing.T) {
	doc := extractCanvas(t)

	var kinds []Kind
	var names []string
	for _, d := range doc.Declarations() {
		kinds = append(kinds, d.Kind())
		names = append(names, d.DeclName())
	}
	assert.Equal(t, []Kind{
		FunctionKind, FunctionKind, FunctionKind, FunctionKind,
		TypedefKind, TypedefKind, StructKind, EnumKind, DefineKind,
	}, kinds)
	assert.Equal(t, "canvas_t", names[4])
	assert.Equal(t, "CANVAS_MAX_SIZE", names[8])
}

func TestExtractDuplicateSuffix(t *testing.T) {
	body := `<functions>` +
		`<function><name>draw(int)</name><attributes>` + attr("suffix", "i") + `</attributes></function>` +
		`<function><name>draw(long)</name><attributes>` + attr("suffix", "i") + `</attributes></function>` +
		`</functions>`

	_, err := extractString(t, body, Options{})
	require.Error(t, err)
	e, ok := AsError(err)
	require.True(t, ok)
	assert.Equal(t, RuleUniqueGlobalName, e.Rule)
	assert.Equal(t, "draw(long)", e.Declaration)
	assert.Contains(t, err.Error(), "extracting test.h")

	// Each document starts with an empty registry.
	single := `<functions><function><name>draw(int)</name><attributes>` + attr("suffix", "i") + `</attributes></function></functions>`
	for i := 0; i < 2; i++ {
		doc, err := extractString(t, single, Options{})
		require.NoError(t, err)
		assert.Equal(t, "draw_i", doc.Functions[0].UniqueGlobalName)
	}
}

func TestExtractPointerParameters(t *testing.T) {
	body := function("run", "",
		param("int", "argc")+param("char **", "argv")+param("char", "*name")+param("Canvas", "&amp;c")+param("const char * const", "mode"),
		`<declaration><declaration_type>int</declaration_type> <declaration_function>run</declaration_function>(`+
			`<declaration_type>int</declaration_type> <declaration_param>argc</declaration_param>, `+
			`<declaration_type>char</declaration_type> **<declaration_param>argv</declaration_param>, `+
			`<declaration_type>char</declaration_type> *<declaration_param>name</declaration_param>, `+
			`<declaration_type>Canvas</declaration_type> &amp;<declaration_param>c</declaration_param>, `+
			`<declaration_keyword>const</declaration_keyword> <declaration_type>char</declaration_type> * <declaration_keyword>const</declaration_keyword> <declaration_param>mode</declaration_param>);</declaration>`)

	doc, err := extractString(t, body, Options{})
	require.NoError(t, err)
	params := doc.Functions[0].Parameters
	require.Len(t, params, 5)

	assert.Equal(t, TypeDescriptor{Type: "int"}, params[0].Type)
	assert.Equal(t, TypeDescriptor{Type: "char", IsPointer: true}, params[1].Type)
	assert.Equal(t, "name", params[2].Name)
	assert.Equal(t, TypeDescriptor{Type: "char", IsPointer: true}, params[2].Type)
	assert.Equal(t, "c", params[3].Name)
	assert.Equal(t, TypeDescriptor{Type: "Canvas", IsReference: true}, params[3].Type)
	assert.Equal(t, TypeDescriptor{Type: "char", IsConst: true, IsPointer: true}, params[4].Type)
}

func TestExtractDefaultArgumentIsNotArray(t *testing.T) {
	body := function("f", "", param("int", "x"),
		`<declaration><declaration_type>void</declaration_type> <declaration_function>f</declaration_function>(`+
			`<declaration_type>int</declaration_type> <declaration_param>x</declaration_param> = <declaration_number>3</declaration_number>);</declaration>`)

	doc, err := extractString(t, body, Options{})
	require.NoError(t, err)
	assert.Equal(t, TypeDescriptor{Type: "int"}, doc.Functions[0].Parameters[0].Type)
}

func TestExtractCustomMarker(t *testing.T) {
	body := function("blit#rgba", "", "", "")
	doc, err := extractString(t, body, Options{DisambiguationMarker: "#"})
	require.NoError(t, err)
	assert.Equal(t, "blit", doc.Functions[0].SanitizedName)
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind ErrorKind
		rule RuleID
		msg  string
	}{
		{
			name: "documented parameter not declared",
			body: function("f", "", param("int", "a"),
				`<parameterlist><parameter><name>b</name><desc>B.</desc></parameter></parameterlist>`),
			kind: KindCrossReference,
			msg:  `documented parameter "b" is not declared`,
		},
		{
			name: "three dimensional array",
			body: function("f", "", param("int", "cube[2][2][2]"),
				`<declaration><declaration_type>int</declaration_type> <declaration_param>cube</declaration_param>[<declaration_number>2</declaration_number>][<declaration_number>2</declaration_number>][<declaration_number>2</declaration_number>]</declaration>`),
			kind: KindStructural,
			msg:  "at most 2",
		},
		{
			name: "container of container",
			body: function("f", "", param("vector", "grid"),
				`<declaration><declaration_type>vector</declaration_type>&lt;<declaration_template>vector</declaration_template>&gt; <declaration_param>grid</declaration_param></declaration>`),
			kind: KindStructural,
			msg:  "containers of containers",
		},
		{
			name: "void return documented",
			body: function("f", "", "", `<returntype>void</returntype><result>Nothing.</result>`),
			kind: KindStructural,
			msg:  "pure procedures",
		},
		{
			name: "self type differs from class",
			body: function("f", attr("class", "Bar")+attr("self", "f"), param("Foo *", "f"), ""),
			kind: KindRuleViolation,
			rule: RuleSelfTypeMatchesClass,
		},
		{
			name: "pointer typedef without class",
			body: `<typedefs><typedef type="simple"><name>foo_t</name><declaration>typedef struct foo_s *foo_t;</declaration></typedef></typedefs>`,
			kind: KindRuleViolation,
			rule: RulePointerTypedefHasClass,
		},
		{
			name: "undeclared enum constant",
			body: `<enums><enum><name>E</name><constants><constant><name>B</name></constant></constants>` +
				`<parsedparameterlist>` + param("", "A") + `</parsedparameterlist></enum></enums>`,
			kind: KindStructural,
			msg:  `documented constant "B" is not declared`,
		},
		{
			name: "documented field not declared",
			body: `<structs_and_unions><struct><name>S</name><fields><field><name>z</name></field></fields>` +
				`<parsedparameterlist>` + param("int", "x") + `</parsedparameterlist></struct></structs_and_unions>`,
			kind: KindCrossReference,
			msg:  `documented field "z"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := extractString(t, tt.body, Options{})
			require.Error(t, err)
			assert.Nil(t, doc)
			e, ok := AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.kind, e.Kind)
			assert.Equal(t, tt.rule, e.Rule)
			if tt.msg != "" {
				assert.Contains(t, e.Message, tt.msg)
			}
		})
	}
}

func TestExtractValueTypedefWithoutClass(t *testing.T) {
	body := `<typedefs><typedef type="simple"><name>size_type</name><declaration>typedef unsigned int size_type;</declaration></typedef></typedefs>`
	doc, err := extractString(t, body, Options{})
	require.NoError(t, err)
	require.NotNil(t, doc.Typedefs[0].Alias)
	assert.Equal(t, Alias{AliasedType: "unsigned", AliasedIdentifier: "int", NewIdentifier: "size_type"}, *doc.Typedefs[0].Alias)
}

func TestExtractCustomContainerKeyword(t *testing.T) {
	body := function("f", "", param("list", "items"),
		`<declaration><declaration_type>list</declaration_type>&lt;<declaration_template>Item</declaration_template>&gt; <declaration_param>items</declaration_param></declaration>`)

	doc, err := extractString(t, body, Options{ContainerKeyword: "list"})
	require.NoError(t, err)
	td := doc.Functions[0].Parameters[0].Type
	assert.True(t, td.IsContainer)
	assert.Equal(t, "Item", td.TypeParameter)

	// Under the default keyword "list" is an ordinary type.
	doc, err = extractString(t, body, Options{})
	require.NoError(t, err)
	assert.False(t, doc.Functions[0].Parameters[0].Type.IsContainer)
}

func TestExtractSkipPolicy(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	body := `<functions>` +
		`<function><name>ok</name></function>` +
		`<function><name>bad</name><attributes>` + attr("self", "x") + `</attributes></function>` +
		`<function><name>also_ok</name></function>` +
		`</functions>`

	doc, err := extractString(t, body, Options{
		FailurePolicy: FailSkip,
		Logger:        zap.New(core).Sugar(),
	})
	require.NoError(t, err)

	require.Len(t, doc.Functions, 2)
	assert.Equal(t, "ok", doc.Functions[0].Name)
	assert.Equal(t, "also_ok", doc.Functions[1].Name)

	require.Len(t, doc.Skipped, 1)
	assert.Equal(t, "bad", doc.Skipped[0].Declaration)
	assert.Equal(t, RuleSelfRequiresClass, doc.Skipped[0].Rule)

	entries := logs.FilterMessage("skipping declaration").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "test.h", entries[0].ContextMap()["header"])
}

func TestExtractAbortPolicyIsDefault(t *testing.T) {
	body := function("bad", attr("self", "x"), "", "")
	_, err := extractString(t, body, Options{})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "extracting test.h: rule 1: bad:"), err.Error())
}

func TestExtractNameFallsBackToFilename(t *testing.T) {
	doc, err := markup.ParseString(`<header filename="bare.h"></header>`)
	require.NoError(t, err)
	out, err := Extract(doc, Options{})
	require.NoError(t, err)
	assert.Equal(t, "bare.h", out.Name)
	assert.Empty(t, out.Declarations())
}

func TestExtractNilDocument(t *testing.T) {
	_, err := Extract(nil, Options{})
	assert.ErrorIs(t, err, ErrNoRoot)
}

func TestErrorString(t *testing.T) {
	e := &Error{Kind: KindRuleViolation, Rule: RuleGetterReturnsValue, Message: "a getter must return a value", Declaration: "w", Signature: "void w(void);"}
	assert.Equal(t, "rule 9: w: a getter must return a value (in `void w(void);`)", e.Error())

	s := &Error{Kind: KindStructural, Message: "bad"}
	assert.Equal(t, "structural error: bad", s.Error())

	text, err := KindCrossReference.MarshalText()
	require.NoError(t, err)
	var k ErrorKind
	require.NoError(t, k.UnmarshalText(text))
	assert.Equal(t, KindCrossReference, k)
	assert.Error(t, k.UnmarshalText([]byte("bogus")))
}
