// Package extract turns HeaderDoc markup for one C/C++ header into a
// validated intermediate representation (IR).
//
// Each declaration kind has its own extractor. Extractors decompose
// declared types into TypeDescriptors, recover array dimensions from the
// declaration markup, check documentation attributes against the numbered
// rule table and assign suffix-driven unique names. The result is a
// HeaderDocument that code generators consume without touching markup.
package extract

// Kind identifies the declaration category.
type Kind string

const (
	// FunctionKind is a free function or documented method.
	FunctionKind Kind = "function"
	// TypedefKind is a simple alias or a function-pointer typedef.
	TypedefKind Kind = "typedef"
	// StructKind is a struct declaration with documented fields.
	StructKind Kind = "struct"
	// EnumKind is an enumeration with documented constants.
	EnumKind Kind = "enum"
	// DefineKind is a preprocessor #define.
	DefineKind Kind = "define"
)

// Declaration is implemented by every IR declaration type. Callers switch on
// the concrete type to reach kind-specific fields.
type Declaration interface {
	Kind() Kind
	DeclName() string
	declaration()
}

// Attributes maps documentation attribute names to their values. Flag
// attributes carry an empty value; use Has to test presence.
type Attributes map[string]string

// Attribute keys understood by the rule engine and name registry.
const (
	AttrClass       = "class"
	AttrStatic      = "static"
	AttrSelf        = "self"
	AttrMethod      = "method"
	AttrGetter      = "getter"
	AttrSetter      = "setter"
	AttrConstructor = "constructor"
	AttrDestructor  = "destructor"
	AttrSuffix      = "suffix"
	// Legacy accessor markers, one parameter for get and two for set.
	AttrLegacyGet = "get"
	AttrLegacySet = "set"
	// Plural accessor markers for class-level property groups.
	AttrGetters = "getters"
	AttrSetters = "setters"
)

// Has reports whether the attribute is present, with or without a value.
func (a Attributes) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// HasAny reports whether any of the keys is present.
func (a Attributes) HasAny(keys ...string) bool {
	for _, k := range keys {
		if a.Has(k) {
			return true
		}
	}
	return false
}

// merge returns a new map holding base overlaid with override.
func (a Attributes) merge(override Attributes) Attributes {
	out := make(Attributes, len(a)+len(override))
	for k, v := range a {
		out[k] = v
	}
	for k, v := range override {
		out[k] = v
	}
	return out
}

// TypeDescriptor is the structured form of a declared C type.
type TypeDescriptor struct {
	// Type is the base type name with qualifiers and markers removed.
	Type        string `yaml:"type" json:"type"`
	IsConst     bool   `yaml:"is_const,omitempty" json:"is_const,omitempty"`
	IsPointer   bool   `yaml:"is_pointer,omitempty" json:"is_pointer,omitempty"`
	IsReference bool   `yaml:"is_reference,omitempty" json:"is_reference,omitempty"`
	IsArray     bool   `yaml:"is_array,omitempty" json:"is_array,omitempty"`
	// ArraySizes lists dimension sizes, outermost first. At most two.
	ArraySizes []int `yaml:"array_sizes,omitempty" json:"array_sizes,omitempty"`
	// IsContainer marks a single-parameter generic container such as vector.
	IsContainer bool `yaml:"is_container,omitempty" json:"is_container,omitempty"`
	// TypeParameter is the container's element type.
	TypeParameter string `yaml:"type_parameter,omitempty" json:"type_parameter,omitempty"`
}

// IsVoid reports whether the type is a plain void, not a void pointer or
// reference.
func (t TypeDescriptor) IsVoid() bool {
	return t.Type == "void" && !t.IsPointer && !t.IsReference
}

// Parameter is a function parameter or struct field.
type Parameter struct {
	Name        string         `yaml:"name" json:"name"`
	Type        TypeDescriptor `yaml:"type" json:"type"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// ReturnValue is a function's result type and its documentation.
type ReturnValue struct {
	Type        TypeDescriptor `yaml:"type" json:"type"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
}

// FunctionDecl is a documented function.
type FunctionDecl struct {
	Signature string `yaml:"signature" json:"signature"`
	// Name is the documented name, which may carry an overload
	// disambiguation such as "draw(int)".
	Name             string      `yaml:"name" json:"name"`
	SanitizedName    string      `yaml:"sanitized_name" json:"sanitized_name"`
	MethodName       string      `yaml:"method_name,omitempty" json:"method_name,omitempty"`
	UniqueGlobalName string      `yaml:"unique_global_name,omitempty" json:"unique_global_name,omitempty"`
	UniqueMethodName string      `yaml:"unique_method_name,omitempty" json:"unique_method_name,omitempty"`
	Brief            string      `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description      string      `yaml:"description,omitempty" json:"description,omitempty"`
	Return           ReturnValue `yaml:"return" json:"return"`
	Parameters       []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Attributes       Attributes  `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// FunctionPointer is the payload of a function-pointer typedef.
type FunctionPointer struct {
	Return     ReturnValue `yaml:"return" json:"return"`
	Parameters []Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// Alias is the payload of a simple typedef such as
// "typedef struct foo_s *foo_t".
type Alias struct {
	// AliasedType is the elaborating keyword or size modifier ("struct",
	// "unsigned"), empty for plain names.
	AliasedType       string `yaml:"aliased_type,omitempty" json:"aliased_type,omitempty"`
	AliasedIdentifier string `yaml:"aliased_identifier" json:"aliased_identifier"`
	IsPointer         bool   `yaml:"is_pointer,omitempty" json:"is_pointer,omitempty"`
	NewIdentifier     string `yaml:"new_identifier" json:"new_identifier"`
}

// TypedefDecl is a documented typedef. Exactly one of FunctionPointer and
// Alias is set.
type TypedefDecl struct {
	Signature       string           `yaml:"signature" json:"signature"`
	Name            string           `yaml:"name" json:"name"`
	Brief           string           `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description     string           `yaml:"description,omitempty" json:"description,omitempty"`
	Attributes      Attributes       `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	FunctionPointer *FunctionPointer `yaml:"function_pointer,omitempty" json:"function_pointer,omitempty"`
	Alias           *Alias           `yaml:"alias,omitempty" json:"alias,omitempty"`
}

// IsFunctionPointer reports which payload the typedef carries.
func (t *TypedefDecl) IsFunctionPointer() bool {
	return t.FunctionPointer != nil
}

// StructDecl is a documented struct.
type StructDecl struct {
	Signature   string      `yaml:"signature" json:"signature"`
	Name        string      `yaml:"name" json:"name"`
	Brief       string      `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []Parameter `yaml:"fields,omitempty" json:"fields,omitempty"`
	Attributes  Attributes  `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// EnumConstant is one enumerator. Value is nil when the declaration does not
// assign an explicit number.
type EnumConstant struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Value       *int64 `yaml:"value,omitempty" json:"value,omitempty"`
}

// EnumDecl is a documented enumeration.
type EnumDecl struct {
	Signature   string         `yaml:"signature" json:"signature"`
	Name        string         `yaml:"name" json:"name"`
	Brief       string         `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Constants   []EnumConstant `yaml:"constants,omitempty" json:"constants,omitempty"`
	Attributes  Attributes     `yaml:"attributes,omitempty" json:"attributes,omitempty"`
}

// Constant returns the named constant, or nil.
func (e *EnumDecl) Constant(name string) *EnumConstant {
	for i := range e.Constants {
		if e.Constants[i].Name == name {
			return &e.Constants[i]
		}
	}
	return nil
}

// DefineDecl is a preprocessor define. Definition is kept verbatim.
type DefineDecl struct {
	Name        string `yaml:"name" json:"name"`
	Brief       string `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Definition  string `yaml:"definition" json:"definition"`
}

// HeaderDocument is the IR for one header.
type HeaderDocument struct {
	Name        string         `yaml:"name" json:"name"`
	Brief       string         `yaml:"brief,omitempty" json:"brief,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Attributes  Attributes     `yaml:"attributes,omitempty" json:"attributes,omitempty"`
	Functions   []FunctionDecl `yaml:"functions,omitempty" json:"functions,omitempty"`
	Typedefs    []TypedefDecl  `yaml:"typedefs,omitempty" json:"typedefs,omitempty"`
	Structs     []StructDecl   `yaml:"structs,omitempty" json:"structs,omitempty"`
	Enums       []EnumDecl     `yaml:"enums,omitempty" json:"enums,omitempty"`
	Defines     []DefineDecl   `yaml:"defines,omitempty" json:"defines,omitempty"`
	// Skipped holds declarations dropped under the skip failure policy.
	Skipped []*Error `yaml:"skipped,omitempty" json:"skipped,omitempty"`
}

// Declarations returns every declaration in category order: functions,
// typedefs, structs, enums, defines.
func (h *HeaderDocument) Declarations() []Declaration {
	out := make([]Declaration, 0,
		len(h.Functions)+len(h.Typedefs)+len(h.Structs)+len(h.Enums)+len(h.Defines))
	for i := range h.Functions {
		out = append(out, &h.Functions[i])
	}
	for i := range h.Typedefs {
		out = append(out, &h.Typedefs[i])
	}
	for i := range h.Structs {
		out = append(out, &h.Structs[i])
	}
	for i := range h.Enums {
		out = append(out, &h.Enums[i])
	}
	for i := range h.Defines {
		out = append(out, &h.Defines[i])
	}
	return out
}

func (*FunctionDecl) Kind() Kind { return FunctionKind }
func (*TypedefDecl) Kind() Kind  { return TypedefKind }
func (*StructDecl) Kind() Kind   { return StructKind }
func (*EnumDecl) Kind() Kind     { return EnumKind }
func (*DefineDecl) Kind() Kind   { return DefineKind }

func (d *FunctionDecl) DeclName() string { return d.Name }
func (d *TypedefDecl) DeclName() string  { return d.Name }
func (d *StructDecl) DeclName() string   { return d.Name }
func (d *EnumDecl) DeclName() string     { return d.Name }
func (d *DefineDecl) DeclName() string   { return d.Name }

func (*FunctionDecl) declaration() {}
func (*TypedefDecl) declaration()  {}
func (*StructDecl) declaration()   {}
func (*EnumDecl) declaration()     {}
func (*DefineDecl) declaration()   {}
