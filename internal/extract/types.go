package extract

import (
	"regexp"
	"strings"
)

// DefaultContainerKeyword is the generic container recognised when no other
// keyword is configured.
const DefaultContainerKeyword = "vector"

// typeRe decomposes a declared type: optional const, optional elaborating
// keyword, size modifiers and base name, then any run of pointer, reference
// and const markers ("char **", "const char * const") and, for parameters,
// trailing bracket groups.
var typeRe = regexp.MustCompile(
	`^(const\s+)?` +
		`(?:(?:struct|enum|union)\s+)?` +
		`((?:(?:unsigned|signed|long|short)\s+)*[A-Za-z_][\w:]*)` +
		`(?:\s*<[^>]*>)?` +
		`((?:\s*(?:\*|&|\bconst\b))*)` +
		`\s*((?:\[[^\]]*\]\s*)*)$`)

var bracketRe = regexp.MustCompile(`\[[^\]]*\]`)

// TypeOptions controls how a raw type string is decomposed.
type TypeOptions struct {
	// Array enables bracket-group detection. Set for parameters and fields,
	// never for return types.
	Array bool
	// ContainerKeyword names the generic container type. Empty means
	// DefaultContainerKeyword.
	ContainerKeyword string
	// GenericParameter is the generic-parameter token declared alongside
	// the type, consulted when the base type is the container keyword.
	GenericParameter string
}

func (o TypeOptions) keyword() string {
	if o.ContainerKeyword == "" {
		return DefaultContainerKeyword
	}
	return o.ContainerKeyword
}

// ParseType decomposes a raw type string such as "const unsigned int &" or
// "float[3]" into a TypeDescriptor. Array sizes are not read here; bracket
// groups only set IsArray.
func ParseType(raw string, opts TypeOptions) (TypeDescriptor, error) {
	s := strings.Join(strings.Fields(raw), " ")
	m := typeRe.FindStringSubmatch(s)
	if m == nil {
		return TypeDescriptor{}, structuralf("cannot decompose type %q", raw)
	}

	if m[2] == "const" {
		return TypeDescriptor{}, structuralf("cannot decompose type %q", raw)
	}

	markers := m[3]
	td := TypeDescriptor{
		Type:        m[2],
		IsConst:     m[1] != "" || pointeeConst(markers),
		IsReference: strings.Contains(markers, "&"),
		IsPointer:   strings.Contains(markers, "*"),
	}

	if m[4] != "" {
		if !opts.Array {
			return TypeDescriptor{}, structuralf("unexpected array brackets in type %q", raw)
		}
		td.IsArray = len(bracketRe.FindAllString(m[4], -1)) > 0
	}

	if isContainer(td.Type, opts.keyword()) {
		param := strings.TrimSpace(opts.GenericParameter)
		if param == "" {
			return TypeDescriptor{}, structuralf("container type %q has no declared type parameter", raw)
		}
		if isContainer(param, opts.keyword()) {
			return TypeDescriptor{}, structuralf("containers of containers are not supported (%s<%s>)", td.Type, param)
		}
		td.IsContainer = true
		td.TypeParameter = param
	}

	return td, nil
}

// pointeeConst reports an east-const qualifier ("char const *"): a const
// that precedes every pointer or reference marker qualifies the base type.
// A const after a marker qualifies the pointer itself.
func pointeeConst(markers string) bool {
	i := strings.Index(markers, "const")
	if i < 0 {
		return false
	}
	return !strings.ContainsAny(markers[:i], "*&")
}

// ParseReturn decomposes a return type. A plain void return must not carry a
// description: pure procedures do not document a return value.
func ParseReturn(raw, description string, opts TypeOptions) (TypeDescriptor, error) {
	if strings.TrimSpace(raw) == "" {
		raw = "void"
	}
	opts.Array = false

	td, err := ParseType(raw, opts)
	if err != nil {
		return TypeDescriptor{}, err
	}
	if td.IsVoid() && strings.TrimSpace(description) != "" {
		return TypeDescriptor{}, structuralf("pure procedures must not document a return value")
	}
	return td, nil
}

// isContainer matches the keyword against the unqualified type name, so
// "std::vector" counts as "vector".
func isContainer(name, keyword string) bool {
	if i := strings.LastIndex(name, "::"); i >= 0 {
		name = name[i+2:]
	}
	return name == keyword
}
