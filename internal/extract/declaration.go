package extract

import (
	"strings"

	"go.uber.org/zap"

	"github.com/hargabyte/doxir/internal/markup"
	"github.com/hargabyte/doxir/internal/parser"
)

// ParsedList is a declaration's authoritative name -> raw type list, taken
// from the tool's own parse of the declaration rather than from prose. A
// repeated name keeps its first position and its last type.
type ParsedList struct {
	names []string
	types map[string]string
}

// NewParsedList builds a list from name/type pairs.
func NewParsedList(pairs ...[2]string) *ParsedList {
	p := &ParsedList{}
	for _, kv := range pairs {
		p.Set(kv[0], kv[1])
	}
	return p
}

// Set records a name and its raw type.
func (p *ParsedList) Set(name, rawType string) {
	if p.types == nil {
		p.types = make(map[string]string)
	}
	if _, ok := p.types[name]; !ok {
		p.names = append(p.names, name)
	}
	p.types[name] = rawType
}

// Has reports whether name is declared.
func (p *ParsedList) Has(name string) bool {
	_, ok := p.types[name]
	return ok
}

// Type returns the raw type declared for name.
func (p *ParsedList) Type(name string) string {
	return p.types[name]
}

// Names returns declared names in declaration order.
func (p *ParsedList) Names() []string {
	return p.names
}

// Len returns the number of declared names.
func (p *ParsedList) Len() int {
	return len(p.names)
}

// docContext is the per-header state shared by the declaration extractors.
// It is created by Extract and never escapes it.
type docContext struct {
	opts        Options
	headerAttrs Attributes
	names       *NameRegistry
	log         *zap.SugaredLogger
	// lang selects the grammar for signature decomposition.
	lang        parser.Language
}

// typeOptions returns the type options for a declaration, binding its
// generic-parameter token.
func (c *docContext) typeOptions(node *markup.Node, array bool) TypeOptions {
	return TypeOptions{
		Array:            array,
		ContainerKeyword: c.opts.ContainerKeyword,
		GenericParameter: node.TextOf(pathGenericParam),
	}
}

// attributes merges header-level attributes with the declaration's own.
// The result is nil when neither carries any.
func (c *docContext) attributes(node *markup.Node) Attributes {
	attrs := c.headerAttrs.merge(readAttributes(node))
	if len(attrs) == 0 {
		return nil
	}
	return attrs
}

// readAttributes reads the attribute list directly under node.
func readAttributes(node *markup.Node) Attributes {
	attrs := Attributes{}
	for _, a := range node.Find(pathAttributes) {
		name := a.TextOf("name")
		if name == "" {
			continue
		}
		attrs[name] = a.TextOf("value")
	}
	return attrs
}

// readParsedList reads the parsed parameter list under node. HeaderDoc can
// leave pointer markers ("*p") and array brackets ("v[3]") on the name;
// both are moved to the type.
func readParsedList(node *markup.Node) *ParsedList {
	p := &ParsedList{}
	for _, pp := range node.Find(pathParsedParams) {
		name := strings.TrimSpace(pp.TextOf("name"))
		rawType := pp.TextOf("type")
		if trimmed := strings.TrimLeft(name, "*& "); len(trimmed) < len(name) {
			rawType += " " + name[:len(name)-len(trimmed)]
			name = trimmed
		}
		if i := strings.IndexByte(name, '['); i > 0 {
			rawType += " " + name[i:]
			name = strings.TrimSpace(name[:i])
		}
		if name == "" {
			continue
		}
		p.Set(name, rawType)
	}
	return p
}

// documented is prose attached to a named parameter, field or constant.
type documented struct {
	name string
	desc string
}

// readDocumented reads name/desc pairs from path under node.
func readDocumented(node *markup.Node, path string) []documented {
	var out []documented
	for _, d := range node.Find(path) {
		name := d.TextOf("name")
		if name == "" {
			continue
		}
		out = append(out, documented{name: name, desc: d.FindOne(pathDescription).CompactText()})
	}
	return out
}

// common holds the fields every declaration kind reads the same way.
type common struct {
	name        string
	signature   string
	brief       string
	description string
	tokens      []*markup.Node
}

func readCommon(node *markup.Node) common {
	decl := node.FindOne(pathDeclaration)
	return common{
		name:        node.TextOf(pathName),
		signature:   decl.CompactText(),
		brief:       node.FindOne(pathBrief).CompactText(),
		description: node.FindOne(pathDescription).CompactText(),
		tokens:      decl.Elements(),
	}
}

// resolveParameters builds the ordered parameter (or field) list. Every
// documented name must exist in the parsed list; parsed entries without
// prose get an empty description.
func (c *docContext) resolveParameters(node *markup.Node, ppl *ParsedList, docs []documented, tokens []*markup.Node, what string) ([]Parameter, error) {
	descs := make(map[string]string, len(docs))
	for _, d := range docs {
		if !ppl.Has(d.name) {
			return nil, crossReferencef("documented %s %q is not declared", what, d.name)
		}
		descs[d.name] = d.desc
	}

	opts := c.typeOptions(node, true)
	var params []Parameter
	for _, name := range ppl.Names() {
		td, err := ParseType(ppl.Type(name), opts)
		if err != nil {
			return nil, err
		}
		sizes, err := ResolveArrayDimensions(tokens, name)
		if err != nil {
			return nil, err
		}
		if len(sizes) > 0 {
			td.IsArray = true
			td.ArraySizes = sizes
		}
		params = append(params, Parameter{Name: name, Type: td, Description: descs[name]})
	}
	return params, nil
}

// resolveReturn reads and decomposes the declaration's return type.
func (c *docContext) resolveReturn(node *markup.Node) (ReturnValue, error) {
	desc := node.FindOne(pathResult).CompactText()
	td, err := ParseReturn(node.TextOf(pathReturnType), desc, c.typeOptions(node, false))
	if err != nil {
		return ReturnValue{}, err
	}
	return ReturnValue{Type: td, Description: desc}, nil
}
