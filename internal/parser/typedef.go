package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Typedef is the structural split of a simple (non function-pointer)
// typedef such as "typedef struct foo_s *foo_t".
type Typedef struct {
	// AliasedType is the elaborating keyword ("struct", "enum", "union",
	// "class") or the size modifiers ("unsigned"). Empty for plain names.
	AliasedType string
	// AliasedIdentifier is the name of the aliased type.
	AliasedIdentifier string
	// IsPointer is set when the new name aliases a pointer.
	IsPointer bool
	// NewIdentifier is the name the typedef introduces.
	NewIdentifier string
}

// ParseTypedef decomposes a typedef signature. A missing trailing
// semicolon is tolerated because HeaderDoc does not always keep it.
func ParseTypedef(lang Language, signature string) (*Typedef, error) {
	src := strings.TrimSpace(signature)
	if src == "" {
		return nil, &ParseError{Message: "empty typedef signature"}
	}
	if !strings.HasSuffix(src, ";") {
		src += ";"
	}

	p, err := NewParser(lang)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	res, err := p.Parse([]byte(src))
	if err != nil {
		return nil, err
	}
	defer res.Close()

	if res.HasErrors() {
		return nil, &ParseError{Message: "malformed typedef", Source: signature}
	}

	defs := res.FindNodesByType("type_definition")
	if len(defs) == 0 {
		return nil, &ParseError{Message: "no typedef in signature", Source: signature}
	}
	def := defs[0]

	typeNode := def.ChildByFieldName("type")
	if typeNode == nil {
		return nil, &ParseError{Message: "typedef has no aliased type", Source: signature}
	}

	td := &Typedef{}
	td.AliasedType, td.AliasedIdentifier = splitTypeSpecifier(res, typeNode)

	for d := def.ChildByFieldName("declarator"); d != nil; {
		switch d.Type() {
		case "pointer_declarator":
			td.IsPointer = true
			d = d.ChildByFieldName("declarator")
		case "type_identifier", "primitive_type", "identifier":
			td.NewIdentifier = res.NodeText(d)
			d = nil
		default:
			next := d.ChildByFieldName("declarator")
			if next == nil && d.NamedChildCount() > 0 {
				next = d.NamedChild(0)
			}
			d = next
		}
	}

	if td.NewIdentifier == "" {
		return nil, &ParseError{Message: "typedef introduces no name", Source: signature}
	}
	return td, nil
}

// splitTypeSpecifier returns the elaborating keyword or size modifiers and
// the aliased name for a typedef's type node.
func splitTypeSpecifier(res *ParseResult, n *sitter.Node) (string, string) {
	switch n.Type() {
	case "struct_specifier", "union_specifier", "enum_specifier", "class_specifier":
		keyword := strings.TrimSuffix(n.Type(), "_specifier")
		return keyword, res.NodeText(n.ChildByFieldName("name"))

	case "sized_type_specifier":
		var mods []string
		ident := ""
		for i := 0; i < int(n.ChildCount()); i++ {
			child := n.Child(i)
			if child.IsNamed() {
				ident = res.NodeText(child)
			} else {
				mods = append(mods, res.NodeText(child))
			}
		}
		if ident == "" && len(mods) > 0 {
			ident = mods[len(mods)-1]
			mods = mods[:len(mods)-1]
		}
		return strings.Join(mods, " "), ident

	default:
		return "", res.NodeText(n)
	}
}
