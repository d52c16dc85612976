package extract

import (
	"strings"

	"github.com/hargabyte/doxir/internal/markup"
	"github.com/hargabyte/doxir/internal/parser"
)

// extractTypedef builds a TypedefDecl, branching on function-pointer versus
// simple alias.
func (c *docContext) extractTypedef(node *markup.Node) (TypedefDecl, error) {
	cm := readCommon(node)
	td := TypedefDecl{
		Signature:   cm.signature,
		Name:        cm.name,
		Brief:       cm.brief,
		Description: cm.description,
		Attributes:  c.attributes(node),
	}

	var err error
	if isFunctionPointerTypedef(node, cm.signature) {
		td.FunctionPointer, err = c.buildFunctionPointer(node, cm, td.Attributes)
	} else {
		td.Alias, err = c.buildAlias(cm, td.Attributes)
	}
	if err != nil {
		return TypedefDecl{}, annotate(err, cm.name, cm.signature)
	}
	return td, nil
}

func isFunctionPointerTypedef(node *markup.Node, signature string) bool {
	if node.Attr(pathTypedefKindAttr) == typedefFuncPtr {
		return true
	}
	return strings.Contains(strings.ReplaceAll(signature, " ", ""), "(*")
}

func (c *docContext) buildFunctionPointer(node *markup.Node, cm common, attrs Attributes) (*FunctionPointer, error) {
	ret, err := c.resolveReturn(node)
	if err != nil {
		return nil, err
	}

	ppl := readParsedList(node)
	if err := Validate(RuleInput{Attributes: attrs, Parameters: ppl, Return: &ret.Type}); err != nil {
		return nil, err
	}

	params, err := c.resolveParameters(node, ppl, readDocumented(node, pathDocParams), cm.tokens, "parameter")
	if err != nil {
		return nil, err
	}
	return &FunctionPointer{Return: ret, Parameters: params}, nil
}

func (c *docContext) buildAlias(cm common, attrs Attributes) (*Alias, error) {
	if cm.signature == "" {
		return nil, structuralf("typedef has no declaration")
	}

	split, err := parser.ParseTypedef(c.lang, cm.signature)
	if err != nil {
		return nil, structuralf("cannot decompose typedef: %v", err)
	}

	alias := &Alias{
		AliasedType:       split.AliasedType,
		AliasedIdentifier: split.AliasedIdentifier,
		IsPointer:         split.IsPointer,
		NewIdentifier:     split.NewIdentifier,
	}
	if err := Validate(RuleInput{Attributes: attrs, PointerAlias: alias.IsPointer}); err != nil {
		return nil, err
	}
	return alias, nil
}
