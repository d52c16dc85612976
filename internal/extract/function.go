package extract

import (
	"strings"

	"github.com/hargabyte/doxir/internal/markup"
)

// extractFunction builds a FunctionDecl from a HeaderDoc <function>.
func (c *docContext) extractFunction(node *markup.Node) (FunctionDecl, error) {
	cm := readCommon(node)
	fn, err := c.buildFunction(node, cm)
	if err != nil {
		return FunctionDecl{}, annotate(err, cm.name, cm.signature)
	}
	c.log.Debugw("extracted function", "name", fn.SanitizedName, "params", len(fn.Parameters))
	return fn, nil
}

func (c *docContext) buildFunction(node *markup.Node, cm common) (FunctionDecl, error) {
	ret, err := c.resolveReturn(node)
	if err != nil {
		return FunctionDecl{}, err
	}

	attrs := c.attributes(node)
	ppl := readParsedList(node)
	if err := Validate(RuleInput{Attributes: attrs, Parameters: ppl, Return: &ret.Type}); err != nil {
		return FunctionDecl{}, err
	}

	params, err := c.resolveParameters(node, ppl, readDocumented(node, pathDocParams), cm.tokens, "parameter")
	if err != nil {
		return FunctionDecl{}, err
	}

	sanitized := SanitizeName(cm.name, c.opts.DisambiguationMarker)
	method := attrs[AttrMethod]
	unique, err := c.names.Register(sanitized, method, attrs[AttrSuffix])
	if err != nil {
		return FunctionDecl{}, err
	}

	return FunctionDecl{
		Signature:        cm.signature,
		Name:             cm.name,
		SanitizedName:    sanitized,
		MethodName:       method,
		UniqueGlobalName: unique.Global,
		UniqueMethodName: unique.Method,
		Brief:            cm.brief,
		Description:      cm.description,
		Return:           ret,
		Parameters:       params,
		Attributes:       attrs,
	}, nil
}

// SanitizeName cuts a documented name at the first disambiguation marker,
// so "draw(int, float)" becomes "draw".
func SanitizeName(name, marker string) string {
	if marker == "" {
		marker = DefaultDisambiguationMarker
	}
	if i := strings.Index(name, marker); i >= 0 {
		name = name[:i]
	}
	return strings.TrimSpace(name)
}
