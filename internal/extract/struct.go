package extract

import "github.com/hargabyte/doxir/internal/markup"

// extractStruct builds a StructDecl. Fields resolve like parameters against
// the struct's parsed member list.
func (c *docContext) extractStruct(node *markup.Node) (StructDecl, error) {
	cm := readCommon(node)
	attrs := c.attributes(node)
	ppl := readParsedList(node)

	if err := Validate(RuleInput{Attributes: attrs, Parameters: ppl}); err != nil {
		return StructDecl{}, annotate(err, cm.name, cm.signature)
	}

	fields, err := c.resolveParameters(node, ppl, readDocumented(node, pathDocFields), cm.tokens, "field")
	if err != nil {
		return StructDecl{}, annotate(err, cm.name, cm.signature)
	}

	return StructDecl{
		Signature:   cm.signature,
		Name:        cm.name,
		Brief:       cm.brief,
		Description: cm.description,
		Fields:      fields,
		Attributes:  attrs,
	}, nil
}
