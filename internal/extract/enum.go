package extract

import (
	"strconv"

	"github.com/hargabyte/doxir/internal/markup"
)

// extractEnum builds an EnumDecl. Documented constants come first in
// documentation order, followed by declared but undocumented ones.
func (c *docContext) extractEnum(node *markup.Node) (EnumDecl, error) {
	cm := readCommon(node)
	attrs := c.attributes(node)
	ppl := readParsedList(node)

	if err := Validate(RuleInput{Attributes: attrs, Parameters: ppl}); err != nil {
		return EnumDecl{}, annotate(err, cm.name, cm.signature)
	}

	docs := readDocumented(node, pathDocConstants)
	seen := make(map[string]bool, len(docs))
	var constants []EnumConstant
	for _, d := range docs {
		if !ppl.Has(d.name) {
			return EnumDecl{}, annotate(structuralf("documented constant %q is not declared", d.name), cm.name, cm.signature)
		}
		if seen[d.name] {
			continue
		}
		seen[d.name] = true
		constants = append(constants, EnumConstant{Name: d.name, Description: d.desc})
	}
	for _, name := range ppl.Names() {
		if !seen[name] {
			constants = append(constants, EnumConstant{Name: name})
		}
	}

	values := enumValues(cm.tokens)
	for i := range constants {
		if v, ok := values[constants[i].Name]; ok {
			constants[i].Value = &v
		}
	}

	return EnumDecl{
		Signature:   cm.signature,
		Name:        cm.name,
		Brief:       cm.brief,
		Description: cm.description,
		Constants:   constants,
		Attributes:  attrs,
	}, nil
}

// enumValues scans declaration tokens pairwise for a constant name
// directly followed by a number, which is how "RED = 1" is rendered.
func enumValues(tokens []*markup.Node) map[string]int64 {
	values := make(map[string]int64)
	for i := 0; i+1 < len(tokens); i++ {
		if tokens[i].Tag() != tagDeclVar || tokens[i+1].Tag() != tagDeclNumber {
			continue
		}
		v, err := strconv.ParseInt(tokens[i+1].Text(), 0, 64)
		if err != nil {
			continue
		}
		values[tokens[i].Text()] = v
	}
	return values
}
