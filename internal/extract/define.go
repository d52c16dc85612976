package extract

import "github.com/hargabyte/doxir/internal/markup"

// extractDefine builds a DefineDecl. The definition text is not parsed.
func (c *docContext) extractDefine(node *markup.Node) (DefineDecl, error) {
	cm := readCommon(node)
	if cm.name == "" {
		return DefineDecl{}, annotate(structuralf("define has no name"), "", cm.signature)
	}
	return DefineDecl{
		Name:        cm.name,
		Brief:       cm.brief,
		Description: cm.description,
		Definition:  cm.signature,
	}, nil
}
