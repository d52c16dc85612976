package extract

import (
	"strconv"
	"strings"

	"github.com/hargabyte/doxir/internal/markup"
)

// MaxArrayDimensions is the deepest array nesting the IR can describe.
const MaxArrayDimensions = 2

// declaringTags are the declaration token classes that introduce a symbol.
var declaringTags = map[string]bool{
	tagDeclParam:  true,
	tagDeclVar:    true,
	tagDeclMember: true,
}

// ResolveArrayDimensions recovers the array sizes of symbol from a
// declaration's token sequence. HeaderDoc renders "v[3][4]" as a declaring
// token followed by one bracketed number token per dimension, so the sizes
// are the run of integer siblings after the symbol that each follow a "[". An empty result means the symbol is
// not an array.
func ResolveArrayDimensions(nodes []*markup.Node, symbol string) ([]int, error) {
	start := -1
	for i, n := range nodes {
		if declaringTags[n.Tag()] && n.Text() == symbol {
			start = i
			break
		}
	}
	if start < 0 {
		return nil, nil
	}

	var sizes []int
	for _, n := range nodes[start+1:] {
		// "x = 3" is a default argument, not a dimension.
		if !strings.HasSuffix(n.PrecedingText(), "[") {
			break
		}
		v, err := strconv.Atoi(n.Text())
		if err != nil {
			break
		}
		sizes = append(sizes, v)
	}

	if len(sizes) > MaxArrayDimensions {
		return nil, structuralf("array %q has %d dimensions, at most %d are supported",
			symbol, len(sizes), MaxArrayDimensions)
	}
	return sizes, nil
}
