// Package markup wraps the XML tree emitted by HeaderDoc behind the small
// query surface the extractors need: find nodes by path, read text, read
// attributes and walk element children in document order.
package markup

import (
	"io"
	"os"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/cockroachdb/errors"
)

// ErrEmptyDocument is returned when the input holds no root element.
var ErrEmptyDocument = errors.New("markup document has no root element")

// Document is one parsed HeaderDoc XML file.
type Document struct {
	// Root is the top-level element (normally <header>).
	Root *Node
	// Path is the source file path (empty for in-memory parsing).
	Path string
}

// Node is a single element of the markup tree.
// All methods are safe to call on a nil *Node.
type Node struct {
	n *xmlquery.Node
}

// Parse reads a markup document from r.
func Parse(r io.Reader) (*Document, error) {
	top, err := xmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(err, "parsing markup")
	}

	for c := top.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			return &Document{Root: &Node{n: c}}, nil
		}
	}
	return nil, ErrEmptyDocument
}

// ParseString parses a markup document held in memory.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ParseFile parses a markup document from disk.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	doc, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	doc.Path = path
	return doc, nil
}

// Find returns all nodes matching the XPath expression, relative to n.
// Expressions are compile-time constants in this module, so an invalid
// expression is a programming error and yields no nodes.
func (n *Node) Find(path string) []*Node {
	if n == nil || n.n == nil {
		return nil
	}
	found, err := xmlquery.QueryAll(n.n, path)
	if err != nil {
		return nil
	}
	nodes := make([]*Node, 0, len(found))
	for _, f := range found {
		nodes = append(nodes, &Node{n: f})
	}
	return nodes
}

// FindOne returns the first node matching path, or nil.
func (n *Node) FindOne(path string) *Node {
	if n == nil || n.n == nil {
		return nil
	}
	found, err := xmlquery.Query(n.n, path)
	if err != nil || found == nil {
		return nil
	}
	return &Node{n: found}
}

// Text returns the node's concatenated text content with surrounding
// whitespace trimmed.
func (n *Node) Text() string {
	if n == nil || n.n == nil {
		return ""
	}
	return strings.TrimSpace(n.n.InnerText())
}

// TextOf returns the trimmed text of the first node matching path, or "".
func (n *Node) TextOf(path string) string {
	return n.FindOne(path).Text()
}

// CompactText returns the text content with every whitespace run collapsed
// to a single space. Used for declaration signatures, which HeaderDoc
// spreads over several lines.
func (n *Node) CompactText() string {
	return strings.Join(strings.Fields(n.Text()), " ")
}

// Attr returns the value of the named attribute, or "".
func (n *Node) Attr(name string) string {
	if n == nil || n.n == nil {
		return ""
	}
	return n.n.SelectAttr(name)
}

// Tag returns the element name.
func (n *Node) Tag() string {
	if n == nil || n.n == nil {
		return ""
	}
	return n.n.Data
}

// Elements returns the element children of n in document order, skipping
// text, comment and processing-instruction nodes.
func (n *Node) Elements() []*Node {
	if n == nil || n.n == nil {
		return nil
	}
	var children []*Node
	for c := n.n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.ElementNode {
			children = append(children, &Node{n: c})
		}
	}
	return children
}

// PrecedingText returns the trimmed character data between n and its
// previous element sibling, such as the "[" before an array size token.
func (n *Node) PrecedingText() string {
	if n == nil || n.n == nil {
		return ""
	}
	text := ""
	for s := n.n.PrevSibling; s != nil && s.Type != xmlquery.ElementNode; s = s.PrevSibling {
		if s.Type == xmlquery.TextNode || s.Type == xmlquery.CharDataNode {
			text = s.Data + text
		}
	}
	return strings.TrimSpace(text)
}

// Exists reports whether n refers to a real node.
func (n *Node) Exists() bool {
	return n != nil && n.n != nil
}
