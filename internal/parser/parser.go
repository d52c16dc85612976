// Package parser provides tree-sitter based parsing of C and C++
// declaration text.
//
// HeaderDoc hands declarations over as flat signature strings. The
// extractors use this package when a signature has to be decomposed
// structurally rather than by pattern, for example to split a typedef
// into the aliased type and the new name.
package parser

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// Language represents a supported declaration language.
type Language string

const (
	// C represents the C programming language.
	C Language = "c"
	// Cpp represents the C++ programming language.
	Cpp Language = "cpp"
)

// LanguageFromName maps a HeaderDoc "lang" attribute to a Language.
// Unknown or empty names fall back to C.
func LanguageFromName(name string) Language {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "cpp", "c++", "cxx", "occ", "objcpp":
		return Cpp
	default:
		return C
	}
}

// Parser wraps tree-sitter for declaration parsing.
// A Parser is not safe for concurrent use.
type Parser struct {
	parser *sitter.Parser
	lang   Language
}

// ParseResult contains the parsed AST and metadata.
type ParseResult struct {
	// Tree is the complete tree-sitter parse tree.
	Tree *sitter.Tree
	// Root is the root node of the AST.
	Root *sitter.Node
	// Source is the text that was parsed.
	Source []byte
	// Language is the language of the source.
	Language Language
}

// NewParser creates a parser for the given language.
// Returns an UnsupportedLanguageError if the language is not supported.
func NewParser(lang Language) (*Parser, error) {
	var p *sitter.Parser

	switch lang {
	case C:
		p = newCParser()
	case Cpp:
		p = newCppParser()
	default:
		return nil, &UnsupportedLanguageError{Language: string(lang)}
	}

	return &Parser{
		parser: p,
		lang:   lang,
	}, nil
}

// Parse parses source text and returns the AST.
func (p *Parser) Parse(source []byte) (*ParseResult, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, source)
	if err != nil {
		return nil, &ParseError{Message: err.Error(), Source: string(source)}
	}

	return &ParseResult{
		Tree:     tree,
		Root:     tree.RootNode(),
		Source:   source,
		Language: p.lang,
	}, nil
}

// Language returns the language this parser is configured for.
func (p *Parser) Language() Language {
	return p.lang
}

// Close releases parser resources.
// After calling Close, the parser should not be used.
func (p *Parser) Close() {
	if p.parser != nil {
		p.parser.Close()
		p.parser = nil
	}
}

// Close releases the parse tree resources.
func (r *ParseResult) Close() {
	if r.Tree != nil {
		r.Tree.Close()
		r.Tree = nil
		r.Root = nil
	}
}

// HasErrors returns true if the parse tree contains syntax errors.
func (r *ParseResult) HasErrors() bool {
	if r.Root == nil {
		return false
	}
	return r.Root.HasError()
}

// WalkNodes traverses the AST depth-first, calling the visitor function
// for each node. If the visitor returns false, traversal stops.
func (r *ParseResult) WalkNodes(visitor func(*sitter.Node) bool) {
	if r.Root == nil {
		return
	}
	walkNode(r.Root, visitor)
}

func walkNode(node *sitter.Node, visitor func(*sitter.Node) bool) bool {
	if !visitor(node) {
		return false
	}
	for i := uint32(0); i < node.ChildCount(); i++ {
		if !walkNode(node.Child(int(i)), visitor) {
			return false
		}
	}
	return true
}

// FindNodesByType returns all nodes of the specified type in document order.
func (r *ParseResult) FindNodesByType(nodeType string) []*sitter.Node {
	var nodes []*sitter.Node
	r.WalkNodes(func(node *sitter.Node) bool {
		if node.Type() == nodeType {
			nodes = append(nodes, node)
		}
		return true
	})
	return nodes
}

// NodeText returns the source text for a node.
func (r *ParseResult) NodeText(node *sitter.Node) string {
	if node == nil || r.Source == nil {
		return ""
	}
	return node.Content(r.Source)
}
