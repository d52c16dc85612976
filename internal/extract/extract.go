package extract

import (
	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/markup"
	"github.com/hargabyte/doxir/internal/parser"
)

// FailurePolicy decides what a declaration failure does to its header.
type FailurePolicy string

const (
	// FailAbort stops at the first failed declaration and returns no IR.
	FailAbort FailurePolicy = "abort"
	// FailSkip drops the failed declaration, records it in
	// HeaderDocument.Skipped and carries on.
	FailSkip FailurePolicy = "skip"
)

// DefaultDisambiguationMarker starts the overload suffix in documented
// function names, as in "draw(int)".
const DefaultDisambiguationMarker = "("

// ErrNoRoot is returned for a document without a root element.
var ErrNoRoot = errors.New("markup document has no header element")

// Options configures Extract. The zero value is usable.
type Options struct {
	ContainerKeyword     string
	DisambiguationMarker string
	FailurePolicy        FailurePolicy
	// Logger defaults to the global logger.
	Logger *zap.SugaredLogger
}

// DefaultOptions returns the options used when nothing is configured.
func DefaultOptions() Options {
	return Options{
		ContainerKeyword:     DefaultContainerKeyword,
		DisambiguationMarker: DefaultDisambiguationMarker,
		FailurePolicy:        FailAbort,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.ContainerKeyword == "" {
		o.ContainerKeyword = d.ContainerKeyword
	}
	if o.DisambiguationMarker == "" {
		o.DisambiguationMarker = d.DisambiguationMarker
	}
	if o.FailurePolicy == "" {
		o.FailurePolicy = d.FailurePolicy
	}
	if o.Logger == nil {
		o.Logger = logger.Logger
	}
	return o
}

// Extract builds the IR for one header document. Each call owns a fresh
// name registry, so documents can be extracted concurrently.
func Extract(doc *markup.Document, opts Options) (*HeaderDocument, error) {
	if doc == nil || !doc.Root.Exists() {
		return nil, ErrNoRoot
	}
	opts = opts.withDefaults()
	root := doc.Root

	out := &HeaderDocument{
		Name:        root.TextOf(pathName),
		Brief:       root.FindOne(pathBrief).CompactText(),
		Description: root.FindOne(pathDescription).CompactText(),
		Attributes:  readAttributes(root),
	}
	if out.Name == "" {
		out.Name = root.Attr("filename")
	}
	if len(out.Attributes) == 0 {
		out.Attributes = nil
	}

	c := &docContext{
		opts:        opts,
		headerAttrs: readAttributes(root),
		names:       NewNameRegistry(),
		log:         opts.Logger.With("header", out.Name),
		lang:        parser.LanguageFromName(root.Attr("lang")),
	}

	var err error
	if out.Functions, err = collect(c, out, root.Find(pathFunctions), FunctionKind, c.extractFunction); err != nil {
		return nil, errors.Wrapf(err, "extracting %s", out.Name)
	}
	if out.Typedefs, err = collect(c, out, root.Find(pathTypedefs), TypedefKind, c.extractTypedef); err != nil {
		return nil, errors.Wrapf(err, "extracting %s", out.Name)
	}
	if out.Structs, err = collect(c, out, root.Find(pathStructs), StructKind, c.extractStruct); err != nil {
		return nil, errors.Wrapf(err, "extracting %s", out.Name)
	}
	if out.Enums, err = collect(c, out, root.Find(pathEnums), EnumKind, c.extractEnum); err != nil {
		return nil, errors.Wrapf(err, "extracting %s", out.Name)
	}
	if out.Defines, err = collect(c, out, root.Find(pathDefines), DefineKind, c.extractDefine); err != nil {
		return nil, errors.Wrapf(err, "extracting %s", out.Name)
	}

	c.log.Debugw("extracted header",
		"functions", len(out.Functions),
		"typedefs", len(out.Typedefs),
		"structs", len(out.Structs),
		"enums", len(out.Enums),
		"defines", len(out.Defines),
		"skipped", len(out.Skipped))
	return out, nil
}

// ExtractFile parses and extracts a HeaderDoc XML file.
func ExtractFile(path string, opts Options) (*HeaderDocument, error) {
	doc, err := markup.ParseFile(path)
	if err != nil {
		return nil, err
	}
	return Extract(doc, opts)
}

// collect runs one declaration extractor over its nodes, applying the
// failure policy.
func collect[T any](c *docContext, out *HeaderDocument, nodes []*markup.Node, kind Kind, extract func(*markup.Node) (T, error)) ([]T, error) {
	var decls []T
	for _, n := range nodes {
		d, err := extract(n)
		if err != nil {
			if c.opts.FailurePolicy != FailSkip {
				return nil, err
			}
			e, _ := AsError(err)
			c.log.Warnw("skipping declaration", "kind", kind, "error", err)
			out.Skipped = append(out.Skipped, e)
			continue
		}
		decls = append(decls, d)
	}
	return decls, nil
}
