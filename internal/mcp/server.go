// Package mcp provides an MCP (Model Context Protocol) server for doxir.
// This lets AI agents extract and check HeaderDoc output through MCP tools
// instead of CLI commands.
package mcp

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/hargabyte/doxir/internal/cache"
	"github.com/hargabyte/doxir/internal/extract"
	"github.com/hargabyte/doxir/internal/logger"
	"github.com/hargabyte/doxir/internal/markup"
	"github.com/hargabyte/doxir/internal/output"
)

// Server wraps the MCP server with doxir-specific functionality
type Server struct {
	mcpServer    *server.MCPServer
	cache        *cache.Cache
	opts         extract.Options
	format       output.Format
	tools        map[string]bool
	lastActivity time.Time
	timeout      time.Duration
	mu           sync.RWMutex
}

// Config holds server configuration
type Config struct {
	Tools   []string      // Which tools to expose (empty = all)
	Timeout time.Duration // Inactivity timeout (0 = no timeout)
	// Options are the extraction defaults; tool arguments may override the
	// failure policy per call.
	Options extract.Options
	// Cache may be nil.
	Cache *cache.Cache
	// Format renders tool results. Empty means JSON.
	Format output.Format
	// Version is reported to MCP clients.
	Version string
}

// AllTools lists all available tools
var AllTools = []string{"doxir_extract", "doxir_extract_markup", "doxir_check", "doxir_rules"}

// New creates a new MCP server for doxir
func New(cfg Config) (*Server, error) {
	version := cfg.Version
	if version == "" {
		version = "dev"
	}
	format := cfg.Format
	if format == "" {
		format = output.FormatJSON
	}

	s := &Server{
		mcpServer: server.NewMCPServer(
			"doxir",
			version,
			server.WithToolCapabilities(false),
		),
		cache:        cfg.Cache,
		opts:         cfg.Options,
		format:       format,
		tools:        make(map[string]bool),
		lastActivity: time.Now(),
		timeout:      cfg.Timeout,
	}

	toolsToRegister := cfg.Tools
	if len(toolsToRegister) == 0 {
		toolsToRegister = AllTools
	}

	for _, toolName := range toolsToRegister {
		if err := s.registerTool(toolName); err != nil {
			return nil, errors.Wrapf(err, "failed to register tool %s", toolName)
		}
		s.tools[toolName] = true
	}

	return s, nil
}

// registerTool registers a single tool with the MCP server
func (s *Server) registerTool(name string) error {
	schema, ok := toolSchemaRegistry[name]
	if !ok {
		return errors.Newf("unknown tool: %s", name)
	}

	opts := []mcp.ToolOption{mcp.WithDescription(schema.Description)}
	for _, p := range schema.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "boolean":
			opts = append(opts, mcp.WithBoolean(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}

	s.mcpServer.AddTool(mcp.NewTool(name, opts...), s.handler(name))
	return nil
}

// handler adapts CallTool to the mcp-go handler signature.
func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		s.updateActivity()

		result, err := s.CallTool(name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(result), nil
	}
}

// ServeStdio starts the server using stdio transport
func (s *Server) ServeStdio() error {
	if s.timeout > 0 {
		go s.timeoutChecker()
	}

	return server.ServeStdio(s.mcpServer)
}

// timeoutChecker monitors for inactivity and exits if timeout exceeded
func (s *Server) timeoutChecker() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.mu.RLock()
		elapsed := time.Since(s.lastActivity)
		s.mu.RUnlock()

		if elapsed > s.timeout {
			logger.Logger.Infow("serve: exiting after inactivity", "timeout", s.timeout)
			logger.Sync()
			os.Exit(0)
		}
	}
}

// updateActivity updates the last activity timestamp
func (s *Server) updateActivity() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// ListTools returns the list of registered tools
func (s *Server) ListTools() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tools := make([]string, 0, len(s.tools))
	for _, t := range AllTools {
		if s.tools[t] {
			tools = append(tools, t)
		}
	}
	return tools
}

// ToolSchema describes a tool's name, description, and parameters.
type ToolSchema struct {
	Name        string            `json:"name" yaml:"name"`
	Description string            `json:"description" yaml:"description"`
	Parameters  []ParameterSchema `json:"parameters" yaml:"parameters"`
}

// ParameterSchema describes a single tool parameter.
type ParameterSchema struct {
	Name        string `json:"name" yaml:"name"`
	Type        string `json:"type" yaml:"type"`
	Description string `json:"description" yaml:"description"`
	Required    bool   `json:"required" yaml:"required"`
}

// toolSchemaRegistry holds the schema definitions for all tools. The MCP
// tool definitions are generated from it.
var toolSchemaRegistry = map[string]ToolSchema{
	"doxir_extract": {
		Name:        "doxir_extract",
		Description: "Extract the typed IR (functions, typedefs, structs, enums, defines) from a HeaderDoc XML file.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Path to the HeaderDoc XML file", Required: true},
			{Name: "skip", Type: "boolean", Description: "Skip failing declarations instead of aborting"},
		},
	},
	"doxir_extract_markup": {
		Name:        "doxir_extract_markup",
		Description: "Extract the typed IR from inline HeaderDoc XML text.",
		Parameters: []ParameterSchema{
			{Name: "xml", Type: "string", Description: "HeaderDoc XML document for one header", Required: true},
			{Name: "skip", Type: "boolean", Description: "Skip failing declarations instead of aborting"},
		},
	},
	"doxir_check": {
		Name:        "doxir_check",
		Description: "Validate a HeaderDoc XML file against the attribute rules and report every failing declaration.",
		Parameters: []ParameterSchema{
			{Name: "path", Type: "string", Description: "Path to the HeaderDoc XML file", Required: true},
		},
	},
	"doxir_rules": {
		Name:        "doxir_rules",
		Description: "List the numbered attribute consistency rules.",
	},
}

// GetToolSchemas returns schemas for all registered tools.
func (s *Server) GetToolSchemas() []ToolSchema {
	names := s.ListTools()
	schemas := make([]ToolSchema, 0, len(names))
	for _, name := range names {
		schemas = append(schemas, toolSchemaRegistry[name])
	}
	return schemas
}

// CallTool dispatches a tool call by name with the given arguments.
// Returns the rendered result or an error.
func (s *Server) CallTool(name string, args map[string]any) (string, error) {
	s.mu.RLock()
	registered := s.tools[name]
	s.mu.RUnlock()

	if !registered {
		return "", errors.Newf("unknown tool: %s", name)
	}

	switch name {
	case "doxir_extract":
		path, _ := args["path"].(string)
		if path == "" {
			return "", errors.New("path parameter is required")
		}
		skip, _ := args["skip"].(bool)
		return s.executeExtract(path, skip)

	case "doxir_extract_markup":
		xml, _ := args["xml"].(string)
		if strings.TrimSpace(xml) == "" {
			return "", errors.New("xml parameter is required")
		}
		skip, _ := args["skip"].(bool)
		return s.executeExtractMarkup(xml, skip)

	case "doxir_check":
		path, _ := args["path"].(string)
		if path == "" {
			return "", errors.New("path parameter is required")
		}
		return s.executeCheck(path)

	case "doxir_rules":
		return s.render(&output.RulesOutput{Rules: extract.Rules()})

	default:
		return "", errors.Newf("unknown tool: %s", name)
	}
}

func (s *Server) options(skip bool) extract.Options {
	opts := s.opts
	if skip {
		opts.FailurePolicy = extract.FailSkip
	}
	return opts
}

func (s *Server) executeExtract(path string, skip bool) (string, error) {
	doc, _, err := s.cache.ExtractFile(path, s.options(skip))
	if err != nil {
		return "", err
	}
	return s.render(doc)
}

func (s *Server) executeExtractMarkup(xml string, skip bool) (string, error) {
	md, err := markup.ParseString(xml)
	if err != nil {
		return "", err
	}
	doc, err := extract.Extract(md, s.options(skip))
	if err != nil {
		return "", err
	}
	return s.render(doc)
}

// executeCheck always runs with the skip policy so every failing
// declaration is reported, not just the first.
func (s *Server) executeCheck(path string) (string, error) {
	result := output.CheckResult{File: path}
	doc, _, err := s.cache.ExtractFile(path, s.options(true))
	switch {
	case err != nil:
		result.Status = output.StatusFailed
		result.Message = err.Error()
		if e, ok := extract.AsError(err); ok {
			result.Problems = []*extract.Error{e}
		}
	case len(doc.Skipped) > 0:
		result.Header = doc.Name
		result.Status = output.StatusSkipped
		result.Declarations = len(doc.Declarations())
		result.Problems = doc.Skipped
	default:
		result.Header = doc.Name
		result.Status = output.StatusOK
		result.Declarations = len(doc.Declarations())
	}
	return s.render(output.NewCheckOutput([]output.CheckResult{result}))
}

func (s *Server) render(v any) (string, error) {
	f, err := output.GetFormatter(s.format)
	if err != nil {
		return "", err
	}
	return f.Format(v)
}
