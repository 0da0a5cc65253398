// Package mcptools exposes core administration as MCP tools, so agents can
// inspect schemas and upsert elements and synonyms.
package mcptools

import (
	"context"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/ohler55/ojg/oj"

	"github.com/agentic-research/solradmin/solr"
)

// Version is reported in the MCP server handshake.
const Version = "0.1.0"

// Tools holds one handle per core so caches survive between calls. Every
// handler runs under mu; the handles themselves are not synchronized.
type Tools struct {
	mu      sync.Mutex
	cluster *solr.Cluster
	cores   map[string]*solr.Core
}

// NewTools returns the tool handlers for cluster.
func NewTools(cluster *solr.Cluster) *Tools {
	return &Tools{cluster: cluster, cores: make(map[string]*solr.Core)}
}

// NewServer returns an MCP server with every tool registered.
func NewServer(cluster *solr.Cluster) *server.MCPServer {
	s := server.NewMCPServer("solradmin", Version, server.WithToolCapabilities(false))
	NewTools(cluster).Register(s)
	return s
}

// Register adds the tools to s.
func (t *Tools) Register(s *server.MCPServer) {
	coreArg := mcp.WithString("core", mcp.Required(), mcp.Description("Core name"))
	typeArg := mcp.WithString("type", mcp.Required(),
		mcp.Enum(solr.ElementTypes()...),
		mcp.Description("Schema element type"))

	s.AddTool(mcp.NewTool("core_status",
		mcp.WithDescription("Status of one core, or of every core when no core is given."),
		mcp.WithString("core", mcp.Description("Core name")),
	), t.locked(t.coreStatus))

	s.AddTool(mcp.NewTool("schema_search",
		mcp.WithDescription("Evaluate a JSONPath expression over a core's schema document and return every match."),
		coreArg,
		mcp.WithString("expr", mcp.Required(), mcp.Description("JSONPath expression, e.g. $.fields[*].name")),
	), t.locked(t.schemaSearch))

	s.AddTool(mcp.NewTool("get_element",
		mcp.WithDescription("Get one schema element by type and name."),
		coreArg, typeArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("Element name")),
	), t.locked(t.getElement))

	s.AddTool(mcp.NewTool("upsert_element",
		mcp.WithDescription("Add a schema element, or replace the element of the same name."),
		coreArg, typeArg,
		mcp.WithObject("element", mcp.Required(), mcp.Description("Element definition including its name")),
	), t.locked(t.upsertElement))

	s.AddTool(mcp.NewTool("list_resources",
		mcp.WithDescription("List a core's managed resources."),
		coreArg,
	), t.locked(t.listResources))

	s.AddTool(mcp.NewTool("get_synonyms",
		mcp.WithDescription("Get a managed synonym map and its init arguments."),
		coreArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("Synonym resource name")),
	), t.locked(t.getSynonyms))

	s.AddTool(mcp.NewTool("append_synonyms",
		mcp.WithDescription("Merge synonyms into a managed synonym map, creating it if needed. Existing entries are never removed."),
		coreArg,
		mcp.WithString("name", mcp.Required(), mcp.Description("Synonym resource name")),
		mcp.WithObject("synonyms", mcp.Description("Mapping from a term to its synonyms")),
		mcp.WithArray("group", mcp.WithStringItems(), mcp.Description("Mutually equivalent terms")),
	), t.locked(t.appendSynonyms))

	s.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read a file from a core's config directory."),
		coreArg,
		mcp.WithString("path", mcp.Required(), mcp.Description("File path relative to the config root")),
	), t.locked(t.readFile))
}

func (t *Tools) locked(h server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		t.mu.Lock()
		defer t.mu.Unlock()
		return h(ctx, req)
	}
}

// core returns the cached handle for name. Callers hold t.mu.
func (t *Tools) core(name string) *solr.Core {
	c, ok := t.cores[name]
	if !ok {
		c = t.cluster.Core(name)
		t.cores[name] = c
	}
	return c
}

// existingCore resolves the "core" argument to a core the server lists.
func (t *Tools) existingCore(req mcp.CallToolRequest) (*solr.Core, *mcp.CallToolResult) {
	name, err := req.RequireString("core")
	if err != nil {
		return nil, mcp.NewToolResultError(err.Error())
	}
	c := t.core(name)
	if !c.Exists() {
		return nil, mcp.NewToolResultError(fmt.Sprintf("core %q does not exist", name))
	}
	return c, nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(oj.JSON(v, 2)), nil
}
