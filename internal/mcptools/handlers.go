package mcptools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/agentic-research/solradmin/api"
	"github.com/agentic-research/solradmin/internal/query"
	"github.com/agentic-research/solradmin/solr"
)

func (t *Tools) coreStatus(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name := req.GetString("core", "")
	if name == "" {
		return jsonResult(t.cluster.CoreStatus())
	}
	st, ok := t.cluster.Status(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("core %q does not exist", name)), nil
	}
	return jsonResult(map[string]any{
		"name":        st.Name,
		"instanceDir": st.InstanceDir,
		"config":      st.Config,
		"schema":      st.Schema,
	})
}

func (t *Tools) schemaSearch(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	expr, err := req.RequireString("expr")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	matches := query.All(c.Schema().Document(), expr)
	if matches == nil {
		matches = []any{}
	}
	return jsonResult(matches)
}

func (t *Tools) getElement(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	elementType := req.GetString("type", "")
	name := req.GetString("name", "")
	el := c.Schema().GetElement(elementType, api.ByName(name))
	if el == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no %s named %q", elementType, name)), nil
	}
	return jsonResult(map[string]any(el))
}

func (t *Tools) upsertElement(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	elementType := req.GetString("type", "")
	body, _ := req.GetArguments()["element"].(map[string]any)

	el, outcome := c.Schema().ModifyElement(elementType, api.Element(body))
	if outcome != solr.Applied {
		return mcp.NewToolResultError(fmt.Sprintf("upsert %s: %s", elementType, outcome)), nil
	}
	return jsonResult(map[string]any{
		"outcome": outcome.String(),
		"element": map[string]any(el),
	})
}

func (t *Tools) listResources(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	list := make([]any, 0)
	for _, r := range c.Resources().Resources() {
		list = append(list, map[string]any(r))
	}
	return jsonResult(list)
}

func (t *Tools) getSynonyms(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	// reading must not provision the resource
	if !c.Resources().ResourceExists("synonyms", name) {
		return mcp.NewToolResultError(fmt.Sprintf("no synonym resource %q", name)), nil
	}
	sm := c.Synonyms(name)
	managed := make(map[string]any)
	for k, words := range sm.Map() {
		managed[k] = toAny(words)
	}
	return jsonResult(map[string]any{
		"initArgs":   sm.InitArgs(),
		"managedMap": managed,
	})
}

func (t *Tools) appendSynonyms(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	name, err := req.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	m := make(map[string][]string)
	raw, _ := req.GetArguments()["synonyms"].(map[string]any)
	for k, v := range raw {
		words, ok := v.([]any)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("synonyms for %q must be a list of strings", k)), nil
		}
		for _, w := range words {
			s, ok := w.(string)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("synonyms for %q must be a list of strings", k)), nil
			}
			m[k] = append(m[k], s)
		}
	}
	for k, words := range solr.NormalizeGroup(req.GetStringSlice("group", nil)) {
		m[k] = append(m[k], words...)
	}
	if len(m) == 0 {
		return mcp.NewToolResultError("nothing to append: give synonyms or group"), nil
	}

	outcome := c.Synonyms(name).AppendSynonyms(m)
	if outcome != solr.Applied && outcome != solr.Unchanged {
		return mcp.NewToolResultError(fmt.Sprintf("append synonyms %s: %s", name, outcome)), nil
	}
	return jsonResult(map[string]any{"outcome": outcome.String()})
}

func (t *Tools) readFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	c, fail := t.existingCore(req)
	if fail != nil {
		return fail, nil
	}
	p, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content := c.Files().FileContent(p)
	if content == nil {
		return mcp.NewToolResultError(fmt.Sprintf("no file %q", solr.CleanPath(p))), nil
	}
	return mcp.NewToolResultText(string(content)), nil
}

func toAny(words []string) []any {
	out := make([]any, len(words))
	for i, w := range words {
		out[i] = w
	}
	return out
}
