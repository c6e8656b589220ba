package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// ToolsProvider defines the interface for providing tools functionality
type ToolsProvider interface {
	// ListTools returns a list of available tools
	ListTools(ctx context.Context, category string, pagination *protocol.PaginationParams) ([]protocol.Tool, int, string, bool, error)

	// CallTool executes a tool and returns the result
	CallTool(ctx context.Context, name string, input json.RawMessage, contextData json.RawMessage) (*protocol.CallToolResult, error)
}

// ResourcesProvider defines the interface for providing resources functionality
type ResourcesProvider interface {
	// ListResources returns a list of available resources
	ListResources(ctx context.Context, uri string, recursive bool, pagination *protocol.PaginationParams) ([]protocol.Resource, []protocol.ResourceTemplate, int, string, bool, error)

	// ReadResource reads a resource and returns its contents
	ReadResource(ctx context.Context, uri string, templateParams map[string]interface{}, rangeOpt *protocol.ResourceRange) (*protocol.ResourceContents, error)
}

// BaseToolsProvider provides a registry-backed implementation of
// ToolsProvider. CallTool dispatches to handlers registered per tool name.
type BaseToolsProvider struct {
	mu       sync.RWMutex
	tools    map[string]protocol.Tool
	handlers map[string]ToolHandler
}

// ToolHandler executes a single tool call.
type ToolHandler func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error)

// NewBaseToolsProvider creates a new BaseToolsProvider
func NewBaseToolsProvider() *BaseToolsProvider {
	return &BaseToolsProvider{
		tools:    make(map[string]protocol.Tool),
		handlers: make(map[string]ToolHandler),
	}
}

// RegisterTool registers a tool definition without a handler.
func (p *BaseToolsProvider) RegisterTool(tool protocol.Tool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tools[tool.Name] = tool
}

// RegisterToolWithHandler registers a tool and the handler that executes it.
func (p *BaseToolsProvider) RegisterToolWithHandler(tool protocol.Tool, handler ToolHandler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tools[tool.Name] = tool
	p.handlers[tool.Name] = handler
}

// ListTools returns registered tools, sorted by name for stable pagination.
func (p *BaseToolsProvider) ListTools(ctx context.Context, category string, pagination *protocol.PaginationParams) ([]protocol.Tool, int, string, bool, error) {
	p.mu.RLock()
	var tools []protocol.Tool
	for _, tool := range p.tools {
		if category != "" && !hasCategory(tool, category) {
			continue
		}
		tools = append(tools, tool)
	}
	p.mu.RUnlock()

	sort.Slice(tools, func(i, j int) bool { return tools[i].Name < tools[j].Name })

	start, limit := decodeCursor(pagination)
	total := len(tools)

	if start >= total {
		return []protocol.Tool{}, total, "", false, nil
	}

	end := start + limit
	if end > total {
		end = total
	}

	hasMore := end < total
	nextCursor := ""
	if hasMore {
		nextCursor = strconv.Itoa(end)
	}

	return tools[start:end], total, nextCursor, hasMore, nil
}

// CallTool executes a tool via its registered handler.
func (p *BaseToolsProvider) CallTool(ctx context.Context, name string, input json.RawMessage, contextData json.RawMessage) (*protocol.CallToolResult, error) {
	p.mu.RLock()
	handler, ok := p.handlers[name]
	_, known := p.tools[name]
	p.mu.RUnlock()

	if !known {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if handler == nil || !ok {
		return nil, fmt.Errorf("tool has no handler: %s", name)
	}

	return handler(ctx, input)
}

// BaseResourcesProvider provides a registry-backed implementation of
// ResourcesProvider. ReadResource dispatches to a configurable reader so the
// same registry serves both static and dynamically generated resources.
type BaseResourcesProvider struct {
	mu        sync.RWMutex
	resources map[string]protocol.Resource
	templates map[string]protocol.ResourceTemplate
	reader    ResourceReader
}

// ResourceReader produces the contents for a resource URI.
type ResourceReader func(ctx context.Context, uri string, templateParams map[string]interface{}) (*protocol.ResourceContents, error)

// NewBaseResourcesProvider creates a new BaseResourcesProvider
func NewBaseResourcesProvider() *BaseResourcesProvider {
	return &BaseResourcesProvider{
		resources: make(map[string]protocol.Resource),
		templates: make(map[string]protocol.ResourceTemplate),
	}
}

// RegisterResource registers a resource
func (p *BaseResourcesProvider) RegisterResource(resource protocol.Resource) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resources[resource.URI] = resource
}

// UnregisterResource removes a resource from the registry.
func (p *BaseResourcesProvider) UnregisterResource(uri string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.resources, uri)
}

// RegisterTemplate registers a resource template
func (p *BaseResourcesProvider) RegisterTemplate(template protocol.ResourceTemplate) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.templates[template.URI] = template
}

// SetReader installs the function that resolves resource contents.
func (p *BaseResourcesProvider) SetReader(reader ResourceReader) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.reader = reader
}

// ListResources returns registered resources and templates, sorted by URI.
func (p *BaseResourcesProvider) ListResources(ctx context.Context, uri string, recursive bool, pagination *protocol.PaginationParams) ([]protocol.Resource, []protocol.ResourceTemplate, int, string, bool, error) {
	p.mu.RLock()
	var resources []protocol.Resource
	var templates []protocol.ResourceTemplate

	for _, resource := range p.resources {
		if uri != "" && resource.URI != uri && !(recursive && hasPrefix(resource.URI, uri+"/")) {
			continue
		}
		resources = append(resources, resource)
	}
	for _, template := range p.templates {
		if uri != "" && template.URI != uri && !(recursive && hasPrefix(template.URI, uri+"/")) {
			continue
		}
		templates = append(templates, template)
	}
	p.mu.RUnlock()

	sort.Slice(resources, func(i, j int) bool { return resources[i].URI < resources[j].URI })
	sort.Slice(templates, func(i, j int) bool { return templates[i].URI < templates[j].URI })

	total := len(resources) + len(templates)

	start, limit := decodeCursor(pagination)

	// Paginate over the combined sequence: resources first, then templates.
	resStart := min(start, len(resources))
	resEnd := min(len(resources), start+limit)

	templStart := max(0, start-len(resources))
	templEnd := min(len(templates), templStart+limit-(resEnd-resStart))

	hasMore := resEnd < len(resources) || templEnd < len(templates)
	nextCursor := ""
	if hasMore {
		nextCursor = strconv.Itoa(resEnd + templEnd)
	}

	return resources[resStart:resEnd], templates[templStart:templEnd], total, nextCursor, hasMore, nil
}

// ReadResource reads a resource and returns its contents
func (p *BaseResourcesProvider) ReadResource(ctx context.Context, uri string, templateParams map[string]interface{}, rangeOpt *protocol.ResourceRange) (*protocol.ResourceContents, error) {
	p.mu.RLock()
	reader := p.reader
	p.mu.RUnlock()

	if reader == nil {
		return nil, errNotFound("resource", uri)
	}

	return reader(ctx, uri, templateParams)
}

// Helper functions

// decodeCursor parses the numeric offset cursor and applies the default limit.
func decodeCursor(pagination *protocol.PaginationParams) (start, limit int) {
	limit = 50
	if pagination == nil {
		return 0, limit
	}
	if pagination.Limit > 0 {
		limit = pagination.Limit
	}
	if pagination.Cursor != "" {
		if n, err := strconv.Atoi(pagination.Cursor); err == nil && n > 0 {
			start = n
		}
	}
	return start, limit
}

func hasCategory(tool protocol.Tool, category string) bool {
	for _, cat := range tool.Categories {
		if cat == category {
			return true
		}
	}
	return false
}

func hasPrefix(s, prefix string) bool {
	if len(s) < len(prefix) {
		return false
	}
	return s[0:len(prefix)] == prefix
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// errNotFound creates an error for a resource not found
func errNotFound(resourceType, id string) error {
	return &notFoundError{resourceType: resourceType, id: id}
}

// notFoundError represents a not found error
type notFoundError struct {
	resourceType string
	id           string
}

func (e *notFoundError) Error() string {
	return e.resourceType + " not found: " + e.id
}
