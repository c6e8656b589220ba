package server

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

func TestBaseToolsProvider(t *testing.T) {
	provider := NewBaseToolsProvider()

	provider.RegisterTool(protocol.Tool{
		Name:       "tool1",
		Categories: []string{"category1"},
	})

	provider.RegisterToolWithHandler(protocol.Tool{
		Name:       "tool2",
		Categories: []string{"category2"},
	}, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
		return &protocol.CallToolResult{Result: json.RawMessage(`{"echo":true}`)}, nil
	})

	ctx := context.Background()
	pagination := &protocol.PaginationParams{Limit: 10}
	results, total, _, hasMore, err := provider.ListTools(ctx, "", pagination)
	if err != nil {
		t.Fatalf("Expected ListTools to succeed, got error: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 tools, got %d", len(results))
	}
	if total != 2 {
		t.Errorf("Expected total of 2, got %d", total)
	}
	if hasMore {
		t.Error("Expected hasMore to be false")
	}

	// Listing is sorted by name for stable cursors
	if results[0].Name != "tool1" || results[1].Name != "tool2" {
		t.Errorf("Expected sorted order [tool1, tool2], got [%s, %s]", results[0].Name, results[1].Name)
	}

	// Category filter
	results, _, _, _, err = provider.ListTools(ctx, "category1", pagination)
	if err != nil {
		t.Fatalf("Expected ListTools with category filter to succeed, got error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("Expected 1 tool with category1, got %d", len(results))
	}
	if results[0].Name != "tool1" {
		t.Errorf("Expected tool1, got %s", results[0].Name)
	}

	// First page with limit 1 yields a cursor pointing at the next offset
	results, _, cursor, hasMore, err := provider.ListTools(ctx, "", &protocol.PaginationParams{Limit: 1})
	if err != nil {
		t.Fatalf("Expected ListTools with limit 1 to succeed, got error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "tool1" {
		t.Fatalf("Expected first page [tool1], got %v", results)
	}
	if !hasMore {
		t.Error("Expected hasMore on first page")
	}
	if cursor != "1" {
		t.Errorf("Expected cursor %q, got %q", "1", cursor)
	}

	// Second page via the returned cursor
	results, _, cursor, hasMore, err = provider.ListTools(ctx, "", &protocol.PaginationParams{Cursor: cursor, Limit: 1})
	if err != nil {
		t.Fatalf("Expected ListTools with cursor to succeed, got error: %v", err)
	}
	if len(results) != 1 || results[0].Name != "tool2" {
		t.Fatalf("Expected second page [tool2], got %v", results)
	}
	if hasMore || cursor != "" {
		t.Errorf("Expected exhausted pagination, got hasMore=%v cursor=%q", hasMore, cursor)
	}

	// Cursor past the end yields an empty page, not an error
	results, _, _, hasMore, err = provider.ListTools(ctx, "", &protocol.PaginationParams{Cursor: "99"})
	if err != nil {
		t.Fatalf("Expected ListTools past the end to succeed, got error: %v", err)
	}
	if len(results) != 0 || hasMore {
		t.Errorf("Expected empty final page, got %d tools, hasMore=%v", len(results), hasMore)
	}
}

func TestBaseToolsProvider_CallTool(t *testing.T) {
	provider := NewBaseToolsProvider()
	ctx := context.Background()

	provider.RegisterToolWithHandler(protocol.Tool{Name: "echo"},
		func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
			return &protocol.CallToolResult{Result: input}, nil
		})
	provider.RegisterTool(protocol.Tool{Name: "handlerless"})

	input := json.RawMessage(`{"param":"value"}`)
	result, err := provider.CallTool(ctx, "echo", input, nil)
	if err != nil {
		t.Fatalf("Expected CallTool to succeed, got error: %v", err)
	}
	if string(result.Result) != string(input) {
		t.Errorf("Expected result %s, got %s", input, result.Result)
	}

	if _, err := provider.CallTool(ctx, "missing", nil, nil); err == nil {
		t.Error("Expected CallTool on unknown tool to fail")
	}

	if _, err := provider.CallTool(ctx, "handlerless", nil, nil); err == nil {
		t.Error("Expected CallTool on tool without handler to fail")
	}
}

func TestBaseResourcesProvider(t *testing.T) {
	provider := NewBaseResourcesProvider()
	ctx := context.Background()

	provider.RegisterResource(protocol.Resource{
		URI:  "app://status",
		Name: "Status",
		Type: "application/json",
	})
	provider.RegisterResource(protocol.Resource{
		URI:  "app://version",
		Name: "Version",
		Type: "application/json",
	})
	provider.RegisterTemplate(protocol.ResourceTemplate{
		URI:  "app://strip/{index}",
		Name: "Strip",
		Type: "application/json",
	})

	resources, templates, total, _, hasMore, err := provider.ListResources(ctx, "", false, nil)
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if len(resources) != 2 {
		t.Errorf("Expected 2 resources, got %d", len(resources))
	}
	if len(templates) != 1 {
		t.Errorf("Expected 1 template, got %d", len(templates))
	}
	if total != 3 {
		t.Errorf("Expected total of 3, got %d", total)
	}
	if hasMore {
		t.Error("Expected hasMore to be false")
	}

	// Reads fail until a reader is installed
	if _, err := provider.ReadResource(ctx, "app://status", nil, nil); err == nil {
		t.Error("Expected ReadResource without a reader to fail")
	}

	provider.SetReader(func(ctx context.Context, uri string, templateParams map[string]interface{}) (*protocol.ResourceContents, error) {
		if uri != "app://status" {
			return nil, errNotFound("resource", uri)
		}
		return &protocol.ResourceContents{
			URI:     uri,
			Type:    "application/json",
			Content: json.RawMessage(`{"connected":false}`),
		}, nil
	})

	contents, err := provider.ReadResource(ctx, "app://status", nil, nil)
	if err != nil {
		t.Fatalf("Expected ReadResource to succeed, got error: %v", err)
	}
	if contents.URI != "app://status" {
		t.Errorf("Expected URI app://status, got %q", contents.URI)
	}
	if string(contents.Content) != `{"connected":false}` {
		t.Errorf("Unexpected contents: %s", contents.Content)
	}

	if _, err := provider.ReadResource(ctx, "app://nope", nil, nil); err == nil {
		t.Error("Expected ReadResource on unknown URI to fail")
	}
}

func TestBaseResourcesProvider_Unregister(t *testing.T) {
	provider := NewBaseResourcesProvider()
	ctx := context.Background()

	provider.RegisterResource(protocol.Resource{URI: "app://a"})
	provider.RegisterResource(protocol.Resource{URI: "app://b"})
	provider.UnregisterResource("app://a")

	resources, _, total, _, _, err := provider.ListResources(ctx, "", false, nil)
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if total != 1 || len(resources) != 1 {
		t.Fatalf("Expected 1 resource after unregister, got %d (total %d)", len(resources), total)
	}
	if resources[0].URI != "app://b" {
		t.Errorf("Expected app://b to remain, got %q", resources[0].URI)
	}
}

func TestBaseResourcesProvider_CombinedPagination(t *testing.T) {
	provider := NewBaseResourcesProvider()
	ctx := context.Background()

	// 3 resources followed by 2 templates in the combined ordering
	provider.RegisterResource(protocol.Resource{URI: "app://r1"})
	provider.RegisterResource(protocol.Resource{URI: "app://r2"})
	provider.RegisterResource(protocol.Resource{URI: "app://r3"})
	provider.RegisterTemplate(protocol.ResourceTemplate{URI: "app://t1"})
	provider.RegisterTemplate(protocol.ResourceTemplate{URI: "app://t2"})

	// First page straddles nothing: resources only
	resources, templates, total, cursor, hasMore, err := provider.ListResources(ctx, "", false, &protocol.PaginationParams{Limit: 2})
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if total != 5 {
		t.Errorf("Expected total of 5, got %d", total)
	}
	if len(resources) != 2 || len(templates) != 0 {
		t.Fatalf("Expected page of 2 resources, got %d resources, %d templates", len(resources), len(templates))
	}
	if !hasMore || cursor != "2" {
		t.Fatalf("Expected hasMore with cursor 2, got hasMore=%v cursor=%q", hasMore, cursor)
	}

	// Second page straddles the resource/template boundary
	resources, templates, _, cursor, hasMore, err = provider.ListResources(ctx, "", false, &protocol.PaginationParams{Cursor: cursor, Limit: 2})
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if len(resources) != 1 || len(templates) != 1 {
		t.Fatalf("Expected 1 resource + 1 template, got %d resources, %d templates", len(resources), len(templates))
	}
	if resources[0].URI != "app://r3" || templates[0].URI != "app://t1" {
		t.Errorf("Unexpected boundary page: %q / %q", resources[0].URI, templates[0].URI)
	}
	if !hasMore || cursor != "4" {
		t.Fatalf("Expected hasMore with cursor 4, got hasMore=%v cursor=%q", hasMore, cursor)
	}

	// Final page
	resources, templates, _, cursor, hasMore, err = provider.ListResources(ctx, "", false, &protocol.PaginationParams{Cursor: cursor, Limit: 2})
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if len(resources) != 0 || len(templates) != 1 {
		t.Fatalf("Expected final page of 1 template, got %d resources, %d templates", len(resources), len(templates))
	}
	if hasMore || cursor != "" {
		t.Errorf("Expected exhausted pagination, got hasMore=%v cursor=%q", hasMore, cursor)
	}
}

func TestBaseResourcesProvider_URIFilter(t *testing.T) {
	provider := NewBaseResourcesProvider()
	ctx := context.Background()

	provider.RegisterResource(protocol.Resource{URI: "app://bus"})
	provider.RegisterResource(protocol.Resource{URI: "app://bus/0"})
	provider.RegisterResource(protocol.Resource{URI: "app://strip/0"})

	resources, _, _, _, _, err := provider.ListResources(ctx, "app://bus", false, nil)
	if err != nil {
		t.Fatalf("Expected ListResources to succeed, got error: %v", err)
	}
	if len(resources) != 1 || resources[0].URI != "app://bus" {
		t.Fatalf("Expected exact match only, got %v", resources)
	}

	resources, _, _, _, _, err = provider.ListResources(ctx, "app://bus", true, nil)
	if err != nil {
		t.Fatalf("Expected recursive ListResources to succeed, got error: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("Expected 2 resources under app://bus, got %d", len(resources))
	}
}
