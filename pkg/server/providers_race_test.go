package server

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/ajitpratap0/voicemeeter-mcp-go/pkg/protocol"
)

// TestBaseProvidersRaceSafety tests that the base providers are race-safe
func TestBaseProvidersRaceSafety(t *testing.T) {
	t.Run("BaseToolsProvider", func(t *testing.T) {
		provider := NewBaseToolsProvider()
		var wg sync.WaitGroup

		// Concurrent registration and listing
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				tool := protocol.Tool{
					Name:        string(rune('A' + id%26)),
					Description: "Test tool",
				}
				provider.RegisterToolWithHandler(tool, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
					return &protocol.CallToolResult{Result: json.RawMessage(`{}`)}, nil
				})
			}(i)
		}

		// Concurrent reads and calls
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				if id%2 == 0 {
					_, _, _, _, _ = provider.ListTools(context.Background(), "", nil)
				} else {
					_, _ = provider.CallTool(context.Background(), string(rune('A'+id%26)), nil, nil)
				}
			}(i)
		}

		wg.Wait()
	})

	t.Run("BaseResourcesProvider", func(t *testing.T) {
		provider := NewBaseResourcesProvider()
		var wg sync.WaitGroup

		// Concurrent registration, removal and reader swaps
		for i := 0; i < 100; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				switch id % 4 {
				case 0:
					provider.RegisterResource(protocol.Resource{
						URI:  string(rune('A' + id%26)),
						Name: "Test resource",
					})
				case 1:
					provider.RegisterTemplate(protocol.ResourceTemplate{
						URI:  string(rune('A' + id%26)),
						Name: "Test template",
					})
				case 2:
					provider.UnregisterResource(string(rune('A' + id%26)))
				default:
					provider.SetReader(func(ctx context.Context, uri string, templateParams map[string]interface{}) (*protocol.ResourceContents, error) {
						return &protocol.ResourceContents{URI: uri}, nil
					})
				}
			}(i)
		}

		// Concurrent reads
		for i := 0; i < 50; i++ {
			wg.Add(1)
			go func(id int) {
				defer wg.Done()
				if id%2 == 0 {
					_, _, _, _, _, _ = provider.ListResources(context.Background(), "", false, nil)
				} else {
					_, _ = provider.ReadResource(context.Background(), string(rune('A'+id%26)), nil, nil)
				}
			}(i)
		}

		wg.Wait()
	})
}

// TestBaseProvidersStressTest performs a stress test with mixed read/write operations
func TestBaseProvidersStressTest(t *testing.T) {
	toolsProvider := NewBaseToolsProvider()
	resourcesProvider := NewBaseResourcesProvider()

	ctx := context.Background()
	var wg sync.WaitGroup

	// Perform mixed operations for 2 seconds
	stopCh := make(chan struct{})
	go func() {
		time.Sleep(2 * time.Second)
		close(stopCh)
	}()

	// Tools provider stress test
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			count := 0
			for {
				select {
				case <-stopCh:
					t.Logf("Tools worker %d performed %d operations", worker, count)
					return
				default:
					switch count % 4 {
					case 0:
						tool := protocol.Tool{
							Name: "tool-" + string(rune('A'+count%26)),
						}
						toolsProvider.RegisterToolWithHandler(tool, func(ctx context.Context, input json.RawMessage) (*protocol.CallToolResult, error) {
							return &protocol.CallToolResult{Result: json.RawMessage(`{}`)}, nil
						})
					case 1:
						toolsProvider.CallTool(ctx, "tool-"+string(rune('A'+count%26)), nil, nil)
					default:
						toolsProvider.ListTools(ctx, "", nil)
					}
					count++
				}
			}
		}(i)
	}

	// Resources provider stress test
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			count := 0
			for {
				select {
				case <-stopCh:
					t.Logf("Resources worker %d performed %d operations", worker, count)
					return
				default:
					switch count % 4 {
					case 0:
						resource := protocol.Resource{
							URI: "resource-" + string(rune('A'+count%26)),
						}
						resourcesProvider.RegisterResource(resource)
					case 1:
						template := protocol.ResourceTemplate{
							URI: "template-" + string(rune('A'+count%26)),
						}
						resourcesProvider.RegisterTemplate(template)
					default:
						resourcesProvider.ListResources(ctx, "", false, nil)
					}
					count++
				}
			}
		}(i)
	}

	wg.Wait()
}
