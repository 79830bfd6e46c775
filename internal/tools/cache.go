package tools

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
)

// ClearCacheTool handles the clear_cache MCP tool.
type ClearCacheTool struct {
	resolver Resolver
}

// NewClearCacheTool creates a ClearCacheTool.
func NewClearCacheTool(resolver Resolver) *ClearCacheTool {
	return &ClearCacheTool{resolver: resolver}
}

// Definition returns the MCP tool definition for clear_cache.
func (t *ClearCacheTool) Definition() mcp.Tool {
	return mcp.NewTool("clear_cache",
		mcp.WithDescription("Forget every resolved identifier so the next lookups go to Linear. Use after renaming teams, states or labels."),
	)
}

// Handle processes the clear_cache tool call.
func (t *ClearCacheTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	t.resolver.ClearCache(ctx)
	return mcp.NewToolResultText("Identifier cache cleared."), nil
}

// CacheStatsTool handles the cache_stats MCP tool.
type CacheStatsTool struct {
	resolver Resolver
}

// NewCacheStatsTool creates a CacheStatsTool.
func NewCacheStatsTool(resolver Resolver) *CacheStatsTool {
	return &CacheStatsTool{resolver: resolver}
}

// Definition returns the MCP tool definition for cache_stats.
func (t *CacheStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("cache_stats",
		mcp.WithDescription("Show how many identifiers of each kind are cached and whether the cache is stale."),
	)
}

type cacheStatsResult struct {
	Entries     map[string]int `json:"entries"`
	LastRefresh *time.Time     `json:"lastRefresh"`
	Stale       bool           `json:"stale"`
	TTLSeconds  float64        `json:"ttlSeconds"`
}

// Handle processes the cache_stats tool call.
func (t *CacheStatsTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats := t.resolver.CacheStats()

	res := cacheStatsResult{
		Entries:    make(map[string]int, len(stats.Entries)),
		Stale:      stats.Stale,
		TTLSeconds: stats.TTL.Seconds(),
	}
	for kind, n := range stats.Entries {
		res.Entries[string(kind)] = n
	}
	if !stats.LastRefresh.IsZero() {
		last := stats.LastRefresh.UTC()
		res.LastRefresh = &last
	}
	return jsonResult(res), nil
}
