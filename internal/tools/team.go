package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TeamTool handles the resolve_team MCP tool.
type TeamTool struct {
	resolver Resolver
}

// NewTeamTool creates a TeamTool.
func NewTeamTool(resolver Resolver) *TeamTool {
	return &TeamTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_team.
func (t *TeamTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_team",
		mcp.WithDescription("Resolve a Linear team key (e.g. \"OPS\") to its team ID. IDs are returned unchanged."),
		mcp.WithString("key",
			mcp.Required(),
			mcp.Description("Team key or team ID"),
		),
	)
}

// Handle processes the resolve_team tool call.
func (t *TeamTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key, errRes := requiredString(req, "key")
	if errRes != nil {
		return errRes, nil
	}

	id, err := t.resolver.ResolveTeam(ctx, key)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resolution{Input: key, ID: id}), nil
}
