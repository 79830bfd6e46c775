package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// StateTool handles the resolve_state MCP tool.
type StateTool struct {
	resolver Resolver
}

// NewStateTool creates a StateTool.
func NewStateTool(resolver Resolver) *StateTool {
	return &StateTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_state.
func (t *StateTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_state",
		mcp.WithDescription("Resolve a workflow state name (e.g. \"In Progress\") to its ID within a team. Matching ignores case."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Workflow state name or state ID"),
		),
		mcp.WithString("team",
			mcp.Required(),
			mcp.Description("Team key or ID owning the workflow"),
		),
	)
}

// Handle processes the resolve_state tool call.
func (t *StateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	// An empty team is rejected by the resolver
	teamID, err := teamScope(ctx, t.resolver, req)
	if err != nil {
		return errorResult(err), nil
	}

	id, err := t.resolver.ResolveState(ctx, name, teamID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resolution{Input: name, ID: id}), nil
}
