package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ProjectTool handles the resolve_project MCP tool.
type ProjectTool struct {
	resolver Resolver
}

// NewProjectTool creates a ProjectTool.
func NewProjectTool(resolver Resolver) *ProjectTool {
	return &ProjectTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_project.
func (t *ProjectTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_project",
		mcp.WithDescription("Resolve a Linear project name to its project ID, optionally limited to projects a team can access."),
		mcp.WithString("name",
			mcp.Required(),
			mcp.Description("Exact project name or project ID"),
		),
		withTeamArg("Team key or ID the project must be accessible to"),
	)
}

// Handle processes the resolve_project tool call.
func (t *ProjectTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, errRes := requiredString(req, "name")
	if errRes != nil {
		return errRes, nil
	}

	teamID, err := teamScope(ctx, t.resolver, req)
	if err != nil {
		return errorResult(err), nil
	}

	id, err := t.resolver.ResolveProject(ctx, name, teamID)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resolution{Input: name, ID: id}), nil
}
