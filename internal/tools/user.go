package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// UserTool handles the resolve_user MCP tool.
type UserTool struct {
	resolver Resolver
}

// NewUserTool creates a UserTool.
func NewUserTool(resolver Resolver) *UserTool {
	return &UserTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_user.
func (t *UserTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_user",
		mcp.WithDescription("Resolve a Linear user's email address to their user ID."),
		mcp.WithString("email",
			mcp.Required(),
			mcp.Description("User email or user ID"),
		),
	)
}

// Handle processes the resolve_user tool call.
func (t *UserTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	email, errRes := requiredString(req, "email")
	if errRes != nil {
		return errRes, nil
	}

	id, err := t.resolver.ResolveUser(ctx, email)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(resolution{Input: email, ID: id}), nil
}
