package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/h0rv/linbridge/internal/resolve"
)

// IssueTool handles the resolve_issue MCP tool.
type IssueTool struct {
	resolver Resolver
}

// NewIssueTool creates an IssueTool.
func NewIssueTool(resolver Resolver) *IssueTool {
	return &IssueTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_issue.
func (t *IssueTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_issue",
		mcp.WithDescription("Resolve an issue identifier such as \"OPS-42\" to the issue ID. Set details to also get the title and URL."),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("TEAM-<number> identifier or issue ID"),
		),
		mcp.WithBoolean("details",
			mcp.Description("Include title and URL (default: false)"),
		),
	)
}

type issueResult struct {
	Input      string `json:"input"`
	ID         string `json:"id"`
	Identifier string `json:"identifier,omitempty"`
	Title      string `json:"title,omitempty"`
	URL        string `json:"url,omitempty"`
}

// Handle processes the resolve_issue tool call.
func (t *IssueTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	identifier, errRes := requiredString(req, "identifier")
	if errRes != nil {
		return errRes, nil
	}

	if !req.GetBool("details", false) || resolve.IsCanonicalID(identifier) {
		id, err := t.resolver.ResolveIssueID(ctx, identifier)
		if err != nil {
			return errorResult(err), nil
		}
		return jsonResult(issueResult{Input: identifier, ID: id}), nil
	}

	issue, err := t.resolver.LookupIssue(ctx, identifier)
	if err != nil {
		return errorResult(err), nil
	}
	return jsonResult(issueResult{
		Input:      identifier,
		ID:         issue.ID,
		Identifier: issue.Identifier,
		Title:      issue.Title,
		URL:        issue.URL,
	}), nil
}
