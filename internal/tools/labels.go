package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// LabelsTool handles the resolve_labels MCP tool.
type LabelsTool struct {
	resolver Resolver
}

// NewLabelsTool creates a LabelsTool.
func NewLabelsTool(resolver Resolver) *LabelsTool {
	return &LabelsTool{resolver: resolver}
}

// Definition returns the MCP tool definition for resolve_labels.
func (t *LabelsTool) Definition() mcp.Tool {
	return mcp.NewTool("resolve_labels",
		mcp.WithDescription(
			"Resolve label names to label IDs within a team. Matching ignores case. "+
				"The whole batch fails on the first unknown label. "+
				"IDs come back first, then previously resolved names, then newly fetched ones.",
		),
		mcp.WithArray("names",
			mcp.Required(),
			mcp.Description("Label names or label IDs"),
			mcp.WithStringItems(),
		),
		mcp.WithString("team",
			mcp.Required(),
			mcp.Description("Team key or ID owning the labels"),
		),
	)
}

type labelsResult struct {
	Inputs []string `json:"inputs"`
	IDs    []string `json:"ids"`
}

// Handle processes the resolve_labels tool call.
func (t *LabelsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	names := req.GetStringSlice("names", nil)

	teamID, err := teamScope(ctx, t.resolver, req)
	if err != nil {
		return errorResult(err), nil
	}

	ids, err := t.resolver.ResolveLabels(ctx, names, teamID)
	if err != nil {
		return errorResult(err), nil
	}
	if names == nil {
		names = []string{}
	}
	return jsonResult(labelsResult{Inputs: names, IDs: ids}), nil
}
