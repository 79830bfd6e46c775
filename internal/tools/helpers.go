// Package tools implements the MCP tool handlers that expose identifier
// resolution. Each tool holds its dependencies in a struct and offers a
// Definition and a Handle method for server registration.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/h0rv/linbridge/internal/apperr"
	"github.com/h0rv/linbridge/internal/domain"
	"github.com/h0rv/linbridge/internal/store"
)

// Resolver is what the tools need from the service layer.
type Resolver interface {
	ResolveTeam(ctx context.Context, key string) (string, error)
	ResolveProject(ctx context.Context, name string, teamID string) (string, error)
	ResolveUser(ctx context.Context, email string) (string, error)
	ResolveState(ctx context.Context, name string, teamID string) (string, error)
	ResolveLabels(ctx context.Context, names []string, teamID string) ([]string, error)
	ResolveIssueID(ctx context.Context, identifier string) (string, error)
	LookupIssue(ctx context.Context, identifier string) (*domain.Issue, error)
	ClearCache(ctx context.Context)
	CacheStats() store.Stats
}

// errorEnvelope is the JSON body of a failed tool call.
type errorEnvelope struct {
	Kind    string         `json:"kind"`
	Status  int            `json:"status"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Context map[string]any `json:"context,omitempty"`
}

// errorResult renders err as a tool-level error. Failures that did not come
// from the resolver or retry layers are reported as server errors.
func errorResult(err error) *mcp.CallToolResult {
	env := errorEnvelope{
		Kind:    apperr.KindUpstream.String(),
		Status:  http.StatusInternalServerError,
		Code:    apperr.CodeServerError,
		Message: err.Error(),
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		env = errorEnvelope{
			Kind:    appErr.Kind.String(),
			Status:  appErr.Status,
			Code:    appErr.Code,
			Message: appErr.Message,
			Context: appErr.Context,
		}
	}

	body, marshalErr := json.Marshal(map[string]errorEnvelope{"error": env})
	if marshalErr != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultError(string(body))
}

// jsonResult renders v as indented JSON text.
func jsonResult(v any) *mcp.CallToolResult {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err))
	}
	return mcp.NewToolResultText(string(body))
}

// resolution is the result body of single-identifier tools.
type resolution struct {
	Input string `json:"input"`
	ID    string `json:"id"`
}

// requiredString reads a non-blank string argument.
func requiredString(req mcp.CallToolRequest, name string) (string, *mcp.CallToolResult) {
	value := strings.TrimSpace(req.GetString(name, ""))
	if value == "" {
		return "", errorResult(apperr.InvalidParams("'%s' is required", name))
	}
	return value, nil
}

// teamScope resolves the optional "team" argument, which may be a team key
// or a team ID. An empty argument yields an empty scope.
func teamScope(ctx context.Context, resolver Resolver, req mcp.CallToolRequest) (string, error) {
	team := strings.TrimSpace(req.GetString("team", ""))
	if team == "" {
		return "", nil
	}
	return resolver.ResolveTeam(ctx, team)
}

func withTeamArg(description string) mcp.ToolOption {
	return mcp.WithString("team", mcp.Description(description))
}
