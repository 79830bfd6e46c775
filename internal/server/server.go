// Package server wires the resolution tools into an MCP server.
// No business logic lives here, only registration.
package server

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/h0rv/linbridge/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// New creates the MCP server with every resolution tool registered.
func New(resolver tools.Resolver) *server.MCPServer {
	s := server.NewMCPServer(
		"linbridge",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	teamTool := tools.NewTeamTool(resolver)
	s.AddTool(teamTool.Definition(), teamTool.Handle)

	projectTool := tools.NewProjectTool(resolver)
	s.AddTool(projectTool.Definition(), projectTool.Handle)

	userTool := tools.NewUserTool(resolver)
	s.AddTool(userTool.Definition(), userTool.Handle)

	stateTool := tools.NewStateTool(resolver)
	s.AddTool(stateTool.Definition(), stateTool.Handle)

	labelsTool := tools.NewLabelsTool(resolver)
	s.AddTool(labelsTool.Definition(), labelsTool.Handle)

	issueTool := tools.NewIssueTool(resolver)
	s.AddTool(issueTool.Definition(), issueTool.Handle)

	clearTool := tools.NewClearCacheTool(resolver)
	s.AddTool(clearTool.Definition(), clearTool.Handle)

	statsTool := tools.NewCacheStatsTool(resolver)
	s.AddTool(statsTool.Definition(), statsTool.Handle)

	return s
}

const instructions = `linbridge translates human-readable Linear identifiers into Linear IDs.

Resolve the team first (resolve_team with a key like "OPS"), then pass the team
to resolve_state and resolve_labels: state and label names are only unique
within a team. Issue identifiers such as "OPS-42" go to resolve_issue.
Anything that already is an ID is returned unchanged.

Results are cached for a few minutes. Call clear_cache after renaming
teams, states or labels in Linear.`
