// Package service exposes identifier resolution to the outer surfaces (MCP
// tools, CLI). Every remote-backed call runs through the retry executor, so
// transient Linear failures are retried and exhausted ones surface as
// apperr.KindUpstream.
package service

import (
	"context"

	"github.com/h0rv/linbridge/internal/domain"
	"github.com/h0rv/linbridge/internal/resolve"
	"github.com/h0rv/linbridge/internal/retry"
	"github.com/h0rv/linbridge/internal/store"
)

// Operation names used in logs, metrics and upstream error context.
const (
	OpResolveTeam    = "resolve_team"
	OpResolveProject = "resolve_project"
	OpResolveUser    = "resolve_user"
	OpResolveState   = "resolve_state"
	OpResolveLabels  = "resolve_labels"
	OpResolveIssue   = "resolve_issue"
	OpLookupIssue    = "lookup_issue"
)

// Service is the retrying facade over a Resolver.
type Service struct {
	resolver *resolve.Resolver
	exec     *retry.Executor
}

// New creates a Service.
func New(resolver *resolve.Resolver, exec *retry.Executor) *Service {
	return &Service{
		resolver: resolver,
		exec:     exec,
	}
}

// ResolveTeam resolves a team key to its ID.
func (s *Service) ResolveTeam(ctx context.Context, key string) (string, error) {
	return retry.Do(ctx, s.exec, OpResolveTeam, func(ctx context.Context) (string, error) {
		return s.resolver.ResolveTeam(ctx, key)
	})
}

// ResolveProject resolves a project name, optionally within a team.
func (s *Service) ResolveProject(ctx context.Context, name string, teamID string) (string, error) {
	return retry.Do(ctx, s.exec, OpResolveProject, func(ctx context.Context) (string, error) {
		return s.resolver.ResolveProject(ctx, name, teamID)
	})
}

// ResolveUser resolves a user email to its ID.
func (s *Service) ResolveUser(ctx context.Context, email string) (string, error) {
	return retry.Do(ctx, s.exec, OpResolveUser, func(ctx context.Context) (string, error) {
		return s.resolver.ResolveUser(ctx, email)
	})
}

// ResolveState resolves a workflow state name within a team.
func (s *Service) ResolveState(ctx context.Context, name string, teamID string) (string, error) {
	return retry.Do(ctx, s.exec, OpResolveState, func(ctx context.Context) (string, error) {
		return s.resolver.ResolveState(ctx, name, teamID)
	})
}

// ResolveLabels resolves label names within a team.
func (s *Service) ResolveLabels(ctx context.Context, names []string, teamID string) ([]string, error) {
	return retry.Do(ctx, s.exec, OpResolveLabels, func(ctx context.Context) ([]string, error) {
		return s.resolver.ResolveLabels(ctx, names, teamID)
	})
}

// ResolveIssueID resolves a TEAM-123 identifier to the issue ID.
func (s *Service) ResolveIssueID(ctx context.Context, identifier string) (string, error) {
	return retry.Do(ctx, s.exec, OpResolveIssue, func(ctx context.Context) (string, error) {
		return s.resolver.ResolveIssueID(ctx, identifier)
	})
}

// LookupIssue fetches the issue addressed by a TEAM-123 identifier.
func (s *Service) LookupIssue(ctx context.Context, identifier string) (*domain.Issue, error) {
	return retry.Do(ctx, s.exec, OpLookupIssue, func(ctx context.Context) (*domain.Issue, error) {
		return s.resolver.LookupIssue(ctx, identifier)
	})
}

// ClearCache drops every cached identifier.
func (s *Service) ClearCache(ctx context.Context) {
	s.resolver.ClearCache(ctx)
}

// CacheStats reports the state of the identifier cache.
func (s *Service) CacheStats() store.Stats {
	return s.resolver.CacheStats()
}
