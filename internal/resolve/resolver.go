// Package resolve turns human-readable Linear identifiers (team keys, project
// names, user emails, workflow state and label names, TEAM-123 issue
// identifiers) into backend IDs.
//
// Results are cached in a store.Store shared for the lifetime of the service.
// State and label names are only unique within a team, so they are cached
// under the team's ID. Issue identifiers are never cached.
//
// The resolver does not retry. Callers wrap it with the retry package.
package resolve

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/samber/lo"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/singleflight"

	"github.com/h0rv/linbridge/internal/apperr"
	"github.com/h0rv/linbridge/internal/domain"
	"github.com/h0rv/linbridge/internal/metrics"
	"github.com/h0rv/linbridge/internal/store"
)

// Lookup is the remote capability the resolver depends on.
// Single-entity lookups return nil without error when nothing matches.
type Lookup interface {
	FindTeamByKey(ctx context.Context, key string) (*domain.Team, error)
	FindProjectsByNameAndTeam(ctx context.Context, name string, teamID string) ([]domain.Project, error)
	FindUserByEmail(ctx context.Context, email string) (*domain.User, error)
	FetchTeamStates(ctx context.Context, teamID string) ([]domain.WorkflowState, error)
	FetchTeamLabels(ctx context.Context, teamID string) ([]domain.Label, error)
	FindIssueByTeamAndNumber(ctx context.Context, teamKey string, number int) (*domain.Issue, error)
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithMetrics records cache hits and misses into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(r *Resolver) {
		r.metrics = m
	}
}

// Resolver resolves identifiers through a cache and a remote Lookup.
// It is safe for concurrent use.
type Resolver struct {
	lookup  Lookup
	cache   *store.Store
	metrics *metrics.Metrics

	// Collapses concurrent remote lookups for the same key
	group singleflight.Group
}

// New creates a Resolver over lookup and cache.
func New(lookup Lookup, cache *store.Store, opts ...Option) *Resolver {
	r := &Resolver{
		lookup: lookup,
		cache:  cache,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.metrics == nil {
		r.metrics = metrics.New(nil)
	}
	return r
}

// ResolveTeam resolves a team key.
func (r *Resolver) ResolveTeam(ctx context.Context, input string) (string, error) {
	if IsCanonicalID(input) {
		return input, nil
	}
	if strings.TrimSpace(input) == "" {
		return "", apperr.InvalidParams("team key is required")
	}

	key := store.Global(input)
	if id, ok := r.cached(ctx, store.KindTeam, key, r.cache.IsStale()); ok {
		return id, nil
	}

	return r.fetch(ctx, store.KindTeam, key, func(ctx context.Context) (string, error) {
		team, err := r.lookup.FindTeamByKey(ctx, input)
		if err != nil {
			return "", err
		}
		if team == nil {
			return "", apperr.NotFound("team not found: %s", input).WithContext("team", input)
		}
		return team.ID, nil
	})
}

// ResolveProject resolves a project name. When teamID is set the project must
// be accessible to that team, and the cache entry is scoped to it.
func (r *Resolver) ResolveProject(ctx context.Context, input string, teamID string) (string, error) {
	if IsCanonicalID(input) {
		return input, nil
	}
	if strings.TrimSpace(input) == "" {
		return "", apperr.InvalidParams("project name is required")
	}

	key := store.Global(input)
	if teamID != "" {
		key = store.Scoped(teamID, input)
	}
	if id, ok := r.cached(ctx, store.KindProject, key, r.cache.IsStale()); ok {
		return id, nil
	}

	return r.fetch(ctx, store.KindProject, key, func(ctx context.Context) (string, error) {
		projects, err := r.lookup.FindProjectsByNameAndTeam(ctx, input, teamID)
		if err != nil {
			return "", err
		}
		if len(projects) == 0 {
			if teamID != "" {
				return "", apperr.NotFound("project not found: %s in team %s", input, teamID).
					WithContext("project", input).
					WithContext("teamId", teamID)
			}
			return "", apperr.NotFound("project not found: %s", input).WithContext("project", input)
		}
		return projects[0].ID, nil
	})
}

// ResolveUser resolves a user by email.
func (r *Resolver) ResolveUser(ctx context.Context, input string) (string, error) {
	if IsCanonicalID(input) {
		return input, nil
	}
	if strings.TrimSpace(input) == "" {
		return "", apperr.InvalidParams("user email is required")
	}

	key := store.Global(input)
	if id, ok := r.cached(ctx, store.KindUser, key, r.cache.IsStale()); ok {
		return id, nil
	}

	return r.fetch(ctx, store.KindUser, key, func(ctx context.Context) (string, error) {
		user, err := r.lookup.FindUserByEmail(ctx, input)
		if err != nil {
			return "", err
		}
		if user == nil {
			return "", apperr.NotFound("user not found: %s", input).WithContext("email", input)
		}
		return user.ID, nil
	})
}

// ResolveState resolves a workflow state name within a team. Names match
// case-insensitively against the team's full state list.
func (r *Resolver) ResolveState(ctx context.Context, input string, teamID string) (string, error) {
	if teamID == "" {
		return "", apperr.InvalidParams("teamId is required to resolve workflow state %q", input)
	}
	if IsCanonicalID(input) {
		return input, nil
	}

	key := scopedNameKey(teamID, input)
	if id, ok := r.cached(ctx, store.KindState, key, r.cache.IsStale()); ok {
		return id, nil
	}

	states, err := share(ctx, &r.group, "states\x00"+teamID, func(ctx context.Context) ([]domain.WorkflowState, error) {
		return r.lookup.FetchTeamStates(ctx, teamID)
	})
	if err != nil {
		return "", err
	}

	state, ok := matchName(states, input)
	if !ok {
		return "", apperr.NotFound("workflow state not found in team %s: %s", teamID, input).
			WithContext("state", input).
			WithContext("teamId", teamID)
	}

	r.cache.Put(store.KindState, key, state.ID)
	return state.ID, nil
}

// ResolveLabels resolves a batch of label names within a team.
//
// Canonical IDs pass through. Names are looked up in the cache first; if any
// miss, the team's label list is fetched once and every miss is matched
// case-insensitively against it. The first unmatched name fails the batch.
// The result holds canonical IDs, then cache hits, then fetched matches,
// each group in input order.
func (r *Resolver) ResolveLabels(ctx context.Context, inputs []string, teamID string) ([]string, error) {
	if teamID == "" {
		return nil, apperr.InvalidParams("teamId is required to resolve labels")
	}

	isCanonical := func(s string, _ int) bool { return IsCanonicalID(s) }
	canonical := lo.Filter(inputs, isCanonical)
	names := lo.Reject(inputs, isCanonical)

	result := make([]string, 0, len(inputs))
	result = append(result, canonical...)

	stale := r.cache.IsStale()
	var misses []string
	for _, name := range names {
		if id, ok := r.cached(ctx, store.KindLabel, scopedNameKey(teamID, name), stale); ok {
			result = append(result, id)
			continue
		}
		misses = append(misses, name)
	}

	if len(misses) == 0 {
		return result, nil
	}

	labels, err := share(ctx, &r.group, "labels\x00"+teamID, func(ctx context.Context) ([]domain.Label, error) {
		return r.lookup.FetchTeamLabels(ctx, teamID)
	})
	if err != nil {
		return nil, err
	}

	for _, name := range misses {
		label, ok := matchName(labels, name)
		if !ok {
			return nil, apperr.NotFound("label not found in team %s: %s", teamID, name).
				WithContext("label", name).
				WithContext("teamId", teamID)
		}
		r.cache.Put(store.KindLabel, scopedNameKey(teamID, name), label.ID)
		result = append(result, label.ID)
	}

	return result, nil
}

// ResolveIssueID resolves a TEAM-123 identifier. It always performs two
// remote lookups and never touches the cache.
func (r *Resolver) ResolveIssueID(ctx context.Context, input string) (string, error) {
	if IsCanonicalID(input) {
		return input, nil
	}

	issue, err := r.LookupIssue(ctx, input)
	if err != nil {
		return "", err
	}
	return issue.ID, nil
}

// LookupIssue fetches the issue addressed by a TEAM-123 identifier.
func (r *Resolver) LookupIssue(ctx context.Context, identifier string) (*domain.Issue, error) {
	teamKey, number, err := ParseIssueIdentifier(identifier)
	if err != nil {
		return nil, err
	}

	team, err := r.lookup.FindTeamByKey(ctx, teamKey)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, apperr.NotFound("team not found: %s", teamKey).
			WithContext("team", teamKey).
			WithContext("issue", identifier)
	}

	// Prefer the key as stored remotely
	if team.Key != "" {
		teamKey = team.Key
	}

	issue, err := r.lookup.FindIssueByTeamAndNumber(ctx, teamKey, number)
	if err != nil {
		return nil, err
	}
	if issue == nil {
		return nil, apperr.NotFound("issue not found: %s", identifier).
			WithContext("team", teamKey).
			WithContext("number", number)
	}
	return issue, nil
}

// ParseIssueIdentifier splits a TEAM-123 identifier into its team key and number.
func ParseIssueIdentifier(identifier string) (teamKey string, number int, err error) {
	teamKey, suffix, found := strings.Cut(strings.TrimSpace(identifier), "-")
	if !found || teamKey == "" {
		return "", 0, apperr.InvalidParams("invalid issue identifier %q: expected TEAM-<number>", identifier)
	}

	if suffix == "" || strings.TrimLeft(suffix, "0123456789") != "" {
		return "", 0, apperr.InvalidParams("invalid issue number in identifier %q", identifier)
	}
	number, convErr := strconv.Atoi(suffix)
	if convErr != nil || number <= 0 {
		return "", 0, apperr.InvalidParams("invalid issue number in identifier %q", identifier)
	}
	return teamKey, number, nil
}

// ClearCache drops every cached identifier.
func (r *Resolver) ClearCache(ctx context.Context) {
	r.cache.Clear()
	slogcontext.FromCtx(ctx).Info("resolver cache cleared")
}

// CacheStats returns a view of the underlying cache.
func (r *Resolver) CacheStats() store.Stats {
	return r.cache.Stats()
}

// cached returns a cache entry unless the cache is stale, recording the outcome.
func (r *Resolver) cached(ctx context.Context, kind store.Kind, key store.Key, stale bool) (string, bool) {
	id, ok := "", false
	if !stale {
		id, ok = r.cache.Get(kind, key)
	}

	result := metrics.ResultMiss
	if ok {
		result = metrics.ResultHit
	}
	r.metrics.CacheLookups.WithLabelValues(string(kind), result).Inc()

	slogcontext.FromCtx(ctx).Debug("resolver cache lookup",
		slog.String("kind", string(kind)),
		slog.String("key", key.String()),
		slog.String("result", result),
		slog.Bool("stale", stale))

	return id, ok
}

// fetch performs a single-entity remote lookup, sharing it with concurrent
// callers for the same key, and caches the result.
func (r *Resolver) fetch(ctx context.Context, kind store.Kind, key store.Key, lookup func(context.Context) (string, error)) (string, error) {
	flightKey := string(kind) + "\x00" + key.Scope + "\x00" + key.Name
	return share(ctx, &r.group, flightKey, func(ctx context.Context) (string, error) {
		id, err := lookup(ctx)
		if err != nil {
			return "", err
		}
		r.cache.Put(kind, key, id)
		return id, nil
	})
}

// share runs fn once per key among concurrent callers.
//
// fn runs detached from the cancellation of the caller that started it, so
// one caller giving up does not fail the others waiting on the same key.
// Each caller still stops waiting when its own ctx is done. Remote calls stay
// bounded by the client's request timeout.
func share[T any](ctx context.Context, group *singleflight.Group, key string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	shared := context.WithoutCancel(ctx)
	ch := group.DoChan(key, func() (interface{}, error) {
		return fn(shared)
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// scopedNameKey builds the cache key for a case-insensitive, team-scoped name.
func scopedNameKey(teamID, name string) store.Key {
	return store.Scoped(teamID, strings.ToLower(name))
}

// matchName finds the first item whose name equals name, ignoring case.
func matchName[T domain.Named](items []T, name string) (T, bool) {
	return lo.Find(items, func(item T) bool {
		return strings.EqualFold(item.GetName(), name)
	})
}
