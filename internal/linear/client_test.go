package linear

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h0rv/linbridge/internal/apperr"
)

// graphqlRequest is the body machinebox/graphql posts.
type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// fakeLinear is a minimal Linear GraphQL endpoint.
type fakeLinear struct {
	mu       sync.Mutex
	requests []graphqlRequest
	headers  []http.Header
	// respond returns the "data" payload for a request
	respond func(req graphqlRequest) interface{}
}

func (f *fakeLinear) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req graphqlRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.headers = append(f.headers, r.Header.Clone())
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"data": f.respond(req)})
}

func (f *fakeLinear) lastRequest(t *testing.T) graphqlRequest {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.requests)
	return f.requests[len(f.requests)-1]
}

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New(Options{Endpoint: srv.URL, Token: token, Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func nodes(items ...map[string]interface{}) map[string]interface{} {
	list := make([]interface{}, 0, len(items))
	for _, item := range items {
		list = append(list, item)
	}
	return map[string]interface{}{"nodes": list}
}

func TestNew_RequiresToken(t *testing.T) {
	_, err := New(Options{Token: "  "})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "token is required")
}

func TestAuthorizationHeader(t *testing.T) {
	assert.Equal(t, "lin_api_abc", authorizationHeader("lin_api_abc"))
	assert.Equal(t, "Bearer lin_oauth_abc", authorizationHeader("lin_oauth_abc"))
	assert.Equal(t, "lin_api_abc", authorizationHeader(" lin_api_abc\n"))
}

func TestFindTeamByKey(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		if req.Variables["key"] == "OPS" {
			return map[string]interface{}{
				"teams": nodes(map[string]interface{}{"id": "team-uuid-1", "key": "OPS", "name": "Operations"}),
			}
		}
		return map[string]interface{}{"teams": nodes()}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	t.Run("found", func(t *testing.T) {
		team, err := c.FindTeamByKey(context.Background(), "OPS")
		require.NoError(t, err)
		require.NotNil(t, team)
		assert.Equal(t, "team-uuid-1", team.ID)
		assert.Equal(t, "OPS", team.Key)
		assert.Equal(t, "Operations", team.Name)

		fake.mu.Lock()
		assert.Equal(t, "lin_api_test", fake.headers[len(fake.headers)-1].Get("Authorization"))
		fake.mu.Unlock()
	})

	t.Run("not found", func(t *testing.T) {
		team, err := c.FindTeamByKey(context.Background(), "NOPE")
		require.NoError(t, err)
		assert.Nil(t, team)
	})
}

func TestFindProjectsByNameAndTeam(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		return map[string]interface{}{
			"projects": nodes(map[string]interface{}{"id": "project-1", "name": "Roadmap"}),
		}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	t.Run("without team", func(t *testing.T) {
		projects, err := c.FindProjectsByNameAndTeam(context.Background(), "Roadmap", "")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "project-1", projects[0].ID)

		filter := fake.lastRequest(t).Variables["filter"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{"eq": "Roadmap"}, filter["name"])
		assert.NotContains(t, filter, "accessibleTeams")
	})

	t.Run("with team", func(t *testing.T) {
		_, err := c.FindProjectsByNameAndTeam(context.Background(), "Roadmap", "team-1")
		require.NoError(t, err)

		filter := fake.lastRequest(t).Variables["filter"].(map[string]interface{})
		assert.Equal(t, map[string]interface{}{
			"some": map[string]interface{}{"id": map[string]interface{}{"eq": "team-1"}},
		}, filter["accessibleTeams"])
	})
}

func TestFindUserByEmail(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		if req.Variables["email"] == "ada@example.com" {
			return map[string]interface{}{
				"users": nodes(map[string]interface{}{"id": "user-1", "email": "ada@example.com", "name": "Ada"}),
			}
		}
		return map[string]interface{}{"users": nodes()}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	user, err := c.FindUserByEmail(context.Background(), "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, "user-1", user.ID)

	user, err = c.FindUserByEmail(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFetchTeamStates(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		if req.Variables["teamId"] != "team-1" {
			return map[string]interface{}{"team": nil}
		}
		return map[string]interface{}{
			"team": map[string]interface{}{
				"states": nodes(
					map[string]interface{}{"id": "state-1", "name": "Todo", "type": "unstarted"},
					map[string]interface{}{"id": "state-2", "name": "Done", "type": "completed"},
				),
			},
		}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	states, err := c.FetchTeamStates(context.Background(), "team-1")
	require.NoError(t, err)
	require.Len(t, states, 2)
	assert.Equal(t, "Todo", states[0].Name)
	assert.Equal(t, "completed", states[1].Type)

	states, err = c.FetchTeamStates(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, states)
}

func TestFetchTeamLabels(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		return map[string]interface{}{
			"team": map[string]interface{}{
				"labels": nodes(
					map[string]interface{}{"id": "lbl-1", "name": "Bug"},
					map[string]interface{}{"id": "lbl-2", "name": "Feature"},
				),
			},
		}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	labels, err := c.FetchTeamLabels(context.Background(), "T1")
	require.NoError(t, err)
	require.Len(t, labels, 2)
	assert.Equal(t, "lbl-2", labels[1].ID)
	assert.Equal(t, "T1", fake.lastRequest(t).Variables["teamId"])
}

func TestFindIssueByTeamAndNumber(t *testing.T) {
	fake := &fakeLinear{respond: func(req graphqlRequest) interface{} {
		// JSON numbers decode as float64
		if req.Variables["teamKey"] == "OPS" && req.Variables["number"] == float64(42) {
			return map[string]interface{}{
				"issues": nodes(map[string]interface{}{
					"id":         "issue-uuid",
					"identifier": "OPS-42",
					"number":     42,
					"title":      "Fix the pager",
					"url":        "https://linear.app/acme/issue/OPS-42/fix-the-pager",
				}),
			}
		}
		return map[string]interface{}{"issues": nodes()}
	}}
	c := newTestClient(t, fake, "lin_api_test")

	issue, err := c.FindIssueByTeamAndNumber(context.Background(), "OPS", 42)
	require.NoError(t, err)
	require.NotNil(t, issue)
	assert.Equal(t, "issue-uuid", issue.ID)
	assert.Equal(t, "OPS-42", issue.Identifier)
	assert.Equal(t, 42, issue.Number)
	assert.True(t, strings.HasPrefix(issue.URL, "https://linear.app/"))

	issue, err = c.FindIssueByTeamAndNumber(context.Background(), "OPS", 7)
	require.NoError(t, err)
	assert.Nil(t, issue)
}

func TestGraphQLErrorsSurface(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"errors":[{"message":"Authentication required"}]}`))
	})
	c := newTestClient(t, handler, "lin_api_test")

	_, err := c.FindTeamByKey(context.Background(), "OPS")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to find team by key")
	assert.Contains(t, err.Error(), "Authentication required")
	assert.False(t, apperr.IsRateLimited(err))
}

func TestRateLimitSurfacesThroughClient(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Retry-After", "2")
		w.WriteHeader(http.StatusTooManyRequests)
	})
	c := newTestClient(t, handler, "lin_api_test")

	_, err := c.FetchTeamLabels(context.Background(), "T1")
	require.Error(t, err)
	require.True(t, apperr.IsRateLimited(err))

	wait, ok := apperr.RetryAfterHint(err)
	assert.True(t, ok)
	assert.Equal(t, 2*time.Second, wait)
}
