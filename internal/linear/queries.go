package linear

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"

	"github.com/h0rv/linbridge/internal/domain"
)

// FindTeamByKey returns the team with the exact key, or nil if none exists.
func (c *Client) FindTeamByKey(ctx context.Context, key string) (*domain.Team, error) {
	req := graphql.NewRequest(`
		query($key: String!) {
			teams(filter: { key: { eq: $key } }, first: 1) {
				nodes {
					id
					key
					name
				}
			}
		}
	`)
	req.Var("key", key)

	var resp struct {
		Teams struct {
			Nodes []struct {
				ID   string `json:"id"`
				Key  string `json:"key"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"teams"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to find team by key: %w", err)
	}

	if len(resp.Teams.Nodes) == 0 {
		return nil, nil
	}

	node := resp.Teams.Nodes[0]
	return &domain.Team{
		ID:   node.ID,
		Key:  node.Key,
		Name: node.Name,
	}, nil
}

// FindProjectsByNameAndTeam returns projects whose name matches exactly.
// When teamID is non-empty only projects accessible to that team are returned.
func (c *Client) FindProjectsByNameAndTeam(ctx context.Context, name string, teamID string) ([]domain.Project, error) {
	req := graphql.NewRequest(`
		query($filter: ProjectFilter, $first: Int!) {
			projects(filter: $filter, first: $first) {
				nodes {
					id
					name
				}
			}
		}
	`)

	filter := map[string]interface{}{
		"name": map[string]interface{}{"eq": name},
	}
	if teamID != "" {
		filter["accessibleTeams"] = map[string]interface{}{
			"some": map[string]interface{}{
				"id": map[string]interface{}{"eq": teamID},
			},
		}
	}
	req.Var("filter", filter)
	req.Var("first", 50)

	var resp struct {
		Projects struct {
			Nodes []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"nodes"`
		} `json:"projects"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to find projects: %w", err)
	}

	projects := make([]domain.Project, 0, len(resp.Projects.Nodes))
	for _, node := range resp.Projects.Nodes {
		projects = append(projects, domain.Project{
			ID:   node.ID,
			Name: node.Name,
		})
	}

	return projects, nil
}

// FindUserByEmail returns the user with the exact email, or nil if none exists.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	req := graphql.NewRequest(`
		query($email: String!) {
			users(filter: { email: { eq: $email } }, first: 1) {
				nodes {
					id
					email
					name
				}
			}
		}
	`)
	req.Var("email", email)

	var resp struct {
		Users struct {
			Nodes []struct {
				ID    string `json:"id"`
				Email string `json:"email"`
				Name  string `json:"name"`
			} `json:"nodes"`
		} `json:"users"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to find user by email: %w", err)
	}

	if len(resp.Users.Nodes) == 0 {
		return nil, nil
	}

	node := resp.Users.Nodes[0]
	return &domain.User{
		ID:    node.ID,
		Email: node.Email,
		Name:  node.Name,
	}, nil
}

// FetchTeamStates returns every workflow state of a team.
// Matching by name happens on the caller's side.
func (c *Client) FetchTeamStates(ctx context.Context, teamID string) ([]domain.WorkflowState, error) {
	req := graphql.NewRequest(`
		query($teamId: String!, $first: Int!) {
			team(id: $teamId) {
				states(first: $first) {
					nodes {
						id
						name
						type
					}
				}
			}
		}
	`)
	req.Var("teamId", teamID)
	req.Var("first", 250)

	var resp struct {
		Team *struct {
			States struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
					Type string `json:"type"`
				} `json:"nodes"`
			} `json:"states"`
		} `json:"team"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch team states: %w", err)
	}

	// Unknown team: no states to match against
	if resp.Team == nil {
		return nil, nil
	}

	states := make([]domain.WorkflowState, 0, len(resp.Team.States.Nodes))
	for _, node := range resp.Team.States.Nodes {
		states = append(states, domain.WorkflowState{
			ID:   node.ID,
			Name: node.Name,
			Type: node.Type,
		})
	}

	return states, nil
}

// FetchTeamLabels returns every issue label available to a team.
// Matching by name happens on the caller's side.
func (c *Client) FetchTeamLabels(ctx context.Context, teamID string) ([]domain.Label, error) {
	req := graphql.NewRequest(`
		query($teamId: String!, $first: Int!) {
			team(id: $teamId) {
				labels(first: $first) {
					nodes {
						id
						name
					}
				}
			}
		}
	`)
	req.Var("teamId", teamID)
	req.Var("first", 250)

	var resp struct {
		Team *struct {
			Labels struct {
				Nodes []struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"nodes"`
			} `json:"labels"`
		} `json:"team"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch team labels: %w", err)
	}

	if resp.Team == nil {
		return nil, nil
	}

	labels := make([]domain.Label, 0, len(resp.Team.Labels.Nodes))
	for _, node := range resp.Team.Labels.Nodes {
		labels = append(labels, domain.Label{
			ID:   node.ID,
			Name: node.Name,
		})
	}

	return labels, nil
}

// FindIssueByTeamAndNumber returns the issue with the given number in the
// team identified by teamKey, or nil if none exists.
func (c *Client) FindIssueByTeamAndNumber(ctx context.Context, teamKey string, number int) (*domain.Issue, error) {
	req := graphql.NewRequest(`
		query($teamKey: String!, $number: Float!) {
			issues(filter: { team: { key: { eq: $teamKey } }, number: { eq: $number } }, first: 1) {
				nodes {
					id
					identifier
					number
					title
					url
				}
			}
		}
	`)
	req.Var("teamKey", teamKey)
	req.Var("number", number)

	var resp struct {
		Issues struct {
			Nodes []struct {
				ID         string  `json:"id"`
				Identifier string  `json:"identifier"`
				Number     float64 `json:"number"`
				Title      string  `json:"title"`
				URL        string  `json:"url"`
			} `json:"nodes"`
		} `json:"issues"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("failed to find issue: %w", err)
	}

	if len(resp.Issues.Nodes) == 0 {
		return nil, nil
	}

	node := resp.Issues.Nodes[0]
	return &domain.Issue{
		ID:         node.ID,
		Identifier: node.Identifier,
		Number:     int(node.Number),
		Title:      node.Title,
		URL:        node.URL,
	}, nil
}
