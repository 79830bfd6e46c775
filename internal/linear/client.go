// Package linear provides a GraphQL client for the Linear API.
// It implements the lookups identifier resolution needs: simple methods
// hiding the GraphQL queries and the rate-limit handling of the transport.
package linear

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/machinebox/graphql"
)

// DefaultEndpoint is Linear's public GraphQL endpoint.
const DefaultEndpoint = "https://api.linear.app/graphql"

// oauthTokenPrefix marks OAuth access tokens, which use the Bearer scheme.
// Personal API keys are sent as-is.
const oauthTokenPrefix = "lin_oauth_"

// Options configures a Client.
type Options struct {
	// Endpoint defaults to DefaultEndpoint.
	Endpoint string
	// Token is a personal API key or an OAuth access token.
	Token string
	// Timeout bounds a single HTTP round trip. Zero means no limit.
	Timeout time.Duration
	// Transport is the base round tripper. Defaults to http.DefaultTransport.
	Transport http.RoundTripper
}

// Client is a Linear GraphQL API client.
type Client struct {
	gql           *graphql.Client
	authorization string
}

// New creates a new Linear GraphQL client.
// Returns an error if no token is configured.
func New(opts Options) (*Client, error) {
	if strings.TrimSpace(opts.Token) == "" {
		return nil, fmt.Errorf("linear API token is required")
	}

	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	httpClient := &http.Client{
		Timeout:   opts.Timeout,
		Transport: NewRateLimitTransport(opts.Transport),
	}

	return &Client{
		gql:           graphql.NewClient(endpoint, graphql.WithHTTPClient(httpClient)),
		authorization: authorizationHeader(opts.Token),
	}, nil
}

func authorizationHeader(token string) string {
	token = strings.TrimSpace(token)
	if strings.HasPrefix(token, oauthTokenPrefix) {
		return "Bearer " + token
	}
	return token
}

// makeRequest executes a GraphQL request with authentication.
func (c *Client) makeRequest(ctx context.Context, req *graphql.Request, resp interface{}) error {
	req.Header.Set("Authorization", c.authorization)
	return c.gql.Run(ctx, req, resp)
}
