// Package auth provides Linear API credential management.
// Callers ask for a token once; the providers decide where it comes from.
package auth

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvVar is the environment variable holding a Linear API key.
const EnvVar = "LINEAR_API_KEY"

// TokenProvider defines the interface for obtaining a Linear API token.
type TokenProvider interface {
	GetToken() (string, error)
}

// StaticProvider returns a token supplied on the command line or in config.
type StaticProvider struct {
	Token string
}

// GetToken returns the configured token, or an error when it is blank.
func (s *StaticProvider) GetToken() (string, error) {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return "", errors.New("no token given via --api-key")
	}
	return token, nil
}

// EnvProvider obtains tokens from the LINEAR_API_KEY environment variable.
type EnvProvider struct{}

// GetToken reads the LINEAR_API_KEY environment variable.
// Returns an error if the variable is not set or is empty.
func (e *EnvProvider) GetToken() (string, error) {
	token := strings.TrimSpace(os.Getenv(EnvVar))
	if token == "" {
		return "", fmt.Errorf("%s environment variable not set or empty", EnvVar)
	}
	return token, nil
}

// GetToken obtains a Linear token using the following strategy:
// 1. Use the explicit token if one was given
// 2. Fall back to the LINEAR_API_KEY environment variable
// 3. Return a clear, actionable error if both fail
func GetToken(explicit string) (string, error) {
	return firstToken(&StaticProvider{Token: explicit}, &EnvProvider{})
}

func firstToken(providers ...TokenProvider) (string, error) {
	var errs []string
	for _, p := range providers {
		token, err := p.GetToken()
		if err == nil {
			return token, nil
		}
		errs = append(errs, err.Error())
	}

	return "", fmt.Errorf(
		"failed to obtain Linear API key: %s.\n"+
			"Please either:\n"+
			"  1. Pass --api-key with a personal API key, or\n"+
			"  2. Set the %s environment variable (create a key under Settings > Security & access)",
		strings.Join(errs, "; "), EnvVar,
	)
}
