package service

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/h0rv/linbridge/internal/config"
	"github.com/h0rv/linbridge/internal/linear"
	"github.com/h0rv/linbridge/internal/metrics"
	"github.com/h0rv/linbridge/internal/resolve"
	"github.com/h0rv/linbridge/internal/retry"
	"github.com/h0rv/linbridge/internal/store"
)

// FromConfig builds the full stack: Linear client, cache, resolver and retry
// executor. Collectors are registered on reg when it is non-nil.
func FromConfig(cfg config.Config, token string, reg prometheus.Registerer) (*Service, error) {
	client, err := linear.New(linear.Options{
		Endpoint: cfg.APIURL,
		Token:    token,
		Timeout:  cfg.RequestTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Linear client: %w", err)
	}

	m := metrics.New(reg)
	cache := store.New(store.WithTTL(cfg.CacheTTL))

	resolver := resolve.New(client, cache, resolve.WithMetrics(m))
	exec := retry.New(
		retry.WithPolicy(cfg.RetryPolicy()),
		retry.WithMetrics(m),
	)

	return New(resolver, exec), nil
}
