// Command smoke exercises the Linear client and resolver against the live API.
//
//	LINEAR_API_KEY=lin_api_... go run ./cmd/smoke OPS OPS-1
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/h0rv/linbridge/internal/auth"
	"github.com/h0rv/linbridge/internal/config"
	"github.com/h0rv/linbridge/internal/linear"
	"github.com/h0rv/linbridge/internal/service"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: smoke <TEAM-KEY> [TEAM-123]")
	}
	teamKey := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	token, err := auth.GetToken(cfg.APIKey)
	if err != nil {
		log.Fatal(err)
	}

	svc, err := service.FromConfig(cfg, token, nil)
	if err != nil {
		log.Fatal(err)
	}

	// Raw listings bypass the resolver
	client, err := linear.New(linear.Options{Endpoint: cfg.APIURL, Token: token, Timeout: cfg.RequestTimeout})
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()

	teamID, err := svc.ResolveTeam(ctx, teamKey)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("Team: %s ID=%s\n\n", teamKey, teamID)

	states, err := client.FetchTeamStates(ctx, teamID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("States (%d):\n", len(states))
	for _, s := range states {
		fmt.Printf("  - %s (type=%s, ID=%s)\n", s.Name, s.Type, s.ID)
	}

	labels, err := client.FetchTeamLabels(ctx, teamID)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nLabels (%d):\n", len(labels))
	names := make([]string, 0, len(labels))
	for _, l := range labels {
		fmt.Printf("  - %s (ID=%s)\n", l.Name, l.ID)
		names = append(names, l.Name)
	}

	// Round-trip every label name through the resolver: one fetch, then cache hits
	if len(names) > 0 {
		ids, err := svc.ResolveLabels(ctx, names, teamID)
		if err != nil {
			log.Fatal(err)
		}
		again, err := svc.ResolveLabels(ctx, names, teamID)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("\nResolved %d labels, second pass %d (cache: %v)\n",
			len(ids), len(again), svc.CacheStats().Entries)
	}

	if len(os.Args) < 3 {
		return
	}

	issue, err := svc.LookupIssue(ctx, os.Args[2])
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nIssue %s: %s\n  ID=%s\n  %s\n", issue.Identifier, issue.Title, issue.ID, issue.URL)
}
