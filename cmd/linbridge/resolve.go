package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/h0rv/linbridge/internal/render"
	"github.com/h0rv/linbridge/internal/service"
)

var teamFlag string

func newResolveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve one identifier and print its Linear ID",
	}

	cmd.PersistentFlags().StringVar(&teamFlag, "team", "", "Team key or ID scoping the lookup (required for state and labels).")

	cmd.AddCommand(
		resolveOne("team <key>", "Resolve a team key", func(ctx context.Context, svc *service.Service, arg string) (string, error) {
			return svc.ResolveTeam(ctx, arg)
		}),
		resolveOne("project <name>", "Resolve a project name", func(ctx context.Context, svc *service.Service, arg string) (string, error) {
			teamID, err := scopeTeam(ctx, svc)
			if err != nil {
				return "", err
			}
			return svc.ResolveProject(ctx, arg, teamID)
		}),
		resolveOne("user <email>", "Resolve a user email", func(ctx context.Context, svc *service.Service, arg string) (string, error) {
			return svc.ResolveUser(ctx, arg)
		}),
		resolveOne("state <name>", "Resolve a workflow state name within --team", func(ctx context.Context, svc *service.Service, arg string) (string, error) {
			teamID, err := scopeTeam(ctx, svc)
			if err != nil {
				return "", err
			}
			return svc.ResolveState(ctx, arg, teamID)
		}),
		resolveOne("issue <TEAM-123>", "Resolve an issue identifier", func(ctx context.Context, svc *service.Service, arg string) (string, error) {
			return svc.ResolveIssueID(ctx, arg)
		}),
		newResolveLabelsCmd(),
	)
	return cmd
}

type resolveFunc func(ctx context.Context, svc *service.Service, arg string) (string, error)

func resolveOne(use, short string, fn resolveFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, svc, err := setup(cmd.Context(), nil)
			if err != nil {
				return err
			}

			id, err := fn(ctx, svc, args[0])
			if err != nil {
				return err
			}
			render.Resolution(cmd.OutOrStdout(), cmd.Name(), args[0], id)
			return nil
		},
	}
}

func newResolveLabelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "labels <name>...",
		Short: "Resolve label names within --team",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, svc, err := setup(cmd.Context(), nil)
			if err != nil {
				return err
			}

			teamID, err := scopeTeam(ctx, svc)
			if err != nil {
				return err
			}
			ids, err := svc.ResolveLabels(ctx, args, teamID)
			if err != nil {
				return err
			}
			render.Labels(cmd.OutOrStdout(), args, ids)
			return nil
		},
	}
}

// scopeTeam resolves --team, which may be a key or an ID.
func scopeTeam(ctx context.Context, svc *service.Service) (string, error) {
	if teamFlag == "" {
		return "", nil
	}
	return svc.ResolveTeam(ctx, teamFlag)
}
