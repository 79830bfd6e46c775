package main

import (
	"fmt"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/h0rv/linbridge/internal/render"
)

var printOnlyFlag bool

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <TEAM-123>",
		Short: "Open an issue in the browser",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, _, svc, err := setup(cmd.Context(), nil)
			if err != nil {
				return err
			}

			issue, err := svc.LookupIssue(ctx, args[0])
			if err != nil {
				return err
			}

			render.Issue(cmd.OutOrStdout(), issue, render.DefaultWidth)
			if printOnlyFlag || issue.URL == "" {
				return nil
			}
			if err := browser.OpenURL(issue.URL); err != nil {
				return fmt.Errorf("failed to open browser: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&printOnlyFlag, "print", false, "Print the issue without opening a browser.")
	return cmd
}
