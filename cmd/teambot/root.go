package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:   "teambot",
		Short: "Slack bot routing questions and knowledge registrations to team contexts",
		Long: `teambot answers Slack mentions with team-scoped generated responses and
runs the review/approve workflow that appends vetted knowledge items to each
team's CLAUDE.md document.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to YAML config file")
	root.AddCommand(newServeCommand(&configPath))
	return root
}
