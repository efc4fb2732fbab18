package main

import (
	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "conferenced",
		Short:        "Conference Central backend",
		Long:         `Conference Central organizes conferences, their sessions and attendee registrations over a JSON HTTP API.`,
		Version:      version,
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newTokenCmd())
	return root
}
