// Command conference runs the Conference Central API, its background worker
// and its database migrations.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "conference",
	Short:        "Conference Central API",
	Long:         `Manage conferences, sessions, speakers and attendee profiles over a JSON API.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
