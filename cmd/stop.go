package cmd

import (
	"github.com/spf13/cobra"
)

func newStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "SIGTERM every tracked pid (equivalent to kill all)",
		RunE: func(c *cobra.Command, args []string) error {
			return runKill(configPath, "all")
		},
	}
}
