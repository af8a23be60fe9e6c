// Package cmd implements mcpd's command-line surface: start runs the
// daemon itself, the remaining commands operate on the state file and
// tracked PIDs a running (or previously running) daemon left behind.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// Exit codes shared by every subcommand.
const (
	ExitCodeSuccess = 0
	ExitCodeError   = 1
)

var configPath string

// rootCmd is the entry point when mcpd is invoked with no subcommand,
// which is equivalent to invoking "start".
var rootCmd = &cobra.Command{
	Use:   "mcpd",
	Short: "Aggregate and route calls across MCP backend services",
	Long: `mcpd supervises a set of MCP backend services declared in mcpd.yml,
exposes their combined tool surface as a single MCP server over stdio,
and can republish a single stdio backend over HTTP/SSE.`,
	SilenceUsage: true,
	RunE: func(c *cobra.Command, args []string) error {
		return runStart(c.Context(), configPath, false)
	},
}

// SetVersion sets the version for the root command, injected at build time.
func SetVersion(v string) {
	rootCmd.Version = v
}

// Execute runs the root command and exits the process with the
// appropriate code. Called from main.main().
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "mcpd version %s\n" .Version}}`)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(ExitCodeError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to mcpd.yml (default: ./mcpd.yml, then ~/.config/mcpd/config.yml)")

	rootCmd.AddCommand(newStartCmd())
	rootCmd.AddCommand(newPsCmd())
	rootCmd.AddCommand(newKillCmd())
	rootCmd.AddCommand(newRestartCmd())
	rootCmd.AddCommand(newStopCmd())
	rootCmd.AddCommand(newProxyCmd())
	rootCmd.AddCommand(newDoctorCmd())
	rootCmd.AddCommand(newVersionCmd())
}
