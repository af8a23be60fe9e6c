package cmd

import (
	"fmt"
	"syscall"

	"github.com/spf13/cobra"

	"mcpd/internal/config"
	"mcpd/internal/statestore"
	"mcpd/pkg/logging"
)

func newKillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "kill [name|all]",
		Short: "SIGTERM the tracked pid(s)",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runKill(configPath, args[0])
		},
	}
}

func runKill(explicitConfigPath, target string) error {
	_, path, err := config.Load(explicitConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	store := statestore.New(config.StateFilePath(path))
	all, err := store.Load()
	if err != nil {
		return fmt.Errorf("read state: %w", err)
	}

	if target == "all" {
		for name, st := range all {
			killTracked(name, st)
		}
		return nil
	}

	st, ok := all[target]
	if !ok {
		return fmt.Errorf("unknown service %q", target)
	}
	killTracked(target, st)
	return nil
}

func killTracked(name string, st statestore.State) {
	if st.PID == 0 {
		logging.Warn("Kill", "%s has no tracked pid", name)
		return
	}
	if err := syscall.Kill(st.PID, syscall.SIGTERM); err != nil {
		logging.Warn("Kill", "signaling %s (pid %d): %v", name, st.PID, err)
		return
	}
	logging.Info("Kill", "sent SIGTERM to %s (pid %d)", name, st.PID)
}
