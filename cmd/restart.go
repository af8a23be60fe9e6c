package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"mcpd/internal/config"
	"mcpd/internal/statestore"
	"mcpd/internal/supervisor"
	"mcpd/pkg/logging"
)

func newRestartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "restart [name|all]",
		Short: "Kill tracked pid(s), wait, and restart SSE services under supervision",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runRestart(c.Context(), configPath, args[0])
		},
	}
}

func runRestart(ctx context.Context, explicitConfigPath, target string) error {
	cfg, path, err := config.Load(explicitConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	names, err := killTargets(path, target)
	if err != nil {
		return err
	}

	time.Sleep(1 * time.Second)

	store := statestore.New(config.StateFilePath(path))
	sup := supervisor.New(store)
	for _, name := range names {
		svc := cfg.Services[name]
		if svc.Transport != config.TransportSSE && svc.Transport != "" {
			continue
		}
		if err := sup.Start(ctx, name, svc); err != nil {
			logging.Error("Restart", err, "restarting %s", name)
		}
	}
	return nil
}

// killTargets runs the kill step of a restart and returns the service
// name(s) that should then be brought back up.
func killTargets(statePath, target string) ([]string, error) {
	store := statestore.New(config.StateFilePath(statePath))
	all, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	if target == "all" {
		names := make([]string, 0, len(all))
		for name, st := range all {
			killTracked(name, st)
			names = append(names, name)
		}
		return names, nil
	}

	st, ok := all[target]
	if !ok {
		return nil, fmt.Errorf("unknown service %q", target)
	}
	killTracked(target, st)
	return []string{target}, nil
}
