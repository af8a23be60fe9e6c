package cmd

import (
	"context"
	"fmt"
	"os/exec"
	"sort"

	"github.com/spf13/cobra"

	"mcpd/internal/config"
	"mcpd/internal/probe"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Validate the config and report per-service reachability without changing any state",
		RunE: func(c *cobra.Command, args []string) error {
			return runDoctor(c, configPath)
		},
	}
}

func runDoctor(c *cobra.Command, explicitConfigPath string) error {
	cfg, path, err := config.Load(explicitConfigPath)
	if err != nil {
		fmt.Fprintf(c.OutOrStdout(), "config: FAIL (%s)\n  %v\n", path, err)
		return err
	}
	fmt.Fprintf(c.OutOrStdout(), "config: OK (%s)\n", path)

	names := make([]string, 0, len(cfg.Services))
	for name := range cfg.Services {
		names = append(names, name)
	}
	sort.Strings(names)

	ctx := c.Context()
	for _, name := range names {
		svc := cfg.Services[name]
		fmt.Fprintf(c.OutOrStdout(), "%s:\n", name)
		diagnoseService(ctx, c, svc)
	}
	return nil
}

func diagnoseService(ctx context.Context, c *cobra.Command, svc config.ServiceConfig) {
	switch svc.Transport {
	case config.TransportStdio:
		if _, err := exec.LookPath(svc.Command); err != nil {
			fmt.Fprintf(c.OutOrStdout(), "  command %q: NOT FOUND\n", svc.Command)
			return
		}
		fmt.Fprintf(c.OutOrStdout(), "  command %q: OK\n", svc.Command)
	default:
		url := svc.ReadinessURLOrDefault()
		if url == "" {
			fmt.Fprintln(c.OutOrStdout(), "  url: (none configured)")
			return
		}
		if probe.Reachable(ctx, url) {
			fmt.Fprintf(c.OutOrStdout(), "  %s: reachable\n", url)
		} else {
			fmt.Fprintf(c.OutOrStdout(), "  %s: unreachable\n", url)
		}
	}
}
