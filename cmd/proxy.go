package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mcpd/internal/config"
	"mcpd/internal/proxy"
	"mcpd/pkg/logging"
)

func newProxyCmd() *cobra.Command {
	var port int
	var name string
	var restart string

	cmd := &cobra.Command{
		Use:   "proxy -p <port> [-n <name>] [--restart <policy>] -- <cmd> <args...>",
		Short: "Run the stdio<->SSE proxy for a single backend",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runProxy(c.Context(), port, name, config.RestartPolicy(restart), args[0], args[1:])
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (required)")
	cmd.Flags().StringVarP(&name, "name", "n", "", "proxy name (default: command basename)")
	cmd.Flags().StringVar(&restart, "restart", string(config.RestartOnFailure), "restart policy: on-failure | always | never")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func runProxy(ctx context.Context, port int, name string, restart config.RestartPolicy, command string, args []string) error {
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := proxy.New(name, command, args, restart)
	effectivePort, err := p.Start(ctx, "0.0.0.0", port)
	if err != nil {
		return fmt.Errorf("start proxy: %w", err)
	}

	logging.Info("Proxy", "%s listening on port %d", p.Name, effectivePort)
	<-ctx.Done()
	p.Shutdown(context.Background())
	return nil
}
