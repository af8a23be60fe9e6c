package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"mcpd/internal/aggregator"
	"mcpd/internal/client"
	"mcpd/internal/config"
	"mcpd/internal/middleware"
	"mcpd/internal/statestore"
	"mcpd/internal/supervisor"
	"mcpd/pkg/logging"
)

func newStartCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Load config, supervise backends, and serve the aggregated tool surface over stdio",
		RunE: func(c *cobra.Command, args []string) error {
			return runStart(c.Context(), configPath, watch)
		},
	}
	cmd.Flags().BoolVar(&watch, "watch", false, "reconcile the managed service set when mcpd.yml changes")
	return cmd
}

// runStart is the daemon itself: it loads config, brings up every declared
// backend, aggregates their tools behind a single MCP server on stdio, and
// blocks until a shutdown signal arrives.
func runStart(ctx context.Context, explicitConfigPath string, watch bool) error {
	logging.InitForCLI(logging.LevelInfo, os.Stderr)

	cfg, path, err := config.Load(explicitConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := writePIDFile(config.PIDFilePath(path)); err != nil {
		logging.Warn("Start", "writing pid file: %v", err)
	}
	defer os.Remove(config.PIDFilePath(path))

	store := statestore.New(config.StateFilePath(path))
	sup := supervisor.New(store)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	agg := aggregator.New()
	pipelines := make(map[string][]middleware.Middleware, len(cfg.Services))
	var connected []string

	// Stdout carries the stdio MCP protocol once serving begins, so any
	// startup progress indicator must write to stderr instead.
	startupSpinner := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	startupSpinner.Suffix = " starting backends..."
	startupSpinner.Start()

	for name, svc := range cfg.Services {
		if svc.Transport == config.TransportSSE || svc.Transport == "" {
			if err := sup.Start(ctx, name, svc); err != nil {
				logging.Error("Start", err, "starting service %s", name)
				continue
			}
		}

		backend, err := client.NewFromServiceConfig(svc)
		if err != nil {
			logging.Error("Start", err, "building client for %s", name)
			continue
		}
		if err := backend.Initialize(ctx); err != nil {
			logging.Error("Start", err, "connecting to %s", name)
			continue
		}
		if svc.Transport == config.TransportStdio {
			if err := sup.RegisterPID(name, backend.PID(), svc); err != nil {
				logging.Warn("Start", "registering pid for %s: %v", name, err)
			}
		}

		if err := agg.AddBackend(ctx, name, backend, svc.ExcludeTools); err != nil {
			logging.Error("Start", err, "registering backend %s", name)
			continue
		}
		pipelines[name] = middleware.BuildPipeline(svc.Middleware.Response)
		connected = append(connected, name)
	}
	startupSpinner.Stop()

	if watch {
		startConfigWatch(ctx, path, sup, cfg)
	}

	logging.Info("Start", "serving %d backend(s) on stdio", len(connected))
	front := aggregator.NewFrontServer(agg, pipelines)
	serveErr := front.Serve(ctx)

	shutdownSupervised(sup, cfg)

	if serveErr != nil && ctx.Err() == nil {
		return fmt.Errorf("front server: %w", serveErr)
	}
	return nil
}

// startConfigWatch reconciles the supervisor's managed service set whenever
// mcpd.yml changes: newly declared services are started, removed ones are
// stopped. Already-connected backends keep serving their existing tool
// listing on the live stdio session; picking up added/removed tools there
// requires a fresh session, so this only reconciles process lifecycle.
func startConfigWatch(ctx context.Context, path string, sup *supervisor.Supervisor, cfg *config.Config) {
	changed := make(chan struct{}, 1)
	stopWatch := make(chan struct{})
	go func() { <-ctx.Done(); close(stopWatch) }()

	if err := config.Watch(path, changed, stopWatch); err != nil {
		logging.Warn("Start", "config watch disabled: %v", err)
		return
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changed:
				reconcile(ctx, path, sup, cfg)
			}
		}
	}()
}

func reconcile(ctx context.Context, path string, sup *supervisor.Supervisor, cfg *config.Config) {
	newCfg, _, err := config.Load(path)
	if err != nil {
		logging.Warn("Start", "config reload failed, keeping previous config: %v", err)
		return
	}

	for name, svc := range newCfg.Services {
		if _, existed := cfg.Services[name]; existed {
			continue
		}
		if svc.Transport == config.TransportSSE || svc.Transport == "" {
			if err := sup.Start(ctx, name, svc); err != nil {
				logging.Error("Start", err, "starting newly-declared service %s", name)
				continue
			}
		}
		logging.Info("Start", "reconcile: added service %s", name)
	}

	for name := range cfg.Services {
		if _, stillDeclared := newCfg.Services[name]; stillDeclared {
			continue
		}
		if err := sup.Stop(name); err != nil {
			logging.Warn("Start", "reconcile: stopping removed service %s: %v", name, err)
		}
		logging.Info("Start", "reconcile: removed service %s", name)
	}

	*cfg = *newCfg
}

// shutdownSupervised stops every service not marked keep_alive, leaving the
// rest running for the next daemon instance to reuse.
func shutdownSupervised(sup *supervisor.Supervisor, cfg *config.Config) {
	for name, svc := range cfg.Services {
		if svc.KeepAliveOrDefault() {
			continue
		}
		if err := sup.Stop(name); err != nil {
			logging.Warn("Start", "stopping %s: %v", name, err)
		}
	}
}

func writePIDFile(path string) error {
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}
