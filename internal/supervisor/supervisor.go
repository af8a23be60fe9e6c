// Package supervisor implements the Service Supervisor: process spawn,
// readiness polling, restart policies, crash handling, cross-instance
// reuse via the persisted state file, and port/PID recovery for backends
// started outside the daemon.
package supervisor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"mcpd/internal/config"
	"mcpd/internal/probe"
	"mcpd/internal/statestore"
	"mcpd/pkg/logging"
)

const stopGrace = 5 * time.Second

// entry is the supervisor's in-memory view of one managed service,
// covering both services it spawned and services it merely adopted a PID
// for (registerPid).
type entry struct {
	cfg     config.ServiceConfig
	cmd     *exec.Cmd // nil for adopted/registered-only entries
	pid     int
	stopped bool // true while an explicit Stop is suppressing the exit callback's restart
}

// Supervisor owns every process it spawns and the on-disk state file.
type Supervisor struct {
	mu        sync.Mutex
	processes map[string]*entry
	urls      map[string]string
	store     *statestore.Store
	recoverer probe.PortPIDRecoverer
}

func New(store *statestore.Store) *Supervisor {
	return &Supervisor{
		processes: make(map[string]*entry),
		urls:      make(map[string]string),
		store:     store,
		recoverer: probe.NewPortPIDRecoverer(),
	}
}

// GetState returns the persisted state for name, if any.
func (s *Supervisor) GetState(name string) (statestore.State, bool, error) {
	all, err := s.store.Load()
	if err != nil {
		return statestore.State{}, false, err
	}
	st, ok := all[name]
	return st, ok, nil
}

// GetAll returns the persisted state for every known service.
func (s *Supervisor) GetAll() (map[string]statestore.State, error) {
	return s.store.Load()
}

func (s *Supervisor) persist(name string, st statestore.State) error {
	return s.store.Put(name, st)
}

// Start brings up one service per the start algorithm: adopt a reachable
// reused/external process when possible, otherwise spawn.
func (s *Supervisor) Start(ctx context.Context, name string, cfg config.ServiceConfig) error {
	s.mu.Lock()
	s.urls[name] = cfg.URL
	if _, exists := s.processes[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("service %s already tracked by this supervisor", name)
	}
	s.mu.Unlock()

	if cfg.Transport == config.TransportSSE {
		if adopted, err := s.tryReuse(ctx, name, cfg); err != nil {
			return err
		} else if adopted {
			return nil
		}
		if adopted, err := s.tryAdoptExternal(ctx, name, cfg); err != nil {
			return err
		} else if adopted {
			return nil
		}
	}

	return s.spawn(ctx, name, cfg)
}

// tryReuse implements step 1: a previous daemon instance's live, reachable
// process for this service is adopted rather than respawned.
func (s *Supervisor) tryReuse(ctx context.Context, name string, cfg config.ServiceConfig) (bool, error) {
	all, err := s.store.Load()
	if err != nil {
		return false, err
	}
	prior, ok := all[name]
	if !ok || prior.PID == 0 || !probe.Alive(prior.PID) {
		return false, nil
	}
	if !probe.Reachable(ctx, cfg.ReadinessURLOrDefault()) {
		return false, nil
	}

	s.mu.Lock()
	s.processes[name] = &entry{cfg: cfg, pid: prior.PID}
	s.mu.Unlock()

	logging.Info("Supervisor", "reusing already-running service %s (pid %d)", name, prior.PID)
	return true, s.persist(name, statestore.State{State: statestore.StateReady, PID: prior.PID, URL: cfg.URL})
}

// tryAdoptExternal implements step 2: the readiness URL is reachable but
// there's no prior record, meaning something outside the daemon started
// this service. Recover its PID via the port, failing closed.
func (s *Supervisor) tryAdoptExternal(ctx context.Context, name string, cfg config.ServiceConfig) (bool, error) {
	if !probe.Reachable(ctx, cfg.ReadinessURLOrDefault()) {
		return false, nil
	}

	pid := 0
	if port, ok := portFromURL(cfg.URL); ok {
		hints := append([]string{cfg.Command}, cfg.Args...)
		if recovered, found := s.recoverer.RecoverPID(port, hints); found {
			pid = recovered
		}
	}

	s.mu.Lock()
	s.processes[name] = &entry{cfg: cfg, pid: pid}
	s.mu.Unlock()

	logging.Info("Supervisor", "adopting externally-started service %s (pid %d)", name, pid)
	return true, s.persist(name, statestore.State{State: statestore.StateReady, PID: pid, URL: cfg.URL})
}

// spawn forks the configured command, tracks it, and waits for readiness
// if applicable.
func (s *Supervisor) spawn(ctx context.Context, name string, cfg config.ServiceConfig) error {
	if err := s.persist(name, statestore.State{State: statestore.StateStarting, URL: cfg.URL}); err != nil {
		return err
	}

	cmd := exec.Command(cfg.Command, cfg.Args...)
	cmd.Dir = cfg.Cwd
	cmd.Env = mergeEnv(cfg.Env)
	probe.ConfigureProcessGroup(cmd)
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		_ = s.persist(name, statestore.State{State: statestore.StateError, URL: cfg.URL})
		return fmt.Errorf("spawn %s: %w", name, err)
	}

	ent := &entry{cfg: cfg, cmd: cmd, pid: cmd.Process.Pid}
	s.mu.Lock()
	s.processes[name] = ent
	s.mu.Unlock()

	logging.Audit(logging.AuditEvent{Action: "service_start", Outcome: "success", Service: name})
	go s.awaitExit(name, ent)

	if cfg.Transport == config.TransportSSE && cfg.Readiness.Check == "http" {
		readyCtx, cancel := context.WithTimeout(ctx, cfg.Readiness.Timeout)
		defer cancel()
		if err := probe.WaitReady(readyCtx, cfg.ReadinessURLOrDefault(), cfg.Readiness.Timeout, cfg.Readiness.Interval); err != nil {
			s.killOrphan(ent)
			_ = s.persist(name, statestore.State{State: statestore.StateError, PID: ent.pid, URL: cfg.URL})
			return fmt.Errorf("service %s: %w", name, err)
		}
	}

	return s.persist(name, statestore.State{State: statestore.StateReady, PID: ent.pid, URL: cfg.URL})
}

func (s *Supervisor) killOrphan(ent *entry) {
	if ent.cmd == nil || ent.cmd.Process == nil {
		return
	}
	_ = probe.KillProcessGroup(ent.pid, syscall.SIGKILL)
}

// awaitExit is attached at spawn time and drives the restart policy when
// the child terminates on its own.
func (s *Supervisor) awaitExit(name string, ent *entry) {
	err := ent.cmd.Wait()

	s.mu.Lock()
	current, tracked := s.processes[name]
	suppressRestart := !tracked || current.stopped
	s.mu.Unlock()
	if suppressRestart {
		return
	}

	priorState, _, stateErr := s.GetState(name)
	wasReady := stateErr == nil && priorState.State == statestore.StateReady

	if wasReady {
		logging.Audit(logging.AuditEvent{Action: "service_crash", Outcome: "failure", Service: name, Error: exitErrString(err)})
		_ = s.persist(name, statestore.State{State: statestore.StateError, URL: ent.cfg.URL})
	} else if exitFailed(err) {
		_ = s.persist(name, statestore.State{State: statestore.StateError, URL: ent.cfg.URL})
	} else {
		_ = s.persist(name, statestore.State{State: statestore.StateStopped, URL: ent.cfg.URL})
	}

	s.mu.Lock()
	delete(s.processes, name)
	s.mu.Unlock()

	switch ent.cfg.Restart {
	case config.RestartAlways:
		s.scheduleRestart(name, ent.cfg)
	case config.RestartOnFailure:
		if wasReady || exitFailed(err) {
			s.scheduleRestart(name, ent.cfg)
		}
	}
}

// scheduleRestart retries Start on a fresh goroutine so the exit callback
// itself never recurses in-line.
func (s *Supervisor) scheduleRestart(name string, cfg config.ServiceConfig) {
	go func() {
		if err := s.Start(context.Background(), name, cfg); err != nil {
			logging.Error("Supervisor", err, "restart of %s failed", name)
		}
	}()
}

// Stop halts one service: SIGTERM, a 5-second grace period, then SIGKILL.
// Stopping a service the supervisor isn't tracking is a no-op.
func (s *Supervisor) Stop(name string) error {
	s.mu.Lock()
	ent, ok := s.processes[name]
	if !ok {
		s.mu.Unlock()
		return nil
	}
	ent.stopped = true
	s.mu.Unlock()

	if ent.cmd != nil && ent.cmd.Process != nil {
		if err := probe.KillProcessGroup(ent.pid, syscall.SIGTERM); err != nil {
			logging.Debug("Supervisor", "SIGTERM to %s (pid %d) failed: %v", name, ent.pid, err)
		}

		done := make(chan error, 1)
		go func() { done <- ent.cmd.Wait() }()

		select {
		case <-done:
		case <-time.After(stopGrace):
			_ = probe.KillProcessGroup(ent.pid, syscall.SIGKILL)
			<-done
		}
	}

	s.mu.Lock()
	delete(s.processes, name)
	s.mu.Unlock()

	logging.Audit(logging.AuditEvent{Action: "service_stop", Outcome: "success", Service: name})
	return s.persist(name, statestore.State{State: statestore.StateStopped})
}

// Restart stops then starts a service with the same config.
func (s *Supervisor) Restart(ctx context.Context, name string, cfg config.ServiceConfig) error {
	if err := s.Stop(name); err != nil {
		return err
	}
	return s.Start(ctx, name, cfg)
}

// StartAll launches every service concurrently and rolls back (stops)
// every service that did succeed if any one of them failed.
func (s *Supervisor) StartAll(ctx context.Context, cfgs map[string]config.ServiceConfig) error {
	var g errgroup.Group
	started := make(chan string, len(cfgs))
	var failures []string
	var failMu sync.Mutex

	for name, cfg := range cfgs {
		name, cfg := name, cfg
		g.Go(func() error {
			if err := s.Start(ctx, name, cfg); err != nil {
				failMu.Lock()
				failures = append(failures, fmt.Sprintf("%s: %v", name, err))
				failMu.Unlock()
				return nil // collect all failures rather than cancel siblings early
			}
			started <- name
			return nil
		})
	}
	_ = g.Wait()
	close(started)

	if len(failures) > 0 {
		for name := range started {
			_ = s.Stop(name)
		}
		return fmt.Errorf("startAll failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// StopAll halts every tracked service.
func (s *Supervisor) StopAll() error {
	s.mu.Lock()
	names := make([]string, 0, len(s.processes))
	for name := range s.processes {
		names = append(names, name)
	}
	s.mu.Unlock()

	var failures []string
	for _, name := range names {
		if err := s.Stop(name); err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("stopAll failed: %s", strings.Join(failures, "; "))
	}
	return nil
}

// RegisterPID adopts an externally-known PID (e.g. a stdio backend the
// client adapter spawned itself) into the state map so ps/kill and reuse
// logic see one consistent record.
func (s *Supervisor) RegisterPID(name string, pid int, cfg config.ServiceConfig) error {
	s.mu.Lock()
	s.processes[name] = &entry{cfg: cfg, pid: pid}
	s.mu.Unlock()
	return s.persist(name, statestore.State{State: statestore.StateReady, PID: pid, URL: cfg.URL})
}

func mergeEnv(overrides map[string]string) []string {
	env := os.Environ()
	for k, v := range overrides {
		env = append(env, k+"="+v)
	}
	return env
}

func portFromURL(url string) (int, bool) {
	idx := strings.LastIndex(url, ":")
	if idx < 0 {
		return 0, false
	}
	portStr := url[idx+1:]
	portStr = strings.TrimRight(portStr, "/")
	if slash := strings.IndexByte(portStr, '/'); slash >= 0 {
		portStr = portStr[:slash]
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, false
	}
	return port, true
}

func exitFailed(err error) bool {
	if err == nil {
		return false
	}
	var exitErr *exec.ExitError
	if ok := asExitError(err, &exitErr); ok {
		return exitErr.ExitCode() != 0
	}
	return true
}

func asExitError(err error, target **exec.ExitError) bool {
	ee, ok := err.(*exec.ExitError)
	if ok {
		*target = ee
	}
	return ok
}

func exitErrString(err error) string {
	if err == nil {
		return "clean exit"
	}
	return err.Error()
}
