package probe

// PortPIDRecoverer finds the process bound to a TCP port, filtered by
// command-line hints, so a service started by a previous daemon instance
// (or externally) can be adopted into the state file. Implemented per-OS:
// pid_unix.go walks /proc on Linux; an implementer targeting Windows would
// slot in a netstat/tasklist-based recoverer behind this same interface.
type PortPIDRecoverer interface {
	// RecoverPID returns the pid of the process listening on port, or
	// (0, false) if none was found or none matched the hints. Fails
	// closed: if hints are non-empty but nothing matches, no PID is
	// returned even if some process does own the port.
	RecoverPID(port int, commandHints []string) (pid int, found bool)
}
