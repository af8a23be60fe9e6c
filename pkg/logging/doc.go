// Package logging wraps log/slog with a subsystem-tagged API used across
// mcpd's daemon, CLI, and proxy binaries.
//
//	logging.InitForCLI(logging.LevelInfo, os.Stderr)
//	logging.Info("Supervisor", "starting service %s", name)
//	logging.Error("Supervisor", err, "readiness probe failed for %s", name)
//
// Audit records one line per service lifecycle transition, prefixed
// [AUDIT] so it can be grepped out of the regular log stream.
package logging
