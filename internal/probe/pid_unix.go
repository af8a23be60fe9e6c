//go:build !windows

package probe

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ProcPIDRecoverer recovers a port's owning pid by walking /proc. It has no
// macOS-specific support (macOS has no /proc), so on Darwin RecoverPID
// always reports not-found; the supervisor then still adopts the reachable
// service as ready, with no pid recorded.
type ProcPIDRecoverer struct{}

func NewPortPIDRecoverer() PortPIDRecoverer {
	return ProcPIDRecoverer{}
}

func (ProcPIDRecoverer) RecoverPID(port int, commandHints []string) (int, bool) {
	inode, ok := findSocketInode(port)
	if !ok {
		return 0, false
	}

	procDirs, err := os.ReadDir("/proc")
	if err != nil {
		return 0, false
	}

	for _, entry := range procDirs {
		pid, err := strconv.Atoi(entry.Name())
		if err != nil {
			continue
		}
		if !pidOwnsInode(pid, inode) {
			continue
		}
		if len(commandHints) > 0 && !commandMatchesHints(pid, commandHints) {
			return 0, false // fail closed: hints given, none matched
		}
		return pid, true
	}
	return 0, false
}

// findSocketInode scans /proc/net/tcp and /proc/net/tcp6 for a listening
// socket bound to port, returning its inode number.
func findSocketInode(port int) (string, bool) {
	hexPort := strings.ToUpper(fmt.Sprintf("%04x", port))
	for _, path := range []string{"/proc/net/tcp", "/proc/net/tcp6"} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		lines := strings.Split(string(data), "\n")
		for _, line := range lines[1:] {
			fields := strings.Fields(line)
			if len(fields) < 10 {
				continue
			}
			localAddr := fields[1]
			parts := strings.Split(localAddr, ":")
			if len(parts) != 2 || parts[1] != hexPort {
				continue
			}
			const stateListen = "0A"
			if fields[3] != stateListen {
				continue
			}
			return fields[9], true
		}
	}
	return "", false
}

// pidOwnsInode checks whether pid has an open file descriptor referencing
// the given socket inode.
func pidOwnsInode(pid int, inode string) bool {
	fdDir := fmt.Sprintf("/proc/%d/fd", pid)
	entries, err := os.ReadDir(fdDir)
	if err != nil {
		return false
	}
	want := fmt.Sprintf("socket:[%s]", inode)
	for _, entry := range entries {
		link, err := os.Readlink(filepath.Join(fdDir, entry.Name()))
		if err != nil {
			continue
		}
		if link == want {
			return true
		}
	}
	return false
}

// commandMatchesHints reports whether pid's command line contains any of
// the given hints (drawn from cfg.command and cfg.args).
func commandMatchesHints(pid int, hints []string) bool {
	data, err := os.ReadFile(fmt.Sprintf("/proc/%d/cmdline", pid))
	if err != nil {
		return false
	}
	cmdline := strings.ReplaceAll(string(data), "\x00", " ")
	for _, hint := range hints {
		if hint == "" {
			continue
		}
		if strings.Contains(cmdline, hint) {
			return true
		}
	}
	return false
}
