//go:build windows

package runner

import "os"

// Windows has no SIGTERM for child processes; kill directly.
func interrupt(p *os.Process) error {
	if p == nil {
		return nil
	}
	return p.Kill()
}
