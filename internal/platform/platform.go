// Package platform provides platform-specific defaults for the deploy hook:
// the shared deploy log location and how to signal a service reload.
package platform

import (
	"fmt"
	"runtime"

	"github.com/ksyq12/certdeploy/internal/executor"
)

// Helper binaries the file-transfer targets shell out to.
var helperBinaries = []string{"rsync", "ssh", "systemctl", "service"}

// DefaultLogFile returns the platform default for the shared deploy log.
func DefaultLogFile() string {
	switch runtime.GOOS {
	case "darwin":
		return "/usr/local/var/log/certdeploy.log"
	default:
		return "/var/log/certdeploy.log"
	}
}

// ReloadCommand returns the command line that signals a service to reload,
// preferring systemctl when available.
func ReloadCommand(exec executor.CommandExecutor, service string) []string {
	if _, err := exec.LookPath("systemctl"); err == nil {
		return []string{"systemctl", "reload", service}
	}
	return []string{"service", service, "reload"}
}

// MissingBinaries reports which helper binaries are not on PATH.
// Only informational: a lineage that configures no transfer target never
// needs them.
func MissingBinaries(exec executor.CommandExecutor) []string {
	var missing []string
	for _, bin := range helperBinaries {
		if _, err := exec.LookPath(bin); err != nil {
			missing = append(missing, bin)
		}
	}
	return missing
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
