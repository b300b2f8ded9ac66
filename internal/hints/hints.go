// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-officepool/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForOfficeHome returns hints for a missing or invalid office installation.
func ForOfficeHome() string {
	var hints []string

	if os.Getenv("OFFICE_HOME") == "" {
		hints = append(hints, "set OFFICE_HOME or use --office-home")
	} else {
		hints = append(hints, "OFFICE_HOME must point to the installation root, not to program/")
	}
	if IsInContainer() {
		hints = append(hints, "install libreoffice-core in the image")
	}

	return formatHints(hints)
}

// ForWorkerStart returns hints for workers that failed to come up.
// Elevated launches get a sudo-specific hint.
func ForWorkerStart(runAs []string) string {
	hints := []string{"check that no other program listens on the worker ports"}

	if len(runAs) > 0 && runAs[0] == "sudo" {
		hints = append(hints, "sudo needs -n and a NOPASSWD rule for non-interactive use")
	}
	hints = append(hints, "raise --retry-timeout on slow machines")

	return formatHints(hints)
}

// ForWorkerRunning returns a hint for endpoints already bound by a leftover
// office process.
func ForWorkerRunning() string {
	return format("stop the leftover office process or pick other --ports")
}

// ForQueueTimeout returns a hint for tasks that waited too long for a worker.
func ForQueueTimeout() string {
	return format("add workers with --workers or raise --queue-timeout")
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/go-officepool/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/go-officepool) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/go-officepool") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForWorkDir returns hints for an unusable work directory.
func ForWorkDir() string {
	return format("create the directory first; it must be writable by the office user")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
