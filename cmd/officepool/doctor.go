package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	officepool "github.com/alnah/go-officepool"
	"github.com/alnah/go-officepool/internal/fileutil"
	"github.com/alnah/go-officepool/internal/process"
)

// versionTimeout bounds "soffice --version", which starts a full office
// process on some installations.
const versionTimeout = 15 * time.Second

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string      `json:"status"` // "ready", "warnings", "errors"
	Office   officeInfo  `json:"office"`
	Process  processInfo `json:"process"`
	Env      envInfo     `json:"environment"`
	System   systemInfo  `json:"system"`
	Warnings []string    `json:"warnings,omitempty"`
	Errors   []string    `json:"errors,omitempty"`
}

// officeInfo holds office installation detection results.
type officeInfo struct {
	Found      bool   `json:"found"`
	Home       string `json:"home,omitempty"`
	Executable string `json:"executable,omitempty"`
	Version    string `json:"version,omitempty"`
}

// processInfo holds process-inspection strategy results.
type processInfo struct {
	Strategy string `json:"strategy"`
	Enhanced bool   `json:"enhanced"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS            string `json:"os"`
	Arch          string `json:"arch"`
	Container     bool   `json:"container"`
	ContainerHint string `json:"container_hint,omitempty"`
	CI            bool   `json:"ci"`
	OfficeHome    string `json:"office_home_env"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
	CPUs         int  `json:"cpus"`
	AutoWorkers  int  `json:"auto_workers"`
}

// runDoctorCmd executes the doctor command and returns an exit code.
// Exit codes: 0 = OK (including warnings), 1 = errors found.
func runDoctorCmd(args []string, env *Environment) int {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env.Getenv)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return ExitGeneral
	}
	return ExitSuccess
}

// runDoctor performs all diagnostic checks.
func runDoctor(getenv func(string) string) *doctorResult {
	result := &doctorResult{
		Status: "ready",
		Env: envInfo{
			OS:         runtime.GOOS,
			Arch:       runtime.GOARCH,
			OfficeHome: getenv("OFFICE_HOME"),
		},
	}

	checkOffice(result)
	checkProcess(result)
	checkEnvironment(result, getenv)
	checkSystem(result)

	// Determine final status
	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}

	return result
}

// checkOffice detects the office installation and its version.
func checkOffice(result *doctorResult) {
	home := officepool.DefaultOfficeHome()
	if home == "" {
		result.Errors = append(result.Errors,
			"Office installation not found. Install LibreOffice or set OFFICE_HOME")
		return
	}
	result.Office.Home = home

	exe := officepool.OfficeExecutable(home)
	if !fileutil.FileExists(exe) {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Office executable not found at %s", exe))
		return
	}
	result.Office.Found = true
	result.Office.Executable = exe

	ctx, cancel := context.WithTimeout(context.Background(), versionTimeout)
	defer cancel()
	out, err := exec.CommandContext(ctx, exe, "--version").Output() // #nosec G204 -- executable from detected office home
	if err == nil {
		result.Office.Version = strings.TrimSpace(string(out))
	} else {
		result.Warnings = append(result.Warnings,
			fmt.Sprintf("Could not get office version: %v", err))
	}
}

// checkProcess reports which inspection strategy a pool would use.
func checkProcess(result *doctorResult) {
	result.Process.Enhanced = process.EnhancedAvailable()
	result.Process.Strategy = process.NewResolver().Resolve(nil).Name()

	if result.Process.Strategy == "portable" && runtime.GOOS == "windows" {
		result.Warnings = append(result.Warnings,
			"Process inspection unavailable: leftover office processes cannot be detected")
	}
}

// checkEnvironment detects container and CI environments.
func checkEnvironment(result *doctorResult, getenv func(string) string) {
	// Detect container (multi-signal approach)
	result.Env.Container, result.Env.ContainerHint = isContainer(getenv)

	// Detect CI environments
	ciVars := []string{"CI", "GITHUB_ACTIONS", "GITLAB_CI", "JENKINS_URL", "CIRCLECI"}
	for _, v := range ciVars {
		if getenv(v) != "" {
			result.Env.CI = true
			break
		}
	}

	// Containers rarely ship office in a standard location
	if result.Env.Container && result.Env.OfficeHome == "" && !result.Office.Found {
		result.Warnings = append(result.Warnings,
			"Container detected but OFFICE_HOME not set. Set OFFICE_HOME to the installation root")
	}
}

// isContainer detects if running in a container environment.
// Returns (isContainer, hint) where hint indicates which signal was detected.
func isContainer(getenv func(string) string) (bool, string) {
	// Explicit override (highest priority)
	if getenv("OFFICEPOOL_CONTAINER") == "1" {
		return true, "OFFICEPOOL_CONTAINER=1"
	}
	// Docker
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true, "/.dockerenv"
	}
	// Podman / systemd-nspawn / general container indicator
	if v := getenv("container"); v != "" {
		return true, "container=" + v
	}
	// Kubernetes
	if getenv("KUBERNETES_SERVICE_HOST") != "" {
		return true, "KUBERNETES_SERVICE_HOST"
	}
	return false, ""
}

// checkSystem verifies the default work directory and reports sizing.
func checkSystem(result *doctorResult) {
	result.System.CPUs = runtime.NumCPU()
	result.System.AutoWorkers = officepool.ResolvePoolSize(0)

	// Instance profiles go to the temp directory by default
	tmpDir := os.TempDir()
	testFile := filepath.Join(tmpDir, "officepool-doctor-test")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		result.Errors = append(result.Errors,
			fmt.Sprintf("Temp directory not writable: %s", tmpDir))
	} else {
		_ = os.Remove(testFile)
		result.System.TempWritable = true
	}
}

// printDoctorResult outputs human-readable diagnostic results.
func printDoctorResult(w io.Writer, r *doctorResult) {
	fmt.Fprintln(w, "officepool doctor")
	fmt.Fprintln(w)

	// Office section
	fmt.Fprintln(w, "Office")
	if r.Office.Found {
		fmt.Fprintf(w, "  [OK] Found at %s\n", r.Office.Home)
		fmt.Fprintf(w, "  [OK] Executable: %s\n", r.Office.Executable)
		if r.Office.Version != "" {
			fmt.Fprintf(w, "  [OK] Version: %s\n", r.Office.Version)
		}
	} else {
		fmt.Fprintln(w, "  [ERROR] Not found")
	}
	fmt.Fprintln(w)

	// Process section
	fmt.Fprintln(w, "Process inspection")
	fmt.Fprintf(w, "  [OK] Strategy: %s\n", r.Process.Strategy)
	if r.Process.Enhanced {
		fmt.Fprintln(w, "  [OK] Native inspection: available")
	}
	fmt.Fprintln(w)

	// Environment section
	fmt.Fprintln(w, "Environment")
	fmt.Fprintf(w, "  [OK] Platform: %s/%s\n", r.Env.OS, r.Env.Arch)
	if r.Env.Container {
		fmt.Fprintf(w, "  [OK] Container: detected (%s)\n", r.Env.ContainerHint)
	}
	if r.Env.CI {
		fmt.Fprintln(w, "  [OK] CI: detected")
	}
	fmt.Fprintln(w)

	// System section
	fmt.Fprintln(w, "System")
	fmt.Fprintf(w, "  [OK] CPUs: %d (auto workers: %d)\n", r.System.CPUs, r.System.AutoWorkers)
	if r.System.TempWritable {
		fmt.Fprintln(w, "  [OK] Temp directory: writable")
	} else {
		fmt.Fprintln(w, "  [ERROR] Temp directory: not writable")
	}
	fmt.Fprintln(w)

	// Warnings
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w, "Warnings:")
		for _, warn := range r.Warnings {
			fmt.Fprintf(w, "  [WARN] %s\n", warn)
		}
		fmt.Fprintln(w)
	}

	// Errors
	if len(r.Errors) > 0 {
		fmt.Fprintln(w, "Errors:")
		for _, err := range r.Errors {
			fmt.Fprintf(w, "  [ERROR] %s\n", err)
		}
		fmt.Fprintln(w)
	}

	// Final status
	switch r.Status {
	case "ready":
		fmt.Fprintln(w, "Status: Ready to start workers")
	case "warnings":
		fmt.Fprintln(w, "Status: Ready with warnings")
	case "errors":
		fmt.Fprintln(w, "Status: Not ready (see errors above)")
	}
}
