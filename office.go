package officepool

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/alnah/go-officepool/internal/fileutil"
)

// officeHomeEnv overrides installation detection.
const officeHomeEnv = "OFFICE_HOME"

// profileMarker is the subdirectory every office user profile contains.
const profileMarker = "user"

// DefaultOfficeHome returns the first office installation found on this
// machine, or "" if none is found. OFFICE_HOME takes priority when it names a
// directory.
func DefaultOfficeHome() string {
	return defaultOfficeHome(runtime.GOOS, os.Getenv, func(home string) bool {
		return fileutil.FileExists(officeExecutable(runtime.GOOS, home))
	})
}

// defaultOfficeHome is DefaultOfficeHome as a pure function of platform facts.
func defaultOfficeHome(goos string, getenv func(string) string, installed func(string) bool) string {
	if home := getenv(officeHomeEnv); home != "" && fileutil.DirExists(home) {
		return home
	}
	for _, candidate := range officeHomeCandidates(goos, getenv) {
		if installed(candidate) {
			return candidate
		}
	}
	return ""
}

// officeHomeCandidates lists common installation roots, newest layouts first.
func officeHomeCandidates(goos string, getenv func(string) string) []string {
	switch goos {
	case "windows":
		var roots []string
		for _, env := range []string{"ProgramFiles", "ProgramFiles(x86)"} {
			if root := getenv(env); root != "" {
				roots = append(roots, root)
			}
		}
		var out []string
		for _, root := range roots {
			for _, name := range []string{"LibreOffice", "LibreOffice 7", "LibreOffice 4", "OpenOffice 4", "OpenOffice.org 3"} {
				out = append(out, filepath.Join(root, name))
			}
		}
		return out
	case "darwin":
		return []string{
			"/Applications/LibreOffice.app/Contents",
			"/Applications/OpenOffice.app/Contents",
			"/Applications/OpenOffice.org.app/Contents",
		}
	default:
		return []string{
			"/usr/lib/libreoffice",
			"/usr/lib64/libreoffice",
			"/opt/libreoffice",
			"/usr/local/lib/libreoffice",
			"/snap/libreoffice/current/lib/libreoffice",
			"/opt/openoffice4",
			"/usr/lib/openoffice",
		}
	}
}

// OfficeExecutable returns the path of the worker binary inside officeHome.
func OfficeExecutable(officeHome string) string {
	return officeExecutable(runtime.GOOS, officeHome)
}

func officeExecutable(goos, officeHome string) string {
	switch goos {
	case "darwin":
		return filepath.Join(officeHome, "MacOS", "soffice")
	case "windows":
		return filepath.Join(officeHome, "program", "soffice.exe")
	default:
		return filepath.Join(officeHome, "program", "soffice.bin")
	}
}

// isValidProfileDir reports whether dir looks like an office user profile.
func isValidProfileDir(dir string) bool {
	return fileutil.DirExists(filepath.Join(dir, profileMarker))
}
