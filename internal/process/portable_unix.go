//go:build !windows

package process

// listCommand prints one "<pid> <args>" line per process using POSIX ps
// options only.
var listCommand = []string{"ps", "-A", "-o", "pid=", "-o", "args="}
