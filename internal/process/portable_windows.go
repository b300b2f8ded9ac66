//go:build windows

package process

// listCommand is nil: tasklist does not expose command lines.
var listCommand []string
