package process

import (
	"bufio"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// runFunc executes a command and returns its standard output.
// Strategies take it as a field so tests can feed canned ps output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

// execRun is the production runFunc.
func execRun(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output() // #nosec G204 -- fixed ps/kill invocations
	if err != nil {
		return nil, fmt.Errorf("running %s: %w", name, err)
	}
	return out, nil
}

// psLine matches "<pid> <command line>" with optional leading padding.
var psLine = regexp.MustCompile(`^\s*(\d+)\s+(.*)$`)

// findInListing scans ps-style output and returns the first matching pid.
func findInListing(output []byte, q Query) (int, error) {
	sc := bufio.NewScanner(strings.NewReader(string(output)))
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for sc.Scan() {
		m := psLine.FindStringSubmatch(sc.Text())
		if m == nil {
			continue
		}
		if !q.Matches(m[2]) {
			continue
		}
		pid, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return pid, nil
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("reading process listing: %w", err)
	}
	return 0, ErrPIDNotFound
}

// withPrefix prepends the run-as arguments to a command.
func withPrefix(prefix []string, name string, args ...string) (string, []string) {
	if len(prefix) == 0 {
		return name, args
	}
	full := make([]string, 0, len(prefix)+1+len(args))
	full = append(full, prefix[1:]...)
	full = append(full, name)
	full = append(full, args...)
	return prefix[0], full
}
